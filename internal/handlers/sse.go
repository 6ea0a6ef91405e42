package handlers

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/realtime"
	"github.com/yungbote/homeslice-backend/internal/services"
	"github.com/yungbote/homeslice-backend/internal/types"
)

// SSEHandler owns the live client registry for the stream and the
// subscribe/unsubscribe side channel.
type SSEHandler struct {
	log   *logger.Logger
	hub   *realtime.Hub
	guard services.Guard

	mu      sync.Mutex
	clients map[uuid.UUID]*realtime.Client
}

func NewSSEHandler(log *logger.Logger, hub *realtime.Hub, guard services.Guard) *SSEHandler {
	return &SSEHandler{
		log:     log.With("handler", "SSEHandler"),
		hub:     hub,
		guard:   guard,
		clients: make(map[uuid.UUID]*realtime.Client),
	}
}

// Stream opens the event stream. The caller's own user channel is always
// attached; extra channels may be requested via ?channels=a,b and are
// authorized individually.
func (h *SSEHandler) Stream(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	client := h.hub.NewClient(userID)
	h.hub.Subscribe(client, realtime.UserChannel(userID))
	if raw := c.Query("channels"); raw != "" {
		for _, channel := range strings.Split(raw, ",") {
			channel = strings.TrimSpace(channel)
			if channel == "" {
				continue
			}
			if err := h.authorizeChannel(c, userID, channel); err != nil {
				h.hub.CloseClient(client)
				Fail(c, h.log, err)
				return
			}
			h.hub.Subscribe(client, channel)
		}
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	h.mu.Unlock()

	// Let the client learn its id so it can drive subscribe/unsubscribe.
	c.Writer.Header().Set("X-Client-ID", client.ID.String())

	defer func() {
		h.mu.Lock()
		delete(h.clients, client.ID)
		h.mu.Unlock()
		h.hub.CloseClient(client)
	}()
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}

type sseChannelRequest struct {
	ClientID uuid.UUID `json:"client_id"`
	Channel  string    `json:"channel"`
}

func (h *SSEHandler) Subscribe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var req sseChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	client := h.lookup(req.ClientID, userID)
	if client == nil {
		Fail(c, h.log, apierr.NotFound("client not found"))
		return
	}
	if err := h.authorizeChannel(c, userID, req.Channel); err != nil {
		Fail(c, h.log, err)
		return
	}
	h.hub.Subscribe(client, req.Channel)
	c.Status(http.StatusNoContent)
}

func (h *SSEHandler) Unsubscribe(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	var req sseChannelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	client := h.lookup(req.ClientID, userID)
	if client == nil {
		Fail(c, h.log, apierr.NotFound("client not found"))
		return
	}
	h.hub.Unsubscribe(client, req.Channel)
	c.Status(http.StatusNoContent)
}

func (h *SSEHandler) lookup(clientID, userID uuid.UUID) *realtime.Client {
	h.mu.Lock()
	defer h.mu.Unlock()
	client, ok := h.clients[clientID]
	if !ok || client.UserID != userID {
		return nil
	}
	return client
}

func (h *SSEHandler) authorizeChannel(c *gin.Context, userID uuid.UUID, channel string) error {
	switch {
	case channel == realtime.UserChannel(userID):
		return nil
	case strings.HasPrefix(channel, "household_"):
		householdID, err := uuid.Parse(strings.TrimPrefix(channel, "household_"))
		if err != nil {
			return apierr.BadRequest("invalid channel")
		}
		if _, err := h.guard.VerifyMembership(c.Request.Context(), nil, householdID, userID, types.RoleAdmin, types.RoleMember); err != nil {
			return err
		}
		return nil
	default:
		return apierr.BadRequest("invalid channel")
	}
}
