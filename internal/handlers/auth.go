package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/homeslice-backend/internal/platform/apierr"
	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/services"
)

const (
	refreshCookieName = "refresh_token"
	// The refresh token is only ever read by the refresh endpoint, so the
	// cookie never travels with any other request.
	refreshCookiePath = "/api/v1/auth/refresh"
)

type AuthHandler struct {
	log  *logger.Logger
	auth services.AuthService
}

func NewAuthHandler(log *logger.Logger, auth services.AuthService) *AuthHandler {
	return &AuthHandler{log: log.With("handler", "AuthHandler"), auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var input services.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	h.setRefreshCookie(c, result.RefreshToken)
	Respond(c, http.StatusCreated, result)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var input services.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		Fail(c, h.log, apierr.BadRequest("invalid request body"))
		return
	}
	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	h.setRefreshCookie(c, result.RefreshToken)
	Respond(c, http.StatusOK, result)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshCookieName)
	if err != nil || refreshToken == "" {
		var body struct {
			RefreshToken string `json:"refresh_token"`
		}
		if bindErr := c.ShouldBindJSON(&body); bindErr == nil {
			refreshToken = body.RefreshToken
		}
	}
	result, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	h.setRefreshCookie(c, result.RefreshToken)
	Respond(c, http.StatusOK, result)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		Fail(c, h.log, err)
		return
	}
	if err := h.auth.Logout(c.Request.Context(), userID); err != nil {
		Fail(c, h.log, err)
		return
	}
	c.SetCookie(refreshCookieName, "", -1, refreshCookiePath, "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(refreshCookieName, token, int((30 * 24 * 3600)), refreshCookiePath, "", false, true)
}
