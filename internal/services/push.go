package services

import (
	"context"
	"encoding/json"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/homeslice-backend/internal/platform/logger"
	"github.com/yungbote/homeslice-backend/internal/repos"
	"github.com/yungbote/homeslice-backend/internal/types"
)

type PushConfig struct {
	VAPIDPublicKey  string
	VAPIDPrivateKey string
	Subscriber      string
}

// PushService fans a notification out to every web-push subscription the
// recipient has registered. Delivery is best effort and never fails the
// originating operation; subscriptions the push provider reports gone are
// pruned.
type PushService interface {
	Deliver(ctx context.Context, notification *types.Notification)
	VAPIDPublicKey() string
}

type pushService struct {
	log              *logger.Logger
	cfg              PushConfig
	notificationRepo repos.NotificationRepo
}

func NewPushService(log *logger.Logger, cfg PushConfig, notificationRepo repos.NotificationRepo) PushService {
	return &pushService{
		log:              log.With("service", "PushService"),
		cfg:              cfg,
		notificationRepo: notificationRepo,
	}
}

func (s *pushService) VAPIDPublicKey() string { return s.cfg.VAPIDPublicKey }

type pushPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Tag   string `json:"tag"`
}

func (s *pushService) Deliver(ctx context.Context, notification *types.Notification) {
	if s.cfg.VAPIDPublicKey == "" || s.cfg.VAPIDPrivateKey == "" {
		return
	}
	settings, err := s.notificationRepo.GetSettings(ctx, nil, &notification.UserID, nil)
	if err == nil && settings != nil && !settings.PushEnabled {
		return
	}
	subs, err := s.notificationRepo.ListPushSubscriptions(ctx, nil, notification.UserID)
	if err != nil {
		s.log.Warn("push subscription lookup failed", "user_id", notification.UserID, "error", err)
		return
	}
	if len(subs) == 0 {
		return
	}
	payload, err := json.Marshal(pushPayload{
		Title: "Homeslice",
		Body:  notification.Message,
		Tag:   notification.Type,
	})
	if err != nil {
		s.log.Warn("push payload marshal failed", "error", err)
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sub := range subs {
		g.Go(func() error {
			s.send(gctx, sub, payload)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *pushService) send(ctx context.Context, sub *types.PushSubscription, payload []byte) {
	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256dhKey,
			Auth:   sub.AuthKey,
		},
	}, &webpush.Options{
		Subscriber:      s.cfg.Subscriber,
		VAPIDPublicKey:  s.cfg.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.VAPIDPrivateKey,
		TTL:             60,
	})
	if err != nil {
		s.log.Warn("web push send failed", "endpoint", sub.Endpoint, "error", err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusGone || resp.StatusCode == http.StatusNotFound {
		if delErr := s.notificationRepo.DeletePushSubscription(ctx, nil, sub.ID); delErr != nil {
			s.log.Warn("stale push subscription cleanup failed", "id", sub.ID, "error", delErr)
		}
	}
}
