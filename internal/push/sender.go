// Package push delivers Web Push messages through webpush-go, which handles
// RFC 8291 payload encryption and VAPID authentication.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"
)

// ErrSubscriptionGone is returned when the push service reports the
// subscription as expired or unknown (404/410). Callers delete it.
var ErrSubscriptionGone = errors.New("push subscription gone")

const defaultTTL = 24 * time.Hour

type Subscription struct {
	Endpoint string
	P256dh   string
	Auth     string
}

// Message is the JSON payload the service worker receives.
type Message struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

type Sender interface {
	Send(ctx context.Context, sub Subscription, msg Message) error
}

type WebPushSender struct {
	vapid      *VAPID
	httpClient *http.Client
	ttl        time.Duration
	logger     *zap.Logger
}

func NewWebPushSender(vapid *VAPID, logger *zap.Logger) *WebPushSender {
	return &WebPushSender{
		vapid:      vapid,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		ttl:        defaultTTL,
		logger:     logger,
	}
}

func (s *WebPushSender) Send(ctx context.Context, sub Subscription, msg Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
	}, &webpush.Options{
		HTTPClient:      s.httpClient,
		Subscriber:      s.vapid.subscriber(),
		TTL:             int(s.ttl.Seconds()),
		Urgency:         webpush.UrgencyNormal,
		VAPIDPublicKey:  s.vapid.publicKey,
		VAPIDPrivateKey: s.vapid.privateKey,
	})
	if err != nil {
		return fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrSubscriptionGone
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		s.logger.Debug("push delivered", zap.Int("status", resp.StatusCode))
		return nil
	}
	return fmt.Errorf("push service returned HTTP %d", resp.StatusCode)
}
