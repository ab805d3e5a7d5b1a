// Package reminder sends Web Push reminders shortly before the weekly
// broadcast of watchlist items that have notify turned on.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"animelog/internal/microservices/http-api/models"
	"animelog/internal/push"
	"animelog/internal/season"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// sent entries older than this are dropped
const sentRetention = 48 * time.Hour

type ItemSource interface {
	ListScheduled(ctx context.Context) ([]models.WatchlistItem, error)
}

type SubscriptionStore interface {
	GetSettings(ctx context.Context, userID string) (*models.NotificationSettings, error)
	ListSubscriptions(ctx context.Context, userID string) ([]models.PushSubscription, error)
	DeleteSubscriptionByEndpoint(ctx context.Context, endpoint string) error
}

type Scheduler struct {
	items    ItemSource
	subs     SubscriptionStore
	sender   push.Sender
	pool     *WorkerPool
	interval time.Duration
	logger   *zap.Logger

	mu   sync.Mutex
	sent map[string]time.Time
}

func NewScheduler(items ItemSource, subs SubscriptionStore, sender push.Sender, pool *WorkerPool, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval < time.Minute {
		interval = time.Minute
	}
	return &Scheduler{
		items:    items,
		subs:     subs,
		sender:   sender,
		pool:     pool,
		interval: interval,
		logger:   logger,
		sent:     make(map[string]time.Time),
	}
}

// Run ticks every interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if _, err := s.Tick(ctx, time.Now()); err != nil {
		s.logger.Error("reminder tick failed", zap.Error(err))
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if _, err := s.Tick(ctx, now); err != nil {
				s.logger.Error("reminder tick failed", zap.Error(err))
			}
		}
	}
}

// Tick queues reminders whose fire time falls in the window starting at now
// and returns how many sends were queued.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) (int, error) {
	items, err := s.items.ListScheduled(ctx)
	if err != nil {
		return 0, fmt.Errorf("list scheduled items: %w", err)
	}

	windowStart := now.Truncate(time.Minute)
	windowEnd := windowStart.Add(s.interval)
	settingsByUser := make(map[string]*models.NotificationSettings)
	queued := 0

	s.prune(now)

	for _, item := range items {
		settings, ok := settingsByUser[item.UserID]
		if !ok {
			settings, err = s.settings(ctx, item.UserID)
			if err != nil {
				s.logger.Warn("failed to load notification settings", zap.String("user_id", item.UserID), zap.Error(err))
				continue
			}
			settingsByUser[item.UserID] = settings
		}
		if settings == nil || !settings.Enabled {
			continue
		}

		lead := time.Duration(settings.MinutesBefore) * time.Minute
		broadcast, ok := dueBroadcast(item, lead, windowStart, windowEnd)
		if !ok || s.alreadySent(item.ID, broadcast) {
			continue
		}

		subs, err := s.subs.ListSubscriptions(ctx, item.UserID)
		if err != nil {
			s.logger.Warn("failed to list subscriptions", zap.String("user_id", item.UserID), zap.Error(err))
			continue
		}
		if !s.markSent(item.ID, broadcast) {
			continue
		}
		msg := reminderMessage(item, settings.MinutesBefore)
		for _, sub := range subs {
			if s.pool.Submit(s.sendTask(sub, msg)) {
				queued++
			}
		}
	}
	return queued, nil
}

func (s *Scheduler) settings(ctx context.Context, userID string) (*models.NotificationSettings, error) {
	settings, err := s.subs.GetSettings(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return settings, err
}

func (s *Scheduler) sendTask(sub models.PushSubscription, msg push.Message) Task {
	return func(ctx context.Context) error {
		err := s.sender.Send(ctx, push.Subscription{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}, msg)
		if errors.Is(err, push.ErrSubscriptionGone) {
			s.logger.Info("removing expired subscription", zap.String("user_id", sub.UserID))
			return s.subs.DeleteSubscriptionByEndpoint(ctx, sub.Endpoint)
		}
		return err
	}
}

func sentKey(itemID string, broadcast time.Time) string {
	return itemID + "@" + strconv.FormatInt(broadcast.Unix(), 10)
}

func (s *Scheduler) alreadySent(itemID string, broadcast time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, dup := s.sent[sentKey(itemID, broadcast)]
	return dup
}

// markSent reports false when this broadcast was already handled.
func (s *Scheduler) markSent(itemID string, broadcast time.Time) bool {
	key := sentKey(itemID, broadcast)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.sent[key]; dup {
		return false
	}
	s.sent[key] = broadcast
	return true
}

func (s *Scheduler) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, at := range s.sent {
		if now.Sub(at) > sentRetention {
			delete(s.sent, k)
		}
	}
}

// dueBroadcast finds the broadcast whose reminder fires in [start, end).
func dueBroadcast(item models.WatchlistItem, lead time.Duration, start, end time.Time) (time.Time, bool) {
	if item.BroadcastDay == nil {
		return time.Time{}, false
	}
	hour, minute, ok := ParseClock(item.BroadcastTime)
	if !ok {
		return time.Time{}, false
	}

	local := start.In(season.JST)
	offset := *item.BroadcastDay - int(local.Weekday())
	base := time.Date(local.Year(), local.Month(), local.Day()+offset, hour, minute, 0, 0, season.JST)

	// lead can reach back into the previous week
	for _, weeks := range []int{-1, 0, 1, 2} {
		broadcast := base.AddDate(0, 0, 7*weeks)
		fire := broadcast.Add(-lead)
		if !fire.Before(start) && fire.Before(end) {
			return broadcast, true
		}
	}
	return time.Time{}, false
}

// ParseClock parses "HH:MM" in 24 hour form.
func ParseClock(v string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(strings.TrimSpace(v), ":")
	if !found {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 || len(m) != 2 {
		return 0, 0, false
	}
	return hour, minute, true
}

func reminderMessage(item models.WatchlistItem, minutesBefore int) push.Message {
	body := "まもなく放送開始"
	if minutesBefore > 0 {
		body = fmt.Sprintf("%d分後に放送開始", minutesBefore)
	}
	if len(item.StreamingSites) > 0 {
		body += " (" + strings.Join(item.StreamingSites, ", ") + ")"
	}
	return push.Message{
		Title: item.Title,
		Body:  body,
		URL:   "/watchlist",
		Tag:   "reminder-" + item.ID,
	}
}
