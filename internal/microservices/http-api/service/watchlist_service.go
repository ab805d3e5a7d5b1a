package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"
	"animelog/internal/season"

	"go.uber.org/zap"
)

var (
	ErrAniListIDRequired   = apperr.Invalid("anilist_id is required")
	ErrInvalidStatus       = apperr.Invalid("status must be planned, watching or completed")
	ErrInvalidBroadcastDay = apperr.Invalid("broadcast_day must be between 0 and 6")
	ErrInvalidBroadcastAt  = apperr.Invalid("broadcast_time must be HH:MM")
	ErrInvalidTargetSeason = apperr.Invalid("target_season must be 冬, 春, 夏 or 秋")
)

var broadcastTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type WatchlistInput struct {
	AniListID      int
	Title          string
	Image          string
	Status         string
	TargetSeason   string
	TargetYear     *int
	BroadcastDay   *int
	BroadcastTime  string
	StreamingSites []string
	Notify         bool
}

// WatchlistPatch updates only the fields that are set.
type WatchlistPatch struct {
	Status         *string
	TargetSeason   *string
	TargetYear     *int
	ClearTarget    bool
	BroadcastDay   *int
	BroadcastTime  *string
	StreamingSites []string
	Notify         *bool
}

// BulkResult reports one item of a bulk mark-watched call.
type BulkResult struct {
	ID      string `json:"id"`
	AnimeID string `json:"anime_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

type WatchlistService interface {
	Add(ctx context.Context, st storage.Store, in WatchlistInput) (item *models.WatchlistItem, created bool, err error)
	List(ctx context.Context, st storage.Store, status string) ([]models.WatchlistItem, error)
	Update(ctx context.Context, st storage.Store, id string, patch WatchlistPatch) (*models.WatchlistItem, error)
	Remove(ctx context.Context, st storage.Store, id string) error
	MarkWatched(ctx context.Context, st storage.Store, id, seasonName string) (*models.Anime, error)
	BulkMarkWatched(ctx context.Context, st storage.Store, ids []string, seasonName string) []BulkResult
}

type watchlistService struct {
	logger *zap.Logger
	now    func() time.Time
}

func NewWatchlistService(logger *zap.Logger) WatchlistService {
	return &watchlistService{logger: logger, now: time.Now}
}

func (s *watchlistService) Add(ctx context.Context, st storage.Store, in WatchlistInput) (*models.WatchlistItem, bool, error) {
	if in.AniListID <= 0 {
		return nil, false, ErrAniListIDRequired
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return nil, false, ErrTitleRequired
	}
	if !models.IsValidStatus(in.Status) {
		return nil, false, ErrInvalidStatus
	}
	if err := validateSchedule(in.TargetSeason, in.BroadcastDay, in.BroadcastTime); err != nil {
		return nil, false, err
	}

	item := &models.WatchlistItem{
		AniListID:      in.AniListID,
		Title:          in.Title,
		Image:          in.Image,
		Status:         in.Status,
		TargetSeason:   in.TargetSeason,
		TargetYear:     in.TargetYear,
		BroadcastDay:   in.BroadcastDay,
		BroadcastTime:  in.BroadcastTime,
		StreamingSites: in.StreamingSites,
		Notify:         in.Notify,
	}
	stored, created, err := st.AddWatchlistItem(ctx, item)
	if err != nil {
		s.logger.Error("failed to add watchlist item", zap.String("owner", st.Owner()), zap.Int("anilist_id", in.AniListID), zap.Error(err))
		return nil, false, err
	}
	return stored, created, nil
}

// List returns every item, or only those whose effective status equals
// status when it is set.
func (s *watchlistService) List(ctx context.Context, st storage.Store, status string) ([]models.WatchlistItem, error) {
	if status != "" && !models.IsValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	items, err := st.ListWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	if status == "" {
		return items, nil
	}
	filtered := make([]models.WatchlistItem, 0, len(items))
	for _, it := range items {
		if it.EffectiveStatus() == status {
			filtered = append(filtered, it)
		}
	}
	return filtered, nil
}

func (s *watchlistService) Update(ctx context.Context, st storage.Store, id string, p WatchlistPatch) (*models.WatchlistItem, error) {
	item, err := st.GetWatchlistItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if p.Status != nil {
		if !models.IsValidStatus(*p.Status) {
			return nil, ErrInvalidStatus
		}
		item.Status = *p.Status
	}
	if p.ClearTarget {
		item.TargetSeason = ""
		item.TargetYear = nil
	}
	if p.TargetSeason != nil {
		item.TargetSeason = *p.TargetSeason
	}
	if p.TargetYear != nil {
		item.TargetYear = p.TargetYear
	}
	if p.BroadcastDay != nil {
		item.BroadcastDay = p.BroadcastDay
	}
	if p.BroadcastTime != nil {
		item.BroadcastTime = *p.BroadcastTime
	}
	if p.StreamingSites != nil {
		item.StreamingSites = p.StreamingSites
	}
	if p.Notify != nil {
		item.Notify = *p.Notify
	}
	if err := validateSchedule(item.TargetSeason, item.BroadcastDay, item.BroadcastTime); err != nil {
		return nil, err
	}

	if err := st.UpdateWatchlistItem(ctx, item); err != nil {
		s.logger.Error("failed to update watchlist item", zap.String("owner", st.Owner()), zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return item, nil
}

func (s *watchlistService) Remove(ctx context.Context, st storage.Store, id string) error {
	return st.RemoveWatchlistItem(ctx, id)
}

// MarkWatched logs the item as an anime and then drops it from the
// watchlist. The two writes are independent: when the removal fails the new
// anime is kept and returned together with the error.
func (s *watchlistService) MarkWatched(ctx context.Context, st storage.Store, id, seasonName string) (*models.Anime, error) {
	item, err := st.GetWatchlistItem(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.targetSeason(*item, seasonName)
	if err != nil {
		return nil, err
	}

	anilistID := item.AniListID
	anime := &models.Anime{
		Title:      item.Title,
		Image:      item.Image,
		Watched:    true,
		SeasonName: name,
		AniListID:  &anilistID,
		Tags:       []string{},
		Studios:    []string{},
		Quotes:     []models.Quote{},
	}
	if err := st.SaveAnime(ctx, anime); err != nil {
		s.logger.Error("failed to log watched anime", zap.String("owner", st.Owner()), zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if err := st.RemoveWatchlistItem(ctx, id); err != nil {
		s.logger.Error("anime logged but watchlist item not removed",
			zap.String("owner", st.Owner()), zap.String("id", id), zap.String("anime_id", anime.ID), zap.Error(err))
		return anime, fmt.Errorf("remove watchlist item %s: %w", id, err)
	}
	return anime, nil
}

func (s *watchlistService) BulkMarkWatched(ctx context.Context, st storage.Store, ids []string, seasonName string) []BulkResult {
	results := make([]BulkResult, 0, len(ids))
	for _, id := range ids {
		res := BulkResult{ID: id}
		anime, err := s.MarkWatched(ctx, st, id, seasonName)
		if anime != nil {
			res.AnimeID = anime.ID
		}
		if err != nil {
			res.Error = err.Error()
		}
		results = append(results, res)
	}
	return results
}

// targetSeason picks the explicit name, then the item's target season, then
// the current season.
func (s *watchlistService) targetSeason(item models.WatchlistItem, explicit string) (string, error) {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if explicit != season.Unclassified {
			if _, ok := season.Parse(explicit); !ok {
				return "", ErrInvalidSeason
			}
		}
		return explicit, nil
	}
	if item.TargetYear != nil && item.TargetSeason != "" {
		if name := season.FromParts(*item.TargetYear, item.TargetSeason); name != season.Unclassified {
			return name, nil
		}
	}
	return season.Current(s.now()), nil
}

func validateSchedule(targetSeason string, day *int, at string) error {
	if targetSeason != "" {
		if _, ok := season.ParseKind(targetSeason); !ok {
			return ErrInvalidTargetSeason
		}
	}
	if day != nil && (*day < 0 || *day > 6) {
		return ErrInvalidBroadcastDay
	}
	if at != "" && !broadcastTimePattern.MatchString(at) {
		return ErrInvalidBroadcastAt
	}
	return nil
}
