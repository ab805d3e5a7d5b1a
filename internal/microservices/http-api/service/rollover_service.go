package service

import (
	"context"
	"fmt"
	"time"

	"animelog/internal/apperr"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/storage"
	"animelog/internal/season"

	"go.uber.org/zap"
)

// Rollover choices for planned items left over from the previous season.
const (
	ChoiceBacklog  = "backlog"
	ChoiceWatching = "watching"
	ChoiceDelete   = "delete"
)

var ErrInvalidChoice = apperr.Invalid("choice must be backlog, watching or delete")

// RolloverResult tells the client whether to show the season-change dialog.
type RolloverResult struct {
	Show          bool                   `json:"show"`
	CurrentSeason string                 `json:"current_season"`
	LastSeason    string                 `json:"last_season,omitempty"`
	Items         []models.WatchlistItem `json:"items"`
}

type RolloverService interface {
	Check(ctx context.Context, st storage.Store, now time.Time) (*RolloverResult, error)
	Resolve(ctx context.Context, st storage.Store, now time.Time, choice string) (affected int, err error)
}

type rolloverService struct {
	logger *zap.Logger
}

func NewRolloverService(logger *zap.Logger) RolloverService {
	return &rolloverService{logger: logger}
}

// Check compares the stored marker with the current season. The marker is
// written right away unless the dialog has to be shown, in which case it is
// written by Resolve.
func (s *rolloverService) Check(ctx context.Context, st storage.Store, now time.Time) (*RolloverResult, error) {
	current := season.Current(now)
	marker, err := st.SeasonMarker(ctx)
	if err != nil {
		return nil, err
	}

	res := &RolloverResult{CurrentSeason: current, LastSeason: marker, Items: []models.WatchlistItem{}}
	if marker == current {
		return res, nil
	}

	if marker != "" {
		planned, err := s.planned(ctx, st)
		if err != nil {
			return nil, err
		}
		if len(planned) > 0 {
			res.Show = true
			res.Items = planned
			return res, nil
		}
	}

	if err := st.SetSeasonMarker(ctx, current); err != nil {
		s.logger.Error("failed to write season marker", zap.String("owner", st.Owner()), zap.Error(err))
		return nil, err
	}
	return res, nil
}

// Resolve applies choice to every planned item and then writes the marker.
// On failure the marker stays unwritten so the dialog shows again.
func (s *rolloverService) Resolve(ctx context.Context, st storage.Store, now time.Time, choice string) (int, error) {
	switch choice {
	case ChoiceBacklog, ChoiceWatching, ChoiceDelete:
	default:
		return 0, ErrInvalidChoice
	}

	planned, err := s.planned(ctx, st)
	if err != nil {
		return 0, err
	}

	for i := range planned {
		item := planned[i]
		switch choice {
		case ChoiceBacklog:
			item.TargetSeason = ""
			item.TargetYear = nil
			err = st.UpdateWatchlistItem(ctx, &item)
		case ChoiceWatching:
			item.Status = models.StatusWatching
			err = st.UpdateWatchlistItem(ctx, &item)
		case ChoiceDelete:
			err = st.RemoveWatchlistItem(ctx, item.ID)
		}
		if err != nil {
			s.logger.Error("rollover failed", zap.String("owner", st.Owner()), zap.String("choice", choice),
				zap.String("id", item.ID), zap.Error(err))
			return i, fmt.Errorf("rollover %s item %s: %w", choice, item.ID, err)
		}
	}

	if err := st.SetSeasonMarker(ctx, season.Current(now)); err != nil {
		return len(planned), err
	}
	return len(planned), nil
}

func (s *rolloverService) planned(ctx context.Context, st storage.Store) ([]models.WatchlistItem, error) {
	items, err := st.ListWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	planned := make([]models.WatchlistItem, 0, len(items))
	for _, it := range items {
		if it.EffectiveStatus() == models.StatusPlanned {
			planned = append(planned, it)
		}
	}
	return planned, nil
}
