// Package search merges anime metadata from AniList and Annict.
package search

import (
	"context"
	"strings"
	"time"

	"animelog/internal/apperr"
	"animelog/internal/ingestion/anilist"
	"animelog/internal/ingestion/annict"
	"animelog/internal/season"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	defaultTimeout  = 6 * time.Second
	searchPerSource = 10
	seasonPerSource = 50
)

type AniListAPI interface {
	SearchAnime(ctx context.Context, title string, perPage int) ([]anilist.Media, error)
	SeasonAnime(ctx context.Context, season string, year, page, perPage int) (*anilist.PageData, error)
}

type AnnictAPI interface {
	SearchWorks(ctx context.Context, title string, first int) ([]annict.Work, error)
	SeasonWorks(ctx context.Context, seasonCode string, first int) ([]annict.Work, error)
}

type Service struct {
	anilist AniListAPI
	annict  AnnictAPI
	timeout time.Duration
	logger  *zap.Logger
}

func NewService(al AniListAPI, an AnnictAPI, timeout time.Duration, logger *zap.Logger) *Service {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{anilist: al, annict: an, timeout: timeout, logger: logger}
}

// Search queries both upstreams concurrently. A blank query returns an empty
// result without calling out.
func (s *Service) Search(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &Result{Items: []Item{}}, nil
	}
	return s.fetch(ctx,
		func(ctx context.Context) ([]anilist.Media, error) {
			return s.anilist.SearchAnime(ctx, query, searchPerSource)
		},
		func(ctx context.Context) ([]annict.Work, error) {
			return s.annict.SearchWorks(ctx, query, searchPerSource)
		})
}

// Season lists one season, name in the "2024年秋" form.
func (s *Service) Season(ctx context.Context, name string) (*Result, error) {
	sn, ok := season.Parse(strings.TrimSpace(name))
	if !ok {
		return nil, apperr.Invalid("invalid season name: " + name)
	}
	kind, year := sn.AniList()
	return s.fetch(ctx,
		func(ctx context.Context) ([]anilist.Media, error) {
			page, err := s.anilist.SeasonAnime(ctx, kind, year, 1, seasonPerSource)
			if err != nil {
				return nil, err
			}
			return page.Media, nil
		},
		func(ctx context.Context) ([]annict.Work, error) {
			return s.annict.SeasonWorks(ctx, sn.AnnictCode(), seasonPerSource)
		})
}

func (s *Service) fetch(
	ctx context.Context,
	fetchAniList func(context.Context) ([]anilist.Media, error),
	fetchAnnict func(context.Context) ([]annict.Work, error),
) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		media              []anilist.Media
		works              []annict.Work
		anilistErr, annErr error
		g                  errgroup.Group
	)
	// failures are kept per side, one upstream must not cancel the other
	g.Go(func() error {
		media, anilistErr = fetchAniList(ctx)
		return nil
	})
	g.Go(func() error {
		works, annErr = fetchAnnict(ctx)
		return nil
	})
	_ = g.Wait()

	if anilistErr != nil && annErr != nil {
		s.logger.Error("all search sources failed",
			zap.NamedError("anilist", anilistErr),
			zap.NamedError("annict", annErr))
		return nil, apperr.Wrap(apperr.KindUpstream, "search failed on every source", anilistErr)
	}

	result := &Result{Items: Merge(works, media)}
	if anilistErr != nil {
		s.logger.Warn("anilist search failed", zap.Error(anilistErr))
		result.Partial = true
		result.Failed = append(result.Failed, SourceAniList)
	}
	if annErr != nil {
		s.logger.Warn("annict search failed", zap.Error(annErr))
		result.Partial = true
		result.Failed = append(result.Failed, SourceAnnict)
	}
	return result, nil
}
