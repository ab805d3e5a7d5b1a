package storage

import (
	"context"
	"errors"

	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

// HostedStore serves a logged-in user from the relational backend. Favorites,
// dismissed suggestions, the season marker and preferences stay in the
// key-value tier under the user's prefix.
type HostedStore struct {
	blobs
	userID    string
	animes    repository.AnimeRepository
	watchlist repository.WatchlistRepository
}

func NewHostedStore(animes repository.AnimeRepository, watchlist repository.WatchlistRepository, kv kvstore.Store, userID string) *HostedStore {
	return &HostedStore{
		blobs:     blobs{kv: kv, prefix: UserKeyPrefix(userID)},
		userID:    userID,
		animes:    animes,
		watchlist: watchlist,
	}
}

func (s *HostedStore) Tier() Tier { return TierHosted }
func (s *HostedStore) Owner() string { return s.userID }

func (s *HostedStore) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	return s.animes.ListByUser(ctx, s.userID)
}

func (s *HostedStore) GetAnime(ctx context.Context, id string) (*models.Anime, error) {
	a, err := s.animes.GetByID(ctx, s.userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnimeNotFound
	}
	return a, err
}

func (s *HostedStore) SaveAnime(ctx context.Context, anime *models.Anime) error {
	anime.UserID = s.userID
	return s.animes.Save(ctx, anime)
}

func (s *HostedStore) DeleteAnime(ctx context.Context, id string) error {
	err := s.animes.Delete(ctx, s.userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrAnimeNotFound
	}
	return err
}

func (s *HostedStore) ListWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	return s.watchlist.ListByUser(ctx, s.userID)
}

func (s *HostedStore) GetWatchlistItem(ctx context.Context, id string) (*models.WatchlistItem, error) {
	item, err := s.watchlist.GetByID(ctx, s.userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrWatchlistItemNotFound
	}
	return item, err
}

func (s *HostedStore) AddWatchlistItem(ctx context.Context, item *models.WatchlistItem) (*models.WatchlistItem, bool, error) {
	existing, err := s.watchlist.FindByAniListID(ctx, s.userID, item.AniListID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	item.UserID = s.userID
	if err := s.watchlist.Create(ctx, item); err != nil {
		// lost a race against a concurrent add of the same id
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if existing, findErr := s.watchlist.FindByAniListID(ctx, s.userID, item.AniListID); findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}
	return item, true, nil
}

func (s *HostedStore) UpdateWatchlistItem(ctx context.Context, item *models.WatchlistItem) error {
	if _, err := s.GetWatchlistItem(ctx, item.ID); err != nil {
		return err
	}
	item.UserID = s.userID
	return s.watchlist.Update(ctx, item)
}

func (s *HostedStore) RemoveWatchlistItem(ctx context.Context, id string) error {
	err := s.watchlist.Delete(ctx, s.userID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrWatchlistItemNotFound
	}
	return err
}
