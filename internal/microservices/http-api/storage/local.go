package storage

import (
	"context"
	"time"

	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/models"

	"github.com/google/uuid"
)

// LocalStore keeps a device's whole log as JSON blobs, one per feature.
type LocalStore struct {
	blobs
	deviceID string
}

func NewLocalStore(kv kvstore.Store, deviceID string) *LocalStore {
	return &LocalStore{
		blobs:    blobs{kv: kv, prefix: deviceKeyPrefix(deviceID)},
		deviceID: deviceID,
	}
}

func (s *LocalStore) Tier() Tier { return TierLocal }
func (s *LocalStore) Owner() string { return s.deviceID }

func (s *LocalStore) ListAnimes(ctx context.Context) ([]models.Anime, error) {
	animes := []models.Anime{}
	if _, err := kvstore.GetJSON(ctx, s.kv, s.key(featureAnimes), &animes); err != nil {
		return nil, err
	}
	return animes, nil
}

func (s *LocalStore) GetAnime(ctx context.Context, id string) (*models.Anime, error) {
	animes, err := s.ListAnimes(ctx)
	if err != nil {
		return nil, err
	}
	for i := range animes {
		if animes[i].ID == id {
			return &animes[i], nil
		}
	}
	return nil, ErrAnimeNotFound
}

func (s *LocalStore) SaveAnime(ctx context.Context, anime *models.Anime) error {
	unlock := lockOwner(s.prefix)
	defer unlock()

	animes, err := s.ListAnimes(ctx)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if anime.ID == "" {
		anime.ID = uuid.New().String()
	}
	if anime.CreatedAt.IsZero() {
		anime.CreatedAt = now
	}
	anime.UpdatedAt = now

	replaced := false
	for i := range animes {
		if animes[i].ID == anime.ID {
			animes[i] = *anime
			replaced = true
			break
		}
	}
	if !replaced {
		animes = append(animes, *anime)
	}
	return kvstore.SetJSON(ctx, s.kv, s.key(featureAnimes), animes)
}

func (s *LocalStore) DeleteAnime(ctx context.Context, id string) error {
	unlock := lockOwner(s.prefix)
	defer unlock()

	animes, err := s.ListAnimes(ctx)
	if err != nil {
		return err
	}
	for i := range animes {
		if animes[i].ID == id {
			animes = append(animes[:i], animes[i+1:]...)
			return kvstore.SetJSON(ctx, s.kv, s.key(featureAnimes), animes)
		}
	}
	return ErrAnimeNotFound
}

func (s *LocalStore) ListWatchlist(ctx context.Context) ([]models.WatchlistItem, error) {
	items := []models.WatchlistItem{}
	if _, err := kvstore.GetJSON(ctx, s.kv, s.key(featureWatchlist), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *LocalStore) GetWatchlistItem(ctx context.Context, id string) (*models.WatchlistItem, error) {
	items, err := s.ListWatchlist(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrWatchlistItemNotFound
}

func (s *LocalStore) AddWatchlistItem(ctx context.Context, item *models.WatchlistItem) (*models.WatchlistItem, bool, error) {
	unlock := lockOwner(s.prefix)
	defer unlock()

	items, err := s.ListWatchlist(ctx)
	if err != nil {
		return nil, false, err
	}
	for i := range items {
		if items[i].AniListID == item.AniListID {
			existing := items[i]
			return &existing, false, nil
		}
	}

	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	// newest first, same as the hosted listing
	items = append([]models.WatchlistItem{*item}, items...)
	if err := kvstore.SetJSON(ctx, s.kv, s.key(featureWatchlist), items); err != nil {
		return nil, false, err
	}
	return item, true, nil
}

func (s *LocalStore) UpdateWatchlistItem(ctx context.Context, item *models.WatchlistItem) error {
	unlock := lockOwner(s.prefix)
	defer unlock()

	items, err := s.ListWatchlist(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == item.ID {
			items[i] = *item
			return kvstore.SetJSON(ctx, s.kv, s.key(featureWatchlist), items)
		}
	}
	return ErrWatchlistItemNotFound
}

func (s *LocalStore) RemoveWatchlistItem(ctx context.Context, id string) error {
	unlock := lockOwner(s.prefix)
	defer unlock()

	items, err := s.ListWatchlist(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if items[i].ID == id {
			items = append(items[:i], items[i+1:]...)
			return kvstore.SetJSON(ctx, s.kv, s.key(featureWatchlist), items)
		}
	}
	return ErrWatchlistItemNotFound
}
