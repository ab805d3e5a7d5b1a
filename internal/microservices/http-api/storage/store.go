// Package storage is the persistence adapter behind every AnimeLog feature.
// Store has two implementations: LocalStore keeps JSON blobs in the key-value
// tier for anonymous devices, HostedStore uses the relational backend for
// logged-in users. Callers pick one per request through Resolver.
package storage

import (
	"context"
	"fmt"
	"sync"

	"animelog/internal/apperr"
	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/repository"
)

type Tier string

const (
	TierLocal  Tier = "local"
	TierHosted Tier = "hosted"
)

var (
	ErrAnimeNotFound         = apperr.NotFound("anime not found")
	ErrWatchlistItemNotFound = apperr.NotFound("watchlist item not found")
)

// Store is scoped to one owner (a device or a user).
type Store interface {
	Tier() Tier
	Owner() string

	ListAnimes(ctx context.Context) ([]models.Anime, error)
	GetAnime(ctx context.Context, id string) (*models.Anime, error)
	// SaveAnime inserts or replaces by ID, assigning one when empty.
	SaveAnime(ctx context.Context, anime *models.Anime) error
	DeleteAnime(ctx context.Context, id string) error

	ListWatchlist(ctx context.Context) ([]models.WatchlistItem, error)
	GetWatchlistItem(ctx context.Context, id string) (*models.WatchlistItem, error)
	// AddWatchlistItem is unique by AniListID: when an item with the same
	// AniListID exists it is returned with created=false and nothing is written.
	AddWatchlistItem(ctx context.Context, item *models.WatchlistItem) (stored *models.WatchlistItem, created bool, err error)
	UpdateWatchlistItem(ctx context.Context, item *models.WatchlistItem) error
	RemoveWatchlistItem(ctx context.Context, id string) error

	ListFavoriteCharacters(ctx context.Context) ([]models.FavoriteCharacter, error)
	SaveFavoriteCharacters(ctx context.Context, chars []models.FavoriteCharacter) error

	ListDismissedSuggestions(ctx context.Context) ([]int, error)
	DismissSuggestion(ctx context.Context, anilistID int) error

	// SeasonMarker is the last season the rollover check ran for.
	SeasonMarker(ctx context.Context) (string, error)
	SetSeasonMarker(ctx context.Context, season string) error

	Preferences(ctx context.Context) (models.Preferences, error)
	SavePreferences(ctx context.Context, prefs models.Preferences) error
}

// Resolver builds owner-scoped stores. Hosted repositories may be nil when the
// process runs without a relational backend (CLI).
type Resolver struct {
	kv        kvstore.Store
	animes    repository.AnimeRepository
	watchlist repository.WatchlistRepository
}

func NewResolver(kv kvstore.Store, animes repository.AnimeRepository, watchlist repository.WatchlistRepository) *Resolver {
	return &Resolver{kv: kv, animes: animes, watchlist: watchlist}
}

// Local returns the anonymous store of a device.
func (r *Resolver) Local(deviceID string) Store {
	return NewLocalStore(r.kv, deviceID)
}

// Hosted returns the store of a logged-in user.
func (r *Resolver) Hosted(userID string) (Store, error) {
	if r.animes == nil || r.watchlist == nil {
		return nil, fmt.Errorf("hosted storage is not configured")
	}
	return NewHostedStore(r.animes, r.watchlist, r.kv, userID), nil
}

// KV exposes the key-value tier for account cleanup.
func (r *Resolver) KV() kvstore.Store { return r.kv }

func deviceKeyPrefix(deviceID string) string { return "animelog:device:" + deviceID + ":" }

// UserKeyPrefix is the key prefix of a logged-in user's blobs.
func UserKeyPrefix(userID string) string { return "animelog:user:" + userID + ":" }

const (
	featureAnimes    = "animes"
	featureWatchlist = "watchlist"
	featureFavorites = "favorite_characters"
	featureDismissed = "dismissed_suggestions"
	featureSeason    = "season_check"
	featurePrefs     = "preferences"
)

// ownerLocks serialises read-modify-write cycles on one owner's blobs inside
// this process.
var ownerLocks sync.Map

func lockOwner(prefix string) func() {
	v, _ := ownerLocks.LoadOrStore(prefix, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
