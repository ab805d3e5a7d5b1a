package service

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"animelog/internal/apperr"
	"animelog/internal/dnacard"
	"animelog/internal/kvstore"
	"animelog/internal/microservices/http-api/models"
	"animelog/internal/microservices/http-api/repository"
	"animelog/internal/microservices/http-api/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrProfileNotFound = apperr.NotFound("profile not found")
	ErrHandleTaken     = apperr.Conflict("handle already taken")
	ErrInvalidHandle   = apperr.Invalid("handle must be 3-20 characters of a-z, 0-9 or _")
	ErrUsername        = apperr.Invalid("username is required")
)

var handlePattern = regexp.MustCompile(`^[a-z0-9_]{3,20}$`)

type ProfileInput struct {
	Username  string
	Handle    string
	Bio       string
	AvatarURL string
	IsPublic  bool
}

// PublicProfile is what anyone can see for a public handle.
type PublicProfile struct {
	Username  string        `json:"username"`
	Handle    string        `json:"handle"`
	Bio       string        `json:"bio,omitempty"`
	AvatarURL string        `json:"avatar_url,omitempty"`
	OtakuType string        `json:"otaku_type,omitempty"`
	Card      *dnacard.Card `json:"dna_card"`
}

type ProfileService interface {
	Get(ctx context.Context, userID string) (*models.UserProfile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, error)
	PublicProfile(ctx context.Context, handle string) (*PublicProfile, error)
	// DeleteAccount removes every row and blob owned by userID.
	DeleteAccount(ctx context.Context, userID string) (map[string]int64, error)
}

type profileService struct {
	profiles repository.ProfileRepository
	accounts repository.AccountRepository
	resolver *storage.Resolver
	animes   AnimeService
	logger   *zap.Logger
}

func NewProfileService(
	profiles repository.ProfileRepository,
	accounts repository.AccountRepository,
	resolver *storage.Resolver,
	animes AnimeService,
	logger *zap.Logger,
) ProfileService {
	return &profileService{
		profiles: profiles,
		accounts: accounts,
		resolver: resolver,
		animes:   animes,
		logger:   logger,
	}
}

func (s *profileService) Get(ctx context.Context, userID string) (*models.UserProfile, error) {
	p, err := s.profiles.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	return p, err
}

func (s *profileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*models.UserProfile, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Handle = strings.ToLower(strings.TrimSpace(in.Handle))
	if in.Username == "" {
		return nil, ErrUsername
	}
	if !handlePattern.MatchString(in.Handle) {
		return nil, ErrInvalidHandle
	}

	owner, err := s.profiles.FindByHandle(ctx, in.Handle)
	switch {
	case err == nil && owner.ID != userID:
		return nil, ErrHandleTaken
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = &models.UserProfile{ID: userID}
	} else if err != nil {
		return nil, err
	}

	profile.Username = in.Username
	profile.Handle = in.Handle
	profile.Bio = in.Bio
	profile.AvatarURL = in.AvatarURL
	profile.IsPublic = in.IsPublic
	profile.OtakuType = s.otakuType(ctx, userID)

	if err := s.profiles.Save(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrHandleTaken
		}
		s.logger.Error("failed to save profile", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return profile, nil
}

func (s *profileService) PublicProfile(ctx context.Context, handle string) (*PublicProfile, error) {
	p, err := s.profiles.FindByHandle(ctx, strings.ToLower(strings.TrimSpace(handle)))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	// private profiles are indistinguishable from missing ones
	if !p.IsPublic {
		return nil, ErrProfileNotFound
	}

	st, err := s.resolver.Hosted(p.ID)
	if err != nil {
		return nil, err
	}
	card, err := s.animes.DNACard(ctx, st)
	if err != nil {
		return nil, err
	}

	return &PublicProfile{
		Username:  p.Username,
		Handle:    p.Handle,
		Bio:       p.Bio,
		AvatarURL: p.AvatarURL,
		OtakuType: card.OtakuType,
		Card:      card,
	}, nil
}

func (s *profileService) DeleteAccount(ctx context.Context, userID string) (map[string]int64, error) {
	deleted, err := s.accounts.DeleteUserData(ctx, userID)
	if err != nil {
		s.logger.Error("account deletion failed", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	if err := kvstore.DeletePrefix(ctx, s.resolver.KV(), storage.UserKeyPrefix(userID)); err != nil {
		// rows are gone already; report the leftover blobs
		s.logger.Error("failed to clear user blobs", zap.String("user_id", userID), zap.Error(err))
		return deleted, err
	}
	s.logger.Info("account deleted", zap.String("user_id", userID), zap.Any("rows", deleted))
	return deleted, nil
}

// otakuType is best effort; profile saves never fail on it.
func (s *profileService) otakuType(ctx context.Context, userID string) string {
	st, err := s.resolver.Hosted(userID)
	if err != nil {
		return ""
	}
	stats, err := s.animes.Stats(ctx, st)
	if err != nil {
		s.logger.Warn("failed to compute otaku type", zap.String("user_id", userID), zap.Error(err))
		return ""
	}
	return dnacard.OtakuType(*stats)
}
