package users

import (
	"context"

	"eventscout/internal/store"

	"github.com/google/uuid"
)

// recentInteractionLimit bounds the interaction history shown on a profile.
const recentInteractionLimit = 20

// Store defines persistence operations for users.
type Store interface {
	CreateUser(ctx context.Context, u store.User) (store.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (store.User, error)
	ListPreferences(ctx context.Context, userID uuid.UUID) ([]store.UserPreference, error)
	UpsertPreference(ctx context.Context, p store.UserPreference) (store.UserPreference, error)
	ListInteractions(ctx context.Context, userID uuid.UUID) ([]store.UserInteraction, error)
	AddInteraction(ctx context.Context, i store.UserInteraction) (store.UserInteraction, error)
	RecentInteractions(ctx context.Context, userID uuid.UUID, limit int) ([]store.InteractionSummary, error)
}

// Profile is a user together with their preferences and latest activity.
type Profile struct {
	User               store.User                 `json:"user"`
	Preferences        []store.UserPreference     `json:"preferences"`
	RecentInteractions []store.InteractionSummary `json:"recent_interactions"`
}

// Service coordinates user accounts, preferences, and interaction history.
type Service interface {
	Create(ctx context.Context, u store.User) (store.User, error)
	Get(ctx context.Context, id uuid.UUID) (store.User, error)
	Profile(ctx context.Context, id uuid.UUID) (Profile, error)
	Preferences(ctx context.Context, id uuid.UUID) ([]store.UserPreference, error)
	SetPreference(ctx context.Context, id uuid.UUID, category string, weight float64) (store.UserPreference, error)
	Interactions(ctx context.Context, id uuid.UUID) ([]store.UserInteraction, error)
	RecordInteraction(ctx context.Context, id, eventID uuid.UUID, interactionType string) (store.UserInteraction, error)
}

type service struct {
	store Store
}

// New constructs a users Service backed by the provided Store
func New(st Store) Service {
	return &service{store: st}
}

func (s *service) Create(ctx context.Context, u store.User) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.CreateUser(ctx, u)
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (store.User, error) {
	if err := ctx.Err(); err != nil {
		return store.User{}, err
	}
	return s.store.GetUser(ctx, id)
}

// Profile assembles the user record, preferences, and recent activity.
func (s *service) Profile(ctx context.Context, id uuid.UUID) (Profile, error) {
	if err := ctx.Err(); err != nil {
		return Profile{}, err
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	prefs, err := s.store.ListPreferences(ctx, id)
	if err != nil {
		return Profile{}, err
	}

	recent, err := s.store.RecentInteractions(ctx, id, recentInteractionLimit)
	if err != nil {
		return Profile{}, err
	}

	return Profile{User: u, Preferences: prefs, RecentInteractions: recent}, nil
}

func (s *service) Preferences(ctx context.Context, id uuid.UUID) ([]store.UserPreference, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListPreferences(ctx, id)
}

func (s *service) SetPreference(ctx context.Context, id uuid.UUID, category string, weight float64) (store.UserPreference, error) {
	if err := ctx.Err(); err != nil {
		return store.UserPreference{}, err
	}
	return s.store.UpsertPreference(ctx, store.UserPreference{
		UserID:   id,
		Category: category,
		Weight:   weight,
	})
}

func (s *service) Interactions(ctx context.Context, id uuid.UUID) ([]store.UserInteraction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.store.ListInteractions(ctx, id)
}

func (s *service) RecordInteraction(ctx context.Context, id, eventID uuid.UUID, interactionType string) (store.UserInteraction, error) {
	if err := ctx.Err(); err != nil {
		return store.UserInteraction{}, err
	}
	return s.store.AddInteraction(ctx, store.UserInteraction{
		UserID:          id,
		EventID:         eventID,
		InteractionType: interactionType,
	})
}
