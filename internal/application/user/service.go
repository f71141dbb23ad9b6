// Package user implements the account-facing use cases: profile reads,
// the user directory and subscriptions to authors.
package user

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/foodgram/backend/internal/application/access"
	"github.com/foodgram/backend/internal/application/relation"
	"github.com/foodgram/backend/internal/domain/user"
	"github.com/foodgram/backend/internal/ports/outbound"
	apperrors "github.com/foodgram/backend/pkg/errors"
)

// DTO is a user profile with the viewer-relative subscription flag.
type DTO struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

// RecipeSummary is the compact recipe form embedded in subscription
// entries.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionDTO is a followed author with a preview of their recipes.
type SubscriptionDTO struct {
	DTO
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int             `json:"recipes_count"`
}

// Page is one page of user profiles with the total match count.
type Page struct {
	Count   int   `json:"count"`
	Results []DTO `json:"results"`
}

// SubscriptionPage is one page of followed authors.
type SubscriptionPage struct {
	Count   int               `json:"count"`
	Results []SubscriptionDTO `json:"results"`
}

// Service reads accounts and manages the follow graph.
type Service struct {
	users   outbound.UserRepository
	recipes outbound.RecipeRepository
	follows outbound.PairStore
	log     *zap.Logger

	followToggle *relation.Toggle
}

// NewService creates the user service.
func NewService(
	users outbound.UserRepository,
	recipes outbound.RecipeRepository,
	follows outbound.PairStore,
	log *zap.Logger,
) *Service {
	s := &Service{
		users:   users,
		recipes: recipes,
		follows: follows,
		log:     log,
	}
	s.followToggle = &relation.Toggle{
		Name:         "subscriptions",
		TargetKind:   "user",
		Store:        follows,
		TargetExists: users.Exists,
		CheckAdd: func(ownerID, targetID uuid.UUID) error {
			if ownerID == targetID {
				return apperrors.NewValidation("you cannot subscribe to yourself")
			}
			return nil
		},
	}
	return s
}

// Get returns one profile with the subscription flag relative to the
// viewer.
func (s *Service) Get(ctx context.Context, viewer *user.Identity, id uuid.UUID) (DTO, error) {
	u, err := s.findUser(ctx, id)
	if err != nil {
		return DTO{}, err
	}
	subscribed, err := s.isSubscribed(ctx, viewer, id)
	if err != nil {
		return DTO{}, err
	}
	return toDTO(u, subscribed), nil
}

// Me returns the actor's own profile. A user never subscribes to
// themselves, so the flag is always false here.
func (s *Service) Me(ctx context.Context, actor *user.Identity) (DTO, error) {
	if err := access.RequireActive(actor); err != nil {
		return DTO{}, err
	}
	u, err := s.findUser(ctx, actor.ID)
	if err != nil {
		return DTO{}, err
	}
	return toDTO(u, false), nil
}

// List returns a page of profiles ordered by username.
func (s *Service) List(ctx context.Context, viewer *user.Identity, offset, limit int) (Page, error) {
	users, total, err := s.users.List(ctx, offset, limit)
	if err != nil {
		return Page{}, apperrors.NewDatabase("list users", err)
	}

	subs, err := s.subscribedSet(ctx, viewer)
	if err != nil {
		return Page{}, err
	}

	results := make([]DTO, 0, len(users))
	for _, u := range users {
		results = append(results, toDTO(u, subs[u.ID]))
	}
	return Page{Count: total, Results: results}, nil
}

// Subscriptions returns the authors the actor follows, each with a
// recipe preview. recipesLimit caps the preview at the author's first N
// recipes; zero or negative means no cap.
func (s *Service) Subscriptions(ctx context.Context, actor *user.Identity, offset, limit, recipesLimit int) (SubscriptionPage, error) {
	if err := access.RequireActive(actor); err != nil {
		return SubscriptionPage{}, err
	}

	authors, total, err := s.users.Followees(ctx, actor.ID, offset, limit)
	if err != nil {
		return SubscriptionPage{}, apperrors.NewDatabase("list subscriptions", err)
	}

	results := make([]SubscriptionDTO, 0, len(authors))
	for _, author := range authors {
		entry, err := s.subscriptionEntry(ctx, author, recipesLimit)
		if err != nil {
			return SubscriptionPage{}, err
		}
		results = append(results, entry)
	}
	return SubscriptionPage{Count: total, Results: results}, nil
}

// Subscribe follows the author and returns the subscription entry.
func (s *Service) Subscribe(ctx context.Context, actor *user.Identity, authorID uuid.UUID, recipesLimit int) (SubscriptionDTO, error) {
	if err := access.RequireActive(actor); err != nil {
		return SubscriptionDTO{}, err
	}
	if err := s.followToggle.Add(ctx, actor.ID, authorID); err != nil {
		return SubscriptionDTO{}, err
	}

	s.log.Info("subscription added",
		zap.String("follower_id", actor.ID.String()),
		zap.String("followee_id", authorID.String()))

	author, err := s.findUser(ctx, authorID)
	if err != nil {
		return SubscriptionDTO{}, err
	}
	return s.subscriptionEntry(ctx, author, recipesLimit)
}

// Unsubscribe removes the follow.
func (s *Service) Unsubscribe(ctx context.Context, actor *user.Identity, authorID uuid.UUID) error {
	if err := access.RequireActive(actor); err != nil {
		return err
	}
	if err := s.followToggle.Remove(ctx, actor.ID, authorID); err != nil {
		return err
	}

	s.log.Info("subscription removed",
		zap.String("follower_id", actor.ID.String()),
		zap.String("followee_id", authorID.String()))
	return nil
}

func (s *Service) subscriptionEntry(ctx context.Context, author *user.User, recipesLimit int) (SubscriptionDTO, error) {
	recs, err := s.recipes.ListByAuthor(ctx, author.ID, recipesLimit)
	if err != nil {
		return SubscriptionDTO{}, apperrors.NewDatabase("list author recipes", err)
	}
	count, err := s.recipes.CountByAuthor(ctx, author.ID)
	if err != nil {
		return SubscriptionDTO{}, apperrors.NewDatabase("count author recipes", err)
	}

	summaries := make([]RecipeSummary, 0, len(recs))
	for _, r := range recs {
		summaries = append(summaries, RecipeSummary{
			ID:          r.ID,
			Name:        r.Name,
			Image:       r.Image,
			CookingTime: r.CookingTime,
		})
	}
	return SubscriptionDTO{
		DTO:          toDTO(author, true),
		Recipes:      summaries,
		RecipesCount: count,
	}, nil
}

func (s *Service) findUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, outbound.ErrNotFound) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, apperrors.NewDatabase("find user", err)
	}
	return u, nil
}

func (s *Service) isSubscribed(ctx context.Context, viewer *user.Identity, targetID uuid.UUID) (bool, error) {
	if viewer == nil {
		return false, nil
	}
	ok, err := s.follows.Exists(ctx, viewer.ID, targetID)
	if err != nil {
		return false, apperrors.NewDatabase("check subscription", err)
	}
	return ok, nil
}

func (s *Service) subscribedSet(ctx context.Context, viewer *user.Identity) (map[uuid.UUID]bool, error) {
	if viewer == nil {
		return nil, nil
	}
	ids, err := s.follows.Targets(ctx, viewer.ID)
	if err != nil {
		return nil, apperrors.NewDatabase("load subscriptions", err)
	}
	set := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}

func toDTO(u *user.User, subscribed bool) DTO {
	return DTO{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
