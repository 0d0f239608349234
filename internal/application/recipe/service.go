// Package recipe provides the application layer for saved recipes and
// app ratings
package recipe

import (
	"context"
	stderrors "errors"
	"time"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/internal/domain/user"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

// Storage keys.
const (
	RecipesKeyPrefix = "chef_ai_recipes_"
	RatingsKey       = "chef_ai_ratings"
)

// AnonymousUser tags ratings submitted without a session.
const AnonymousUser = "anonymous"

// CollectionService keeps each user's saved recipes and the global ratings
// log. Every read-modify-write holds a per-key lock.
type CollectionService struct {
	store   outbound.KeyValueStore
	locks   *keyLocks
	now     func() time.Time
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewCollectionService creates a new collection service
func NewCollectionService(store outbound.KeyValueStore, metrics *monitoring.MetricsCollector, logger *zap.Logger) *CollectionService {
	return &CollectionService{
		store:   store,
		locks:   newKeyLocks(),
		now:     time.Now,
		metrics: metrics,
		logger:  logger.Named("collection-service"),
	}
}

// RecipesKey returns the storage key for an email's collection.
func RecipesKey(email string) string {
	return RecipesKeyPrefix + email
}

// SaveRecipe appends r to the session user's collection. Saving a title that
// is already present succeeds without writing. It returns false when nobody
// is signed in or storage fails.
func (s *CollectionService) SaveRecipe(ctx context.Context, session user.Session, r recipe.Recipe) bool {
	ok := s.saveRecipe(ctx, session, r)
	s.metrics.RecordStoreOperation("save_recipe", ok)
	return ok
}

func (s *CollectionService) saveRecipe(ctx context.Context, session user.Session, r recipe.Recipe) bool {
	email, active := session.Email()
	if !active {
		s.logger.Warn("Refusing to save recipe", zap.String("title", r.Title), zap.Error(recipe.ErrMissingSession))
		return false
	}

	key := RecipesKey(email)
	unlock := s.locks.lock(key)
	defer unlock()

	saved, err := s.loadRecipes(ctx, key)
	if err != nil {
		s.logger.Error("Failed to load collection", zap.String("email", email), zap.Error(err))
		return false
	}

	if recipe.ContainsTitle(saved, r) {
		s.logger.Debug("Recipe already saved", zap.String("email", email), zap.String("title", r.Title))
		return true
	}

	data, err := encodeList(append(saved, r), "recipes")
	if err != nil {
		s.logger.Error("Failed to encode collection", zap.Error(err))
		return false
	}
	if err := s.store.Set(ctx, key, data); err != nil {
		s.logger.Error("Failed to persist collection",
			zap.String("email", email),
			zap.Error(errors.NewDatabaseError("save recipe", err)))
		return false
	}

	s.logger.Info("Recipe saved",
		zap.String("email", email),
		zap.String("title", r.Title),
		zap.Int("total", len(saved)+1))
	return true
}

// ListRecipes returns the session user's recipes in save order. The result
// is empty, never nil, when nothing can be listed.
func (s *CollectionService) ListRecipes(ctx context.Context, session user.Session) []recipe.Recipe {
	email, active := session.Email()
	if !active {
		return []recipe.Recipe{}
	}

	saved, err := s.loadRecipes(ctx, RecipesKey(email))
	s.metrics.RecordStoreOperation("list_recipes", err == nil)
	if err != nil {
		s.logger.Error("Failed to list recipes", zap.String("email", email), zap.Error(err))
		return []recipe.Recipe{}
	}
	return saved
}

// SubmitRating appends a rating tagged with the session email, or
// "anonymous". Ratings outside 1..5 are refused without writing.
func (s *CollectionService) SubmitRating(ctx context.Context, session user.Session, value int) bool {
	ok := s.submitRating(ctx, session, value)
	s.metrics.RecordStoreOperation("submit_rating", ok)
	return ok
}

func (s *CollectionService) submitRating(ctx context.Context, session user.Session, value int) bool {
	author := AnonymousUser
	if email, active := session.Email(); active {
		author = email
	}

	rating, err := recipe.NewRating(author, value, s.now())
	if err != nil {
		s.logger.Warn("Rejected rating", zap.Int("rating", value), zap.Error(err))
		return false
	}

	unlock := s.locks.lock(RatingsKey)
	defer unlock()

	ratings, err := s.loadRatings(ctx)
	if err != nil {
		s.logger.Error("Failed to load ratings", zap.Error(err))
		return false
	}

	data, err := encodeList(append(ratings, rating), "ratings")
	if err != nil {
		s.logger.Error("Failed to encode ratings", zap.Error(err))
		return false
	}
	if err := s.store.Set(ctx, RatingsKey, data); err != nil {
		s.logger.Error("Failed to persist rating", zap.Error(errors.NewDatabaseError("submit rating", err)))
		return false
	}

	s.logger.Info("Rating submitted", zap.String("user", author), zap.Int("rating", value))
	return true
}

// Ratings returns the global ratings log in submission order.
func (s *CollectionService) Ratings(ctx context.Context) []recipe.Rating {
	ratings, err := s.loadRatings(ctx)
	if err != nil {
		s.logger.Error("Failed to read ratings", zap.Error(err))
		return []recipe.Rating{}
	}
	return ratings
}

func (s *CollectionService) loadRecipes(ctx context.Context, key string) ([]recipe.Recipe, error) {
	data, err := s.store.Get(ctx, key)
	if stderrors.Is(err, outbound.ErrKeyNotFound) {
		return []recipe.Recipe{}, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("read collection", err)
	}
	return decodeList[recipe.Recipe](data, "recipes")
}

func (s *CollectionService) loadRatings(ctx context.Context) ([]recipe.Rating, error) {
	data, err := s.store.Get(ctx, RatingsKey)
	if stderrors.Is(err, outbound.ErrKeyNotFound) {
		return []recipe.Rating{}, nil
	}
	if err != nil {
		return nil, errors.NewDatabaseError("read ratings", err)
	}
	return decodeList[recipe.Rating](data, "ratings")
}
