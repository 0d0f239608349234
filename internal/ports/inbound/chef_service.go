// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the interfaces that the application exposes to the outside world
package inbound

import (
	"context"

	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/internal/domain/view"
)

// ChefService is the surface a front end drives. None of its operations
// return errors for storage or model failures; those surface as false,
// nil, empty or fallback results.
type ChefService interface {
	// Session
	Login(ctx context.Context, email string)
	Logout(ctx context.Context)
	IsLoggedIn(ctx context.Context) bool
	CurrentEmail(ctx context.Context) (string, bool)

	// Saved recipes and ratings
	SaveRecipe(ctx context.Context, r recipe.Recipe) bool
	ListRecipes(ctx context.Context) []recipe.Recipe
	SubmitRating(ctx context.Context, rating int) bool
	Ratings(ctx context.Context) []recipe.Rating

	// AI
	GenerateRecipe(ctx context.Context, ingredients, preferences string) *recipe.Recipe
	AnalyzeCalories(ctx context.Context, image string) []recipe.FoodItem
	IdentifyDish(ctx context.Context, image, question string) string
	Chat(ctx context.Context, history []recipe.ChatMessage, message string) string

	// Navigation
	CurrentView() view.AppView
	CompleteSplash(ctx context.Context) (view.AppView, error)
	SignIn(ctx context.Context, email string) error
	SignOut(ctx context.Context) error
	Navigate(to view.AppView) error
}
