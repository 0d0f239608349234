// Package chef ties the session, saved recipes, model operations and
// screen navigation into the single surface a front end drives.
package chef

import (
	"context"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/application/ai"
	"github.com/chefai/chefai/internal/application/recipe"
	"github.com/chefai/chefai/internal/application/user"
	domainrecipe "github.com/chefai/chefai/internal/domain/recipe"
	domainuser "github.com/chefai/chefai/internal/domain/user"
	"github.com/chefai/chefai/internal/domain/view"
	"github.com/chefai/chefai/internal/ports/inbound"
)

// Service implements inbound.ChefService
type Service struct {
	sessions    *user.SessionService
	collections *recipe.CollectionService
	ai          *ai.Service
	navigator   *view.Navigator
	logger      *zap.Logger
}

var _ inbound.ChefService = (*Service)(nil)

// NewService creates the chef facade. Navigation starts on the splash screen.
func NewService(
	sessions *user.SessionService,
	collections *recipe.CollectionService,
	aiService *ai.Service,
	logger *zap.Logger,
) *Service {
	return &Service{
		sessions:    sessions,
		collections: collections,
		ai:          aiService,
		navigator:   view.NewNavigator(),
		logger:      logger.Named("chef-service"),
	}
}

func (s *Service) Login(ctx context.Context, email string) {
	s.sessions.Login(ctx, email)
}

func (s *Service) Logout(ctx context.Context) {
	s.sessions.Logout(ctx)
}

func (s *Service) IsLoggedIn(ctx context.Context) bool {
	return s.sessions.IsLoggedIn(ctx)
}

func (s *Service) CurrentEmail(ctx context.Context) (string, bool) {
	return s.sessions.CurrentEmail(ctx)
}

// SaveRecipe saves into the collection of whoever is signed in now.
func (s *Service) SaveRecipe(ctx context.Context, r domainrecipe.Recipe) bool {
	return s.collections.SaveRecipe(ctx, s.sessions.Current(ctx), r)
}

func (s *Service) ListRecipes(ctx context.Context) []domainrecipe.Recipe {
	return s.collections.ListRecipes(ctx, s.sessions.Current(ctx))
}

func (s *Service) SubmitRating(ctx context.Context, rating int) bool {
	return s.collections.SubmitRating(ctx, s.sessions.Current(ctx), rating)
}

func (s *Service) Ratings(ctx context.Context) []domainrecipe.Rating {
	return s.collections.Ratings(ctx)
}

func (s *Service) GenerateRecipe(ctx context.Context, ingredients, preferences string) *domainrecipe.Recipe {
	return s.ai.GenerateRecipe(ctx, ingredients, preferences)
}

func (s *Service) AnalyzeCalories(ctx context.Context, image string) []domainrecipe.FoodItem {
	return s.ai.AnalyzeCalories(ctx, image)
}

func (s *Service) IdentifyDish(ctx context.Context, image, question string) string {
	return s.ai.IdentifyDish(ctx, image, question)
}

func (s *Service) Chat(ctx context.Context, history []domainrecipe.ChatMessage, message string) string {
	return s.ai.Chat(ctx, history, message)
}

func (s *Service) CurrentView() view.AppView {
	return s.navigator.Current()
}

// CompleteSplash leaves the splash screen for HOME or SIGNIN depending on
// whether a session is remembered.
func (s *Service) CompleteSplash(ctx context.Context) (view.AppView, error) {
	next, err := s.navigator.CompleteSplash(s.sessions.IsLoggedIn(ctx))
	if err != nil {
		return next, err
	}
	s.logger.Debug("Splash complete", zap.String("view", next.String()))
	return next, nil
}

// SignIn logs email in and moves from SIGNIN to HOME. A blank email leaves
// both the session and the view unchanged.
func (s *Service) SignIn(ctx context.Context, email string) error {
	if !domainuser.NewSession(email).Active() {
		return nil
	}
	s.sessions.Login(ctx, email)
	if !s.sessions.IsLoggedIn(ctx) {
		return nil
	}
	return s.navigator.SignedIn()
}

// SignOut clears the session and returns to SIGNIN.
func (s *Service) SignOut(ctx context.Context) error {
	s.sessions.Logout(ctx)
	return s.navigator.SignedOut()
}

func (s *Service) Navigate(to view.AppView) error {
	if err := s.navigator.Go(to); err != nil {
		s.logger.Warn("Navigation rejected", zap.String("to", to.String()), zap.Error(err))
		return err
	}
	return nil
}
