package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/internal/infrastructure/monitoring"
	"github.com/chefai/chefai/internal/ports/outbound"
	"github.com/chefai/chefai/pkg/errors"
)

// Fallback replies shown when the model cannot be reached or says nothing.
const (
	ChatErrorFallback     = "My kitchen is a bit chaotic right now. Can you ask that again?"
	IdentifyErrorFallback = "I'm having trouble seeing the image clearly. Please try again."
	IdentifyEmptyFallback = "I couldn't quite make out what that delicious looking thing is."
)

// Metric operation labels.
const (
	opRecipe   = "recipe"
	opCalories = "calories"
	opIdentify = "identify"
	opChat     = "chat"
)

// Service runs Chef AI's model operations. Every failure is logged and
// folded into the operation's empty result, so callers never see an error.
type Service struct {
	client  outbound.GenerativeClient
	metrics *monitoring.MetricsCollector
	logger  *zap.Logger
}

// NewService creates the AI service.
func NewService(client outbound.GenerativeClient, metrics *monitoring.MetricsCollector, logger *zap.Logger) *Service {
	return &Service{
		client:  client,
		metrics: metrics,
		logger:  logger.Named("ai-service"),
	}
}

// GenerateRecipe returns a recipe for the ingredients, or nil.
func (s *Service) GenerateRecipe(ctx context.Context, ingredients, preferences string) *recipe.Recipe {
	if strings.TrimSpace(ingredients) == "" {
		return nil
	}

	start := time.Now()
	raw, err := s.invoke(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateStructured(ctx, BuildRecipePrompt(ingredients, preferences))
	})

	var result *recipe.Recipe
	if err == nil {
		result, err = ParseRecipe(raw)
	}
	s.metrics.RecordAIRequest(opRecipe, time.Since(start), err)

	if err != nil {
		s.logger.Error("Recipe generation failed",
			zap.String("code", string(errors.GetCode(err))),
			zap.Error(err))
		return nil
	}

	s.logger.Info("Recipe generated",
		zap.String("title", result.Title),
		zap.Int("ingredients", len(result.Ingredients)))
	return result
}

// AnalyzeCalories returns the food items detected in a photo. The result is
// never nil.
func (s *Service) AnalyzeCalories(ctx context.Context, image string) []recipe.FoodItem {
	if strings.TrimSpace(image) == "" {
		return []recipe.FoodItem{}
	}

	req := BuildCalorieAnalysisPrompt()
	img := NormalizeImage(image)
	req.Image = &img

	start := time.Now()
	raw, err := s.invoke(ctx, func(ctx context.Context) (string, error) {
		return s.client.GenerateStructured(ctx, req)
	})

	items := []recipe.FoodItem{}
	if err == nil {
		items, err = decodeCalorieItems(raw)
	}
	s.metrics.RecordAIRequest(opCalories, time.Since(start), err)

	switch {
	case err != nil && len(items) == 0:
		s.logger.Error("Calorie analysis failed",
			zap.String("code", string(errors.GetCode(err))),
			zap.Error(err))
	case err != nil:
		s.logger.Warn("Calorie analysis partially parsed", zap.Int("items", len(items)), zap.Error(err))
	default:
		s.logger.Info("Calorie analysis complete", zap.Int("items", len(items)))
	}
	return items
}

// IdentifyDish answers a free-form question about a photo.
func (s *Service) IdentifyDish(ctx context.Context, image, question string) string {
	if strings.TrimSpace(image) == "" {
		return IdentifyEmptyFallback
	}

	req := BuildDishIdentificationPrompt(question)
	img := NormalizeImage(image)
	req.Image = &img

	start := time.Now()
	raw, err := s.invoke(ctx, func(ctx context.Context) (string, error) {
		return s.client.Describe(ctx, req)
	})
	s.metrics.RecordAIRequest(opIdentify, time.Since(start), err)

	if err != nil {
		s.logger.Error("Dish identification failed", zap.Error(err))
		return IdentifyErrorFallback
	}
	if strings.TrimSpace(raw) == "" {
		return IdentifyEmptyFallback
	}
	return raw
}

// Chat returns the chef's reply to message given the conversation so far.
func (s *Service) Chat(ctx context.Context, history []recipe.ChatMessage, message string) string {
	if strings.TrimSpace(message) == "" {
		return ChatReplyFallback
	}

	start := time.Now()
	raw, err := s.invoke(ctx, func(ctx context.Context) (string, error) {
		return s.client.Converse(ctx, BuildChatTurn(history, message))
	})
	s.metrics.RecordAIRequest(opChat, time.Since(start), err)

	if err != nil {
		s.logger.Error("Chat failed", zap.Int("history", len(history)), zap.Error(err))
		return ChatErrorFallback
	}
	return ExtractChatReply(raw)
}

// invoke calls the model and turns a panicking client into an error.
func (s *Service) invoke(ctx context.Context, call func(context.Context) (string, error)) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.NewInternalError(fmt.Sprintf("generative client panicked: %v", r))
		}
	}()
	return call(ctx)
}
