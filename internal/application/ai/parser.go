package ai

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/pkg/errors"
)

// ChatReplyFallback stands in for an empty chat reply.
const ChatReplyFallback = "I'm having trouble thinking of a response right now, Chef."

// Pointer fields tell a missing key (nil) apart from an empty value;
// wrong JSON types already fail during decoding.
type recipeReply struct {
	Title        *string  `json:"title" validate:"required"`
	Description  *string  `json:"description" validate:"required"`
	Ingredients  []string `json:"ingredients" validate:"required"`
	Instructions []string `json:"instructions" validate:"required"`
	CookingTime  *string  `json:"cookingTime" validate:"required"`
	Difficulty   *string  `json:"difficulty" validate:"required"`
	Calories     *string  `json:"calories"`
}

type foodItemReply struct {
	Name     *string `json:"name" validate:"required"`
	Calories *string `json:"calories" validate:"required"`
	Protein  *string `json:"protein"`
	Carbs    *string `json:"carbs"`
	Fat      *string `json:"fat"`
}

var replyValidator = newReplyValidator()

func newReplyValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ParseRecipe decodes a model reply into a Recipe. Empty input, invalid
// JSON, a field of the wrong type or a missing mandatory field all produce
// an INVALID_AI_RESPONSE error and a nil recipe.
func ParseRecipe(raw string) (*recipe.Recipe, error) {
	body := unwrapCodeFence(raw)
	if body == "" {
		return nil, errors.NewInvalidAIResponseError("empty reply", nil)
	}

	var reply recipeReply
	if err := json.Unmarshal([]byte(body), &reply); err != nil {
		return nil, errors.NewInvalidAIResponseError("recipe reply is not a recipe object", err)
	}
	if err := replyValidator.Struct(reply); err != nil {
		return nil, errors.NewInvalidAIResponseError(describeMissing(err), err)
	}

	return &recipe.Recipe{
		Title:        *reply.Title,
		Description:  *reply.Description,
		Ingredients:  reply.Ingredients,
		Instructions: reply.Instructions,
		CookingTime:  *reply.CookingTime,
		Difficulty:   *reply.Difficulty,
		Calories:     deref(reply.Calories),
	}, nil
}

// ParseCalorieItems extracts the items array of a calorie analysis reply.
// It never fails; anything unusable yields an empty slice.
func ParseCalorieItems(raw string) []recipe.FoodItem {
	items, _ := decodeCalorieItems(raw)
	return items
}

// decodeCalorieItems is ParseCalorieItems with the reason for an empty
// result. Rows lacking a name or calories are skipped.
func decodeCalorieItems(raw string) ([]recipe.FoodItem, error) {
	items := []recipe.FoodItem{}

	body := unwrapCodeFence(raw)
	if body == "" {
		return items, errors.NewInvalidAIResponseError("empty reply", nil)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return items, errors.NewInvalidAIResponseError("calorie reply is not an object", err)
	}
	rawItems, ok := envelope["items"]
	if !ok {
		return items, errors.NewInvalidAIResponseError("calorie reply has no items", nil)
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(rawItems, &rows); err != nil || rows == nil {
		return items, errors.NewInvalidAIResponseError("items is not an array", err)
	}

	var skipped int
	for _, row := range rows {
		var reply foodItemReply
		if err := json.Unmarshal(row, &reply); err != nil {
			skipped++
			continue
		}
		if err := replyValidator.Struct(reply); err != nil {
			skipped++
			continue
		}
		items = append(items, recipe.FoodItem{
			Name:     *reply.Name,
			Calories: *reply.Calories,
			Protein:  deref(reply.Protein),
			Carbs:    deref(reply.Carbs),
			Fat:      deref(reply.Fat),
		})
	}

	if skipped > 0 {
		return items, errors.NewInvalidAIResponseError(fmt.Sprintf("skipped %d malformed items", skipped), nil)
	}
	return items, nil
}

// ExtractChatReply returns the reply text, or ChatReplyFallback when blank.
func ExtractChatReply(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ChatReplyFallback
	}
	return raw
}

// unwrapCodeFence strips a surrounding ``` or ```json fence that some
// models add even in JSON mode.
func unwrapCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func describeMissing(err error) string {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return "missing fields: " + strings.Join(fields, ", ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
