// Package ai builds model requests for Chef AI and turns model replies into
// domain values.
package ai

import (
	"fmt"
	"strings"

	"github.com/chefai/chefai/internal/domain/recipe"
	"github.com/chefai/chefai/internal/ports/outbound"
)

// Preference presets used by the home and pantry screens.
const (
	PreferenceHome   = "Delicious and home-cooked style"
	PreferencePantry = "Creative and tasty using these ingredients"
)

// DefaultDishQuestion is asked about a photo when the user gives no question.
const DefaultDishQuestion = "Identify this dish and suggest a brief recipe idea."

const chefPersona = "You are Chef AI, a world-renowned culinary expert with a friendly, encouraging personality. " +
	"You understand 'Roman English', 'Roman Urdu', and 'Hinglish' perfectly. " +
	"If users type in these dialects (e.g., 'kawa', 'khana', 'banao'), interpret them correctly and respond helpfully " +
	"in English (or Roman English if requested). Keep answers concise."

// BuildRecipePrompt asks for one recipe from free-text ingredients.
func BuildRecipePrompt(ingredients, preferences string) outbound.StructuredRequest {
	var prompt strings.Builder

	prompt.WriteString(fmt.Sprintf("Create a delicious recipe using these ingredients: %s.\n\n", ingredients))

	prompt.WriteString("CRITICAL INSTRUCTION 1: The user input might be in 'Roman English', 'Roman Urdu', or 'Hinglish'. ")
	prompt.WriteString("You MUST accurately interpret colloquial South Asian terms into standard English ingredients ")
	prompt.WriteString("(e.g., 'kawa' -> Green Tea or Coffee depending on context, 'aloo' -> Potato, 'doodh' -> Milk, 'cheeni' -> Sugar).\n\n")

	prompt.WriteString("CRITICAL INSTRUCTION 2: For the Recipe Title and every ingredient listed, you MUST provide the English name ")
	prompt.WriteString("followed by its common Roman Urdu/Hindi name in parentheses.\n")
	prompt.WriteString("Examples:\n")
	prompt.WriteString("- Ingredient: \"1 tsp Turmeric Powder (Haldi)\"\n")
	prompt.WriteString("- Ingredient: \"2 medium Onions (Pyaaz)\"\n")
	prompt.WriteString("- Title: \"Spicy Potato Curry (Aloo Curry)\"\n\n")

	prompt.WriteString(fmt.Sprintf("Preferences: %s.\n", preferences))
	prompt.WriteString("Return the result strictly as a JSON object with the following schema:\n")
	prompt.WriteString("title (string), description (string), ingredients (array of strings with amounts), ")
	prompt.WriteString("instructions (array of strings), cookingTime (string), difficulty (string), calories (string).")

	return outbound.StructuredRequest{
		Prompt:     prompt.String(),
		SchemaName: "recipe",
		Schema:     RecipeSchema(),
	}
}

// BuildCalorieAnalysisPrompt asks for a per-item calorie breakdown of a
// photo. The caller attaches the image.
func BuildCalorieAnalysisPrompt() outbound.StructuredRequest {
	var prompt strings.Builder

	prompt.WriteString("Identify the food items in this image with high accuracy.\n\n")

	prompt.WriteString("CRITICAL INSTRUCTION: ESTIMATE CALORIES GENEROUSLY AND REALISTICALLY.\n")
	prompt.WriteString("Most simple estimates undercount. You must account for:\n")
	prompt.WriteString("1. Rich preparation methods (assume restaurant-style with oil, butter, ghee, or heavy sauces unless clearly steamed/raw).\n")
	prompt.WriteString("2. Generous portion sizes (e.g., a full bowl of curry is likely 2-3 servings worth of oil/fat).\n")
	prompt.WriteString("3. Hidden calories in dressings, marinades, and frying.\n\n")

	prompt.WriteString("Example benchmarks:\n")
	prompt.WriteString("- A standard restaurant Burger + Fries is ~1000-1200 kcal.\n")
	prompt.WriteString("- A plate of Biryani is ~800-1000 kcal.\n")
	prompt.WriteString("- A slice of pizza is ~300-400 kcal.\n\n")

	prompt.WriteString("If the image shows a full meal, the total calories across items should reflect a realistic full meal count (often 700-1200+ kcal).\n\n")
	prompt.WriteString("Break down complex dishes into their main components (e.g., Burger -> Bun, Patty, Cheese, Sauce).\n\n")

	prompt.WriteString("Return a JSON object with a property 'items' which is an array of objects.\n")
	prompt.WriteString("Each object must have:\n")
	prompt.WriteString("- 'name' (string, the food name with estimated quantity e.g., 'Chicken Curry (1 cup)')\n")
	prompt.WriteString("- 'calories' (string, e.g. '350 kcal')\n")
	prompt.WriteString("- 'protein' (string, e.g. '25g')\n")
	prompt.WriteString("- 'carbs' (string, e.g. '15g')\n")
	prompt.WriteString("- 'fat' (string, e.g. '20g')")

	return outbound.StructuredRequest{
		Prompt:     prompt.String(),
		SchemaName: "calorie_analysis",
		Schema:     CalorieSchema(),
	}
}

// BuildDishIdentificationPrompt asks a free-form question about a photo.
func BuildDishIdentificationPrompt(question string) outbound.StructuredRequest {
	if strings.TrimSpace(question) == "" {
		question = DefaultDishQuestion
	}
	return outbound.StructuredRequest{Prompt: question}
}

// BuildChatTurn wraps the conversation so far and the new message with the
// chef persona.
func BuildChatTurn(history []recipe.ChatMessage, message string) outbound.ChatRequest {
	turns := make([]outbound.ChatTurn, 0, len(history))
	for _, msg := range history {
		turns = append(turns, outbound.ChatTurn{Role: string(msg.Role), Text: msg.Text})
	}
	return outbound.ChatRequest{
		SystemInstruction: chefPersona,
		History:           turns,
		Message:           message,
	}
}
