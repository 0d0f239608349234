package ai

import "github.com/chefai/chefai/internal/ports/outbound"

func stringField() *outbound.Schema {
	return &outbound.Schema{Type: outbound.SchemaString}
}

func stringList() *outbound.Schema {
	return &outbound.Schema{Type: outbound.SchemaArray, Items: stringField()}
}

// RecipeSchema describes a single recipe object. Calories is optional.
func RecipeSchema() *outbound.Schema {
	return &outbound.Schema{
		Type: outbound.SchemaObject,
		Properties: map[string]*outbound.Schema{
			"title":        stringField(),
			"description":  stringField(),
			"ingredients":  stringList(),
			"instructions": stringList(),
			"cookingTime":  stringField(),
			"difficulty":   stringField(),
			"calories":     stringField(),
		},
		Required: []string{"title", "description", "ingredients", "instructions", "cookingTime", "difficulty"},
	}
}

// CalorieSchema describes an object with an items array of food rows.
func CalorieSchema() *outbound.Schema {
	item := &outbound.Schema{
		Type: outbound.SchemaObject,
		Properties: map[string]*outbound.Schema{
			"name":     stringField(),
			"calories": stringField(),
			"protein":  stringField(),
			"carbs":    stringField(),
			"fat":      stringField(),
		},
		Required: []string{"name", "calories", "protein", "carbs", "fat"},
	}
	return &outbound.Schema{
		Type: outbound.SchemaObject,
		Properties: map[string]*outbound.Schema{
			"items": {Type: outbound.SchemaArray, Items: item},
		},
	}
}
