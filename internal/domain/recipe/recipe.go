// Package recipe holds the shapes Chef AI produces from model replies and
// keeps in local storage.
package recipe

import "strings"

// Recipe is a generated recipe. Field names match the stored and model JSON.
type Recipe struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	CookingTime  string   `json:"cookingTime"`
	Difficulty   string   `json:"difficulty"`
	Calories     string   `json:"calories,omitempty"`
}

// SameTitle reports whether two recipes share a collection key.
// Titles are compared exactly, as they were saved.
func (r Recipe) SameTitle(other Recipe) bool {
	return r.Title == other.Title
}

// HasCalories reports whether the model supplied a calorie estimate.
func (r Recipe) HasCalories() bool {
	return strings.TrimSpace(r.Calories) != ""
}

// FoodItem is one detected component of a calorie analysis.
type FoodItem struct {
	Name     string `json:"name"`
	Calories string `json:"calories"`
	Protein  string `json:"protein,omitempty"`
	Carbs    string `json:"carbs,omitempty"`
	Fat      string `json:"fat,omitempty"`
}

// ContainsTitle reports whether recipes already holds a recipe titled like r.
func ContainsTitle(recipes []Recipe, r Recipe) bool {
	for _, existing := range recipes {
		if existing.SameTitle(r) {
			return true
		}
	}
	return false
}
