package models

import (
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func validFields() RecipeFields {
	return RecipeFields{
		Name:         "Arepas",
		Ingredients:  []interface{}{"harina de maíz", "agua", "sal"},
		Instructions: "Mezclar, formar y asar.",
	}
}

// TestRecipeCreation tests recipe creation and validation
func TestRecipeCreation(t *testing.T) {
	recipe := NewRecipe(validFields())
	if _, err := uuid.Parse(recipe.ID); err != nil {
		t.Errorf("Expected generated ID to be a UUID, got '%s'", recipe.ID)
	}
	if recipe.Name != "Arepas" || recipe.Instructions != "Mezclar, formar y asar." {
		t.Errorf("Fields not copied into recipe: %+v", recipe)
	}

	other := NewRecipe(validFields())
	if other.ID == recipe.ID {
		t.Errorf("Expected distinct IDs, both were '%s'", recipe.ID)
	}
}

func TestRecipeApplyKeepsID(t *testing.T) {
	recipe := NewRecipe(validFields())
	id := recipe.ID

	recipe.Apply(RecipeFields{Name: "Empanadas", Ingredients: "masa", Instructions: "Freír."})

	if recipe.ID != id {
		t.Errorf("Apply changed ID from %s to %s", id, recipe.ID)
	}
	if recipe.Name != "Empanadas" {
		t.Errorf("Expected name 'Empanadas', got '%s'", recipe.Name)
	}
	if recipe.Instructions != "Freír." {
		t.Errorf("Expected instructions 'Freír.', got '%s'", recipe.Instructions)
	}
}

func TestRecipeClone(t *testing.T) {
	recipe := NewRecipe(validFields())
	clone := recipe.Clone()
	clone.Name = "changed"

	if recipe.Name == "changed" {
		t.Error("Clone shares state with original")
	}

	var nilRecipe *Recipe
	if nilRecipe.Clone() != nil {
		t.Error("Clone of nil recipe should be nil")
	}
}

func TestRecipeCloneCopiesIngredients(t *testing.T) {
	tests := []struct {
		name        string
		ingredients interface{}
		mutate      func(v interface{})
	}{
		{
			name:        "list",
			ingredients: []interface{}{"flour", map[string]interface{}{"item": "milk"}},
			mutate: func(v interface{}) {
				list := v.([]interface{})
				list[0] = "sugar"
				list[1].(map[string]interface{})["item"] = "water"
			},
		},
		{
			name:        "object",
			ingredients: map[string]interface{}{"eggs": []interface{}{"2", "large"}},
			mutate: func(v interface{}) {
				v.(map[string]interface{})["eggs"].([]interface{})[0] = "3"
			},
		},
		{
			name:        "string slice",
			ingredients: []string{"rice", "beans"},
			mutate:      func(v interface{}) { v.([]string)[0] = "corn" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipe := NewRecipe(RecipeFields{Name: "x", Ingredients: tt.ingredients, Instructions: "y"})
			snapshot := cloneValue(tt.ingredients)

			clone := recipe.Clone()
			tt.mutate(clone.Ingredients)

			if !reflect.DeepEqual(recipe.Ingredients, snapshot) {
				t.Errorf("mutating the clone changed the original: %v", recipe.Ingredients)
			}
		})
	}
}
