package models

import (
	"github.com/google/uuid"
)

// Recipe represents a recipe stored in the recipe table
type Recipe struct {
	ID           string      `json:"id" dynamodbav:"id" bson:"id" db:"id" validate:"required"`
	Name         string      `json:"name" dynamodbav:"name" bson:"name" db:"name" validate:"required"`
	Ingredients  interface{} `json:"ingredients" dynamodbav:"ingredients" bson:"ingredients" db:"ingredients" validate:"required"`
	Instructions string      `json:"instructions" dynamodbav:"instructions" bson:"instructions" db:"instructions" validate:"required"`
}

// RecipeFields holds the mutable attributes of a recipe
type RecipeFields struct {
	Name         string
	Ingredients  interface{}
	Instructions string
}

// NewRecipe creates a new recipe with a generated ID
func NewRecipe(fields RecipeFields) *Recipe {
	return &Recipe{
		ID:           uuid.New().String(),
		Name:         fields.Name,
		Ingredients:  fields.Ingredients,
		Instructions: fields.Instructions,
	}
}

// Apply overwrites the mutable attributes, leaving the ID untouched
func (r *Recipe) Apply(fields RecipeFields) {
	r.Name = fields.Name
	r.Ingredients = fields.Ingredients
	r.Instructions = fields.Instructions
}

// Clone returns a copy of the recipe that shares no slices or maps with r
func (r *Recipe) Clone() *Recipe {
	if r == nil {
		return nil
	}
	c := *r
	c.Ingredients = cloneValue(r.Ingredients)
	return &c
}

// cloneValue deep-copies the container types a decoded JSON value can hold.
// Scalars are returned as-is.
func cloneValue(v interface{}) interface{} {
	switch t := v.(type) {
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	default:
		return v
	}
}
