package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Ingredient is one line of a cocktail recipe.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

// Step is one ordered preparation step.
type Step struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

// Cocktail is a single recommended cocktail.
type Cocktail struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Ingredients []Ingredient `json:"ingredients"`
	Steps       []Step       `json:"steps"`
}

// Recommendation is the answer of the recommendation endpoint. The AI may
// return structured cocktails or, for providers without structured output,
// free text.
type Recommendation struct {
	Cocktails []Cocktail `json:"cocktails,omitempty"`
	Text      string     `json:"text,omitempty"`
}

// Empty reports whether the recommendation suggests nothing.
func (r Recommendation) Empty() bool {
	return len(r.Cocktails) == 0 && strings.TrimSpace(r.Text) == ""
}

// Favorite is a saved cocktail. Steps are called instructions on the wire.
type Favorite struct {
	ID           int         `json:"id"`
	Name         string      `json:"name"`
	Description  string      `json:"description"`
	Ingredients  Ingredients `json:"ingredients"`
	Instructions Steps       `json:"instructions"`
	CreatedAt    int64       `json:"created_at,omitempty"`
	UpdatedAt    int64       `json:"updated_at,omitempty"`
}

// FavoriteFrom converts a recommended cocktail into a favorite.
func FavoriteFrom(c Cocktail) Favorite {
	return Favorite{
		Name:         c.Name,
		Description:  c.Description,
		Ingredients:  Ingredients(c.Ingredients),
		Instructions: Steps(c.Steps),
	}
}

// Ingredients is stored as a JSON column.
type Ingredients []Ingredient

// Value encodes the ingredients as JSON.
func (ing Ingredients) Value() (driver.Value, error) {
	return jsonValue(ing)
}

// Scan decodes ingredients stored as JSON.
func (ing *Ingredients) Scan(src any) error {
	return scanJSON(src, ing)
}

// Steps is stored as a JSON column.
type Steps []Step

// Value encodes the steps as JSON.
func (s Steps) Value() (driver.Value, error) {
	return jsonValue(s)
}

// Scan decodes steps stored as JSON.
func (s *Steps) Scan(src any) error {
	return scanJSON(src, s)
}

func jsonValue(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func scanJSON(src, dest any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T as JSON", src)
	}
	return json.Unmarshal(data, dest)
}
