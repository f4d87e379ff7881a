// Package domain defines the core types and interfaces for the lot tracker.
// All other packages depend on domain; domain depends on nothing.
package domain

import "fmt"

// Recipe is the recipe revision a lot was cooked from.
type Recipe struct {
	Title       string       `json:"title" yaml:"title"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty"`
	Version     string       `json:"version,omitempty" yaml:"version,omitempty"`
	Ingredients []Ingredient `json:"ingredients" yaml:"ingredients"`
	Steps       []Step       `json:"steps" yaml:"steps"`
}

// Ingredient is a single recipe line. Name is the identity key within a
// recipe; Amount and Unit are free-form display strings, never parsed.
type Ingredient struct {
	Name   string `json:"name" yaml:"name"`
	Amount string `json:"amount" yaml:"amount"`
	Unit   string `json:"unit" yaml:"unit"`
}

// Quantity returns "amount unit" for display.
func (i Ingredient) Quantity() string {
	switch {
	case i.Amount == "":
		return i.Unit
	case i.Unit == "":
		return i.Amount
	}
	return i.Amount + " " + i.Unit
}

// Step is a single cooking step. Order is the identity key within a recipe
// revision; matching across revisions is by Order, not by content.
type Step struct {
	Order       int    `json:"order" yaml:"order"`
	Description string `json:"description" yaml:"description"`
	ImageURL    string `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
}

// Validate checks the key invariants the comparison code relies on:
// ingredient names are unique and step orders are unique and >= 1.
func (r Recipe) Validate() error {
	names := make(map[string]struct{}, len(r.Ingredients))
	for _, ing := range r.Ingredients {
		if ing.Name == "" {
			return fmt.Errorf("%w: ingredient with empty name", ErrInvalidLot)
		}
		if _, dup := names[ing.Name]; dup {
			return fmt.Errorf("%w: duplicate ingredient %q", ErrInvalidLot, ing.Name)
		}
		names[ing.Name] = struct{}{}
	}

	orders := make(map[int]struct{}, len(r.Steps))
	for _, st := range r.Steps {
		if st.Order < 1 {
			return fmt.Errorf("%w: step order %d must be >= 1", ErrInvalidLot, st.Order)
		}
		if _, dup := orders[st.Order]; dup {
			return fmt.Errorf("%w: duplicate step order %d", ErrInvalidLot, st.Order)
		}
		orders[st.Order] = struct{}{}
	}
	return nil
}
