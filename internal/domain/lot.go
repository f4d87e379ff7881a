package domain

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Dish is a tracked dish. Lots are trials of its recipe.
type Dish struct {
	ID          string             `json:"id" yaml:"id"`
	Name        string             `json:"name" yaml:"name"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty"`
	ImageURL    string             `json:"imageUrl,omitempty" yaml:"imageUrl,omitempty"`
	Settings    EvaluationSettings `json:"evaluationSettings" yaml:"evaluationSettings"`
}

// DishSummary is a lightweight view of a dish for listing.
type DishSummary struct {
	ID          string
	Name        string
	Description string
}

// Lot is one recorded trial of a dish's recipe.
type Lot struct {
	ID            string      `json:"id" yaml:"id"`
	DishID        string      `json:"dishId" yaml:"dishId"`
	LotNumber     string      `json:"lotNumber" yaml:"lotNumber"`
	Status        LotStatus   `json:"status" yaml:"status"`
	TestDate      time.Time   `json:"testDate" yaml:"testDate"`
	Assignee      string      `json:"assignee" yaml:"assignee"`
	RecipeTitle   string      `json:"recipeTitle,omitempty" yaml:"recipeTitle,omitempty"`
	Memo          string      `json:"memo,omitempty" yaml:"memo,omitempty"`
	BaselineLotID string      `json:"baselineLotId,omitempty" yaml:"baselineLotId,omitempty"`
	Recipe        Recipe      `json:"recipe" yaml:"recipe"`
	Evaluation    *Evaluation `json:"evaluation,omitempty" yaml:"evaluation,omitempty"`
}

// HasEvaluation reports whether the lot has been evaluated.
func (l *Lot) HasEvaluation() bool { return l != nil && l.Evaluation != nil }

// HasBaseline reports whether the lot names a baseline lot.
func (l *Lot) HasBaseline() bool { return l != nil && l.BaselineLotID != "" }

// Validate checks the lot's identity fields and its recipe.
func (l *Lot) Validate() error {
	if l.DishID == "" {
		return fmt.Errorf("%w: missing dish id", ErrInvalidLot)
	}
	if l.LotNumber == "" {
		return fmt.Errorf("%w: missing lot number", ErrInvalidLot)
	}
	if err := ValidateID(l.DishID); err != nil {
		return err
	}
	if err := ValidateID(l.ID); err != nil {
		return err
	}
	if l.ID != "" && l.ID == l.BaselineLotID {
		return fmt.Errorf("%w: lot %s is its own baseline", ErrInvalidLot, l.ID)
	}
	return l.Recipe.Validate()
}

// ValidateID rejects identifiers containing NUL, which stores use as a
// key separator.
func ValidateID(id string) error {
	if strings.IndexByte(id, 0) >= 0 {
		return fmt.Errorf("%w: id %q contains a NUL byte", ErrInvalidLot, id)
	}
	return nil
}

// LotStatus tracks where a lot is in its lifecycle.
type LotStatus int

const (
	LotPlanned LotStatus = iota
	LotCooked
	LotEvaluated
)

// String returns a human-readable lot status.
func (s LotStatus) String() string {
	switch s {
	case LotPlanned:
		return "planned"
	case LotCooked:
		return "cooked"
	case LotEvaluated:
		return "evaluated"
	default:
		return "unknown"
	}
}

// LotStatusFromString converts a status name to a LotStatus. The labels
// used on the kitchen's original lot sheets are accepted too.
func LotStatusFromString(name string) (LotStatus, error) {
	switch name {
	case "planned", "未調理":
		return LotPlanned, nil
	case "cooked", "調理済み":
		return LotCooked, nil
	case "evaluated", "評価済み":
		return LotEvaluated, nil
	}
	return LotPlanned, fmt.Errorf("unknown lot status %q", name)
}

// MarshalText encodes the status by name for JSON and YAML.
func (s LotStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name.
func (s *LotStatus) UnmarshalText(b []byte) error {
	v, err := LotStatusFromString(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Evaluation is a structured taste evaluation of a lot.
type Evaluation struct {
	RatedAttributeSet `yaml:",inline"`

	Comments     string    `json:"comments,omitempty" yaml:"comments,omitempty"`
	Improvements string    `json:"improvements,omitempty" yaml:"improvements,omitempty"`
	EvaluatedBy  string    `json:"evaluatedBy,omitempty" yaml:"evaluatedBy,omitempty"`
	EvaluatedAt  time.Time `json:"evaluatedAt,omitempty" yaml:"evaluatedAt,omitempty"`
	DishImages   []string  `json:"dishImages,omitempty" yaml:"dishImages,omitempty"`
}

// Reserved attribute names for the fixed scalar ratings.
const (
	AttrOverall    = "overallRating"
	AttrAppearance = "appearance"
	AttrTexture    = "texture"
	AttrAroma      = "aroma"
)

// RatedAttributeSet holds the numeric ratings of one evaluation.
// Ratings are non-negative integers bounded by the attribute's scale.
type RatedAttributeSet struct {
	OverallRating     int            `json:"overallRating" yaml:"overallRating"`
	TasteProfiles     map[string]int `json:"tasteProfiles,omitempty" yaml:"tasteProfiles,omitempty"`
	CustomStarRatings map[string]int `json:"customStarRatings,omitempty" yaml:"customStarRatings,omitempty"`
	Appearance        int            `json:"appearance" yaml:"appearance"`
	Texture           int            `json:"texture" yaml:"texture"`
	Aroma             int            `json:"aroma" yaml:"aroma"`
}

// Rating returns the rating for an attribute name. Reserved names map to
// the scalar fields; any other name is looked up in TasteProfiles, then
// CustomStarRatings. Missing attributes and a nil set rate 0.
func (s *RatedAttributeSet) Rating(name string) int {
	if s == nil {
		return 0
	}
	switch name {
	case AttrOverall:
		return s.OverallRating
	case AttrAppearance:
		return s.Appearance
	case AttrTexture:
		return s.Texture
	case AttrAroma:
		return s.Aroma
	}
	if v, ok := s.TasteProfiles[name]; ok {
		return v
	}
	return s.CustomStarRatings[name]
}

// Validate checks that every rating lies in [0, scale] for the dish's
// settings. The first offending attribute is reported.
func (e *Evaluation) Validate(settings EvaluationSettings) error {
	if e == nil {
		return nil
	}
	check := func(name string, v int) error {
		if limit := settings.Scale(name); v < 0 || v > limit {
			return fmt.Errorf("%w: %s is %d, want 0..%d", ErrInvalidRating, name, v, limit)
		}
		return nil
	}

	scalars := []struct {
		name string
		v    int
	}{
		{AttrOverall, e.OverallRating},
		{AttrAppearance, e.Appearance},
		{AttrTexture, e.Texture},
		{AttrAroma, e.Aroma},
	}
	for _, s := range scalars {
		if err := check(s.name, s.v); err != nil {
			return err
		}
	}
	for _, m := range []map[string]int{e.TasteProfiles, e.CustomStarRatings} {
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := check(name, m[name]); err != nil {
				return err
			}
		}
	}
	return nil
}

// ItemType is how an evaluation item is entered.
type ItemType string

const (
	ItemSlider ItemType = "slider"
	ItemStar   ItemType = "star"
	ItemNumber ItemType = "number"
)

// EvaluationItem is a dish-specific rated attribute definition.
type EvaluationItem struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Type        ItemType `json:"type" yaml:"type"`
	Scale       int      `json:"scale" yaml:"scale"`
	Enabled     bool     `json:"enabled" yaml:"enabled"`
	Order       int      `json:"order" yaml:"order"`
}

// EvaluationSettings lists the custom evaluation items of a dish.
type EvaluationSettings struct {
	Items []EvaluationItem `json:"customItems" yaml:"customItems"`
}

// EnabledItems returns the enabled items sorted by Order.
func (s EvaluationSettings) EnabledItems() []EvaluationItem {
	out := make([]EvaluationItem, 0, len(s.Items))
	for _, it := range s.Items {
		if it.Enabled {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// Scale returns the display bound for an attribute. The overall rating and
// the fixed scalars are five-star; unknown items default to 5.
func (s EvaluationSettings) Scale(name string) int {
	for _, it := range s.Items {
		if it.Name == name && it.Scale > 0 {
			return it.Scale
		}
	}
	return 5
}
