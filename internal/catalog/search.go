package catalog

import (
	"strings"

	"github.com/hammamikhairi/lotbook/internal/diff"
	"github.com/hammamikhairi/lotbook/internal/domain"
)

// Search returns the lots matching query, in input order. Matching is a
// case-insensitive substring test over the lot's identity fields, its
// recipe, and its changes against its baseline when that baseline is in
// lots. An empty query matches everything.
func Search(lots []*domain.Lot, query string) []*domain.Lot {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return lots
	}

	byID := make(map[string]*domain.Lot, len(lots))
	for _, l := range lots {
		byID[l.ID] = l
	}

	var out []*domain.Lot
	for _, l := range lots {
		if matchesLot(l, q) || matchesChanges(l, byID[l.BaselineLotID], q) {
			out = append(out, l)
		}
	}
	return out
}

func contains(s, q string) bool {
	return strings.Contains(strings.ToLower(s), q)
}

func matchesLot(l *domain.Lot, q string) bool {
	for _, s := range []string{l.LotNumber, l.Status.String(), l.Assignee, l.RecipeTitle, l.Recipe.Title, l.Memo} {
		if contains(s, q) {
			return true
		}
	}
	if matchesIngredients(l.Recipe.Ingredients, q) {
		return true
	}
	for _, st := range l.Recipe.Steps {
		if contains(st.Description, q) {
			return true
		}
	}
	return false
}

func matchesIngredients(items []domain.Ingredient, q string) bool {
	for _, it := range items {
		if contains(it.Name, q) || contains(it.Amount, q) || contains(it.Unit, q) {
			return true
		}
	}
	return false
}

// matchesChanges looks at what changed from baseline to l, so a query can
// find a lot by something its baseline had and it dropped.
func matchesChanges(l, baseline *domain.Lot, q string) bool {
	if baseline == nil || baseline == l {
		return false
	}

	ing := diff.DiffIngredients(baseline.Recipe.Ingredients, l.Recipe.Ingredients)
	if matchesIngredients(ing.Removed, q) {
		return true
	}
	for _, m := range ing.Modified {
		if contains(m.From.Amount, q) || contains(m.From.Unit, q) {
			return true
		}
	}

	steps := diff.DiffSteps(baseline.Recipe.Steps, l.Recipe.Steps)
	for _, st := range steps.Removed {
		if contains(st.Description, q) {
			return true
		}
	}
	for _, ch := range steps.Changes {
		if contains(ch.From, q) {
			return true
		}
	}
	return false
}
