package diff

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/hammamikhairi/lotbook/internal/domain"
)

// DefaultSummaryItems is how many names a summary line lists before
// collapsing the rest into a count.
const DefaultSummaryItems = 2

// SummaryLine is one short change description, e.g. "added garam masala".
type SummaryLine struct {
	Status Status
	Text   string
}

// Summary condenses ingredient and step diffs into a few lines.
type Summary struct {
	Ingredients []SummaryLine
	Steps       []SummaryLine
}

// Empty reports whether there is nothing to show.
func (s Summary) Empty() bool {
	return len(s.Ingredients) == 0 && len(s.Steps) == 0
}

// Summarize builds the short change lines shown on a lot card. Each line
// names at most maxItems entries; maxItems <= 0 uses DefaultSummaryItems.
func Summarize(ingredients IngredientDiff, steps StepDiff, maxItems int) Summary {
	if maxItems <= 0 {
		maxItems = DefaultSummaryItems
	}
	var s Summary

	if names := ingredientNames(ingredients.Added); len(names) > 0 {
		s.Ingredients = append(s.Ingredients, SummaryLine{EntryAdded, "added " + listNames(names, maxItems)})
	}
	if names := ingredientNames(ingredients.Removed); len(names) > 0 {
		s.Ingredients = append(s.Ingredients, SummaryLine{EntryRemoved, "removed " + listNames(names, maxItems)})
	}
	if len(ingredients.Modified) > 0 {
		names := make([]string, 0, len(ingredients.Modified))
		for _, m := range ingredients.Modified {
			names = append(names, m.Key)
		}
		s.Ingredients = append(s.Ingredients, SummaryLine{EntryModified, "changed amount of " + listNames(names, maxItems)})
	}

	if len(steps.Added) > 0 {
		labels := make([]string, 0, len(steps.Added))
		for _, st := range steps.Added {
			labels = append(labels, stepLabel(st.Order))
		}
		s.Steps = append(s.Steps, SummaryLine{EntryAdded, "added " + listNames(labels, maxItems)})
	}
	if len(steps.Removed) > 0 {
		labels := make([]string, 0, len(steps.Removed))
		for _, st := range steps.Removed {
			labels = append(labels, stepLabel(st.Order))
		}
		s.Steps = append(s.Steps, SummaryLine{EntryRemoved, "removed " + listNames(labels, maxItems)})
	}
	if len(steps.Changes) > 0 {
		labels := make([]string, 0, len(steps.Changes))
		for _, ch := range steps.Changes {
			labels = append(labels, changedStepLabel(ch))
		}
		s.Steps = append(s.Steps, SummaryLine{EntryModified, "changed " + listNames(labels, maxItems)})
	}
	return s
}

func stepLabel(order int) string { return fmt.Sprintf("step %d", order) }

// changedStepLabel names a modified step after the first word its new
// description introduced, if that word is longer than one character.
func changedStepLabel(ch StepChange) string {
	if words := AddedWords(ch.Words); len(words) > 0 && utf8.RuneCountInString(words[0]) > 1 {
		return fmt.Sprintf("%s (%s)", stepLabel(ch.Order), words[0])
	}
	return stepLabel(ch.Order)
}

func ingredientNames(items []domain.Ingredient) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Name)
	}
	return out
}

// listNames joins up to limit names and appends the count of the rest.
func listNames(names []string, limit int) string {
	if len(names) <= limit {
		return strings.Join(names, ", ")
	}
	return fmt.Sprintf("%s (+%d more)", strings.Join(names[:limit], ", "), len(names)-limit)
}
