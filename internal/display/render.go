package display

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/lotbook/internal/diff"
	"github.com/hammamikhairi/lotbook/internal/domain"
	"github.com/hammamikhairi/lotbook/internal/engine"
)

const indent = "  "

// RenderTextDiff renders a word diff inline. Removed words are wrapped in
// [- -] and added words in {+ +} so the diff survives without colour.
func RenderTextDiff(tokens []diff.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, t := range tokens {
		parts = append(parts, renderToken(t))
	}
	return strings.Join(parts, " ")
}

func renderToken(t diff.Token) string {
	switch t.Kind {
	case diff.Removed:
		return removedStyle.Render("[-" + t.Text + "-]")
	case diff.Added:
		return addedStyle.Render("{+" + t.Text + "+}")
	default:
		return primaryStyle.Render(t.Text)
	}
}

// RenderLineDiff renders a line diff one line per token, prefixed with
// "- ", "+ " or two spaces.
func RenderLineDiff(tokens []diff.Token) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(indent)
		switch t.Kind {
		case diff.Removed:
			b.WriteString(decreaseStyle.Render("- " + t.Text))
		case diff.Added:
			b.WriteString(addedStyle.Render("+ " + t.Text))
		default:
			b.WriteString(secondaryStyle.Render("  " + t.Text))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderIngredients renders every ingredient entry with its status marker.
func RenderIngredients(d diff.IngredientDiff) string {
	if len(d.Entries) == 0 {
		return indent + secondaryStyle.Render("no ingredients") + "\n"
	}

	width := 0
	for _, e := range d.Entries {
		width = max(width, lipgloss.Width(e.Key))
	}

	var b strings.Builder
	for _, e := range d.Entries {
		name := e.Key + strings.Repeat(" ", width-lipgloss.Width(e.Key))
		b.WriteString(indent)
		switch e.Status {
		case diff.EntryAdded:
			b.WriteString(addedStyle.Render("+ " + name + "  " + e.To.Quantity()))
		case diff.EntryRemoved:
			b.WriteString(removedStyle.Render("- " + name + "  " + e.From.Quantity()))
		case diff.EntryModified:
			b.WriteString(modifiedStyle.Render("~ " + name + "  "))
			b.WriteString(removedStyle.Render(e.From.Quantity()))
			b.WriteString(secondaryStyle.Render(" → "))
			b.WriteString(addedStyle.Render(e.To.Quantity()))
		default:
			b.WriteString(secondaryStyle.Render("  " + name + "  " + e.To.Quantity()))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderSteps renders every step entry; modified steps show a word diff.
func RenderSteps(d diff.StepDiff) string {
	if len(d.Entries) == 0 {
		return indent + secondaryStyle.Render("no steps") + "\n"
	}

	changes := make(map[int]diff.StepChange, len(d.Changes))
	for _, ch := range d.Changes {
		changes[ch.Order] = ch
	}

	var b strings.Builder
	for _, e := range d.Entries {
		label := fmt.Sprintf("%2d. ", e.Key)
		b.WriteString(indent)
		switch e.Status {
		case diff.EntryAdded:
			b.WriteString(addedStyle.Render("+ " + label + e.To.Description))
		case diff.EntryRemoved:
			b.WriteString(removedStyle.Render("- " + label + e.From.Description))
		case diff.EntryModified:
			b.WriteString(modifiedStyle.Render("~ " + label))
			b.WriteString(RenderTextDiff(changes[e.Key].Words))
		default:
			b.WriteString(secondaryStyle.Render("  " + label + e.To.Description))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderRatings renders rating deltas as an aligned table. Scales come from
// the dish settings.
func RenderRatings(deltas []diff.RatingDelta, settings domain.EvaluationSettings) string {
	if len(deltas) == 0 {
		return indent + secondaryStyle.Render("no ratings") + "\n"
	}

	width := 0
	for _, d := range deltas {
		width = max(width, lipgloss.Width(diff.AttributeLabel(d.Name)))
	}

	var b strings.Builder
	for _, d := range deltas {
		label := diff.AttributeLabel(d.Name)
		scale := settings.Scale(d.Name)
		b.WriteString(indent)
		b.WriteString(primaryStyle.Render(label + strings.Repeat(" ", width-lipgloss.Width(label))))
		b.WriteString(secondaryStyle.Render(fmt.Sprintf("  %d/%d → %d/%d  ", d.Baseline, scale, d.Current, scale)))
		b.WriteString(renderDelta(d))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderDelta(d diff.RatingDelta) string {
	switch d.Direction() {
	case diff.Increased:
		return addedStyle.Render(fmt.Sprintf("↑ +%d", d.Delta))
	case diff.Decreased:
		return decreaseStyle.Render(fmt.Sprintf("↓ %d", d.Delta))
	default:
		return secondaryStyle.Render("–")
	}
}

// RenderTop renders the ranked top changes on one line.
func RenderTop(top []diff.RatingDelta) string {
	parts := make([]string, 0, len(top))
	for _, d := range top {
		parts = append(parts, fmt.Sprintf("%s %+d", diff.AttributeLabel(d.Name), d.Delta))
	}
	return indent + headingStyle.Render("top changes: ") + primaryStyle.Render(strings.Join(parts, ", ")) + "\n"
}

// RenderSummary renders the short change lines of a lot card.
func RenderSummary(s diff.Summary) string {
	if s.Empty() {
		return indent + secondaryStyle.Render("no recipe changes") + "\n"
	}
	var b strings.Builder
	for _, group := range [][]diff.SummaryLine{s.Ingredients, s.Steps} {
		for _, l := range group {
			b.WriteString(indent)
			b.WriteString(statusStyle(l.Status).Render(l.Text))
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func statusStyle(s diff.Status) lipgloss.Style {
	switch s {
	case diff.EntryAdded:
		return addedStyle
	case diff.EntryRemoved:
		return decreaseStyle
	case diff.EntryModified:
		return modifiedStyle
	default:
		return secondaryStyle
	}
}

// RenderComparison renders a full lot comparison.
func RenderComparison(c *engine.LotComparison, settings domain.EvaluationSettings) string {
	var b strings.Builder

	b.WriteString(headingStyle.Render(fmt.Sprintf("%s  vs  %s", c.Lot.LotNumber, c.Baseline.LotNumber)))
	b.WriteByte('\n')
	b.WriteString(indent + secondaryStyle.Render(fmt.Sprintf("%s → %s", recipeTitle(c.Baseline), recipeTitle(c.Lot))))
	b.WriteString("\n\n")

	section(&b, "Summary", RenderSummary(c.Summary))
	section(&b, "Ingredients", RenderIngredients(c.Ingredients))
	section(&b, "Steps", RenderSteps(c.Steps))

	if c.HasRatings() {
		section(&b, "Ratings", RenderRatings(c.Ratings, settings)+RenderTop(c.Top))
	} else {
		section(&b, "Ratings", indent+secondaryStyle.Render("no rating comparison: evaluation missing")+"\n")
	}

	if len(c.Comments) > 0 {
		section(&b, "Comments", RenderLineDiff(c.Comments))
	}
	if len(c.Improvements) > 0 {
		section(&b, "Improvements", RenderLineDiff(c.Improvements))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

func section(b *strings.Builder, title, body string) {
	b.WriteString(headingStyle.Render(title))
	b.WriteByte('\n')
	b.WriteString(body)
	b.WriteByte('\n')
}

func recipeTitle(l *domain.Lot) string {
	if l.Recipe.Title != "" {
		return l.Recipe.Title
	}
	if l.RecipeTitle != "" {
		return l.RecipeTitle
	}
	return "(untitled)"
}

// RenderDishes renders a dish list.
func RenderDishes(dishes []domain.DishSummary) string {
	if len(dishes) == 0 {
		return secondaryStyle.Render("no dishes") + "\n"
	}
	var b strings.Builder
	for _, d := range dishes {
		b.WriteString(primaryStyle.Render(d.ID))
		b.WriteString("  ")
		b.WriteString(headingStyle.Render(d.Name))
		b.WriteByte('\n')
		if d.Description != "" {
			b.WriteString(indent + secondaryStyle.Render(d.Description) + "\n")
		}
	}
	return b.String()
}

// LotRow formats a lot as a single list row.
func LotRow(l *domain.Lot) string {
	row := fmt.Sprintf("%s  %s  %-9s  %s  %s",
		l.LotNumber, l.TestDate.Format("2006-01-02"), l.Status, l.Assignee, recipeTitle(l))
	if l.HasBaseline() {
		row += "  (base " + l.BaselineLotID + ")"
	}
	return row
}

// RenderLots renders a lot list.
func RenderLots(lots []*domain.Lot) string {
	if len(lots) == 0 {
		return secondaryStyle.Render("no lots") + "\n"
	}
	var b strings.Builder
	for _, l := range lots {
		b.WriteString(primaryStyle.Render(LotRow(l)))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderError renders an error line.
func RenderError(err error) string {
	return errorStyle.Render("error: " + err.Error())
}
