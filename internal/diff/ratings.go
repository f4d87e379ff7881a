package diff

import (
	"sort"

	"github.com/hammamikhairi/lotbook/internal/domain"
)

// RatingDelta is the change of one rated attribute between two lots.
type RatingDelta struct {
	Name     string
	Baseline int
	Current  int
	Delta    int
}

// Magnitude returns |Delta|.
func (r RatingDelta) Magnitude() int {
	if r.Delta < 0 {
		return -r.Delta
	}
	return r.Delta
}

// Direction classifies the delta.
func (r RatingDelta) Direction() Direction { return DirectionOf(r.Delta) }

// Direction is the sign of a rating change.
type Direction int

const (
	Unchanged Direction = iota
	Increased
	Decreased
)

// String returns a human-readable direction.
func (d Direction) String() string {
	switch d {
	case Increased:
		return "increased"
	case Decreased:
		return "decreased"
	default:
		return "unchanged"
	}
}

// DirectionOf returns Increased for delta > 0, Decreased for delta < 0 and
// Unchanged otherwise.
func DirectionOf(delta int) Direction {
	switch {
	case delta > 0:
		return Increased
	case delta < 0:
		return Decreased
	default:
		return Unchanged
	}
}

// DiffRatings compares the selected attributes of two rating sets, in the
// order given. Missing attributes and nil sets rate 0. Zero deltas are kept.
func DiffRatings(baseline, current *domain.RatedAttributeSet, selected []string) []RatingDelta {
	out := make([]RatingDelta, 0, len(selected))
	for _, name := range selected {
		b, c := baseline.Rating(name), current.Rating(name)
		out = append(out, RatingDelta{Name: name, Baseline: b, Current: c, Delta: c - b})
	}
	return out
}

// ChangedOnly drops the entries whose delta is zero.
func ChangedOnly(deltas []RatingDelta) []RatingDelta {
	out := make([]RatingDelta, 0, len(deltas))
	for _, d := range deltas {
		if d.Delta != 0 {
			out = append(out, d)
		}
	}
	return out
}

// TopN returns the n entries with the largest |Delta|. Equal magnitudes keep
// their input order. The input slice is not modified.
func TopN(deltas []RatingDelta, n int) []RatingDelta {
	if n <= 0 {
		return []RatingDelta{}
	}
	sorted := make([]RatingDelta, len(deltas))
	copy(sorted, deltas)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Magnitude() > sorted[j].Magnitude()
	})
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// DefaultAttributes builds the attribute list shown on a lot card: the
// overall rating, the main taste items rated on at least one side, then
// appearance, texture and aroma.
func DefaultAttributes(mainTaste []string, baseline, current *domain.RatedAttributeSet) []string {
	out := []string{domain.AttrOverall}
	for _, name := range mainTaste {
		if baseline.Rating(name) != 0 || current.Rating(name) != 0 {
			out = append(out, name)
		}
	}
	return append(out, domain.AttrAppearance, domain.AttrTexture, domain.AttrAroma)
}

// AllAttributes lists every attribute of two evaluations: the overall
// rating, the dish's enabled items in settings order, any other rated names
// sorted, then the fixed scalars.
func AllAttributes(settings domain.EvaluationSettings, baseline, current *domain.RatedAttributeSet) []string {
	out := []string{domain.AttrOverall}
	seen := map[string]struct{}{}
	for name := range attributeLabels {
		seen[name] = struct{}{}
	}

	for _, it := range settings.EnabledItems() {
		if _, dup := seen[it.Name]; dup {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it.Name)
	}

	var extra []string
	for _, s := range []*domain.RatedAttributeSet{baseline, current} {
		if s == nil {
			continue
		}
		for _, m := range []map[string]int{s.TasteProfiles, s.CustomStarRatings} {
			for name := range m {
				if _, dup := seen[name]; !dup {
					seen[name] = struct{}{}
					extra = append(extra, name)
				}
			}
		}
	}
	sort.Strings(extra)
	out = append(out, extra...)

	return append(out, domain.AttrAppearance, domain.AttrTexture, domain.AttrAroma)
}

// attributeLabels are the display names of the reserved attributes.
var attributeLabels = map[string]string{
	domain.AttrOverall:    "overall",
	domain.AttrAppearance: "appearance",
	domain.AttrTexture:    "texture",
	domain.AttrAroma:      "aroma",
}

// AttributeLabel returns the display name of an attribute.
func AttributeLabel(name string) string {
	if l, ok := attributeLabels[name]; ok {
		return l
	}
	return name
}
