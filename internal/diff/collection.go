package diff

import "github.com/hammamikhairi/lotbook/internal/domain"

// Status classifies one key of a collection diff.
type Status int

const (
	EntryUnchanged Status = iota
	EntryAdded
	EntryRemoved
	EntryModified
)

// String returns a human-readable entry status.
func (s Status) String() string {
	switch s {
	case EntryUnchanged:
		return "unchanged"
	case EntryAdded:
		return "added"
	case EntryRemoved:
		return "removed"
	case EntryModified:
		return "modified"
	default:
		return "unknown"
	}
}

// Change is a key present on both sides whose compared fields differ.
type Change[T any, K comparable] struct {
	Key  K
	From T
	To   T
}

// Entry is one key of the union of both sides, with its classification.
// From is set unless the key was added; To is set unless it was removed.
type Entry[T any, K comparable] struct {
	Key    K
	Status Status
	From   *T
	To     *T
}

// CollectionDiff is the result of comparing two keyed collections.
type CollectionDiff[T any, K comparable] struct {
	Added     []T
	Removed   []T
	Modified  []Change[T, K]
	Unchanged []T
	// Entries holds every key once: baseline order first, then keys that
	// exist only in current, in current order.
	Entries []Entry[T, K]
}

// HasChanges reports whether anything was added, removed or modified.
func (d CollectionDiff[T, K]) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// DiffCollection compares two collections matched by keyOf. Items present
// on both sides are unchanged when equal reports true. Keys must be unique
// within each side; on a duplicate the first occurrence wins.
func DiffCollection[T any, K comparable](baseline, current []T, keyOf func(T) K, equal func(a, b T) bool) CollectionDiff[T, K] {
	var out CollectionDiff[T, K]

	cur := make(map[K]int, len(current))
	for i, item := range current {
		k := keyOf(item)
		if _, dup := cur[k]; !dup {
			cur[k] = i
		}
	}

	seen := make(map[K]struct{}, len(baseline)+len(current))
	for i := range baseline {
		from := baseline[i]
		k := keyOf(from)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}

		j, ok := cur[k]
		if !ok {
			out.Removed = append(out.Removed, from)
			out.Entries = append(out.Entries, Entry[T, K]{Key: k, Status: EntryRemoved, From: &baseline[i]})
			continue
		}
		to := current[j]
		if equal(from, to) {
			out.Unchanged = append(out.Unchanged, to)
			out.Entries = append(out.Entries, Entry[T, K]{Key: k, Status: EntryUnchanged, From: &baseline[i], To: &current[j]})
			continue
		}
		out.Modified = append(out.Modified, Change[T, K]{Key: k, From: from, To: to})
		out.Entries = append(out.Entries, Entry[T, K]{Key: k, Status: EntryModified, From: &baseline[i], To: &current[j]})
	}

	for j := range current {
		k := keyOf(current[j])
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out.Added = append(out.Added, current[j])
		out.Entries = append(out.Entries, Entry[T, K]{Key: k, Status: EntryAdded, To: &current[j]})
	}
	return out
}

// IngredientDiff compares ingredient lists by name.
type IngredientDiff = CollectionDiff[domain.Ingredient, string]

// DiffIngredients matches ingredients by Name and compares Amount and Unit
// by exact string equality.
func DiffIngredients(baseline, current []domain.Ingredient) IngredientDiff {
	return DiffCollection(baseline, current,
		func(i domain.Ingredient) string { return i.Name },
		func(a, b domain.Ingredient) bool { return a.Amount == b.Amount && a.Unit == b.Unit },
	)
}

// StepChange is a modified step with the word diff of its description.
type StepChange struct {
	Order int
	From  string
	To    string
	Words []Token
}

// StepDiff compares step lists by order.
type StepDiff struct {
	CollectionDiff[domain.Step, int]
	Changes []StepChange
}

// DiffSteps matches steps by Order and compares Description. Each modified
// step carries a word-level diff of its description.
func DiffSteps(baseline, current []domain.Step) StepDiff {
	return TextDiffer{}.Steps(baseline, current)
}

// Steps is DiffSteps with the differ's table cap.
func (d TextDiffer) Steps(baseline, current []domain.Step) StepDiff {
	cd := DiffCollection(baseline, current,
		func(s domain.Step) int { return s.Order },
		func(a, b domain.Step) bool { return a.Description == b.Description },
	)
	out := StepDiff{CollectionDiff: cd}
	for _, m := range cd.Modified {
		out.Changes = append(out.Changes, StepChange{
			Order: m.Key,
			From:  m.From.Description,
			To:    m.To.Description,
			Words: d.Words(m.From.Description, m.To.Description),
		})
	}
	return out
}
