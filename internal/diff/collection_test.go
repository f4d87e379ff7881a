package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/hammamikhairi/lotbook/internal/domain"
)

var baseIngredients = []domain.Ingredient{
	{Name: "牛肉", Amount: "300", Unit: "g"},
	{Name: "玉ねぎ", Amount: "2", Unit: "個"},
	{Name: "カレールー", Amount: "1", Unit: "箱"},
	{Name: "水", Amount: "800", Unit: "ml"},
}

var veggieIngredients = []domain.Ingredient{
	{Name: "牛肉", Amount: "200", Unit: "g"},
	{Name: "玉ねぎ", Amount: "3", Unit: "個"},
	{Name: "カレールー", Amount: "1", Unit: "箱"},
	{Name: "かぼちゃ", Amount: "1/4", Unit: "個"},
	{Name: "ズッキーニ", Amount: "1", Unit: "本"},
}

func TestDiffIngredientsModifiedAmount(t *testing.T) {
	got := DiffIngredients(
		[]domain.Ingredient{{Name: "牛肉", Amount: "300", Unit: "g"}},
		[]domain.Ingredient{{Name: "牛肉", Amount: "200", Unit: "g"}},
	)

	want := []Change[domain.Ingredient, string]{{
		Key:  "牛肉",
		From: domain.Ingredient{Name: "牛肉", Amount: "300", Unit: "g"},
		To:   domain.Ingredient{Name: "牛肉", Amount: "200", Unit: "g"},
	}}
	if d := cmp.Diff(want, got.Modified); d != "" {
		t.Fatalf("modified mismatch (-want +got):\n%s", d)
	}
	if len(got.Added) != 0 || len(got.Removed) != 0 || len(got.Unchanged) != 0 {
		t.Fatalf("expected only a modified entry, got %+v", got)
	}
}

func TestDiffIngredients(t *testing.T) {
	got := DiffIngredients(baseIngredients, veggieIngredients)

	wantKeys := []string{"牛肉", "玉ねぎ", "カレールー", "水", "かぼちゃ", "ズッキーニ"}
	wantStatus := []Status{EntryModified, EntryModified, EntryUnchanged, EntryRemoved, EntryAdded, EntryAdded}
	if len(got.Entries) != len(wantKeys) {
		t.Fatalf("expected %d entries, got %d", len(wantKeys), len(got.Entries))
	}
	for i, e := range got.Entries {
		if e.Key != wantKeys[i] || e.Status != wantStatus[i] {
			t.Errorf("entry %d: got %s/%s, want %s/%s", i, e.Key, e.Status, wantKeys[i], wantStatus[i])
		}
	}

	if len(got.Added) != 2 || got.Added[0].Name != "かぼちゃ" {
		t.Fatalf("unexpected added: %+v", got.Added)
	}
	if len(got.Removed) != 1 || got.Removed[0].Name != "水" {
		t.Fatalf("unexpected removed: %+v", got.Removed)
	}
	if len(got.Unchanged) != 1 || got.Unchanged[0].Name != "カレールー" {
		t.Fatalf("unexpected unchanged: %+v", got.Unchanged)
	}
	if !got.HasChanges() {
		t.Fatal("expected HasChanges to be true")
	}

	// Entries expose both sides where they exist.
	removed := got.Entries[3]
	if removed.From == nil || removed.To != nil {
		t.Fatalf("removed entry sides: from=%v to=%v", removed.From, removed.To)
	}
	added := got.Entries[4]
	if added.From != nil || added.To == nil || added.To.Amount != "1/4" {
		t.Fatalf("added entry sides: from=%v to=%v", added.From, added.To)
	}
}

func TestDiffIngredientsExactComparison(t *testing.T) {
	tests := []struct {
		name     string
		from, to domain.Ingredient
		want     Status
	}{
		{"same", domain.Ingredient{Name: "x", Amount: "300", Unit: "g"}, domain.Ingredient{Name: "x", Amount: "300", Unit: "g"}, EntryUnchanged},
		{"no numeric normalisation", domain.Ingredient{Name: "x", Amount: "300", Unit: "g"}, domain.Ingredient{Name: "x", Amount: "300.0", Unit: "g"}, EntryModified},
		{"unit only", domain.Ingredient{Name: "x", Amount: "1", Unit: "本"}, domain.Ingredient{Name: "x", Amount: "1", Unit: "個"}, EntryModified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiffIngredients([]domain.Ingredient{tt.from}, []domain.Ingredient{tt.to})
			if len(got.Entries) != 1 || got.Entries[0].Status != tt.want {
				t.Fatalf("expected single %s entry, got %+v", tt.want, got.Entries)
			}
		})
	}
}

func TestDiffCollectionCompleteness(t *testing.T) {
	pairs := [][2][]domain.Ingredient{
		{nil, nil},
		{baseIngredients, nil},
		{nil, veggieIngredients},
		{baseIngredients, veggieIngredients},
		{veggieIngredients, baseIngredients},
		{baseIngredients, baseIngredients},
	}

	for i, p := range pairs {
		got := DiffIngredients(p[0], p[1])

		union := map[string]struct{}{}
		for _, it := range p[0] {
			union[it.Name] = struct{}{}
		}
		for _, it := range p[1] {
			union[it.Name] = struct{}{}
		}

		seen := map[string]int{}
		for _, it := range got.Added {
			seen[it.Name]++
		}
		for _, it := range got.Removed {
			seen[it.Name]++
		}
		for _, it := range got.Unchanged {
			seen[it.Name]++
		}
		for _, m := range got.Modified {
			seen[m.Key]++
		}

		if len(seen) != len(union) || len(got.Entries) != len(union) {
			t.Fatalf("pair %d: union has %d keys, classified %d, entries %d", i, len(union), len(seen), len(got.Entries))
		}
		for k, n := range seen {
			if n != 1 {
				t.Fatalf("pair %d: key %q classified %d times", i, k, n)
			}
		}
	}
}

func TestDiffCollectionDuplicateKeysFirstWins(t *testing.T) {
	baseline := []domain.Ingredient{{Name: "塩", Amount: "1"}, {Name: "塩", Amount: "2"}}
	current := []domain.Ingredient{{Name: "塩", Amount: "1"}, {Name: "塩", Amount: "9"}}

	got := DiffIngredients(baseline, current)
	if len(got.Entries) != 1 || got.Entries[0].Status != EntryUnchanged {
		t.Fatalf("expected one unchanged entry, got %+v", got.Entries)
	}
}

func TestDiffSteps(t *testing.T) {
	baseline := []domain.Step{
		{Order: 1, Description: "野菜と肉を一口大に切ります。"},
		{Order: 2, Description: "heat oil in a pot and brown the meat"},
		{Order: 3, Description: "simmer for 30 minutes"},
	}
	current := []domain.Step{
		{Order: 1, Description: "野菜と肉を一口大に切ります。"},
		{Order: 2, Description: "heat oil in a frying pan and brown the meat"},
		{Order: 4, Description: "finish with garam masala"},
	}

	got := DiffSteps(baseline, current)

	if d := cmp.Diff([]int{1, 2, 3, 4}, entryKeys(got.Entries)); d != "" {
		t.Fatalf("entry order mismatch (-want +got):\n%s", d)
	}
	if len(got.Removed) != 1 || got.Removed[0].Order != 3 {
		t.Fatalf("unexpected removed: %+v", got.Removed)
	}
	if len(got.Added) != 1 || got.Added[0].Order != 4 {
		t.Fatalf("unexpected added: %+v", got.Added)
	}
	if len(got.Changes) != 1 {
		t.Fatalf("expected 1 step change, got %d", len(got.Changes))
	}

	ch := got.Changes[0]
	if ch.Order != 2 || ch.From != baseline[1].Description || ch.To != current[1].Description {
		t.Fatalf("unexpected change: %+v", ch)
	}
	if d := cmp.Diff([]string{"frying", "pan"}, AddedWords(ch.Words)); d != "" {
		t.Fatalf("added words mismatch (-want +got):\n%s", d)
	}
}

func TestDiffStepsEmpty(t *testing.T) {
	got := DiffSteps(nil, []domain.Step{})
	if got.HasChanges() || len(got.Entries) != 0 || len(got.Changes) != 0 {
		t.Fatalf("expected empty diff, got %+v", got)
	}
	if d := cmp.Diff(StepDiff{}, got, cmpopts.EquateEmpty()); d != "" {
		t.Fatalf("empty diff mismatch (-want +got):\n%s", d)
	}
}

func entryKeys[T any](entries []Entry[T, int]) []int {
	out := make([]int, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Key)
	}
	return out
}
