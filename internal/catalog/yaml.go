package catalog

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hammamikhairi/lotbook/internal/domain"
)

// Bundle is a dish with its lots, as read from an import file.
type Bundle struct {
	Dish domain.Dish   `yaml:"dish"`
	Lots []*domain.Lot `yaml:"lots"`
}

// DecodeYAML reads a bundle. Lots without a dish ID are assigned to the
// bundle's dish, every lot is validated (ratings against the dish's
// scales), and lots are reordered so that a baseline defined in the same
// file comes before the lots that use it.
func DecodeYAML(r io.Reader) (*Bundle, error) {
	var b Bundle
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if b.Dish.ID == "" {
		return nil, fmt.Errorf("%w: dish without id", domain.ErrInvalidLot)
	}

	for i, l := range b.Lots {
		if l == nil {
			return nil, fmt.Errorf("%w: empty lot entry %d", domain.ErrInvalidLot, i)
		}
		if l.DishID == "" {
			l.DishID = b.Dish.ID
		}
		if err := l.Validate(); err != nil {
			return nil, fmt.Errorf("lot %q: %w", l.LotNumber, err)
		}
		if err := l.Evaluation.Validate(b.Dish.Settings); err != nil {
			return nil, fmt.Errorf("lot %q: %w", l.LotNumber, err)
		}
	}

	ordered, err := baselineFirst(b.Lots)
	if err != nil {
		return nil, err
	}
	b.Lots = ordered
	return &b, nil
}

// EncodeYAML writes a bundle in the format DecodeYAML reads.
func EncodeYAML(w io.Writer, b *Bundle) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(b); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

// baselineFirst orders lots so in-file baselines precede their dependants,
// keeping file order otherwise. Baselines outside the file are assumed to
// exist already. A baseline cycle is an error.
func baselineFirst(lots []*domain.Lot) ([]*domain.Lot, error) {
	inFile := make(map[string]bool, len(lots))
	for _, l := range lots {
		if l.ID != "" {
			inFile[l.ID] = true
		}
	}

	out := make([]*domain.Lot, 0, len(lots))
	placed := make(map[string]bool, len(lots))
	pending := lots
	for len(pending) > 0 {
		var next []*domain.Lot
		for _, l := range pending {
			if l.HasBaseline() && inFile[l.BaselineLotID] && !placed[l.BaselineLotID] {
				next = append(next, l)
				continue
			}
			out = append(out, l)
			if l.ID != "" {
				placed[l.ID] = true
			}
		}
		if len(next) == len(pending) {
			return nil, fmt.Errorf("%w: baseline cycle involving lot %q", domain.ErrInvalidLot, next[0].LotNumber)
		}
		pending = next
	}
	return out, nil
}
