package bondlen

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

const (
	// FudgeCorrection is subtracted from each radius before it is handed to
	// the bond-inference step.
	FudgeCorrection = 0.125

	// BondFudge is what bond inference adds to the sum of two bond lengths.
	BondFudge = 2 * FudgeCorrection

	// DefaultRadius is used for unknown elements outside strict mode.
	DefaultRadius = 1.6
)

const panicDefaultRadiusInvalid = "bondlen: WithDefaultRadius: radius must be finite, positive"

// Option configures a Table.
type Option func(*Table)

// WithStrict makes lookups of unknown elements fail with ErrUnknownElement
// instead of falling back to the default radius.
func WithStrict() Option {
	return func(t *Table) { t.strict = true }
}

// WithDefaultRadius overrides DefaultRadius. It panics on a non-positive or
// non-finite radius.
func WithDefaultRadius(r float64) Option {
	if !(r > 0) || math.IsInf(r, 0) {
		panic(panicDefaultRadiusInvalid)
	}
	return func(t *Table) { t.fallback = r }
}

// WithOverride adds or replaces an override radius (Å) for elem.
func WithOverride(elem string, r float64) Option {
	return func(t *Table) { t.overrides[Normalize(elem)] = r }
}

// Table resolves effective radii. It is immutable after New and safe to
// share.
type Table struct {
	overrides map[string]float64
	strict    bool
	fallback  float64
}

// New returns the standard table: Cordero radii plus the built-in overrides.
func New(opts ...Option) *Table {
	t := &Table{
		overrides: make(map[string]float64, len(overrideScale)),
		fallback:  DefaultRadius,
	}
	for elem, f := range overrideScale {
		t.overrides[elem] = f * covalentRadii[elem]
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Strict reports whether unknown elements are surfaced as errors.
func (t *Table) Strict() bool { return t.strict }

// Normalize turns "FE", "fe" or " Fe " into "Fe".
func Normalize(elem string) string {
	elem = strings.TrimSpace(elem)
	if elem == "" {
		return ""
	}
	return strings.ToUpper(elem[:1]) + strings.ToLower(elem[1:])
}

// Known reports whether elem has a base radius or an override.
func (t *Table) Known(elem string) bool {
	_, ok := t.lookup(Normalize(elem))
	return ok
}

// Covalent returns the base covalent radius, ignoring overrides.
func (t *Table) Covalent(elem string) (float64, bool) {
	r, ok := covalentRadii[Normalize(elem)]
	return r, ok
}

func (t *Table) lookup(elem string) (float64, bool) {
	if r, ok := t.overrides[elem]; ok {
		return r, true
	}
	r, ok := covalentRadii[elem]
	return r, ok
}

// EffectiveRadius returns the override for elem if there is one, else its
// covalent radius. Unknown elements yield the default radius, or
// ErrUnknownElement in strict mode.
func (t *Table) EffectiveRadius(elem string) (float64, error) {
	if r, ok := t.lookup(Normalize(elem)); ok {
		return r, nil
	}
	if t.strict {
		return 0, fmt.Errorf("EffectiveRadius %q: %w", elem, ErrUnknownElement)
	}
	return t.fallback, nil
}

// BondLength is the per-element value the bond-inference step consumes:
// EffectiveRadius minus FudgeCorrection.
func (t *Table) BondLength(elem string) (float64, error) {
	r, err := t.EffectiveRadius(elem)
	if err != nil {
		return 0, err
	}
	return r - FudgeCorrection, nil
}

// Elements lists every symbol with a base radius or override, sorted.
func (t *Table) Elements() []string {
	seen := make(map[string]struct{}, len(covalentRadii)+len(t.overrides))
	for e := range covalentRadii {
		seen[e] = struct{}{}
	}
	for e := range t.overrides {
		seen[e] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for e := range seen {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
