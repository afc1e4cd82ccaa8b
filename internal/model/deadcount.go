package model

import (
	"sort"

	"github.com/rotisserie/eris"
)

// DeadCountKind tags the variant held by a DeadCount.
type DeadCountKind int

// Dead count variants.
const (
	DeadCountNone  DeadCountKind = iota // no death count recorded
	DeadCountExact                      // a single value
	DeadCountRange                      // a min/max pair
)

// String implements fmt.Stringer.
func (k DeadCountKind) String() string {
	switch k {
	case DeadCountNone:
		return "none"
	case DeadCountExact:
		return "exact"
	case DeadCountRange:
		return "range"
	default:
		return "unknown"
	}
}

// DeadCount is the number of dead recorded for an accident. Values are kept
// as decoded from the source (usually numeric strings).
type DeadCount struct {
	Kind  DeadCountKind
	Exact any
	Min   any
	Max   any
}

// Resolve returns the single figure used on a card: 0 when nothing is
// recorded, the value itself for an exact count and the lower bound of a range.
func (d DeadCount) Resolve() any {
	switch d.Kind {
	case DeadCountExact:
		return d.Exact
	case DeadCountRange:
		return d.Min
	default:
		return 0
	}
}

// ParseDeadCount reads the death count field of an accident.
//
// An absent field is DeadCountNone. A mapping with two keys is a range and
// must carry the min key; the other key is taken as the max. A mapping with
// one key is an exact count whatever the key is called. Any other shape is
// ErrUnexpectedShape.
func ParseDeadCount(a Accident, s Schema) (DeadCount, error) {
	raw, ok := a[s.Dead]
	if !ok {
		return DeadCount{Kind: DeadCountNone}, nil
	}

	m, ok := raw.(map[string]any)
	if !ok {
		return DeadCount{}, eris.Wrapf(ErrUnexpectedShape, "%s is %T, not a mapping", s.Dead, raw)
	}

	switch len(m) {
	case 1:
		for _, v := range m {
			return DeadCount{Kind: DeadCountExact, Exact: v}, nil
		}
	case 2:
		lo, ok := m[s.DeadMin]
		if !ok {
			return DeadCount{}, eris.Wrapf(ErrUnexpectedShape, "%s range without %s (keys %v)", s.Dead, s.DeadMin, keys(m))
		}
		hi, ok := m[s.DeadMax]
		if !ok {
			for k, v := range m {
				if k != s.DeadMin {
					hi = v
				}
			}
		}
		return DeadCount{Kind: DeadCountRange, Min: lo, Max: hi}, nil
	}

	return DeadCount{}, eris.Wrapf(ErrUnexpectedShape, "%s has %d keys %v", s.Dead, len(m), keys(m))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
