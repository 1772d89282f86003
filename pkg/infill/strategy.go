package infill

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
)

// Strategy orders fill segments for printing.
type Strategy interface {
	Name() string
	// Order returns segs in emission order, possibly with endpoints swapped.
	Order(segs []Segment) []Segment
}

// Compile-time interface checks.
var (
	_ Strategy = Raster{}
	_ Strategy = Pen{}
)

// Raster emits segments in generation order, row after row, each left to
// right. Every row ends with a long travel back to the left side.
type Raster struct{}

func (Raster) Name() string { return "raster" }

func (Raster) Order(segs []Segment) []Segment {
	return append([]Segment(nil), segs...)
}

// Pen groups segments by their pair index within the row and emits the
// groups in pair order. Inside a group, direction alternates so consecutive
// segments are joined by a short hop across to the next row, approximating a
// back-and-forth path through each column of the region.
type Pen struct{}

func (Pen) Name() string { return "pen" }

func (Pen) Order(segs []Segment) []Segment {
	if len(segs) == 0 {
		return nil
	}
	buckets := lo.GroupBy(segs, func(s Segment) int { return s.Pair })
	last := lo.Max(lo.Keys(buckets))

	out := make([]Segment, 0, len(segs))
	for pair := 0; pair <= last; pair++ {
		for j, s := range buckets[pair] {
			if j%2 == 0 {
				s = s.Reversed()
			}
			out = append(out, s)
		}
	}
	return out
}

var strategies = map[string]Strategy{
	Raster{}.Name(): Raster{},
	Pen{}.Name():    Pen{},
}

// StrategyByName returns the strategy registered under name, ignoring case.
func StrategyByName(name string) (Strategy, error) {
	s, ok := strategies[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStrategy, "%q (want one of %s)", name, strategyNames())
	}
	return s, nil
}

// ErrUnknownStrategy is returned by StrategyByName for unregistered names.
var ErrUnknownStrategy = errors.New("unknown fill strategy")

func strategyNames() string {
	names := lo.Keys(strategies)
	sort.Strings(names)
	return strings.Join(names, ", ")
}
