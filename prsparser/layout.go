package prsparser

import (
	"sort"
	"strings"
)

// Layout says where each field lives in a weight table. A zero Delimiter is
// detected from the data.
type Layout struct {
	Delimiter     rune
	Comment       rune
	ColChromosome int
	ColPosition   int
	ColWeights    [NumPhenotypes]int
}

// The published PRS313 weight tables list chromosome, position and then the
// overall, ER-positive, ER-negative, hybrid ER-positive and hybrid
// ER-negative weights. Copies of the table disagree on which of the last two
// columns is which, so both readings are offered.
var Layouts = map[string]Layout{
	"PRS313": {
		Comment:       '#',
		ColChromosome: 0,
		ColPosition:   1,
		ColWeights: [NumPhenotypes]int{
			Overall:          2,
			ERPositive:       3,
			ERNegative:       4,
			HybridERPositive: 5,
			HybridERNegative: 6,
		},
	},
	"PRS313_HYBRID_SWAPPED": {
		Comment:       '#',
		ColChromosome: 0,
		ColPosition:   1,
		ColWeights: [NumPhenotypes]int{
			Overall:          2,
			ERPositive:       3,
			ERNegative:       4,
			HybridERPositive: 6,
			HybridERNegative: 5,
		},
	},
}

// DefaultLayout is used when none is configured.
const DefaultLayout = "PRS313"

func LayoutNames() string {
	names := make([]string, 0, len(Layouts))
	for m := range Layouts {
		names = append(names, m)
	}
	sort.Strings(names)

	return strings.Join(names, ", ")
}

func (l Layout) width() int {
	max := l.ColChromosome
	if l.ColPosition > max {
		max = l.ColPosition
	}
	for _, c := range l.ColWeights {
		if c > max {
			max = c
		}
	}
	return max + 1
}
