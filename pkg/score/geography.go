package score

import (
	"fmt"

	"github.com/mchmarny/planscore/pkg/plan"
)

// Deviations maps every district to its relative deviation from the ideal
// population, (pop - ideal) / ideal.
func (s *Scorer) Deviations(p plan.Partition, population string) (map[plan.District]float64, error) {
	districts := p.Districts()
	out := make(map[plan.District]float64, len(districts))
	if len(districts) == 0 {
		return out, nil
	}

	pops, err := p.Tally(population)
	if err != nil {
		return nil, err
	}

	var total float64
	for _, d := range districts {
		total += pops[d]
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total population %q is zero", ErrDivisionByZero, population)
	}

	ideal := total / float64(len(districts))
	for _, d := range districts {
		out[d] = (pops[d] - ideal) / ideal
	}
	return out, nil
}

// Splits counts the counties whose units fall into more than one district.
func (s *Scorer) Splits(p plan.Partition, county plan.Partition) (int, error) {
	pieces := countyPieces(p, county)
	splits := 0
	for _, n := range pieces {
		if n > 1 {
			splits++
		}
	}
	return splits, nil
}

// Pieces counts the district pieces of split counties.
func (s *Scorer) Pieces(p plan.Partition, county plan.Partition) (int, error) {
	pieces := countyPieces(p, county)
	total := 0
	for _, n := range pieces {
		if n > 1 {
			total += n
		}
	}
	return total, nil
}

// countyPieces maps county to the number of districts its units are in.
// Units unassigned in either partition are ignored.
func countyPieces(p plan.Partition, county plan.Partition) map[plan.District]int {
	unitCounty := make(map[string]plan.District)
	for c, units := range county.Parts() {
		if c == plan.Unassigned {
			continue
		}
		for _, u := range units {
			unitCounty[u] = c
		}
	}

	touched := make(map[plan.District]map[plan.District]bool)
	for d, units := range p.Parts() {
		if d == plan.Unassigned {
			continue
		}
		for _, u := range units {
			c, ok := unitCounty[u]
			if !ok {
				continue
			}
			if touched[c] == nil {
				touched[c] = make(map[plan.District]bool)
			}
			touched[c][d] = true
		}
	}

	out := make(map[plan.District]int, len(touched))
	for c, ds := range touched {
		out[c] = len(ds)
	}
	return out
}
