package score

import (
	"fmt"

	"github.com/mchmarny/planscore/pkg/plan"
)

// Eguia compares, per election, the seat share party wins in p with the
// ideal seat share implied by county outcomes: the population weighted
// share of counties party wins in the county partition. The population is
// read from the county partition's population attribute.
func (s *Scorer) Eguia(p plan.Partition, elections []string, party string, county plan.Partition, population string) (ElectionScores, error) {
	n := len(p.Districts())
	if n == 0 {
		return nil, ErrEmptyPlan
	}

	counties := county.Districts()
	pops, err := county.Tally(population)
	if err != nil {
		return nil, fmt.Errorf("county population: %w", err)
	}

	var total float64
	for _, c := range counties {
		total += pops[c]
	}
	if total == 0 {
		return nil, fmt.Errorf("%w: total county population %q is zero", ErrDivisionByZero, population)
	}

	out := make(ElectionScores, len(elections))
	for _, name := range elections {
		e, err := p.Election(name)
		if err != nil {
			return nil, err
		}
		seats, err := e.Seats(party)
		if err != nil {
			return nil, err
		}

		ce, err := county.Election(name)
		if err != nil {
			return nil, fmt.Errorf("county partition: %w", err)
		}
		var won float64
		for _, c := range counties {
			ok, err := ce.Won(party, c)
			if err != nil {
				return nil, fmt.Errorf("county partition: %w", err)
			}
			if ok {
				won += pops[c]
			}
		}

		out[e.Name()] = float64(seats)/float64(n) - won/total
	}
	return out, nil
}
