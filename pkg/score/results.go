package score

import (
	"fmt"

	"github.com/mchmarny/planscore/pkg/plan"
)

// winThreshold is the share above which a district counts as won.
const winThreshold = 0.5

// buildResults returns the election by district matrix of party vote
// shares. Rows follow the election order, columns the sorted districts.
func buildResults(p plan.Partition, elections []string, party string) ([][]float64, error) {
	if len(elections) == 0 {
		return nil, ErrNoElections
	}

	districts := p.Districts()
	out := make([][]float64, len(elections))
	for i, name := range elections {
		e, err := p.Election(name)
		if err != nil {
			return nil, err
		}
		row := make([]float64, len(districts))
		for j, d := range districts {
			pct, err := e.DistrictPercent(party, d)
			if err != nil {
				return nil, fmt.Errorf("election %s district %d: %w", name, d, err)
			}
			row[j] = pct
		}
		out[i] = row
	}
	return out, nil
}

// deriveStability counts, per district, the elections won.
func deriveStability(results [][]float64) []int {
	if len(results) == 0 {
		return []int{}
	}
	out := make([]int, len(results[0]))
	for _, row := range results {
		for j, v := range row {
			if v > winThreshold {
				out[j]++
			}
		}
	}
	return out
}
