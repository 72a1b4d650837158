package score

import (
	"github.com/mchmarny/planscore/pkg/plan"
)

type (
	// DistrictScores maps district to a per-district value.
	DistrictScores map[plan.District]int

	// ElectionScores maps election name to a plan-wide value.
	ElectionScores map[string]float64

	// SeatScores maps election name to a seat count.
	SeatScores map[string]int
)

// Scorer computes plan metrics over a shared cache. It is safe for
// concurrent use.
type Scorer struct {
	cache *Cache
}

// NewScorer creates a scorer with its own cache of the given size.
func NewScorer(cacheSize int, recorder Recorder) (*Scorer, error) {
	c, err := NewCache(cacheSize, recorder)
	if err != nil {
		return nil, err
	}
	return &Scorer{cache: c}, nil
}

// Cache exposes the scorer's cache.
func (s *Scorer) Cache() *Cache {
	return s.cache
}

// Results returns a copy of the election by district vote share matrix.
func (s *Scorer) Results(p plan.Partition, elections []string, party string) ([][]float64, error) {
	r, err := s.cache.Results(p, elections, party)
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(r))
	for i, row := range r {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}

// Stability returns a copy of the per-district win counts.
func (s *Scorer) Stability(p plan.Partition, elections []string, party string) ([]int, error) {
	st, err := s.cache.Stability(p, elections, party)
	if err != nil {
		return nil, err
	}
	return append([]int{}, st...), nil
}
