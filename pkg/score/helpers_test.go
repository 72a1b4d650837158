package score

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/stretchr/testify/require"
)

const (
	testParty = "D"
	testOpp   = "R"
	testPop   = "TOTPOP"
)

// electionNames returns E1..En.
func electionNames(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("E%d", i+1)
	}
	return out
}

// sharesUnits creates one unit per district (u1..un) where shares[e][d] is
// the party share of 1000 votes in election e.
func sharesUnits(shares [][]float64, pops []float64) ([]plan.Unit, []plan.Election) {
	names := electionNames(len(shares))
	elections := make([]plan.Election, len(names))
	for i, n := range names {
		elections[i] = plan.Election{Name: n, Parties: []string{testParty, testOpp}}
	}

	districts := 0
	if len(shares) > 0 {
		districts = len(shares[0])
	}

	units := make([]plan.Unit, districts)
	for d := 0; d < districts; d++ {
		u := plan.Unit{
			ID:         fmt.Sprintf("u%d", d+1),
			Attributes: map[string]float64{testPop: 100},
			Votes:      make(map[string]map[string]float64, len(names)),
		}
		if pops != nil {
			u.Attributes[testPop] = pops[d]
		}
		for e, n := range names {
			dv := math.Round(shares[e][d] * 1000)
			u.Votes[n] = map[string]float64{testParty: dv, testOpp: 1000 - dv}
		}
		units[d] = u
	}
	return units, elections
}

// sharesPlan assigns unit i to district i.
func sharesPlan(t *testing.T, shares ...[]float64) *plan.Plan {
	t.Helper()
	units, elections := sharesUnits(shares, nil)
	a := make(plan.Assignment, len(units))
	for i, u := range units {
		a[u.ID] = plan.District(i + 1)
	}
	p, err := plan.New("test", units, elections, a)
	require.NoError(t, err)
	return p
}

func newTestScorer(t *testing.T, r Recorder) *Scorer {
	t.Helper()
	s, err := NewScorer(16, r)
	require.NoError(t, err)
	return s
}

type countingRecorder struct {
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{hits: map[string]int{}, misses: map[string]int{}}
}

func (r *countingRecorder) CacheHit(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits[stage]++
}

func (r *countingRecorder) CacheMiss(stage string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses[stage]++
}

func (r *countingRecorder) counts(stage string) (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits[stage], r.misses[stage]
}
