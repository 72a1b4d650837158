package score

import (
	"errors"
	"testing"

	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	firstElection  = []float64{0.2, 0.51, 0.6, 0.49}
	secondElection = []float64{0.6, 0.4, 0.55, 0.45}
)

func TestResults_Matrix(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection, secondElection)

	m, err := s.Results(p, []string{"E2", "E1"}, testParty)
	require.NoError(t, err)
	require.Len(t, m, 2)
	assert.InDeltaSlice(t, secondElection, m[0], 1e-9)
	assert.InDeltaSlice(t, firstElection, m[1], 1e-9)
}

func TestStability(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection, secondElection)

	st, err := s.Stability(p, electionNames(2), testParty)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 1}, st)
}

func TestStability_HalfIsNotAWin(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, []float64{0.5, 0.501})

	st, err := s.Stability(p, electionNames(1), testParty)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, st)
}

func TestSingleElectionScenario(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection)
	e := electionNames(1)

	party, err := s.PartyDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 2, party)

	opp, err := s.OppPartyDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 2, opp)

	swing, err := s.SwingDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 0, swing)

	seats, err := s.Seats(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, SeatScores{"E1": 2}, seats)

	competitive, err := s.CompetitiveDistricts(p, e, testParty, DefaultMargin)
	require.NoError(t, err)
	assert.Equal(t, 2, competitive)
}

func TestTwoElectionScenario(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection, secondElection)
	e := electionNames(2)

	party, err := s.PartyDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 1, party)

	opp, err := s.OppPartyDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 0, opp)

	swing, err := s.SwingDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 3, swing)

	wins, err := s.PartyWinsByDistrict(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, DistrictScores{1: 1, 2: 1, 3: 2, 4: 1}, wins)

	// counted per election: 0.51 and 0.49 in E1, nothing in E2
	competitive, err := s.CompetitiveDistricts(p, e, testParty, DefaultMargin)
	require.NoError(t, err)
	assert.Equal(t, 2, competitive)

	competitive, err = s.CompetitiveDistricts(p, e, testParty, 0.06)
	require.NoError(t, err)
	assert.Equal(t, 4, competitive)
}

func TestDistrictCountsPartitionPlan(t *testing.T) {
	s := newTestScorer(t, nil)
	tests := []struct {
		name   string
		shares [][]float64
	}{
		{"single", [][]float64{firstElection}},
		{"two", [][]float64{firstElection, secondElection}},
		{"three", [][]float64{firstElection, secondElection, {0.9, 0.1, 0.52, 0.3}}},
		{"sweep", [][]float64{{0.7, 0.8, 0.9}, {0.6, 0.7, 0.8}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sharesPlan(t, tt.shares...)
			e := electionNames(len(tt.shares))

			party, err := s.PartyDistricts(p, e, testParty)
			require.NoError(t, err)
			opp, err := s.OppPartyDistricts(p, e, testParty)
			require.NoError(t, err)
			swing, err := s.SwingDistricts(p, e, testParty)
			require.NoError(t, err)
			assert.Equal(t, p.Len(), party+opp+swing)

			wins, err := s.PartyWinsByDistrict(p, e, testParty)
			require.NoError(t, err)
			st, err := s.Stability(p, e, testParty)
			require.NoError(t, err)

			sumWins, sumStability := 0, 0
			for _, w := range wins {
				assert.GreaterOrEqual(t, w, 0)
				assert.LessOrEqual(t, w, len(e))
				sumWins += w
			}
			for _, v := range st {
				sumStability += v
			}
			assert.Equal(t, sumStability, sumWins)
		})
	}
}

func TestProportionality(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection)
	e := electionNames(1)

	// 2 seats - 0.45 * 4 districts
	signed, err := s.SignedProportionality(p, e, testParty)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, signed["E1"], 1e-9)

	signed, err = s.SignedProportionality(p, e, testOpp)
	require.NoError(t, err)
	assert.InDelta(t, -0.2, signed["E1"], 1e-9)

	abs, err := s.AbsoluteProportionality(p, e, testOpp)
	require.NoError(t, err)
	assert.InDelta(t, 0.2, abs["E1"], 1e-9)
}

func TestSymmetryScoresDelegateToAccessor(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection, secondElection)
	e := electionNames(2)

	eg, err := s.EfficiencyGap(p, e)
	require.NoError(t, err)
	mm, err := s.MeanMedian(p, e)
	require.NoError(t, err)
	pb, err := s.PartisanBias(p, e)
	require.NoError(t, err)
	pg, err := s.PartisanGini(p, e)
	require.NoError(t, err)

	for _, name := range e {
		a, err := p.Election(name)
		require.NoError(t, err)
		assert.Equal(t, a.EfficiencyGap(), eg[name])
		assert.Equal(t, a.MeanMedian(), mm[name])
		assert.Equal(t, a.PartisanBias(), pb[name])
		assert.Equal(t, a.PartisanGini(), pg[name])
	}
}

func TestEmptyPlan(t *testing.T) {
	s := newTestScorer(t, nil)
	units, elections := sharesUnits([][]float64{firstElection}, nil)
	p, err := plan.New("empty", units, elections, plan.Assignment{"u1": plan.Unassigned})
	require.NoError(t, err)
	e := electionNames(1)

	m, err := s.Results(p, e, testParty)
	require.NoError(t, err)
	require.Len(t, m, 1)
	assert.Empty(t, m[0])

	for _, fn := range []func(plan.Partition, []string, string) (int, error){
		s.SwingDistricts, s.PartyDistricts, s.OppPartyDistricts,
	} {
		v, err := fn(p, e, testParty)
		require.NoError(t, err)
		assert.Zero(t, v)
	}

	competitive, err := s.CompetitiveDistricts(p, e, testParty, DefaultMargin)
	require.NoError(t, err)
	assert.Zero(t, competitive)

	wins, err := s.PartyWinsByDistrict(p, e, testParty)
	require.NoError(t, err)
	assert.Empty(t, wins)

	seats, err := s.Seats(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 0, seats["E1"])

	signed, err := s.SignedProportionality(p, e, testParty)
	require.NoError(t, err)
	assert.Zero(t, signed["E1"])

	devs, err := s.Deviations(p, testPop)
	require.NoError(t, err)
	assert.Empty(t, devs)
}

func TestErrors(t *testing.T) {
	s := newTestScorer(t, nil)
	p := sharesPlan(t, firstElection)

	_, err := s.PartyDistricts(p, []string{"GOV"}, testParty)
	assert.True(t, errors.Is(err, plan.ErrUnknownElection))

	_, err = s.Seats(p, []string{"GOV"}, testParty)
	assert.True(t, errors.Is(err, plan.ErrUnknownElection))

	_, err = s.EfficiencyGap(p, []string{"GOV"})
	assert.True(t, errors.Is(err, plan.ErrUnknownElection))

	_, err = s.CompetitiveDistricts(p, electionNames(1), "G", DefaultMargin)
	assert.True(t, errors.Is(err, plan.ErrInvalidParty))

	_, err = s.Seats(p, electionNames(1), "G")
	assert.True(t, errors.Is(err, plan.ErrInvalidParty))

	_, err = s.SignedProportionality(p, electionNames(1), "G")
	assert.True(t, errors.Is(err, plan.ErrInvalidParty))

	_, err = s.SwingDistricts(p, nil, testParty)
	assert.True(t, errors.Is(err, ErrNoElections))
}

func TestPackageFunctions(t *testing.T) {
	p := sharesPlan(t, firstElection, secondElection)
	e := electionNames(2)

	swing, err := SwingDistricts(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, 3, swing)

	seats, err := Seats(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, SeatScores{"E1": 2, "E2": 2}, seats)

	st, err := Stability(p, e, testParty)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1, 2, 1}, st)
}
