package plan

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sharesPlan builds one unit per district with the given D share out of 100 votes.
func sharesPlan(t *testing.T, shares ...float64) *Plan {
	t.Helper()
	units := make([]Unit, 0, len(shares))
	a := make(Assignment, len(shares))
	for i, s := range shares {
		id := string(rune('a' + i))
		units = append(units, Unit{
			ID:    id,
			Votes: map[string]map[string]float64{"E": {"D": s * 100, "R": (1 - s) * 100}},
		})
		a[id] = District(i + 1)
	}
	p, err := New("shares", units, []Election{{Name: "E", Parties: []string{"D", "R"}}}, a)
	require.NoError(t, err)
	return p
}

func accessor(t *testing.T, p *Plan) Accessor {
	t.Helper()
	e, err := p.Election("E")
	require.NoError(t, err)
	return e
}

func TestResults_Percent(t *testing.T) {
	p, err := New("test", testUnits(), testElections, Assignment{"a": 1, "b": 1, "c": 2, "d": -1})
	require.NoError(t, err)
	e, err := p.Election("SEN")
	require.NoError(t, err)

	// d is unassigned and does not count
	pct, err := e.Percent("D")
	require.NoError(t, err)
	assert.InDelta(t, 110.0/240.0, pct, 1e-9)

	pct, err = e.DistrictPercent("D", 1)
	require.NoError(t, err)
	assert.InDelta(t, 0.45, pct, 1e-9)

	pct, err = e.DistrictPercent("R", 2)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pct, 1e-9)

	_, err = e.Percent("G")
	assert.True(t, errors.Is(err, ErrInvalidParty))

	_, err = e.DistrictPercent("D", Unassigned)
	assert.True(t, errors.Is(err, ErrUnknownDistrict))
}

func TestResults_WonAndSeats(t *testing.T) {
	e := accessor(t, sharesPlan(t, 0.2, 0.51, 0.6, 0.5))

	won, err := e.Won("D", 2)
	require.NoError(t, err)
	assert.True(t, won)

	// exactly one half is not a win
	won, err = e.Won("D", 4)
	require.NoError(t, err)
	assert.False(t, won)

	seats, err := e.Seats("D")
	require.NoError(t, err)
	assert.Equal(t, 2, seats)

	seats, err = e.Seats("R")
	require.NoError(t, err)
	assert.Equal(t, 1, seats)

	_, err = e.Seats("G")
	assert.True(t, errors.Is(err, ErrInvalidParty))
}

func TestResults_ZeroVotes(t *testing.T) {
	p, err := New("zero", []Unit{{ID: "a"}}, []Election{{Name: "E", Parties: []string{"D", "R"}}}, Assignment{"a": 1})
	require.NoError(t, err)
	e := accessor(t, p)

	pct, err := e.Percent("D")
	require.NoError(t, err)
	assert.Zero(t, pct)
	pct, err = e.DistrictPercent("D", 1)
	require.NoError(t, err)
	assert.Zero(t, pct)
	assert.Zero(t, e.EfficiencyGap())
}

func TestResults_EfficiencyGap(t *testing.T) {
	// D: 70/30 win, 30/70 loss, 30/70 loss
	// wasted D: 20 + 30 + 30 = 80, wasted R: 30 + 20 + 20 = 70
	e := accessor(t, sharesPlan(t, 0.7, 0.3, 0.3))
	assert.InDelta(t, (70.0-80.0)/300.0, e.EfficiencyGap(), 1e-9)
}

func TestResults_MeanMedian(t *testing.T) {
	e := accessor(t, sharesPlan(t, 0.2, 0.4, 0.6, 0.9))
	assert.InDelta(t, 0.5-0.525, e.MeanMedian(), 1e-9)

	e = accessor(t, sharesPlan(t, 0.3, 0.4, 0.8))
	assert.InDelta(t, 0.4-0.5, e.MeanMedian(), 1e-9)
}

func TestResults_PartisanBias(t *testing.T) {
	// mean 0.55, swung shares 0.25 0.40 0.60 0.75 -> 2 wins of 4
	e := accessor(t, sharesPlan(t, 0.3, 0.45, 0.65, 0.8))
	assert.InDelta(t, 0.0, e.PartisanBias(), 1e-9)

	// mean 0.5, swung shares unchanged -> 3 wins of 4
	e = accessor(t, sharesPlan(t, 0.2, 0.6, 0.6, 0.6))
	assert.InDelta(t, 0.25, e.PartisanBias(), 1e-9)
}

func TestResults_PartisanGini(t *testing.T) {
	// symmetric distribution has no gini
	e := accessor(t, sharesPlan(t, 0.4, 0.6))
	assert.InDelta(t, 0.0, e.PartisanGini(), 1e-9)

	e = accessor(t, sharesPlan(t, 0.2, 0.6, 0.6, 0.6))
	assert.Greater(t, e.PartisanGini(), 0.0)
}

func TestResults_EmptyPlan(t *testing.T) {
	p, err := New("empty", testUnits(), testElections, nil)
	require.NoError(t, err)
	e, err := p.Election("SEN")
	require.NoError(t, err)

	seats, err := e.Seats("D")
	require.NoError(t, err)
	assert.Zero(t, seats)
	assert.Zero(t, e.EfficiencyGap())
	assert.Zero(t, e.MeanMedian())
	assert.Zero(t, e.PartisanBias())
	assert.Zero(t, e.PartisanGini())
}
