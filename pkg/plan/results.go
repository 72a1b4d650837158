package plan

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// winThreshold is the vote share a party has to exceed to win a district.
const winThreshold = 0.5

// Accessor is the per-election view of a partition's results.
type Accessor interface {
	Name() string
	Parties() []string
	// Percent returns the plan-wide vote share of party.
	Percent(party string) (float64, error)
	// DistrictPercent returns the vote share of party in district d.
	DistrictPercent(party string, d District) (float64, error)
	// Won reports whether party's share in d exceeds one half.
	Won(party string, d District) (bool, error)
	// Seats counts the districts won by party.
	Seats(party string) (int, error)
	EfficiencyGap() float64
	MeanMedian() float64
	PartisanBias() float64
	PartisanGini() float64
}

// Results is the Accessor implementation for Plan. Vote counts are summed
// per district once, when the plan is built.
type Results struct {
	election  Election
	districts []District
	counts    map[string]map[District]float64
	totals    map[District]float64
}

var _ Accessor = (*Results)(nil)

func newResults(e Election, p *Plan) (*Results, error) {
	if len(e.Parties) == 0 {
		return nil, fmt.Errorf("election %s has no parties", e.Name)
	}

	r := &Results{
		election: Election{Name: e.Name, Parties: append([]string(nil), e.Parties...)},
		counts:   make(map[string]map[District]float64, len(e.Parties)),
		totals:   make(map[District]float64, len(p.districts)),
	}
	r.districts = append(r.districts, p.districts...)

	for _, party := range e.Parties {
		if _, ok := r.counts[party]; ok {
			return nil, fmt.Errorf("election %s: duplicate party %s", e.Name, party)
		}
		m := make(map[District]float64, len(p.districts))
		for _, d := range p.districts {
			m[d] = 0
		}
		r.counts[party] = m
	}
	for _, d := range p.districts {
		r.totals[d] = 0
	}

	for _, u := range p.units {
		d := p.assignment[u.ID]
		if d == Unassigned {
			continue
		}
		for party, v := range u.Votes[e.Name] {
			m, ok := r.counts[party]
			if !ok {
				return nil, fmt.Errorf("election %s: unit %s has votes for undeclared party %s", e.Name, u.ID, party)
			}
			if v < 0 || math.IsNaN(v) {
				return nil, fmt.Errorf("election %s: unit %s has invalid vote count %v", e.Name, u.ID, v)
			}
			m[d] += v
			r.totals[d] += v
		}
	}

	return r, nil
}

func (r *Results) Name() string {
	return r.election.Name
}

func (r *Results) Parties() []string {
	return append([]string(nil), r.election.Parties...)
}

func (r *Results) partyCounts(party string) (map[District]float64, error) {
	m, ok := r.counts[party]
	if !ok {
		return nil, fmt.Errorf("%w: %s in election %s", ErrInvalidParty, party, r.election.Name)
	}
	return m, nil
}

// Percent returns zero when the plan has no votes.
func (r *Results) Percent(party string) (float64, error) {
	m, err := r.partyCounts(party)
	if err != nil {
		return 0, err
	}
	var votes, total float64
	for _, d := range r.districts {
		votes += m[d]
		total += r.totals[d]
	}
	if total == 0 {
		return 0, nil
	}
	return votes / total, nil
}

// DistrictPercent returns zero for districts without votes.
func (r *Results) DistrictPercent(party string, d District) (float64, error) {
	m, err := r.partyCounts(party)
	if err != nil {
		return 0, err
	}
	total, ok := r.totals[d]
	if !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownDistrict, d)
	}
	if total == 0 {
		return 0, nil
	}
	return m[d] / total, nil
}

func (r *Results) Won(party string, d District) (bool, error) {
	pct, err := r.DistrictPercent(party, d)
	if err != nil {
		return false, err
	}
	return pct > winThreshold, nil
}

func (r *Results) Seats(party string) (int, error) {
	seats := 0
	for _, d := range r.districts {
		won, err := r.Won(party, d)
		if err != nil {
			return 0, err
		}
		if won {
			seats++
		}
	}
	return seats, nil
}

// shares returns the first party's share in every district, in district order.
func (r *Results) shares() []float64 {
	first := r.election.Parties[0]
	out := make([]float64, len(r.districts))
	for i, d := range r.districts {
		// first party is always declared
		out[i], _ = r.DistrictPercent(first, d)
	}
	return out
}

// EfficiencyGap is the difference between the wasted votes of the second
// and the first party over all votes cast. A positive value favors the
// first party. Elections with fewer than two parties report zero.
func (r *Results) EfficiencyGap() float64 {
	if len(r.election.Parties) < 2 {
		return 0
	}
	first := r.counts[r.election.Parties[0]]
	second := r.counts[r.election.Parties[1]]

	var numerator, total float64
	for _, d := range r.districts {
		w1, w2 := wastedVotes(first[d], second[d])
		numerator += w2 - w1
		total += r.totals[d]
	}
	if total == 0 {
		return 0
	}
	return numerator / total
}

func wastedVotes(v1, v2 float64) (w1, w2 float64) {
	half := (v1 + v2) / 2
	if v1 > v2 {
		return v1 - half, v2
	}
	return v1, v2 - half
}

// MeanMedian is the median minus the mean of the first party's district shares.
func (r *Results) MeanMedian() float64 {
	s := r.shares()
	if len(s) == 0 {
		return 0
	}
	return median(s) - stat.Mean(s, nil)
}

// PartisanBias uniformly swings the first party's shares to a 50% mean and
// reports the resulting seat share above one half.
func (r *Results) PartisanBias() float64 {
	s := r.shares()
	n := float64(len(s))
	if n == 0 {
		return 0
	}
	delta := stat.Mean(s, nil) - winThreshold
	floats.AddConst(-delta, s)

	won := 0
	for _, v := range s {
		if v > winThreshold {
			won++
		}
	}
	return (float64(won) - n/2) / n
}

// PartisanGini is the area between the first party's seats-votes curve and
// its reflection about (0.5, 0.5), scaled by the number of districts.
func (r *Results) PartisanGini() float64 {
	s := r.shares()
	n := len(s)
	if n == 0 {
		return 0
	}
	overall, _ := r.Percent(r.election.Parties[0])

	sort.Sort(sort.Reverse(sort.Float64Slice(s)))
	seatsVotes := make([]float64, n)
	for i, v := range s {
		seatsVotes[i] = overall - v + winThreshold
	}

	var area float64
	for i := range seatsVotes {
		reflected := 1 - seatsVotes[n-1-i]
		area += math.Abs(seatsVotes[i] - reflected)
	}
	return area / float64(n)
}

func median(values []float64) float64 {
	s := append([]float64(nil), values...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
