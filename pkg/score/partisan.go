package score

import (
	"math"

	"github.com/mchmarny/planscore/pkg/plan"
)

// DefaultMargin is the distance from one half within which a result is
// competitive.
const DefaultMargin = 0.03

// CompetitiveDistricts counts the district results within margin of one
// half. Every election is counted, so a district competitive in two
// elections counts twice.
func (s *Scorer) CompetitiveDistricts(p plan.Partition, elections []string, party string, margin float64) (int, error) {
	results, err := s.cache.Results(p, elections, party)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range results {
		for _, v := range row {
			if v > winThreshold-margin && v < winThreshold+margin {
				count++
			}
		}
	}
	return count, nil
}

// SwingDistricts counts districts won in some but not all elections.
func (s *Scorer) SwingDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return s.countStability(p, elections, party, func(wins int) bool {
		return wins != 0 && wins != len(elections)
	})
}

// PartyDistricts counts districts won in every election.
func (s *Scorer) PartyDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return s.countStability(p, elections, party, func(wins int) bool {
		return wins == len(elections)
	})
}

// OppPartyDistricts counts districts won in no election.
func (s *Scorer) OppPartyDistricts(p plan.Partition, elections []string, party string) (int, error) {
	return s.countStability(p, elections, party, func(wins int) bool {
		return wins == 0
	})
}

func (s *Scorer) countStability(p plan.Partition, elections []string, party string, match func(int) bool) (int, error) {
	stability, err := s.cache.Stability(p, elections, party)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, wins := range stability {
		if match(wins) {
			count++
		}
	}
	return count, nil
}

// PartyWinsByDistrict maps every district to the number of elections won.
func (s *Scorer) PartyWinsByDistrict(p plan.Partition, elections []string, party string) (DistrictScores, error) {
	stability, err := s.cache.Stability(p, elections, party)
	if err != nil {
		return nil, err
	}

	districts := p.Districts()
	out := make(DistrictScores, len(districts))
	for i, d := range districts {
		out[d] = stability[i]
	}
	return out, nil
}

// Seats counts, per election, the districts won by party.
func (s *Scorer) Seats(p plan.Partition, elections []string, party string) (SeatScores, error) {
	districts := p.Districts()
	out := make(SeatScores, len(elections))
	for _, name := range elections {
		e, err := p.Election(name)
		if err != nil {
			return nil, err
		}
		seats := 0
		for _, d := range districts {
			won, err := e.Won(party, d)
			if err != nil {
				return nil, err
			}
			if won {
				seats++
			}
		}
		out[e.Name()] = seats
	}
	return out, nil
}

// SignedProportionality is, per election, the seats won minus the seats a
// perfectly proportional outcome would give. Positive values mean party is
// over-represented.
func (s *Scorer) SignedProportionality(p plan.Partition, elections []string, party string) (ElectionScores, error) {
	n := float64(len(p.Districts()))
	return perElection(p, elections, func(e plan.Accessor) (float64, error) {
		seats, err := e.Seats(party)
		if err != nil {
			return 0, err
		}
		pct, err := e.Percent(party)
		if err != nil {
			return 0, err
		}
		return float64(seats) - pct*n, nil
	})
}

// AbsoluteProportionality is the magnitude of SignedProportionality per election.
func (s *Scorer) AbsoluteProportionality(p plan.Partition, elections []string, party string) (ElectionScores, error) {
	signed, err := s.SignedProportionality(p, elections, party)
	if err != nil {
		return nil, err
	}
	for k, v := range signed {
		signed[k] = math.Abs(v)
	}
	return signed, nil
}

// EfficiencyGap reports each election's efficiency gap for its first party.
func (s *Scorer) EfficiencyGap(p plan.Partition, elections []string) (ElectionScores, error) {
	return perElection(p, elections, func(e plan.Accessor) (float64, error) {
		return e.EfficiencyGap(), nil
	})
}

// MeanMedian reports each election's median minus mean district share of its first party.
func (s *Scorer) MeanMedian(p plan.Partition, elections []string) (ElectionScores, error) {
	return perElection(p, elections, func(e plan.Accessor) (float64, error) {
		return e.MeanMedian(), nil
	})
}

// PartisanBias reports each election's seat share above one half after a
// uniform swing to a 50% mean, for its first party.
func (s *Scorer) PartisanBias(p plan.Partition, elections []string) (ElectionScores, error) {
	return perElection(p, elections, func(e plan.Accessor) (float64, error) {
		return e.PartisanBias(), nil
	})
}

// PartisanGini reports each election's partisan Gini for its first party.
func (s *Scorer) PartisanGini(p plan.Partition, elections []string) (ElectionScores, error) {
	return perElection(p, elections, func(e plan.Accessor) (float64, error) {
		return e.PartisanGini(), nil
	})
}

func perElection(p plan.Partition, elections []string, fn func(plan.Accessor) (float64, error)) (ElectionScores, error) {
	out := make(ElectionScores, len(elections))
	for _, name := range elections {
		e, err := p.Election(name)
		if err != nil {
			return nil, err
		}
		v, err := fn(e)
		if err != nil {
			return nil, err
		}
		out[e.Name()] = v
	}
	return out, nil
}
