package score

import (
	"fmt"
	"sort"

	"github.com/mchmarny/planscore/pkg/plan"
)

// Report holds every score of a plan for one party.
type Report struct {
	Fingerprint             string                    `json:"fingerprint" yaml:"fingerprint"`
	Party                   string                    `json:"party" yaml:"party"`
	Elections               []string                  `json:"elections" yaml:"elections"`
	Districts               int                       `json:"districts" yaml:"districts"`
	Margin                  float64                   `json:"margin" yaml:"margin"`
	CompetitiveDistricts    int                       `json:"competitive_districts" yaml:"competitiveDistricts"`
	SwingDistricts          int                       `json:"swing_districts" yaml:"swingDistricts"`
	PartyDistricts          int                       `json:"party_districts" yaml:"partyDistricts"`
	OppPartyDistricts       int                       `json:"opp_party_districts" yaml:"oppPartyDistricts"`
	PartyWinsByDistrict     DistrictScores            `json:"party_wins_by_district" yaml:"partyWinsByDistrict"`
	Seats                   SeatScores                `json:"seats" yaml:"seats"`
	SignedProportionality   ElectionScores            `json:"signed_proportionality" yaml:"signedProportionality"`
	AbsoluteProportionality ElectionScores            `json:"absolute_proportionality" yaml:"absoluteProportionality"`
	EfficiencyGap           ElectionScores            `json:"efficiency_gap" yaml:"efficiencyGap"`
	MeanMedian              ElectionScores            `json:"mean_median" yaml:"meanMedian"`
	PartisanBias            ElectionScores            `json:"partisan_bias" yaml:"partisanBias"`
	PartisanGini            ElectionScores            `json:"partisan_gini" yaml:"partisanGini"`
	Eguia                   ElectionScores            `json:"eguia,omitempty" yaml:"eguia,omitempty"`
	Deviations              map[plan.District]float64 `json:"deviations,omitempty" yaml:"deviations,omitempty"`
	Splits                  *int                      `json:"splits,omitempty" yaml:"splits,omitempty"`
	Pieces                  *int                      `json:"pieces,omitempty" yaml:"pieces,omitempty"`
}

// Report evaluates every applicable score. County scores are included when
// the request has a county partition, population scores when it names a
// population attribute. Eguia is left out for a plan without districts.
// Any failing score fails the report.
func (s *Scorer) Report(r *Request) (*Report, error) {
	if r == nil || r.Plan == nil {
		return nil, fmt.Errorf("plan required")
	}
	p := r.Plan

	rep := &Report{
		Fingerprint: p.Fingerprint(),
		Party:       r.Party,
		Elections:   append([]string(nil), r.Elections...),
		Districts:   len(p.Districts()),
		Margin:      r.Margin,
	}

	var err error
	if rep.CompetitiveDistricts, err = s.CompetitiveDistricts(p, r.Elections, r.Party, r.Margin); err != nil {
		return nil, fmt.Errorf("%s: %w", NameCompetitiveDistricts, err)
	}
	if rep.SwingDistricts, err = s.SwingDistricts(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NameSwingDistricts, err)
	}
	if rep.PartyDistricts, err = s.PartyDistricts(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NamePartyDistricts, err)
	}
	if rep.OppPartyDistricts, err = s.OppPartyDistricts(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NameOppPartyDistricts, err)
	}
	if rep.PartyWinsByDistrict, err = s.PartyWinsByDistrict(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NamePartyWinsByDistrict, err)
	}
	if rep.Seats, err = s.Seats(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NameSeats, err)
	}
	if rep.SignedProportionality, err = s.SignedProportionality(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NameSignedProportionality, err)
	}
	if rep.AbsoluteProportionality, err = s.AbsoluteProportionality(p, r.Elections, r.Party); err != nil {
		return nil, fmt.Errorf("%s: %w", NameAbsoluteProportionality, err)
	}
	if rep.EfficiencyGap, err = s.EfficiencyGap(p, r.Elections); err != nil {
		return nil, fmt.Errorf("%s: %w", NameEfficiencyGap, err)
	}
	if rep.MeanMedian, err = s.MeanMedian(p, r.Elections); err != nil {
		return nil, fmt.Errorf("%s: %w", NameMeanMedian, err)
	}
	if rep.PartisanBias, err = s.PartisanBias(p, r.Elections); err != nil {
		return nil, fmt.Errorf("%s: %w", NamePartisanBias, err)
	}
	if rep.PartisanGini, err = s.PartisanGini(p, r.Elections); err != nil {
		return nil, fmt.Errorf("%s: %w", NamePartisanGini, err)
	}

	if r.Population != "" {
		if rep.Deviations, err = s.Deviations(p, r.Population); err != nil {
			return nil, fmt.Errorf("%s: %w", NameDeviations, err)
		}
	}

	if r.County != nil {
		splits, err := s.Splits(p, r.County)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", NameSplits, err)
		}
		pieces, err := s.Pieces(p, r.County)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", NamePieces, err)
		}
		rep.Splits, rep.Pieces = &splits, &pieces

		// Eguia is undefined without districts
		if r.Population != "" && rep.Districts > 0 {
			if rep.Eguia, err = s.Eguia(p, r.Elections, r.Party, r.County, r.Population); err != nil {
				return nil, fmt.Errorf("%s: %w", NameEguia, err)
			}
		}
	}

	return rep, nil
}

// Value is a single flattened score value. Election and District are set
// for election-wide and district-wide scores.
type Value struct {
	Score    string         `json:"score" yaml:"score"`
	Election string         `json:"election,omitempty" yaml:"election,omitempty"`
	District *plan.District `json:"district,omitempty" yaml:"district,omitempty"`
	Value    float64        `json:"value" yaml:"value"`
}

// Values flattens the report into one value per score, election and
// district, in a stable order.
func (r *Report) Values() []Value {
	out := []Value{
		{Score: NameCompetitiveDistricts, Value: float64(r.CompetitiveDistricts)},
		{Score: NameSwingDistricts, Value: float64(r.SwingDistricts)},
		{Score: NamePartyDistricts, Value: float64(r.PartyDistricts)},
		{Score: NameOppPartyDistricts, Value: float64(r.OppPartyDistricts)},
	}
	if r.Splits != nil {
		out = append(out, Value{Score: NameSplits, Value: float64(*r.Splits)})
	}
	if r.Pieces != nil {
		out = append(out, Value{Score: NamePieces, Value: float64(*r.Pieces)})
	}

	for _, d := range sortedDistricts(r.PartyWinsByDistrict) {
		out = append(out, Value{Score: NamePartyWinsByDistrict, District: &d, Value: float64(r.PartyWinsByDistrict[d])})
	}
	for _, d := range sortedDistricts(r.Deviations) {
		out = append(out, Value{Score: NameDeviations, District: &d, Value: r.Deviations[d]})
	}

	seats := make(ElectionScores, len(r.Seats))
	for k, v := range r.Seats {
		seats[k] = float64(v)
	}
	for _, es := range []struct {
		name   string
		values ElectionScores
	}{
		{NameSeats, seats},
		{NameSignedProportionality, r.SignedProportionality},
		{NameAbsoluteProportionality, r.AbsoluteProportionality},
		{NameEfficiencyGap, r.EfficiencyGap},
		{NameMeanMedian, r.MeanMedian},
		{NamePartisanBias, r.PartisanBias},
		{NamePartisanGini, r.PartisanGini},
		{NameEguia, r.Eguia},
	} {
		for _, e := range r.Elections {
			if v, ok := es.values[e]; ok {
				out = append(out, Value{Score: es.name, Election: e, Value: v})
			}
		}
	}

	return out
}

func sortedDistricts[V any](m map[plan.District]V) []plan.District {
	out := make([]plan.District, 0, len(m))
	for d := range m {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
