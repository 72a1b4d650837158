package score

import (
	"fmt"
	"sort"

	"github.com/mchmarny/planscore/pkg/plan"
)

// Kind is the shape of a score value.
type Kind string

const (
	KindPlan     Kind = "plan"
	KindDistrict Kind = "district"
	KindElection Kind = "election"
)

// Score names.
const (
	NameCompetitiveDistricts    = "competitive_districts"
	NameSwingDistricts          = "swing_districts"
	NamePartyDistricts          = "party_districts"
	NameOppPartyDistricts       = "opp_party_districts"
	NamePartyWinsByDistrict     = "party_wins_by_district"
	NameSeats                   = "seats"
	NameSignedProportionality   = "signed_proportionality"
	NameAbsoluteProportionality = "absolute_proportionality"
	NameEfficiencyGap           = "efficiency_gap"
	NameMeanMedian              = "mean_median"
	NamePartisanBias            = "partisan_bias"
	NamePartisanGini            = "partisan_gini"
	NameEguia                   = "eguia"
	NameDeviations              = "deviations"
	NameSplits                  = "splits"
	NamePieces                  = "pieces"
)

// Info describes a score in the catalog.
type Info struct {
	Name        string `json:"name" yaml:"name"`
	Kind        Kind   `json:"kind" yaml:"kind"`
	Description string `json:"description" yaml:"description"`
	NeedsCounty bool   `json:"needs_county,omitempty" yaml:"needsCounty,omitempty"`
	NeedsPop    bool   `json:"needs_population,omitempty" yaml:"needsPopulation,omitempty"`
}

// Request carries the inputs of a score evaluation.
type Request struct {
	Plan       plan.Partition
	Elections  []string
	Party      string
	Margin     float64
	County     plan.Partition
	Population string
}

type scoreFunc func(s *Scorer, r *Request) (any, error)

type entry struct {
	Info
	fn scoreFunc
}

var catalog = []entry{
	{Info{NameCompetitiveDistricts, KindPlan, "District results within the margin of 50%, counted per election", false, false},
		func(s *Scorer, r *Request) (any, error) {
			return s.CompetitiveDistricts(r.Plan, r.Elections, r.Party, r.Margin)
		}},
	{Info{NameSwingDistricts, KindPlan, "Districts won in some but not all elections", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.SwingDistricts(r.Plan, r.Elections, r.Party) }},
	{Info{NamePartyDistricts, KindPlan, "Districts won in every election", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.PartyDistricts(r.Plan, r.Elections, r.Party) }},
	{Info{NameOppPartyDistricts, KindPlan, "Districts won in no election", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.OppPartyDistricts(r.Plan, r.Elections, r.Party) }},
	{Info{NamePartyWinsByDistrict, KindDistrict, "Elections won per district", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.PartyWinsByDistrict(r.Plan, r.Elections, r.Party) }},
	{Info{NameSeats, KindElection, "Districts won per election", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.Seats(r.Plan, r.Elections, r.Party) }},
	{Info{NameSignedProportionality, KindElection, "Seats minus vote share times districts", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.SignedProportionality(r.Plan, r.Elections, r.Party) }},
	{Info{NameAbsoluteProportionality, KindElection, "Absolute signed proportionality", false, false},
		func(s *Scorer, r *Request) (any, error) {
			return s.AbsoluteProportionality(r.Plan, r.Elections, r.Party)
		}},
	{Info{NameEfficiencyGap, KindElection, "Efficiency gap of the first party", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.EfficiencyGap(r.Plan, r.Elections) }},
	{Info{NameMeanMedian, KindElection, "Median minus mean district share of the first party", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.MeanMedian(r.Plan, r.Elections) }},
	{Info{NamePartisanBias, KindElection, "Seat share above 50% at a uniformly swung 50% vote share", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.PartisanBias(r.Plan, r.Elections) }},
	{Info{NamePartisanGini, KindElection, "Area between the seats-votes curve and its reflection", false, false},
		func(s *Scorer, r *Request) (any, error) { return s.PartisanGini(r.Plan, r.Elections) }},
	{Info{NameEguia, KindElection, "Seat share minus population weighted county seat share", true, true},
		func(s *Scorer, r *Request) (any, error) {
			return s.Eguia(r.Plan, r.Elections, r.Party, r.County, r.Population)
		}},
	{Info{NameDeviations, KindDistrict, "Relative deviation from the ideal district population", false, true},
		func(s *Scorer, r *Request) (any, error) { return s.Deviations(r.Plan, r.Population) }},
	{Info{NameSplits, KindPlan, "Counties split across districts", true, false},
		func(s *Scorer, r *Request) (any, error) { return s.Splits(r.Plan, r.County) }},
	{Info{NamePieces, KindPlan, "District pieces of split counties", true, false},
		func(s *Scorer, r *Request) (any, error) { return s.Pieces(r.Plan, r.County) }},
}

// Catalog lists every score the scorer can evaluate.
func Catalog() []Info {
	out := make([]Info, len(catalog))
	for i, e := range catalog {
		out[i] = e.Info
	}
	return out
}

// ScoreNames returns the sorted score names.
func ScoreNames() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// Evaluate computes a single named score.
func (s *Scorer) Evaluate(name string, r *Request) (any, error) {
	if r == nil || r.Plan == nil {
		return nil, fmt.Errorf("plan required")
	}
	for _, e := range catalog {
		if e.Name != name {
			continue
		}
		if err := r.check(e.Info); err != nil {
			return nil, err
		}
		return e.fn(s, r)
	}
	return nil, fmt.Errorf("unknown score: %s", name)
}

func (r *Request) check(i Info) error {
	if i.NeedsCounty && r.County == nil {
		return fmt.Errorf("score %s requires a county partition", i.Name)
	}
	if i.NeedsPop && r.Population == "" {
		return fmt.Errorf("score %s requires a population attribute", i.Name)
	}
	return nil
}
