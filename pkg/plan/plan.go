package plan

import (
	"fmt"
	"log/slog"
	"sort"
)

// Unassigned is the district value of units that belong to no district.
// Unassigned units are invisible to every district-indexed computation.
const Unassigned District = -1

// District identifies a part of a partition (a district or, for county
// partitions, a county).
type District int

// Election names an election and its parties. Party order matters: the
// first party is the one the symmetry statistics are reported for.
type Election struct {
	Name    string   `json:"name" yaml:"name"`
	Parties []string `json:"parties" yaml:"parties"`
}

// Unit is a geographic unit with its numeric attributes (e.g. TOTPOP) and
// votes keyed by election and then party.
type Unit struct {
	ID         string                        `json:"id" yaml:"id"`
	Attributes map[string]float64            `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Votes      map[string]map[string]float64 `json:"votes,omitempty" yaml:"votes,omitempty"`
}

// Assignment maps unit ID to district. Units missing from the assignment
// are treated as Unassigned.
type Assignment map[string]District

// Partition is the read-only view of a districting plan the scoring
// functions work against.
type Partition interface {
	// Fingerprint is the value identity of the partition. Two partitions
	// with the same units, votes and assignment share a fingerprint.
	Fingerprint() string
	// Districts returns the sorted district keys without Unassigned.
	Districts() []District
	// Parts returns district to member unit IDs, Unassigned included when present.
	Parts() map[District][]string
	// Election returns the results accessor for the named election.
	Election(name string) (Accessor, error)
	// Tally sums a unit attribute per part.
	Tally(attribute string) (map[District]float64, error)
}

// Plan is an immutable in-memory Partition.
type Plan struct {
	name        string
	fingerprint string
	units       []Unit
	assignment  Assignment
	parts       map[District][]string
	districts   []District
	elections   map[string]*Results
}

var _ Partition = (*Plan)(nil)

// New builds a plan from units, election definitions and a unit to
// district assignment. The inputs are copied; later changes to them do not
// affect the plan.
func New(name string, units []Unit, elections []Election, assignment Assignment) (*Plan, error) {
	if name == "" {
		return nil, fmt.Errorf("plan name required")
	}

	p := &Plan{
		name:       name,
		units:      make([]Unit, 0, len(units)),
		assignment: make(Assignment, len(units)),
		parts:      make(map[District][]string),
		elections:  make(map[string]*Results, len(elections)),
	}

	seen := make(map[string]bool, len(units))
	for _, u := range units {
		if u.ID == "" {
			return nil, fmt.Errorf("plan %s: unit without ID", name)
		}
		if seen[u.ID] {
			return nil, fmt.Errorf("plan %s: duplicate unit %s", name, u.ID)
		}
		seen[u.ID] = true

		d, ok := assignment[u.ID]
		if !ok || d < 0 {
			d = Unassigned
		}
		p.assignment[u.ID] = d
		p.parts[d] = append(p.parts[d], u.ID)
		p.units = append(p.units, copyUnit(u))
	}

	sort.Slice(p.units, func(i, j int) bool { return p.units[i].ID < p.units[j].ID })

	for d, ids := range p.parts {
		sort.Strings(ids)
		if d != Unassigned {
			p.districts = append(p.districts, d)
		}
	}
	sort.Slice(p.districts, func(i, j int) bool { return p.districts[i] < p.districts[j] })

	for _, e := range elections {
		if e.Name == "" {
			return nil, fmt.Errorf("plan %s: election without name", name)
		}
		if _, ok := p.elections[e.Name]; ok {
			return nil, fmt.Errorf("plan %s: duplicate election %s", name, e.Name)
		}
		r, err := newResults(e, p)
		if err != nil {
			return nil, fmt.Errorf("plan %s: %w", name, err)
		}
		p.elections[e.Name] = r
	}

	p.fingerprint = fingerprint(p.units, p.assignment, elections)

	slog.Debug("plan created",
		"name", name,
		"units", len(p.units),
		"districts", len(p.districts),
		"elections", len(p.elections),
		"fingerprint", p.fingerprint)

	return p, nil
}

func (p *Plan) Name() string {
	return p.name
}

func (p *Plan) Fingerprint() string {
	return p.fingerprint
}

// Len returns the number of districts, Unassigned excluded.
func (p *Plan) Len() int {
	return len(p.districts)
}

func (p *Plan) Districts() []District {
	out := make([]District, len(p.districts))
	copy(out, p.districts)
	return out
}

func (p *Plan) Parts() map[District][]string {
	out := make(map[District][]string, len(p.parts))
	for d, ids := range p.parts {
		c := make([]string, len(ids))
		copy(c, ids)
		out[d] = c
	}
	return out
}

// DistrictOf returns the district a unit is assigned to.
func (p *Plan) DistrictOf(unitID string) (District, bool) {
	d, ok := p.assignment[unitID]
	return d, ok
}

func (p *Plan) Election(name string) (Accessor, error) {
	r, ok := p.elections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownElection, name)
	}
	return r, nil
}

// Elections returns the sorted names of the elections the plan carries.
func (p *Plan) Elections() []string {
	names := make([]string, 0, len(p.elections))
	for n := range p.elections {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (p *Plan) Tally(attribute string) (map[District]float64, error) {
	found := false
	out := make(map[District]float64, len(p.parts))
	for d := range p.parts {
		out[d] = 0
	}
	for _, u := range p.units {
		v, ok := u.Attributes[attribute]
		if !ok {
			continue
		}
		found = true
		out[p.assignment[u.ID]] += v
	}
	if !found && len(p.units) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, attribute)
	}
	return out, nil
}

func copyUnit(u Unit) Unit {
	c := Unit{ID: u.ID}
	if u.Attributes != nil {
		c.Attributes = make(map[string]float64, len(u.Attributes))
		for k, v := range u.Attributes {
			c.Attributes[k] = v
		}
	}
	if u.Votes != nil {
		c.Votes = make(map[string]map[string]float64, len(u.Votes))
		for e, parties := range u.Votes {
			m := make(map[string]float64, len(parties))
			for party, v := range parties {
				m[party] = v
			}
			c.Votes[e] = m
		}
	}
	return c
}
