package data

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mchmarny/planscore/pkg/plan"
)

const (
	selectPlansSQL = `SELECT
			plan,
			COUNT(*),
			COUNT(DISTINCT CASE WHEN district >= 0 THEN district END)
		FROM assignment
		GROUP BY plan
		ORDER BY plan
	`

	selectElectionsSQL = `SELECT name, party FROM election ORDER BY name, position`

	selectUnitsSQL = `SELECT id FROM unit ORDER BY id`

	selectAttributesSQL = `SELECT unit_id, name, value FROM unit_attribute`

	selectVotesSQL = `SELECT unit_id, election, party, votes FROM vote`

	selectAssignmentSQL = `SELECT unit_id, district FROM assignment WHERE plan = ?`
)

// PlanSummary describes a stored plan.
type PlanSummary struct {
	Name      string `json:"name" yaml:"name"`
	Units     int    `json:"units" yaml:"units"`
	Districts int    `json:"districts" yaml:"districts"`
}

// ListPlans returns the stored plans ordered by name.
func ListPlans(db *sql.DB) ([]*PlanSummary, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectPlansSQL)
	if err != nil {
		return nil, fmt.Errorf("querying plans: %w", err)
	}
	defer rows.Close()

	list := make([]*PlanSummary, 0)
	for rows.Next() {
		s := &PlanSummary{}
		if err := rows.Scan(&s.Name, &s.Units, &s.Districts); err != nil {
			return nil, fmt.Errorf("scanning plan row: %w", err)
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating plan rows: %w", err)
	}
	return list, nil
}

// ListElections returns the stored elections with parties in import order.
func ListElections(db *sql.DB) ([]plan.Election, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(selectElectionsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying elections: %w", err)
	}
	defer rows.Close()

	list := make([]plan.Election, 0)
	for rows.Next() {
		var name, party string
		if err := rows.Scan(&name, &party); err != nil {
			return nil, fmt.Errorf("scanning election row: %w", err)
		}
		if n := len(list); n > 0 && list[n-1].Name == name {
			list[n-1].Parties = append(list[n-1].Parties, party)
			continue
		}
		list = append(list, plan.Election{Name: name, Parties: []string{party}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating election rows: %w", err)
	}
	return list, nil
}

// LoadPlan builds the named plan from every stored unit and election.
// Units the plan does not assign are unassigned. Returns ErrNotFound when
// the plan has no assignment.
func LoadPlan(db *sql.DB, name string) (*plan.Plan, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	assignment, err := loadAssignment(db, name)
	if err != nil {
		return nil, err
	}
	if len(assignment) == 0 {
		return nil, fmt.Errorf("plan %s: %w", name, ErrNotFound)
	}

	elections, err := ListElections(db)
	if err != nil {
		return nil, err
	}

	units, err := loadUnits(db)
	if err != nil {
		return nil, err
	}

	slog.Debug("plan loaded", "plan", name, "units", len(units), "assigned", len(assignment))
	return plan.New(name, units, elections, assignment)
}

func loadAssignment(db *sql.DB, name string) (plan.Assignment, error) {
	rows, err := db.Query(rebind(isPostgres(db), selectAssignmentSQL), name)
	if err != nil {
		return nil, fmt.Errorf("querying assignment of %s: %w", name, err)
	}
	defer rows.Close()

	a := make(plan.Assignment)
	for rows.Next() {
		var id string
		var d int
		if err := rows.Scan(&id, &d); err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		a[id] = plan.District(d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assignment rows: %w", err)
	}
	return a, nil
}

func loadUnits(db *sql.DB) ([]plan.Unit, error) {
	idRows, err := db.Query(selectUnitsSQL)
	if err != nil {
		return nil, fmt.Errorf("querying units: %w", err)
	}
	defer idRows.Close()

	units := make([]plan.Unit, 0)
	index := make(map[string]int)
	for idRows.Next() {
		var id string
		if err := idRows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning unit row: %w", err)
		}
		index[id] = len(units)
		units = append(units, plan.Unit{
			ID:         id,
			Attributes: make(map[string]float64),
			Votes:      make(map[string]map[string]float64),
		})
	}
	if err := idRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating unit rows: %w", err)
	}

	attrRows, err := db.Query(selectAttributesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying unit attributes: %w", err)
	}
	defer attrRows.Close()
	for attrRows.Next() {
		var id, attr string
		var v float64
		if err := attrRows.Scan(&id, &attr, &v); err != nil {
			return nil, fmt.Errorf("scanning attribute row: %w", err)
		}
		if i, ok := index[id]; ok {
			units[i].Attributes[attr] = v
		}
	}
	if err := attrRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating attribute rows: %w", err)
	}

	voteRows, err := db.Query(selectVotesSQL)
	if err != nil {
		return nil, fmt.Errorf("querying votes: %w", err)
	}
	defer voteRows.Close()
	for voteRows.Next() {
		var id, election, party string
		var v float64
		if err := voteRows.Scan(&id, &election, &party, &v); err != nil {
			return nil, fmt.Errorf("scanning vote row: %w", err)
		}
		i, ok := index[id]
		if !ok {
			continue
		}
		if units[i].Votes[election] == nil {
			units[i].Votes[election] = make(map[string]float64)
		}
		units[i].Votes[election][party] = v
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vote rows: %w", err)
	}

	return units, nil
}
