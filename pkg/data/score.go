package data

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/mchmarny/planscore/pkg/score"
)

const (
	deleteScoresSQL = `DELETE FROM score WHERE plan = ? AND party = ?`

	insertScoreSQL = `INSERT INTO score (plan, party, score, election, district, value, fingerprint, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectScoresSQL = `SELECT party, score, election, district, value, fingerprint, updated_at
		FROM score
		WHERE plan = ?
		AND party = COALESCE(?, party)
		AND score = COALESCE(?, score)
		ORDER BY party, score, election, district
	`
)

// StoredScore is a persisted score value.
type StoredScore struct {
	Plan        string         `json:"plan" yaml:"plan"`
	Party       string         `json:"party" yaml:"party"`
	Score       string         `json:"score" yaml:"score"`
	Election    string         `json:"election,omitempty" yaml:"election,omitempty"`
	District    *plan.District `json:"district,omitempty" yaml:"district,omitempty"`
	Value       float64        `json:"value" yaml:"value"`
	Fingerprint string         `json:"fingerprint" yaml:"fingerprint"`
	UpdatedAt   string         `json:"updated_at" yaml:"updatedAt"`
}

// SaveReport replaces the stored scores of the plan and report party.
func SaveReport(db *sql.DB, planName string, r *score.Report) (int, error) {
	if db == nil {
		return 0, errDBNotInitialized
	}
	if planName == "" || r == nil {
		return 0, fmt.Errorf("plan name and report required")
	}

	pg := isPostgres(db)
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec(rebind(pg, deleteScoresSQL), planName, r.Party); err != nil {
		return 0, fmt.Errorf("clearing scores of %s: %w", planName, err)
	}

	stmt, err := tx.Prepare(rebind(pg, insertScoreSQL))
	if err != nil {
		return 0, fmt.Errorf("preparing score statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)
	values := r.Values()
	for _, v := range values {
		district := int(plan.Unassigned)
		if v.District != nil {
			district = int(*v.District)
		}
		if _, err := stmt.Exec(planName, r.Party, v.Score, v.Election, district, v.Value, r.Fingerprint, now); err != nil {
			return 0, fmt.Errorf("inserting score %s: %w", v.Score, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing scores: %w", err)
	}
	return len(values), nil
}

// GetScores returns stored scores of a plan. Nil party or score match all.
func GetScores(db *sql.DB, planName string, party, scoreName *string) ([]*StoredScore, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	rows, err := db.Query(rebind(isPostgres(db), selectScoresSQL), planName, party, scoreName)
	if err != nil {
		return nil, fmt.Errorf("querying scores of %s: %w", planName, err)
	}
	defer rows.Close()

	list := make([]*StoredScore, 0)
	for rows.Next() {
		s := &StoredScore{Plan: planName}
		var district int
		if err := rows.Scan(&s.Party, &s.Score, &s.Election, &district, &s.Value, &s.Fingerprint, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		if district != int(plan.Unassigned) {
			d := plan.District(district)
			s.District = &d
		}
		list = append(list, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating score rows: %w", err)
	}
	return list, nil
}
