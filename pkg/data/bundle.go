package data

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mchmarny/planscore/pkg/plan"
	"gopkg.in/yaml.v3"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	insertElectionSQL = `INSERT INTO election (name, party, position) VALUES (?, ?, ?)
		ON CONFLICT (name, party) DO UPDATE SET position = excluded.position
	`

	deleteElectionSQL = `DELETE FROM election WHERE name = ?`

	deleteUnitVotesSQL = `DELETE FROM vote WHERE unit_id = ? AND election = ?`

	deleteUndeclaredVotesSQL = `DELETE FROM vote
		WHERE election = ?
		AND party NOT IN (SELECT party FROM election WHERE name = ?)
	`

	insertUnitSQL = `INSERT INTO unit (id) VALUES (?) ON CONFLICT (id) DO NOTHING`

	insertAttributeSQL = `INSERT INTO unit_attribute (unit_id, name, value) VALUES (?, ?, ?)
		ON CONFLICT (unit_id, name) DO UPDATE SET value = excluded.value
	`

	insertVoteSQL = `INSERT INTO vote (unit_id, election, party, votes) VALUES (?, ?, ?, ?)
		ON CONFLICT (unit_id, election, party) DO UPDATE SET votes = excluded.votes
	`

	deleteAssignmentSQL = `DELETE FROM assignment WHERE plan = ?`

	insertAssignmentSQL = `INSERT INTO assignment (plan, unit_id, district) VALUES (?, ?, ?)`
)

// Bundle is the import format: election definitions, units with their
// attributes and votes, and any number of named plans (unit to district).
type Bundle struct {
	Elections   []plan.Election                     `json:"elections" yaml:"elections"`
	Units       []plan.Unit                         `json:"units" yaml:"units"`
	Assignments map[string]map[string]plan.District `json:"assignments" yaml:"assignments"`
}

// ImportResult summarizes a bundle import.
type ImportResult struct {
	Elections int      `json:"elections" yaml:"elections"`
	Units     int      `json:"units" yaml:"units"`
	Votes     int      `json:"votes" yaml:"votes"`
	Plans     []string `json:"plans" yaml:"plans"`
}

// ReadBundle decodes a bundle in the given format.
func ReadBundle(r io.Reader, format string) (*Bundle, error) {
	var b Bundle
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&b); err != nil {
			return nil, fmt.Errorf("decoding JSON bundle: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&b); err != nil {
			return nil, fmt.Errorf("decoding YAML bundle: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported bundle format: %s", format)
	}
	return &b, nil
}

// ReadBundleFile decodes a bundle file; the format follows the extension.
func ReadBundleFile(path string) (*Bundle, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bundle %s: %w", path, err)
	}
	defer file.Close()
	return ReadBundle(file, format)
}

// FormatFromPath maps .json, .yaml and .yml to a bundle format.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported bundle extension: %s", path)
	}
}

// Validate checks that the bundle is internally consistent.
func (b *Bundle) Validate() error {
	if b == nil {
		return errors.New("bundle required")
	}

	parties := make(map[string]map[string]bool, len(b.Elections))
	for _, e := range b.Elections {
		if e.Name == "" || len(e.Parties) == 0 {
			return fmt.Errorf("election %q requires a name and parties", e.Name)
		}
		parties[e.Name] = make(map[string]bool, len(e.Parties))
		for _, p := range e.Parties {
			parties[e.Name][p] = true
		}
	}

	units := make(map[string]bool, len(b.Units))
	for _, u := range b.Units {
		if u.ID == "" {
			return errors.New("unit without id")
		}
		if units[u.ID] {
			return fmt.Errorf("duplicate unit %s", u.ID)
		}
		units[u.ID] = true
		for e, votes := range u.Votes {
			if _, ok := parties[e]; !ok {
				return fmt.Errorf("unit %s has votes for unknown election %s", u.ID, e)
			}
			for p := range votes {
				if !parties[e][p] {
					return fmt.Errorf("unit %s has votes for unknown party %s in %s", u.ID, p, e)
				}
			}
		}
	}

	for name, a := range b.Assignments {
		if name == "" {
			return errors.New("plan without name")
		}
		for id := range a {
			if !units[id] {
				return fmt.Errorf("plan %s assigns unknown unit %s", name, id)
			}
		}
	}
	return nil
}

// ImportBundle upserts the bundle content. Elections in the bundle replace
// the stored party list of the same name along with the votes of the
// bundle's units for them, and plans replace any stored plan of the same
// name.
func ImportBundle(db *sql.DB, b *Bundle) (*ImportResult, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bundle: %w", err)
	}

	pg := isPostgres(db)
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res := &ImportResult{}

	electionStmt, err := tx.Prepare(rebind(pg, insertElectionSQL))
	if err != nil {
		return nil, fmt.Errorf("preparing election statement: %w", err)
	}
	defer electionStmt.Close()
	for _, e := range b.Elections {
		if _, err := tx.Exec(rebind(pg, deleteElectionSQL), e.Name); err != nil {
			return nil, fmt.Errorf("clearing election %s: %w", e.Name, err)
		}
		for i, p := range e.Parties {
			if _, err := electionStmt.Exec(e.Name, p, i); err != nil {
				return nil, fmt.Errorf("inserting election %s: %w", e.Name, err)
			}
		}
		res.Elections++
	}

	unitStmt, err := tx.Prepare(rebind(pg, insertUnitSQL))
	if err != nil {
		return nil, fmt.Errorf("preparing unit statement: %w", err)
	}
	defer unitStmt.Close()
	attrStmt, err := tx.Prepare(rebind(pg, insertAttributeSQL))
	if err != nil {
		return nil, fmt.Errorf("preparing attribute statement: %w", err)
	}
	defer attrStmt.Close()
	voteStmt, err := tx.Prepare(rebind(pg, insertVoteSQL))
	if err != nil {
		return nil, fmt.Errorf("preparing vote statement: %w", err)
	}
	defer voteStmt.Close()

	for _, u := range b.Units {
		if _, err := unitStmt.Exec(u.ID); err != nil {
			return nil, fmt.Errorf("inserting unit %s: %w", u.ID, err)
		}
		for _, e := range b.Elections {
			if _, err := tx.Exec(rebind(pg, deleteUnitVotesSQL), u.ID, e.Name); err != nil {
				return nil, fmt.Errorf("clearing unit %s votes: %w", u.ID, err)
			}
		}
		for k, v := range u.Attributes {
			if _, err := attrStmt.Exec(u.ID, k, v); err != nil {
				return nil, fmt.Errorf("inserting unit %s attribute %s: %w", u.ID, k, err)
			}
		}
		for e, votes := range u.Votes {
			for p, v := range votes {
				if _, err := voteStmt.Exec(u.ID, e, p, v); err != nil {
					return nil, fmt.Errorf("inserting unit %s votes: %w", u.ID, err)
				}
				res.Votes++
			}
		}
		res.Units++
	}

	// votes of units outside the bundle for parties an election no longer declares
	for _, e := range b.Elections {
		if _, err := tx.Exec(rebind(pg, deleteUndeclaredVotesSQL), e.Name, e.Name); err != nil {
			return nil, fmt.Errorf("clearing undeclared votes of %s: %w", e.Name, err)
		}
	}

	assignStmt, err := tx.Prepare(rebind(pg, insertAssignmentSQL))
	if err != nil {
		return nil, fmt.Errorf("preparing assignment statement: %w", err)
	}
	defer assignStmt.Close()

	for name, a := range b.Assignments {
		if _, err := tx.Exec(rebind(pg, deleteAssignmentSQL), name); err != nil {
			return nil, fmt.Errorf("clearing plan %s: %w", name, err)
		}
		for id, d := range a {
			if _, err := assignStmt.Exec(name, id, int(d)); err != nil {
				return nil, fmt.Errorf("assigning unit %s in plan %s: %w", id, name, err)
			}
		}
		res.Plans = append(res.Plans, name)
	}
	sort.Strings(res.Plans)

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing import: %w", err)
	}
	return res, nil
}
