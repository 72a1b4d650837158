package data

import (
	"database/sql"
	"errors"
	"fmt"
)

var stateQueries = map[string]string{
	"elections": "SELECT COUNT(DISTINCT name) FROM election",
	"units":     "SELECT COUNT(*) FROM unit",
	"votes":     "SELECT COUNT(*) FROM vote",
	"plans":     "SELECT COUNT(DISTINCT plan) FROM assignment",
	"scores":    "SELECT COUNT(*) FROM score",
}

// GetDataState returns the row counts of the stored data.
func GetDataState(db *sql.DB) (map[string]int64, error) {
	if db == nil {
		return nil, errDBNotInitialized
	}

	state := make(map[string]int64)
	for k, q := range stateQueries {
		count, err := getCount(db, q)
		if err != nil {
			return nil, fmt.Errorf("getting %s count: %w", k, err)
		}
		state[k] = count
	}

	return state, nil
}

func getCount(db *sql.DB, query string) (int64, error) {
	var count int64
	if err := db.QueryRow(query).Scan(&count); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("scanning count: %w", err)
	}
	return count, nil
}
