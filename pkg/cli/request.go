package cli

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mchmarny/planscore/pkg/config"
	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/mchmarny/planscore/pkg/score"
)

// requestOptions are the caller supplied score inputs. Empty values fall
// back to the config. County and population named explicitly must resolve;
// config defaults that do not are skipped.
type requestOptions struct {
	plan               string
	elections          []string
	margin             *float64
	county             string
	countyExplicit     bool
	population         string
	populationExplicit bool
}

// buildRequest loads the plan (and county partition) and resolves the
// request inputs. Party is left for the caller to set.
func buildRequest(db *sql.DB, c *config.Config, o requestOptions) (*score.Request, error) {
	if o.plan == "" {
		return nil, errors.New("plan name required")
	}

	p, err := data.LoadPlan(db, o.plan)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", o.plan, err)
	}

	req := &score.Request{
		Plan:       p,
		Elections:  o.elections,
		Margin:     c.Margin,
		Population: o.population,
	}
	if o.margin != nil {
		req.Margin = *o.margin
	}
	if len(req.Elections) == 0 {
		req.Elections = c.Elections
	}
	if len(req.Elections) == 0 {
		req.Elections = p.Elections()
	}
	req.Elections = uniqueElections(req.Elections)

	if req.Population == "" {
		req.Population = c.Population
	}
	if req.Population != "" {
		if _, err := p.Tally(req.Population); err != nil {
			if !errors.Is(err, plan.ErrUnknownAttribute) || o.populationExplicit {
				return nil, fmt.Errorf("population %s: %w", req.Population, err)
			}
			slog.Debug("population attribute not found, skipping population scores", "population", req.Population)
			req.Population = ""
		}
	}

	county := o.county
	if county == "" {
		county = c.CountyPlan
	}
	if county != "" && county != o.plan {
		cp, err := data.LoadPlan(db, county)
		switch {
		case err == nil:
			req.County = cp
		case errors.Is(err, data.ErrNotFound) && !o.countyExplicit:
			slog.Debug("county plan not found, skipping county scores", "county", county)
		default:
			return nil, fmt.Errorf("loading county plan %s: %w", county, err)
		}
	}

	return req, nil
}

// uniqueElections drops repeated names keeping the first occurrence order.
func uniqueElections(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// forParty returns a copy of the request for the party.
func forParty(r *score.Request, party string) *score.Request {
	c := *r
	c.Party = party
	return &c
}
