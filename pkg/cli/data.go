package cli

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/mchmarny/planscore/pkg/score"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// errorStatus maps lookup and input errors to client errors. Inputs that
// are well formed but cannot be scored are unprocessable.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, data.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, plan.ErrUnknownElection),
		errors.Is(err, plan.ErrInvalidParty),
		errors.Is(err, plan.ErrUnknownAttribute),
		errors.Is(err, score.ErrNoElections):
		return http.StatusBadRequest
	case errors.Is(err, score.ErrDivisionByZero),
		errors.Is(err, score.ErrEmptyPlan):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}

func plansAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		list, err := data.ListPlans(cfg.DB)
		if err != nil {
			slog.Error("failed to list plans", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list plans")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func stateAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		state, err := data.GetDataState(cfg.DB)
		if err != nil {
			slog.Error("failed to get data state", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get data state")
			return
		}
		writeJSON(w, http.StatusOK, state)
	}
}

func catalogAPIHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, score.Catalog())
	}
}

func scoresAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		name := q.Get("plan")
		if name == "" {
			writeError(w, http.StatusBadRequest, "plan required")
			return
		}

		list, err := data.GetScores(cfg.DB, name, optional(q.Get("party")), optional(q.Get("score")))
		if err != nil {
			slog.Error("failed to get scores", "plan", name, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get scores")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// reportAPIHandler scores a plan on request. Query: plan (required), party,
// election (repeatable), margin, county, population.
func reportAPIHandler(cfg *appConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		o := requestOptions{
			plan:               q.Get("plan"),
			elections:          q["election"],
			county:             q.Get("county"),
			countyExplicit:     q.Has("county"),
			population:         q.Get("population"),
			populationExplicit: q.Has("population"),
		}
		if o.plan == "" {
			writeError(w, http.StatusBadRequest, "plan required")
			return
		}
		if v := q.Get("margin"); v != "" {
			m, err := strconv.ParseFloat(v, 64)
			if err != nil || m < 0 || m > 0.5 {
				writeError(w, http.StatusBadRequest, "invalid margin")
				return
			}
			o.margin = &m
		}

		req, err := buildRequest(cfg.DB, cfg.Config, o)
		if err != nil {
			slog.Error("failed to build score request", "plan", o.plan, "error", err)
			writeError(w, errorStatus(err), err.Error())
			return
		}

		party := q.Get("party")
		if party == "" {
			party = cfg.Config.Party
		}

		rep, err := cfg.Scorer.Report(forParty(req, party))
		if err != nil {
			slog.Error("failed to score plan", "plan", o.plan, "party", party, "error", err)
			writeError(w, errorStatus(err), err.Error())
			return
		}
		writeJSON(w, http.StatusOK, rep)
	}
}
