package cli

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/score"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

var (
	planFlag = &cli.StringFlag{
		Name:     "plan",
		Aliases:  []string{"p"},
		Usage:    "Name of the plan to score",
		Required: true,
	}

	partyFlag = &cli.StringSliceFlag{
		Name:  "party",
		Usage: "Party to score, repeat for several (default: config party)",
	}

	electionFlag = &cli.StringSliceFlag{
		Name:  "election",
		Usage: "Election to include, repeat for several (default: config or all elections)",
	}

	marginFlag = &cli.FloatFlag{
		Name:  "margin",
		Usage: "Competitive margin around 50% (default: config margin)",
	}

	countyFlag = &cli.StringFlag{
		Name:  "county",
		Usage: "Name of the county plan used by county scores (default: config county_plan)",
	}

	populationFlag = &cli.StringFlag{
		Name:  "population",
		Usage: "Unit attribute holding the population (default: config population)",
	}

	scoreNameFlag = &cli.StringFlag{
		Name:  "score",
		Usage: fmt.Sprintf("Evaluate a single score (%s)", strings.Join(score.ScoreNames(), ", ")),
	}

	saveFlag = &cli.BoolFlag{
		Name:  "save",
		Usage: "Persist the scores in the database",
	}

	scoreCmd = &cli.Command{
		Name:   "score",
		Usage:  "Score a plan for one or more parties",
		Action: cmdScore,
		Flags: []cli.Flag{
			planFlag,
			partyFlag,
			electionFlag,
			marginFlag,
			countyFlag,
			populationFlag,
			scoreNameFlag,
			saveFlag,
		},
	}
)

// PartyScore is a single named score of one party.
type PartyScore struct {
	Party string `json:"party" yaml:"party"`
	Score string `json:"score" yaml:"score"`
	Value any    `json:"value" yaml:"value"`
}

func cmdScore(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	o := requestOptions{
		plan:               cmd.String(planFlag.Name),
		elections:          cmd.StringSlice(electionFlag.Name),
		county:             cmd.String(countyFlag.Name),
		countyExplicit:     cmd.IsSet(countyFlag.Name),
		population:         cmd.String(populationFlag.Name),
		populationExplicit: cmd.IsSet(populationFlag.Name),
	}
	if cmd.IsSet(marginFlag.Name) {
		m := cmd.Float(marginFlag.Name)
		o.margin = &m
	}

	req, err := buildRequest(cfg.DB, cfg.Config, o)
	if err != nil {
		return err
	}

	parties := cmd.StringSlice(partyFlag.Name)
	if len(parties) == 0 {
		parties = []string{cfg.Config.Party}
	}

	if name := cmd.String(scoreNameFlag.Name); name != "" {
		if cmd.Bool(saveFlag.Name) {
			return fmt.Errorf("--%s applies to full reports only", saveFlag.Name)
		}
		list, err := evaluateParties(ctx, cfg, req, parties, name)
		if err != nil {
			return err
		}
		return encode(cmd, list)
	}

	reports, err := reportParties(ctx, cfg, req, parties)
	if err != nil {
		return err
	}

	if cmd.Bool(saveFlag.Name) {
		for _, r := range reports {
			n, err := data.SaveReport(cfg.DB, o.plan, r)
			if err != nil {
				return fmt.Errorf("saving %s scores: %w", r.Party, err)
			}
			slog.Info("scores saved", "plan", o.plan, "party", r.Party, "values", n)
		}
	}

	return encode(cmd, reports)
}

// reportParties builds one report per party concurrently. Reports keep the
// party order.
func reportParties(ctx context.Context, cfg *appConfig, req *score.Request, parties []string) ([]*score.Report, error) {
	reports := make([]*score.Report, len(parties))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Config.Parallelism)
	for i, party := range parties {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := cfg.Scorer.Report(forParty(req, party))
			if err != nil {
				return fmt.Errorf("scoring party %s: %w", party, err)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func evaluateParties(ctx context.Context, cfg *appConfig, req *score.Request, parties []string, name string) ([]*PartyScore, error) {
	list := make([]*PartyScore, len(parties))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Config.Parallelism)
	for i, party := range parties {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			v, err := cfg.Scorer.Evaluate(name, forParty(req, party))
			if err != nil {
				return fmt.Errorf("evaluating %s for %s: %w", name, party, err)
			}
			list[i] = &PartyScore{Party: party, Score: name, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return list, nil
}
