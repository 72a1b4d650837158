package cli

import (
	"context"
	"fmt"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/plan"
	"github.com/urfave/cli/v3"
)

var plansCmd = &cli.Command{
	Name:   "plans",
	Usage:  "List imported plans and elections",
	Action: cmdPlans,
}

type plansResult struct {
	Plans     []*data.PlanSummary `json:"plans" yaml:"plans"`
	Elections []plan.Election     `json:"elections" yaml:"elections"`
	State     map[string]int64    `json:"state" yaml:"state"`
}

func cmdPlans(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)

	plans, err := data.ListPlans(cfg.DB)
	if err != nil {
		return fmt.Errorf("listing plans: %w", err)
	}
	elections, err := data.ListElections(cfg.DB)
	if err != nil {
		return fmt.Errorf("listing elections: %w", err)
	}
	state, err := data.GetDataState(cfg.DB)
	if err != nil {
		return fmt.Errorf("getting data state: %w", err)
	}

	return encode(cmd, &plansResult{
		Plans:     plans,
		Elections: elections,
		State:     state,
	})
}
