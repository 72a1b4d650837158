package cli

import (
	"context"

	"github.com/mchmarny/planscore/pkg/score"
	"github.com/urfave/cli/v3"
)

var catalogCmd = &cli.Command{
	Name:   "catalog",
	Usage:  "List the available scores",
	Action: cmdCatalog,
}

func cmdCatalog(_ context.Context, cmd *cli.Command) error {
	return encode(cmd, score.Catalog())
}
