package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/urfave/cli/v3"
)

var (
	forceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "Skip the confirmation prompt",
	}

	resetCmd = &cli.Command{
		Name:   "reset",
		Usage:  "Delete all imported data and scores",
		Flags:  []cli.Flag{forceFlag},
		Action: cmdReset,
	}
)

func cmdReset(_ context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	out := writer(cmd)

	if !cmd.Bool(forceFlag.Name) {
		var in io.Reader = os.Stdin
		if r := cmd.Root().Reader; r != nil {
			in = r
		}

		fmt.Fprintf(out, "This will permanently delete all data in %s\n", cfg.DSN)
		fmt.Fprint(out, "Are you sure? [y/N]: ")

		answer, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("reading input: %w", err)
		}
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	}

	if err := data.Reset(cfg.DB); err != nil {
		return fmt.Errorf("resetting database: %w", err)
	}
	cfg.Scorer.Cache().Purge()

	slog.Info("database reset", "db", cfg.DSN)
	fmt.Fprintln(out, "Reset complete.")
	return nil
}
