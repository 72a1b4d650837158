package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"

	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/net"
	"github.com/urfave/cli/v3"
)

var (
	bundleFileFlag = &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Path to a JSON or YAML bundle",
	}

	bundleURLFlag = &cli.StringFlag{
		Name:  "url",
		Usage: "URL of a JSON or YAML bundle",
	}

	importCmd = &cli.Command{
		Name:   "import",
		Usage:  "Import elections, units and plans from a bundle",
		Action: cmdImport,
		Flags: []cli.Flag{
			bundleFileFlag,
			bundleURLFlag,
		},
	}
)

func cmdImport(ctx context.Context, cmd *cli.Command) error {
	cfg := getConfig(cmd)
	file := cmd.String(bundleFileFlag.Name)
	src := cmd.String(bundleURLFlag.Name)

	if (file == "") == (src == "") {
		return errors.New("exactly one of --file or --url is required")
	}

	var b *data.Bundle
	var err error
	if src != "" {
		b, err = fetchBundle(ctx, src)
	} else {
		b, err = data.ReadBundleFile(file)
	}
	if err != nil {
		return fmt.Errorf("reading bundle: %w", err)
	}

	res, err := data.ImportBundle(cfg.DB, b)
	if err != nil {
		return fmt.Errorf("importing bundle: %w", err)
	}
	cfg.Scorer.Cache().Purge()

	slog.Info("bundle imported", "units", res.Units, "elections", res.Elections, "plans", len(res.Plans))
	return encode(cmd, res)
}

// fetchBundle retrieves the bundle at src. JSON bundles are decoded from
// the response; YAML bundles are downloaded into a temp file first.
func fetchBundle(ctx context.Context, src string) (*data.Bundle, error) {
	u, err := url.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parsing bundle URL %s: %w", src, err)
	}
	name := path.Base(u.Path)
	format, err := data.FormatFromPath(name)
	if err != nil {
		return nil, err
	}

	if format == data.FormatJSON {
		var b data.Bundle
		if err := net.GetJSON(ctx, src, &b); err != nil {
			return nil, fmt.Errorf("fetching bundle: %w", err)
		}
		return &b, nil
	}

	dir, err := os.MkdirTemp("", appName)
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	file := filepath.Join(dir, name)
	if err := net.Download(ctx, src, file); err != nil {
		return nil, fmt.Errorf("downloading bundle: %w", err)
	}
	return data.ReadBundleFile(file)
}
