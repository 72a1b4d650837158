package cli

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mchmarny/planscore/pkg/config"
	"github.com/mchmarny/planscore/pkg/data"
	"github.com/mchmarny/planscore/pkg/logging"
	"github.com/mchmarny/planscore/pkg/metrics"
	"github.com/mchmarny/planscore/pkg/score"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

const (
	appName      = "planscore"
	dirName      = ".planscore"
	dirMode      = 0700
	appConfigKey = "app-config"

	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	version = "v0.0.1-default"
	commit  = ""
	date    = ""

	debugFlag = &cli.BoolFlag{
		Name:    "debug",
		Usage:   "Prints verbose logs (optional, default: false)",
		Sources: cli.EnvVars("PLANSCORE_DEBUG"),
	}

	dbFlag = &cli.StringFlag{
		Name:    "db",
		Usage:   "Path to the sqlite database file or a postgres:// connection URL",
		Sources: cli.EnvVars("PLANSCORE_DB"),
	}

	formatFlag = &cli.StringFlag{
		Name:  "format",
		Usage: "Output format [json, yaml]",
		Value: formatJSON,
	}

	configFlag = &cli.StringFlag{
		Name:    "config",
		Usage:   "Path to the config file (default: ~/.planscore/config.yaml)",
		Sources: cli.EnvVars("PLANSCORE_CONFIG"),
	}
)

// Execute creates and runs the CLI application.
func Execute() {
	logging.SetDefaultLogger("info")

	if err := newApp().Run(context.Background(), os.Args); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

type appConfig struct {
	DSN        string
	ConfigPath string
	Debug      bool
	Format     string
	Config     *config.Config
	DB         *sql.DB
	Scorer     *score.Scorer
	Registry   *prometheus.Registry
}

func getConfig(cmd *cli.Command) *appConfig {
	return cmd.Root().Metadata[appConfigKey].(*appConfig)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:                  appName,
		Version:               fmt.Sprintf("%s (%s - %s)", version, commit, date),
		EnableShellCompletion: true,
		HideHelpCommand:       true,
		Usage:                 "Partisan fairness scores for districting plans",
		Metadata:              map[string]any{},
		Flags: []cli.Flag{
			debugFlag,
			dbFlag,
			formatFlag,
			configFlag,
		},
		Commands: []*cli.Command{
			importCmd,
			plansCmd,
			scoreCmd,
			catalogCmd,
			serverCmd,
			resetCmd,
		},
		Before: before,
		After: func(_ context.Context, cmd *cli.Command) error {
			if cfg, ok := cmd.Metadata[appConfigKey].(*appConfig); ok && cfg.DB != nil {
				cfg.DB.Close()
			}
			return nil
		},
	}
}

func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	debug := cmd.Bool(debugFlag.Name)
	if debug {
		logging.SetDefaultLogger("debug")
	}

	format := formatJSON
	switch f := cmd.String(formatFlag.Name); f {
	case formatYAML, "yml":
		format = formatYAML
	case formatJSON, "":
	default:
		return ctx, fmt.Errorf("unsupported output format: %s", f)
	}

	configPath := cmd.String(configFlag.Name)
	if configPath == "" {
		configPath = filepath.Join(getHomeDir(), config.FileName)
	}
	c, err := config.ReadOrCreate(configPath)
	if err != nil {
		return ctx, fmt.Errorf("loading config: %w", err)
	}

	dsn := cmd.String(dbFlag.Name)
	if dsn == "" {
		dsn = filepath.Join(getHomeDir(), data.DataFileName)
	}
	if err := data.Init(dsn); err != nil {
		return ctx, fmt.Errorf("initializing database: %w", err)
	}
	db, err := data.GetDB(dsn)
	if err != nil {
		return ctx, fmt.Errorf("opening database: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	scorer, err := score.NewScorer(c.CacheSize, metrics.NewPrometheus(reg, appName))
	if err != nil {
		db.Close()
		return ctx, fmt.Errorf("creating scorer: %w", err)
	}

	cmd.Metadata[appConfigKey] = &appConfig{
		DSN:        dsn,
		ConfigPath: configPath,
		Debug:      debug,
		Format:     format,
		Config:     c,
		DB:         db,
		Scorer:     scorer,
		Registry:   reg,
	}
	slog.Debug("app configured", "db", dsn, "config", configPath, "cache_size", c.CacheSize)
	return ctx, nil
}

func getHomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		slog.Debug("error getting home dir, using current dir instead", "error", err)
		return "."
	}

	dirPath := filepath.Join(home, dirName)
	if _, err := os.Stat(dirPath); errors.Is(err, os.ErrNotExist) {
		slog.Debug("creating dir", "path", dirPath)
		if err := os.Mkdir(dirPath, dirMode); err != nil {
			slog.Debug("error creating dir", "path", dirPath, "error", err)
			return home
		}
	}
	return dirPath
}

func writer(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func encode(cmd *cli.Command, v any) error {
	w := writer(cmd)
	if getConfig(cmd).Format == formatYAML {
		return yaml.NewEncoder(w).Encode(v)
	}
	e := json.NewEncoder(w)
	e.SetIndent("", "  ")
	return e.Encode(v)
}
