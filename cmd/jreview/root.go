package main

import (
	"fmt"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codewithboateng/jreview/internal/analysis"
	"github.com/codewithboateng/jreview/internal/diagnostics"
	"github.com/codewithboateng/jreview/internal/ir"
	"github.com/codewithboateng/jreview/internal/rules"
	"github.com/codewithboateng/jreview/internal/rulesdsl"
	"github.com/codewithboateng/jreview/internal/shared"
	"github.com/codewithboateng/jreview/internal/storage"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	configPath string
	dbPath     string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:   "jreview",
	Short: "jreview - heuristic Java code review",
	Long: `jreview analyzes Java source with a registry of heuristic rules and the
tree-sitter Java grammar, stores every review in SQLite and renders reports.
The same engine is served over HTTP (serve) and MCP stdio (mcp).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor {
			color.NoColor = true
		}
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("jreview version {{.Version}} (IR %s)\n", ir.Version))
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config (optional)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides database.dsn)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
}

// app is everything a command needs after startup.
type app struct {
	cfg    shared.Config
	logger *slog.Logger
	db     *storage.DB
	reg    *rules.Registry
	engine *analysis.Engine
}

func (a *app) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// setup loads the config, starts logging and opens the database.
// precedence: flags > env > config file > defaults
func setup() (*app, error) {
	cfg, err := shared.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if dbPath != "" {
		cfg.Database.DSN = dbPath
	}
	logger := shared.InitLogger(cfg.Logging.Format, cfg.Logging.Level)

	db, err := storage.OpenSQLite(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.CreateSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &app{cfg: cfg, logger: logger, db: db}, nil
}

// setupEngine is setup plus the rule registry and the analysis engine.
func setupEngine() (*app, error) {
	a, err := setup()
	if err != nil {
		return nil, err
	}
	reg, err := buildRegistry(a.cfg, a.db, a.logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.reg = reg
	a.engine = buildEngine(a.cfg, reg, a.logger)
	return a, nil
}

// buildRegistry registers the built-in rules and the configured rule packs,
// then applies configured and persisted toggles.
func buildRegistry(cfg shared.Config, db *storage.DB, logger *slog.Logger) (*rules.Registry, error) {
	reg := rules.Default()
	for _, pack := range cfg.Analysis.RulePacks {
		n, err := rulesdsl.LoadAndRegister(reg, pack)
		if err != nil {
			return nil, fmt.Errorf("rule pack %s: %w", pack, err)
		}
		logger.Debug("rule pack loaded", "path", pack, "rules", n)
	}
	persisted, err := db.RuleStates()
	if err != nil {
		return nil, fmt.Errorf("load rule states: %w", err)
	}
	reg.Apply(rules.Settings{Disabled: cfg.Analysis.DisabledRules, Overrides: persisted})
	return reg, nil
}

func buildEngine(cfg shared.Config, reg *rules.Registry, logger *slog.Logger) *analysis.Engine {
	var compiler analysis.Diagnoser
	if cfg.Analysis.CompilerDiagnostics && diagnostics.Available() {
		compiler = diagnostics.New()
	}
	e := analysis.New(reg, compiler, logger)
	e.IsolateFaults = cfg.Analysis.IsolateRuleFaults
	return e
}
