package shared

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database struct {
		Driver string `yaml:"driver"` // "sqlite" (default)
		DSN    string `yaml:"dsn"`    // "./jreview.db"
	} `yaml:"database"`

	Analysis struct {
		Sources             []string `yaml:"sources"`        // default paths for `jreview analyze`
		DisabledRules       []string `yaml:"disabled_rules"` // rule names switched off at startup
		RulePacks           []string `yaml:"rule_packs"`     // YAML regex rule packs
		IsolateRuleFaults   bool     `yaml:"isolate_rule_faults"`
		CompilerDiagnostics bool     `yaml:"compiler_diagnostics"`
		MaxSourceBytes      int64    `yaml:"max_source_bytes"`
		Workers             int      `yaml:"workers"`
	} `yaml:"analysis"`

	Reporting struct {
		OutDir string `yaml:"out_dir"` // "./reports"
	} `yaml:"reporting"`

	Logging struct {
		Format string `yaml:"format"` // "json"|"text"
		Level  string `yaml:"level"`  // "info"|"debug"|"warn"|"error"
	} `yaml:"logging"`

	Server struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowed_origins"`
		SessionHours   int      `yaml:"session_hours"`
		AnalyzeRPS     float64  `yaml:"analyze_rps"` // 0 disables the limiter
		AnalyzeBurst   int      `yaml:"analyze_burst"`
	} `yaml:"server"`
}

func DefaultConfig() Config {
	var c Config
	c.Database.Driver = "sqlite"
	c.Database.DSN = "./jreview.db"
	c.Analysis.CompilerDiagnostics = true
	c.Analysis.MaxSourceBytes = 1 << 20
	c.Analysis.Workers = 4
	c.Reporting.OutDir = "./reports"
	c.Logging.Format = "json"
	c.Logging.Level = "info"
	c.Server.Addr = ":8080"
	c.Server.AllowedOrigins = []string{"http://localhost:3000"}
	c.Server.SessionHours = 12
	c.Server.AnalyzeRPS = 5
	c.Server.AnalyzeBurst = 10
	return c
}

// LoadConfig reads path over the defaults and applies JREVIEW_* environment
// overrides. A missing file is not an error; a malformed one is.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return c, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}
	// Env overrides (simple, explicit)
	if v := os.Getenv("JREVIEW_DB_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("JREVIEW_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("JREVIEW_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("JREVIEW_OUT_DIR"); v != "" {
		c.Reporting.OutDir = v
	}
	if v := os.Getenv("JREVIEW_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("JREVIEW_ALLOWED_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("JREVIEW_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Analysis.Workers = n
		}
	}
	return c, c.Validate()
}

// Validate rejects settings no component can run with.
func (c Config) Validate() error {
	if c.Database.Driver != "" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("database.driver %q not supported", c.Database.Driver)
	}
	if c.Analysis.MaxSourceBytes < 0 {
		return errors.New("analysis.max_source_bytes must not be negative")
	}
	if c.Server.AnalyzeRPS < 0 {
		return errors.New("server.analyze_rps must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
