// Package config assembles runtime settings from an optional .env file, the
// environment and command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the server settings.
type Config struct {
	DBPath         string
	Addr           string
	AdminUser      string
	AdminEmail     string
	LogPath        string
	AllowedOrigins []string
	TokenTTL       time.Duration
}

// Defaults.
const (
	DefaultDBPath    = "donamatch.sqlite3"
	DefaultAddr      = ":8080"
	DefaultAdminUser = "admin"
	DefaultTokenTTL  = 7 * 24 * time.Hour
)

const usage = `Usage: donamatch [flags]

Flags:
  -d, -db <path>          SQLite database path (env DONAMATCH_DB, default: donamatch.sqlite3)
  -a, -addr <host:port>   listen address (env DONAMATCH_ADDR, default: :8080)
  -u, -user <name>        admin username on first run (env DONAMATCH_ADMIN_USER, default: admin)
  -e, -email <address>    admin email on first run (env DONAMATCH_ADMIN_EMAIL)
  -l, -log <path>         log file path (env DONAMATCH_LOG, default: stdout/stderr only)
  -o, -origins <list>     comma-separated CORS origins (env DONAMATCH_ALLOWED_ORIGINS, default: *)
  -t, -token-ttl <dur>    login token lifetime (env DONAMATCH_TOKEN_TTL, default: 168h)
  -h, -help               show this help and exit

A .env file in the working directory (or DONAMATCH_ENV_FILE) is read first;
variables already set in the environment win over it.
`

// Load reads the .env file, the environment and then args. It returns
// flag.ErrHelp when help was requested; usage has been written to out.
func Load(args []string, out io.Writer) (*Config, error) {
	envFile := os.Getenv("DONAMATCH_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading %s: %w", envFile, err)
	}

	ttl := DefaultTokenTTL
	if v := os.Getenv("DONAMATCH_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("DONAMATCH_TOKEN_TTL: %w", err)
		}
		ttl = d
	}

	cfg := &Config{}
	origins := getEnv("DONAMATCH_ALLOWED_ORIGINS", "*")

	fset := flag.NewFlagSet("donamatch", flag.ContinueOnError)
	fset.SetOutput(out)
	fset.Usage = func() { fmt.Fprint(out, usage) }

	stringFlag(fset, &cfg.DBPath, "db", "d", getEnv("DONAMATCH_DB", DefaultDBPath))
	stringFlag(fset, &cfg.Addr, "addr", "a", getEnv("DONAMATCH_ADDR", DefaultAddr))
	stringFlag(fset, &cfg.AdminUser, "user", "u", getEnv("DONAMATCH_ADMIN_USER", DefaultAdminUser))
	stringFlag(fset, &cfg.AdminEmail, "email", "e", os.Getenv("DONAMATCH_ADMIN_EMAIL"))
	stringFlag(fset, &cfg.LogPath, "log", "l", os.Getenv("DONAMATCH_LOG"))
	stringFlag(fset, &origins, "origins", "o", origins)
	fset.DurationVar(&cfg.TokenTTL, "token-ttl", ttl, "")
	fset.DurationVar(&cfg.TokenTTL, "t", ttl, "")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	if fset.NArg() > 0 {
		fset.Usage()
		return nil, fmt.Errorf("unexpected argument: %s", fset.Arg(0))
	}

	cfg.AllowedOrigins = splitList(origins)
	if cfg.AdminEmail == "" {
		cfg.AdminEmail = strings.ToLower(cfg.AdminUser) + "@localhost.localdomain"
	}

	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.DBPath) == "" {
		errs = append(errs, errors.New("database path is required"))
	}
	if strings.TrimSpace(c.Addr) == "" {
		errs = append(errs, errors.New("listen address is required"))
	}
	if strings.TrimSpace(c.AdminUser) == "" {
		errs = append(errs, errors.New("admin username is required"))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("token TTL must be positive, got %s", c.TokenTTL))
	}
	if len(c.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("at least one allowed origin is required"))
	}
	return errors.Join(errs...)
}

func stringFlag(fset *flag.FlagSet, p *string, long, short, def string) {
	fset.StringVar(p, long, def, "")
	fset.StringVar(p, short, def, "")
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
