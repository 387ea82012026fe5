package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pagebuild/internal/config"
	"git.home.luguber.info/inful/pagebuild/internal/errors"
	"git.home.luguber.info/inful/pagebuild/internal/observability"
	"git.home.luguber.info/inful/pagebuild/internal/version"
)

// Global context passed to subcommands.
type Global struct {
	Out io.Writer
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (default: ./pagebuild.yaml when present)" type:"path"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build BuildCmd `cmd:"" default:"1" help:"Render pages and sync assets into the output directory"`
	Sync  SyncCmd  `cmd:"" help:"Copy a single file if the destination is missing or older"`
	Watch WatchCmd `cmd:"" help:"Build, then rebuild whenever inputs change"`
	Init  InitCmd  `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once. Commands that load
// a config file reconfigure it from the logging section.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := config.NormalizeLogLevel(os.Getenv(config.EnvLogLevel)).SlogLevel()
	if c.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, os.Getenv(config.EnvLogFormat)))
	return nil
}

// Execute parses args, runs the selected command and returns the process exit code.
func Execute(args []string, out io.Writer) int {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("pagebuild"),
		kong.Description("Render page templates and incrementally sync static assets."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, nil).Handle(errors.InternalError("failed to build CLI", err))
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return errors.NewCLIErrorAdapter(false, nil).
			Handle(errors.Wrap(err, errors.CategoryValidation, errors.SeverityError, "invalid arguments"))
	}

	err = kctx.Run(&Global{Out: out}, cli)
	return errors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).Handle(err)
}

// configPath returns the explicit --config path or the default file when it exists.
func (c *CLI) configPath() string {
	if c.Config != "" {
		return c.Config
	}
	if _, err := os.Stat(config.DefaultPath); err == nil {
		return config.DefaultPath
	}
	return ""
}

// LoadConfig layers defaults, config file, environment and flag overrides,
// validates the result and reconfigures logging from it.
func LoadConfig(root *CLI, override func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(root.configPath())
	if err != nil {
		return nil, err
	}
	if override != nil {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level := cfg.Logging.Level.SlogLevel()
	if root.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(observability.NewLogger(os.Stderr, level, string(cfg.Logging.Format)))
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
