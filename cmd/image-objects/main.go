package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ironsheep/image-objects/internal/config"
	"github.com/ironsheep/image-objects/internal/logging"
	"github.com/ironsheep/image-objects/internal/pipeline"
	"github.com/ironsheep/image-objects/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	flagSave         = "save"
	flagDestDir      = "dest_dir"
	flagConfig       = "config"
	flagWorkers      = "workers"
	flagBorderPolicy = "border-policy"
	flagLogLevel     = "log-level"
	flagInvert       = "invert"
	flagNormalize    = "normalize"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Stdout, os.Stderr, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "image-objects: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// run executes the command line in args, accepting flags after file names.
func run(ctx context.Context, stdout, stderr io.Writer, args []string) error {
	app := newApp(stdout, stderr)
	return app.RunContext(ctx, hoistFlags(app, args))
}

func configFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    flagConfig,
			Aliases: []string{"c"},
			Usage:   "load configuration from `FILE`",
		},
		&cli.StringFlag{
			Name:    flagLogLevel,
			Usage:   "log `LEVEL`: debug, info, warn or error",
			EnvVars: []string{logging.EnvLevel},
		},
	}
}

func batchFlags() []cli.Flag {
	return append(configFlags(),
		&cli.BoolFlag{
			Name:  flagSave,
			Usage: "save artifacts to the destination directory instead of displaying them",
		},
		&cli.StringFlag{
			Name:  flagDestDir,
			Value: config.DefaultDestDir,
			Usage: "artifact `DIR`, created if absent",
		},
		&cli.IntFlag{
			Name:  flagWorkers,
			Value: 1,
			Usage: "number of images processed concurrently",
		},
		&cli.StringFlag{
			Name:  flagBorderPolicy,
			Usage: "border exclusion `POLICY`: strict or legacy",
		},
	)
}

func newApp(stdout, stderr io.Writer) *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "image-objects %s\n", Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	return &cli.App{
		Name:            "image-objects",
		Usage:           "measure dark objects in PNG images",
		UsageText:       "image-objects [flags] FILE... [flags]",
		Version:         Version,
		HideHelpCommand: true,
		Writer:          stdout,
		ErrWriter:       stderr,
		Flags:           batchFlags(),
		Action:          measureAction,
		Commands: []*cli.Command{
			{
				Name:      "inspect",
				Usage:     "print intensity statistics and plot the intensity histogram",
				UsageText: "image-objects inspect [flags] FILE...",
				Flags: append(batchFlags(),
					&cli.BoolFlag{
						Name:  flagInvert,
						Usage: "also emit <name>_inv.png",
					},
					&cli.BoolFlag{
						Name:  flagNormalize,
						Usage: "also emit <name>_norm.png",
					},
				),
				Action: inspectAction,
			},
			{
				Name:   "serve",
				Usage:  "run the MCP server over stdin/stdout",
				Flags:  configFlags(),
				Action: serveAction,
			},
		},
	}
}

// loadConfig builds the run configuration: defaults, then the YAML file,
// then any flag given on the command line.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String(flagConfig); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet(flagSave) {
		cfg.Save = c.Bool(flagSave)
	}
	if c.IsSet(flagDestDir) {
		cfg.DestDir = c.String(flagDestDir)
	}
	if c.IsSet(flagWorkers) {
		cfg.Workers = c.Int(flagWorkers)
	}
	if c.IsSet(flagBorderPolicy) {
		cfg.BorderPolicy = c.String(flagBorderPolicy)
	}
	if c.IsSet(flagLogLevel) {
		cfg.LogLevel = c.String(flagLogLevel)
	}
	return cfg, cfg.Validate()
}

// setup loads the configuration and builds the logger and the orchestrator.
func setup(c *cli.Context) (*pipeline.Orchestrator, *zap.Logger, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var sink pipeline.Sink
	if cfg.Save {
		sink = pipeline.NewDirSink(cfg.DestDir, log)
	} else {
		sink = pipeline.NewDisplaySink(log)
	}

	o, err := pipeline.New(cfg, sink, log, c.App.Writer)
	if err != nil {
		return nil, nil, err
	}
	log.Debug("image-objects starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.Bool("save", cfg.Save),
		zap.Int("workers", cfg.Workers))
	return o, log, nil
}

func measureAction(c *cli.Context) (err error) {
	o, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	defer multierr.AppendInvoke(&err, multierr.Close(o))

	return o.Run(c.Context, c.Args().Slice())
}

func inspectAction(c *cli.Context) (err error) {
	o, log, err := setup(c)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck
	defer multierr.AppendInvoke(&err, multierr.Close(o))

	return o.Inspect(c.Context, c.Args().Slice(), pipeline.InspectOptions{
		Invert:    c.Bool(flagInvert),
		Normalize: c.Bool(flagNormalize),
	})
}

func serveAction(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	log.Info("MCP server starting", zap.String("version", Version), zap.String("commit", GitCommit))
	return server.New(cfg, log).Run(c.Context)
}
