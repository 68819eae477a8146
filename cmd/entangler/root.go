package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bitfsorg/entangler-go/address"
	"github.com/bitfsorg/entangler-go/config"
	"github.com/bitfsorg/entangler-go/entangler"
	"github.com/bitfsorg/entangler-go/ledger"
)

var version = "dev"

const ledgerFileName = "ledger.db"

// cli carries the state shared by every subcommand of one invocation.
type cli struct {
	v      *viper.Viper
	cfg    config.Config
	logger *slog.Logger
	logOut io.Closer

	jsonOut     bool
	password    string
	now         int64
	metricsFile string

	registry *prometheus.Registry
	metrics  *entangler.Metrics
}

func newCLI() *cli {
	return &cli{
		v:      config.NewViper(),
		logger: slog.New(slog.DiscardHandler),
	}
}

// execute runs one invocation and releases its resources whether or not the
// command succeeded. Cobra skips post-run hooks on error, so teardown is
// deferred here.
func (c *cli) execute(args []string, stdout, stderr io.Writer) (err error) {
	defer func() {
		if cerr := c.teardown(); err == nil {
			err = cerr
		}
	}()
	root := newRootCmd(c)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	return root.Execute()
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:   "entangler",
		Short: "Bootstrap entangled token pairs",
		Long: `entangler creates parent and child entangler registrations, together
with their escrow vaults, at program-derived addresses on a local ledger.

Every initialization is create-or-fail: re-running an instruction for an
existing registration is rejected and leaves the ledger untouched.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.String("datadir", config.DefaultDataDir(), "data directory holding config, ledger and keys")
	pf.String("program-id", "", "entangler program id in hex (default: built-in id)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
	pf.String("log-file", "", "append logs to this file instead of stderr")
	pf.BoolVar(&c.jsonOut, "json", false, "output JSON instead of YAML")
	pf.StringVar(&c.password, "password", os.Getenv("ENTANGLER_PASSWORD"), "key file password (default $ENTANGLER_PASSWORD)")
	pf.Int64Var(&c.now, "now", 0, "override the ledger clock (unix seconds)")
	pf.StringVar(&c.metricsFile, "metrics-textfile", "", "write instruction metrics to this file in Prometheus text format")
	_ = pf.MarkHidden("now")

	_ = c.v.BindPFlag(config.KeyDataDir, pf.Lookup("datadir"))
	_ = c.v.BindPFlag(config.KeyProgramID, pf.Lookup("program-id"))
	_ = c.v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = c.v.BindPFlag(config.KeyLogFormat, pf.Lookup("log-format"))
	_ = c.v.BindPFlag(config.KeyLogFile, pf.Lookup("log-file"))

	root.AddCommand(
		newConfigCmd(c),
		newKeygenCmd(c),
		newAirdropCmd(c),
		newCreateMintCmd(c),
		newInitEntanglerCmd(c),
		newInitChildCmd(c),
		newShowCmd(c),
		newChildrenCmd(c),
		newDeriveCmd(c),
	)
	return root
}

// setup resolves configuration (flags > env > file > defaults) and builds the logger.
func (c *cli) setup(cmd *cobra.Command) error {
	path := config.ConfigPath(c.v.GetString(config.KeyDataDir))
	if err := config.ReadFile(c.v, path); err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		return err
	}
	c.cfg = config.FromViper(c.v)
	if err := config.ValidateConfig(c.cfg); err != nil {
		return err
	}

	var out io.Writer = cmd.ErrOrStderr()
	if c.cfg.LogFile != "" {
		f, err := os.OpenFile(c.cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		c.logOut = f
		out = f
	}
	opts := &slog.HandlerOptions{Level: c.cfg.SlogLevel()}
	if strings.EqualFold(c.cfg.LogFormat, "json") {
		c.logger = slog.New(slog.NewJSONHandler(out, opts))
	} else {
		c.logger = slog.New(slog.NewTextHandler(out, opts))
	}

	c.registry = prometheus.NewRegistry()
	c.metrics = entangler.NewMetrics(c.registry)
	return nil
}

func (c *cli) teardown() error {
	if c.logOut == nil {
		return nil
	}
	err := c.logOut.Close()
	c.logOut = nil
	c.logger = slog.New(slog.DiscardHandler)
	return err
}

// programID returns the configured program identity.
func (c *cli) programID() (address.Address, error) {
	if c.cfg.ProgramID == "" {
		return entangler.DefaultProgramID, nil
	}
	return address.ParseAddress(c.cfg.ProgramID)
}

// clock returns the ledger clock for this invocation.
func (c *cli) clock() ledger.Clock {
	if c.now != 0 {
		return ledger.Clock{UnixTimestamp: c.now}
	}
	return ledger.Clock{UnixTimestamp: time.Now().Unix()}
}

// session is an open ledger plus a processor bound to it.
type session struct {
	store *ledger.BoltStore
	proc  *entangler.Processor
}

// openLedger opens the bbolt ledger under the data directory. The returned
// close function also flushes metrics when a textfile is configured.
func (c *cli) openLedger() (*session, func(), error) {
	programID, err := c.programID()
	if err != nil {
		return nil, nil, err
	}
	store, err := ledger.OpenBoltStore(filepath.Join(c.cfg.DataDir, ledgerFileName))
	if err != nil {
		return nil, nil, err
	}
	c.logger.Debug("ledger opened", "path", filepath.Join(c.cfg.DataDir, ledgerFileName), "program_id", programID.String())

	s := &session{
		store: store,
		proc: entangler.NewProcessor(store,
			entangler.WithProgramID(programID),
			entangler.WithLogger(c.logger),
			entangler.WithMetrics(c.metrics),
		),
	}
	closeFn := func() {
		if err := store.Close(); err != nil {
			c.logger.Warn("close ledger", "error", err)
		}
		if c.metricsFile != "" {
			if err := prometheus.WriteToTextfile(c.metricsFile, c.registry); err != nil {
				c.logger.Warn("write metrics", "path", c.metricsFile, "error", err)
			}
		}
	}
	return s, closeFn, nil
}

func newConfigCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or save the effective configuration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.print(cmd, configView{
				DataDir:   c.cfg.DataDir,
				ProgramID: c.cfg.ProgramID,
				LogLevel:  c.cfg.LogLevel,
				LogFormat: c.cfg.LogFormat,
				LogFile:   c.cfg.LogFile,
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "save",
		Short: "Write the effective configuration to the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := config.ConfigPath(c.cfg.DataDir)
			if err := config.SaveConfig(path, c.cfg); err != nil {
				return err
			}
			c.logger.Info("config saved", "path", path)
			return nil
		},
	})
	return cmd
}
