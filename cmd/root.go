package cmd

import (
	"fmt"
	"os"

	"github.com/Mohsinsiddi/dappos/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Version is the current release. Overridable via build ldflags:
//
//	go build -ldflags "-X github.com/Mohsinsiddi/dappos/cmd.Version=1.2.3" .
var Version = "0.1.0"

var (
	cfgDir  string
	cfg     *config.Config
	verbose bool
	logger  *zap.Logger
)

// rootCmd is the top-level command.
var rootCmd = &cobra.Command{
	Use:   "dappos",
	Short: "Turn compiled contracts into no-code dapps",
	Long: `dappos watches your Solidity compiler output, lets you pick the contracts
to expose, and hands them to the DappBuilder as a new dapp.

  dappos plugin --watch artifacts/build-info   # interactive panel
  dappos create --artifact out.json --name Counter --address 0x...

Configuration lives in ~/.dappos (override with --config or DAPPOS_CONFIG_DIR).`,
	Version:      Version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		var err error
		cfg, err = config.Load(cfgDir)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		// The TUI owns the terminal; it logs to the config dir instead.
		out := "stderr"
		if cmd.Name() == "plugin" {
			out = cfg.LogPath()
		}
		logger, err = newLogger(out, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// newLogger logs warnings to stderr, or everything from info up when out is
// a file. debug lowers either to debug level.
func newLogger(out string, debug bool) (*zap.Logger, error) {
	level := zapcore.WarnLevel
	if out != "stderr" {
		level = zapcore.InfoLevel
	}
	if debug {
		level = zapcore.DebugLevel
	}

	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.OutputPaths = []string{out}
	zc.ErrorOutputPaths = []string{out}
	return zc.Build()
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// DAPPOS_CONFIG_DIR env var overrides the --config default.
	if envDir := os.Getenv("DAPPOS_CONFIG_DIR"); envDir != "" {
		cfgDir = envDir
	}

	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", cfgDir, "config directory (default: ~/.dappos)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(
		initCmd,
		pluginCmd,
		createCmd,
		contractsCmd,
		idCmd,
		configCmd,
	)
}
