package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/dappos/internal/alert"
	"github.com/Mohsinsiddi/dappos/internal/browser"
	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/Mohsinsiddi/dappos/internal/plugin"
	"github.com/Mohsinsiddi/dappos/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pluginWatch     string
	pluginNoBrowser bool
	pluginDebounce  time.Duration
)

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Run the interactive panel against your compiler output",
	Long: `Watch a compiler output and show the dappos panel.

--watch takes a solc standard-JSON output file, a Hardhat build-info
directory, or any directory of compiler JSON files. Every time a file
settles after a write, the contract list is rebuilt from it.

Examples:
  dappos plugin --watch artifacts/build-info
  dappos plugin --watch out/solc-output.json --no-browser`,
	RunE: runPlugin,
}

func runPlugin(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	src, err := compiler.NewFileSource(pluginWatch,
		compiler.WithDebounce(pluginDebounce),
		compiler.WithLogger(logger.Named("watch")),
	)
	if err != nil {
		return err
	}
	defer src.Close() //nolint:errcheck

	// prog is assigned before any callback can fire: the source is only
	// started once the program runs.
	var (
		prog *tea.Program
		p    *plugin.Plugin
	)
	send := func(msg tea.Msg) { prog.Send(msg) }

	var nav plugin.Navigator = browser.NewSystem()
	if pluginNoBrowser {
		nav = browser.Printer{W: zap.NewStdLog(logger.Named("builder")).Writer()}
	}

	alerts := alert.NewPresenter(
		alert.WithDuration(cfg.AlertDelay()),
		alert.OnChange(func(a alert.Alert) { send(ui.AlertMsg{Alert: a}) }),
	)

	p, closeStore, err := openPlugin(ctx,
		plugin.WithHost(plugin.StatusFunc(func(s plugin.Status) { send(ui.StatusMsg{Status: s}) })),
		plugin.WithNavigator(nav),
		plugin.WithAlerts(alerts),
		plugin.OnRefresh(func() { send(ui.ContractsMsg{Contracts: p.Contracts()}) }),
	)
	if err != nil {
		return err
	}
	defer closeStore()
	p.Attach(src)

	prog = tea.NewProgram(ui.NewFormModel(ctx, p), tea.WithContext(ctx))

	go func() {
		if err := src.Start(ctx); err != nil {
			alerts.Show(err)
		}
	}()

	logger.Info("plugin started", zap.String("watch", src.Path()), zap.String("store", cfg.Store.Backend))
	final, err := prog.Run()
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running panel: %w", err)
	}

	if m, ok := final.(ui.FormModel); ok && m.Last != nil {
		fmt.Println(ui.Success("Dapp created: " + m.Last.Document.DappName))
		fmt.Println(ui.Meta("  Builder: ") + ui.Addr(m.Last.URL))
	}
	return nil
}

func init() {
	pluginCmd.Flags().StringVarP(&pluginWatch, "watch", "w", ".", "compiler output file or directory to watch")
	pluginCmd.Flags().BoolVar(&pluginNoBrowser, "no-browser", false, "log the builder URL instead of opening a browser")
	pluginCmd.Flags().DurationVar(&pluginDebounce, "debounce", 250*time.Millisecond, "how long a file must be quiet before it is read")
}
