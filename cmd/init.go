package cmd

import (
	"fmt"

	"github.com/Mohsinsiddi/dappos/internal/config"
	"github.com/Mohsinsiddi/dappos/internal/ui"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactive setup wizard",
	Long:  "Launch the interactive setup wizard to choose a document store and builder URL.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ui.Banner())

		result, err := ui.RunWizard(config.Backends, cfg.Store.Backend, cfg.BuilderURL)
		if err != nil {
			return err
		}
		if result.Cancelled {
			fmt.Println(ui.Warn("Setup cancelled, nothing changed."))
			return nil
		}

		if result.Backend != "" {
			if err := cfg.SetBackend(result.Backend); err != nil {
				return err
			}
		}
		if result.BuilderURL != "" {
			if err := cfg.SetBuilderURL(result.BuilderURL); err != nil {
				return err
			}
		}
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}

		fmt.Println(ui.Success("dappos configured! Run `dappos plugin --watch <compiler output>` to start."))
		if cfg.Store.Backend == "postgres" && cfg.Store.DatabaseURL == "" {
			fmt.Println(ui.Hint("Set the connection with: dappos config set-store postgres --database-url <url>"))
		}
		return nil
	},
}
