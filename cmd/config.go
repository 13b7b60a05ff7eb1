package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Mohsinsiddi/dappos/internal/ui"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

var configSetBuilderURLCmd = &cobra.Command{
	Use:   "set-builder-url <url>",
	Short: "Set the DappBuilder base URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetBuilderURL(args[0]); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Builder URL set to %s", cfg.BuilderURL)))
		return nil
	},
}

var (
	storeProjectID   string
	storeAPIKey      string
	storeBearerToken string
	storeEndpoint    string
	storeDatabaseURL string
	storePath        string
)

var configSetStoreCmd = &cobra.Command{
	Use:   "set-store <firestore|postgres|sqlite|memory>",
	Short: "Choose where dapp documents are written",
	Long: `Choose the document store backend and its settings. Only the flags you
pass are changed.

Examples:
  dappos config set-store firestore --project-id dappos-app --api-key AIza...
  dappos config set-store postgres --database-url postgres://localhost/dappos
  dappos config set-store sqlite --path ./dapps.db`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.SetBackend(args[0]); err != nil {
			return err
		}
		f := cmd.Flags()
		set := func(name string, dst *string, val string) {
			if f.Changed(name) {
				*dst = val
			}
		}
		set("project-id", &cfg.Store.ProjectID, storeProjectID)
		set("api-key", &cfg.Store.APIKey, storeAPIKey)
		set("bearer-token", &cfg.Store.BearerToken, storeBearerToken)
		set("endpoint", &cfg.Store.Endpoint, storeEndpoint)
		set("database-url", &cfg.Store.DatabaseURL, storeDatabaseURL)
		set("path", &cfg.Store.Path, storePath)

		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Store set to %q", cfg.Store.Backend)))
		return nil
	},
}

var configSetBestEffortCmd = &cobra.Command{
	Use:   "set-best-effort <true|false>",
	Short: "Open the builder even when saving the dapp failed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("expected true or false, got %q", args[0])
		}
		cfg.BestEffortSave = on
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Best-effort save set to %t", on)))
		return nil
	},
}

func init() {
	f := configSetStoreCmd.Flags()
	f.StringVar(&storeProjectID, "project-id", "", "Firestore project id")
	f.StringVar(&storeAPIKey, "api-key", "", "Firestore web API key")
	f.StringVar(&storeBearerToken, "bearer-token", "", "OAuth bearer token for Firestore")
	f.StringVar(&storeEndpoint, "endpoint", "", "Firestore REST endpoint (for the emulator)")
	f.StringVar(&storeDatabaseURL, "database-url", "", "Postgres connection URL")
	f.StringVar(&storePath, "path", "", "SQLite database file")

	configCmd.AddCommand(configListCmd, configSetBuilderURLCmd, configSetStoreCmd, configSetBestEffortCmd)
}
