package cmd

import (
	"errors"
	"fmt"

	"github.com/Mohsinsiddi/dappos/internal/identity"
	"github.com/Mohsinsiddi/dappos/internal/ui"
	"github.com/spf13/cobra"
)

var idCreate bool

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Show the identifier your dapps are stored under",
	Long: `Show the per-user identifier kept in the OS keychain (or the keyring file
in the config directory). It is created on the first dapp and never rotated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ring, err := identity.OpenKeyring(cfg.Dir(), cfg.KeyringFile)
		if err != nil {
			return err
		}

		id, err := ring.Peek()
		if errors.Is(err, identity.ErrNoIdentity) && idCreate {
			id, err = ring.GetOrCreate()
		}
		if errors.Is(err, identity.ErrNoIdentity) {
			fmt.Println(ui.Info("No identifier yet. One is created with your first dapp, or run: dappos id --create"))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(id)
		return nil
	},
}

func init() {
	idCmd.Flags().BoolVar(&idCreate, "create", false, "create the identifier if there is none")
}
