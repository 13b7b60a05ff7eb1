package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Mohsinsiddi/dappos/internal/alert"
	"github.com/Mohsinsiddi/dappos/internal/browser"
	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/Mohsinsiddi/dappos/internal/plugin"
	"github.com/Mohsinsiddi/dappos/internal/ui"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var (
	createArtifacts []string
	createName      string
	createAddress   string
	createContracts []string
	createNoBrowser bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a dapp from a compiler output without the panel",
	Long: `Load one or more compiler outputs, select contracts and create the dapp
in one shot. All contracts are selected unless --contract is given.

Examples:
  dappos create --artifact out.json --name Counter --address 0x5FbDB2315678afecb367f032d93F642f64180aa3
  dappos create --artifact artifacts/build-info/abc.json --contract Token --contract Vault \
      --name "Token Vault" --address 0x... --no-browser`,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, args []string) error {
	if len(createArtifacts) == 0 {
		return errors.New("at least one --artifact is required")
	}
	ev, err := compiler.LoadFiles(createArtifacts...)
	if err != nil {
		return err
	}
	if ev.Result == nil {
		if d := compiler.Diagnostics(ev.Errors); d != "" {
			fmt.Fprint(os.Stderr, ui.Err("Compilation failed:")+"\n"+d)
		}
		return errors.New("no contracts found in the given artifacts")
	}

	var nav plugin.Navigator = browser.Fallback{Primary: browser.NewSystem(), Secondary: browser.Printer{W: os.Stdout}}
	if createNoBrowser {
		nav = browser.Printer{W: os.Stdout}
	}

	spin := ui.NewSpinner(os.Stderr, "")
	host := plugin.StatusFunc(func(s plugin.Status) {
		if s.Key == plugin.KeyLoading {
			spin.SetMessage(s.Title)
			spin.Start()
		}
	})

	p, closeStore, err := openPlugin(cmd.Context(),
		plugin.WithHost(host),
		plugin.WithNavigator(nav),
	)
	if err != nil {
		return err
	}
	defer closeStore()

	src := compiler.NewMemorySource()
	p.Attach(src)
	src.Emit(ev)
	if a := p.Alerts().Current(); !a.Empty() {
		return errors.New(a.Message)
	}

	selected := createContracts
	if len(selected) == 0 {
		selected = p.Names()
	}
	// Like the panel, the name defaults to the first contract.
	name := createName
	if !cmd.Flags().Changed("name") && len(p.Names()) > 0 {
		name = p.Names()[0]
	}

	sub, err := p.Submit(cmd.Context(), plugin.Form{
		Name:     name,
		Address:  createAddress,
		Selected: selected,
	})
	if err != nil {
		spin.Stop()
		return err
	}
	spin.StopWithMsg(ui.Meta("Submitted " + sub.DappID))

	pairs := [][2]string{
		{"Dapp", sub.Document.DappName},
		{"Contracts", strings.Join(selected, ", ")},
		{"Address", displayAddress(createAddress)},
		{"User", sub.UserID},
		{"Dapp ID", sub.DappID},
		{"Stored at", cfg.Store.Backend + " " + sub.Path.String()},
	}
	fmt.Println(ui.KeyValueBlock("Dapp created", pairs))

	if sub.SaveErr != nil {
		fmt.Println(ui.Warn("Saving failed, the builder may not find this dapp: " + sub.SaveErr.Error()))
	}
	if sub.OpenErr != nil {
		fmt.Println(ui.Warn("Could not open a browser: " + sub.OpenErr.Error()))
	}
	if a := p.Alerts().Current(); a.Type == alert.TypeSuccess {
		fmt.Println(ui.Success(a.Message))
	}
	fmt.Println(ui.Meta("Builder: ") + ui.Addr(sub.URL))
	return nil
}

// displayAddress shows the EIP-55 form of a plain 0x address.
func displayAddress(addr string) string {
	if common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex()
	}
	return addr
}

func init() {
	createCmd.Flags().StringArrayVarP(&createArtifacts, "artifact", "a", nil, "compiler output, build-info, artifact or ABI file (repeatable)")
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "dapp name (default: first contract name)")
	createCmd.Flags().StringVar(&createAddress, "address", "", "deployed contract address")
	createCmd.Flags().StringArrayVarP(&createContracts, "contract", "c", nil, "contract to include (repeatable, default: all)")
	createCmd.Flags().BoolVar(&createNoBrowser, "no-browser", false, "print the builder URL instead of opening a browser")
}
