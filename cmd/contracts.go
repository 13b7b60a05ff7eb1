package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/Mohsinsiddi/dappos/internal/compiler"
	"github.com/Mohsinsiddi/dappos/internal/ui"
	"github.com/spf13/cobra"
)

var (
	contractsArtifacts []string
	contractsJSON      bool
)

var contractsCmd = &cobra.Command{
	Use:   "contracts",
	Short: "List the contracts a compiler output would offer",
	Long: `Flatten one or more compiler outputs the same way the panel does and
list the resulting contracts. When two files define the same contract name,
the file that sorts last wins.

Examples:
  dappos contracts --artifact out.json
  dappos contracts --artifact artifacts/build-info/abc.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(contractsArtifacts) == 0 {
			return errors.New("at least one --artifact is required")
		}
		ev, err := compiler.LoadFiles(contractsArtifacts...)
		if err != nil {
			return err
		}
		if ev.Result == nil {
			fmt.Fprint(os.Stderr, compiler.Diagnostics(ev.Errors))
			return errors.New("no contracts found in the given artifacts")
		}
		m, err := compiler.Flatten(ev.Result)
		if err != nil {
			return err
		}

		if contractsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		}

		if len(m) == 0 {
			fmt.Println(ui.Warn("The compilation has no contracts."))
			return nil
		}

		t := ui.NewTable([]ui.Column{
			{Title: "Contract", Width: 28},
			{Title: "Entries", Width: 8},
			{Title: "Functions", Width: 10},
			{Title: "Events", Width: 8},
		})
		for _, name := range m.Names() {
			k := m[name].Kinds()
			t.AddRow(ui.Row{
				name,
				strconv.Itoa(len(m[name].ABI)),
				strconv.Itoa(k["function"]),
				strconv.Itoa(k["event"]),
			})
		}
		fmt.Println(t.Render())
		if ev.Version != "" {
			fmt.Println(ui.Meta("solc " + ev.Version))
		}
		fmt.Println(ui.Hint("Create a dapp with: dappos create --artifact <file> --address <0x...>"))
		return nil
	},
}

func init() {
	contractsCmd.Flags().StringArrayVarP(&contractsArtifacts, "artifact", "a", nil, "compiler output, build-info, artifact or ABI file (repeatable)")
	contractsCmd.Flags().BoolVar(&contractsJSON, "json", false, "print the contract map as JSON")
}
