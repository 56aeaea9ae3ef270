// Network command for the fragstore CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-spectra/fragstore/internal/network"
)

var (
	flagNetMode        string
	flagMinOccurrence  int
	flagRemoveIsolated bool
	flagNetOutput      string
)

var networkCmd = &cobra.Command{
	Use:   "network",
	Short: "Build the substructure co-occurrence network",
	Long: `Build a weighted co-occurrence graph over the library's
substructures and emit it as JSON. Modes: default (substructure pairs),
extended (compound stars redistributed onto substructure pairs),
parent_structure_linkage (compound stars retained).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		g, err := network.Build(st, network.Options{
			Mode:           network.Mode(flagNetMode),
			MinOccurrence:  flagMinOccurrence,
			RemoveIsolated: flagRemoveIsolated,
		}, logger)
		if err != nil {
			return err
		}

		data, err := json.MarshalIndent(g.Export(), "", "  ")
		if err != nil {
			return err
		}
		if flagNetOutput == "" || flagNetOutput == "-" {
			fmt.Println(string(data))
			return nil
		}
		return os.WriteFile(flagNetOutput, data, 0o644)
	},
}

func init() {
	networkCmd.Flags().StringVar(&flagNetMode, "mode", string(network.ModeDefault), "construction mode")
	networkCmd.Flags().IntVar(&flagMinOccurrence, "min-occurrence", 1, "minimum distinct-compound occurrence")
	networkCmd.Flags().BoolVar(&flagRemoveIsolated, "remove-isolated", false, "drop nodes with no edges")
	networkCmd.Flags().StringVar(&flagNetOutput, "output", "-", "output file (- for stdout)")
}
