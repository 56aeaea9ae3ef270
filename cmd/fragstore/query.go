// Mass-index query commands for the fragstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-spectra/fragstore/pkg/types"
)

var (
	flagTier       string
	flagHeavyAtoms []int
	flagMaxValence int
	flagMassFilter []float64

	flagTargetMass float64
	flagPPM        float64
)

var massesCmd = &cobra.Command{
	Use:   "masses",
	Short: "List substructure mass values at a precision tier",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := types.ParseTier(flagTier)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		masses, err := st.SelectMassValues(tier, flagHeavyAtoms, flagMaxValence, flagMassFilter)
		if err != nil {
			return err
		}
		for _, m := range masses {
			fmt.Printf("%.*f\n", tier.Decimals(), m)
		}
		return nil
	},
}

var compositionsCmd = &cobra.Command{
	Use:   "compositions",
	Short: "List element compositions matching a target mass",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tier, err := types.ParseTier(flagTier)
		if err != nil {
			return err
		}
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		var ppm *float64
		if cmd.Flags().Changed("ppm") {
			ppm = &flagPPM
		}
		comps, err := st.SelectElementCompositions(flagTargetMass, flagHeavyAtoms, tier, ppm)
		if err != nil {
			return err
		}
		for _, c := range comps {
			fmt.Printf("C%d H%d N%d O%d P%d S%d\n", c.C, c.H, c.N, c.O, c.P, c.S)
		}
		return nil
	},
}

func init() {
	massesCmd.Flags().StringVar(&flagTier, "tier", "0_0001", "precision tier (1, 0_1, 0_01, 0_001, 0_0001)")
	massesCmd.Flags().IntSliceVar(&flagHeavyAtoms, "heavy-atoms", nil, "heavy-atom counts to include")
	massesCmd.Flags().IntVar(&flagMaxValence, "max-valence", 4, "maximum substructure valence")
	massesCmd.Flags().Float64SliceVar(&flagMassFilter, "mass-filter", nil, "restrict to these whole-tier masses")
	_ = massesCmd.MarkFlagRequired("heavy-atoms")

	compositionsCmd.Flags().StringVar(&flagTier, "tier", "0_0001", "precision tier (1, 0_1, 0_01, 0_001, 0_0001)")
	compositionsCmd.Flags().IntSliceVar(&flagHeavyAtoms, "heavy-atoms", nil, "heavy-atom counts to include")
	compositionsCmd.Flags().Float64Var(&flagTargetMass, "mass", 0, "target exact mass")
	compositionsCmd.Flags().Float64Var(&flagPPM, "ppm", 0, "symmetric ppm tolerance window")
	_ = compositionsCmd.MarkFlagRequired("heavy-atoms")
	_ = compositionsCmd.MarkFlagRequired("mass")
}
