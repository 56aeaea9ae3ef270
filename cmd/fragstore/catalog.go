// Catalog command for the fragstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-spectra/fragstore/internal/isocat"
)

var (
	flagBoxSizes  []int
	flagKMin      int
	flagKMax      int
	flagMinDegree int
	flagMaxDegree int
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Build the isomorphism catalog",
	Long: `Enumerate complete k-partite template shapes, generate candidate
skeleton graphs with the external generator, match them into the templates
with the external monomorphism matcher, and persist the merged mapping sets
as prefix-tree artifacts keyed by valence signature.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		cfg, err := buildConfig(dataDir)
		if err != nil {
			return err
		}

		runner := isocat.NewRunner(cfg.GengPath, cfg.MatcherPath, "", cfg.ProcessTimeout, logger)
		builder := isocat.NewBuilder(st, runner, logger)
		stats, err := builder.Build(cmd.Context(), isocat.BuildOptions{
			BoxSizes:  flagBoxSizes,
			KMin:      flagKMin,
			KMax:      flagKMax,
			MinDeg:    flagMinDegree,
			MaxDeg:    flagMaxDegree,
			BatchSize: cfg.BatchSize(),
		})
		if err != nil {
			return err
		}

		fmt.Printf("processed %d templates, %d candidate skeletons\n", stats.Templates, stats.Candidates)
		fmt.Printf("folded %d mappings (%d duplicates) into %d signatures; %d tool invocations skipped\n",
			stats.Mappings, stats.Duplicates, stats.Signatures, stats.Skipped)
		return nil
	},
}

func init() {
	catalogCmd.Flags().IntSliceVar(&flagBoxSizes, "box-sizes", []int{1, 2}, "block sizes templates draw from")
	catalogCmd.Flags().IntVar(&flagKMin, "k-min", 2, "minimum partition arity")
	catalogCmd.Flags().IntVar(&flagKMax, "k-max", 3, "maximum partition arity")
	catalogCmd.Flags().IntVar(&flagMinDegree, "min-degree", 1, "minimum skeleton vertex degree")
	catalogCmd.Flags().IntVar(&flagMaxDegree, "max-degree", 2, "maximum skeleton vertex degree")
}
