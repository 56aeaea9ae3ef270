// Populate command for the fragstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-spectra/fragstore/internal/populate"
	"github.com/mesh-spectra/fragstore/internal/toolkit"
)

var (
	flagRecords     string
	flagMinBonds    int
	flagMaxBonds    int
	flagPopBatch    int
	flagSkipIndexes bool
)

var populateCmd = &cobra.Command{
	Use:   "populate",
	Short: "Populate the library from a compound records file",
	Long: `Read pre-parsed compound records (JSONL) and fill the substructure
library: every connected bond subset of every accepted parent is extracted,
canonicalized, and inserted with its compound link. Indexes are rebuilt at
the end unless --skip-indexes is given.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		pipeline := populate.NewPipeline(st, toolkit.New(), logger, populate.Options{
			MinBonds:  flagMinBonds,
			MaxBonds:  flagMaxBonds,
			BatchSize: flagPopBatch,
		})
		stats, err := pipeline.Run(flagRecords)
		if err != nil {
			return err
		}

		if !flagSkipIndexes {
			if err := st.CreateIndexes(); err != nil {
				return err
			}
		}

		fmt.Printf("read %d records (%d rejected)\n", stats.Read, stats.Rejected)
		fmt.Printf("inserted %d compounds, %d substructure links (%d fragments discarded)\n",
			stats.Compounds, stats.Substructures, stats.Discarded)
		return nil
	},
}

func init() {
	populateCmd.Flags().StringVar(&flagRecords, "records", "", "compound records file (JSONL)")
	populateCmd.Flags().IntVar(&flagMinBonds, "min-bonds", 1, "minimum bond-subset size")
	populateCmd.Flags().IntVar(&flagMaxBonds, "max-bonds", 4, "maximum bond-subset size")
	populateCmd.Flags().IntVar(&flagPopBatch, "batch-size", 100, "records per commit")
	populateCmd.Flags().BoolVar(&flagSkipIndexes, "skip-indexes", false, "do not rebuild indexes after population")
	_ = populateCmd.MarkFlagRequired("records")
}
