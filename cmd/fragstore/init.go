// Init command for the fragstore CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the substructure library",
	Long:  "Create (or reset) the library schema and its composite indexes under the data directory.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.CreateSchema(); err != nil {
			return err
		}
		if err := st.CreateIndexes(); err != nil {
			return err
		}

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		fmt.Println("Fragstore initialized successfully")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
