package cmd

import (
	"fmt"

	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/VybCoding/OneWonderLake/internal/questions"
	"github.com/VybCoding/OneWonderLake/internal/seeds"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the bundled FAQs; existing questions are left alone",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := connect(); err != nil {
			return err
		}
		questions.Init()

		if err := seeds.SeedAll(cmd.Context(), questions.NewGormStore(db.DB)); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "seed complete")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
