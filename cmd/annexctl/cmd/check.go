package cmd

import (
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/address"
	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/VybCoding/OneWonderLake/internal/geocoding"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <address>",
	Short: "Run a full address check against the live geocoder without recording it",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		gc, err := config.LoadGeocoder()
		if err != nil {
			return err
		}
		b, err := geo.DefaultBoundaries()
		if err != nil {
			return err
		}
		checker := address.NewChecker(geocoding.NewClient(gc), geo.NewClassifier(b), nil, gc.CheckDelay)

		out, err := checker.Check(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
