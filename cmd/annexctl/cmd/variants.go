package cmd

import (
	"fmt"
	"strings"

	"github.com/VybCoding/OneWonderLake/internal/address"
	"github.com/spf13/cobra"
)

var variantsCmd = &cobra.Command{
	Use:   "variants <address>",
	Short: "Print the geocoder queries an address expands to, in try order",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vs := address.Variants(strings.Join(args, " "))
		if len(vs) == 0 {
			return address.ErrEmptyAddress
		}
		for i, v := range vs {
			fmt.Fprintf(cmd.OutOrStdout(), "%2d  %s\n", i+1, v)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(variantsCmd)
}
