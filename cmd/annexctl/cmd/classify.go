package cmd

import (
	"github.com/VybCoding/OneWonderLake/internal/geo"
	"github.com/spf13/cobra"
)

var (
	classifyLat float64
	classifyLon float64
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a coordinate against the bundled boundaries",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := geo.DefaultBoundaries()
		if err != nil {
			return err
		}
		c := geo.NewClassifier(b).Classify(geo.Point{Lat: classifyLat, Lon: classifyLon})
		return printJSON(cmd.OutOrStdout(), c)
	},
}

func init() {
	classifyCmd.Flags().Float64Var(&classifyLat, "lat", 0, "latitude (WGS84)")
	classifyCmd.Flags().Float64Var(&classifyLon, "lon", 0, "longitude (WGS84)")
	_ = classifyCmd.MarkFlagRequired("lat")
	_ = classifyCmd.MarkFlagRequired("lon")
	rootCmd.AddCommand(classifyCmd)
}
