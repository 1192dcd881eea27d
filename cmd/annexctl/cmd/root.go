package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/VybCoding/OneWonderLake/internal/config"
	"github.com/VybCoding/OneWonderLake/internal/db"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "annexctl",
	Short: "One Wonder Lake operations tool",
	Long:  `annexctl inspects address handling and manages the campaign database.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.InitLogger(config.LogConfig{Level: logLevel, Format: "console"})
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
}

// Execute runs the root command.
func Execute() error {
	defer zap.L().Sync() //nolint:errcheck
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	return nil
}

// connect loads the full configuration and opens the database.
func connect() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := db.Connect(cfg.Database); err != nil {
		return nil, err
	}
	if err := db.EnsureUUIDExtension(db.DB); err != nil {
		return nil, err
	}
	return cfg, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
