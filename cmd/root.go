package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // IANA zones for --timezone on hosts without a zoneinfo database

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/geotagger/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "geotagger",
	Short: "Geotag photos from a Google Timeline export",
	Long:  "Estimates where you were at any instant from a Google Maps Timeline export and writes the position into your photos' EXIF GPS tags.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("validate config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
