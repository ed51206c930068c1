package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/talent-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "talent-cli",
	Short: "ATS export canonicalization pipeline",
	Long:  "Ingests applicant-tracking-system CSV/XLSX exports into a traceable, confidence-graded canonical dataset and computes capability-gated hiring metrics over it.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
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
