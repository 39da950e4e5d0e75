package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/budgetoffice/staff-portal/internal/stubgateway"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the stub gateway database with sample data",
	Long:  `Seed the stub gateway database with demo accounts and a sample nominal roll.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := openGormDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		if err := stubgateway.Seed(db, cfg.StubGateway.BCryptCost); err != nil {
			log.Fatalf("failed to seed: %v", err)
		}

		fmt.Println("Seeded stub gateway database")
	},
}
