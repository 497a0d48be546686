package commands

import (
	"fmt"
	"time"

	"github.com/DesignIQ-Labs/designiq-backend/config"
	"github.com/DesignIQ-Labs/designiq-backend/internal/bootstrap"
	tools "github.com/DesignIQ-Labs/designiq-backend/internal/generation/catalog"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/repository"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/service"
	"github.com/DesignIQ-Labs/designiq-backend/internal/generation/vendor"
	"github.com/DesignIQ-Labs/designiq-backend/internal/storage/postgres"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := postgres.NewConnection(cmd.Context(), &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			applied, err := postgres.Migrate(cmd.Context(), db)
			for _, name := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Time out generation jobs that are past their deadline",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			rdb, err := bootstrap.OpenRedis(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer rdb.Close()

			svc := service.NewGenerationService(repository.NewJobRepository(rdb), tools.Default(),
				vendor.New(vendor.Config{BaseURL: cfg.Vendor.BaseURL, APIKey: cfg.Vendor.APIKey}), nil, nil)

			start := time.Now()
			n, err := svc.SweepStale(cmd.Context(), start)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "timed out %s jobs in %s\n", humanize.Comma(int64(n)), time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}
