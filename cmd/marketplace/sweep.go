package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/service-marketplace/internal/audit"
	dbpkg "github.com/BruksfildServices01/service-marketplace/internal/db"
	"github.com/BruksfildServices01/service-marketplace/internal/infra/cache"
	"github.com/BruksfildServices01/service-marketplace/internal/routes"
	"github.com/BruksfildServices01/service-marketplace/internal/timezone"
	ucBooking "github.com/BruksfildServices01/service-marketplace/internal/usecase/booking"
)

// sweepCmd roda uma única varredura de pendentes vencidas (útil em cron).
func sweepCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Cancel pending bookings older than the TTL once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = dbpkg.Close(db) }()

			if !cmd.Flags().Changed("ttl") {
				ttl = cfg.PendingTTL
			}
			if ttl <= 0 {
				return errors.New("sweep: set PENDING_TTL or --ttl")
			}

			dispatcher := audit.NewDispatcher(audit.New(db), log)
			defer dispatcher.Close()

			bookingDeps, bookingCfg := routes.BookingUseCaseDeps(routes.Dependencies{
				DB:       db,
				Config:   cfg,
				Logger:   log,
				Location: timezone.Location(cfg.Timezone),
				Cache:    cache.Nop{},
				Audit:    dispatcher,
			})

			n, err := ucBooking.NewExpirePendingBookings(bookingDeps, bookingCfg, ttl).Execute(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "expired %d pending booking(s)\n", n)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "age after which a pending booking is cancelled (default PENDING_TTL)")
	return cmd
}
