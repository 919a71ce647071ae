package main

import (
	"github.com/spf13/cobra"

	dbpkg "github.com/BruksfildServices01/service-marketplace/internal/db"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{dbpkg.MigrateUp, dbpkg.MigrateDown, dbpkg.MigrateStatus},
		RunE: func(cmd *cobra.Command, args []string) error {
			command := dbpkg.MigrateUp
			if len(args) == 1 {
				command = args[0]
			}

			_, log, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			defer func() { _ = dbpkg.Close(db) }()

			return dbpkg.Migrate(cmd.Context(), db, log, command)
		},
	}
}
