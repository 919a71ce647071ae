package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/service-marketplace/internal/config"
	dbpkg "github.com/BruksfildServices01/service-marketplace/internal/db"
	"github.com/BruksfildServices01/service-marketplace/internal/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

const appName = "marketplace"

func main() {
	if err := rootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Local services marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		serveCmd(),
		migrateCmd(),
		sweepCmd(),
		createAdminCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

// bootstrap carrega config, logger e banco; comum a todos os comandos.
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, nil, nil, err
	}
	zap.ReplaceGlobals(log)

	db, err := dbpkg.NewDB(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, nil, nil, err
	}

	return cfg, log, db, nil
}
