package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yqhp/chain-engine/api/rest"
	"yqhp/chain-engine/internal/chain"
	"yqhp/chain-engine/internal/store"
	"yqhp/chain-engine/pkg/engine"
	"yqhp/chain-engine/pkg/logger"
)

var serveAddress string

// serveCmd is the serve subcommand.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the HTTP server exposing chain management, validation,
execution, history and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveAddress != "" {
			cfg.Server.Address = serveAddress
		}
		logger.SetLevelFromString(cfg.Logging.Level)

		var sinks []chain.HistorySink
		if cfg.Store.HistoryFile != "" {
			fileSink, err := store.NewFileHistorySink(cfg.Store.HistoryFile)
			if err != nil {
				return err
			}
			defer fileSink.Close()
			sinks = append(sinks, fileSink)
		}

		eng := engine.New(cfg, nil, sinks...)

		if loaded, err := eng.LoadDefinitions(); err != nil {
			return err
		} else if loaded > 0 {
			logger.Info("loaded %d chain definition(s) from %s", loaded, cfg.Store.DefinitionsDir)
		}

		server := rest.NewServer(eng, &rest.Config{
			Address:      cfg.Server.Address,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			BodyLimit:    cfg.Server.BodyLimit,
			EnableCORS:   cfg.Server.EnableCORS,
		})

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger.Info("listening on %s", cfg.Server.Address)
		return server.StartWithContext(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddress, "address", "a", "", "listen address (overrides configuration)")
	rootCmd.AddCommand(serveCmd)
}
