package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rhyrak/go-timetable/internal/server"
	"github.com/rhyrak/go-timetable/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the timetable HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		defer func() { _ = log.Sync() }()
		if cmd.Flags().Changed("port") {
			appCfg.Port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var opts []server.Option
		if appCfg.EnableStore {
			db, err := store.NewPostgres(appCfg.Database)
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer db.Close()

			repo := store.NewRunRepository(db)
			if err := repo.Migrate(ctx); err != nil {
				return err
			}
			opts = append(opts, server.WithStore(repo))
			log.Info("run store enabled", zap.String("database", appCfg.Database.Name))
		}
		if appCfg.EnableCache {
			client, err := server.NewRedis(appCfg.Redis)
			if err != nil {
				return fmt.Errorf("connect redis: %w", err)
			}
			defer client.Close()

			opts = append(opts, server.WithCache(server.NewRedisCache(client)))
			log.Info("response cache enabled", zap.Duration("ttl", appCfg.CacheTTL))
		}

		return server.New(appCfg, log, opts...).ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "listen port")
}
