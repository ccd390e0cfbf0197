package cmd

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shiroyk/weburl/config"
	"github.com/shiroyk/weburl/server"
	"github.com/shiroyk/weburl/store"
	"github.com/spf13/cobra"
)

var serveAddressArg string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg := config.FromContext(cmd.Context())
		opt := cfg.Server
		opt.Logger = slog.Default()
		if serveAddressArg != "" {
			opt.Address = serveAddressArg
		}

		if cfg.Store.Path != "" {
			path, err := config.ExpandPath(cfg.Store.Path)
			if err != nil {
				return err
			}
			storeOpt := cfg.Store
			storeOpt.Path = path
			s, err := store.New(storeOpt)
			if err != nil {
				return err
			}
			defer s.Close()
			opt.Store = s
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e := server.Server(opt)
		go func() {
			<-ctx.Done()
			shutdown, cancel := context.WithTimeout(context.Background(), opt.Timeout)
			defer cancel()
			if err := e.Shutdown(shutdown); err != nil {
				slog.Error("shutdown server", "error", err)
			}
		}()

		slog.Info("server started", "address", opt.Address)
		if err := e.Start(opt.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddressArg, "address", "a", "", "listen address, overrides the config")
	rootCmd.AddCommand(serveCmd)
}
