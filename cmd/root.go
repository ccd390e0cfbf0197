package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/shiroyk/weburl/config"
	"github.com/spf13/cobra"
)

var (
	configArg string
	debugArg  bool
)

var rootCmd = &cobra.Command{
	Use:   "weburl",
	Short: "weburl parses, resolves and serializes URLs following the WHATWG URL Standard.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.ReadConfig(configArg)
		if err != nil {
			return err
		}
		initLogger(cfg)
		cmd.SetContext(config.NewContext(cmd.Context(), cfg))
		return nil
	},
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configArg, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debugArg, "debug", "d", false, "output the debug log")
}

func initLogger(cfg config.Config) {
	level := cfg.Log.SlogLevel()
	if debugArg {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute main command
func Execute() {
	if err := ExecuteContext(context.Background(), os.Args[1:]...); err != nil {
		os.Exit(1)
	}
}

// ExecuteContext executes the command with the args.
func ExecuteContext(ctx context.Context, args ...string) error {
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
