package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/teambalance/app"
	"github.com/kilianp07/teambalance/config"
	coremon "github.com/kilianp07/teambalance/core/monitoring"
	"github.com/kilianp07/teambalance/infra/logger"
	"github.com/kilianp07/teambalance/infra/monitoring"
)

var (
	cfgPath  string
	logLevel string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:               "teambalance",
	Short:             "Split a roster into balanced teams",
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "minimum log level, overrides the configuration")
}

// ExecuteContext runs the CLI. Commands stop their work when ctx is cancelled.
func ExecuteContext(ctx context.Context) error { return rootCmd.ExecuteContext(ctx) }

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	if err := logger.SetLevel(c.Log.Level); err != nil {
		return err
	}
	mon, err := monitoring.NewSentryMonitor(c.Sentry)
	if err != nil {
		logger.New("main").Errorf("sentry init: %v", err)
	} else {
		coremon.Init(mon)
	}
	cfg = c
	return nil
}

// withService builds a Service for the duration of fn.
func withService(fn func(*app.Service) error) error {
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()
	return fn(svc)
}
