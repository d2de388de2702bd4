package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/anggasct/junction"
	"github.com/anggasct/junction/config"
)

func runCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the controller until interrupted",
		Long: `Run loads the configuration, creates the declared intersections, starts
those marked autostart, and drives the phase scheduler until SIGINT or
SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configPath != "" {
				loaded, err := config.Load(configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}

			level := junction.LogInfo
			if verbose {
				level = junction.LogDebug
			}
			controller := junction.New()
			controller.AddObserver(junction.NewLoggingObserver(level, "junctiond"))

			if err := declareIntersections(controller, cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Printf("junctiond running with %d intersection(s), tick interval %s\n",
				controller.Registry().Len(), cfg.TickInterval.Std())
			controller.Scheduler().Run(ctx, cfg.TickInterval.Std())
			fmt.Println("junctiond stopped")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log phase transitions")
	return cmd
}

// declareIntersections creates and optionally starts the configured
// intersections. The config defaults apply where an intersection declares
// no timing of its own.
func declareIntersections(controller *junction.Controller, cfg *config.Config) error {
	for _, ic := range cfg.Intersections {
		timing := cfg.Defaults.ToTimingConfig()
		if ic.Timing != nil {
			timing = ic.Timing.ToTimingConfig()
		}
		name := ic.Name
		if name == "" {
			name = ic.ID
		}
		if _, err := controller.Create(ic.ID, name, &timing); err != nil {
			return fmt.Errorf("creating intersection %s: %w", ic.ID, err)
		}
		if ic.Autostart {
			if err := controller.Start(ic.ID); err != nil {
				return fmt.Errorf("starting intersection %s: %w", ic.ID, err)
			}
		}
	}
	return nil
}
