package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/anggasct/junction"
)

func demoCmd() *cobra.Command {
	var duration time.Duration
	var green, yellow time.Duration

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Cycle a single intersection with colored output",
		Long: `Demo creates one intersection with short dwell times, starts it, and
prints the signal assignment as it cycles.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			timing := junction.TimingConfig{
				Green:  green,
				Yellow: yellow,
				Red:    green + yellow,
			}

			controller := junction.New()
			if _, err := controller.Create("demo", "Demo Crossing", &timing); err != nil {
				return err
			}
			if err := controller.Start("demo"); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), duration)
			defer cancel()
			go controller.Scheduler().Run(ctx, 100*time.Millisecond)

			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					status, err := controller.Status("demo")
					if err != nil {
						return err
					}
					fmt.Printf("\ndemo finished after %s, %d signal changes recorded\n",
						duration, mustHistoryLen(controller, "demo"))
					printStatus(status)
					return nil
				case <-ticker.C:
					status, err := controller.Status("demo")
					if err != nil {
						return err
					}
					printStatus(status)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&duration, "duration", 30*time.Second, "how long to run the demo")
	cmd.Flags().DurationVar(&green, "green", 3*time.Second, "green dwell")
	cmd.Flags().DurationVar(&yellow, "yellow", 1*time.Second, "yellow dwell")
	return cmd
}

func mustHistoryLen(controller *junction.Controller, id string) int {
	events, err := controller.History(id)
	if err != nil {
		return 0
	}
	return len(events)
}

// printStatus renders one line per direction plus the phase summary
func printStatus(status junction.Status) {
	phase := "-"
	if status.PhaseTracked {
		phase = fmt.Sprintf("%s (%s left)", status.Phase, status.TimeRemaining.Round(100*time.Millisecond))
	}
	fmt.Printf("%s  N:%s S:%s E:%s W:%s  phase=%s\n",
		status.ID,
		renderIndication(status.Signals[junction.North]),
		renderIndication(status.Signals[junction.South]),
		renderIndication(status.Signals[junction.East]),
		renderIndication(status.Signals[junction.West]),
		phase)
}

func renderIndication(i junction.Indication) string {
	switch i {
	case junction.Green:
		return color.New(color.FgGreen).Sprint(i)
	case junction.Yellow:
		return color.New(color.FgYellow).Sprint(i)
	default:
		return color.New(color.FgRed).Sprint(i)
	}
}
