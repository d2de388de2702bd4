package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anggasct/junction"
	"github.com/anggasct/junction/visualization"
)

func diagramCmd() *cobra.Command {
	var phases bool

	cmd := &cobra.Command{
		Use:   "diagram",
		Short: "Print a Graphviz DOT diagram",
		Long: `Diagram prints the conflict layout of an intersection, or with --phases
the scheduler's phase cycle, in Graphviz DOT format. Pipe the output
through "dot -Tsvg" to render it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if phases {
				fmt.Print(visualization.GeneratePhaseCycle(junction.DefaultTimingConfig()))
				return nil
			}

			i := junction.NewIntersection("diagram", "Intersection")
			dot, err := visualization.NewDOTGenerator(i).Generate()
			if err != nil {
				return err
			}
			fmt.Print(dot)
			return nil
		},
	}

	cmd.Flags().BoolVar(&phases, "phases", false, "render the phase cycle instead of the signal layout")
	return cmd
}
