// junctiond runs the intersection controller: it declares intersections
// from a YAML configuration, drives the phase scheduler, and offers a
// colored terminal demo and Graphviz diagrams.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "junctiond",
		Short: "Traffic intersection signal controller",
		Long: `junctiond manages road intersections with four directional signals and
cycles them through a safe, conflict-free sequence. Intersections are
declared in a YAML configuration file and advanced by a periodic phase
scheduler.`,
	}

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(demoCmd())
	rootCmd.AddCommand(diagramCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
