// Command gridformula reads a pipe-delimited tabular text file, evaluates
// every formula cell against the table it belongs to, and prints the
// resulting grid with columns left-aligned to their widest value.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"gridformula/internal/engine"
	"gridformula/internal/render"
)

var log = logrus.New()

func main() {
	log.SetOutput(os.Stderr)
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gridformula: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:           "gridformula <path>",
		Short:         "Evaluate a pipe-delimited formula grid and print the result",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			return run(args[0])
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log load/evaluate diagnostics to stderr")
	return cmd
}

func run(path string) error {
	start := time.Now()
	table, err := engine.LoadFile(path)
	if err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}
	log.WithFields(logrus.Fields{
		"path": path,
		"rows": table.NumRows,
		"cols": table.NumColumns,
	}).Debug("loaded table")

	grid, err := table.Render()
	if err != nil {
		return errors.Wrap(err, "evaluating table")
	}
	log.WithField("duration", time.Since(start)).Info("evaluation complete")

	fmt.Print(render.Grid(grid))
	return nil
}
