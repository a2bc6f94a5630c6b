package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewAnnotateCmd() *cobra.Command {
	var flags *analysisFlags
	c := &cobra.Command{
		Use:          "annotate ./folder|file.yaml",
		Short:        "Print the clauses of a Datalog program with the types inferred for their arguments",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runAnnotate(c, flags, args[0])
		},
	}
	flags = addAnalysisFlags(c)
	return c
}

func runAnnotate(c *cobra.Command, flags *analysisFlags, target string) error {
	color.NoColor = color.NoColor || flags.noColor
	config, err := flags.config(c)
	if err != nil {
		return err
	}

	unit, err := loadTarget(target, config)
	if err != nil {
		return fmt.Errorf("could not annotate program: %w", err)
	}

	out := c.OutOrStdout()
	if flags.debugReport {
		err = unit.WriteReport(out)
	} else {
		_, _ = headerColour.Fprintf(out, "-- %s --\n", unit.Name())
		_, err = io.WriteString(out, unit.DisplayTypes())
	}
	if err != nil {
		return fmt.Errorf("could not write annotations: %w", err)
	}

	// the annotations of an ill-typed program are still printed, but errors are reported alongside
	if unit.Errors().HasError() {
		writeErrors(c.ErrOrStderr(), unit)
	}
	return nil
}
