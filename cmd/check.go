package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cottand/dltype/dltype"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// ErrTypeErrors is returned by commands when the program they were given has type errors
var ErrTypeErrors = errors.New("type errors found")

var (
	errorColour   = color.New(color.FgRed, color.Bold)
	successColour = color.New(color.FgGreen)
	headerColour  = color.New(color.FgCyan)
)

func NewCheckCmd() *cobra.Command {
	var flags *analysisFlags
	c := &cobra.Command{
		Use:          "check ./folder|file.yaml",
		Short:        "Type-check a Datalog program",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(c *cobra.Command, args []string) error {
			return runCheck(c, flags, args[0])
		},
	}
	flags = addAnalysisFlags(c)
	return c
}

func runCheck(c *cobra.Command, flags *analysisFlags, target string) error {
	color.NoColor = color.NoColor || flags.noColor
	config, err := flags.config(c)
	if err != nil {
		return err
	}

	unit, err := loadTarget(target, config)
	if err != nil {
		return fmt.Errorf("could not check program: %w", err)
	}

	if flags.debugReport {
		if err := unit.WriteReport(c.OutOrStdout()); err != nil {
			return fmt.Errorf("could not write report: %w", err)
		}
	}

	if unit.Errors().HasError() {
		writeErrors(c.ErrOrStderr(), unit)
		return fmt.Errorf("%s: %w", unit.Name(), ErrTypeErrors)
	}
	_, _ = successColour.Fprintf(c.OutOrStdout(), "ok: %s (%d clauses, %d iterations)\n",
		unit.Name(), len(unit.Program().Clauses), unit.Analysis().Iterations())
	return nil
}

// writeErrors prints the errors of unit with their source, the first line of each in colour
func writeErrors(w io.Writer, unit *dltype.Unit) {
	formatted := unit.FormattedErrors()
	for _, e := range formatted {
		headline, source, _ := strings.Cut(e, "\n")
		_, _ = errorColour.Fprintln(w, headline)
		if source != "" {
			_, _ = fmt.Fprintln(w, source)
		}
	}
	_, _ = errorColour.Fprintf(w, "%d error(s) in %s\n", len(formatted), unit.Name())
}
