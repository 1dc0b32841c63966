package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/roster"
	"github.com/stemsi/student-roster/internal/service"
)

func newListCmd(a *app) *cobra.Command {
	var name, division string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List student records",
		Long: `List student records in roster order.

--name matches a case-insensitive substring of the name.
--division matches First, Second, Third or Fail exactly.
The # column is the position used by edit and delete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := roster.Filter{Name: name, Division: model.Division(division)}
			if division != "" && !f.Division.Valid() {
				return fmt.Errorf("unknown division %q (want one of %s)", division, divisionNames())
			}

			return a.withService(cmd, false, func(svc *service.RosterService) error {
				entries := svc.List(f)
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No students found.")
					return nil
				}
				return writeTable(cmd.OutOrStdout(), entries)
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "filter by name substring")
	cmd.Flags().StringVar(&division, "division", "", "filter by division")
	return cmd
}

func divisionNames() string {
	names := make([]string, len(model.Divisions))
	for i, d := range model.Divisions {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

func writeTable(out io.Writer, entries []model.StudentEntry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tNAME\tAGE\tM1\tM2\tM3\tM4\tM5\t%\tDIVISION")
	for _, e := range entries {
		s := e.Student
		fmt.Fprintf(tw, "%d\t%s\t%d", e.Index, s.Name, s.Age)
		for _, m := range s.Marks {
			fmt.Fprintf(tw, "\t%s", formatMark(m))
		}
		fmt.Fprintf(tw, "\t%s\t%s\n", s.Percentage, s.Division)
	}
	return tw.Flush()
}

func formatMark(m float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", m), "0"), ".")
}
