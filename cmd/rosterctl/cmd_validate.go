package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stemsi/student-roster/internal/service"
)

func newValidateCmd(a *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a record without saving it",
		Long: `Run the same checks as add and print the derived result.
Exits non-zero with the first problem found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := flags.draft()
			if err != nil {
				return err
			}
			return a.withService(cmd, false, func(svc *service.RosterService) error {
				st, err := svc.Validate(d)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "OK: %s%% %s\n", st.Percentage, st.Division)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}
