package main

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/roster"
	"github.com/stemsi/student-roster/internal/service"
)

const deletePrompt = "Are you sure you want to delete this record?"

// draftFlags are the form fields shared by add, edit and validate.
type draftFlags struct {
	name  string
	age   string
	marks []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "student name (letters and spaces)")
	cmd.Flags().StringVar(&f.age, "age", "", "age in whole years")
	cmd.Flags().StringSliceVar(&f.marks, "marks", nil, "five comma-separated marks, 0-100")
}

func (f *draftFlags) draft() (model.Draft, error) {
	if len(f.marks) > model.MarkCount {
		return model.Draft{}, fmt.Errorf("expected %d marks, got %d", model.MarkCount, len(f.marks))
	}
	d := model.Draft{Name: f.name, Age: f.age}
	copy(d.Marks[:], f.marks)
	return d, nil
}

// overlay starts from an existing record and applies only the flags the
// user set, the way an edit form opens pre-filled.
func (f *draftFlags) overlay(cmd *cobra.Command, s model.Student) (model.Draft, error) {
	d := model.Draft{Name: s.Name, Age: strconv.Itoa(s.Age)}
	for i, m := range s.Marks {
		d.Marks[i] = strconv.FormatFloat(m, 'f', -1, 64)
	}

	if cmd.Flags().Changed("name") {
		d.Name = f.name
	}
	if cmd.Flags().Changed("age") {
		d.Age = f.age
	}
	if cmd.Flags().Changed("marks") {
		if len(f.marks) != model.MarkCount {
			return model.Draft{}, fmt.Errorf("expected %d marks, got %d", model.MarkCount, len(f.marks))
		}
		copy(d.Marks[:], f.marks)
	}
	return d, nil
}

func newAddCmd(a *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a student record",
		Example: `  rosterctl add --name "Jane Doe" --age 20 --marks 50,60,70,80,90`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := flags.draft()
			if err != nil {
				return err
			}
			return a.withService(cmd, true, func(svc *service.RosterService) error {
				st, err := svc.Create(cmd.Context(), d)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added #%d %s: %s%% %s\n", svc.Len()-1, st.Name, st.Percentage, st.Division)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Edit the student record at a position",
		Long: `Edit the record at <index> (see the # column of list).
Fields not given keep their current value.`,
		Example: `  rosterctl edit 0 --marks 40,40,40,40,40`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd, true, func(svc *service.RosterService) error {
				entries := svc.List(roster.Filter{})
				if index < 0 || index >= len(entries) {
					return describe(&roster.IndexOutOfRangeError{Index: index, Len: len(entries)})
				}
				d, err := flags.overlay(cmd, entries[index].Student)
				if err != nil {
					return err
				}
				st, err := svc.UpdateAt(cmd.Context(), index, d)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d %s: %s%% %s\n", index, st.Name, st.Percentage, st.Division)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <index>",
		Short: "Delete the student record at a position",
		Long: `Delete the record at <index>. Later records move up by one.
Asks for confirmation on a terminal; pass --yes when scripting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return a.withService(cmd, true, func(svc *service.RosterService) error {
				if !yes {
					ok, err := a.confirm(cmd)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
						return nil
					}
				}
				st, err := svc.DeleteAt(cmd.Context(), index)
				if err != nil {
					return describe(err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%d %s\n", index, st.Name)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without asking")
	return cmd
}

// confirm asks the delete question on a terminal. Without a terminal there
// is nobody to ask, so it fails and points at --yes.
func (a *app) confirm(cmd *cobra.Command) (bool, error) {
	if !a.isTerminal() {
		return false, errors.New("stdin is not a terminal; pass --yes to delete")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", deletePrompt)

	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("index must be a whole number, got %q", s)
	}
	return i, nil
}

// describe turns roster errors into the text shown to the user.
func describe(err error) error {
	var ve *roster.ValidationError
	var oor *roster.IndexOutOfRangeError
	switch {
	case errors.As(err, &ve):
		return fmt.Errorf("%s: %s", ve.Field, ve.Message)
	case errors.As(err, &oor):
		if oor.Len == 0 {
			return fmt.Errorf("no record #%d: the roster is empty", oor.Index)
		}
		return fmt.Errorf("no record #%d: valid positions are 0 to %d", oor.Index, oor.Len-1)
	case errors.Is(err, service.ErrDegraded):
		return errors.New("refusing to write over an unreadable roster (use --force to replace it)")
	}
	return err
}
