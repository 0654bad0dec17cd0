package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/model"
	"github.com/clinic/clinic/internal/client/viewmodel"
)

func patientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "patients",
		Aliases: []string{"patient"},
		Short:   "Browse and add patients",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List patients",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewPatients(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			renderPatients(a.out, vm.Search(search))
			return nil
		}),
	}
	listCmd.Flags().String("search", "", "Filter by name or email")
	cmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a patient",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			var in model.PatientInput
			in.Name, _ = cmd.Flags().GetString("name")
			in.Email, _ = cmd.Flags().GetString("email")
			in.Phone, _ = cmd.Flags().GetString("phone")
			in.DateOfBirth, _ = cmd.Flags().GetString("dob")
			in.Address, _ = cmd.Flags().GetString("address")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewPatients(a.client, a.notifier(), a.logger)
			p, err := vm.Create(ctx, in)
			if err != nil {
				return err
			}
			renderPatients(a.out, []model.Patient{p})
			return nil
		}),
	}
	addCmd.Flags().String("name", "", "Full name")
	addCmd.Flags().String("email", "", "Email address")
	addCmd.Flags().String("phone", "", "Phone number")
	addCmd.Flags().String("dob", "", "Date of birth, YYYY-MM-DD")
	addCmd.Flags().String("address", "", "Postal address")
	cmd.AddCommand(addCmd)

	showCmd := &cobra.Command{
		Use:   "show <patient-id>",
		Short: "Show a patient with appointments, follow-ups and notes",
		Args:  cobra.ExactArgs(1),
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			detail, err := a.loadDetail(ctx, args[0])
			if err != nil {
				return err
			}
			p, _ := detail.Patient()
			fmt.Fprintf(a.out, "%s <%s>\n", p.Name, p.Email)
			fmt.Fprintf(a.out, "Phone: %s   Date of birth: %s\nAddress: %s\n\n", orDash(p.Phone), orDash(p.DateOfBirth), orDash(p.Address))
			fmt.Fprintln(a.out, "Appointments")
			renderAppointments(a.out, detail.Appointments())
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "Follow-ups")
			renderFollowUps(a.out, detail.FollowUps())
			fmt.Fprintln(a.out)
			fmt.Fprintln(a.out, "Notes")
			renderNotes(a.out, detail.Notes())
			return nil
		}),
	}
	cmd.AddCommand(showCmd)

	noteCmd := &cobra.Command{
		Use:   "note <patient-id> <text>...",
		Short: "Add a note to a patient",
		Args:  cobra.MinimumNArgs(2),
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			detail, err := a.loadDetail(ctx, args[0])
			if err != nil {
				return err
			}
			if _, err := detail.AddNote(ctx, strings.Join(args[1:], " ")); err != nil {
				return err
			}
			renderNotes(a.out, detail.Notes())
			return nil
		}),
	}
	cmd.AddCommand(noteCmd)

	return cmd
}
