package main

import (
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/model"
	"github.com/clinic/clinic/internal/client/viewmodel"
)

func appointmentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "appointments",
		Aliases: []string{"appts"},
		Short:   "Book and manage appointments",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments by date and time",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			byDate, _ := cmd.Flags().GetBool("by-date")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewAppointments(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			if byDate {
				renderAppointmentGroups(a.out, vm.GroupByDate(status))
				return nil
			}
			renderAppointments(a.out, vm.Filter(status))
			return nil
		}),
	}
	listCmd.Flags().String("status", model.StatusAll, "all, scheduled, completed or cancelled")
	listCmd.Flags().Bool("by-date", false, "Group by day")
	cmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Book an appointment",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			var in model.AppointmentInput
			in.PatientID, _ = cmd.Flags().GetString("patient")
			in.Date, _ = cmd.Flags().GetString("date")
			in.Time, _ = cmd.Flags().GetString("time")
			in.Reason, _ = cmd.Flags().GetString("reason")
			in.Type, _ = cmd.Flags().GetString("type")
			in.Notes, _ = cmd.Flags().GetString("notes")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewAppointments(a.client, a.notifier(), a.logger)
			// Loading first gives the booking its patient-name fallback.
			if err := vm.Load(ctx); err != nil {
				return err
			}
			appt, err := vm.Create(ctx, in)
			if err != nil {
				return err
			}
			renderAppointments(a.out, []model.Appointment{appt})
			return nil
		}),
	}
	addCmd.Flags().String("patient", "", "Patient id")
	addCmd.Flags().String("date", "", "Date, YYYY-MM-DD")
	addCmd.Flags().String("time", "", "Time, HH:MM")
	addCmd.Flags().String("reason", "", "Reason for the visit")
	addCmd.Flags().String("type", "", "Appointment type (default consultation)")
	addCmd.Flags().String("notes", "", "Free-form notes")
	cmd.AddCommand(addCmd)

	cmd.AddCommand(appointmentStatusCmd(a, "complete", "Mark an appointment completed", model.AppointmentCompleted))
	cmd.AddCommand(appointmentStatusCmd(a, "cancel", "Cancel an appointment", model.AppointmentCancelled))
	return cmd
}

func appointmentStatusCmd(a *app, use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <appointment-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewAppointments(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			if err := vm.UpdateStatus(ctx, args[0], status); err != nil {
				return err
			}
			appt, _ := vm.Get(args[0])
			renderAppointments(a.out, []model.Appointment{appt})
			return nil
		}),
	}
}
