package main

import (
	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/model"
	"github.com/clinic/clinic/internal/client/viewmodel"
)

func followUpsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "followups",
		Aliases: []string{"follow-ups"},
		Short:   "Track follow-up tasks",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List follow-ups, open first",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewFollowUps(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			renderFollowUps(a.out, vm.Filter(status))
			return nil
		}),
	}
	listCmd.Flags().String("status", model.StatusAll, "all, open or completed")
	cmd.AddCommand(listCmd)

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Create a follow-up",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			var in model.FollowUpInput
			in.PatientID, _ = cmd.Flags().GetString("patient")
			in.Title, _ = cmd.Flags().GetString("title")
			in.Description, _ = cmd.Flags().GetString("description")
			in.DueDate, _ = cmd.Flags().GetString("due")
			in.Priority, _ = cmd.Flags().GetString("priority")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewFollowUps(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			fu, err := vm.Create(ctx, in)
			if err != nil {
				return err
			}
			renderFollowUps(a.out, []model.FollowUp{fu})
			return nil
		}),
	}
	addCmd.Flags().String("patient", "", "Patient id")
	addCmd.Flags().String("title", "", "What needs doing")
	addCmd.Flags().String("description", "", "Details")
	addCmd.Flags().String("due", "", "Due date, YYYY-MM-DD")
	addCmd.Flags().String("priority", "", "low, medium or high (default medium)")
	cmd.AddCommand(addCmd)

	toggleCmd := &cobra.Command{
		Use:   "toggle <follow-up-id>",
		Short: "Flip a follow-up between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewFollowUps(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			if err := vm.Toggle(ctx, args[0]); err != nil {
				return err
			}
			fu, _ := vm.Get(args[0])
			renderFollowUps(a.out, []model.FollowUp{fu})
			return nil
		}),
	}
	cmd.AddCommand(toggleCmd)

	return cmd
}
