package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/viewmodel"
)

func staffCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Manage your organization's staff (admins)",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List staff members",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewStaff(a.client, a.store, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			renderStaff(a.out, vm.Search(search), a.store.Identity())
			return nil
		}),
	}
	listCmd.Flags().String("search", "", "Filter by name or email")
	cmd.AddCommand(listCmd)

	removeCmd := &cobra.Command{
		Use:   "remove <user-id>",
		Short: "Remove a staff member",
		Args:  cobra.ExactArgs(1),
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewStaff(a.client, a.store, a.notifier(), a.logger)
			if err := vm.Remove(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Removed %s.\n", args[0])
			return nil
		}),
	}
	cmd.AddCommand(removeCmd)

	return cmd
}

func dashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show today's overview",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()

			vm := viewmodel.NewDashboard(a.client, a.notifier(), a.logger)
			if err := vm.Load(ctx); err != nil {
				return err
			}
			st, _ := vm.Stats()
			renderDashboard(a.out, st)
			return nil
		}),
	}
}
