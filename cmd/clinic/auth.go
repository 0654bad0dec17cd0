package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clinic/clinic/internal/client/model"
)

// password returns the --password flag, or reads one line from stdin.
func password(cmd *cobra.Command) (string, error) {
	pw, _ := cmd.Flags().GetString("password")
	if pw != "" {
		return pw, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func loginCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to your organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			pw, err := password(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			id, err := a.store.Login(ctx, email, pw)
			if err != nil {
				return err
			}
			printIdentity(a, id)
			return nil
		},
	}
	cmd.Flags().String("email", "", "Account email")
	cmd.Flags().String("password", "", "Account password (prompted when empty)")
	return cmd
}

func registerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an organization or join one",
	}

	companyCmd := &cobra.Command{
		Use:   "company",
		Short: "Register a new organization with you as its admin",
		RunE: func(cmd *cobra.Command, args []string) error {
			org, _ := cmd.Flags().GetString("org-name")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			pw, err := password(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			id, err := a.store.RegisterOrganization(ctx, org, name, email, pw)
			if err != nil {
				return err
			}
			printIdentity(a, id)
			if id.OrganizationCode != "" {
				fmt.Fprintf(a.out, "Share code %s with your staff so they can join.\n", id.OrganizationCode)
			}
			return nil
		},
	}
	companyCmd.Flags().String("org-name", "", "Organization name")
	companyCmd.Flags().String("name", "", "Your name")
	companyCmd.Flags().String("email", "", "Your email")
	companyCmd.Flags().String("password", "", "Password (prompted when empty)")
	cmd.AddCommand(companyCmd)

	staffCmd := &cobra.Command{
		Use:   "staff",
		Short: "Join an organization with its invite code",
		RunE: func(cmd *cobra.Command, args []string) error {
			code, _ := cmd.Flags().GetString("code")
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			pw, err := password(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()

			id, err := a.store.RegisterStaffMember(ctx, code, name, email, pw)
			if err != nil {
				return err
			}
			printIdentity(a, id)
			return nil
		},
	}
	staffCmd.Flags().String("code", "", "Organization invite code, e.g. CLINIC001")
	staffCmd.Flags().String("name", "", "Your name")
	staffCmd.Flags().String("email", "", "Your email")
	staffCmd.Flags().String("password", "", "Password (prompted when empty)")
	cmd.AddCommand(staffCmd)

	return cmd
}

func logoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			a.store.Logout(ctx)
			fmt.Fprintln(a.out, "Signed out.")
			return nil
		},
	}
}

func whoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: a.authed(func(cmd *cobra.Command, args []string) error {
			printIdentity(a, a.store.Identity())
			return nil
		}),
	}
}

func printIdentity(a *app, id *model.Identity) {
	fmt.Fprintf(a.out, "Signed in as %s <%s> (%s) at %s\n", id.DisplayName, id.Email, id.Role, id.OrganizationName)
}
