package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func loginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the reporting backend",
		Long:  "Exchange email and password for a bearer token and store the session locally",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			if password == "" {
				password = os.Getenv("NDPHC_PASSWORD")
			}
			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			if err := a.session.Login(cmd.Context(), email, password); err != nil {
				return fmt.Errorf("login failed: %s", a.session.LastError())
			}

			user := a.session.User()
			fmt.Printf("Logged in as %s (%s)\n", user.FullName, user.Role)
			if exp, ok := a.session.ExpiresAt(); ok {
				fmt.Printf("Session expires %s\n", exp.Local().Format("2006-01-02 15:04"))
			}
			return nil
		}),
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (or NDPHC_PASSWORD)")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: withApp(false, func(cmd *cobra.Command, a *app, args []string) error {
			a.session.Logout()
			fmt.Println("Logged out")
			return nil
		}),
	}
}

func whoamiCmd() *cobra.Command {
	var fullName, currentPassword, newPassword string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Long:  "Fetch the current user from the backend. --full-name and --new-password update the profile",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()

			if fullName != "" {
				if _, err := a.session.UpdateProfile(ctx, fullName); err != nil {
					return fmt.Errorf("failed to update profile: %w", err)
				}
			}
			if newPassword != "" {
				if err := a.session.UpdatePassword(ctx, currentPassword, newPassword); err != nil {
					return fmt.Errorf("failed to update password: %w", err)
				}
				fmt.Println("Password updated")
			}

			user, err := a.session.FetchUser(ctx)
			if err != nil {
				return fmt.Errorf("failed to fetch user: %w", err)
			}
			return printJSON(os.Stdout, user)
		}),
	}

	cmd.Flags().StringVar(&fullName, "full-name", "", "new display name")
	cmd.Flags().StringVar(&currentPassword, "current-password", "", "current password, required with --new-password")
	cmd.Flags().StringVar(&newPassword, "new-password", "", "new password")
	return cmd
}
