package main

import (
	"fmt"
	"os"
	"strconv"

	"ndphc-monitor/internal/model"
	"ndphc-monitor/internal/store"
	"ndphc-monitor/internal/validate"

	"github.com/spf13/cobra"
)

func plantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plants",
		Short: "Manage power plants",
	}
	cmd.AddCommand(plantsListCmd())
	cmd.AddCommand(plantsCreateCmd())
	cmd.AddCommand(plantsUpdateCmd())
	cmd.AddCommand(plantsDeleteCmd())
	cmd.AddCommand(plantsTurbinesCmd())
	return cmd
}

func (a *app) plants() *store.PowerPlants {
	return store.NewPowerPlants(a.api, a.session.User)
}

func plantsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the plants visible to the current user",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			plants := a.plants()
			if err := plants.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("failed to fetch power plants: %w", err)
			}

			tw := newTable(os.Stdout)
			fmt.Fprintln(tw, "ID\tNAME\tLOCATION\tCAPACITY\tTURBINES")
			for _, p := range plants.Plants() {
				marker := ""
				if p.ID == plants.SelectedPlantID() {
					marker = " *"
				}
				fmt.Fprintf(tw, "%d\t%s%s\t%s\t%s\t%d\n", p.ID, p.Name, marker, p.Location, formatValue(p.TotalCapacity), p.TurbineCount)
			}
			return tw.Flush()
		}),
	}
}

func plantFlags(cmd *cobra.Command, in *model.PowerPlantInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "plant name")
	cmd.Flags().StringVar(&in.Location, "location", "", "plant location")
	cmd.Flags().Float64Var(&in.TotalCapacity, "capacity", 0, "total capacity in MW")
}

func plantsCreateCmd() *cobra.Command {
	var in model.PowerPlantInput
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a power plant",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			if err := validate.PowerPlant(in); err != nil {
				return err
			}
			plant, err := a.plants().Create(cmd.Context(), in)
			if err != nil {
				return fmt.Errorf("failed to create power plant: %w", err)
			}
			return printJSON(os.Stdout, plant)
		}),
	}
	plantFlags(cmd, &in)
	return cmd
}

func plantsUpdateCmd() *cobra.Command {
	var in model.PowerPlantInput
	cmd := &cobra.Command{
		Use:   "update <plant-id>",
		Short: "Update a power plant",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validate.PowerPlant(in); err != nil {
				return err
			}
			plant, err := a.plants().Update(cmd.Context(), id, in)
			if err != nil {
				return fmt.Errorf("failed to update power plant: %w", err)
			}
			return printJSON(os.Stdout, plant)
		}),
	}
	plantFlags(cmd, &in)
	return cmd
}

func plantsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <plant-id>",
		Short: "Delete a power plant",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.plants().Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete power plant: %w", err)
			}
			fmt.Printf("Deleted power plant %d\n", id)
			return nil
		}),
	}
}

func plantsTurbinesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "turbines <plant-id>",
		Short: "List a plant's turbines",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			turbines, err := a.plants().FetchTurbines(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("failed to fetch turbines: %w", err)
			}

			tw := newTable(os.Stdout)
			fmt.Fprintln(tw, "ID\tNAME\tCAPACITY")
			for _, t := range turbines {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, formatValue(t.Capacity))
			}
			return tw.Flush()
		}),
	}
}

func turbinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "turbines",
		Short: "Manage turbines",
	}
	cmd.AddCommand(turbinesAddCmd())
	cmd.AddCommand(turbinesUpdateCmd())
	cmd.AddCommand(turbinesDeleteCmd())
	return cmd
}

func turbineFlags(cmd *cobra.Command, in *model.TurbineInput) {
	cmd.Flags().StringVar(&in.Name, "name", "", "turbine name")
	cmd.Flags().Float64Var(&in.Capacity, "capacity", 0, "capacity in MW")
}

func turbinesAddCmd() *cobra.Command {
	var in model.TurbineInput
	cmd := &cobra.Command{
		Use:   "add <plant-id>",
		Short: "Add a turbine to a plant",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			plantID, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validate.Turbine(in); err != nil {
				return err
			}
			turbine, err := a.plants().CreateTurbine(cmd.Context(), plantID, in)
			if err != nil {
				return fmt.Errorf("failed to add turbine: %w", err)
			}
			return printJSON(os.Stdout, turbine)
		}),
	}
	turbineFlags(cmd, &in)
	return cmd
}

func turbinesUpdateCmd() *cobra.Command {
	var in model.TurbineInput
	cmd := &cobra.Command{
		Use:   "update <turbine-id>",
		Short: "Update a turbine",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := validate.Turbine(in); err != nil {
				return err
			}
			turbine, err := a.plants().UpdateTurbine(cmd.Context(), id, in)
			if err != nil {
				return fmt.Errorf("failed to update turbine: %w", err)
			}
			return printJSON(os.Stdout, turbine)
		}),
	}
	turbineFlags(cmd, &in)
	return cmd
}

func turbinesDeleteCmd() *cobra.Command {
	var plantID int
	cmd := &cobra.Command{
		Use:   "delete <turbine-id>",
		Short: "Delete a turbine",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.plants().DeleteTurbine(cmd.Context(), id, plantID); err != nil {
				return fmt.Errorf("failed to delete turbine: %w", err)
			}
			fmt.Printf("Deleted turbine %d\n", id)
			return nil
		}),
	}
	cmd.Flags().IntVar(&plantID, "plant", 0, "owning plant id")
	return cmd
}

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}
	cmd.AddCommand(usersListCmd())
	cmd.AddCommand(usersCreateCmd())
	cmd.AddCommand(usersDeleteCmd())
	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			users := store.NewUsers(a.api)
			if err := users.Fetch(cmd.Context()); err != nil {
				return fmt.Errorf("failed to fetch users: %w", err)
			}

			tw := newTable(os.Stdout)
			fmt.Fprintln(tw, "ID\tEMAIL\tNAME\tROLE\tPLANT\tACTIVE")
			for _, u := range users.Users() {
				plant := "-"
				if u.PowerPlantName != "" {
					plant = u.PowerPlantName
				} else if u.PowerPlantID != nil {
					plant = strconv.Itoa(*u.PowerPlantID)
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Email, u.FullName, u.Role, plant, u.IsActive)
			}
			return tw.Flush()
		}),
	}
}

func usersCreateCmd() *cobra.Command {
	var (
		email, fullName, password, role string
		plantID                         int
		inactive                        bool
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			var plant *int
			if plantID != 0 {
				plant = &plantID
			}
			form := validate.UserForm{
				Email:        email,
				FullName:     fullName,
				Password:     &password,
				Role:         model.Role(role),
				PowerPlantID: plant,
			}
			if err := validate.User(form); err != nil {
				return err
			}

			user, err := store.NewUsers(a.api).Create(cmd.Context(), model.UserCreate{
				Email:        email,
				FullName:     fullName,
				Password:     password,
				Role:         model.Role(role),
				IsActive:     !inactive,
				PowerPlantID: plant,
			})
			if err != nil {
				return fmt.Errorf("failed to create user: %w", err)
			}
			return printJSON(os.Stdout, user)
		}),
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&fullName, "full-name", "", "display name")
	cmd.Flags().StringVar(&password, "password", "", "initial password, at least 8 characters")
	cmd.Flags().StringVar(&role, "role", string(model.RoleViewer), "viewer, operator, editor or admin")
	cmd.Flags().IntVar(&plantID, "plant", 0, "assigned plant id, required for operators and editors")
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the account disabled")
	return cmd
}

func usersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(true, func(cmd *cobra.Command, a *app, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := store.NewUsers(a.api).Delete(cmd.Context(), id); err != nil {
				return fmt.Errorf("failed to delete user: %w", err)
			}
			fmt.Printf("Deleted user %d\n", id)
			return nil
		}),
	}
}

func parseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
