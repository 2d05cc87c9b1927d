package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-reservation/controllers"
	"github.com/yeremiapane/restaurant-reservation/models"
)

func newUserCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage operator accounts",
	}
	cmd.AddCommand(newUserAddCmd(load))
	return cmd
}

func newUserAddCmd(load configLoader) *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an operator account (use this to bootstrap the first admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := openDB(cfg, true)
			if err != nil {
				return err
			}
			defer closeDB(db)

			user, err := controllers.CreateUser(db.WithContext(cmd.Context()), name, email, password, role)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user id=%d email=%s role=%s\n", user.ID, user.Email, user.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "login password")
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "admin or staff")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
