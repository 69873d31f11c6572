package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/catalog/app/repositories"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/database/seeders"
	"github.com/shashiranjanraj/catalog/internal/server"
	"github.com/shashiranjanraj/catalog/pkg/migration"
	"github.com/shashiranjanraj/catalog/pkg/rbac"
)

// catalog migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer in.Close()

		n, err := migration.New(in.DB, cmd.OutOrStdout()).Run()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to migrate.")
		}
		return nil
	},
}

// catalog migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer in.Close()

		n, err := migration.New(in.DB, cmd.OutOrStdout()).Rollback()
		if err != nil {
			return err
		}
		if n == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to rollback.")
		}
		return nil
	},
}

// catalog migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer in.Close()

		rows, err := migration.New(in.DB, cmd.OutOrStdout()).Status()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range rows {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// catalog seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer in.Close()

		env := seeders.Env{DB: in.DB, Disk: in.Disk}
		return seeders.RunAll(cmd.Context(), env, cmd.OutOrStdout())
	},
}

var userFlags struct {
	name     string
	email    string
	password string
	admin    bool
}

// catalog user:create --email a@b.c --password secret [--admin]
var userCreateCmd = &cobra.Command{
	Use:   "user:create",
	Short: "Create a user who can sign in",
	RunE: func(cmd *cobra.Command, args []string) error {
		if userFlags.email == "" || userFlags.password == "" {
			return fmt.Errorf("--email and --password are required")
		}
		in, err := server.Boot(cmd.Context())
		if err != nil {
			return err
		}
		defer in.Close()

		role := rbac.RoleUser
		if userFlags.admin {
			role = rbac.RoleAdmin
		}
		name := userFlags.name
		if name == "" {
			name = userFlags.email
		}

		svc := services.NewAuthService(repositories.NewUserRepository(in.DB), nil)
		u, err := svc.Register(cmd.Context(), name, userFlags.email, userFlags.password, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s user #%d <%s>\n", u.Role, u.ID, u.Email)
		return nil
	},
}

func init() {
	f := userCreateCmd.Flags()
	f.StringVar(&userFlags.name, "name", "", "display name (defaults to the email)")
	f.StringVar(&userFlags.email, "email", "", "login email")
	f.StringVar(&userFlags.password, "password", "", "plain text password")
	f.BoolVar(&userFlags.admin, "admin", false, "grant the admin role")
}
