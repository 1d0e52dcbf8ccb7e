package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"crmhub/internal/app"
	"crmhub/internal/authz"
	"crmhub/internal/listing"
	"crmhub/internal/logging"
	"crmhub/internal/models"
	"crmhub/internal/repositories"
	"crmhub/internal/services"
)

var (
	migrateOnStart bool
	asEmail        string
	updateExisting bool
	exportQuery    string
	exportIDs      []string

	newUserName     string
	newUserEmail    string
	newUserPassword string
	newUserRole     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API until SIGINT/SIGTERM",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if migrateOnStart {
			if err := repositories.Migrate(ctx, a.DB); err != nil {
				return err
			}
			logging.Logger.Info().Msg("схема БД применена")
		}
		return a.Serve(ctx)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := repositories.Migrate(ctx, a.DB); err != nil {
			return err
		}
		logging.Logger.Info().Msg("схема БД применена")
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <view> <file>",
	Short: "Import a CSV file into deals, leads or contacts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := parseView(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		actor, err := resolveActor(ctx, a, asEmail)
		if err != nil {
			return err
		}
		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		res, err := a.Services.CSV.Import(ctx, actor, view, f, services.ImportOptions{UpdateExisting: updateExisting})
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "created: %d, updated: %d, failed: %d\n", res.Created, res.Updated, len(res.Errors))
		for _, e := range res.Errors {
			fmt.Fprintf(out, "  row %d: %s\n", e.Row, e.Error)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <view> <file>",
	Short: "Export deals, leads or contacts to a CSV file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := parseView(args[0])
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		actor, err := resolveActor(ctx, a, asEmail)
		if err != nil {
			return err
		}
		var ids []string
		if cmd.Flags().Changed("ids") {
			ids = append([]string{}, exportIDs...)
		}
		file, err := a.Services.CSV.Export(ctx, actor, view, ids, listing.Query{Term: exportQuery})
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[1], file.Data, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d rows to %s\n", file.Rows, args[1])
		return nil
	},
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account",
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := parseRole(newUserRole)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		u, err := a.Services.Auth.CreateUser(ctx, newUserName, newUserEmail, newUserPassword, role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created user %s (%s, role %s)\n", u.ID, u.Email, authz.RoleName(u.RoleID))
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&migrateOnStart, "migrate", false, "apply the schema before serving")

	for _, c := range []*cobra.Command{importCmd, exportCmd} {
		c.Flags().StringVar(&asEmail, "as", "", "email of the user the command acts as")
		_ = c.MarkFlagRequired("as")
	}
	importCmd.Flags().BoolVar(&updateExisting, "update-existing", false, "update records whose ID column matches")
	exportCmd.Flags().StringVarP(&exportQuery, "query", "q", "", "search term")
	exportCmd.Flags().StringSliceVar(&exportIDs, "ids", nil, "export only these record IDs")

	createUserCmd.Flags().StringVar(&newUserName, "name", "", "full name")
	createUserCmd.Flags().StringVar(&newUserEmail, "email", "", "login email")
	createUserCmd.Flags().StringVar(&newUserPassword, "password", "", "initial password")
	createUserCmd.Flags().StringVar(&newUserRole, "role", "sales", "sales, operations, audit, management, admin or a role id")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

func parseView(s string) (models.View, error) {
	v := models.View(strings.ToLower(strings.TrimSpace(s)))
	if !v.Valid() {
		return "", fmt.Errorf("unknown view %q (want deals, leads or contacts)", s)
	}
	return v, nil
}

func parseRole(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if id, err := strconv.Atoi(s); err == nil {
		return id, nil
	}
	if id, ok := authz.RoleByName(s); ok {
		return id, nil
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// resolveActor acts as the named user with a synthetic session.
func resolveActor(ctx context.Context, a *app.App, email string) (services.Actor, error) {
	u, err := a.Services.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return services.Actor{}, fmt.Errorf("user %s: %w", email, err)
	}
	return services.Actor{UserID: u.ID, RoleID: u.RoleID, SessionID: "cli"}, nil
}
