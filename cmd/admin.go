/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/folioworks/portfolio/internal/services"
	"github.com/folioworks/portfolio/internal/store"
	"github.com/spf13/cobra"
)

// makeAdminCmd represents the make-admin command
var makeAdminCmd = &cobra.Command{
	Use:   "make-admin <username_or_email>",
	Short: "Grant admin rights to a user",
	Long: `Grants admin rights to the user with the given username or email.

	portfolio make-admin john
	portfolio make-admin john@example.com
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		ctx := cmd.Context()

		database, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		users := services.NewUserService(store.NewUserRepository(database), database)
		out := cmd.OutOrStdout()

		user, already, err := users.Promote(ctx, args[0])
		if errors.Is(err, store.ErrNotFound) {
			fmt.Fprintf(out, "User not found: %s\n\nAvailable users:\n", args[0])
			all, err := users.List(ctx)
			if err != nil {
				return err
			}
			for _, u := range all {
				badge := ""
				if u.IsAdmin {
					badge = " [ADMIN]"
				}
				fmt.Fprintf(out, "  - %s (%s)%s\n", u.Username, u.Email, badge)
			}
			return fmt.Errorf("user %q not found", args[0])
		}
		if err != nil {
			return err
		}

		if already {
			fmt.Fprintf(out, "%s is already an admin\n", user.Username)
			return nil
		}
		fmt.Fprintf(out, "%s is now an admin\n", user.Username)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(makeAdminCmd)
}
