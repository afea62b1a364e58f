package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/waterworks-ph/waterworks/internal/auth"
	"github.com/waterworks-ph/waterworks/internal/config"
	"github.com/waterworks-ph/waterworks/internal/models"
	"github.com/waterworks-ph/waterworks/internal/storage/sqlite"
)

func init() {
	rootCmd.AddCommand(staffCmd)
	staffCmd.AddCommand(staffAddCmd)
	staffCmd.AddCommand(staffListCmd)

	staffAddCmd.Flags().StringP("email", "e", "", "login email (required)")
	staffAddCmd.Flags().StringP("name", "n", "", "display name")
	staffAddCmd.Flags().StringP("password", "p", "", "password (required, min 8 chars)")
	staffAddCmd.Flags().StringP("role", "r", models.RoleTeller, "role: teller or meter")
	staffAddCmd.MarkFlagRequired("email")
	staffAddCmd.MarkFlagRequired("password")
}

var staffCmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage console operator accounts",
}

var staffAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an operator account",
	RunE:  runStaffAdd,
}

var staffListCmd = &cobra.Command{
	Use:   "list",
	Short: "List operator accounts",
	RunE:  runStaffList,
}

func openStore() (*sqlite.SQLiteStore, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, cfg, nil
}

func runStaffAdd(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	role, _ := cmd.Flags().GetString("role")

	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	authenticator := auth.NewPasswordAuthenticator(store)
	staff, err := authenticator.Register(context.Background(), email, name, password, role)
	if err != nil {
		return err
	}

	fmt.Printf("Created %s account %s (%s)\n", staff.Role, staff.Email, staff.ID)
	return nil
}

func runStaffList(cmd *cobra.Command, args []string) error {
	store, _, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	staff, err := store.ListStaff(context.Background())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tCREATED")
	for _, s := range staff {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			s.Email, s.DisplayName, s.Role,
			time.Unix(s.CreatedAt, 0).Format("2006-01-02"),
		)
	}
	return w.Flush()
}
