package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"libra-backend/internal/platform/auth"
	"libra-backend/internal/platform/db"
	"libra-backend/internal/reports"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:           "libadmin",
		Short:         "Operator tasks for the libra backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")

	root.AddCommand(createAdminCmd(), snapshotStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func connect() (*db.Config, *sql.DB, error) {
	cfg, err := db.LoadConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	conn, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func createAdminCmd() *cobra.Command {
	var name, email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Seed an admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			svc := auth.NewService(conn, []byte(cfg.Auth.Secret),
				time.Duration(cfg.Auth.TokenTTLMinutes)*time.Minute, nil)

			u, err := svc.Register(context.Background(), name, email, password, auth.RoleAdmin)
			if err != nil {
				return err
			}
			fmt.Printf("created admin %q (user_id=%d)\n", u.Email, u.UserID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "full name")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func snapshotStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot-stats",
		Short: "Recompute and store today's stats snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			snap, err := reports.NewService(conn).SnapshotToday(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("snapshot %s: books=%d users=%d active=%d overdue=%d\n",
				snap.SnapshotOn, snap.TotalBooks, snap.TotalUsers, snap.ActiveBorrows, snap.OverdueBooks)
			return nil
		},
	}
}
