package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/fmckeffi/healthdesk/backend/internal/analysis/medical"
	"github.com/fmckeffi/healthdesk/backend/internal/service/auth"
	"github.com/fmckeffi/healthdesk/backend/internal/service/session"
	"github.com/fmckeffi/healthdesk/backend/internal/storage/postgres"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "portalctl",
		Short: "Administration tool for the health portal backend",
		Long: `portalctl creates the portal tables, registers admin accounts and
runs the symptom and intent classifiers against sample text.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("database-url", "", "PostgreSQL connection string (or set DATABASE_URL)")

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newCreateAdminCommand())
	root.AddCommand(newAnalyzeCommand())
	return root
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the admins and medical_professionals tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newCreateAdminCommand() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Register an admin account with a generated FMC-AI id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			pool, err := openDatabase(cmd)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}

			svc := auth.NewService(postgres.NewAdminStore(pool), session.NewMemoryStore(), auth.DefaultTTL)
			created, err := svc.CreateAdmin(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s <%s>\n", created.AdminID, created.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&password, "password", "", "admin password (at least 6 characters)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newAnalyzeCommand() *cobra.Command {
	var lexiconPath string

	cmd := &cobra.Command{
		Use:   "analyze [text]",
		Short: "Print the symptom and intent analysis of a message as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lexicon, err := medical.LoadLexicon(lexiconPath)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(lexicon.Analyze(strings.Join(args, " ")))
		},
	}

	cmd.Flags().StringVar(&lexiconPath, "lexicon", os.Getenv("LEXICON_PATH"), "YAML lexicon overriding the built-in tables")
	return cmd
}

func openDatabase(cmd *cobra.Command) (*pgxpool.Pool, error) {
	url, _ := cmd.Flags().GetString("database-url")
	if url == "" {
		url = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}
	if url == "" {
		return nil, errors.New("database url is required: pass --database-url or set DATABASE_URL")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return postgres.Connect(ctx, url)
}
