package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/adamscao/userapi/internal/auth"
	"github.com/adamscao/userapi/internal/config"
	"github.com/adamscao/userapi/internal/db"
	"github.com/adamscao/userapi/internal/db/repository"
	"github.com/adamscao/userapi/internal/models"
	"github.com/adamscao/userapi/pkg/ident"
)

const timeLayout = "2006-01-02 15:04:05"

// app holds state shared by the admin commands
type app struct {
	configPath string
	database   *db.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "admin",
		Short:         "User API administration tool",
		Long:          "Administrative tool for managing User API keys and reading audit logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.openDB(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.closeDB()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path")

	rootCmd.AddCommand(a.newAPIKeyCmd(), a.newAuditCmd())
	return rootCmd
}

func (a *app) openDB(ctx context.Context) error {
	// Load configuration
	cfg, err := config.LoadWithEnv(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Connect to database
	a.database, err = db.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx, a.database); err != nil {
		_ = a.database.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

func (a *app) closeDB() error {
	if a.database == nil {
		return nil
	}
	return a.database.Close()
}

func (a *app) manager() *auth.Manager {
	return auth.NewManager(repository.NewAPIKeyRepository(a.database.DB))
}

func (a *app) newAPIKeyCmd() *cobra.Command {
	apiKeyCmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage API keys",
	}

	var description string
	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := models.CreateAPIKeyInput{Name: args[0]}
			if description != "" {
				input.Description = &description
			}

			secret, key, err := a.manager().Create(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("failed to create api key: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nAPI key created successfully!\n")
			fmt.Fprintf(out, "ID:     %s\n", ident.Encode(key.ID))
			fmt.Fprintf(out, "Name:   %s\n", key.Name)
			fmt.Fprintf(out, "\nSecret: %s\n", secret)
			fmt.Fprintf(out, "\nStore the secret now; it cannot be shown again.\n")
			return nil
		},
	}
	createCmd.Flags().StringVarP(&description, "description", "d", "", "Description")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all API keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := a.manager().List(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to list api keys: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(keys) == 0 {
				fmt.Fprintln(out, "No API keys found")
				return nil
			}

			fmt.Fprintf(out, "\nTotal API keys: %d\n\n", len(keys))
			printKeys(out, keys)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := a.manager().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printKeys(cmd.OutOrStdout(), []*models.APIKey{key})
			return nil
		},
	}

	setActive := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " ID",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				key, err := a.manager().Update(cmd.Context(), args[0], models.APIKeyUpdate{IsActive: &active})
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "API key %s is now %s\n", args[0], activeLabel(key.IsActive))
				return nil
			},
		}
	}

	deleteCmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Permanently delete an API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.manager().Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "API key %s deleted\n", args[0])
			return nil
		},
	}

	apiKeyCmd.AddCommand(
		createCmd,
		listCmd,
		getCmd,
		setActive("enable", "Enable an API key", true),
		setActive("disable", "Disable an API key", false),
		deleteCmd,
	)
	return apiKeyCmd
}

func (a *app) newAuditCmd() *cobra.Command {
	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Read and maintain audit logs",
	}

	var (
		filter repository.AuditFilter
		since  time.Duration
	)
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List recent audit log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if since > 0 {
				filter.Since = time.Now().Add(-since)
			}

			logs, err := repository.NewAuditRepository(a.database.DB).List(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(logs) == 0 {
				fmt.Fprintln(out, "No audit logs found")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tACTION\tACTOR\tRESOURCE\tCLIENT IP\tRESULT")
			for _, log := range logs {
				result := "ok"
				if !log.Success {
					result = "failed: " + log.ErrorMsg
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					log.Timestamp.Local().Format(timeLayout),
					log.Action,
					dash(log.Actor),
					dash(log.ResourceID),
					log.ClientIP,
					result,
				)
			}
			return w.Flush()
		},
	}
	listCmd.Flags().StringVar(&filter.Actor, "actor", "", "Only entries by this API key ID")
	listCmd.Flags().StringVar(&filter.Action, "action", "", "Only entries with this action")
	listCmd.Flags().IntVarP(&filter.Limit, "limit", "n", 50, "Maximum number of entries")
	listCmd.Flags().DurationVar(&since, "since", 0, "Only entries newer than this (e.g. 24h)")

	var olderThan time.Duration
	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete audit log entries older than a retention period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan <= 0 {
				return fmt.Errorf("--older-than must be positive")
			}

			before := time.Now().Add(-olderThan)
			deleted, err := repository.NewAuditRepository(a.database.DB).DeleteOld(cmd.Context(), before)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d audit log entries older than %s\n",
				deleted, before.Local().Format(timeLayout))
			return nil
		},
	}
	pruneCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Retention period (e.g. 720h)")
	_ = pruneCmd.MarkFlagRequired("older-than")

	var statsSince time.Duration
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Count audit log entries per action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			since := time.Now().Add(-statsSince)
			repo := repository.NewAuditRepository(a.database.DB)

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "Since %s\n\n", since.Local().Format(timeLayout))
			fmt.Fprintln(w, "ACTION\tCOUNT")
			for _, action := range models.AuditActions {
				count, err := repo.CountByAction(cmd.Context(), action, since)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\n", action, count)
			}
			return w.Flush()
		},
	}
	statsCmd.Flags().DurationVar(&statsSince, "since", 24*time.Hour, "Count entries newer than this")

	auditCmd.AddCommand(listCmd, pruneCmd, statsCmd)
	return auditCmd
}

func printKeys(out io.Writer, keys []*models.APIKey) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tCREATED\tLAST USED")
	for _, key := range keys {
		lastUsed := "never"
		if key.LastUsedAt != nil {
			lastUsed = key.LastUsedAt.Local().Format(timeLayout)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ident.Encode(key.ID),
			key.Name,
			activeLabel(key.IsActive),
			key.CreatedAt.Local().Format(timeLayout),
			lastUsed,
		)
	}
	_ = w.Flush()
}

func activeLabel(active bool) string {
	if active {
		return "active"
	}
	return "disabled"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
