package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	blogStore "ascend/internal/adapters/storage/blog"
	eventStore "ascend/internal/adapters/storage/event"
	pricingStore "ascend/internal/adapters/storage/pricing"
	trainingStore "ascend/internal/adapters/storage/training"
	"ascend/internal/application/orchestrators"
	"ascend/internal/application/projections"
	"ascend/internal/config"
	domainAdmin "ascend/internal/domain/admin"
	"ascend/internal/domain/table"
)

func migrateCmd() *cobra.Command {
	var seed bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema to the local sqlite or postgres backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.Backend == config.BackendREST {
				return errors.New("migrations apply to the sqlite and postgres backends only")
			}
			backend, closeBackend, err := openBackend(cfg, nil, true)
			if err != nil {
				return err
			}
			defer closeBackend()
			if seed {
				if err := orchestrators.ExecuteSeedContent(cmd.Context(), orchestrators.SeedContentDeps{
					PlanStore:     pricingStore.NewRemoteStore(backend),
					TrainingStore: trainingStore.NewRemoteStore(backend),
					EventStore:    eventStore.NewRemoteStore(backend),
					BlogStore:     blogStore.NewRemoteStore(backend),
				}); err != nil {
					return fmt.Errorf("seed content: %w", err)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert demo plans, programs, events and posts when the catalog is empty")
	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for an ASCEND_ADMIN_USERS password_hash entry",
		Long:  "Hashes the argument, or the first line of stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					password = strings.TrimRight(sc.Text(), "\r")
				}
				if err := sc.Err(); err != nil {
					return fmt.Errorf("read password: %w", err)
				}
			}
			var u domainAdmin.User
			if err := u.SetPassword(password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), u.PasswordHash)
			return nil
		},
	}
}

func exportCmd() *cobra.Command {
	var search, out string
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Write a table as CSV, the same file the back-office export downloads",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			backend, closeBackend, err := openBackend(cfg, nil, false)
			if err != nil {
				return err
			}
			defer closeBackend()

			result, err := projections.QueryExportTable(cmd.Context(), projections.ExportTableQuery{
				Table:  args[0],
				Search: strings.TrimSpace(search),
			}, projections.ExportTableDeps{
				Source:   backend,
				Registry: table.DefaultRegistry(),
				Now:      time.Now(),
			})
			if err != nil {
				return err
			}

			if out == "" {
				_, err = cmd.OutOrStdout().Write(result.Data)
				return err
			}
			if out == "." {
				out = result.Filename
			}
			if err := os.WriteFile(out, result.Data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", out, len(result.Data))
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "q", "", "only rows containing this text (case-insensitive)")
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file; "." uses the default name, empty writes to stdout`)
	return cmd
}
