package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hackgods/rural-care-scheduling/internal/appointment"
	"github.com/hackgods/rural-care-scheduling/internal/config"
	"github.com/hackgods/rural-care-scheduling/internal/db"
	"github.com/hackgods/rural-care-scheduling/internal/logger"
	"github.com/hackgods/rural-care-scheduling/internal/seed"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "seed",
		Short: "Roster and ledger seeding tools",
	}
	rootCmd.AddCommand(rosterCmd(), ledgerCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func rosterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roster",
		Short: "Write a synthetic roster YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")
			doctors, _ := cmd.Flags().GetInt("doctors")
			patients, _ := cmd.Flags().GetInt("patients")
			appts, _ := cmd.Flags().GetInt("appointments")
			seedVal, _ := cmd.Flags().GetUint64("seed")
			builtin, _ := cmd.Flags().GetBool("builtin")

			log := logger.New("info", "text")

			var r seed.Roster
			if builtin {
				r = seed.Default(time.Now())
			} else {
				r = seed.Generate(gofakeit.New(seedVal), seed.GenerateOptions{
					Doctors:      doctors,
					Patients:     patients,
					Appointments: appts,
					Now:          time.Now(),
				})
			}

			if err := seed.WriteFile(out, r); err != nil {
				return err
			}
			log.WithField("out", out).Infof("roster written: %d doctors, %d patients, %d appointments",
				len(r.Doctors), len(r.Patients), len(r.Appointments))
			return nil
		},
	}
	cmd.Flags().String("out", "roster.yaml", "Output file")
	cmd.Flags().Int("doctors", 12, "Number of doctors")
	cmd.Flags().Int("patients", 60, "Number of patients")
	cmd.Flags().Int("appointments", 40, "Number of scheduled appointments")
	cmd.Flags().Uint64("seed", 0, "Random seed, 0 for a random one")
	cmd.Flags().Bool("builtin", false, "Write the built-in roster instead of a synthetic one")
	return cmd
}

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Load a roster's appointments into the Postgres ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			rosterFile, _ := cmd.Flags().GetString("roster")

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.PostgresDSN == "" {
				return errors.New("POSTGRES_DSN is required")
			}
			log := logger.New(cfg.LogLevel, cfg.LogFormat)

			r := seed.Default(time.Now())
			if rosterFile != "" {
				if r, err = seed.LoadFile(rosterFile); err != nil {
					return err
				}
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			pool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN, cfg.PostgresMaxConn)
			if err != nil {
				return fmt.Errorf("connect postgres: %w", err)
			}
			defer pool.Close()

			repo := appointment.NewPgRepository(pool)
			inserted, skipped := 0, 0
			for _, a := range r.Appointments {
				if _, err := repo.CreateAppointment(ctx, a); err != nil {
					if errors.Is(err, appointment.ErrSlotAlreadyBooked) {
						skipped++
						continue
					}
					return fmt.Errorf("insert appointment %s: %w", a.ID, err)
				}
				inserted++
			}

			log.WithFields(logrus.Fields{"inserted": inserted, "skipped": skipped}).Info("ledger seeded")
			return nil
		},
	}
	cmd.Flags().String("roster", "", "Roster YAML file, built-in roster when empty")
	return cmd
}
