package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"estancia-digital/internal/domain/gestations"
	"estancia-digital/internal/platform/metrics"
	"estancia-digital/internal/router"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type sweepReport struct {
	OwnerID    string          `json:"owner_id" yaml:"owner_id"`
	ComputedAt time.Time       `json:"computed_at" yaml:"computed_at"`
	Checked    int             `json:"checked" yaml:"checked"`
	Flagged    int             `json:"flagged" yaml:"flagged"`
	Overdue    []overdueReport `json:"overdue" yaml:"overdue"`
}

type overdueReport struct {
	GestationID string    `json:"gestation_id" yaml:"gestation_id"`
	AnimalTag   string    `json:"animal_tag" yaml:"animal_tag"`
	AnimalName  string    `json:"animal_name,omitempty" yaml:"animal_name,omitempty"`
	CurrentDay  int       `json:"current_day" yaml:"current_day"`
	DueDate     time.Time `json:"due_date" yaml:"due_date"`
	DaysOverdue int       `json:"days_overdue" yaml:"days_overdue"`
}

func toSweepReport(res gestations.SweepResult) sweepReport {
	out := sweepReport{
		OwnerID:    res.OwnerID,
		ComputedAt: res.ComputedAt,
		Checked:    res.Checked,
		Flagged:    len(res.Flagged),
		Overdue:    make([]overdueReport, 0, len(res.Flagged)),
	}
	for _, v := range res.Flagged {
		out.Overdue = append(out.Overdue, overdueReport{
			GestationID: v.ID,
			AnimalTag:   v.AnimalTag,
			AnimalName:  v.AnimalName,
			CurrentDay:  v.Stage.CurrentDay,
			DueDate:     v.Stage.DueDate,
			DaysOverdue: -v.Stage.RemainingDays,
		})
	}
	return out
}

func writeSweepReport(w io.Writer, format string, res gestations.SweepResult) error {
	rep := toSweepReport(res)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return err
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		return fmt.Errorf("unknown output %q (yaml, json)", format)
	}
}

func sweepCmd() *cobra.Command {
	var (
		owner  string
		output string
		at     string
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Lista las gestaciones activas atrasadas de un owner",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			cfg, log, store, closeStore, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			opts := router.Options{Store: store, Logger: log}
			if cfg.MetricsEnabled {
				opts.Metrics = metrics.New()
			}
			svcs := router.NewServices(opts)

			res, err := svcs.Gestations.Sweep(ctx, owner, now)
			if err != nil {
				return err
			}
			return writeSweepReport(cmd.OutOrStdout(), output, res)
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner (usuario) a revisar")
	cmd.Flags().StringVarP(&output, "output", "o", "yaml", "formato de salida: yaml o json")
	cmd.Flags().StringVar(&at, "at", "", "instante de evaluación RFC3339 (por defecto ahora)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
