package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"estancia-digital/internal/platform/logger"
	"estancia-digital/internal/refresh"
	"estancia-digital/internal/router"
	"estancia-digital/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var (
		owner string
		plain bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Muestra las gestaciones activas y las recalcula cada medianoche",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, log, store, closeStore, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			loc, err := cfg.Location()
			if err != nil {
				return err
			}
			if plain {
				svcs := router.NewServices(router.Options{Store: store, Logger: log})
				sched := refresh.New(svcs.Gestations, owner, func(s refresh.Snapshot) {
					if s.Err != nil {
						return
					}
					log.Info("gestations refreshed", map[string]any{
						"owner_id":    s.OwnerID,
						"reason":      string(s.Reason),
						"active":      len(s.Views),
						"overdue":     s.Overdue,
						"computed_at": s.ComputedAt,
					})
				}, refresh.WithLocation(loc), refresh.WithLogger(log))
				return sched.Run(ctx)
			}

			// La TUI ocupa stdout: sin logs.
			svcs := router.NewServices(router.Options{Store: store, Logger: logger.Nop()})
			sched := refresh.New(svcs.Gestations, owner, nil, refresh.WithLocation(loc))
			p := tea.NewProgram(tui.New(ctx, sched), tea.WithContext(ctx), tea.WithReportFocus(), tea.WithAltScreen())
			if _, err := p.Run(); err != nil && ctx.Err() == nil {
				return fmt.Errorf("watch: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner (usuario) a mostrar")
	cmd.Flags().BoolVar(&plain, "plain", false, "sin TUI: loguea cada refresco")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}
