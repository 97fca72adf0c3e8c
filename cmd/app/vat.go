package main

import (
	"context"
	"fmt"
	"time"

	"empi/cmd"
	"empi/internal/core/application/usecases/commands"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func (a *app) vatCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "vat",
		Short: "Operate on VAT periods",
	}
	c.AddCommand(a.vatRolloverCommand(), a.vatReconcileCommand())
	return c
}

func (a *app) vatRolloverCommand() *cobra.Command {
	var at string

	c := &cobra.Command{
		Use:   "rollover",
		Short: "Close the previous VAT period and open the current one",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot, _ *gorm.DB) error {
				when := time.Now()
				if at != "" {
					t, err := time.Parse(time.RFC3339, at)
					if err != nil {
						return fmt.Errorf("--at: %w", err)
					}
					when = t
				}

				command, err := commands.NewRolloverVATPeriodCommand(when, commands.TriggerCLI)
				if err != nil {
					return err
				}
				handler := root.CreateRolloverVATPeriodCommandHandler()
				result, err := handler.Handle(ctx, command)
				if err != nil {
					return err
				}

				fmt.Fprintf(c.OutOrStdout(), "current period %s (created=%t)\n", result.Target.Key(), result.Created)
				for _, closed := range result.Closed {
					fmt.Fprintf(c.OutOrStdout(), "closed period %s as %s\n", closed.Key(), closed.Status())
				}
				return nil
			})
		},
	}
	c.Flags().StringVar(&at, "at", "", "RFC3339 instant to roll over at (default now)")
	return c
}

func (a *app) vatReconcileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reconcile",
		Short: "Recompute every open VAT period from the ledger",
		RunE: func(c *cobra.Command, _ []string) error {
			return a.withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot, _ *gorm.DB) error {
				command, err := commands.NewReconcileVATPeriodsCommand(commands.TriggerCLI)
				if err != nil {
					return err
				}
				handler := root.CreateReconcileVATPeriodsCommandHandler()
				changed, err := handler.Handle(ctx, command)
				if err != nil {
					return err
				}

				for _, p := range changed {
					fmt.Fprintf(c.OutOrStdout(), "period %s payable %s\n", p.Key(), p.VATPayable())
				}
				fmt.Fprintf(c.OutOrStdout(), "%d period(s) changed\n", len(changed))
				return nil
			})
		},
	}
}
