package main

import (
	"context"
	"fmt"
	"time"

	"empi/cmd"
	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/expense"
	"empi/internal/core/domain/model/kernel"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func (a *app) tokenCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "token",
		Short: "Manage API bearer tokens",
	}
	c.AddCommand(a.tokenIssueCommand())
	return c
}

func (a *app) tokenIssueCommand() *cobra.Command {
	var (
		role    string
		subject string
		ttl     time.Duration
	)

	c := &cobra.Command{
		Use:   "issue",
		Short: "Sign a bearer token for a role",
		RunE: func(c *cobra.Command, _ []string) error {
			r, err := kernel.ParseRole(role)
			if err != nil {
				return err
			}
			actor, err := kernel.NewActor(r, subject)
			if err != nil {
				return err
			}

			tokens := cmd.NewTokens(a.cfg)
			token, err := tokens.Issue(actor, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), token)
			return nil
		},
	}
	c.Flags().StringVar(&role, "role", string(kernel.RoleAdmin), "admin, customer, logistics or system")
	c.Flags().StringVar(&subject, "subject", "", "identity the token is issued to")
	c.Flags().DurationVar(&ttl, "ttl", 12*time.Hour, "token lifetime")
	_ = c.MarkFlagRequired("subject")
	return c
}

func (a *app) expenseCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "expense",
		Short: "Record business expenses",
	}
	c.AddCommand(a.expenseAddCommand())
	return c
}

func (a *app) expenseAddCommand() *cobra.Command {
	var (
		description string
		amount      string
		vatAmount   string
		deductible  bool
		incurredAt  string
	)

	c := &cobra.Command{
		Use:   "add",
		Short: "Add an expense to the ledger",
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := buildExpense(description, amount, vatAmount, deductible, incurredAt, time.Now())
			if err != nil {
				return err
			}

			command, err := commands.NewRecordExpenseCommand(e, kernel.Actor{Role: kernel.RoleAdmin, ID: "cli"})
			if err != nil {
				return err
			}

			return a.withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot, _ *gorm.DB) error {
				handler := root.CreateRecordExpenseCommandHandler()
				res, err := handler.Handle(ctx, command)
				if err != nil {
					return err
				}

				fmt.Fprintf(c.OutOrStdout(), "expense %s recorded (open period updated=%t)\n", e.ID(), res.Booked)
				return nil
			})
		},
	}
	c.Flags().StringVar(&description, "description", "", "what was bought")
	c.Flags().StringVar(&amount, "amount", "", "gross amount in naira")
	c.Flags().StringVar(&vatAmount, "vat", "0", "VAT paid on the expense")
	c.Flags().BoolVar(&deductible, "deductible", true, "whether the VAT counts as input VAT")
	c.Flags().StringVar(&incurredAt, "incurred-at", "", "RFC3339 instant (default now)")
	_ = c.MarkFlagRequired("description")
	_ = c.MarkFlagRequired("amount")
	return c
}

func buildExpense(description, amount, vatAmount string, deductible bool, incurredAt string, now time.Time) (*expense.Expense, error) {
	gross, err := kernel.MoneyFromString(amount)
	if err != nil {
		return nil, err
	}
	vatPaid, err := kernel.MoneyFromString(vatAmount)
	if err != nil {
		return nil, err
	}
	at := now
	if incurredAt != "" {
		if at, err = time.Parse(time.RFC3339, incurredAt); err != nil {
			return nil, fmt.Errorf("--incurred-at: %w", err)
		}
	}
	return expense.NewExpense(kernel.NewUUID(), description, gross, vatPaid, deductible, at)
}
