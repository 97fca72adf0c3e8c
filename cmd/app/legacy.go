package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"empi/cmd"
	"empi/internal/core/application/usecases/commands"
	"empi/internal/core/domain/model/kernel"
	"empi/internal/core/domain/model/order"
	"empi/internal/core/domain/model/pricing"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// legacyOrder is one record of the previous system's JSON export.
type legacyOrder struct {
	Number             string           `json:"number"`
	Buyer              legacyBuyer      `json:"buyer"`
	Items              []legacyLineItem `json:"items"`
	DiscountPercent    string           `json:"discountPercent"`
	Status             string           `json:"status"`
	PaymentStatus      string           `json:"paymentStatus"`
	PaymentConfirmedAt *time.Time       `json:"paymentConfirmedAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

type legacyBuyer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type legacyLineItem struct {
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  string `json:"unitPrice"`
	Mode       string `json:"mode"`
	RentalDays int    `json:"rentalDays"`
}

func (r legacyOrder) toCommand() (commands.ImportLegacyOrderCommand, error) {
	buyer, err := order.NewBuyer(r.Buyer.Name, r.Buyer.Email, r.Buyer.Phone)
	if err != nil {
		return commands.ImportLegacyOrderCommand{}, err
	}

	items := make([]order.LineItem, 0, len(r.Items))
	for _, li := range r.Items {
		price, err := kernel.MoneyFromString(li.UnitPrice)
		if err != nil {
			return commands.ImportLegacyOrderCommand{}, err
		}
		mode := order.Mode(li.Mode)
		if mode == "" {
			mode = order.Buy
		}
		items = append(items, order.LineItem{
			Name:       li.Name,
			Quantity:   li.Quantity,
			UnitPrice:  price,
			Mode:       mode,
			RentalDays: li.RentalDays,
		})
	}

	discount := pricing.NoDiscount()
	if r.DiscountPercent != "" {
		pct, err := decimal.NewFromString(r.DiscountPercent)
		if err != nil {
			return commands.ImportLegacyOrderCommand{}, fmt.Errorf("discountPercent: %w", err)
		}
		if discount, err = pricing.NewDiscountPercent(pct); err != nil {
			return commands.ImportLegacyOrderCommand{}, err
		}
	}

	return commands.NewImportLegacyOrderCommand(r.Number, buyer, items, discount, order.LegacyRecord{
		Status:             r.Status,
		PaymentStatus:      r.PaymentStatus,
		PaymentConfirmedAt: r.PaymentConfirmedAt,
		UpdatedAt:          r.UpdatedAt,
	})
}

func readLegacyExport(path string) ([]legacyOrder, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []legacyOrder
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return records, nil
}

func (a *app) legacyCommand() *cobra.Command {
	c := &cobra.Command{
		Use:   "legacy",
		Short: "Bring data over from the previous system",
	}
	c.AddCommand(a.legacyImportCommand())
	return c
}

func (a *app) legacyImportCommand() *cobra.Command {
	var file string

	c := &cobra.Command{
		Use:   "import",
		Short: "Import orders from a JSON export",
		RunE: func(c *cobra.Command, _ []string) error {
			records, err := readLegacyExport(file)
			if err != nil {
				return err
			}

			return a.withRoot(c.Context(), func(ctx context.Context, root *cmd.CompositionRoot, _ *gorm.DB) error {
				handler := root.CreateImportLegacyOrderCommandHandler()

				var failed []error
				imported := 0
				for i, r := range records {
					command, err := r.toCommand()
					if err == nil {
						var o *order.Order
						if o, err = handler.Handle(ctx, command); err == nil {
							imported++
							a.logger.Debug().Str("number", o.Number().String()).Str("status", o.Status().String()).Msg("order imported")
							continue
						}
					}
					a.logger.Warn().Err(err).Int("record", i).Str("number", r.Number).Msg("skip legacy order")
					failed = append(failed, fmt.Errorf("record %d: %w", i, err))
				}

				fmt.Fprintf(c.OutOrStdout(), "imported %d of %d order(s)\n", imported, len(records))
				return errors.Join(failed...)
			})
		},
	}
	c.Flags().StringVar(&file, "file", "", "path to the JSON export")
	_ = c.MarkFlagRequired("file")
	return c
}
