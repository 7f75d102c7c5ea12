package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

// ErrInvalidQuantity is returned when a line item sells a negative quantity.
var ErrInvalidQuantity = errors.New("item quantity must not be negative")

// ItemWarning flags a line item that was stored without touching stock.
type ItemWarning struct {
	Index      int    `json:"index"`
	MedicineID int64  `json:"medicineId"`
	Reason     string `json:"reason"`
}

type SaleResult struct {
	Sale     domain.Sale
	Items    []domain.SalesItem
	Warnings []ItemWarning
}

type Sales struct {
	store *store.Store
	log   *zap.Logger
}

func NewSales(st *store.Store, log *zap.Logger) *Sales {
	return &Sales{store: st, log: log}
}

// Create records a sale with its items and takes the sold quantities out of
// stock, all in one transaction. Items naming an unknown medicine are kept
// and reported as warnings. If any known medicine lacks stock the whole sale
// is rolled back with store.ErrInsufficientStock. Negative quantities are
// rejected with ErrInvalidQuantity before anything is written.
func (s *Sales) Create(ctx context.Context, sale domain.Sale, items []domain.SalesItem) (*SaleResult, error) {
	for i, item := range items {
		if item.Quantity < 0 {
			return nil, fmt.Errorf("item %d (medicine %d): %w", i, item.MedicineID, ErrInvalidQuantity)
		}
	}

	sale.ID = 0
	stored := make([]domain.SalesItem, len(items))
	copy(stored, items)
	var warnings []ItemWarning

	err := s.store.RunInTx(ctx, func(tx *store.Store) error {
		if err := tx.Sales.Insert(ctx, &sale); err != nil {
			return err
		}

		for i := range stored {
			item := &stored[i]
			item.ID = 0
			item.SaleID = sale.ID
			if err := tx.SalesItems.Insert(ctx, item); err != nil {
				return err
			}

			err := tx.Medicines.DecrementStock(ctx, item.MedicineID, item.Quantity)
			switch {
			case errors.Is(err, store.ErrNotFound):
				warnings = append(warnings, ItemWarning{Index: i, MedicineID: item.MedicineID, Reason: "medicine not found; stock not updated"})
			case errors.Is(err, store.ErrInsufficientStock):
				return fmt.Errorf("medicine %d: %w", item.MedicineID, err)
			case err != nil:
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.log.Warn("sale rejected", zap.String("customer", sale.CustomerName), zap.Error(err))
		return nil, err
	}

	for _, w := range warnings {
		s.log.Warn("sale item references unknown medicine",
			zap.Int64("sale_id", sale.ID), zap.Int64("medicine_id", w.MedicineID))
	}
	s.log.Info("sale recorded", zap.Int64("sale_id", sale.ID), zap.Int("items", len(stored)))

	return &SaleResult{Sale: sale, Items: stored, Warnings: warnings}, nil
}

func (s *Sales) List(ctx context.Context) ([]domain.Sale, error) {
	return s.store.Sales.List(ctx)
}

// Items lists the lines of a sale. An unknown sale has no items.
func (s *Sales) Items(ctx context.Context, saleID int64) ([]domain.SalesItem, error) {
	return s.store.SalesItems.BySale(ctx, saleID)
}
