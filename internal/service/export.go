package service

import (
	"context"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	salesSheet = "Sales"
	itemsSheet = "Items"
)

// Export writes every sale and sale item as an xlsx workbook.
func (s *Sales) Export(ctx context.Context, w io.Writer) error {
	sales, err := s.store.Sales.List(ctx)
	if err != nil {
		return err
	}
	items, err := s.store.SalesItems.List(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", salesSheet); err != nil {
		return fmt.Errorf("export sales: %w", err)
	}
	if _, err := f.NewSheet(itemsSheet); err != nil {
		return fmt.Errorf("export sales: %w", err)
	}

	header := []interface{}{"ID", "Customer", "Total Amount", "Sale Date"}
	if err := f.SetSheetRow(salesSheet, "A1", &header); err != nil {
		return fmt.Errorf("export sales: %w", err)
	}
	for i, sale := range sales {
		var total interface{}
		if sale.TotalAmount.Valid {
			total = sale.TotalAmount.Decimal.InexactFloat64()
		}
		row := []interface{}{sale.ID, sale.CustomerName, total, sale.SaleDate}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(salesSheet, cell, &row); err != nil {
			return fmt.Errorf("export sales: %w", err)
		}
	}

	header = []interface{}{"ID", "Sale ID", "Medicine ID", "Quantity", "Price"}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return fmt.Errorf("export sales: %w", err)
	}
	for i, item := range items {
		row := []interface{}{item.ID, item.SaleID, item.MedicineID, item.Quantity, item.Price.InexactFloat64()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return fmt.Errorf("export sales: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
