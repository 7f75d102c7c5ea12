package domain

import "github.com/shopspring/decimal"

type Medicine struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Company     string          `db:"company" json:"company"`
	Category    string          `db:"category" json:"category"`
	BatchNumber string          `db:"batch_number" json:"batchNumber"`
	ExpiryDate  string          `db:"expiry_date" json:"expiryDate"`
	Quantity    int64           `db:"quantity" json:"quantity"`
	Price       decimal.Decimal `db:"price" json:"price"`
	SupplierID  *int64          `db:"supplier_id" json:"supplierId,omitempty"`
}

func (m *Medicine) GetID() int64   { return m.ID }
func (m *Medicine) SetID(id int64) { m.ID = id }
