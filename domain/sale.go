package domain

import "github.com/shopspring/decimal"

func init() {
	// Clients read amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Sale is the header of a completed transaction. It is written once and never
// updated afterwards.
type Sale struct {
	ID           int64               `db:"id" json:"id"`
	CustomerName string              `db:"customer_name" json:"customerName"`
	TotalAmount  decimal.NullDecimal `db:"total_amount" json:"totalAmount"`
	SaleDate     string              `db:"sale_date" json:"saleDate"`
}

func (s *Sale) GetID() int64   { return s.ID }
func (s *Sale) SetID(id int64) { s.ID = id }

// SalesItem is one line of a sale. MedicineID is not enforced as a foreign key.
type SalesItem struct {
	ID         int64           `db:"id" json:"id"`
	SaleID     int64           `db:"sale_id" json:"saleId"`
	MedicineID int64           `db:"medicine_id" json:"medicineId"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
}

func (i *SalesItem) GetID() int64   { return i.ID }
func (i *SalesItem) SetID(id int64) { i.ID = id }
