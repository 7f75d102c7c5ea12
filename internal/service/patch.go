package service

import (
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

// MedicinePatch holds the fields a partial medicine update may change. Nil
// fields are left untouched.
type MedicinePatch struct {
	Name        *string          `json:"name"`
	Company     *string          `json:"company"`
	Category    *string          `json:"category"`
	BatchNumber *string          `json:"batchNumber"`
	ExpiryDate  *string          `json:"expiryDate"`
	Quantity    *int64           `json:"quantity"`
	Price       *decimal.Decimal `json:"price"`
	SupplierID  *int64           `json:"supplierId"`
}

func (p MedicinePatch) Apply(m *domain.Medicine) {
	setIf(&m.Name, p.Name)
	setIf(&m.Company, p.Company)
	setIf(&m.Category, p.Category)
	setIf(&m.BatchNumber, p.BatchNumber)
	setIf(&m.ExpiryDate, p.ExpiryDate)
	setIf(&m.Quantity, p.Quantity)
	setIf(&m.Price, p.Price)
	if p.SupplierID != nil {
		id := *p.SupplierID
		m.SupplierID = &id
	}
}

// ContactPatch is the partial update shared by customers and suppliers.
type ContactPatch struct {
	Name    *string `json:"name"`
	Contact *string `json:"contact"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

type CustomerPatch struct{ ContactPatch }

func (p CustomerPatch) Apply(c *domain.Customer) {
	p.apply(&c.Name, &c.Contact, &c.Email, &c.Address)
}

type SupplierPatch struct{ ContactPatch }

func (p SupplierPatch) Apply(s *domain.Supplier) {
	p.apply(&s.Name, &s.Contact, &s.Email, &s.Address)
}

func (p ContactPatch) apply(name, contact, email, address *string) {
	setIf(name, p.Name)
	setIf(contact, p.Contact)
	setIf(email, p.Email)
	setIf(address, p.Address)
}

func setIf[V any](dst *V, v *V) {
	if v != nil {
		*dst = *v
	}
}
