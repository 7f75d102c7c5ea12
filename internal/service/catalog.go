package service

import (
	"context"

	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

// Patch applies a partial update to a loaded record.
type Patch[P any] interface {
	Apply(P)
}

// Catalog implements the plain record operations shared by medicines,
// customers and suppliers. Update is a full overwrite and creates the record
// when the id is unknown.
type Catalog[T any, P interface {
	*T
	store.Entity
}] struct {
	name string
	repo *store.Repository[T, P]
	log  *zap.Logger
}

type (
	Medicines = Catalog[domain.Medicine, *domain.Medicine]
	Customers = Catalog[domain.Customer, *domain.Customer]
	Suppliers = Catalog[domain.Supplier, *domain.Supplier]
)

func NewMedicines(st *store.Store, log *zap.Logger) *Medicines {
	return &Medicines{name: "medicine", repo: st.Medicines.Repository, log: log}
}

func NewCustomers(st *store.Store, log *zap.Logger) *Customers {
	return &Customers{name: "customer", repo: st.Customers, log: log}
}

func NewSuppliers(st *store.Store, log *zap.Logger) *Suppliers {
	return &Suppliers{name: "supplier", repo: st.Suppliers, log: log}
}

// Add stores a new record. Any id on the input is ignored.
func (c *Catalog[T, P]) Add(ctx context.Context, rec T) (P, error) {
	p := P(&rec)
	p.SetID(0)
	if err := c.repo.Insert(ctx, p); err != nil {
		return nil, err
	}
	c.log.Info(c.name+" created", zap.Int64("id", p.GetID()))
	return p, nil
}

// Update overwrites every field of the record with the given id.
func (c *Catalog[T, P]) Update(ctx context.Context, id int64, rec T) (P, error) {
	p := P(&rec)
	p.SetID(id)
	if err := c.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	c.log.Info(c.name+" updated", zap.Int64("id", id))
	return p, nil
}

// Patch changes only the fields set in patch. It returns store.ErrNotFound
// when there is no record with that id.
func (c *Catalog[T, P]) Patch(ctx context.Context, id int64, patch Patch[P]) (P, error) {
	p, err := c.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	p.SetID(id)
	if err := c.repo.Upsert(ctx, p); err != nil {
		return nil, err
	}
	c.log.Info(c.name+" patched", zap.Int64("id", id))
	return p, nil
}

func (c *Catalog[T, P]) List(ctx context.Context) ([]T, error) {
	return c.repo.List(ctx)
}

// Get returns the record or store.ErrNotFound.
func (c *Catalog[T, P]) Get(ctx context.Context, id int64) (P, error) {
	return c.repo.Get(ctx, id)
}

func (c *Catalog[T, P]) Delete(ctx context.Context, id int64) error {
	if err := c.repo.Delete(ctx, id); err != nil {
		return err
	}
	c.log.Info(c.name+" deleted", zap.Int64("id", id))
	return nil
}
