package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
)

// ErrInsufficientStock is returned when a decrement would take a medicine's
// quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

var ErrNegativeQuantity = errors.New("negative quantity")

type (
	CustomerRepository = Repository[domain.Customer, *domain.Customer]
	SupplierRepository = Repository[domain.Supplier, *domain.Supplier]
)

// Store groups the repositories of every table. A Store either talks to the
// pool directly or, inside RunInTx, to a single transaction.
type Store struct {
	db *sqlx.DB

	Medicines  *MedicineStore
	Customers  *CustomerRepository
	Suppliers  *SupplierRepository
	Sales      *SaleStore
	SalesItems *SalesItemStore
	Users      *UserStore
}

func New(db *sqlx.DB) *Store {
	s := bind(db)
	s.db = db
	return s
}

func bind(ext sqlx.ExtContext) *Store {
	return &Store{
		Medicines: &MedicineStore{NewRepository[domain.Medicine](ext, "medicines",
			"name", "company", "category", "batch_number", "expiry_date", "quantity", "price", "supplier_id")},
		Customers: NewRepository[domain.Customer](ext, "customers", "name", "contact", "email", "address"),
		Suppliers: NewRepository[domain.Supplier](ext, "suppliers", "name", "contact", "email", "address"),
		Sales: &SaleStore{NewRepository[domain.Sale](ext, "sales",
			"customer_name", "total_amount", "sale_date")},
		SalesItems: &SalesItemStore{NewRepository[domain.SalesItem](ext, "sales_items",
			"sale_id", "medicine_id", "quantity", "price")},
		Users: &UserStore{NewRepository[domain.User](ext, "users",
			"username", "email", "password", "role", "enabled")},
	}
}

// RunInTx calls fn with a Store bound to a new transaction. The transaction
// commits when fn returns nil and rolls back otherwise.
func (s *Store) RunInTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return errors.New("store: nested transactions are not supported")
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type MedicineStore struct {
	*Repository[domain.Medicine, *domain.Medicine]
}

// DecrementStock subtracts qty from the medicine's quantity in a single
// conditional update. It returns ErrNotFound when the medicine does not exist
// and ErrInsufficientStock when it holds fewer than qty units. A negative qty
// never adds stock.
func (s *MedicineStore) DecrementStock(ctx context.Context, id, qty int64) error {
	if qty < 0 {
		return fmt.Errorf("decrement stock of medicine %d by %d: %w", id, qty, ErrNegativeQuantity)
	}
	res, err := s.ext.ExecContext(ctx,
		s.ext.Rebind(`UPDATE medicines SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`),
		qty, id, qty)
	if err != nil {
		return fmt.Errorf("decrement stock of medicine %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock of medicine %d: %w", id, err)
	}
	if n > 0 {
		return nil
	}

	exists, err := s.Exists(ctx, "id = ?", id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	return ErrInsufficientStock
}

// LowStock lists medicines whose quantity is strictly below threshold.
func (s *MedicineStore) LowStock(ctx context.Context, threshold int64) ([]domain.Medicine, error) {
	return s.Select(ctx, "SELECT "+s.selectList()+" FROM medicines WHERE quantity < ? ORDER BY quantity, id", threshold)
}

// FindByNameAndBatch returns the first medicine with the given name and batch
// number.
func (s *MedicineStore) FindByNameAndBatch(ctx context.Context, name, batch string) (*domain.Medicine, error) {
	items, err := s.Select(ctx, "SELECT "+s.selectList()+" FROM medicines WHERE name = ? AND batch_number = ? ORDER BY id LIMIT 1", name, batch)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return &items[0], nil
}

type SaleStore struct {
	*Repository[domain.Sale, *domain.Sale]
}

// Recent returns the newest sales first.
func (s *SaleStore) Recent(ctx context.Context, limit int) ([]domain.Sale, error) {
	return s.Select(ctx, "SELECT "+s.selectList()+" FROM sales ORDER BY id DESC LIMIT ?", limit)
}

// Amounts returns the total amount of every sale, including unset ones.
func (s *SaleStore) Amounts(ctx context.Context) ([]decimal.NullDecimal, error) {
	amounts := []decimal.NullDecimal{}
	if err := sqlx.SelectContext(ctx, s.ext, &amounts, "SELECT total_amount FROM sales ORDER BY id"); err != nil {
		return nil, fmt.Errorf("select sale amounts: %w", err)
	}
	return amounts, nil
}

type SalesItemStore struct {
	*Repository[domain.SalesItem, *domain.SalesItem]
}

func (s *SalesItemStore) BySale(ctx context.Context, saleID int64) ([]domain.SalesItem, error) {
	return s.Select(ctx, "SELECT "+s.selectList()+" FROM sales_items WHERE sale_id = ? ORDER BY id", saleID)
}

type UserStore struct {
	*Repository[domain.User, *domain.User]
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := sqlx.GetContext(ctx, s.ext, &u,
		s.ext.Rebind("SELECT "+s.selectList()+" FROM users WHERE username = ?"), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", username, err)
	}
	return &u, nil
}

func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.Exists(ctx, "username = ?", username)
}
