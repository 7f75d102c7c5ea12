package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

const (
	LowStockThreshold   = 10
	RecentSalesLimit    = 5
	DefaultExpiryWindow = 30

	dateLayout = "2006-01-02"
)

// Expiry statuses reported per medicine.
const (
	ExpiryExpired = "expired"
	ExpiryNear    = "near-expiry"
	ExpirySafe    = "safe"
	ExpiryUnknown = "unknown"
)

type Dashboard struct {
	store *store.Store
}

func NewDashboard(st *store.Store) *Dashboard {
	return &Dashboard{store: st}
}

type Summary struct {
	TotalMedicines int64           `json:"totalMedicines"`
	TotalSales     int64           `json:"totalSales"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
}

func (d *Dashboard) TotalMedicines(ctx context.Context) (int64, error) {
	return d.store.Medicines.Count(ctx)
}

func (d *Dashboard) TotalSales(ctx context.Context) (int64, error) {
	return d.store.Sales.Count(ctx)
}

// LowStock lists medicines with fewer than LowStockThreshold units.
func (d *Dashboard) LowStock(ctx context.Context) ([]domain.Medicine, error) {
	return d.store.Medicines.LowStock(ctx, LowStockThreshold)
}

// RecentSales returns the newest sales, newest first.
func (d *Dashboard) RecentSales(ctx context.Context) ([]domain.Sale, error) {
	return d.store.Sales.Recent(ctx, RecentSalesLimit)
}

// Summary counts medicines and sales and sums every sale amount that is set.
func (d *Dashboard) Summary(ctx context.Context) (*Summary, error) {
	meds, err := d.store.Medicines.Count(ctx)
	if err != nil {
		return nil, err
	}
	amounts, err := d.store.Sales.Amounts(ctx)
	if err != nil {
		return nil, err
	}

	revenue := decimal.Zero
	for _, a := range amounts {
		if a.Valid {
			revenue = revenue.Add(a.Decimal)
		}
	}
	return &Summary{
		TotalMedicines: meds,
		TotalSales:     int64(len(amounts)),
		TotalRevenue:   revenue,
	}, nil
}

type ExpiryEntry struct {
	Medicine        domain.Medicine `json:"medicine"`
	DaysUntilExpiry *int            `json:"daysUntilExpiry"`
	Status          string          `json:"status"`
}

type ExpiryReport struct {
	WindowDays  int             `json:"windowDays"`
	Expired     int             `json:"expired"`
	NearExpiry  int             `json:"nearExpiry"`
	Safe        int             `json:"safe"`
	Unknown     int             `json:"unknown"`
	ValueAtRisk decimal.Decimal `json:"valueAtRisk"`
	Medicines   []ExpiryEntry   `json:"medicines"`
}

// ExpiryReport classifies every medicine by how many days remain until its
// expiry date, counted from now's calendar day. A medicine expiring within
// days is near expiry. ValueAtRisk is price times quantity over the expired
// and near-expiry medicines.
func (d *Dashboard) ExpiryReport(ctx context.Context, days int, now time.Time) (*ExpiryReport, error) {
	if days <= 0 {
		days = DefaultExpiryWindow
	}
	meds, err := d.store.Medicines.List(ctx)
	if err != nil {
		return nil, err
	}

	y, m, dd := now.Date()
	today := time.Date(y, m, dd, 0, 0, 0, 0, time.UTC)

	report := &ExpiryReport{WindowDays: days, ValueAtRisk: decimal.Zero, Medicines: make([]ExpiryEntry, 0, len(meds))}
	for _, med := range meds {
		entry := ExpiryEntry{Medicine: med, Status: ExpiryUnknown}
		expiry, err := time.Parse(dateLayout, med.ExpiryDate)
		if err != nil {
			report.Unknown++
			report.Medicines = append(report.Medicines, entry)
			continue
		}

		left := int(expiry.Sub(today).Hours() / 24)
		entry.DaysUntilExpiry = &left
		switch {
		case left < 0:
			entry.Status = ExpiryExpired
			report.Expired++
		case left <= days:
			entry.Status = ExpiryNear
			report.NearExpiry++
		default:
			entry.Status = ExpirySafe
			report.Safe++
		}
		if entry.Status != ExpirySafe {
			report.ValueAtRisk = report.ValueAtRisk.Add(med.Price.Mul(decimal.NewFromInt(med.Quantity)))
		}
		report.Medicines = append(report.Medicines, entry)
	}
	return report, nil
}
