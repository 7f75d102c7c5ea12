package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmacy/m/domain"
)

func TestDashboardCountsAndSummary(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	dash := NewDashboard(st)

	seedMedicine(t, st, "Paracetamol", 100)
	seedMedicine(t, st, "Ibuprofen", 9)
	seedMedicine(t, st, "Aspirin", 10)

	for i, amount := range []string{"10.25", "", "4.75"} {
		s := &domain.Sale{CustomerName: "c", SaleDate: "2025-01-0" + string(rune('1'+i))}
		if amount != "" {
			s.TotalAmount = decimal.NewNullDecimal(decimal.RequireFromString(amount))
		}
		require.NoError(t, st.Sales.Insert(ctx, s))
	}

	meds, err := dash.TotalMedicines(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), meds)

	sales, err := dash.TotalSales(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sales)

	low, err := dash.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Ibuprofen", low[0].Name)

	summary, err := dash.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalMedicines)
	assert.Equal(t, int64(3), summary.TotalSales)
	assert.True(t, summary.TotalRevenue.Equal(decimal.NewFromInt(15)), summary.TotalRevenue.String())
}

func TestDashboardEmptySummary(t *testing.T) {
	summary, err := NewDashboard(newTestStore(t)).Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.TotalMedicines)
	assert.Zero(t, summary.TotalSales)
	assert.True(t, summary.TotalRevenue.IsZero())
}

func TestRecentSalesNewestFirst(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	for i := 0; i < 7; i++ {
		require.NoError(t, st.Sales.Insert(ctx, &domain.Sale{CustomerName: string(rune('A' + i))}))
	}

	recent, err := NewDashboard(st).RecentSales(ctx)
	require.NoError(t, err)
	require.Len(t, recent, RecentSalesLimit)
	assert.Equal(t, "G", recent[0].CustomerName)
	assert.Equal(t, "C", recent[4].CustomerName)
}

func TestExpiryReport(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	now := time.Date(2025, 6, 15, 17, 30, 0, 0, time.UTC)

	for _, m := range []domain.Medicine{
		{Name: "Old", ExpiryDate: "2025-06-14", Quantity: 2, Price: decimal.NewFromInt(3)},
		{Name: "Today", ExpiryDate: "2025-06-15", Quantity: 1, Price: decimal.NewFromInt(10)},
		{Name: "Edge", ExpiryDate: "2025-07-15", Quantity: 1, Price: decimal.NewFromInt(1)},
		{Name: "Later", ExpiryDate: "2025-07-16", Quantity: 100, Price: decimal.NewFromInt(1)},
		{Name: "Blank", ExpiryDate: ""},
	} {
		m := m
		require.NoError(t, st.Medicines.Insert(ctx, &m))
	}

	report, err := NewDashboard(st).ExpiryReport(ctx, 30, now)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Expired)
	assert.Equal(t, 2, report.NearExpiry)
	assert.Equal(t, 1, report.Safe)
	assert.Equal(t, 1, report.Unknown)
	assert.True(t, report.ValueAtRisk.Equal(decimal.NewFromInt(17)), report.ValueAtRisk.String())

	statuses := map[string]string{}
	for _, e := range report.Medicines {
		statuses[e.Medicine.Name] = e.Status
	}
	assert.Equal(t, map[string]string{
		"Old":   ExpiryExpired,
		"Today": ExpiryNear,
		"Edge":  ExpiryNear,
		"Later": ExpirySafe,
		"Blank": ExpiryUnknown,
	}, statuses)

	require.NotNil(t, report.Medicines[0].DaysUntilExpiry)
	assert.Equal(t, -1, *report.Medicines[0].DaysUntilExpiry)
	assert.Nil(t, report.Medicines[4].DaysUntilExpiry)
}

func TestExpiryReportDefaultsWindow(t *testing.T) {
	report, err := NewDashboard(newTestStore(t)).ExpiryReport(context.Background(), 0, time.Now())
	require.NoError(t, err)
	assert.Equal(t, DefaultExpiryWindow, report.WindowDays)
	assert.NotNil(t, report.Medicines)
}
