package seed

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"pharmacy/m/internal/auth"
	"pharmacy/m/internal/database"
	"pharmacy/m/internal/migrations"
	"pharmacy/m/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	ctx := context.Background()
	db, err := database.Connect(ctx, "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, migrations.Run(ctx, db))
	return store.New(db)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	authSvc := auth.NewService(st.Users, auth.NewTokenProvider("s", time.Hour), zap.NewNop()).WithCost(bcrypt.MinCost)
	admin := Admin{Username: "admin", Password: "admin123", Email: "admin@pharmacy.com"}

	created, err := EnsureAdmin(ctx, st.Users, authSvc, admin, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureAdmin(ctx, st.Users, authSvc, admin, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, created)

	n, err := st.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	session, err := authSvc.Authenticate(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "ADMIN", session.User.Role)
	assert.Equal(t, "admin@pharmacy.com", session.User.Email)
}

const catalog = `name,company,category,batch_number,expiry_date,quantity,price
Paracetamol,Acme,Analgesic,B-1,2026-01-31,100,2.50
Ibuprofen,Acme,Analgesic,B-2,2026-02-28,5,3.10
,Nameless,,,,,
Broken,Acme,,B-3,,lots,1
`

func TestLoadMedicines(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	path := filepath.Join(t.TempDir(), "medicines.csv")
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	n, err := LoadMedicines(ctx, st, path, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// A second load skips rows that are already present.
	n, err = LoadMedicines(ctx, st, path, zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, n)

	meds, err := st.Medicines.List(ctx)
	require.NoError(t, err)
	require.Len(t, meds, 2)
	assert.Equal(t, "Paracetamol", meds[0].Name)
	assert.Equal(t, int64(100), meds[0].Quantity)
	assert.Equal(t, "2.5", meds[0].Price.String())
	assert.Equal(t, "2026-02-28", meds[1].ExpiryDate)
}

func TestLoadMedicinesReorderedColumns(t *testing.T) {
	st := newTestStore(t)
	csv := "price,name,quantity\n9.99,Cetirizine,12\n"
	n, err := loadMedicines(context.Background(), st, strings.NewReader(csv), zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	m, err := st.Medicines.FindByNameAndBatch(context.Background(), "Cetirizine", "")
	require.NoError(t, err)
	assert.Equal(t, int64(12), m.Quantity)
}

func TestLoadMedicinesErrors(t *testing.T) {
	st := newTestStore(t)
	_, err := LoadMedicines(context.Background(), st, filepath.Join(t.TempDir(), "missing.csv"), zap.NewNop())
	assert.Error(t, err)

	_, err = loadMedicines(context.Background(), st, strings.NewReader("sku,qty\n1,2\n"), zap.NewNop())
	assert.Error(t, err)
}
