package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"pharmacy/m/domain"
	"pharmacy/m/internal/store"
)

// LoadMedicines ingests a CSV catalog into the medicines table. The first row
// must be a header naming the columns. Rows whose name and batch number are
// already stored are skipped, so loading the same file twice is harmless.
func LoadMedicines(ctx context.Context, st *store.Store, path string, log *zap.Logger) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open medicine catalog %s: %w", path, err)
	}
	defer file.Close()

	return loadMedicines(ctx, st, file, log)
}

func loadMedicines(ctx context.Context, st *store.Store, r io.Reader, log *zap.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read medicine header: %w", err)
	}
	index := map[string]int{}
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := index["name"]; !ok {
		return 0, errors.New("medicine catalog has no name column")
	}

	rows := 0
	err = st.RunInTx(ctx, func(tx *store.Store) error {
		line := 1
		for {
			record, err := reader.Read()
			if err == io.EOF {
				return nil
			}
			line++
			if err != nil {
				log.Warn("unable to read medicine row", zap.Int("line", line), zap.Error(err))
				continue
			}

			m, err := parseMedicine(index, record)
			if err != nil {
				log.Warn("skipping medicine row", zap.Int("line", line), zap.Error(err))
				continue
			}
			if m.Name == "" {
				continue
			}

			_, err = tx.Medicines.FindByNameAndBatch(ctx, m.Name, m.BatchNumber)
			if err == nil {
				continue
			}
			if !errors.Is(err, store.ErrNotFound) {
				return err
			}
			if err := tx.Medicines.Insert(ctx, m); err != nil {
				return err
			}
			rows++
		}
	})
	if err != nil {
		return 0, err
	}

	log.Info("seeded medicine catalog", zap.Int("rows", rows))
	return rows, nil
}

func parseMedicine(index map[string]int, record []string) (*domain.Medicine, error) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	m := &domain.Medicine{
		Name:        field("name"),
		Company:     field("company"),
		Category:    field("category"),
		BatchNumber: field("batch_number"),
		ExpiryDate:  field("expiry_date"),
	}
	if q := field("quantity"); q != "" {
		n, err := strconv.ParseInt(q, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("quantity %q: %w", q, err)
		}
		m.Quantity = n
	}
	if p := field("price"); p != "" {
		d, err := decimal.NewFromString(p)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", p, err)
		}
		m.Price = d
	}
	return m, nil
}
