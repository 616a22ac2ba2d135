package cache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tahirfruitchaat/pos-api/models"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestProductSnapshotRoundTrip(t *testing.T) {
	store := newStore(t)

	in := []models.Product{
		{Name: "Chicken Biryani", FullPrice: 300, HalfPrice: 160, FullStock: 10, HalfStock: 5},
		{Name: "Soft Drink", FullPrice: 80, FullStock: 24, IsSolo: true},
	}
	require.NoError(t, store.SnapshotProducts(in))

	out, err := store.LoadProducts()
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Chicken Biryani", out[0].Name)
	assert.Equal(t, 160.0, out[0].HalfPrice)
	assert.True(t, out[1].IsSolo)
}

func TestSalesSnapshotRoundTrip(t *testing.T) {
	store := newStore(t)

	in := []models.Sale{
		{
			InvoiceID: "INV-000001", Total: 320, OrderTaker: "Ahmad",
			PaymentMethod: models.PaymentCash, OrderType: models.OrderDineIn,
			Items: []models.SaleItem{
				{ProductID: 1, Name: "Chicken Biryani", UnitPrice: 160, PlateType: models.PlateHalf, Quantity: 2},
			},
		},
	}
	require.NoError(t, store.SnapshotSales(in))

	out, err := store.LoadSales()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "INV-000001", out[0].InvoiceID)
	require.Len(t, out[0].Items, 1)
	assert.Equal(t, models.PlateHalf, out[0].Items[0].PlateType)
}

func TestLoadMissingSnapshotReturnsNothing(t *testing.T) {
	store := newStore(t)

	products, err := store.LoadProducts()
	require.NoError(t, err)
	assert.Empty(t, products)

	takers, err := store.LoadOrderTakers()
	require.NoError(t, err)
	assert.Empty(t, takers)
}

func TestSnapshotOverwritesPrevious(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.SnapshotOrderTakers([]models.OrderTaker{{Name: "Ahmad"}, {Name: "Bilal"}}))
	require.NoError(t, store.SnapshotOrderTakers([]models.OrderTaker{{Name: "Ahmad", Balance: 500}}))

	out, err := store.LoadOrderTakers()
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 500.0, out[0].Balance)
}

func TestArchiveCopiesSnapshotsAndPrunes(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.SnapshotProducts([]models.Product{{Name: "Chaat"}}))

	// A stale archive from well past the retention window.
	staleDir := filepath.Join(dir, "archive", "2020-01-01_00-00-00")
	require.NoError(t, os.MkdirAll(staleDir, 0755))
	old := time.Now().Add(-10 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(staleDir, old, old))

	require.NoError(t, store.Archive(4*24*time.Hour))

	entries, err := os.ReadDir(filepath.Join(dir, "archive"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "stale archive pruned, fresh one kept")

	archived, err := os.ReadFile(filepath.Join(dir, "archive", entries[0].Name(), "products.json"))
	require.NoError(t, err)
	assert.Contains(t, string(archived), "Chaat")
}

func TestArchiveSkipsMissingFiles(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Archive(24*time.Hour))
}
