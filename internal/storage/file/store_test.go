package file_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/order-tracker/internal/domain"
	"github.com/vladislavdragonenkov/order-tracker/internal/storage/file"
)

func newOrders() []domain.Order {
	return []domain.Order{
		{
			ID:       "A1",
			Customer: "Bob",
			Items:    []domain.Item{{Name: "Tea", Price: 30, Quantity: 2}},
		},
		{
			ID:       "B2",
			Customer: "王小明",
			Items: []domain.Item{
				{Name: "珍珠奶茶 <large>", Price: 65, Quantity: 1},
				{Name: "Bagel & jam", Price: 0, Quantity: 4},
			},
		},
	}
}

func TestLoad_MissingFileIsEmptyAndIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")

	for i := 0; i < 2; i++ {
		orders, err := file.Load(path)
		require.NoError(t, err)
		require.NotNil(t, orders)
		require.Empty(t, orders)
	}

	_, err := os.Stat(path)
	require.True(t, os.IsNotExist(err), "load must not create the file")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	orders := newOrders()

	require.NoError(t, file.Save(path, orders))

	loaded, err := file.Load(path)
	require.NoError(t, err)
	require.Equal(t, orders, loaded)
}

func TestSave_PrettyPrintedLiteralUnicode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, file.Save(path, newOrders()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)

	require.Contains(t, content, "王小明")
	require.Contains(t, content, "<large>")
	require.Contains(t, content, "Bagel & jam")
	require.NotContains(t, content, `\u`)
	require.Contains(t, content, "\n    {\n        \"order_id\": \"A1\",")
}

func TestSave_OverwritesAndEmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, file.Save(path, newOrders()))
	require.NoError(t, file.Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", strings.TrimSpace(string(data)))

	loaded, err := file.Load(path)
	require.NoError(t, err)
	require.Empty(t, loaded)
}

func TestLoad_MalformedData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"order_id": "A1",`), 0o644))

	_, err := file.Load(path)
	require.ErrorIs(t, err, domain.ErrMalformedData)
}

func TestStore_RoutesCollectionsToPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := file.Config{
		PendingPath:   filepath.Join(dir, "pending.json"),
		CompletedPath: filepath.Join(dir, "done.json"),
	}
	store := file.NewStore(cfg, nil)
	ctx := context.Background()
	orders := newOrders()

	require.NoError(t, store.Save(ctx, domain.CollectionPending, orders[:1]))
	require.NoError(t, store.Save(ctx, domain.CollectionCompleted, orders[1:]))

	pending, err := file.Load(cfg.PendingPath)
	require.NoError(t, err)
	require.Equal(t, orders[:1], pending)

	completed, err := store.Load(ctx, domain.CollectionCompleted)
	require.NoError(t, err)
	require.Equal(t, orders[1:], completed)

	_, err = store.Load(ctx, domain.Collection("archive"))
	require.ErrorIs(t, err, domain.ErrUnknownCollection)
}

func TestDefaultConfig(t *testing.T) {
	cfg := file.DefaultConfig()
	require.Equal(t, "orders.json", cfg.PendingPath)
	require.Equal(t, "output_orders.json", cfg.CompletedPath)
}
