package impexp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/backend/internal/adapters/persistence"
	"orderdesk/backend/internal/domain"
)

func newStorage(t *testing.T) *persistence.Storage {
	t.Helper()
	storage, err := persistence.NewStorage(persistence.NewMemoryStore(), nil)
	require.NoError(t, err)
	return storage
}

func TestExportThenImportCopiesEveryCollection(t *testing.T) {
	ctx := context.Background()
	stamp := time.Date(2025, 8, 3, 10, 0, 0, 0, time.UTC)

	source := newStorage(t)
	require.NoError(t, source.SetCustomers(ctx, []domain.Customer{{ID: "1", Name: "John Doe", Email: "john@example.com", CreatedAt: stamp}}))
	require.NoError(t, source.SetPackages(ctx, []domain.Package{{ID: "1", Name: "Basic", Price: 50, IsAvailable: true}}))
	require.NoError(t, source.SetOrders(ctx, []domain.Order{{ID: "1", CustomerID: "1", PackageID: "1", Amount: 50, Status: domain.OrderStatusPending, CreatedAt: stamp}}))

	exporter, err := NewSnapshotImportExport(source)
	require.NoError(t, err)
	payload, err := exporter.Export(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"__type":"date"`)

	target := newStorage(t)
	importer, err := NewSnapshotImportExport(target)
	require.NoError(t, err)
	require.NoError(t, importer.Import(ctx, payload))

	customers, err := target.Customers(ctx)
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.True(t, stamp.Equal(customers[0].CreatedAt))

	orders, err := target.Orders(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, orders[0].Status)
}

func TestImportLeavesAbsentCollections(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)
	require.NoError(t, storage.SetOrders(ctx, []domain.Order{{ID: "kept", Status: domain.OrderStatusCompleted}}))

	adapter, err := NewSnapshotImportExport(storage)
	require.NoError(t, err)
	require.NoError(t, adapter.Import(ctx, []byte(`{"packages":[{"id":"p1","name":"Solo","price":5,"isAvailable":false}]}`)))

	orders, err := storage.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "kept", orders[0].ID)

	packages, err := storage.Packages(ctx)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "Solo", packages[0].Name)
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	testCases := map[string]string{
		"malformed json":                `{`,
		"array root":                    `[]`,
		"wrong shape":                   `{"orders":"nope"}`,
		"missing id":                    `{"customers":[{"name":"x"}]}`,
		"invalid status":                `{"orders":[{"id":"1","status":"shipped"}]}`,
		"package no id":                 `{"packages":[{"name":"x"}]}`,
		"bad date marker":               `{"orders":[{"id":"1","status":"pending","createdAt":{"__type":"date","value":"x"}}]}`,
		"duplicate email ignoring case": `{"customers":[{"id":"1","name":"A","email":"dup@x.com"},{"id":"2","name":"B","email":"DUP@X.COM"}]}`,
		"customer without name":         `{"customers":[{"id":"1","name":"  ","email":"a@x.com"}]}`,
		"malformed email":               `{"customers":[{"id":"1","name":"A","email":"not-an-email"}]}`,
		"duplicate customer id":         `{"customers":[{"id":"1","name":"A","email":"a@x.com"},{"id":"1","name":"B","email":"b@x.com"}]}`,
		"package without name":          `{"packages":[{"id":"1","name":"","price":5,"isAvailable":true}]}`,
		"duplicate package name":        `{"packages":[{"id":"1","name":"Basic","price":5},{"id":"2","name":" basic ","price":6}]}`,
		"non-positive price":            `{"packages":[{"id":"1","name":"Basic","price":-5}]}`,
		"non-positive amount":           `{"orders":[{"id":"1","customerId":"1","packageId":"1","amount":0,"status":"pending"}]}`,
		"order without references":      `{"orders":[{"id":"1","amount":5,"status":"pending"}]}`,
		"duplicate order id":            `{"orders":[{"id":"1","customerId":"1","packageId":"1","amount":5,"status":"pending"},{"id":"1","customerId":"1","packageId":"1","amount":5,"status":"pending"}]}`,
	}

	for name, payload := range testCases {
		t.Run(name, func(t *testing.T) {
			storage := newStorage(t)
			adapter, err := NewSnapshotImportExport(storage)
			require.NoError(t, err)

			err = adapter.Import(context.Background(), []byte(payload))
			assert.ErrorIs(t, err, domain.ErrValidation)

			orders, err := storage.Orders(context.Background())
			require.NoError(t, err)
			assert.Empty(t, orders)
			customers, err := storage.Customers(context.Background())
			require.NoError(t, err)
			assert.Empty(t, customers)
			packages, err := storage.Packages(context.Background())
			require.NoError(t, err)
			assert.Empty(t, packages)
		})
	}

	_, err := NewSnapshotImportExport(nil)
	assert.Error(t, err)
}

type failingPackages struct {
	*persistence.Storage
}

func (f failingPackages) SetPackages(context.Context, []domain.Package) error {
	return errors.New("disk full")
}

func TestImportRestoresCollectionsWhenAWriteFails(t *testing.T) {
	ctx := context.Background()
	storage := newStorage(t)
	original := []domain.Customer{{ID: "1", Name: "John Doe", Email: "john@example.com"}}
	require.NoError(t, storage.SetCustomers(ctx, original))

	adapter, err := NewSnapshotImportExport(failingPackages{Storage: storage})
	require.NoError(t, err)

	err = adapter.Import(ctx, []byte(`{
		"customers":[{"id":"9","name":"New","email":"new@example.com"}],
		"packages":[{"id":"9","name":"Gold","price":10,"isAvailable":true}]
	}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "disk full")

	customers, err := storage.Customers(ctx)
	require.NoError(t, err)
	assert.Equal(t, original, customers)
}
