package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orderdesk/backend/internal/domain"
)

func TestDashboardCountsCollections(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result := svc.Dashboard(ctx)
	require.True(t, result.Success)
	assert.Equal(t, domain.Dashboard{Orders: 3, Customers: 2, Packages: 2}, result.Data)

	require.True(t, svc.DeleteOrder(ctx, "1").Success)
	result = svc.Dashboard(ctx)
	require.True(t, result.Success)
	assert.Equal(t, 2, result.Data.Orders)
}

func TestExportImportRoundTrip(t *testing.T) {
	source := newTestService(t)
	ctx := context.Background()
	require.True(t, source.CreateCustomer(ctx, domain.CustomerInput{Name: "Extra", Email: "extra@example.com"}).Success)

	exported := source.Export(ctx)
	require.True(t, exported.Success)
	assert.Contains(t, string(exported.Data), `"__type":"date"`)

	target := newTestService(t)
	require.True(t, target.DeleteOrder(ctx, "1").Success)

	imported := target.Import(ctx, exported.Data)
	require.True(t, imported.Success)
	assert.Equal(t, domain.Dashboard{Orders: 3, Customers: 3, Packages: 2}, imported.Data)

	customers := target.ListCustomers(ctx, ListParams{Search: "extra"})
	require.True(t, customers.Success)
	require.Len(t, customers.Data, 1)
}

func TestImportRejectsBadPayload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	apiErr := requireFailure(t, svc.Import(ctx, []byte(`{"orders":[{"id":"","status":"pending"}]}`)), domain.ErrorTypeValidation)
	assert.Equal(t, []domain.FieldError{{Field: "payload", Message: "Invalid import payload"}}, apiErr.Errors)

	result := svc.Dashboard(ctx)
	require.True(t, result.Success)
	assert.Equal(t, 3, result.Data.Orders)
}

func TestImportRejectsRecordsThatBreakWriteRules(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	payload := `{
		"customers":[
			{"id":"10","name":"Dup","email":"dup@x.com"},
			{"id":"11","name":"","email":"DUP@X.COM"}
		],
		"packages":[{"id":"10","name":"","price":-5,"isAvailable":false}]
	}`
	requireFailure(t, svc.Import(ctx, []byte(payload)), domain.ErrorTypeValidation)

	customers := svc.ListCustomers(ctx, ListParams{})
	require.True(t, customers.Success)
	assert.Len(t, customers.Data, 2)
	packages := svc.ListPackages(ctx, ListParams{})
	require.True(t, packages.Success)
	assert.Len(t, packages.Data, 2)
}
