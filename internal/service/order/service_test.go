package order_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/commerce-ops/opsboard/internal/cache"
	"github.com/commerce-ops/opsboard/internal/enrich"
	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/service/order"
	"github.com/commerce-ops/opsboard/pkg/errorbank"
)

type fakeBackend struct {
	summaries []entity.OrderSummary
	err       error
	calls     int

	details    map[string]*entity.OrderDetail
	detailErrs map[string]error
}

func (f *fakeBackend) OrderSummaries(ctx context.Context) ([]entity.OrderSummary, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.summaries, nil
}

func (f *fakeBackend) OrderDetail(ctx context.Context, orderID string) (*entity.OrderDetail, error) {
	if err, ok := f.detailErrs[orderID]; ok {
		return nil, err
	}
	if d, ok := f.details[orderID]; ok {
		return d, nil
	}
	return nil, errors.New("no detail")
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: make(map[string][]byte)}
}

func (m *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, cache.ErrCacheMiss
}

func (m *memoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func newService(backend *fakeBackend) (*order.Service, *memoryStore) {
	store := newMemoryStore()
	pipeline := enrich.New(backend, zap.NewNop(), 4)
	svc := order.New(backend, pipeline, store, time.Minute, zap.NewNop())
	return svc, store
}

func TestListEndToEnd(t *testing.T) {
	backend := &fakeBackend{
		summaries: []entity.OrderSummary{
			{OrderID: "A", Placed: true, Cancelled: true, DeliveryFee: decimal.NewFromInt(50)},
			{OrderID: "B", Delivered: true, DeliveryFee: decimal.NewFromInt(100)},
		},
		details: map[string]*entity.OrderDetail{
			"B": {SubOrderID: "B", SubOrderCost: decimal.NewFromInt(120)},
		},
		detailErrs: map[string]error{
			"A": errors.New("detail unavailable"),
		},
	}
	svc, _ := newService(backend)

	orders, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, "cancelled", orders[0].Status)
	assert.True(t, orders[0].ActualAmount.IsZero())
	assert.Nil(t, orders[0].Detail)

	assert.Equal(t, "completed", orders[1].Status)
	assert.True(t, orders[1].ActualAmount.Equal(decimal.NewFromInt(120)))

	m, err := svc.Overview(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, m.Total)
	assert.Equal(t, 1, m.Cancelled)
	assert.Equal(t, 1, m.Completed)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, m.AverageOrderValue.Equal(decimal.NewFromInt(60)))
}

func TestListFatalWhenSummaryFetchFails(t *testing.T) {
	backend := &fakeBackend{err: errors.New("network down")}
	svc, _ := newService(backend)

	orders, err := svc.List(context.Background(), false)
	assert.Nil(t, orders)
	require.Error(t, err)
	assert.Equal(t, errorbank.KindUpstream, errorbank.From(err).Kind())
}

func TestListServedFromCacheUntilRefresh(t *testing.T) {
	backend := &fakeBackend{
		summaries: []entity.OrderSummary{{OrderID: "A", Placed: true}},
		details: map[string]*entity.OrderDetail{
			"A": {SubOrderID: "A", SubOrderCost: decimal.NewFromInt(10)},
		},
	}
	svc, _ := newService(backend)

	_, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)

	// Second read hits the cache.
	_, err = svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.calls)

	// Refresh always runs a new pass.
	_, err = svc.List(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestInvalidateDropsCachedBatch(t *testing.T) {
	backend := &fakeBackend{
		summaries: []entity.OrderSummary{{OrderID: "A", Placed: true}},
		details: map[string]*entity.OrderDetail{
			"A": {SubOrderID: "A", SubOrderCost: decimal.NewFromInt(10)},
		},
	}
	svc, _ := newService(backend)

	_, err := svc.List(context.Background(), false)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.List(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 2, backend.calls)
}

func TestGetReturnsProgressTrail(t *testing.T) {
	backend := &fakeBackend{
		summaries: []entity.OrderSummary{
			{OrderID: "A", Placed: true, Confirmed: true, Processed: true, Shipped: true},
		},
		details: map[string]*entity.OrderDetail{
			"A": {SubOrderID: "A", SubOrderCost: decimal.NewFromInt(75)},
		},
	}
	svc, _ := newService(backend)

	o, steps, err := svc.Get(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Shipped", o.StatusText)
	require.Len(t, steps, 5)
	assert.True(t, steps[3].Completed)
	assert.False(t, steps[4].Completed)

	_, _, err = svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, errorbank.KindNotFound, errorbank.From(err).Kind())
}
