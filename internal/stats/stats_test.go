package stats_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/stats"
)

func enriched(placed, confirmed, shipped, delivered, cancelled bool, amount int64) entity.EnrichedOrder {
	return entity.EnrichedOrder{
		OrderSummary: entity.OrderSummary{
			Placed:    placed,
			Confirmed: confirmed,
			Shipped:   shipped,
			Delivered: delivered,
			Cancelled: cancelled,
		},
		ActualAmount: decimal.NewFromInt(amount),
	}
}

func TestAggregateEmpty(t *testing.T) {
	m := stats.Aggregate(nil)

	assert.Equal(t, 0, m.Total)
	assert.Equal(t, 0, m.Pending)
	assert.Equal(t, 0, m.InTransit)
	assert.Equal(t, 0, m.Completed)
	assert.Equal(t, 0, m.Cancelled)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.True(t, m.AverageOrderValue.IsZero())
	assert.Equal(t, 0, m.CompletionRate)
}

func TestAggregateCounts(t *testing.T) {
	orders := []entity.EnrichedOrder{
		enriched(true, false, false, false, false, 100), // pending
		enriched(true, true, true, false, false, 200),   // in transit
		enriched(true, true, true, true, false, 300),    // completed
		enriched(true, false, false, false, true, 400),  // cancelled, excluded from revenue
	}

	m := stats.Aggregate(orders)

	assert.Equal(t, 4, m.Total)
	assert.Equal(t, 1, m.Pending)
	assert.Equal(t, 1, m.InTransit)
	assert.Equal(t, 1, m.Completed)
	assert.Equal(t, 1, m.Cancelled)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(600)))
	assert.True(t, m.AverageOrderValue.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 25, m.CompletionRate)
}

func TestAggregateDeliveredAndCancelledCountsAsCompleted(t *testing.T) {
	// Mirrors upstream behavior: a delivered order stays in the completed
	// count even when it was later cancelled, and its amount stays out of
	// revenue.
	orders := []entity.EnrichedOrder{
		enriched(true, true, true, true, true, 500),
	}

	m := stats.Aggregate(orders)

	assert.Equal(t, 1, m.Completed)
	assert.Equal(t, 1, m.Cancelled)
	assert.True(t, m.TotalRevenue.IsZero())
	assert.Equal(t, 100, m.CompletionRate)
}

func TestAggregateOrderIndependent(t *testing.T) {
	orders := []entity.EnrichedOrder{
		enriched(true, false, false, false, false, 10),
		enriched(true, true, true, false, false, 20),
		enriched(true, true, true, true, false, 30),
		enriched(false, false, false, false, true, 40),
		enriched(true, true, false, false, false, 50),
	}

	want := stats.Aggregate(orders)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := append([]entity.EnrichedOrder(nil), orders...)
		r.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := stats.Aggregate(shuffled)
		assert.Equal(t, want.Total, got.Total)
		assert.Equal(t, want.Pending, got.Pending)
		assert.Equal(t, want.InTransit, got.InTransit)
		assert.Equal(t, want.Completed, got.Completed)
		assert.Equal(t, want.Cancelled, got.Cancelled)
		assert.True(t, want.TotalRevenue.Equal(got.TotalRevenue))
		assert.True(t, want.AverageOrderValue.Equal(got.AverageOrderValue))
		assert.Equal(t, want.CompletionRate, got.CompletionRate)
	}
}

func TestAggregateEndToEndScenario(t *testing.T) {
	// Summary A is placed+cancelled with a failed detail fetch; summary B is
	// delivered with a 120 detail cost.
	orders := []entity.EnrichedOrder{
		{
			OrderSummary: entity.OrderSummary{OrderID: "A", Placed: true, Cancelled: true, DeliveryFee: decimal.NewFromInt(50)},
			ActualAmount: decimal.Zero,
		},
		{
			OrderSummary: entity.OrderSummary{OrderID: "B", Delivered: true, DeliveryFee: decimal.NewFromInt(100)},
			ActualAmount: decimal.NewFromInt(120),
		},
	}

	m := stats.Aggregate(orders)

	assert.Equal(t, 2, m.Total)
	assert.Equal(t, 1, m.Cancelled)
	assert.Equal(t, 1, m.Completed)
	assert.True(t, m.TotalRevenue.Equal(decimal.NewFromInt(120)))
	assert.True(t, m.AverageOrderValue.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 50, m.CompletionRate)
}
