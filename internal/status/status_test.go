package status_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/commerce-ops/opsboard/internal/entity"
	"github.com/commerce-ops/opsboard/internal/status"
)

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		name  string
		order entity.OrderSummary
		want  status.Derived
	}{
		{
			name:  "no flags",
			order: entity.OrderSummary{},
			want:  status.Derived{Status: status.KindInactive, Label: "Unknown"},
		},
		{
			name:  "placed only",
			order: entity.OrderSummary{Placed: true},
			want:  status.Derived{Status: status.KindPending, Label: "Placed"},
		},
		{
			name:  "confirmed wins over placed",
			order: entity.OrderSummary{Placed: true, Confirmed: true},
			want:  status.Derived{Status: status.KindProcessing, Label: "Confirmed"},
		},
		{
			name:  "processed wins over confirmed",
			order: entity.OrderSummary{Placed: true, Confirmed: true, Processed: true},
			want:  status.Derived{Status: status.KindProcessing, Label: "Processed"},
		},
		{
			name:  "shipped wins over processed",
			order: entity.OrderSummary{Placed: true, Confirmed: true, Processed: true, Shipped: true},
			want:  status.Derived{Status: status.KindProcessing, Label: "Shipped"},
		},
		{
			name:  "delivered wins over shipped",
			order: entity.OrderSummary{Placed: true, Confirmed: true, Processed: true, Shipped: true, Delivered: true},
			want:  status.Derived{Status: status.KindCompleted, Label: "Delivered"},
		},
		{
			name:  "cancelled wins over delivered",
			order: entity.OrderSummary{Placed: true, Delivered: true, Cancelled: true},
			want:  status.Derived{Status: status.KindCancelled, Label: "Cancelled"},
		},
		{
			name:  "cancelled alone",
			order: entity.OrderSummary{Cancelled: true},
			want:  status.Derived{Status: status.KindCancelled, Label: "Cancelled"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, status.Derive(tt.order))
		})
	}
}

func TestDeriveIsTotal(t *testing.T) {
	// Every one of the 64 flag combinations must resolve to a known bucket.
	known := map[status.Kind]bool{
		status.KindPending:    true,
		status.KindProcessing: true,
		status.KindCompleted:  true,
		status.KindCancelled:  true,
		status.KindInactive:   true,
	}

	for mask := 0; mask < 64; mask++ {
		o := entity.OrderSummary{
			Placed:    mask&1 != 0,
			Confirmed: mask&2 != 0,
			Processed: mask&4 != 0,
			Shipped:   mask&8 != 0,
			Delivered: mask&16 != 0,
			Cancelled: mask&32 != 0,
		}
		d := status.Derive(o)
		assert.True(t, known[d.Status], "mask %d produced unknown status %q", mask, d.Status)
		assert.NotEmpty(t, d.Label)
		if o.Cancelled {
			assert.Equal(t, status.KindCancelled, d.Status, "cancelled must win for mask %d", mask)
		}
	}
}

func TestDeriveProgressIndependentOfPriority(t *testing.T) {
	o := entity.OrderSummary{Placed: true, Confirmed: true, Processed: true, Shipped: true}

	steps := status.DeriveProgress(o)
	assert.Len(t, steps, 5)

	completed := make([]bool, 0, len(steps))
	for _, s := range steps {
		completed = append(completed, s.Completed)
	}
	// Shipped but not delivered: steps 1-4 complete, step 5 incomplete,
	// even though the canonical status collapses to "Shipped".
	assert.Equal(t, []bool{true, true, true, true, false}, completed)
	assert.Equal(t, "Shipped", status.Derive(o).Label)
}

func TestDeriveProgressIgnoresCancellation(t *testing.T) {
	o := entity.OrderSummary{Placed: true, Confirmed: true, Cancelled: true}

	steps := status.DeriveProgress(o)
	assert.True(t, steps[0].Completed)
	assert.True(t, steps[1].Completed)
	assert.False(t, steps[2].Completed)
	assert.Equal(t, "Cancelled", status.Derive(o).Label)
}
