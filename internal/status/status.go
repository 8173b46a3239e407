package status

import "github.com/commerce-ops/opsboard/internal/entity"

// Kind is the canonical order state bucket used for badges and metrics.
type Kind string

const (
	KindPending    Kind = "pending"
	KindProcessing Kind = "processing"
	KindCompleted  Kind = "completed"
	KindCancelled  Kind = "cancelled"
	KindInactive   Kind = "inactive"
)

// Derived pairs the canonical status with its display label.
type Derived struct {
	Status Kind
	Label  string
}

// Step is one entry of the five-step progress trail.
type Step struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	Completed bool   `json:"completed"`
}

// Derive maps an order's flag set to a single canonical status. Evaluation is
// top to bottom, first match wins: cancellation overrides everything, then
// later pipeline stages override earlier ones because order progress is
// monotonic forward motion interrupted only by cancellation. An order with no
// flags set resolves to inactive/"Unknown" rather than failing.
func Derive(o entity.OrderSummary) Derived {
	switch {
	case o.Cancelled:
		return Derived{Status: KindCancelled, Label: "Cancelled"}
	case o.Delivered:
		return Derived{Status: KindCompleted, Label: "Delivered"}
	case o.Shipped:
		return Derived{Status: KindProcessing, Label: "Shipped"}
	case o.Processed:
		return Derived{Status: KindProcessing, Label: "Processed"}
	case o.Confirmed:
		return Derived{Status: KindProcessing, Label: "Confirmed"}
	case o.Placed:
		return Derived{Status: KindPending, Label: "Placed"}
	default:
		return Derived{Status: KindInactive, Label: "Unknown"}
	}
}

// DeriveProgress reports every pipeline step independently. It deliberately
// does not collapse through the priority rule: a shipped-but-undelivered
// order shows four completed steps even though its canonical label is
// "Shipped".
func DeriveProgress(o entity.OrderSummary) []Step {
	return []Step{
		{Key: "placed", Label: "Placed", Completed: o.Placed},
		{Key: "confirmed", Label: "Confirmed", Completed: o.Confirmed},
		{Key: "processed", Label: "Processed", Completed: o.Processed},
		{Key: "shipped", Label: "Shipped", Completed: o.Shipped},
		{Key: "delivered", Label: "Delivered", Completed: o.Delivered},
	}
}
