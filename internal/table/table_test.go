package table_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commerce-ops/opsboard/internal/table"
)

type row struct {
	OrderID  string
	Customer string
	Amount   int
}

func testColumns() []table.Column[row] {
	return []table.Column[row]{
		{
			Key:   "orderId",
			Label: "Order ID",
			Value: func(r row) any { return r.OrderID },
		},
		{
			Key:   "customer",
			Label: "Customer",
			Value: func(r row) any { return r.Customer },
		},
		{
			Key:   "amount",
			Label: "Amount",
			Value: func(r row) any { return r.Amount },
			Render: func(v any, r row) string {
				return fmt.Sprintf("₹%d", r.Amount)
			},
		},
	}
}

func newOrderEngine(rows []row, opts ...table.Option[row]) *table.Engine[row] {
	opts = append([]table.Option[row]{
		table.WithSearchKey[row](func(r row) any { return r.OrderID }),
	}, opts...)
	e := table.NewEngine(testColumns(), opts...)
	e.SetRecords(rows)
	return e
}

func makeRows(n int) []row {
	rows := make([]row, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, row{
			OrderID:  fmt.Sprintf("ORD-%03d", i),
			Customer: fmt.Sprintf("customer-%d", i),
			Amount:   i * 10,
		})
	}
	return rows
}

func TestViewCaseInsensitiveSearch(t *testing.T) {
	e := newOrderEngine([]row{
		{OrderID: "abc-1"},
		{OrderID: "xyz-2"},
		{OrderID: "myABCid"},
	})

	e.Search("ABC")
	v := e.View()

	require.Len(t, v.Records, 2)
	assert.Equal(t, "abc-1", v.Records[0].OrderID)
	assert.Equal(t, "myABCid", v.Records[1].OrderID)
}

func TestSearchTermChangeResetsPage(t *testing.T) {
	e := newOrderEngine(makeRows(30))

	e.SetPage(2)
	assert.Equal(t, 2, e.View().PageIndex)

	e.Search("ORD")
	assert.Equal(t, 0, e.View().PageIndex)

	// Re-applying the same term keeps the page.
	e.SetPage(1)
	e.Search("ORD")
	assert.Equal(t, 1, e.View().PageIndex)
}

func TestPaginationBoundaries(t *testing.T) {
	e := newOrderEngine(makeRows(23))

	v := e.View()
	assert.Len(t, v.Records, 10)
	assert.Equal(t, 3, v.PageCount)
	assert.Equal(t, 23, v.TotalFiltered)
	assert.True(t, v.HasNext)
	assert.False(t, v.HasPrevious)

	e.SetPage(1)
	v = e.View()
	assert.Len(t, v.Records, 10)
	assert.True(t, v.HasNext)
	assert.True(t, v.HasPrevious)

	e.SetPage(2)
	v = e.View()
	assert.Len(t, v.Records, 3)
	assert.False(t, v.HasNext)
	assert.True(t, v.HasPrevious)

	// Beyond the last page: empty, not an error.
	e.SetPage(7)
	v = e.View()
	assert.Empty(t, v.Records)
	assert.False(t, v.HasNext)
}

func TestNextPreviousNavigation(t *testing.T) {
	e := newOrderEngine(makeRows(15), table.WithPageSize[row](5))

	e.NextPage()
	e.NextPage()
	assert.Equal(t, 2, e.View().PageIndex)

	// Already on the last page.
	e.NextPage()
	assert.Equal(t, 2, e.View().PageIndex)

	e.PreviousPage()
	assert.Equal(t, 1, e.View().PageIndex)

	e.PreviousPage()
	e.PreviousPage()
	assert.Equal(t, 0, e.View().PageIndex)
}

func TestEmptyFilterResultIsNoResultsState(t *testing.T) {
	e := newOrderEngine(makeRows(5))

	e.Search("no-such-order")
	v := e.View()

	assert.True(t, v.NoResults)
	assert.Empty(t, v.Records)
	assert.Equal(t, 0, v.PageCount)
}

func TestEmptySearchTermYieldsUnfiltered(t *testing.T) {
	e := newOrderEngine(makeRows(12))

	e.Search("ORD-001")
	assert.Equal(t, 1, e.View().TotalFiltered)

	e.Search("")
	assert.Equal(t, 12, e.View().TotalFiltered)
}

func TestLoadingSuppressesStaleRows(t *testing.T) {
	e := newOrderEngine(makeRows(8))

	e.SetLoading(true)
	v := e.View()
	assert.True(t, v.Loading)
	assert.Empty(t, v.Rows)
	assert.Empty(t, v.Records)

	e.SetLoading(false)
	assert.Len(t, e.View().Rows, 8)
}

func TestRenderingUsesCustomAndDefaultRenderers(t *testing.T) {
	e := newOrderEngine([]row{{OrderID: "ORD-1", Customer: "alice", Amount: 250}})

	v := e.View()
	require.Len(t, v.Rows, 1)
	cells := v.Rows[0].Cells
	require.Len(t, cells, 3)

	assert.Equal(t, "orderId", cells[0].Key)
	assert.Equal(t, "ORD-1", cells[0].Value)
	assert.Equal(t, "alice", cells[1].Value)
	// Custom renderer output.
	assert.Equal(t, "₹250", cells[2].Value)
}

func TestRenderingDoesNotMutateRecords(t *testing.T) {
	rows := makeRows(3)
	original := append([]row(nil), rows...)

	cols := testColumns()
	cols = append(cols, table.Column[row]{
		Key:   "shout",
		Label: "Shout",
		Value: func(r row) any { return r.Customer },
		Render: func(v any, r row) string {
			r.Customer = strings.ToUpper(r.Customer)
			return r.Customer
		},
	})

	e := table.NewEngine(cols)
	e.SetRecords(rows)
	_ = e.View()

	assert.Equal(t, original, rows)
}
