package view

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"orders-bff/internal/models"
	"orders-bff/internal/orders"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func orderRow() models.OrderRow {
	return models.OrderRow{
		OrderLine: models.OrderLine{ID: "ord-1", UserID: "u-1", ProductID: "p-1", Quantity: 2, TotalPrice: decimal.NewFromInt(100000)},
		Name:      "Phone",
		ImageURI:  "https://img/p-1.png",
	}
}

func TestResolveLoaded(t *testing.T) {
	state := Resolve([]models.OrderRow{orderRow()}, nil)

	require.Equal(t, PhaseLoaded, state.Phase)
	require.Nil(t, state.Notice)
	require.Len(t, state.Rows, 1)
	row := state.Rows[0]
	require.Equal(t, "Phone", row.Name)
	require.Equal(t, "https://img/p-1.png", row.ImageURI)
	require.Equal(t, 2, row.Quantity)
	require.Equal(t, "Số lượng: 2", row.QuantityLabel)
	require.Equal(t, "Giá: 100000 VNĐ", row.PriceLabel)
}

func TestResolveEmpty(t *testing.T) {
	state := Resolve([]models.OrderRow{}, nil)

	require.Equal(t, PhaseEmpty, state.Phase)
	require.Equal(t, EmptyMessage, state.EmptyMessage)
	require.Empty(t, state.Rows)
	require.Nil(t, state.Notice)
}

func TestResolveNotSignedIn(t *testing.T) {
	state := Resolve(nil, fmt.Errorf("wrapped: %w", orders.ErrNotSignedIn))

	require.Equal(t, PhaseFailed, state.Phase)
	require.Equal(t, ReasonNotSignedIn, state.Reason)
	require.Equal(t, NoticeNotSignedIn, *state.Notice)
}

func TestResolveFetchFailedHidesError(t *testing.T) {
	state := Resolve(nil, errors.New("mongo: connection refused 10.0.0.3"))

	require.Equal(t, PhaseFailed, state.Phase)
	require.Equal(t, ReasonFetchFailed, state.Reason)
	require.Equal(t, NoticeFetchFailed, *state.Notice)

	data, err := json.Marshal(state)
	require.NoError(t, err)
	require.NotContains(t, string(data), "10.0.0.3")
}

func TestFailedNoticesAreIndependentCopies(t *testing.T) {
	a := FetchFailed()
	a.Notice.Message = "changed"

	require.Equal(t, NoticeFetchFailed.Message, FetchFailed().Notice.Message)
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "100000 VNĐ", FormatPrice(decimal.NewFromInt(100000)))
	require.Equal(t, "19.5 VNĐ", FormatPrice(decimal.RequireFromString("19.50")))
}

func TestStateJSONRoundTrip(t *testing.T) {
	in := Resolve([]models.OrderRow{orderRow()}, nil)

	data, err := json.Marshal(in)
	require.NoError(t, err)
	require.Contains(t, string(data), `"state":"loaded"`)

	var out State
	require.NoError(t, json.Unmarshal(data, &out))
	require.Equal(t, PhaseLoaded, out.Phase)
	require.True(t, in.Rows[0].TotalPrice.Equal(out.Rows[0].TotalPrice))
	require.Equal(t, in.Rows[0].PriceLabel, out.Rows[0].PriceLabel)
}
