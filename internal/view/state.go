// Package view turns a fetch outcome into the state the order-history
// screen renders: loading, a populated list, an empty list or a failure
// with a notice.
package view

import (
	"errors"
	"fmt"

	"orders-bff/internal/models"
	"orders-bff/internal/orders"

	"github.com/shopspring/decimal"
)

const (
	EmptyMessage = "Bạn chưa có đơn hàng nào!"
	Currency     = "VNĐ"
)

var (
	NoticeNotSignedIn = Notice{Title: "Thông báo", Message: "Bạn chưa đăng nhập!"}
	NoticeFetchFailed = Notice{Message: "Có lỗi xảy ra khi lấy danh sách đơn hàng!"}
)

type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseLoaded  Phase = "loaded"
	PhaseEmpty   Phase = "empty"
	PhaseFailed  Phase = "failed"
)

type Reason string

const (
	ReasonNotSignedIn Reason = "not_signed_in"
	ReasonFetchFailed Reason = "fetch_failed"
)

// Notice is a blocking alert with a fixed message. It carries no error
// detail.
type Notice struct {
	Title   string `json:"title,omitempty"`
	Message string `json:"message"`
}

type Row struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	ImageURI      string          `json:"imageUri"`
	Quantity      int             `json:"quantity"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	QuantityLabel string          `json:"quantityLabel"`
	PriceLabel    string          `json:"priceLabel"`
}

type State struct {
	Phase        Phase   `json:"state"`
	Rows         []Row   `json:"rows"`
	Reason       Reason  `json:"reason,omitempty"`
	Notice       *Notice `json:"notice,omitempty"`
	EmptyMessage string  `json:"emptyMessage,omitempty"`
}

func Loading() State {
	return State{Phase: PhaseLoading, Rows: []Row{}}
}

func NotSignedIn() State {
	notice := NoticeNotSignedIn
	return State{Phase: PhaseFailed, Rows: []Row{}, Reason: ReasonNotSignedIn, Notice: &notice}
}

func FetchFailed() State {
	notice := NoticeFetchFailed
	return State{Phase: PhaseFailed, Rows: []Row{}, Reason: ReasonFetchFailed, Notice: &notice}
}

// Resolve maps the result of orders.Fetcher.Fetch to a screen state.
func Resolve(rows []models.OrderRow, err error) State {
	switch {
	case errors.Is(err, orders.ErrNotSignedIn):
		return NotSignedIn()
	case err != nil:
		return FetchFailed()
	case len(rows) == 0:
		return State{Phase: PhaseEmpty, Rows: []Row{}, EmptyMessage: EmptyMessage}
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = NewRow(r)
	}
	return State{Phase: PhaseLoaded, Rows: out}
}

func NewRow(r models.OrderRow) Row {
	return Row{
		ID:            r.ID,
		Name:          r.Name,
		ImageURI:      r.ImageURI,
		Quantity:      r.Quantity,
		TotalPrice:    r.TotalPrice,
		QuantityLabel: fmt.Sprintf("Số lượng: %d", r.Quantity),
		PriceLabel:    "Giá: " + FormatPrice(r.TotalPrice),
	}
}

// FormatPrice prints the amount as stored, without grouping, followed by
// the currency: 100000 VNĐ.
func FormatPrice(d decimal.Decimal) string {
	return d.String() + " " + Currency
}
