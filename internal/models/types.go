package models

import "github.com/shopspring/decimal"

// OrderLine is one purchased item of a user. Lines are written at checkout
// and are read-only here.
type OrderLine struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId"`
	ProductID  string          `json:"productId"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURI string `json:"imageUri"`
}

// OrderRow is an order line joined with the display fields of its product.
type OrderRow struct {
	OrderLine
	Name     string `json:"name"`
	ImageURI string `json:"imageUri"`
}

func NewOrderRow(line OrderLine, product Product) OrderRow {
	return OrderRow{
		OrderLine: line,
		Name:      product.Name,
		ImageURI:  product.ImageURI,
	}
}
