package models

import "time"

// Notice types relayed to registers.
const (
	NoticeCartParked   = "cart_parked"
	NoticeCartResumed  = "cart_resumed"
	NoticeCartRemoved  = "cart_discarded"
	NoticeStockChanged = "stock_changed"
)

// Notice tells connected registers that hold or stock state changed and any
// open selection surface should be rebuilt.
type Notice struct {
	Type        string    `json:"type"`
	ProductID   int64     `json:"product_id,omitempty"`
	VariationID int64     `json:"variation_id,omitempty"`
	HeldCartID  string    `json:"held_cart_id,omitempty"`
	Register    string    `json:"register,omitempty"`
	At          time.Time `json:"at"`
}
