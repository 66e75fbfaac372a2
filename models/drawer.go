package models

import "time"

const (
	DrawerOpen   = "open"
	DrawerClosed = "closed"
)

// Drawer is a register session. Sales are only rung up while a drawer is open.
type Drawer struct {
	ID           string     `json:"id" bson:"_id"`
	Register     string     `json:"register" bson:"register"`
	CashierID    string     `json:"cashier_id" bson:"cashier_id"`
	OpeningFloat string     `json:"opening_float" bson:"opening_float"`
	ClosingCount string     `json:"closing_count,omitempty" bson:"closing_count,omitempty"`
	Status       string     `json:"status" bson:"status"`
	OpenedAt     time.Time  `json:"opened_at" bson:"opened_at"`
	ClosedAt     *time.Time `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
}

// Cashier is a till operator allowed to log in with a PIN.
type Cashier struct {
	ID       string   `json:"id" bson:"_id"`
	Username string   `json:"username" bson:"username"`
	Name     string   `json:"name" bson:"name"`
	PinHash  string   `json:"-" bson:"pin_hash"`
	Roles    []string `json:"roles" bson:"roles"`
}
