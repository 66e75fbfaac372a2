package variants

import "errors"

var (
	ErrUnknownOption     = errors.New("unknown attribute option")
	ErrOptionUnavailable = errors.New("option is out of stock")
	ErrNoVariation       = errors.New("no variation matches the selection")
	ErrNotPurchasable    = errors.New("selected variation is out of stock")
	ErrInvalidQuantity   = errors.New("quantity must be positive")
)
