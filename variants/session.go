package variants

import (
	"context"
	"sync"

	"jpos/models"
)

// Action tells the caller what a user interaction resulted in.
type Action string

const (
	ActionSelected     Action = "selected"
	ActionDeselected   Action = "deselected"
	ActionNavigateHeld Action = "navigate_held"
	ActionOpenDrawer   Action = "open_drawer"
	ActionAdded        Action = "added"
)

// Cart receives confirmed cart lines.
type Cart interface {
	AddToCart(ctx context.Context, item models.CartItem, qty int) error
}

// Drawer reports whether a register session is open.
type Drawer interface {
	DrawerOpen(ctx context.Context) (bool, error)
}

// DrawerFunc adapts a function to Drawer.
type DrawerFunc func(ctx context.Context) (bool, error)

func (f DrawerFunc) DrawerOpen(ctx context.Context) (bool, error) { return f(ctx) }

// Options configure a session.
type Options struct {
	// TargetCode pre-selects the variation with this SKU or barcode.
	TargetCode string
	Currency   string
}

// Session is the state of one open selection surface. Everything derived
// (holds, domain, groups) is rebuilt on every load, and the selection is
// discarded with the session.
type Session struct {
	mu        sync.Mutex
	opts      Options
	product   models.Product
	vars      []models.Variation
	holds     HeldIndex
	domain    Domain
	groups    []Group
	selection Selection
	gen       uint64
}

// Open builds a session for the product against the current held carts.
func Open(p models.Product, carts []models.HeldCart, opts Options) *Session {
	s := &Session{opts: opts, selection: make(Selection)}
	s.load(p, carts)
	s.autoSelect()
	if opts.TargetCode != "" {
		s.preselect(opts.TargetCode)
	}
	return s
}

func (s *Session) load(p models.Product, carts []models.HeldCart) {
	s.product = p
	s.vars = p.Variations
	if !p.IsVariable() && len(p.Variations) == 0 {
		s.vars = []models.Variation{{
			ID:            p.ID,
			SKU:           p.SKU,
			Barcode:       p.Barcode,
			Price:         p.Price,
			StockStatus:   p.StockStatus,
			ManagesStock:  p.ManagesStock,
			StockQuantity: p.StockQuantity,
		}}
	}
	s.holds = BuildHeldIndex(carts)
	s.domain = BuildDomain(s.vars)
	s.groups = ClassifyDomain(s.domain, s.vars, s.holds)
}

// autoSelect picks the value of any attribute that offers a single value,
// or exactly one available value.
func (s *Session) autoSelect() {
	for _, g := range s.groups {
		if len(g.Swatches) == 1 {
			s.selection[g.Key] = g.Swatches[0].Value
			continue
		}
		only := ""
		n := 0
		for _, sw := range g.Swatches {
			if sw.Status == StatusAvailable {
				only = sw.Value
				n++
			}
		}
		if n == 1 {
			s.selection[g.Key] = only
		}
	}
}

func (s *Session) preselect(code string) bool {
	for _, v := range s.vars {
		if v.SKU != code && v.Barcode != code {
			continue
		}
		sel := make(Selection, len(s.domain))
		for key := range s.domain {
			if value, ok := v.Attributes[key]; ok {
				sel[key] = value
			}
		}
		s.selection = sel
		return true
	}
	return false
}

// Product returns the loaded product snapshot.
func (s *Session) Product() models.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.product
}

// Groups returns the rendered control groups.
func (s *Session) Groups() []Group {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// Domain returns the attribute domain.
func (s *Session) Domain() Domain {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.domain
}

// Holds returns the held quantity index the session was built with.
func (s *Session) Holds() HeldIndex {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.holds
}

// Selection returns a copy of the current selection.
func (s *Session) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selection.Clone()
}

// Restore applies a client-held selection on top of the current one.
// Values the register could not pick with Select are dropped: unknown
// keys or values, unavailable values and held values of multi-value
// attributes.
func (s *Session) Restore(sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range sel {
		sw, ok := s.swatch(k, v)
		if !ok || sw.HeldRedirect || !sw.Selectable {
			continue
		}
		s.selection[k] = v
	}
}

// Select toggles value for key. Choosing a held value of a multi-value
// attribute does not change the selection; it asks the caller to navigate
// to the held carts instead.
func (s *Session) Select(key, value string) (Action, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sw, ok := s.swatch(key, value)
	if !ok {
		return "", ErrUnknownOption
	}
	if sw.HeldRedirect {
		return ActionNavigateHeld, nil
	}
	if !sw.Selectable {
		return "", ErrOptionUnavailable
	}
	if s.selection[key] == value {
		delete(s.selection, key)
		return ActionDeselected, nil
	}
	s.selection[key] = value
	return ActionSelected, nil
}

func (s *Session) swatch(key, value string) (Swatch, bool) {
	for _, g := range s.groups {
		if g.Key == key {
			return g.Swatch(value)
		}
	}
	return Swatch{}, false
}

// Outcome evaluates the current selection.
func (s *Session) Outcome() Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Evaluate(s.selection, s.domain, s.vars, s.holds, s.opts.Currency)
}

// Item builds the cart line for the resolved variation.
func (s *Session) Item() (models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.item()
}

func (s *Session) item() (models.CartItem, error) {
	v, ok := Resolve(s.selection, s.domain, s.vars)
	if !ok {
		return models.CartItem{}, ErrNoVariation
	}
	if !Purchasable(v, s.holds) {
		return models.CartItem{}, ErrNotPurchasable
	}
	return models.CartItem{
		ProductID:   s.product.ID,
		VariationID: v.ID,
		Name:        ItemName(s.product.Name, s.domain, v),
		SKU:         v.SKU,
		Barcode:     v.Barcode,
		Price:       v.Price,
		Attributes:  v.Attributes,
	}, nil
}

// AddToCart hands the resolved variation to the cart. With no open drawer
// it returns ActionOpenDrawer and the cart is not touched.
func (s *Session) AddToCart(ctx context.Context, drawer Drawer, cart Cart, qty int) (Action, error) {
	if qty <= 0 {
		return "", ErrInvalidQuantity
	}
	item, err := s.Item()
	if err != nil {
		return "", err
	}
	open, err := drawer.DrawerOpen(ctx)
	if err != nil {
		return "", err
	}
	if !open {
		return ActionOpenDrawer, nil
	}
	if err := cart.AddToCart(ctx, item, qty); err != nil {
		return "", err
	}
	return ActionAdded, nil
}

// Begin starts a reload and returns its generation. Only the most recently
// begun reload may be applied.
func (s *Session) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen
}

// Apply installs a reloaded product and held-cart snapshot. It returns false
// and changes nothing when a newer reload has begun since gen was issued.
// Selected values that no longer exist are dropped.
func (s *Session) Apply(gen uint64, p models.Product, carts []models.HeldCart) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	prev := s.selection
	s.load(p, carts)
	s.selection = make(Selection, len(prev))
	for k, v := range prev {
		if s.domain.Has(k, v) {
			s.selection[k] = v
		}
	}
	return true
}
