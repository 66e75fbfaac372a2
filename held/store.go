package held

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"jpos/models"
	"jpos/utils"
	"jpos/variants"
)

var (
	ErrNotFound  = errors.New("held cart not found")
	ErrEmptyCart = errors.New("cart is empty")
	ErrContended = errors.New("held carts changed concurrently, retry")
)

// Store keeps parked carts. List is lenient: unreadable storage yields no
// carts so that hold accounting degrades to "nothing held".
type Store interface {
	List(ctx context.Context) ([]models.HeldCart, error)
	Get(ctx context.Context, id string) (models.HeldCart, error)
	Park(ctx context.Context, c models.HeldCart) (models.HeldCart, error)
	Take(ctx context.Context, id string) (models.HeldCart, error)
}

func prepare(c models.HeldCart) (models.HeldCart, error) {
	if len(c.Cart) == 0 {
		return c, ErrEmptyCart
	}
	if c.ID == "" {
		c.ID = utils.GetUUID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return c, nil
}

func find(carts []models.HeldCart, id string) int {
	for i, c := range carts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

const maxRetries = 5

// RedisStore keeps the whole collection as one JSON array under
// models.HeldCartsKey. Writes use optimistic transactions on that key.
type RedisStore struct {
	conn *redis.Client
	key  string
}

func NewRedisStore(conn *redis.Client) *RedisStore {
	return &RedisStore{conn: conn, key: models.HeldCartsKey}
}

func (s *RedisStore) List(ctx context.Context) ([]models.HeldCart, error) {
	return s.read(ctx, s.conn.Get)
}

func (s *RedisStore) read(ctx context.Context, get func(context.Context, string) *redis.StringCmd) ([]models.HeldCart, error) {
	data, err := get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read held carts: %w", err)
	}
	return variants.ParseHeldCarts(data), nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (models.HeldCart, error) {
	carts, err := s.List(ctx)
	if err != nil {
		return models.HeldCart{}, err
	}
	i := find(carts, id)
	if i < 0 {
		return models.HeldCart{}, ErrNotFound
	}
	return carts[i], nil
}

func (s *RedisStore) Park(ctx context.Context, c models.HeldCart) (models.HeldCart, error) {
	c, err := prepare(c)
	if err != nil {
		return c, err
	}
	err = s.update(ctx, func(carts []models.HeldCart) ([]models.HeldCart, error) {
		return append(carts, c), nil
	})
	return c, err
}

func (s *RedisStore) Take(ctx context.Context, id string) (models.HeldCart, error) {
	var taken models.HeldCart
	err := s.update(ctx, func(carts []models.HeldCart) ([]models.HeldCart, error) {
		i := find(carts, id)
		if i < 0 {
			return nil, ErrNotFound
		}
		taken = carts[i]
		return append(carts[:i:i], carts[i+1:]...), nil
	})
	return taken, err
}

// update applies fn to the current collection and writes the result back,
// retrying when another writer touched the key in between.
func (s *RedisStore) update(ctx context.Context, fn func([]models.HeldCart) ([]models.HeldCart, error)) error {
	txf := func(tx *redis.Tx) error {
		carts, err := s.read(ctx, tx.Get)
		if err != nil {
			return err
		}
		next, err := fn(carts)
		if err != nil {
			return err
		}
		if next == nil {
			next = []models.HeldCart{}
		}
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode held carts: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, data, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxRetries; i++ {
		err := s.conn.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrContended
}

// MemoryStore is a Store held in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts []models.HeldCart
}

func NewMemoryStore(carts ...models.HeldCart) *MemoryStore {
	return &MemoryStore{carts: carts}
}

func (m *MemoryStore) List(context.Context) ([]models.HeldCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.HeldCart, len(m.carts))
	copy(out, m.carts)
	return out, nil
}

func (m *MemoryStore) Get(_ context.Context, id string) (models.HeldCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.carts, id)
	if i < 0 {
		return models.HeldCart{}, ErrNotFound
	}
	return m.carts[i], nil
}

func (m *MemoryStore) Park(_ context.Context, c models.HeldCart) (models.HeldCart, error) {
	c, err := prepare(c)
	if err != nil {
		return c, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts = append(m.carts, c)
	return c, nil
}

func (m *MemoryStore) Take(_ context.Context, id string) (models.HeldCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := find(m.carts, id)
	if i < 0 {
		return models.HeldCart{}, ErrNotFound
	}
	c := m.carts[i]
	m.carts = append(m.carts[:i:i], m.carts[i+1:]...)
	return c, nil
}
