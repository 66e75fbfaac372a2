package mq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jpos/models"
)

func TestDecode(t *testing.T) {
	n, err := Decode([]byte(`{"type":"cart_parked","held_cart_id":"h1","register":"till-1","at":"2026-01-02T03:04:05Z"}`))
	require.NoError(t, err)
	assert.Equal(t, models.NoticeCartParked, n.Type)
	assert.Equal(t, "h1", n.HeldCartID)
	assert.Equal(t, 2026, n.At.Year())

	_, err = Decode([]byte(`{`))
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	p.Emit(context.Background(), models.Notice{Type: models.NoticeStockChanged})
}
