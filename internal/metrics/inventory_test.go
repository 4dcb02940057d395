package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventory(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewInventory(reg)
	require.NoError(t, err)

	m.SetProducts(4, 1, 15295.5)
	m.SetOpenOrders(2)
	m.Set(3)

	assert.Equal(t, 4.0, testutil.ToFloat64(m.products))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lowStock))
	assert.Equal(t, 15295.5, testutil.ToFloat64(m.value))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.openOrders))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.previews))
}

func TestInventory_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewInventory(reg)
	require.NoError(t, err)

	_, err = NewInventory(reg)
	assert.Error(t, err)
}

func TestInventory_NilSafe(t *testing.T) {
	var m *Inventory
	assert.NotPanics(t, func() {
		m.SetProducts(1, 1, 1)
		m.SetOpenOrders(1)
		m.Set(1)
	})
}
