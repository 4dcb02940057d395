// Package metrics exposes inventory-level gauges. HTTP request metrics live
// in the middleware package.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Inventory holds gauges refreshed by the services after every write. A nil
// *Inventory is valid and records nothing.
type Inventory struct {
	products   prometheus.Gauge
	lowStock   prometheus.Gauge
	value      prometheus.Gauge
	openOrders prometheus.Gauge
	previews   prometheus.Gauge
}

// NewInventory registers the gauges on reg.
func NewInventory(reg prometheus.Registerer) (*Inventory, error) {
	m := &Inventory{
		products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_products_total",
			Help: "Number of products in the document.",
		}),
		lowStock: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_products_low_stock",
			Help: "Number of products at or below their minimum stock.",
		}),
		value: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_value_rupees",
			Help: "Sum of price times stock over all products.",
		}),
		openOrders: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_orders_open",
			Help: "Orders in pending or processing status.",
		}),
		previews: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "inventory_preview_handles",
			Help: "Live image preview handles held by this process.",
		}),
	}
	for _, c := range []prometheus.Collector{m.products, m.lowStock, m.value, m.openOrders, m.previews} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SetProducts records the product aggregates.
func (m *Inventory) SetProducts(total, lowStock int, value float64) {
	if m == nil {
		return
	}
	m.products.Set(float64(total))
	m.lowStock.Set(float64(lowStock))
	m.value.Set(value)
}

func (m *Inventory) SetOpenOrders(n int) {
	if m == nil {
		return
	}
	m.openOrders.Set(float64(n))
}

// Set records the number of live preview handles, so the registry can report
// into it directly.
func (m *Inventory) Set(previews float64) {
	if m == nil {
		return
	}
	m.previews.Set(previews)
}
