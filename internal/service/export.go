package service

import (
	"strconv"
	"strings"

	"invdash/internal/model"
)

// Exports join fields with bare commas and do not quote. A value that
// contains a comma shifts the columns after it.

var (
	productCSVHeader = []string{"Name", "Category", "Price (₹)", "Stock", "GST (%)", "HSN Code", "Status", "Location"}
	orderCSVHeader   = []string{"Order Number", "Customer", "Phone", "Total Amount", "Status", "Order Date"}
)

const (
	csvDefaultGST      = "18"
	csvDefaultLocation = "Mumbai"
)

func productsCSV(products []model.Product) string {
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, productCSVHeader)
	for _, p := range products {
		gst := csvDefaultGST
		if p.GST != 0 {
			gst = formatNumber(p.GST)
		}
		location := p.Location
		if location == "" {
			location = csvDefaultLocation
		}
		rows = append(rows, []string{
			p.Name,
			p.Category,
			formatNumber(p.Price),
			strconv.Itoa(p.Stock),
			gst,
			p.HSN,
			string(p.Status),
			location,
		})
	}
	return joinRows(rows)
}

func ordersCSV(orders []model.Order) string {
	rows := make([][]string, 0, len(orders)+1)
	rows = append(rows, orderCSVHeader)
	for _, o := range orders {
		rows = append(rows, []string{
			o.OrderNumber,
			o.CustomerName,
			o.CustomerPhone,
			"₹" + o.Total().StringFixed(2),
			string(o.Status),
			o.OrderDate,
		})
	}
	return joinRows(rows)
}

func joinRows(rows [][]string) string {
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = strings.Join(r, ",")
	}
	return strings.Join(lines, "\n")
}

// formatNumber prints the shortest representation: 2999, 99.5.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
