package model

// Document is the single persisted aggregate. Its JSON shape is shared with
// data written by earlier versions of the dashboard and must not change.
type Document struct {
	Files    []File    `json:"files"`
	Products []Product `json:"products"`
	Orders   []Order   `json:"orders"`
	Settings Settings  `json:"settings"`
}

// Settings holds the per-entity id counters. Each counter is strictly greater
// than any id ever issued for its entity class.
type Settings struct {
	NextFileID    int `json:"nextFileId"`
	NextProductID int `json:"nextProductId"`
	NextOrderID   int `json:"nextOrderId"`
}

// Normalize replaces nil collections with empty ones so the document always
// serializes with arrays instead of nulls.
func (d *Document) Normalize() {
	if d.Files == nil {
		d.Files = []File{}
	}
	if d.Products == nil {
		d.Products = []Product{}
	}
	if d.Orders == nil {
		d.Orders = []Order{}
	}
}

// RaiseCounters lifts each counter to at least one past the highest stored
// id of its class, and never below 1.
func (d *Document) RaiseCounters() {
	next := func(cur, maxID int) int {
		return max(cur, maxID+1, 1)
	}
	maxFile, maxProduct, maxOrder := 0, 0, 0
	for _, f := range d.Files {
		maxFile = max(maxFile, f.ID)
	}
	for _, p := range d.Products {
		maxProduct = max(maxProduct, p.ID)
	}
	for _, o := range d.Orders {
		maxOrder = max(maxOrder, o.ID)
	}
	d.Settings.NextFileID = next(d.Settings.NextFileID, maxFile)
	d.Settings.NextProductID = next(d.Settings.NextProductID, maxProduct)
	d.Settings.NextOrderID = next(d.Settings.NextOrderID, maxOrder)
}
