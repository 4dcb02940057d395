package repository

import "invdash/internal/model"

// defaultDocument is the document saved on first start.
func defaultDocument(now string) *model.Document {
	return &model.Document{
		Files: []model.File{
			{
				ID:         1,
				Name:       "sample-product.jpg",
				Size:       2048576,
				Type:       "image/jpeg",
				Category:   model.CategoryProducts,
				UploadDate: "2024-01-15",
				URL:        "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=800&h=600&fit=crop",
				CreatedAt:  now,
			},
			{
				ID:         2,
				Name:       "invoice-template.pdf",
				Size:       1536000,
				Type:       "application/pdf",
				Category:   model.CategoryDocuments,
				UploadDate: "2024-01-14",
				URL:        "/api/files/invoice-template.pdf",
				CreatedAt:  now,
			},
		},
		Products: []model.Product{
			{
				ID:        1,
				Name:      "Wireless Headphones",
				Category:  "Electronics",
				Price:     2999,
				Stock:     50,
				Status:    model.StatusActive,
				GST:       18,
				HSN:       "85183000",
				MinStock:  intPtr(10),
				Supplier:  "Tech Supplies Ltd",
				Location:  "Mumbai",
				CreatedAt: now,
			},
			{
				ID:        2,
				Name:      "Cotton T-Shirt",
				Category:  "Clothing & Textiles",
				Price:     599,
				Stock:     5,
				Status:    model.StatusActive,
				GST:       12,
				HSN:       "61091000",
				MinStock:  intPtr(15),
				Supplier:  "Fashion Hub",
				Location:  "Delhi",
				CreatedAt: now,
			},
		},
		Orders: []model.Order{},
		Settings: model.Settings{
			NextFileID:    3,
			NextProductID: 3,
			NextOrderID:   1,
		},
	}
}

func intPtr(v int) *int { return &v }
