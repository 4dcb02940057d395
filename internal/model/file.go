package model

// FileCategory is one of the fixed upload categories.
type FileCategory string

const (
	CategoryProducts     FileCategory = "products"
	CategoryDocuments    FileCategory = "documents"
	CategoryInvoices     FileCategory = "invoices"
	CategoryCertificates FileCategory = "certificates"
)

// FileCategories lists the known categories in display order.
var FileCategories = []FileCategory{
	CategoryProducts,
	CategoryDocuments,
	CategoryInvoices,
	CategoryCertificates,
}

// Known reports whether c is one of the fixed categories.
func (c FileCategory) Known() bool {
	for _, k := range FileCategories {
		if c == k {
			return true
		}
	}
	return false
}

// File is the metadata of an uploaded file. Raw bytes are never part of the
// document; URL is either a preview handle or a logical path. BlobKey names
// the stored object when a blob store holds the bytes; it is unique per record.
type File struct {
	ID         int          `json:"id"`
	Name       string       `json:"name"`
	Size       int64        `json:"size"`
	Type       string       `json:"type"`
	Category   FileCategory `json:"category"`
	URL        string       `json:"url"`
	Preview    string       `json:"preview,omitempty"`
	BlobKey    string       `json:"blobKey,omitempty"`
	UploadDate string       `json:"uploadDate"`
	CreatedAt  string       `json:"createdAt"`
}
