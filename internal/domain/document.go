package domain

import "strings"

// Document type values. The type field is free-form on input but these
// are the values the storage insights breakdown distinguishes.
const (
	DocumentTypeDoc         = "doc"
	DocumentTypeSpreadsheet = "spreadsheet"
	DocumentTypePDF         = "pdf"
)

// Document is an owner-scoped file-like record. Content is an HTML
// string (possibly empty); Size is client-supplied and not verified
// against Content.
type Document struct {
	Record
	Title         string   `json:"title"`
	Content       string   `json:"content,omitempty"`
	Type          string   `json:"type"`
	Size          int64    `json:"size"`
	IsStarred     bool     `json:"isStarred"`
	IsTemplate    bool     `json:"isTemplate"`
	SharedWith    []string `json:"sharedWith"`
	OwnerID       string   `json:"ownerId"`
	Category      string   `json:"category,omitempty"`
	LinkedEventID string   `json:"linkedEventId,omitempty"`
	LinkedTaskID  string   `json:"linkedTaskId,omitempty"`
}

// IsSharedWith reports whether the document has been shared with the
// given email address. Comparison is case-insensitive, matching how
// email addresses are treated everywhere else.
func (d *Document) IsSharedWith(email string) bool {
	for _, e := range d.SharedWith {
		if strings.EqualFold(e, email) {
			return true
		}
	}
	return false
}

// StorageInsights summarizes an owner's documents by total and per-type size.
type StorageInsights struct {
	TotalDocuments int              `json:"totalDocuments"`
	TotalSize      int64            `json:"totalSize"`
	Breakdown      StorageBreakdown `json:"breakdown"`
}

// StorageBreakdown accumulates document sizes in bytes by coarse type.
type StorageBreakdown struct {
	Docs         int64 `json:"docs"`
	Spreadsheets int64 `json:"spreadsheets"`
	PDFs         int64 `json:"pdfs"`
	Other        int64 `json:"other"`
}

// Add records one document's size under its type bucket.
func (b *StorageBreakdown) Add(docType string, size int64) {
	switch docType {
	case DocumentTypeDoc:
		b.Docs += size
	case DocumentTypeSpreadsheet:
		b.Spreadsheets += size
	case DocumentTypePDF:
		b.PDFs += size
	default:
		b.Other += size
	}
}
