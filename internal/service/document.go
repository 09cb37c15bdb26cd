package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
	"github.com/daydeskapp/daydesk-server/internal/id"
	"github.com/daydeskapp/daydesk-server/internal/normalize"
	"github.com/daydeskapp/daydesk-server/internal/store"
)

// DocumentService manages owner-scoped documents.
type DocumentService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewDocumentService creates a new document service.
func NewDocumentService(store *store.Store, logger *slog.Logger) *DocumentService {
	return &DocumentService{
		store:  store,
		logger: logger,
	}
}

// CreateDocumentRequest contains new document data.
type CreateDocumentRequest struct {
	Title         string `json:"title" validate:"required,min=1,max=200"`
	Content       string `json:"content"`
	Type          string `json:"type" validate:"omitempty,max=50"`
	Size          int64  `json:"size" validate:"min=0"`
	IsTemplate    bool   `json:"isTemplate"`
	Category      string `json:"category" validate:"max=100"`
	LinkedEventID string `json:"linkedEventId" validate:"omitempty,max=100"`
	LinkedTaskID  string `json:"linkedTaskId" validate:"omitempty,max=100"`
}

// UpdateDocumentRequest contains partial document updates. Nil fields
// are left untouched.
type UpdateDocumentRequest struct {
	Title         *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content       *string `json:"content,omitempty"`
	Type          *string `json:"type,omitempty" validate:"omitempty,max=50"`
	Size          *int64  `json:"size,omitempty" validate:"omitempty,min=0"`
	IsTemplate    *bool   `json:"isTemplate,omitempty"`
	Category      *string `json:"category,omitempty" validate:"omitempty,max=100"`
	LinkedEventID *string `json:"linkedEventId,omitempty" validate:"omitempty,max=100"`
	LinkedTaskID  *string `json:"linkedTaskId,omitempty" validate:"omitempty,max=100"`
}

// ShareDocumentRequest names who to share a document with.
type ShareDocumentRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// BulkDeleteRequest names the documents to delete as one batch.
type BulkDeleteRequest struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

// DocumentListQuery narrows and orders a document listing. Tab selects
// a view: all, starred, shared (shared with the caller's email), or
// templates.
type DocumentListQuery struct {
	Tab         string
	Type        string
	Category    string
	Search      string
	SortBy      string
	SortOrder   string
	CallerEmail string
}

// ListDocuments returns the owner's documents after filtering and
// sorting. The shared tab additionally pulls in documents owned by
// others that were shared with the caller's email.
func (s *DocumentService) ListDocuments(ctx context.Context, ownerID string, query DocumentListQuery) ([]*domain.Document, error) {
	docs := make([]*domain.Document, 0)

	if query.Tab == "shared" {
		// Shared documents live under other owners, so this tab walks
		// the whole collection instead of the owner scope.
		for doc, err := range s.store.Documents.List(ctx) {
			if err != nil {
				return nil, fmt.Errorf("list documents: %w", err)
			}
			if !doc.IsSharedWith(query.CallerEmail) {
				continue
			}
			if !matchesDocumentQuery(doc, query) {
				continue
			}
			docs = append(docs, doc)
		}
	} else {
		for doc, err := range s.store.Documents.ListScoped(ctx, "owner", ownerID) {
			if err != nil {
				return nil, fmt.Errorf("list documents: %w", err)
			}
			switch query.Tab {
			case "starred":
				if !doc.IsStarred {
					continue
				}
			case "templates":
				if !doc.IsTemplate {
					continue
				}
			}
			if !matchesDocumentQuery(doc, query) {
				continue
			}
			docs = append(docs, doc)
		}
	}

	sortDocuments(docs, query.SortBy, query.SortOrder)
	return docs, nil
}

func matchesDocumentQuery(doc *domain.Document, query DocumentListQuery) bool {
	if query.Type != "" && doc.Type != query.Type {
		return false
	}
	if query.Category != "" && doc.Category != query.Category {
		return false
	}
	if query.Search != "" {
		if !normalize.ContainsFold(doc.Title, query.Search) &&
			!normalize.ContainsFold(plainText(doc.Content), query.Search) {
			return false
		}
	}
	return true
}

// sortDocuments orders documents in place, defaulting to most recently
// updated first.
func sortDocuments(docs []*domain.Document, sortBy, sortOrder string) {
	desc := sortOrder == "" || strings.EqualFold(sortOrder, "desc")

	less := func(a, b *domain.Document) bool {
		return a.UpdatedAt.Before(b.UpdatedAt)
	}

	switch sortBy {
	case "name":
		less = func(a, b *domain.Document) bool {
			return normalize.Fold(a.Title) < normalize.Fold(b.Title)
		}
	case "size":
		less = func(a, b *domain.Document) bool {
			return a.Size < b.Size
		}
	case "type":
		less = func(a, b *domain.Document) bool {
			return a.Type < b.Type
		}
	case "createdAt":
		less = func(a, b *domain.Document) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	case "updatedAt", "":
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return compareOrdered(less(docs[i], docs[j]), desc)
	})
}

// GetDocument returns a document the caller may read: their own, or one
// shared with their email.
func (s *DocumentService) GetDocument(ctx context.Context, ownerID, callerEmail, docID string) (*domain.Document, error) {
	doc, err := s.store.Documents.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("document not found")
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.OwnerID != ownerID && !doc.IsSharedWith(callerEmail) {
		return nil, domainerrors.Forbidden("you do not have access to this document")
	}
	return doc, nil
}

// CreateDocument creates a document for the owner.
func (s *DocumentService) CreateDocument(ctx context.Context, ownerID string, req CreateDocumentRequest) (*domain.Document, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	docType := req.Type
	if docType == "" {
		docType = domain.DocumentTypeDoc
	}

	docID, err := id.Generate("doc")
	if err != nil {
		return nil, fmt.Errorf("generate document ID: %w", err)
	}

	doc := &domain.Document{
		Record: domain.Record{
			ID: docID,
		},
		Title:         req.Title,
		Content:       req.Content,
		Type:          docType,
		Size:          req.Size,
		IsTemplate:    req.IsTemplate,
		SharedWith:    []string{},
		OwnerID:       ownerID,
		Category:      req.Category,
		LinkedEventID: req.LinkedEventID,
		LinkedTaskID:  req.LinkedTaskID,
	}
	doc.InitTimestamps()

	if err := s.store.Documents.Create(ctx, doc.ID, doc); err != nil {
		return nil, fmt.Errorf("create document: %w", err)
	}

	s.logger.Info("Document created",
		"document_id", doc.ID,
		"owner_id", ownerID,
		"type", doc.Type,
	)
	return doc, nil
}

// UpdateDocument applies partial updates to one of the owner's
// documents. Only the owner may modify a document; shared access is
// read-only.
func (s *DocumentService) UpdateDocument(ctx context.Context, ownerID, docID string, req UpdateDocumentRequest) (*domain.Document, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	doc, err := s.getOwnedDocument(ctx, ownerID, docID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Content != nil {
		doc.Content = *req.Content
	}
	if req.Type != nil {
		doc.Type = *req.Type
	}
	if req.Size != nil {
		doc.Size = *req.Size
	}
	if req.IsTemplate != nil {
		doc.IsTemplate = *req.IsTemplate
	}
	if req.Category != nil {
		doc.Category = *req.Category
	}
	if req.LinkedEventID != nil {
		doc.LinkedEventID = *req.LinkedEventID
	}
	if req.LinkedTaskID != nil {
		doc.LinkedTaskID = *req.LinkedTaskID
	}
	doc.Touch()

	if err := s.store.Documents.Update(ctx, docID, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// ToggleStar flips the starred flag on one of the owner's documents.
func (s *DocumentService) ToggleStar(ctx context.Context, ownerID, docID string) (*domain.Document, error) {
	doc, err := s.getOwnedDocument(ctx, ownerID, docID)
	if err != nil {
		return nil, err
	}

	doc.IsStarred = !doc.IsStarred
	doc.Touch()

	if err := s.store.Documents.Update(ctx, docID, doc); err != nil {
		return nil, fmt.Errorf("update document: %w", err)
	}
	return doc, nil
}

// ShareDocument adds an email to the document's share list. Sharing
// with the same address twice is a no-op.
func (s *DocumentService) ShareDocument(ctx context.Context, ownerID, docID string, req ShareDocumentRequest) (*domain.Document, error) {
	if err := validate.Validate(req); err != nil {
		return nil, err
	}

	doc, err := s.getOwnedDocument(ctx, ownerID, docID)
	if err != nil {
		return nil, err
	}

	if !doc.IsSharedWith(req.Email) {
		doc.SharedWith = append(doc.SharedWith, req.Email)
		doc.Touch()
		if err := s.store.Documents.Update(ctx, docID, doc); err != nil {
			return nil, fmt.Errorf("update document: %w", err)
		}
		s.logger.Info("Document shared",
			"document_id", docID,
			"owner_id", ownerID,
		)
	}
	return doc, nil
}

// DeleteDocument removes one of the owner's documents.
func (s *DocumentService) DeleteDocument(ctx context.Context, ownerID, docID string) error {
	if _, err := s.getOwnedDocument(ctx, ownerID, docID); err != nil {
		return err
	}
	if err := s.store.Documents.Delete(ctx, docID); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	s.logger.Info("Document deleted", "document_id", docID, "owner_id", ownerID)
	return nil
}

// BulkDeleteDocuments deletes a batch of the owner's documents. The
// batch is all-or-nothing: any missing or foreign ID rejects the whole
// request before anything is removed.
func (s *DocumentService) BulkDeleteDocuments(ctx context.Context, ownerID string, req BulkDeleteRequest) error {
	if err := validate.Validate(req); err != nil {
		return err
	}

	for _, docID := range req.IDs {
		if _, err := s.getOwnedDocument(ctx, ownerID, docID); err != nil {
			return err
		}
	}

	if err := s.store.Documents.DeleteAll(ctx, req.IDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domainerrors.NotFound("document not found")
		}
		return fmt.Errorf("bulk delete documents: %w", err)
	}

	s.logger.Info("Documents bulk deleted",
		"owner_id", ownerID,
		"count", len(req.IDs),
	)
	return nil
}

// StorageInsights totals the owner's document sizes by type bucket.
func (s *DocumentService) StorageInsights(ctx context.Context, ownerID string) (*domain.StorageInsights, error) {
	insights := &domain.StorageInsights{}
	for doc, err := range s.store.Documents.ListScoped(ctx, "owner", ownerID) {
		if err != nil {
			return nil, fmt.Errorf("list documents: %w", err)
		}
		insights.TotalDocuments++
		insights.TotalSize += doc.Size
		insights.Breakdown.Add(doc.Type, doc.Size)
	}
	return insights, nil
}

func (s *DocumentService) getOwnedDocument(ctx context.Context, ownerID, docID string) (*domain.Document, error) {
	doc, err := s.store.Documents.Get(ctx, docID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound("document not found")
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	if doc.OwnerID != ownerID {
		return nil, domainerrors.Forbidden("you do not have access to this document")
	}
	return doc, nil
}

// htmlTagPattern matches common HTML tags to detect if content is
// stored as markup rather than plain text.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote|table|tr|td)[\s>/]`)

// plainText converts stored HTML content to Markdown so search matches
// the words a user sees, not tag soup. Non-HTML content is returned
// unchanged, as is anything the converter chokes on.
func plainText(content string) string {
	if content == "" || !htmlTagPattern.MatchString(strings.ToLower(content)) {
		return content
	}
	markdown, err := htmltomarkdown.ConvertString(content)
	if err != nil {
		return content
	}
	return strings.TrimSpace(markdown)
}
