package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daydeskapp/daydesk-server/internal/domain"
	domainerrors "github.com/daydeskapp/daydesk-server/internal/errors"
)

func setupDocumentTest(t *testing.T) *DocumentService {
	t.Helper()
	return NewDocumentService(newTestStore(t), testLogger())
}

func mustCreateDocument(t *testing.T, svc *DocumentService, ownerID string, req CreateDocumentRequest) *domain.Document {
	t.Helper()

	doc, err := svc.CreateDocument(context.Background(), ownerID, req)
	require.NoError(t, err)
	return doc
}

func TestDocumentService_Create_Defaults(t *testing.T) {
	svc := setupDocumentTest(t)

	doc := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Notes"})

	assert.Equal(t, domain.DocumentTypeDoc, doc.Type)
	assert.False(t, doc.IsStarred)
	assert.NotNil(t, doc.SharedWith)
	assert.Empty(t, doc.SharedWith)
}

func TestDocumentService_Get_SharedAccess(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Plan"})
	_, err := svc.ShareDocument(ctx, "user-1", doc.ID, ShareDocumentRequest{Email: "bob@example.com"})
	require.NoError(t, err)

	// The recipient can read the document but a stranger cannot.
	got, err := svc.GetDocument(ctx, "user-2", "bob@example.com", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)

	_, err = svc.GetDocument(ctx, "user-3", "mallory@example.com", doc.ID)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDocumentService_List_Tabs(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	starred := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "starred"})
	_, err := svc.ToggleStar(ctx, "user-1", starred.ID)
	require.NoError(t, err)

	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "template", IsTemplate: true})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "plain"})

	// A document owned by someone else, shared with user-1's email.
	foreign := mustCreateDocument(t, svc, "user-2", CreateDocumentRequest{Title: "from bob"})
	_, err = svc.ShareDocument(ctx, "user-2", foreign.ID, ShareDocumentRequest{Email: "alice@example.com"})
	require.NoError(t, err)

	docs, err := svc.ListDocuments(ctx, "user-1", DocumentListQuery{Tab: "all"})
	require.NoError(t, err)
	assert.Len(t, docs, 3)

	docs, err = svc.ListDocuments(ctx, "user-1", DocumentListQuery{Tab: "starred"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "starred", docs[0].Title)

	docs, err = svc.ListDocuments(ctx, "user-1", DocumentListQuery{Tab: "templates"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "template", docs[0].Title)

	docs, err = svc.ListDocuments(ctx, "user-1", DocumentListQuery{Tab: "shared", CallerEmail: "alice@example.com"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "from bob", docs[0].Title)
}

func TestDocumentService_List_SearchIncludesHTMLContent(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{
		Title:   "Meeting notes",
		Content: "<p>Discussed the <strong>roadmap</strong> for Q3</p>",
	})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Groceries"})

	docs, err := svc.ListDocuments(ctx, "user-1", DocumentListQuery{Search: "roadmap"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Meeting notes", docs[0].Title)

	// Tag names themselves never match.
	docs, err = svc.ListDocuments(ctx, "user-1", DocumentListQuery{Search: "strong"})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentService_List_SortBySize(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "small", Size: 10})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "big", Size: 1000})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "medium", Size: 100})

	// Descending is the default direction.
	docs, err := svc.ListDocuments(ctx, "user-1", DocumentListQuery{SortBy: "size"})
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "big", docs[0].Title)
	assert.Equal(t, "small", docs[2].Title)

	docs, err = svc.ListDocuments(ctx, "user-1", DocumentListQuery{SortBy: "size", SortOrder: "asc"})
	require.NoError(t, err)
	assert.Equal(t, "small", docs[0].Title)
}

func TestDocumentService_ToggleStar(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Notes"})

	doc, err := svc.ToggleStar(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.True(t, doc.IsStarred)

	doc, err = svc.ToggleStar(ctx, "user-1", doc.ID)
	require.NoError(t, err)
	assert.False(t, doc.IsStarred)
}

func TestDocumentService_Share_Idempotent(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Plan"})

	doc, err := svc.ShareDocument(ctx, "user-1", doc.ID, ShareDocumentRequest{Email: "bob@example.com"})
	require.NoError(t, err)
	doc, err = svc.ShareDocument(ctx, "user-1", doc.ID, ShareDocumentRequest{Email: "Bob@Example.com"})
	require.NoError(t, err)

	assert.Equal(t, []string{"bob@example.com"}, doc.SharedWith)
}

func TestDocumentService_Update_OnlyOwner(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	doc := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "Plan"})
	_, err := svc.ShareDocument(ctx, "user-1", doc.ID, ShareDocumentRequest{Email: "bob@example.com"})
	require.NoError(t, err)

	// Shared access is read-only.
	title := "hijacked"
	_, err = svc.UpdateDocument(ctx, "user-2", doc.ID, UpdateDocumentRequest{Title: &title})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestDocumentService_BulkDelete(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	a := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "a"})
	b := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "b"})

	require.NoError(t, svc.BulkDeleteDocuments(ctx, "user-1", BulkDeleteRequest{
		IDs: []string{a.ID, b.ID},
	}))

	docs, err := svc.ListDocuments(ctx, "user-1", DocumentListQuery{})
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestDocumentService_BulkDelete_RejectsWholeBatch(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	a := mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "a"})
	foreign := mustCreateDocument(t, svc, "user-2", CreateDocumentRequest{Title: "not yours"})

	err := svc.BulkDeleteDocuments(ctx, "user-1", BulkDeleteRequest{
		IDs: []string{a.ID, foreign.ID},
	})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	// Nothing was deleted.
	_, err = svc.GetDocument(ctx, "user-1", "", a.ID)
	assert.NoError(t, err)

	err = svc.BulkDeleteDocuments(ctx, "user-1", BulkDeleteRequest{
		IDs: []string{a.ID, "doc-missing"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestDocumentService_StorageInsights(t *testing.T) {
	svc := setupDocumentTest(t)
	ctx := context.Background()

	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "a", Type: "doc", Size: 100})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "b", Type: "spreadsheet", Size: 200})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "c", Type: "pdf", Size: 300})
	mustCreateDocument(t, svc, "user-1", CreateDocumentRequest{Title: "d", Type: "image", Size: 50})
	mustCreateDocument(t, svc, "user-2", CreateDocumentRequest{Title: "not counted", Size: 999})

	insights, err := svc.StorageInsights(ctx, "user-1")
	require.NoError(t, err)

	assert.Equal(t, 4, insights.TotalDocuments)
	assert.Equal(t, int64(650), insights.TotalSize)
	assert.Equal(t, int64(100), insights.Breakdown.Docs)
	assert.Equal(t, int64(200), insights.Breakdown.Spreadsheets)
	assert.Equal(t, int64(300), insights.Breakdown.PDFs)
	assert.Equal(t, int64(50), insights.Breakdown.Other)
}

func TestPlainText(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"empty", "", ""},
		{"plain text passthrough", "just some words", "just some words"},
		{"angle brackets without tags", "a < b > c", "a < b > c"},
		{"paragraph", "<p>hello world</p>", "hello world"},
		{"nested markup", "<div><strong>bold</strong> move</div>", "**bold** move"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, plainText(tt.content))
		})
	}
}
