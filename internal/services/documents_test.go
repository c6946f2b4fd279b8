package services_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/localnerve/ojt-tracker/internal/models"
	"github.com/localnerve/ojt-tracker/internal/services"
	"github.com/localnerve/ojt-tracker/internal/storage"
	"github.com/localnerve/ojt-tracker/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const maxUpload = 1024

// flakyStore fails Remove while broken is set
type flakyStore struct {
	*storage.Local
	broken bool
}

func (s *flakyStore) Remove(name string) error {
	if s.broken {
		return errors.New("disk on fire")
	}
	return s.Local.Remove(name)
}

func upload(userID uint64, name, category, filename string, body []byte) services.UploadInput {
	return services.UploadInput{
		UserID:       userID,
		Name:         name,
		Category:     category,
		OriginalName: filename,
		Size:         int64(len(body)),
		File:         bytes.NewReader(body),
	}
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestUploadDocument(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	store := storage.NewLocal(t.TempDir())

	doc, err := services.UploadDocument(db, store, upload(alice.ID, " Weekly report ", "report", "Week1.PDF", []byte("%PDF-1.4\n%test\n")), maxUpload)
	require.NoError(t, err)
	assert.Equal(t, "Weekly report", doc.Name)
	assert.Equal(t, "Week1.PDF", doc.OriginalName)
	assert.Equal(t, "pdf", doc.FileExtension)
	assert.Equal(t, "application/pdf", doc.FileType)
	assert.True(t, strings.HasSuffix(doc.FileName, ".pdf"))
	assert.Equal(t, "uploads/documents/"+doc.FileName, doc.FilePath)

	data, err := os.ReadFile(store.Path(doc.FileName))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4\n%test\n", string(data))

	docs, err := services.ListDocuments(db, alice.ID, "all")
	require.NoError(t, err)
	require.Len(t, docs, 1)

	docs, err = services.ListDocuments(db, alice.ID, "certificate")
	require.NoError(t, err)
	assert.Empty(t, docs)

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 1)
	assert.Equal(t, models.ActionDocUploaded, logs[0].ActionType)
}

func TestUploadDocumentRejectsBeforeWriting(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	dir := filepath.Join(t.TempDir(), "docs")
	store := storage.NewLocal(dir)

	tests := []struct {
		name    string
		in      services.UploadInput
		message string
	}{
		{"missing name", upload(alice.ID, "", "report", "a.pdf", []byte("x")), "Missing required fields: user_id, name, or category"},
		{"missing file", services.UploadInput{UserID: alice.ID, Name: "a", Category: "report"}, "No file uploaded"},
		{"bad extension", upload(alice.ID, "a", "report", "run.exe", []byte("MZ")), "File type not allowed. Allowed types: pdf, doc, docx, jpg, jpeg, png, gif, txt, xlsx, xls, ppt, pptx"},
		{"too large", upload(alice.ID, "a", "report", "a.txt", bytes.Repeat([]byte("x"), maxUpload+1)), "File size exceeds"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := services.UploadDocument(db, store, tt.in, maxUpload)
			require.ErrorIs(t, err, services.ErrValidation)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
	assert.Empty(t, storedFiles(t, dir))
}

func TestUploadDocumentCapsLyingSize(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	dir := t.TempDir()
	store := storage.NewLocal(dir)

	in := upload(alice.ID, "a", "report", "a.txt", bytes.Repeat([]byte("x"), 4*maxUpload))
	in.Size = 10
	_, err := services.UploadDocument(db, store, in, maxUpload)
	require.ErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, storedFiles(t, dir))
}

func TestUploadDocumentRemovesFileWhenInsertFails(t *testing.T) {
	db := newDB(t)
	dir := t.TempDir()
	store := storage.NewLocal(dir)

	_, err := services.UploadDocument(db, store, upload(4242, "a", "report", "a.txt", []byte("hello")), maxUpload)
	require.Error(t, err)
	assert.NotErrorIs(t, err, services.ErrValidation)
	assert.Empty(t, storedFiles(t, dir))
}

func TestDeleteDocument(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	store := storage.NewLocal(t.TempDir())

	doc, err := services.UploadDocument(db, store, upload(alice.ID, "a", "report", "a.txt", []byte("hello")), maxUpload)
	require.NoError(t, err)

	owner, err := services.DocumentOwner(db, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, owner)

	require.NoError(t, services.DeleteDocument(db, store, doc.ID))
	_, err = os.Stat(store.Path(doc.FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)

	var count int64
	require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)

	err = services.DeleteDocument(db, store, doc.ID)
	require.ErrorIs(t, err, services.ErrNotFound)
	assert.Equal(t, "Document not found", err.Error())

	logs := activity(t, db, alice.ID)
	require.Len(t, logs, 2)
	assert.Equal(t, models.ActionDocDeleted, logs[1].ActionType)
}

func TestDeleteDocumentDefersToReconciler(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	store := &flakyStore{Local: storage.NewLocal(t.TempDir())}

	doc, err := services.UploadDocument(db, store, upload(alice.ID, "a", "report", "a.txt", []byte("hello")), maxUpload)
	require.NoError(t, err)

	store.broken = true
	require.NoError(t, services.DeleteDocument(db, store, doc.ID))

	docs, err := services.ListDocuments(db, alice.ID, "")
	require.NoError(t, err)
	assert.Empty(t, docs, "pending rows are hidden")

	_, err = services.DocumentOwner(db, doc.ID)
	require.ErrorIs(t, err, services.ErrNotFound)

	res, err := services.ReconcileDocuments(context.Background(), db, store, time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.PendingFailed)

	store.broken = false
	res, err = services.ReconcileDocuments(context.Background(), db, store, time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.PendingFinished)

	var count int64
	require.NoError(t, db.Model(&models.Document{}).Count(&count).Error)
	assert.Zero(t, count)
	_, err = os.Stat(store.Path(doc.FileName))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReconcileRemovesOldOrphans(t *testing.T) {
	db := newDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleUser)
	dir := t.TempDir()
	store := storage.NewLocal(dir)

	doc, err := services.UploadDocument(db, store, upload(alice.ID, "a", "report", "a.txt", []byte("kept")), maxUpload)
	require.NoError(t, err)

	old, err := store.Save("txt", strings.NewReader("orphan"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(store.Path(old.Name), past, past))
	fresh, err := store.Save("txt", strings.NewReader("in flight"))
	require.NoError(t, err)

	res, err := services.ReconcileDocuments(context.Background(), db, store, time.Hour, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, res.OrphansRemoved)
	assert.ElementsMatch(t, []string{doc.FileName, fresh.Name}, storedFiles(t, dir))
}
