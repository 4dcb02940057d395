package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invdash/internal/model"
	"invdash/internal/store"
)

func TestDocumentPostgres_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"value"}).
			AddRow([]byte(`{"files":[],"products":[{"id":1,"name":"Wireless Headphones"}],"orders":[],"settings":{"nextFileId":3,"nextProductId":3,"nextOrderId":1}}`))

		mock.ExpectQuery("SELECT value FROM app_documents WHERE key = ?").
			WithArgs(store.Key).
			WillReturnRows(rows)

		doc, err := repo.Load(ctx)

		require.NoError(t, err)
		assert.Len(t, doc.Products, 1)
		assert.Equal(t, 3, doc.Settings.NextProductID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_documents WHERE key = ?").
			WithArgs(store.Key).
			WillReturnError(sql.ErrNoRows)

		doc, err := repo.Load(ctx)

		assert.ErrorIs(t, err, store.ErrNoDocument)
		assert.Nil(t, doc)
	})

	t.Run("connection error", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_documents WHERE key = ?").
			WithArgs(store.Key).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.Load(ctx)

		assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	})

	t.Run("corrupt row", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM app_documents WHERE key = ?").
			WithArgs(store.Key).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow([]byte(`{"files":`)))

		_, err := repo.Load(ctx)

		assert.ErrorIs(t, err, store.ErrCorruptData)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_Save(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	doc := &model.Document{Settings: model.Settings{NextFileID: 1, NextProductID: 1, NextOrderID: 1}}
	encoded, err := store.Encode(doc)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO app_documents").
			WithArgs(store.Key, encoded).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Save(ctx, doc))
	})

	t.Run("exec error", func(t *testing.T) {
		mock.ExpectExec("INSERT INTO app_documents").
			WithArgs(store.Key, encoded).
			WillReturnError(errors.New("disk full"))

		err := repo.Save(ctx, doc)
		assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
