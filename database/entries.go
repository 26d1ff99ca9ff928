// Package database persists the knowledge corpus in Postgres with
// pgvector-typed embeddings, keyed by the explicit row identifier.
package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/um5chat/campuschat/corpus"
	"github.com/um5chat/campuschat/helper"
	"github.com/um5chat/campuschat/model"
	loadSql "github.com/um5chat/campuschat/sql"
)

// EntriesDBHandlerFunctions defines the interface for corpus database
// operations.
type EntriesDBHandlerFunctions interface {
	InsertEntry(entry *model.KnowledgeEntry, embedding []float32) error
	ImportCorpus(c *corpus.Corpus) error
	LoadCorpus() (*corpus.Corpus, error)
	SelectEntriesBySimilarity(embedding []float32, limit int) ([]*model.RetrievedDocument, error)
	CountEntries() (int, error)
	DeleteAllEntries() error
}

// EntriesDBHandler handles corpus-related database operations.
type EntriesDBHandler struct {
	db *helper.Database
}

// NewEntriesDBHandler creates a new entries database handler. It loads
// the entry-related SQL functions and creates the table for the given
// embedding dimension. If force is true, it reloads the SQL functions
// even if they already exist.
func NewEntriesDBHandler(db *helper.Database, embeddingDim int, force bool) (*EntriesDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if embeddingDim < 1 {
		return nil, helper.NewError("database connection validation", fmt.Errorf("embedding dimension %d must be at least 1", embeddingDim))
	}

	handler := &EntriesDBHandler{
		db: db,
	}

	err := loadSql.LoadEntriesSql(handler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load entries sql", err)
	}

	err = handler.CreateTable(embeddingDim)
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized EntriesDBHandler")

	return handler, nil
}

// CreateTable creates the 'entries' table in the database. If the table
// already exists, it does not create it again.
func (h *EntriesDBHandler) CreateTable(embeddingDim int) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_entries($1);`, embeddingDim)
	if err != nil {
		return helper.NewError("initialize entries table", err)
	}

	h.db.Logger.Info("Checked/created table entries")

	return nil
}

// InsertEntry inserts one corpus entry with its embedding vector.
func (h *EntriesDBHandler) InsertEntry(entry *model.KnowledgeEntry, embedding []float32) error {
	row := h.db.Instance.QueryRow(
		`SELECT * FROM insert_entry($1, $2, $3, $4, $5, $6)`,
		entry.RID,
		entry.Row,
		entry.Question,
		entry.Answer,
		entry.Intent,
		pgvector.NewVector(embedding),
	)

	err := row.Scan(
		&entry.RID,
		&entry.Row,
		&entry.Question,
		&entry.Answer,
		&entry.Intent,
	)
	if err != nil {
		return helper.NewError("scan", err)
	}

	return nil
}

// ImportCorpus inserts a whole validated corpus. Meant for the one-off
// import step, not for serving.
func (h *EntriesDBHandler) ImportCorpus(c *corpus.Corpus) error {
	for i, entry := range c.Entries {
		if err := h.InsertEntry(entry, c.Matrix[i]); err != nil {
			return helper.NewError(fmt.Sprintf("insert entry %d", entry.Row), err)
		}
	}

	h.db.Logger.Info("Imported corpus", slog.Int("num_entries", len(c.Entries)))

	return nil
}

// LoadCorpus reads the whole corpus back, ordered by row index, and
// revalidates the entry/matrix alignment.
func (h *EntriesDBHandler) LoadCorpus() (*corpus.Corpus, error) {
	rows, err := h.db.Instance.Query(`SELECT * FROM select_all_entries()`)
	if err != nil {
		return nil, helper.NewError("select all entries", err)
	}
	defer rows.Close()

	var entries []*model.KnowledgeEntry
	var matrix [][]float32
	for rows.Next() {
		entry := &model.KnowledgeEntry{}
		var embedding []float32
		err := rows.Scan(
			&entry.RID,
			&entry.Row,
			&entry.Question,
			&entry.Answer,
			&entry.Intent,
			pq.Array(&embedding),
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		entries = append(entries, entry)
		matrix = append(matrix, embedding)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate entries", err)
	}

	return corpus.New(entries, matrix)
}

// SelectEntriesBySimilarity returns the limit most similar entries to
// the embedding, sorted descending by cosine similarity with row index
// as tie-break. The ranking happens server side through pgvector.
func (h *EntriesDBHandler) SelectEntriesBySimilarity(embedding []float32, limit int) ([]*model.RetrievedDocument, error) {
	if limit < 1 {
		return nil, helper.NewError("select entries by similarity", fmt.Errorf("limit %d must be at least 1", limit))
	}

	rows, err := h.db.Instance.Query(
		`SELECT * FROM select_entries_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		limit,
	)
	if err != nil {
		return nil, helper.NewError("select entries by similarity", err)
	}
	defer rows.Close()

	var docs []*model.RetrievedDocument
	for rows.Next() {
		entry := &model.KnowledgeEntry{}
		doc := &model.RetrievedDocument{}
		err := rows.Scan(
			&entry.RID,
			&entry.Row,
			&doc.Question,
			&doc.Answer,
			&doc.Intent,
			&doc.Similarity,
		)
		if err != nil {
			return nil, helper.NewError("scan", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, helper.NewError("iterate entries", err)
	}

	return docs, nil
}

// CountEntries returns the corpus size.
func (h *EntriesDBHandler) CountEntries() (int, error) {
	var count int
	err := h.db.Instance.QueryRow(`SELECT count_entries()`).Scan(&count)
	if err != nil {
		return 0, helper.NewError("count entries", err)
	}
	return count, nil
}

// DeleteAllEntries clears the corpus table.
func (h *EntriesDBHandler) DeleteAllEntries() error {
	_, err := h.db.Instance.Exec(`SELECT delete_all_entries()`)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}
