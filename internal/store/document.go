package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
)

type DocumentStore struct {
	db *sql.DB
}

func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

const documentCols = `id, user_id, title, file_name, file_type, description, category, storage_key, subscription_id, created_at`

func scanDocument(scanner interface{ Scan(...any) error }) (*model.Document, error) {
	var d model.Document
	var subscriptionID sql.NullString
	err := scanner.Scan(
		&d.ID, &d.UserID, &d.Title, &d.FileName, &d.FileType,
		&d.Description, &d.Category, &d.StorageKey, &subscriptionID, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if subscriptionID.Valid {
		d.SubscriptionID = &subscriptionID.String
	}
	return &d, nil
}

func (s *DocumentStore) Create(userID, title, fileName, fileType, description, category, storageKey string, subscriptionID *string) (*model.Document, error) {
	var sID sql.NullString
	if subscriptionID != nil {
		sID = sql.NullString{String: *subscriptionID, Valid: true}
	}

	id := uuid.NewString()
	_, err := s.db.Exec(
		`INSERT INTO financial_documents (id, user_id, title, file_name, file_type, description, category, storage_key, subscription_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, userID, title, fileName, fileType, description, category, storageKey, sID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}
	return s.GetByID(id)
}

func (s *DocumentStore) GetByID(id string) (*model.Document, error) {
	row := s.db.QueryRow(`SELECT `+documentCols+` FROM financial_documents WHERE id = ?`, id)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return d, nil
}

func (s *DocumentStore) ListByUser(userID string) ([]model.Document, error) {
	rows, err := s.db.Query(
		`SELECT `+documentCols+` FROM financial_documents WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []model.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func (s *DocumentStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM financial_documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
