package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/fintrack/internal/model"
	"github.com/google/uuid"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userCols = `id, email, name, created_at`

func (s *UserStore) Create(email, name string) (*model.User, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO users (id, email, name) VALUES (?, ?, ?)`, id, email, name)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByID(id)
}

func (s *UserStore) GetByID(id string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(email string) (*model.User, error) {
	var u model.User
	err := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE email = ?`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}
