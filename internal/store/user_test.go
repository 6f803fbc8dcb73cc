package store

import (
	"testing"

	"github.com/dukerupert/fintrack/internal/database"
)

func setupUserTestDB(t *testing.T) *UserStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewUserStore(db)
}

func TestUserCreateAndGet(t *testing.T) {
	users := setupUserTestDB(t)

	u, err := users.Create("owner@example.com", "Owner")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.ID == "" {
		t.Error("expected generated ID")
	}

	got, err := users.GetByID(u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Email != "owner@example.com" || got.Name != "Owner" {
		t.Errorf("GetByID = %+v", got)
	}

	byEmail, err := users.GetByEmail("owner@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail == nil || byEmail.ID != u.ID {
		t.Errorf("GetByEmail = %+v", byEmail)
	}
}

func TestUserGetMissing(t *testing.T) {
	users := setupUserTestDB(t)

	got, err := users.GetByID("nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Errorf("GetByID = %+v, want nil", got)
	}

	byEmail, err := users.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if byEmail != nil {
		t.Errorf("GetByEmail = %+v, want nil", byEmail)
	}
}
