package tokenstore

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/bobmcallan/marketdesk/internal/common"
	"github.com/bobmcallan/marketdesk/internal/models"
)

func newUnitTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(common.NewSilentLogger(), dir)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSessionCRUD(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()

	sess := &models.Session{
		ID:        "s1",
		UserID:    "u1",
		Email:     "alice@example.com",
		Role:      models.RoleAdmin,
		Token:     "backend-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	if err := store.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	got, err := store.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Token != "backend-token" {
		t.Errorf("token not persisted: got %q", got.Token)
	}
	if got.Email != "alice@example.com" || got.Role != models.RoleAdmin {
		t.Errorf("got %+v", got)
	}
	if got.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}

	if err := store.DeleteSession(ctx, "s1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := store.GetSession(ctx, "s1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDeleteMissingSessionIsNoop(t *testing.T) {
	store := newUnitTestStore(t)
	if err := store.DeleteSession(context.Background(), "nope"); err != nil {
		t.Errorf("DeleteSession on missing ID: %v", err)
	}
}

func TestSaveSessionRequiresID(t *testing.T) {
	store := newUnitTestStore(t)
	if err := store.SaveSession(context.Background(), &models.Session{}); err == nil {
		t.Error("expected error for empty session ID")
	}
}

func TestPurgeExpired(t *testing.T) {
	store := newUnitTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, s := range []*models.Session{
		{ID: "old", Token: "a", ExpiresAt: now.Add(-time.Minute)},
		{ID: "edge", Token: "b", ExpiresAt: now},
		{ID: "live", Token: "c", ExpiresAt: now.Add(time.Hour)},
		{ID: "forever", Token: "d"},
	} {
		if err := store.SaveSession(ctx, s); err != nil {
			t.Fatalf("SaveSession %s: %v", s.ID, err)
		}
	}

	ids, err := store.PurgeExpired(ctx, now)
	if err != nil {
		t.Fatalf("PurgeExpired: %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "edge" || ids[1] != "old" {
		t.Errorf("purged %v, want [edge old]", ids)
	}
	for _, id := range []string{"live", "forever"} {
		if _, err := store.GetSession(ctx, id); err != nil {
			t.Errorf("%s should survive purge: %v", id, err)
		}
	}
	if _, err := store.GetSession(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old should be purged, got %v", err)
	}
}
