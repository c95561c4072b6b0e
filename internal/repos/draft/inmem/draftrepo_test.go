package inmem

import (
	"testing"
	"time"

	"github.com/cwaldner/rostra/internal/draft"
	"github.com/cwaldner/rostra/internal/repos"
)

func TestDraftLifecycle(t *testing.T) {
	repo := New(time.Hour)

	d := draft.New("nwta")
	d.Name = "June weekend"
	token, err := repo.Create(d)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	loaded, err := repo.Get(token)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if loaded.Name != "June weekend" {
		t.Fatalf("expected stored draft back, got %q", loaded.Name)
	}

	updated := draft.AddStaffCandidate(*loaded, 4)
	if err := repo.Replace(token, updated); err != nil {
		t.Fatalf("replace: %v", err)
	}
	loaded, err = repo.Get(token)
	if err != nil {
		t.Fatalf("get after replace: %v", err)
	}
	if loaded.Staff[4] != draft.StaffPotential {
		t.Fatalf("replaced state not returned, staff = %+v", loaded.Staff)
	}

	if err := repo.Delete(token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(token); err != repos.ErrEntityNotExisting {
		t.Fatalf("expected ErrEntityNotExisting after delete, got %v", err)
	}
}

func TestDraftUnknownToken(t *testing.T) {
	repo := New(time.Hour)
	if _, err := repo.Get("no-such-token"); err != repos.ErrEntityNotExisting {
		t.Fatalf("expected ErrEntityNotExisting, got %v", err)
	}
	if err := repo.Replace("no-such-token", draft.New("standard")); err != repos.ErrEntityNotExisting {
		t.Fatalf("expected ErrEntityNotExisting, got %v", err)
	}
}

func TestDraftExpiry(t *testing.T) {
	repo := New(10 * time.Millisecond)
	token, err := repo.Create(draft.New("standard"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	time.Sleep(30 * time.Millisecond)
	if _, err := repo.Get(token); err != repos.ErrEntityNotExisting {
		t.Fatalf("expected the draft to expire, got %v", err)
	}
}

func TestDraftTokensAreUnique(t *testing.T) {
	repo := New(time.Hour)
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		token, err := repo.Create(draft.New("standard"))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if seen[token] {
			t.Fatalf("token %q handed out twice", token)
		}
		seen[token] = true
	}
}
