package session

import (
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

func newTestManager(lifetime time.Duration) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	return NewManager(store, lifetime, common.NewSilentLogger()), store
}

func TestCreateAndValidate(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	created := m.Create("user-1", "pf-1")
	if created.Token == "" {
		t.Fatal("expected non-empty token")
	}

	session, err := m.Validate(created.Token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if session.UserID != "user-1" || session.ActivePortfolioID != "pf-1" {
		t.Errorf("unexpected session %+v", session)
	}
}

func TestValidate_UnknownToken(t *testing.T) {
	m, _ := newTestManager(time.Hour)

	_, err := m.Validate("no-such-token")
	if !errors.Is(err, models.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
}

func TestValidate_ExpiredTokenRemovedOnAccess(t *testing.T) {
	m, store := newTestManager(time.Hour)
	session := m.Create("user-1", "pf-1")

	// Jump the clock past expiry.
	m.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	if _, err := m.Validate(session.Token); !errors.Is(err, models.ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if store.Len() != 0 {
		t.Error("expected expired session removed on access")
	}
}

func TestSetActivePortfolio(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	session := m.Create("user-1", "pf-1")

	if err := m.SetActivePortfolio(session.Token, "pf-2"); err != nil {
		t.Fatal(err)
	}

	got, err := m.Validate(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got.ActivePortfolioID != "pf-2" {
		t.Errorf("expected active portfolio pf-2, got %s", got.ActivePortfolioID)
	}
}

func TestGetReturnsPrivateCopy(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	session := m.Create("user-1", "pf-1")

	got, err := m.Validate(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	got.ActivePortfolioID = "scribbled"

	again, err := m.Validate(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	if again.ActivePortfolioID != "pf-1" {
		t.Errorf("stored session mutated through a returned copy: %s", again.ActivePortfolioID)
	}
}

func TestConcurrentValidateAndSetActivePortfolio(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	session := m.Create("user-1", "pf-1")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		portfolioID := "pf-" + strconv.Itoa(i)
		go func() {
			defer wg.Done()
			if err := m.SetActivePortfolio(session.Token, portfolioID); err != nil {
				t.Errorf("SetActivePortfolio: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := m.Validate(session.Token); err != nil {
				t.Errorf("Validate: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := m.Validate(session.Token)
	if err != nil {
		t.Fatal(err)
	}
	if got.UserID != "user-1" {
		t.Errorf("session identity corrupted: %+v", got)
	}
}

func TestRevoke(t *testing.T) {
	m, _ := newTestManager(time.Hour)
	session := m.Create("user-1", "pf-1")

	m.Revoke(session.Token)

	if _, err := m.Validate(session.Token); !errors.Is(err, models.ErrSessionExpired) {
		t.Fatalf("expected revoked token invalid, got %v", err)
	}
}

func TestSweep(t *testing.T) {
	m, store := newTestManager(time.Hour)
	fresh := m.Create("user-1", "pf-1")
	m.Create("user-2", "pf-2")
	m.Create("user-3", "pf-3")

	// Two of the three sessions are already past expiry.
	store.mu.Lock()
	i := 0
	for token, s := range store.sessions {
		if token != fresh.Token && i < 2 {
			s.ExpiresAt = time.Now().Add(-time.Minute)
			store.sessions[token] = s
			i++
		}
	}
	store.mu.Unlock()

	if removed := m.Sweep(); removed != 2 {
		t.Errorf("expected 2 swept, got %d", removed)
	}
	if store.Len() != 1 {
		t.Errorf("expected 1 surviving session, got %d", store.Len())
	}
	if _, err := m.Validate(fresh.Token); err != nil {
		t.Errorf("fresh session should survive sweep: %v", err)
	}
}
