package wallet

import (
	"errors"
	"testing"
)

type memStore struct {
	balance int
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) LoadBalance() (int, error) { return m.balance, m.loadErr }

func (m *memStore) SaveBalance(b int) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.balance = b
	m.saves++
	return nil
}

func TestWalletCreditsAndSaves(t *testing.T) {
	store := &memStore{balance: 10}
	w := New(store, 1, nil)

	if w.Balance() != 10 {
		t.Fatalf("expected loaded balance 10, got %d", w.Balance())
	}
	if got := w.RegisterRunCoins(5); got != 5 {
		t.Errorf("expected 5 awarded, got %d", got)
	}
	if w.Balance() != 15 || store.balance != 15 {
		t.Errorf("expected balance 15 saved, got wallet=%d store=%d", w.Balance(), store.balance)
	}

	if got := w.RegisterRunCoins(0); got != 0 || store.saves != 1 {
		t.Errorf("zero coins should not be saved: awarded=%d saves=%d", got, store.saves)
	}
}

func TestWalletMultiplier(t *testing.T) {
	w := New(nil, 1.5, nil)
	if got := w.RegisterRunCoins(3); got != 5 {
		t.Errorf("expected 3*1.5 rounded to 5, got %d", got)
	}
	if w.Balance() != 5 {
		t.Errorf("expected balance 5, got %d", w.Balance())
	}

	flat := New(nil, 0, nil)
	if got := flat.RegisterRunCoins(4); got != 4 {
		t.Errorf("non-positive multiplier should default to 1, got %d", got)
	}
}

func TestWalletStoreFailures(t *testing.T) {
	store := &memStore{balance: 99, loadErr: errors.New("locked")}
	w := New(store, 1, nil)
	if w.Balance() != 0 {
		t.Errorf("failed load should start at 0, got %d", w.Balance())
	}

	store.saveErr = errors.New("disk full")
	if got := w.RegisterRunCoins(2); got != 2 || w.Balance() != 2 {
		t.Errorf("failed save must still credit in memory: awarded=%d balance=%d", got, w.Balance())
	}
}
