// Package wallet keeps the player's coin balance across runs.
package wallet

import (
	"io"
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

// Store persists the balance.
type Store interface {
	LoadBalance() (int, error)
	SaveBalance(balance int) error
}

// Wallet credits run coins with a multiplier and saves the new balance.
type Wallet struct {
	mu         sync.Mutex
	balance    int
	multiplier float64
	store      Store
	logger     *log.Logger
}

// New loads the balance from store. A load failure is logged and the wallet
// starts empty. A nil store keeps the balance in memory only.
func New(store Store, multiplier float64, logger *log.Logger) *Wallet {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if multiplier <= 0 {
		multiplier = 1
	}

	w := &Wallet{
		multiplier: multiplier,
		store:      store,
		logger:     logger,
	}
	if store != nil {
		balance, err := store.LoadBalance()
		if err != nil {
			logger.Warn("could not load wallet balance, starting at 0", "error", err)
		} else {
			w.balance = balance
		}
	}
	return w
}

// RegisterRunCoins credits collected coins and returns the amount awarded.
func (w *Wallet) RegisterRunCoins(collected int) int {
	if collected <= 0 {
		return 0
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	awarded := int(math.Round(float64(collected) * w.multiplier))
	w.balance += awarded

	if w.store != nil {
		if err := w.store.SaveBalance(w.balance); err != nil {
			w.logger.Warn("could not save wallet balance", "balance", w.balance, "error", err)
		}
	}
	w.logger.Debug("coins credited", "collected", collected, "awarded", awarded, "balance", w.balance)
	return awarded
}

// Balance returns the current balance.
func (w *Wallet) Balance() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balance
}
