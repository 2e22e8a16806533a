package runner

import (
	"context"
	"time"
)

// Persistence stores the little that survives between runs.
// Implementations report failures; the run substitutes defaults.
type Persistence interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
	LoadTutorialCompleted() (bool, error)
	SaveTutorialCompleted() error
}

// Ads provides rewarded and interstitial ads.
type Ads interface {
	HasRewardedAdAvailable() bool
	// ShowRewardedAd blocks until the ad closes and reports whether the
	// reward was earned.
	ShowRewardedAd(ctx context.Context) (bool, error)
	// MaybeShowInterstitial must not block.
	MaybeShowInterstitial(runDuration time.Duration, score, coins int)
}

// Analytics observes run events. Track must not block.
type Analytics interface {
	Track(ev Event)
}

// Wallet credits collected coins.
type Wallet interface {
	// RegisterRunCoins credits collected coins and returns the amount
	// actually awarded after multipliers.
	RegisterRunCoins(collected int) int
	Balance() int
}

// MemoryPersistence keeps persisted values in memory. It is the default
// when no persistence is configured.
type MemoryPersistence struct {
	Best              int
	TutorialCompleted bool
}

func (m *MemoryPersistence) LoadBestScore() (int, error)          { return m.Best, nil }
func (m *MemoryPersistence) SaveBestScore(score int) error        { m.Best = score; return nil }
func (m *MemoryPersistence) LoadTutorialCompleted() (bool, error) { return m.TutorialCompleted, nil }
func (m *MemoryPersistence) SaveTutorialCompleted() error         { m.TutorialCompleted = true; return nil }

// NoAds never has an ad to show.
type NoAds struct{}

func (NoAds) HasRewardedAdAvailable() bool                  { return false }
func (NoAds) ShowRewardedAd(context.Context) (bool, error)  { return false, nil }
func (NoAds) MaybeShowInterstitial(time.Duration, int, int) {}

// NopAnalytics discards events.
type NopAnalytics struct{}

func (NopAnalytics) Track(Event) {}

// MemoryWallet credits coins one to one.
type MemoryWallet struct {
	Coins int
}

func (w *MemoryWallet) RegisterRunCoins(collected int) int {
	w.Coins += collected
	return collected
}

func (w *MemoryWallet) Balance() int { return w.Coins }
