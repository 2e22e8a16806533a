// Package ads provides a simulated ad network for terminal builds, where no
// real ad SDK exists. It follows the fill, reward and pacing rules of a real
// provider so the revive and interstitial flows behave the same.
package ads

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/inkdash/internal/config"
)

// ErrNoFill is returned when a rewarded ad is requested but none is loaded.
var ErrNoFill = errors.New("ads: no fill")

// Config controls the simulated provider.
type Config struct {
	FillRate          float64       // Chance that an ad is loaded after each show
	RewardRate        float64       // Chance the viewer watches to the end
	Latency           time.Duration // How long a rewarded ad plays
	InterstitialEvery int           // Show an interstitial every N finished runs
	InterstitialMin   time.Duration // Skip interstitials after very short runs
}

// FromConfig converts the runner's ads section.
func FromConfig(c config.AdsConfig) Config {
	return Config{
		FillRate:          c.FillRate,
		RewardRate:        c.RewardRate,
		Latency:           time.Duration(c.LatencyMS) * time.Millisecond,
		InterstitialEvery: c.InterstitialEvery,
		InterstitialMin:   time.Duration(c.InterstitialMinS * float64(time.Second)),
	}
}

// Simulated is an in-process ad provider. Safe for concurrent use.
type Simulated struct {
	mu            sync.Mutex
	cfg           Config
	rng           *rand.Rand
	logger        *log.Logger
	loaded        bool
	finishedRuns  int
	interstitials int
	rewarded      int
}

// NewSimulated creates a provider and loads the first rewarded ad.
func NewSimulated(cfg Config, seed int64, logger *log.Logger) *Simulated {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Simulated{
		cfg:    cfg,
		rng:    rand.New(rand.NewSource(seed)),
		logger: logger,
	}
	s.loaded = s.roll(cfg.FillRate)
	return s
}

func (s *Simulated) roll(chance float64) bool {
	return s.rng.Float64() < chance
}

// HasRewardedAdAvailable reports whether a rewarded ad is loaded.
func (s *Simulated) HasRewardedAdAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// ShowRewardedAd plays the loaded ad and reports whether the reward was
// earned. It blocks for the configured latency or until ctx is done.
func (s *Simulated) ShowRewardedAd(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if !s.loaded {
		s.mu.Unlock()
		return false, ErrNoFill
	}
	s.loaded = false
	earned := s.roll(s.cfg.RewardRate)
	latency := s.cfg.Latency
	s.mu.Unlock()

	s.logger.Debug("rewarded ad playing", "latency", latency)

	timer := time.NewTimer(latency)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		s.reload()
		return false, ctx.Err()
	}

	s.reload()
	if earned {
		s.mu.Lock()
		s.rewarded++
		s.mu.Unlock()
	}
	s.logger.Debug("rewarded ad closed", "earned", earned)
	return earned, nil
}

// reload simulates fetching the next ad.
func (s *Simulated) reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = s.roll(s.cfg.FillRate)
}

// MaybeShowInterstitial counts a finished run and shows an interstitial on
// the configured cadence. It never blocks.
func (s *Simulated) MaybeShowInterstitial(runDuration time.Duration, score, coins int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finishedRuns++
	if s.cfg.InterstitialEvery <= 0 || s.finishedRuns%s.cfg.InterstitialEvery != 0 {
		return
	}
	if runDuration < s.cfg.InterstitialMin {
		return
	}
	s.interstitials++
	s.logger.Info("interstitial shown", "run", s.finishedRuns, "duration", runDuration.Round(time.Second), "score", score, "coins", coins)
}

// Interstitials returns how many interstitials were shown.
func (s *Simulated) Interstitials() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interstitials
}

// Rewarded returns how many rewarded ads paid out.
func (s *Simulated) Rewarded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rewarded
}
