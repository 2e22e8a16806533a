package storage

import (
	"fmt"
	"strconv"
)

// Profile keys in profile_kv.
const (
	keyBestScore         = "best_score"
	keyTutorialCompleted = "tutorial_completed"
	keyBalance           = "balance"
)

// Backend is the per-profile state a frontend persists between runs.
type Backend interface {
	LoadBestScore() (int, error)
	SaveBestScore(score int) error
	LoadTutorialCompleted() (bool, error)
	SaveTutorialCompleted() error
	LoadBalance() (int, error)
	SaveBalance(balance int) error
}

// Profile is one player's saved state inside a Store.
type Profile struct {
	store *Store
	name  string
}

// Profile returns a handle to the named profile. Profiles are created lazily
// on first write.
func (s *Store) Profile(name string) *Profile {
	return &Profile{store: s, name: name}
}

// Name returns the profile name.
func (p *Profile) Name() string {
	return p.name
}

func (p *Profile) loadInt(key string) (int, error) {
	raw, ok, err := p.store.Value(p.name, key)
	if err != nil || !ok {
		return 0, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("storage: corrupt %s for %s: %w", key, p.name, err)
	}
	return n, nil
}

// LoadBestScore returns the saved best score, 0 if none.
func (p *Profile) LoadBestScore() (int, error) {
	return p.loadInt(keyBestScore)
}

// SaveBestScore stores a new best score.
func (p *Profile) SaveBestScore(score int) error {
	return p.store.SetValue(p.name, keyBestScore, strconv.Itoa(score))
}

// LoadTutorialCompleted reports whether the tutorial was finished before.
func (p *Profile) LoadTutorialCompleted() (bool, error) {
	raw, ok, err := p.store.Value(p.name, keyTutorialCompleted)
	if err != nil || !ok {
		return false, err
	}
	done, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("storage: corrupt %s for %s: %w", keyTutorialCompleted, p.name, err)
	}
	return done, nil
}

// SaveTutorialCompleted marks the tutorial as finished.
func (p *Profile) SaveTutorialCompleted() error {
	return p.store.SetValue(p.name, keyTutorialCompleted, strconv.FormatBool(true))
}

// LoadBalance returns the saved coin balance.
func (p *Profile) LoadBalance() (int, error) {
	return p.loadInt(keyBalance)
}

// SaveBalance stores the coin balance.
func (p *Profile) SaveBalance(balance int) error {
	return p.store.SetValue(p.name, keyBalance, strconv.Itoa(balance))
}

var _ Backend = (*Profile)(nil)
