package storage

import (
	"fmt"
	"sync"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const gdataObject = "profiles"

// gdataProfile is the YAML document stored per profile.
type gdataProfile struct {
	BestScore         int  `yaml:"best_score"`
	TutorialCompleted bool `yaml:"tutorial_completed"`
	Balance           int  `yaml:"balance"`
}

// GdataProfile keeps a profile in the platform's app data directory through
// gdata, the way a mobile or desktop build saves progress without a database.
type GdataProfile struct {
	mu      sync.Mutex
	manager *gdata.Manager
	name    string
}

// OpenGdata opens the gdata storage for appName and returns the named profile.
func OpenGdata(appName, profile string) (*GdataProfile, error) {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open gdata for %s: %w", appName, err)
	}
	return &GdataProfile{manager: m, name: profile}, nil
}

// Name returns the profile name.
func (g *GdataProfile) Name() string {
	return g.name
}

func (g *GdataProfile) load() (gdataProfile, error) {
	var p gdataProfile
	if !g.manager.ObjectPropExists(gdataObject, g.name) {
		return p, nil
	}
	data, err := g.manager.LoadObjectProp(gdataObject, g.name)
	if err != nil {
		return p, fmt.Errorf("storage: cannot load profile %s: %w", g.name, err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("storage: corrupt profile %s: %w", g.name, err)
	}
	return p, nil
}

// update applies fn to the stored document and writes it back.
func (g *GdataProfile) update(fn func(p *gdataProfile)) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p, err := g.load()
	if err != nil {
		return err
	}
	fn(&p)

	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("storage: cannot encode profile %s: %w", g.name, err)
	}
	if err := g.manager.SaveObjectProp(gdataObject, g.name, data); err != nil {
		return fmt.Errorf("storage: cannot save profile %s: %w", g.name, err)
	}
	return nil
}

func (g *GdataProfile) read() (gdataProfile, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.load()
}

// LoadBestScore returns the saved best score.
func (g *GdataProfile) LoadBestScore() (int, error) {
	p, err := g.read()
	return p.BestScore, err
}

// SaveBestScore stores a new best score.
func (g *GdataProfile) SaveBestScore(score int) error {
	return g.update(func(p *gdataProfile) { p.BestScore = score })
}

// LoadTutorialCompleted reports whether the tutorial was finished before.
func (g *GdataProfile) LoadTutorialCompleted() (bool, error) {
	p, err := g.read()
	return p.TutorialCompleted, err
}

// SaveTutorialCompleted marks the tutorial as finished.
func (g *GdataProfile) SaveTutorialCompleted() error {
	return g.update(func(p *gdataProfile) { p.TutorialCompleted = true })
}

// LoadBalance returns the saved coin balance.
func (g *GdataProfile) LoadBalance() (int, error) {
	p, err := g.read()
	return p.Balance, err
}

// SaveBalance stores the coin balance.
func (g *GdataProfile) SaveBalance(balance int) error {
	return g.update(func(p *gdataProfile) { p.Balance = balance })
}

var _ Backend = (*GdataProfile)(nil)
