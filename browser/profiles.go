package browser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// ErrAccountNotFound is returned when no persisted profile exists for the
// requested account. Tiers that mandatorily require an account propagate
// it; others degrade to an unauthenticated session.
var ErrAccountNotFound = errors.New("browser: account not found")

// Profiles is the session provider: it maps account names to persistent
// Chrome user-data directories and serializes access so that at most one
// live browser session uses a given account at a time.
type Profiles struct {
	root string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewProfiles creates a provider rooted at dir (e.g. ~/.auth/profiles).
func NewProfiles(dir string) *Profiles {
	return &Profiles{root: dir, locks: make(map[string]*sync.Mutex)}
}

// Session holds an exclusive claim on one account's profile directory.
// Callers must Release it on every exit path.
type Session struct {
	Account     string
	UserDataDir string
	release     func()
}

// Release returns the account to the pool. Safe to call once.
func (s *Session) Release() {
	if s.release != nil {
		s.release()
		s.release = nil
	}
}

// Session claims the profile for an account. It fails with
// ErrAccountNotFound when no profile directory exists, meaning the login
// flow has not been run. The claim blocks while another session holds the same account.
func (p *Profiles) Session(account string) (*Session, error) {
	dir := p.dir(account)
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("%w: %q (run login first)", ErrAccountNotFound, account)
	}

	lock := p.lockFor(account)
	lock.Lock()
	return &Session{
		Account:     account,
		UserDataDir: dir,
		release:     lock.Unlock,
	}, nil
}

// Create makes the profile directory for a new account and claims it.
// Chrome itself persists cookies and storage into the directory during the
// interactive login flow.
func (p *Profiles) Create(account string) (*Session, error) {
	if account == "" {
		return nil, fmt.Errorf("browser: empty account name")
	}
	dir := p.dir(account)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("browser: create profile: %w", err)
	}

	lock := p.lockFor(account)
	lock.Lock()
	return &Session{
		Account:     account,
		UserDataDir: dir,
		release:     lock.Unlock,
	}, nil
}

// List returns the names of all saved accounts, sorted.
func (p *Profiles) List() ([]string, error) {
	entries, err := os.ReadDir(p.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("browser: list profiles: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (p *Profiles) dir(account string) string {
	return filepath.Join(p.root, account)
}

func (p *Profiles) lockFor(account string) *sync.Mutex {
	p.mu.Lock()
	defer p.mu.Unlock()
	l, ok := p.locks[account]
	if !ok {
		l = &sync.Mutex{}
		p.locks[account] = l
	}
	return l
}
