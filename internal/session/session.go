// Package session keeps the signed-in identity for client components
// and persists it across restarts.
package session

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/relieflk/floodmap/util/values"
)

// Identity is the persisted view of who is signed in.
type Identity struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Token    string `json:"token"`
}

func (id Identity) IsAdmin() bool {
	return id.Role == values.RoleAdmin
}

// Persistence stores one identity between runs.
type Persistence interface {
	Load() (Identity, bool, error)
	Save(Identity) error
	Clear() error
}

// Store guards the current identity. All client components read the
// viewer through it so a logout is seen everywhere at once.
type Store struct {
	mu      sync.Mutex
	backing Persistence
	current *Identity
}

func New(backing Persistence) (*Store, error) {
	s := &Store{backing: backing}
	if backing == nil {
		return s, nil
	}
	identity, ok, err := backing.Load()
	if err != nil {
		return nil, errors.Wrap(err, "loading persisted session")
	}
	if ok {
		s.current = &identity
	}
	return s, nil
}

// Current returns the signed-in identity, or ok=false when signed out.
func (s *Store) Current() (Identity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Identity{}, false
	}
	return *s.current, true
}

func (s *Store) SignIn(identity Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &identity
	if s.backing == nil {
		return nil
	}
	return errors.Wrap(s.backing.Save(identity), "persisting session")
}

func (s *Store) SignOut() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	if s.backing == nil {
		return nil
	}
	return errors.Wrap(s.backing.Clear(), "clearing persisted session")
}

// FileStore persists the identity as a JSON file, the moral equivalent
// of browser local storage.
type FileStore struct {
	Path string
}

func (f FileStore) Load() (Identity, bool, error) {
	raw, err := os.ReadFile(f.Path)
	if os.IsNotExist(err) {
		return Identity{}, false, nil
	}
	if err != nil {
		return Identity{}, false, err
	}
	var identity Identity
	if err := json.Unmarshal(raw, &identity); err != nil {
		return Identity{}, false, err
	}
	return identity, identity.Username != "", nil
}

func (f FileStore) Save(identity Identity) error {
	raw, err := json.Marshal(identity)
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f FileStore) Clear() error {
	err := os.Remove(f.Path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
