package localstore

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/soko/core/cart"
)

// DefaultKey is the fixed, versioned storage key the cart state lives under.
// Bump the version suffix to rotate the schema by key: old entries are simply
// never read again.
const DefaultKey = "soko_cart_v1"

// cartStorage persists a single cart.State as a JSON document in a file named
// after its key. No TTL, no locking: concurrent writers last-write-win on the
// shared entry, which is an accepted limitation.
type cartStorage struct {
	dir string
	key string
}

var _ cart.Storage = (*cartStorage)(nil)

func NewCartStorage(dir string) cart.Storage {
	return &cartStorage{dir: dir, key: DefaultKey}
}

// NewOwnerCartStorage scopes the storage key by owner so each owner holds an
// independent entry.
func NewOwnerCartStorage(dir, owner string) cart.Storage {
	return &cartStorage{dir: dir, key: DefaultKey + "_" + safeKey(owner)}
}

// Opener adapts this package to the cart registry.
func Opener(dir string) cart.StorageOpener {
	return func(owner string) cart.Storage {
		return NewOwnerCartStorage(dir, owner)
	}
}

func (s cartStorage) path() string {
	return filepath.Join(s.dir, s.key+".json")
}

// Load returns the last persisted state. Missing entries, unreadable files and
// malformed JSON are all reported as cart.ErrNoState: parse failure is treated
// identically to absence.
func (s cartStorage) Load() (cart.State, error) {
	data, err := ioutil.ReadFile(s.path())
	if err != nil {
		return cart.State{}, cart.ErrNoState
	}
	var state cart.State
	if err = json.Unmarshal(data, &state); err != nil {
		return cart.State{}, cart.ErrNoState
	}
	return state, nil
}

// Save serializes the full state and writes it under the fixed key.
func (s cartStorage) Save(state cart.State) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return errors.Wrapf(err, "creating cart dir %s", s.dir)
	}
	data, err := json.Marshal(state)
	if err != nil {
		return errors.Wrap(err, "serializing cart state")
	}
	if err = ioutil.WriteFile(s.path(), data, 0644); err != nil {
		return errors.Wrapf(err, "writing cart entry %s", s.key)
	}
	return nil
}

// safeKey maps an owner id onto a filename-safe fragment.
func safeKey(owner string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '-'
		}
	}, owner)
}
