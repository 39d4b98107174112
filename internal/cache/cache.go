// Package cache provides the per-provider metadata store: one JSON file mapping
// content ids to their last fetched payload, with time-based expiration and
// self-healing on corruption.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/trimmer-cli/trimmer/filesystem"
	"github.com/trimmer-cli/trimmer/log"
)

// DefaultTTL is how long a fetched payload stays fresh.
const DefaultTTL = 24 * time.Hour

var (
	// ErrCorruptStore classifies a backing file that could not be decoded.
	// It is recovered from internally and only ever appears in diagnostics.
	ErrCorruptStore = errors.New("corrupt cache store")
	// ErrCacheUnrecoverable is returned when a corrupt backing file cannot be removed.
	ErrCacheUnrecoverable = errors.New("cache unrecoverable")
)

// Entry is a stored payload and the moment it was stored.
type Entry struct {
	Payload  json.RawMessage `json:"payload"`
	StoredAt time.Time       `json:"stored_at"`
}

// Info describes an entry without its payload.
type Info struct {
	Key      string
	StoredAt time.Time
	Expired  bool
}

// Options configure a Store.
type Options struct {
	// Dir holds the backing file.
	Dir string
	// Name is the backing file stem, usually the provider id.
	Name string
	// TTL defaults to DefaultTTL.
	TTL time.Duration
	// Bypass makes every Get a miss. Puts are still persisted.
	Bypass bool
	// Lock guards every operation with a lock file next to the store.
	// It only takes effect on the OS filesystem backend.
	Lock bool
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store is a file-backed mapping from content id to payload.
// Every operation loads and, when mutating, rewrites the whole mapping.
type Store struct {
	options Options
	path    string
	lock    *flock.Flock

	mu      sync.Mutex
	backend *gache.Cache[map[string]*Entry]
	decoder *decoder
}

// decoder records decode failures instead of returning them, so gache does
// not overwrite the file and load can tell corruption apart from I/O errors.
type decoder struct {
	err error
}

func (d *decoder) Decode(r io.Reader, data any) error {
	d.err = nil
	if err := json.NewDecoder(r).Decode(data); err != nil && !errors.Is(err, io.EOF) {
		d.err = err
	}
	return nil
}

// New creates a store. Nothing is read until the first operation.
func New(options Options) (*Store, error) {
	if options.Dir == "" {
		return nil, errors.New("cache directory is empty")
	}
	if options.Name == "" {
		return nil, errors.New("cache name is empty")
	}
	if options.TTL <= 0 {
		options.TTL = DefaultTTL
	}
	if options.Now == nil {
		options.Now = time.Now
	}

	s := &Store{
		options: options,
		path:    filepath.Join(options.Dir, options.Name+".json"),
	}

	if options.Lock && filesystem.IsOs() {
		s.lock = flock.New(filepath.Join(options.Dir, options.Name+".lock"))
	}

	return s, nil
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// TTL returns the effective time-to-live.
func (s *Store) TTL() time.Duration {
	return s.options.TTL
}

// Bypassed reports whether reads are being skipped.
func (s *Store) Bypassed() bool {
	return s.options.Bypass
}

// Get returns a copy of the payload stored under key.
// Expired entries are evicted and reported as absent.
func (s *Store) Get(key string) (mo.Option[json.RawMessage], error) {
	if s.options.Bypass {
		return mo.None[json.RawMessage](), nil
	}

	var result mo.Option[json.RawMessage]
	err := s.transaction(func(entries map[string]*Entry) (bool, error) {
		entry, ok := entries[key]
		if !ok || entry == nil {
			return false, nil
		}

		if s.expired(entry) {
			log.Debugf("cache %s: %s expired", s.options.Name, key)
			delete(entries, key)
			return true, nil
		}

		result = mo.Some(append(json.RawMessage(nil), entry.Payload...))
		return false, nil
	})

	return result, err
}

// Put stores payload under key, stamped with the current time.
func (s *Store) Put(key string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	return s.transaction(func(entries map[string]*Entry) (bool, error) {
		entries[key] = &Entry{Payload: raw, StoredAt: s.options.Now()}
		return true, nil
	})
}

// Delete removes key. Removing an absent key is not an error.
func (s *Store) Delete(key string) error {
	return s.transaction(func(entries map[string]*Entry) (bool, error) {
		if _, ok := entries[key]; !ok {
			return false, nil
		}
		delete(entries, key)
		return true, nil
	})
}

// Prune evicts every expired entry and returns how many were dropped.
func (s *Store) Prune() (int, error) {
	var pruned int
	err := s.transaction(func(entries map[string]*Entry) (bool, error) {
		for key, entry := range entries {
			if entry == nil || s.expired(entry) {
				delete(entries, key)
				pruned++
			}
		}
		return pruned > 0, nil
	})

	return pruned, err
}

// Keys lists stored keys in lexical order, expired ones included.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	err := s.transaction(func(entries map[string]*Entry) (bool, error) {
		keys = lo.Keys(entries)
		return false, nil
	})

	sort.Strings(keys)
	return keys, err
}

// List describes every stored entry ordered by key.
func (s *Store) List() ([]Info, error) {
	var infos []Info
	err := s.transaction(func(entries map[string]*Entry) (bool, error) {
		for key, entry := range entries {
			if entry == nil {
				continue
			}
			infos = append(infos, Info{Key: key, StoredAt: entry.StoredAt, Expired: s.expired(entry)})
		}
		return false, nil
	})

	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, err
}

// Clear removes the backing file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	s.backend = nil
	if err := filesystem.API().Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *Store) expired(entry *Entry) bool {
	return s.options.Now().Sub(entry.StoredAt) > s.options.TTL
}

// transaction runs fn against the freshly loaded mapping and persists it when fn reports a change.
func (s *Store) transaction(fn func(entries map[string]*Entry) (changed bool, err error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	unlock, err := s.acquire()
	if err != nil {
		return err
	}
	defer unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	changed, err := fn(entries)
	if err != nil || !changed {
		return err
	}

	if err := s.backend.Set(entries); err != nil {
		return fmt.Errorf("persist cache %s: %w", s.options.Name, err)
	}
	return nil
}

func (s *Store) acquire() (release func(), err error) {
	if s.lock == nil {
		return func() {}, nil
	}

	if err := filesystem.API().MkdirAll(s.options.Dir, os.ModePerm); err != nil {
		return nil, err
	}
	if err := s.lock.Lock(); err != nil {
		return nil, fmt.Errorf("lock cache %s: %w", s.options.Name, err)
	}

	return func() {
		if err := s.lock.Unlock(); err != nil {
			log.Warnf("unlock cache %s: %v", s.options.Name, err)
		}
	}, nil
}

func (s *Store) open() *gache.Cache[map[string]*Entry] {
	s.decoder = &decoder{}
	return gache.New[map[string]*Entry](&gache.Options{
		Path:       s.path,
		FileSystem: &filesystem.GacheFs{},
		Decoder:    s.decoder,
	})
}

// load reads the backing file through a fresh handle so writes made by other
// processes are observed. A file that fails to decode is deleted and the
// store starts over empty. I/O errors are returned as they are.
func (s *Store) load() (map[string]*Entry, error) {
	s.backend = s.open()

	entries, _, err := s.backend.Get()
	if err != nil {
		return nil, fmt.Errorf("load cache %s: %w", s.options.Name, err)
	}

	if s.decoder.err != nil {
		corrupt := fmt.Errorf("%w: %s: %v", ErrCorruptStore, s.path, s.decoder.err)
		log.Warnf("%v; starting with an empty cache", corrupt)

		if rmErr := filesystem.API().Remove(s.path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("%w: remove %s: %v", ErrCacheUnrecoverable, s.path, rmErr)
		}

		s.backend = s.open()
		return make(map[string]*Entry), nil
	}

	if entries == nil {
		entries = make(map[string]*Entry)
	}
	return entries, nil
}
