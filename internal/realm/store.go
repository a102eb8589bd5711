// ABOUTME: TTL cache of parsed realm password files keyed by file path
// ABOUTME: Builds lazily with single-flight dedup and wipes secrets on teardown

package realm

import (
	"context"
	"log/slog"
	"time"

	"github.com/2389/realmgate/internal/cache"
)

// DefaultTTL bounds how long a parsed password file is reused before the
// next access re-reads it from disk.
const DefaultTTL = 60 * time.Second

// Store caches parsed realm password files keyed by path, so an
// authorization check does not re-read and re-parse the file on every
// request. Entries are built lazily on first access, shared by concurrent
// requesters (one build per path), evicted on access after TTL and wiped on
// teardown.
type Store struct {
	cache  *cache.Cache
	logger *slog.Logger
}

// NewStore creates a Store. A ttl of zero selects DefaultTTL.
func NewStore(ttl time.Duration, logger *slog.Logger) *Store {
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{logger: logger.With("component", "realm")}
	s.cache = cache.New(ttl,
		func(_ context.Context, path string) (any, error) {
			creds, err := loadCredentials(path, s.logger)
			if err != nil {
				s.logger.Error("loading password file failed", "file", path, "error", err)
				return nil, err
			}
			s.logger.Debug("password file loaded", "file", path, "users", creds.Len())
			return creds, nil
		},
		func(v any) {
			v.(*Credentials).wipe()
		})

	return s
}

// Entry is a referenced, request-scoped view of one realm's credentials.
// It must be released before the request completes and never retained.
type Entry struct {
	ref *cache.Ref
}

// Credentials returns the credential index this entry references.
func (e *Entry) Credentials() *Credentials {
	return e.ref.Value().(*Credentials)
}

// Release drops the reference. Release is idempotent.
func (e *Entry) Release() {
	e.ref.Release()
}

// Acquire returns a live, referenced credential index for the given password
// file path, building it if no fresh one is cached. Concurrent callers for
// the same path share one build and its outcome.
func (s *Store) Acquire(ctx context.Context, path string) (*Entry, error) {
	ref, err := s.cache.GetAndRef(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Entry{ref: ref}, nil
}

// Close destroys every cached entry, wiping all stored credential bytes.
func (s *Store) Close() {
	s.cache.Close()
}
