// Package retention keeps a bucket bounded to a fixed number of objects.
//
// A sync uploads one object, lists the bucket and, when the count is over the
// cap, deletes the single least-recently-modified object. At most one object
// is evicted per sync, so a burst of uploads converges one step at a time.
package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/maauso/clip-vault/internal/storage"
)

// DefaultCap is the retention cap used when none is configured.
const DefaultCap = 50

// ErrStore is returned when a put, list or delete call fails.
var ErrStore = errors.New("retention: store operation failed")

// Result describes the outcome of one sync.
type Result struct {
	// Key is the key the body was uploaded under.
	Key string
	// Uploaded is true once the put succeeded, even if a later step failed.
	Uploaded bool
	// Count is the number of objects enumerated after the upload.
	Count int
	// Evicted is the key of the deleted object, empty if none.
	Evicted string
}

// Syncer uploads objects and enforces the retention cap.
type Syncer struct {
	store  storage.ObjectStore
	cap    int
	logger *slog.Logger
}

// NewSyncer creates a Syncer over store. A cap below 1 falls back to DefaultCap.
func NewSyncer(store storage.ObjectStore, capacity int, logger *slog.Logger) *Syncer {
	if capacity < 1 {
		capacity = DefaultCap
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		store:  store,
		cap:    capacity,
		logger: logger,
	}
}

// Cap returns the configured retention cap.
func (s *Syncer) Cap() int {
	return s.cap
}

// Sync uploads body under key, then evicts the oldest object if the bucket
// holds more than the cap.
//
// An upload failure returns before anything is listed. A list or delete
// failure is returned with Uploaded set; the upload is not rolled back.
func (s *Syncer) Sync(ctx context.Context, key string, body []byte, contentType string) (Result, error) {
	res := Result{Key: key}

	if err := s.store.Put(ctx, key, body, contentType); err != nil {
		return res, fmt.Errorf("%w: %w", ErrStore, err)
	}
	res.Uploaded = true

	s.logger.Info("object uploaded",
		slog.String("key", key),
		slog.Int("size", len(body)),
	)

	objects, err := s.store.List(ctx)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrStore, err)
	}
	res.Count = len(objects)

	if res.Count <= s.cap {
		return res, nil
	}

	oldest, _ := Oldest(objects)
	if err := s.store.Delete(ctx, oldest.Key); err != nil {
		return res, fmt.Errorf("%w: %w", ErrStore, err)
	}
	res.Evicted = oldest.Key

	s.logger.Info("evicted oldest object",
		slog.String("key", oldest.Key),
		slog.Time("last_modified", oldest.LastModified),
		slog.Int("count", res.Count),
		slog.Int("cap", s.cap),
	)

	return res, nil
}

// Oldest returns the object with the minimum LastModified. Ties go to the
// object listed first. ok is false for an empty slice.
func Oldest(objects []storage.Object) (oldest storage.Object, ok bool) {
	if len(objects) == 0 {
		return storage.Object{}, false
	}

	oldest = objects[0]
	for _, o := range objects[1:] {
		if o.LastModified.Before(oldest.LastModified) {
			oldest = o
		}
	}
	return oldest, true
}
