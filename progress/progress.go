// Package progress keeps the local, per-device record of playback positions.
package progress

import (
	"math"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kinogram/kino/filesystem"
	"github.com/kinogram/kino/log"
	"github.com/kinogram/kino/session"
	"github.com/kinogram/kino/source"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// Store is a disk-backed position store keyed by media id. Writes are best effort: failures
// are logged and never reach the caller.
type Store struct {
	cacher *gache.Cache[map[string]*Record]
	mu     sync.Mutex
	now    func() time.Time
}

var _ session.Store = (*Store)(nil)

// New opens the store persisted at path.
func New(path string) *Store {
	return &Store{
		cacher: gache.New[map[string]*Record](
			&gache.Options{
				Path:       path,
				FileSystem: &filesystem.GacheFs{},
			},
		),
		now: time.Now,
	}
}

func (s *Store) load() (map[string]*Record, error) {
	cached, expired, err := s.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*Record), nil
	}
	return cached, nil
}

// Get returns the saved position of mediaID, if any.
func (s *Store) Get(mediaID string) mo.Option[float64] {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		log.Warnf("progress: read %s: %v", mediaID, err)
		return mo.None[float64]()
	}

	record, ok := records[mediaID]
	if !ok || record.Position <= 0 || math.IsNaN(record.Position) {
		return mo.None[float64]()
	}
	return mo.Some(record.Position)
}

// Set overwrites the saved position of mediaID.
func (s *Store) Set(mediaID string, seconds float64) {
	s.update(mediaID, func(r *Record) {
		r.Position = seconds
	})
}

// Describe attaches the movie details and the known duration to the record of mediaID so it
// can be listed later.
func (s *Store) Describe(mediaID string, movie source.Movie, duration float64) {
	s.update(mediaID, func(r *Record) {
		r.Title = movie.Title
		r.Year = movie.Year
		if duration > 0 {
			r.Duration = duration
		} else if r.Duration == 0 {
			r.Duration = movie.DurationHint()
		}
	})
}

func (s *Store) update(mediaID string, apply func(*Record)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		log.Warnf("progress: read %s: %v", mediaID, err)
		return
	}

	record, ok := records[mediaID]
	if !ok {
		record = &Record{MediaID: mediaID}
		records[mediaID] = record
	}
	apply(record)
	record.UpdatedAt = s.now()

	if err := s.cacher.Set(records); err != nil {
		log.Warnf("progress: write %s: %v", mediaID, err)
	}
}

// List returns every record, most recently updated first.
func (s *Store) List() ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	list := lo.Values(records)
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
			return list[i].MediaID < list[j].MediaID
		}
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	return list, nil
}

// Filter returns the records whose title fuzzily matches query, best matches first.
func (s *Store) Filter(query string) ([]*Record, error) {
	list, err := s.List()
	if err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return list, nil
	}

	byTitle := lo.GroupBy(list, func(r *Record) string { return r.Title })
	ranks := fuzzy.RankFindNormalizedFold(query, lo.Keys(byTitle))
	sort.Sort(ranks)

	matched := make([]*Record, 0, len(ranks))
	for _, rank := range ranks {
		matched = append(matched, byTitle[rank.Target]...)
	}
	return matched, nil
}

// Remove forgets mediaID. Removing an unknown id is not an error.
func (s *Store) Remove(mediaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := records[mediaID]; !ok {
		return nil
	}

	delete(records, mediaID)
	return s.cacher.Set(records)
}

// Clear forgets every record.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cacher.Set(make(map[string]*Record))
}

// IDs returns the stored media ids in ascending order.
func (s *Store) IDs() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	ids := lo.Keys(records)
	slices.Sort(ids)
	return ids, nil
}
