// Package store is an export archive of fetched metadata pages. It is written
// and read by the archive and search commands only; the fetch engine never
// consults it and it must not serve as an image or metadata cache.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/photoviewer/internal/domain"
)

var bucketPages = []byte("pages")

// PhotoStore archives fetched metadata pages in BoltDB.
// It holds listings only; images are never written here.
type PhotoStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

// Open opens or creates the archive at path. An empty path keeps
// everything in memory.
func Open(path string) (*PhotoStore, error) {
	if path == "" {
		// Memory-only mode (no persistence)
		return &PhotoStore{cache: make(map[string][]byte)}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketPages)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PhotoStore{db: db, cache: make(map[string][]byte)}, nil
}

func (s *PhotoStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// pageKey zero-pads so byte order matches page order
func pageKey(n int) string {
	return fmt.Sprintf("%08d", n)
}

// === Generic helpers ===

func (s *PhotoStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *PhotoStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *PhotoStore) keys(bucket []byte) ([]string, error) {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		var keys []string
		for k := range s.cache {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, strings.TrimPrefix(k, prefix))
			}
		}
		s.mu.RUnlock()
		sort.Strings(keys)
		return keys, nil
	}

	var keys []string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	return keys, err
}

// === Pages ===

// SavePage archives a page, replacing any earlier copy of the same page number
func (s *PhotoStore) SavePage(page domain.PhotoResultsPage) error {
	if page.Page < 1 {
		return fmt.Errorf("invalid page number %d", page.Page)
	}
	return s.set(bucketPages, pageKey(page.Page), page)
}

func (s *PhotoStore) GetPage(n int) (domain.PhotoResultsPage, bool) {
	var page domain.PhotoResultsPage
	ok := s.get(bucketPages, pageKey(n), &page)
	return page, ok
}

// Pages returns the archived page numbers in ascending order
func (s *PhotoStore) Pages() ([]int, error) {
	keys, err := s.keys(bucketPages)
	if err != nil {
		return nil, err
	}
	pages := make([]int, 0, len(keys))
	for _, k := range keys {
		n, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		pages = append(pages, n)
	}
	return pages, nil
}

// Photos returns every archived photo in page order
func (s *PhotoStore) Photos() ([]domain.Photo, error) {
	pages, err := s.Pages()
	if err != nil {
		return nil, err
	}
	var photos []domain.Photo
	for _, n := range pages {
		if page, ok := s.GetPage(n); ok {
			photos = append(photos, page.Photo...)
		}
	}
	return photos, nil
}

// Clear removes every archived page
func (s *PhotoStore) Clear() error {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucketPages); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
			return err
		}
		_, err := tx.CreateBucket(bucketPages)
		return err
	})
}
