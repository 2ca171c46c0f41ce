package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/mmcdole/photoviewer/internal/domain"
)

const defaultPrefetchConcurrency = 4

// PrefetchStats summarizes a Prefetch run
type PrefetchStats struct {
	Delivered int // Images returned, cached or freshly fetched
	Pending   int // Calls that found a fetch already in flight
	Failed    int
}

// FeedService owns the ordered photo list and the page sequencing on top of
// a PhotoSource. Pages are requested strictly in order, one at a time.
type FeedService struct {
	source      domain.PhotoSource
	perPage     int
	concurrency int
	logger      *slog.Logger
	observer    domain.Observer

	mu          sync.RWMutex
	photos      []domain.Photo
	pagination  domain.Pagination
	pagePending bool
}

// NewFeedService creates a new feed service
func NewFeedService(source domain.PhotoSource, perPage int, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{
		source:      source,
		perPage:     perPage,
		concurrency: defaultPrefetchConcurrency,
		logger:      logger,
		observer:    domain.NoOpObserver{},
	}
}

// SetObserver registers the receiver of page and image notifications
func (s *FeedService) SetObserver(observer domain.Observer) {
	if observer == nil {
		observer = domain.NoOpObserver{}
	}
	s.mu.Lock()
	s.observer = observer
	s.mu.Unlock()
}

// SetConcurrency bounds the number of parallel image fetches in Prefetch
func (s *FeedService) SetConcurrency(n int) {
	if n <= 0 {
		n = defaultPrefetchConcurrency
	}
	s.concurrency = n
}

// LoadNextPage fetches the page after the last applied one and appends its
// photos. It returns ErrExhausted once every page is in, and (nil, nil)
// when a page request is already pending or the response is stale. A
// failed fetch leaves the state untouched.
func (s *FeedService) LoadNextPage(ctx context.Context) ([]domain.Photo, error) {
	s.mu.Lock()
	page, ok := s.pagination.NextPage()
	if !ok {
		s.mu.Unlock()
		s.logger.Debug("all photos fetched")
		return nil, domain.ErrExhausted
	}
	if s.pagePending {
		s.mu.Unlock()
		s.logger.Debug("page request already pending", "page", page)
		return nil, nil
	}
	s.pagePending = true
	s.mu.Unlock()

	result, err := s.source.FetchMetadataPage(ctx, page, s.perPage)

	s.mu.Lock()
	s.pagePending = false
	if err != nil {
		s.mu.Unlock()
		s.logger.Error("failed to fetch photos page", "page", page, "error", err)
		return nil, err
	}
	if !s.pagination.Apply(*result) {
		fetched := s.pagination.FetchedPages
		s.mu.Unlock()
		s.logger.Warn("unexpected page of photo results", "page", result.Page, "fetchedPages", fetched)
		return nil, nil
	}
	s.photos = append(s.photos, result.Photo...)
	appended := slices.Clone(result.Photo)
	observer := s.observer
	total := len(s.photos)
	s.mu.Unlock()

	s.logger.Info("loaded photos page", "page", result.Page, "pages", result.Pages, "count", len(appended), "total", total)
	observer.OnPage(*result, appended)
	return appended, nil
}

// LoadPages loads up to n further pages, stopping early once exhausted
func (s *FeedService) LoadPages(ctx context.Context, n int) ([]domain.Photo, error) {
	var loaded []domain.Photo
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return loaded, ctx.Err()
		default:
		}

		photos, err := s.LoadNextPage(ctx)
		if errors.Is(err, domain.ErrExhausted) {
			break
		}
		if err != nil {
			return loaded, err
		}
		loaded = append(loaded, photos...)
	}
	return loaded, nil
}

// LoadImage fetches the photo's image and, when one is delivered, notifies
// the observer with every listed position showing that image.
// (nil, nil) means another call is already fetching it.
func (s *FeedService) LoadImage(ctx context.Context, photo domain.Photo) (*domain.Image, error) {
	img, err := s.source.FetchImage(ctx, photo)
	if err != nil {
		s.logger.Warn("unable to fetch photo image", "photo", photo.ID, "error", err)
		return nil, err
	}
	if img == nil {
		return nil, nil
	}

	indices := s.IndicesOf(photo)

	s.mu.RLock()
	observer := s.observer
	s.mu.RUnlock()
	observer.OnImage(photo, img, indices)

	return img, nil
}

// CachedImage returns the photo's image if it is already in memory
func (s *FeedService) CachedImage(photo domain.Photo) (*domain.Image, bool) {
	return s.source.GetCachedImage(photo)
}

// Prefetch loads the images of photos with bounded concurrency. One failed
// image does not stop the others; only cancellation is reported as an error.
func (s *FeedService) Prefetch(ctx context.Context, photos []domain.Photo) (PrefetchStats, error) {
	var delivered, pending, failed atomic.Int64

	var g errgroup.Group
	g.SetLimit(s.concurrency)

	for _, photo := range photos {
		if ctx.Err() != nil {
			break
		}
		photo := photo
		g.Go(func() error {
			img, err := s.LoadImage(ctx, photo)
			switch {
			case err != nil:
				failed.Add(1)
			case img == nil:
				pending.Add(1)
			default:
				delivered.Add(1)
			}
			return nil
		})
	}
	g.Wait()

	stats := PrefetchStats{
		Delivered: int(delivered.Load()),
		Pending:   int(pending.Load()),
		Failed:    int(failed.Load()),
	}
	s.logger.Info("prefetch complete", "delivered", stats.Delivered, "pending", stats.Pending, "failed", stats.Failed)
	return stats, ctx.Err()
}

// Photos returns a snapshot of the listed photos in server order
func (s *FeedService) Photos() []domain.Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.photos)
}

// PhotoAt returns the photo at index i
func (s *FeedService) PhotoAt(i int) (domain.Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.photos) {
		return domain.Photo{}, false
	}
	return s.photos[i], true
}

// Pagination returns a snapshot of the page sequencing state
func (s *FeedService) Pagination() domain.Pagination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pagination
}

// RowCount is the number of list rows: one per photo plus a trailing
// loading row while more pages remain.
func (s *FeedService) RowCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pagination.Exhausted {
		return len(s.photos)
	}
	return len(s.photos) + 1
}

// IndicesOf returns the positions of every listed photo with the same image
func (s *FeedService) IndicesOf(photo domain.Photo) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var indices []int
	for i, p := range s.photos {
		if p.SameImage(photo) {
			indices = append(indices, i)
		}
	}
	return indices
}

// Neighbors returns the photos listed before and after photo, if any
func (s *FeedService) Neighbors(photo domain.Photo) (prev, next *domain.Photo) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.photos, photo.Equal)
	if idx < 0 {
		return nil, nil
	}
	if idx > 0 {
		p := s.photos[idx-1]
		prev = &p
	}
	if idx < len(s.photos)-1 {
		n := s.photos[idx+1]
		next = &n
	}
	return prev, next
}
