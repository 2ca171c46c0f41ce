package domain

import "context"

// PhotoSource is what collaborators consume from the fetch engine.
type PhotoSource interface {
	// FetchMetadataPage issues one request for a listing page. No caching,
	// no de-duplication, no retry.
	FetchMetadataPage(ctx context.Context, page, perPage int) (*PhotoResultsPage, error)

	// FetchImage returns the photo's image from the cache or the network.
	// (nil, nil) means a fetch for the same address is already in flight;
	// this call will not deliver the image.
	FetchImage(ctx context.Context, photo Photo) (*Image, error)

	// GetCachedImage looks up the cache without fetching
	GetCachedImage(photo Photo) (*Image, bool)
}

// Observer receives feed notifications.
type Observer interface {
	// OnPage is called after a page has been applied; photos are the appended items
	OnPage(page PhotoResultsPage, photos []Photo)

	// OnImage is called when an image is delivered; indices are the listed
	// positions of every photo sharing that image
	OnImage(photo Photo, img *Image, indices []int)
}

// NoOpObserver discards notifications.
type NoOpObserver struct{}

func (NoOpObserver) OnPage(PhotoResultsPage, []Photo) {}
func (NoOpObserver) OnImage(Photo, *Image, []int) {}
