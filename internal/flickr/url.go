package flickr

import (
	"fmt"

	"github.com/mmcdole/photoviewer/internal/domain"
)

// ImageURL returns the canonical address of the photo's medium-size image.
// The address doubles as the image cache and in-flight key.
func ImageURL(photo domain.Photo) string {
	return fmt.Sprintf("https://farm%d.staticflickr.com/%s/%s_%s_m.jpg", photo.Farm, photo.Server, photo.ID, photo.Secret)
}
