package flickr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/mmcdole/photoviewer/internal/domain"
)

// decodeImage sniffs and decodes an image body. The sniffed type is kept on
// the image; the header's claim is not trusted.
func decodeImage(address string, body []byte) (*domain.Image, error) {
	detected := mimetype.Detect(body)
	if !strings.HasPrefix(detected.String(), "image/") {
		return nil, fmt.Errorf("%w: body is %s", domain.ErrDecode, detected.String())
	}

	decoded, format, err := image.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	return &domain.Image{
		Address: address,
		Format:  format,
		MIME:    detected.String(),
		Ext:     detected.Extension(),
		Data:    body,
		Decoded: decoded,
	}, nil
}
