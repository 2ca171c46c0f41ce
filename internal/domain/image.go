package domain

import "image"

// Image is a decoded photo image together with the bytes it was decoded from
type Image struct {
	Address string      // Canonical address the image was fetched from
	Format  string      // Decoder name: "jpeg", "png", "gif"
	MIME    string      // Media type sniffed from the body, e.g. "image/png"
	Ext     string      // File extension for MIME, e.g. ".png"
	Data    []byte      // Raw response body
	Decoded image.Image // Decoded pixels
}

// Width returns the decoded width in pixels
func (i *Image) Width() int {
	if i == nil || i.Decoded == nil {
		return 0
	}
	return i.Decoded.Bounds().Dx()
}

// Height returns the decoded height in pixels
func (i *Image) Height() int {
	if i == nil || i.Decoded == nil {
		return 0
	}
	return i.Decoded.Bounds().Dy()
}
