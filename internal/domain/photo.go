package domain

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"time"
)

// Photo is a single item of a metadata page
type Photo struct {
	ID     string // Stable per remote item
	Owner  string // Owner account identifier
	Secret string // Rotates per upload, part of the image address
	Server string // Shard identifier
	Farm   int    // Shard group

	Title    string
	IsPublic bool
	IsFriend bool
	IsFamily bool

	// Date is stamped by the client when the page is decoded
	Date time.Time
}

// ImageKey is the identity of a photo's image: (id, secret, farm, server).
// It is comparable and safe to use as a map key.
type ImageKey struct {
	ID     string
	Secret string
	Farm   int
	Server string
}

// Key returns the image identity of the photo
func (p Photo) Key() ImageKey {
	return ImageKey{ID: p.ID, Secret: p.Secret, Farm: p.Farm, Server: p.Server}
}

// SameImage reports whether both photos refer to the same remote image.
// A re-upload keeps the ID but changes the secret, so ID alone is not enough.
func (p Photo) SameImage(other Photo) bool {
	return p.Key() == other.Key()
}

// Equal compares the image identity and the client-side date
func (p Photo) Equal(other Photo) bool {
	return p.SameImage(other) && p.Date.Equal(other.Date)
}

// Hash returns a stable hash derived from exactly (id, secret, farm, server)
func (p Photo) Hash() uint64 {
	h := fnv.New64a()
	for _, field := range []string{p.ID, p.Secret, strconv.Itoa(p.Farm), p.Server} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return h.Sum64()
}

func (p Photo) String() string {
	return fmt.Sprintf("Photo<id:%s owner:%s server:%s farm:%d>", p.ID, p.Owner, p.Server, p.Farm)
}

// PhotoResultsPage is one page of the recent photos listing.
// Photo order is the server's and must be preserved when appended.
type PhotoResultsPage struct {
	Page    int // 1-based
	PerPage int
	Pages   int // Total page count
	Total   int // Total item count
	Photo   []Photo
}

func (p PhotoResultsPage) String() string {
	return fmt.Sprintf("PhotoResultsPage<page:%d perpage:%d pages:%d total:%d>", p.Page, p.PerPage, p.Pages, p.Total)
}
