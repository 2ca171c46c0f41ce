package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func basePhoto() Photo {
	return Photo{ID: "1", Owner: "o", Secret: "s", Server: "srv", Farm: 2, Title: "t", Date: time.Unix(100, 0)}
}

func TestPhotoSameImage(t *testing.T) {
	p := basePhoto()

	q := p
	q.Title = "other"
	q.Owner = "other"
	q.IsFamily = true
	q.Date = time.Unix(200, 0)
	assert.True(t, p.SameImage(q))
	assert.Equal(t, p.Key(), q.Key())
	assert.Equal(t, p.Hash(), q.Hash())
	assert.False(t, p.Equal(q), "date differs")

	q.Date = p.Date
	assert.True(t, p.Equal(q))
}

func TestPhotoIdentityFields(t *testing.T) {
	p := basePhoto()

	mutations := map[string]func(*Photo){
		"id":     func(q *Photo) { q.ID = "2" },
		"secret": func(q *Photo) { q.Secret = "rotated" },
		"farm":   func(q *Photo) { q.Farm = 3 },
		"server": func(q *Photo) { q.Server = "other" },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			q := p
			mutate(&q)
			assert.False(t, p.SameImage(q))
			assert.False(t, p.Equal(q))
			assert.NotEqual(t, p.Key(), q.Key())
			assert.NotEqual(t, p.Hash(), q.Hash())
		})
	}
}

func TestPhotoHashIsFieldSeparated(t *testing.T) {
	a := Photo{ID: "12", Secret: "3", Server: "x", Farm: 1}
	b := Photo{ID: "1", Secret: "23", Server: "x", Farm: 1}
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestPhotoKeyAsMapKey(t *testing.T) {
	seen := map[ImageKey]int{}
	p := basePhoto()
	seen[p.Key()]++

	refreshed := p
	refreshed.Date = time.Now()
	seen[refreshed.Key()]++

	assert.Len(t, seen, 1)
	assert.Equal(t, 2, seen[p.Key()])
}

func TestPhotoString(t *testing.T) {
	assert.Equal(t, "Photo<id:1 owner:o server:srv farm:2>", basePhoto().String())
	page := PhotoResultsPage{Page: 1, PerPage: 20, Pages: 3, Total: 50}
	assert.Equal(t, "PhotoResultsPage<page:1 perpage:20 pages:3 total:50>", page.String())
}

func TestImageDimensionsNil(t *testing.T) {
	var img *Image
	assert.Equal(t, 0, img.Width())
	assert.Equal(t, 0, (&Image{}).Height())
}
