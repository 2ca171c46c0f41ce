package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/photoviewer/internal/domain"
)

func testPage(n int, ids ...string) domain.PhotoResultsPage {
	page := domain.PhotoResultsPage{Page: n, PerPage: len(ids), Pages: 12, Total: 12 * len(ids)}
	for _, id := range ids {
		page.Photo = append(page.Photo, domain.Photo{
			ID:       id,
			Owner:    "owner",
			Secret:   "s" + id,
			Server:   "65535",
			Farm:     66,
			Title:    "title " + id,
			IsPublic: true,
			Date:     time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		})
	}
	return page
}

func openStores(t *testing.T) map[string]*PhotoStore {
	t.Helper()
	disk, err := Open(filepath.Join(t.TempDir(), "nested", "archive.db"))
	require.NoError(t, err)
	memory, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() {
		disk.Close()
		memory.Close()
	})
	return map[string]*PhotoStore{"disk": disk, "memory": memory}
}

func TestSaveAndGetPage(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			want := testPage(1, "a", "b")
			require.NoError(t, s.SavePage(want))

			got, ok := s.GetPage(1)
			require.True(t, ok)
			assert.Equal(t, want.Page, got.Page)
			assert.Equal(t, want.Total, got.Total)
			require.Len(t, got.Photo, 2)
			assert.True(t, want.Photo[0].Equal(got.Photo[0]))
			assert.Equal(t, want.Photo[1].Title, got.Photo[1].Title)

			_, ok = s.GetPage(2)
			assert.False(t, ok)
		})
	}
}

func TestPagesAndPhotosInPageOrder(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SavePage(testPage(10, "j")))
			require.NoError(t, s.SavePage(testPage(2, "c", "d")))
			require.NoError(t, s.SavePage(testPage(1, "a")))

			pages, err := s.Pages()
			require.NoError(t, err)
			assert.Equal(t, []int{1, 2, 10}, pages)

			photos, err := s.Photos()
			require.NoError(t, err)
			var ids []string
			for _, p := range photos {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, []string{"a", "c", "d", "j"}, ids)
		})
	}
}

func TestSavePageReplaces(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)

	require.NoError(t, s.SavePage(testPage(1, "a")))
	require.NoError(t, s.SavePage(testPage(1, "b")))

	got, ok := s.GetPage(1)
	require.True(t, ok)
	require.Len(t, got.Photo, 1)
	assert.Equal(t, "b", got.Photo[0].ID)
}

func TestSavePageRejectsInvalidNumber(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	assert.Error(t, s.SavePage(testPage(0, "a")))
}

func TestClear(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, s.SavePage(testPage(1, "a")))
			require.NoError(t, s.Clear())

			pages, err := s.Pages()
			require.NoError(t, err)
			assert.Empty(t, pages)
			_, ok := s.GetPage(1)
			assert.False(t, ok)

			require.NoError(t, s.SavePage(testPage(3, "c")))
			pages, err = s.Pages()
			require.NoError(t, err)
			assert.Equal(t, []int{3}, pages)
		})
	}
}

func TestPersistsAcrossOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SavePage(testPage(1, "a", "b")))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, ok := s.GetPage(1)
	require.True(t, ok)
	assert.Len(t, got.Photo, 2)
}
