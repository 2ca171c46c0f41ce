package flickr

import (
	"time"

	"github.com/mmcdole/photoviewer/internal/domain"
)

// MapPage converts a listing DTO to a domain page, stamping every photo with fetchedAt
func MapPage(dto *PhotosDTO, fetchedAt time.Time) *domain.PhotoResultsPage {
	page := &domain.PhotoResultsPage{
		Page:    int(dto.Page),
		PerPage: int(dto.PerPage),
		Pages:   int(dto.Pages),
		Total:   int(dto.Total),
		Photo:   make([]domain.Photo, 0, len(dto.Photo)),
	}
	for _, p := range dto.Photo {
		page.Photo = append(page.Photo, MapPhoto(p, fetchedAt))
	}
	return page
}

// MapPhoto converts a single photo DTO
func MapPhoto(dto PhotoDTO, fetchedAt time.Time) domain.Photo {
	return domain.Photo{
		ID:       dto.ID,
		Owner:    dto.Owner,
		Secret:   dto.Secret,
		Server:   dto.Server,
		Farm:     int(dto.Farm),
		Title:    dto.Title,
		IsPublic: dto.IsPublic != 0,
		IsFriend: dto.IsFriend != 0,
		IsFamily: dto.IsFamily != 0,
		Date:     fetchedAt,
	}
}
