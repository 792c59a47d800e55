package jellyfin

import (
	"fmt"

	"jellynav/internal/domain"
)

// MapItems converts Jellyfin items to domain library items
func MapItems(items []Item, serverURL string) []domain.LibraryItem {
	mapped := make([]domain.LibraryItem, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, mapItem(item, serverURL))
	}
	return mapped
}

// mapItem converts a single Jellyfin item to a domain library item
func mapItem(item Item, serverURL string) domain.LibraryItem {
	return domain.LibraryItem{
		ID:             item.ID,
		Name:           item.Name,
		Type:           item.Type,
		CollectionType: item.CollectionType,
		ThumbURL:       primaryImageURL(item, serverURL),
	}
}

// primaryImageURL builds the primary image URL, empty when the item has
// no primary image tag.
func primaryImageURL(item Item, serverURL string) string {
	if item.ImageTags.Primary == "" {
		return ""
	}
	return fmt.Sprintf("%s/Items/%s/Images/Primary?tag=%s", serverURL, item.ID, item.ImageTags.Primary)
}
