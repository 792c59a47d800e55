package browse

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"jellynav/internal/domain"
)

// Scheme is the content-address scheme owned by this resolver. Addresses
// with any other scheme belong to foreign subsystems and are either
// delegated or rejected.
const Scheme = "jellynav"

const schemePrefix = Scheme + "://"

// Reserved item ids for virtual lists with no backing remote item.
const (
	VirtualResume    = "resume"
	VirtualFavorites = "favorites"
)

// Encode builds the content address for an item id and pagination offset.
// The start query is omitted for offset 0 so that first-page addresses
// stay canonical.
func Encode(itemID string, start int) string {
	if start == 0 {
		return schemePrefix + itemID
	}
	return fmt.Sprintf("%s%s?start=%d", schemePrefix, itemID, start)
}

// Decode splits a content address into item id and pagination offset.
// A wrong scheme or empty item id fails with domain.ErrInvalidAddress.
// A missing or malformed start value degrades to offset 0 rather than
// blocking navigation on cursor drift.
func Decode(address string) (itemID string, start int, err error) {
	rest, ok := strings.CutPrefix(address, schemePrefix)
	if !ok {
		return "", 0, fmt.Errorf("%w: %q does not use scheme %q", domain.ErrInvalidAddress, address, Scheme)
	}

	rest, query, _ := strings.Cut(rest, "?")
	if rest == "" {
		return "", 0, fmt.Errorf("%w: %q has no item id", domain.ErrInvalidAddress, address)
	}

	if query != "" {
		values, err := url.ParseQuery(query)
		if err == nil {
			if n, err := strconv.Atoi(values.Get("start")); err == nil && n > 0 {
				start = n
			}
		}
	}

	return rest, start, nil
}
