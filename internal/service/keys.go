package service

import "fmt"

// Cache/coalesce keys: one per endpoint kind plus the endpoint's
// distinguishing parameters. The same key feeds both the Memo and the
// Coalescer so identical fetches dedupe at either layer.
const keyLibraries = "libraries"

func keyItem(itemID string) string {
	return "item:" + itemID
}

func keyChildren(itemID string, start, limit int) string {
	return fmt.Sprintf("children:%s:%d:%d", itemID, start, limit)
}

func keyUserItems(parentID string, start, limit int) string {
	return fmt.Sprintf("useritems:%s:%d:%d", parentID, start, limit)
}

func keyChannels(start, limit int) string {
	return fmt.Sprintf("channels:%d:%d", start, limit)
}

func keyResume(start, limit int) string {
	return fmt.Sprintf("resume:%d:%d", start, limit)
}

func keyFavorites(start, limit int) string {
	return fmt.Sprintf("favorites:%d:%d", start, limit)
}
