package cache

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// VersionKey holds the list-generation counter. Bumping it after a write
// orphans every cached list page at once; the TTL reclaims the storage.
const VersionKey = "books:ver"

func BookKey(id string) string { return "book:" + id }

// ListKey builds a generation-scoped key from the normalized filter parts.
// Parts are hashed (FNV-1a) so arbitrary filter text stays key-safe.
func ListKey(ver int64, parts ...string) string {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return fmt.Sprintf("books:v%d:%016x", ver, h.Sum64())
}

func LookupISBNKey(isbn string) string { return "ol:isbn:" + isbn }

func LookupQueryKey(title, author string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(title))))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(author))))
	return fmt.Sprintf("ol:q:%016x", h.Sum64())
}
