package deck

import (
	"fmt"
	"time"

	"github.com/echozyr2001/BrewDeck/internal/catalog"
)

// Cache TTLs per view: listings refresh on a minutes scale, searches go
// stale fast, details live longest.
const (
	listingTTL = 5 * time.Minute
	searchTTL  = 60 * time.Second
	detailTTL  = 10 * time.Minute
)

// Cache tags shared with the prefetch scheduler.
const (
	TagPackages = "packages"
	TagSearch   = "search"
	TagDetails  = "package_details"
)

// ListingKey is the cache key for a full package listing of one kind.
func ListingKey(kind catalog.Kind) string {
	return fmt.Sprintf("packages_%s", kind)
}

// SearchKey is the cache key for one search query.
func SearchKey(query string, kind catalog.Kind) string {
	return fmt.Sprintf("search_%s_%s", kind, query)
}

// DetailKey is the cache key for one package's detail view.
func DetailKey(name string, kind catalog.Kind) string {
	return fmt.Sprintf("package_%s_%s", kind, name)
}

// KindTag tags every cached view belonging to one kind.
func KindTag(kind catalog.Kind) string {
	return fmt.Sprintf("kind:%s", kind)
}
