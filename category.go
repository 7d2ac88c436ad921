package partdex

import "context"

// Vendor API paging limits. A single query returns at most PageSize rows and
// at most PageCap pages, so a category holding more than PageSize*PageCap
// in-stock parts must be fetched per subcategory.
const (
	PageSize = 1000
	PageCap  = 100

	// DefaultCollapseLimit is the threshold below which all subcategories
	// of a primary category are merged into one synthetic whole-primary
	// query. Equal to the per-query row ceiling.
	DefaultCollapseLimit = PageSize * PageCap
)

// Category represents a vendor component category with its in-stock part
// count. A collapsed whole-primary category has an empty Secondary name.
type Category struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Count     int    `json:"count"`
}

// CollapseCategories merges all secondary categories under a primary
// category into one synthetic whole-primary entry when their combined count
// is below limit. Larger groups pass through granular so each subcategory
// stays under the vendor's page-count cap.
//
// Grouping is by exact primary-name string equality; the vendor has never
// been observed to vary casing or whitespace within one listing, and
// guessing normalization rules here would hide an upstream data problem.
// Output order follows the first sighting of each primary name.
func CollapseCategories(categories []Category, limit int) []Category {
	groups := make(map[string][]Category)
	var order []string
	for _, cat := range categories {
		if _, ok := groups[cat.Primary]; !ok {
			order = append(order, cat.Primary)
		}
		groups[cat.Primary] = append(groups[cat.Primary], cat)
	}

	var result []Category
	for _, primary := range order {
		cats := groups[primary]
		total := 0
		for _, cat := range cats {
			total += cat.Count
		}
		if total < limit {
			result = append(result, Category{Primary: primary, Count: total})
		} else {
			result = append(result, cats...)
		}
	}
	return result
}

// CatalogClient retrieves component records from the remote vendor API.
// Implementations hide session tokens, paging, retries and rate limiting.
type CatalogClient interface {
	// FetchCategories returns the full category listing with in-stock part
	// counts. Transient network failures surface as ETRANSIENT errors the
	// caller is expected to retry with backoff.
	FetchCategories(ctx context.Context, inStockOnly bool) ([]Category, error)

	// FetchComponents pages through every in-stock component of the
	// category in strictly increasing page order, invoking fn with each
	// page. Paging stops at the first empty page.
	FetchComponents(ctx context.Context, cat Category, fn func(batch []*Component) error) error
}
