package catalog

import (
	"strings"

	"github.com/Skotchmaster/product_inventory/internal/models"
)

const (
	// HomePageSize is the home grid: four per row, two rows.
	HomePageSize = 8
	// ListPageSize is the owner-facing product listing.
	ListPageSize = 2
)

// Filter keeps products whose name or category contains query, ignoring case.
// An empty query keeps everything.
func Filter(products []models.Product, query string) []models.Product {
	q := strings.ToLower(query)
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q == "" ||
			strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, p)
		}
	}
	return out
}

func PageCount(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate returns page (zero based) of items. Pages outside
// [0, PageCount) come back empty.
func Paginate[T any](items []T, page, size int) []T {
	if page < 0 || page >= PageCount(len(items), size) {
		return []T{}
	}
	from := page * size
	to := min(from+size, len(items))
	return items[from:to]
}

// ClampPage moves page into [0, PageCount) or to 0 when there are no pages.
func ClampPage(page, total, size int) int {
	last := PageCount(total, size) - 1
	if page > last {
		page = last
	}
	if page < 0 {
		page = 0
	}
	return page
}

func TotalStock(products []models.Product) int {
	total := 0
	for _, p := range products {
		total += p.Stock
	}
	return total
}
