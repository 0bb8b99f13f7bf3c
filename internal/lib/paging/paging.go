package paging

// DefaultPerPage is the page size used by the catalog views.
const DefaultPerPage = 9

// maxVisible caps the page-number strip length.
const maxVisible = 5

// TotalPages returns ceil(count/perPage); 0 for an empty collection.
func TotalPages(count, perPage int) int {
	if count <= 0 || perPage <= 0 {
		return 0
	}
	return (count + perPage - 1) / perPage
}

// Clamp forces page into [1, totalPages]. An empty collection is
// treated as a single page with nothing on it.
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		return 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Slice returns the 1-based page of items. Pages beyond the collection
// come back empty rather than panicking.
func Slice[T any](items []T, page, perPage int) []T {
	if page < 1 || perPage < 1 {
		return nil
	}

	start := (page - 1) * perPage
	if start >= len(items) {
		return nil
	}

	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

// PageNumbers builds the strip of visible page numbers: every page when
// totalPages fits in the strip, otherwise a 5-wide window anchored two
// pages before the current one, clamped to [1, totalPages].
func PageNumbers(currentPage, totalPages int) []int {
	if totalPages < 1 {
		return nil
	}

	var pages []int
	if totalPages <= maxVisible {
		for i := 1; i <= totalPages; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	start := currentPage - 2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > totalPages {
		end = totalPages
	}

	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	return pages
}

// ResultRange reports the 1-based "showing start-end of total" bounds
// for the current page; zeros when there is nothing to show.
func ResultRange(page, perPage, total int) (start, end int) {
	if total <= 0 || page < 1 || perPage < 1 {
		return 0, 0
	}

	start = (page-1)*perPage + 1
	if start > total {
		return 0, 0
	}

	end = page * perPage
	if end > total {
		end = total
	}
	return start, end
}
