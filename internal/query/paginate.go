package query

// Paginate returns page number page (1-indexed) of size items, clipped to
// the collection. Out-of-range pages and non-positive sizes yield an empty
// slice. The result shares the backing array of items.
func Paginate[T any](items []T, page, size int) []T {
	if page < 1 || size < 1 || len(items) == 0 {
		return items[:0:0]
	}
	// compare page indexes before multiplying so huge pages cannot overflow
	if page-1 > (len(items)-1)/size {
		return items[:0:0]
	}
	start := (page - 1) * size
	end := len(items)
	if size < end-start {
		end = start + size
	}
	return items[start:end:end]
}

// PageCount is ceil(n/size), with a minimum of one page for empty input
func PageCount(n, size int) int {
	if size < 1 || n <= 0 {
		return 1
	}
	pages := n / size
	if n%size != 0 {
		pages++
	}
	return pages
}

// ClampPage bounds page into [1, PageCount(n, size)]
func ClampPage(page, n, size int) int {
	if page < 1 {
		return 1
	}
	if last := PageCount(n, size); page > last {
		return last
	}
	return page
}
