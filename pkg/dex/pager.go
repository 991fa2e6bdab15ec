package dex

// PageSizes are the page sizes offered to users. DefaultPageSize is used when
// none is configured.
var PageSizes = []int{10, 25, 50, 100}

const DefaultPageSize = 25

// windowRadius is how many pages either side of the current page the pager
// window shows.
const windowRadius = 2

// ValidPageSize reports whether size is one of PageSizes.
func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

// TotalPages is max(1, ceil(n/size)).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp bounds page to [1, TotalPages(n, size)].
func Clamp(page, n, size int) int {
	total := TotalPages(n, size)
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Slice returns the items shown on page. Page is clamped first.
func Slice[T any](items []T, page, size int) []T {
	if size <= 0 || len(items) == 0 {
		return nil
	}
	page = Clamp(page, len(items), size)
	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end]
}

// Window returns the page numbers to show in a pager: the first and last
// pages, and the pages within two of the current one. A 0 marks a gap.
func Window(page, total int) []int {
	if total < 1 {
		total = 1
	}
	page = max(1, min(page, total))
	out := make([]int, 0, 2*windowRadius+5)
	last := 0
	for p := 1; p <= total; p++ {
		if p != 1 && p != total && (p < page-windowRadius || p > page+windowRadius) {
			continue
		}
		if last != 0 && p > last+1 {
			out = append(out, 0)
		}
		out = append(out, p)
		last = p
	}
	return out
}
