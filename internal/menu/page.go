package menu

// PageCount returns how many pages of size slots n descriptors need. An empty
// list still occupies one page.
func PageCount(n, size int) int {
	if size <= 0 {
		size = PageSize
	}
	if n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Paginate splits descs into contiguous pages of at most size slots. The
// result always contains at least one (possibly empty) page.
func Paginate(descs []Descriptor, size int) [][]Descriptor {
	if size <= 0 {
		size = PageSize
	}
	pages := make([][]Descriptor, 0, PageCount(len(descs), size))
	for start := 0; start < len(descs); start += size {
		end := start + size
		if end > len(descs) {
			end = len(descs)
		}
		pages = append(pages, descs[start:end:end])
	}
	if len(pages) == 0 {
		pages = append(pages, []Descriptor{})
	}
	return pages
}

// ClampPage keeps a zero-based page index within [0, pages).
func ClampPage(page, pages int) int {
	if pages <= 0 || page < 0 {
		return 0
	}
	if page >= pages {
		return pages - 1
	}
	return page
}
