package browse

// Ellipsis marks a gap in the pager.
const Ellipsis = -1

// VisiblePages returns the page indexes to show in a pager of at most maxVisible
// buttons around the current page. The first and last pages are always shown;
// gaps are marked with Ellipsis.
func (b *Browser[T]) VisiblePages(maxVisible int) []int {
	s := b.State()
	return visiblePages(s.PageNumber, s.TotalPages, maxVisible)
}

func visiblePages(current, total, maxVisible int) []int {
	if total <= 0 {
		return []int{}
	}
	if maxVisible <= 0 {
		maxVisible = 7
	}
	if total <= maxVisible {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i
		}
		return pages
	}

	half := maxVisible / 2
	start := max(0, current-half)
	end := min(total-1, current+half)

	pages := make([]int, 0, maxVisible+4)
	if start > 0 {
		pages = append(pages, 0)
		if start > 1 {
			pages = append(pages, Ellipsis)
		}
	}
	for i := start; i <= end; i++ {
		pages = append(pages, i)
	}
	if end < total-1 {
		if end < total-2 {
			pages = append(pages, Ellipsis)
		}
		pages = append(pages, total-1)
	}
	return pages
}
