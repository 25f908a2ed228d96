package utils

import "strconv"

// Paginate resolves a raw page parameter against a total row count.
// A non-numeric page falls back to the first page; a numeric page outside
// [1, numPages] falls back to the last page. numPages is never below 1 so an
// empty result set still renders page 1 of 1.
func Paginate(pageParam string, pageSize int, total int64) (page, numPages, offset int) {
	numPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	if numPages < 1 {
		numPages = 1
	}

	n, err := strconv.Atoi(pageParam)
	switch {
	case err != nil:
		page = 1
	case n < 1 || n > numPages:
		page = numPages
	default:
		page = n
	}

	offset = (page - 1) * pageSize
	return page, numPages, offset
}
