package repository

const defaultPerPage = 20
const maxPerPage = 100

func perPage(value int) int {
	if value <= 0 {
		return defaultPerPage
	}
	if value > maxPerPage {
		return maxPerPage
	}
	return value
}

func pageOffset(page, size int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * perPage(size)
}
