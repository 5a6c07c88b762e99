package service

import "github.com/tatami/academy-backend/internal/response"

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// paginate clamps page and perPage and returns the matching limit/offset.
func paginate(page, perPage int) (p, pp, limit, offset int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, perPage, (page - 1) * perPage
}

func newPagination(page, perPage, total int) *response.Pagination {
	return response.NewPagination(page, perPage, total)
}
