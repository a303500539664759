package controller

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/arclight-news/newsline-core/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination reads page (>=1, default 1) and limit (1..100, default
// 10) from q, matching the teacher's own parsePagination shape but
// against this spec's page/limit names rather than page/page_size.
func parsePagination(q url.Values) (page, limit int, err error) {
	page = defaultPage
	limit = defaultLimit

	if q.Has("page") {
		p, parseErr := strconv.Atoi(q.Get("page"))
		if parseErr != nil || p < 1 {
			return 0, 0, fmt.Errorf("%w: invalid page value %q", domain.ErrBadInput, q.Get("page"))
		}
		page = p
	}

	if q.Has("limit") {
		l, parseErr := strconv.Atoi(q.Get("limit"))
		if parseErr != nil || l < 1 || l > maxLimit {
			return 0, 0, fmt.Errorf("%w: invalid limit value %q", domain.ErrBadInput, q.Get("limit"))
		}
		limit = l
	}

	return page, limit, nil
}

// Links is the set of relative navigation URLs in a Pagination envelope.
type Links struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

// Pagination is the metadata envelope returned alongside every paginated
// list response.
type Pagination struct {
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalCount  int    `json:"totalCount"`
	Limit       int    `json:"limit"`
	HasNext     bool   `json:"hasNext"`
	HasPrev     bool   `json:"hasPrev"`
	NextPage    int    `json:"nextPage,omitempty"`
	PrevPage    int    `json:"prevPage,omitempty"`
	Links       Links  `json:"links"`
}

func buildPagination(path string, q url.Values, page, limit, totalCount int) Pagination {
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}

	p := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		Limit:       limit,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}

	link := func(pg int) string {
		v := url.Values{}
		for k, vals := range q {
			v[k] = vals
		}
		v.Set("page", strconv.Itoa(pg))
		v.Set("limit", strconv.Itoa(limit))
		return path + "?" + v.Encode()
	}

	p.Links.First = link(1)
	lastPage := totalPages
	if lastPage < 1 {
		lastPage = 1
	}
	p.Links.Last = link(lastPage)
	if p.HasNext {
		p.NextPage = page + 1
		p.Links.Next = link(p.NextPage)
	}
	if p.HasPrev {
		p.PrevPage = page - 1
		p.Links.Prev = link(p.PrevPage)
	}

	return p
}
