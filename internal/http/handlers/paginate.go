package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	// maxPage keeps page*per_page far away from integer overflow; a page
	// this deep is past the end of any real collection anyway.
	maxPage = 1_000_000
)

// parsePage reads page/per_page query params; per_page is clamped to the cap
// and garbage falls back to defaults.
func parsePage(ctx *gin.Context) (page, perPage int) {
	page = 1
	perPage = defaultPageSize

	if raw := ctx.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err == nil && n > 0 {
			page = n

			if page > maxPage {
				page = maxPage
			}
		}
	}

	if raw := ctx.Query("per_page"); raw != "" {
		n, err := strconv.Atoi(raw)

		if err == nil && n > 0 {
			perPage = n

			if perPage > maxPageSize {
				perPage = maxPageSize
			}
		}
	}

	return page, perPage
}

// pageURL rebuilds the current request URL pointing at another page.
func pageURL(ctx *gin.Context, page int) string {
	u := *ctx.Request.URL

	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"

	if ctx.Request.TLS != nil {
		scheme = "https"
	}

	if proto := ctx.GetHeader("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + ctx.Request.Host + u.String()
}

// pageLinks computes the next/previous absolute URLs for the current page, or
// nil where no such page exists.
func pageLinks(ctx *gin.Context, page, perPage, total int) (next, previous *string) {
	if page*perPage < total {
		u := pageURL(ctx, page+1)
		next = &u
	}

	if page > 1 {
		u := pageURL(ctx, page-1)
		previous = &u
	}

	return next, previous
}
