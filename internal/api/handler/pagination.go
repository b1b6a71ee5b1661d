package handler

import (
	"math"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/domain"
	"github.com/clientops/hub/internal/core/ports"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination response headers.
const (
	HeaderTotalCount = "X-Total-Count"
	HeaderPage       = "X-Page"
	HeaderPageSize   = "X-Page-Size"
	HeaderTotalPages = "X-Total-Pages"
)

// pageRequest is the parsed page/page_size pair. When neither parameter is
// present the full list is returned and no headers are written.
type pageRequest struct {
	enabled bool
	page    int
	size    int
}

func parsePage(c echo.Context) (pageRequest, error) {
	rawPage, rawSize := c.QueryParam("page"), c.QueryParam("page_size")
	if rawPage == "" && rawSize == "" {
		return pageRequest{}, nil
	}

	p := pageRequest{enabled: true, page: 1, size: defaultPageSize}
	if rawPage != "" {
		n, err := strconv.Atoi(rawPage)
		if err != nil || n < 1 {
			return p, domain.NewValidationError("page", "must be an integer >= 1")
		}
		p.page = n
	}
	if rawSize != "" {
		n, err := strconv.Atoi(rawSize)
		if err != nil || n < 1 || n > maxPageSize {
			return p, domain.NewValidationError("page_size", "must be an integer between 1 and 100")
		}
		p.size = n
	}
	if p.page-1 > math.MaxInt/p.size {
		return p, domain.NewValidationError("page", "is out of range")
	}
	return p, nil
}

func (p pageRequest) offset() int { return (p.page - 1) * p.size }

// apply sets the window on f. A disabled request leaves f unbounded.
func (p pageRequest) apply(f *ports.ListFilter) {
	if !p.enabled {
		return
	}
	f.Offset, f.Limit = p.offset(), p.size
}

func (p pageRequest) writeHeaders(c echo.Context, total int64) {
	if !p.enabled {
		return
	}
	h := c.Response().Header()
	h.Set(HeaderTotalCount, strconv.FormatInt(total, 10))
	h.Set(HeaderPage, strconv.Itoa(p.page))
	h.Set(HeaderPageSize, strconv.Itoa(p.size))
	h.Set(HeaderTotalPages, strconv.FormatInt(totalPages(total, p.size), 10))
}

func totalPages(total int64, size int) int64 {
	if size <= 0 {
		return 0
	}
	return (total + int64(size) - 1) / int64(size)
}

// listFilter builds the filter shared by every entity list endpoint.
func listFilter(c echo.Context) (ports.ListFilter, pageRequest, error) {
	archived, err := middleware.IncludeArchived(c)
	if err != nil {
		return ports.ListFilter{}, pageRequest{}, err
	}
	p, err := parsePage(c)
	if err != nil {
		return ports.ListFilter{}, pageRequest{}, err
	}
	f := ports.ListFilter{IncludeArchived: archived}
	p.apply(&f)
	return f, p, nil
}
