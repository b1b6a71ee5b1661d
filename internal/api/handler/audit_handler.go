package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/core/ports"
)

// AuditHandler exposes the audit trail. Entries are read-only.
type AuditHandler struct {
	service ports.AuditService
}

func NewAuditHandler(service ports.AuditService) *AuditHandler {
	return &AuditHandler{service: service}
}

// List handles GET /audit-logs, newest first.
//
// @Summary      List audit log entries
// @Tags         audit
// @Produce      json
// @Security     BearerAuth
// @Param        page       query     int  false  "Page number, starting at 1"
// @Param        page_size  query     int  false  "Page size (1-100, default 20)"
// @Success      200        {array}   auditLogResponse
// @Failure      403        {object}  errorResponse
// @Failure      422        {object}  errorResponse
// @Router       /audit-logs [get]
func (h *AuditHandler) List(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return err
	}

	var offset, limit int
	if page.enabled {
		offset, limit = page.offset(), page.size
	}

	entries, total, err := h.service.List(c.Request().Context(), offset, limit)
	if err != nil {
		return err
	}

	page.writeHeaders(c, total)
	return c.JSON(http.StatusOK, mapAll(entries, toAuditLogResponse))
}
