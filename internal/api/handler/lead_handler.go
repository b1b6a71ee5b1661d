package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/ports"
)

// LeadHandler handles HTTP requests for lead records.
type LeadHandler struct {
	service ports.LeadService
}

func NewLeadHandler(service ports.LeadService) *LeadHandler {
	return &LeadHandler{service: service}
}

// List handles GET /leads.
//
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        include_archived  query     bool    false  "Include archived leads (admin)"
// @Param        page              query     int     false  "Page number, starting at 1"
// @Param        page_size         query     int     false  "Page size (1-100, default 20)"
// @Success      200               {array}   leadResponse
// @Failure      401               {object}  errorResponse
// @Failure      403               {object}  errorResponse
// @Failure      422               {object}  errorResponse
// @Router       /leads [get]
func (h *LeadHandler) List(c echo.Context) error {
	f, page, err := listFilter(c)
	if err != nil {
		return err
	}

	leads, total, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	page.writeHeaders(c, total)
	return c.JSON(http.StatusOK, mapAll(leads, toLeadResponse))
}

// Get handles GET /leads/:id.
//
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id                path      int   true   "Lead ID"
// @Param        include_archived  query     bool  false  "Allow an archived lead (admin)"
// @Success      200               {object}  leadResponse
// @Failure      404               {object}  errorResponse
// @Router       /leads/{id} [get]
func (h *LeadHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	archived, err := middleware.IncludeArchived(c)
	if err != nil {
		return err
	}

	lead, err := h.service.Get(c.Request().Context(), id, archived)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeadResponse(lead))
}

// Create handles POST /leads.
//
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      leadRequest  true  "Lead fields"
// @Success      201   {object}  leadResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /leads [post]
func (h *LeadHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req leadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lead, err := h.service.Create(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toLeadResponse(lead))
}

// Update handles PUT /leads/:id.
//
// @Summary      Replace a lead's fields
// @Tags         leads
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Lead ID"
// @Param        body  body      leadRequest  true  "Lead fields"
// @Success      200   {object}  leadResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /leads/{id} [put]
func (h *LeadHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req leadRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lead, err := h.service.Update(c.Request().Context(), user, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeadResponse(lead))
}

// Delete handles DELETE /leads/:id.
//
// @Summary      Archive a lead
// @Tags         leads
// @Security     BearerAuth
// @Param        id  path  int  true  "Lead ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /leads/{id} [delete]
func (h *LeadHandler) Delete(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.service.Archive(c.Request().Context(), user, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Restore handles POST /leads/:id/restore.
//
// @Summary      Restore an archived lead
// @Tags         leads
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Lead ID"
// @Success      200 {object}  leadResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /leads/{id}/restore [post]
func (h *LeadHandler) Restore(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	lead, err := h.service.Restore(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toLeadResponse(lead))
}
