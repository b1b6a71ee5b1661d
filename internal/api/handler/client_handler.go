package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/ports"
)

// ClientHandler handles HTTP requests for client records.
type ClientHandler struct {
	service ports.ClientService
}

func NewClientHandler(service ports.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// List handles GET /clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        q                 query     string  false  "Case-insensitive match on name or company"
// @Param        include_archived  query     bool    false  "Include archived clients (admin)"
// @Param        page              query     int     false  "Page number, starting at 1"
// @Param        page_size         query     int     false  "Page size (1-100, default 20)"
// @Success      200               {array}   clientResponse
// @Failure      401               {object}  errorResponse
// @Failure      403               {object}  errorResponse
// @Failure      422               {object}  errorResponse
// @Router       /clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	f, page, err := listFilter(c)
	if err != nil {
		return err
	}
	f.Query = c.QueryParam("q")

	clients, total, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	page.writeHeaders(c, total)
	return c.JSON(http.StatusOK, mapAll(clients, toClientResponse))
}

// Get handles GET /clients/:id.
//
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id                path      int   true   "Client ID"
// @Param        include_archived  query     bool  false  "Allow an archived client (admin)"
// @Success      200               {object}  clientResponse
// @Failure      404               {object}  errorResponse
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	archived, err := middleware.IncludeArchived(c)
	if err != nil {
		return err
	}

	client, err := h.service.Get(c.Request().Context(), id, archived)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Create handles POST /clients.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      clientRequest  true  "Client fields"
// @Success      201   {object}  clientResponse
// @Failure      400   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.Create(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toClientResponse(client))
}

// Update handles PUT /clients/:id.
//
// @Summary      Replace a client's fields
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int            true  "Client ID"
// @Param        body  body      clientRequest  true  "Client fields"
// @Success      200   {object}  clientResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req clientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.service.Update(c.Request().Context(), user, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}

// Delete handles DELETE /clients/:id. The client and its active invoices are
// archived together.
//
// @Summary      Archive a client
// @Tags         clients
// @Security     BearerAuth
// @Param        id  path  int  true  "Client ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c echo.Context) error {
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

// Restore handles POST /clients/:id/restore.
//
// @Summary      Restore an archived client and its invoices
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Client ID"
// @Success      200 {object}  clientResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /clients/{id}/restore [post]
func (h *ClientHandler) Restore(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	client, err := h.service.Restore(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toClientResponse(client))
}
