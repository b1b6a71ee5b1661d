package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clientops/hub/internal/api/middleware"
	"github.com/clientops/hub/internal/core/ports"
)

// InvoiceHandler handles HTTP requests for invoices. Every response embeds
// the owning client.
type InvoiceHandler struct {
	service ports.InvoiceService
}

func NewInvoiceHandler(service ports.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{service: service}
}

// List handles GET /invoices. Without include_archived, invoices of archived
// clients are hidden as well.
//
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        include_archived  query     bool  false  "Include archived invoices (admin)"
// @Param        page              query     int   false  "Page number, starting at 1"
// @Param        page_size         query     int   false  "Page size (1-100, default 20)"
// @Success      200               {array}   invoiceResponse
// @Failure      403               {object}  errorResponse
// @Failure      422               {object}  errorResponse
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c echo.Context) error {
	f, page, err := listFilter(c)
	if err != nil {
		return err
	}

	invoices, total, err := h.service.List(c.Request().Context(), f)
	if err != nil {
		return err
	}

	page.writeHeaders(c, total)
	return c.JSON(http.StatusOK, mapAll(invoices, toInvoiceResponse))
}

// @Summary      Get an invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id                path      int   true   "Invoice ID"
// @Param        include_archived  query     bool  false  "Allow an archived invoice (admin)"
// @Success      200               {object}  invoiceResponse
// @Failure      404               {object}  errorResponse
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	archived, err := middleware.IncludeArchived(c)
	if err != nil {
		return err
	}

	inv, err := h.service.Get(c.Request().Context(), id, archived)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// @Summary      Create an invoice
// @Description  The client must exist and be active. A paid invoice gets paid_at set.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      invoiceRequest  true  "Invoice fields"
// @Success      201   {object}  invoiceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	var req invoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inv, err := h.service.Create(c.Request().Context(), user, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toInvoiceResponse(inv))
}

// @Summary      Replace an invoice's fields
// @Description  Omitting paid_at keeps the stored payment time while the invoice stays paid.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Invoice ID"
// @Param        body  body      invoiceRequest  true  "Invoice fields"
// @Success      200   {object}  invoiceResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req invoiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	inv, err := h.service.Update(c.Request().Context(), user, id, req.input())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(inv))
}

// @Summary      Archive an invoice
// @Tags         invoices
// @Security     BearerAuth
// @Param        id  path  int  true  "Invoice ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c echo.Context) error {
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

// @Summary      Restore an archived invoice
// @Tags         invoices
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      int  true  "Invoice ID"
// @Success      200 {object}  invoiceResponse
// @Failure      403 {object}  errorResponse
// @Failure      404 {object}  errorResponse
// @Router       /invoices/{id}/restore [post]
func (h *InvoiceHandler) Restore(c echo.Context) error {
	user, err := actor(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	inv, err := h.service.Restore(c.Request().Context(), user, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toInvoiceResponse(inv))
}
