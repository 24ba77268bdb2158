package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"facture/internal/domain"
	"facture/internal/domain/documents/payment"
	"facture/internal/infrastructure/http/v1/dto"
)

// PaymentHandler handles payment endpoints.
type PaymentHandler struct {
	*BaseHandler
	service *payment.Service
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(base *BaseHandler, service *payment.Service) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /payments
func (h *PaymentHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := payment.ListFilter{ListFilter: domain.DefaultListFilter()}
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", 50)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.OrderBy = c.Query("orderBy")
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	var ok bool
	if f.CustomerID, ok = h.ParseIDQuery(c, "customerId"); !ok {
		return
	}
	if f.InvoiceID, ok = h.ParseIDQuery(c, "invoiceId"); !ok {
		return
	}
	if method := c.Query("method"); method != "" {
		m := payment.Method(method)
		f.Method = &m
	}
	if f.DateFrom, ok = h.ParseTimeQuery(c, "dateFrom"); !ok {
		return
	}
	if f.DateTo, ok = h.ParseTimeQuery(c, "dateTo"); !ok {
		return
	}

	result, err := h.service.List(ctx, f)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(result.Items))
	for i, item := range result.Items {
		items[i] = dto.FromPayment(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPayment(doc))
}

// Create handles POST /payments. A payment linked to an invoice settles it
// in the same transaction.
func (h *PaymentHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := req.ToEntity(h.CompanyID(c))
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(ctx, doc, req.NumberFormat); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromPayment(doc))
}

// Update handles PUT /payments/:id. Amount and invoice link are immutable.
func (h *PaymentHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	req.ApplyTo(doc)

	if err := h.service.Update(ctx, doc, req.NumberFormat); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPayment(doc))
}

// Delete handles DELETE /payments/:id - soft delete; a linked invoice gets
// its due amount restored.
func (h *PaymentHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, docID); err != nil {
		h.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// NextNumber handles GET /payments/next-number
func (h *PaymentHandler) NextNumber(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, ok := h.ParseIDQuery(c, "customerId")
	if !ok {
		return
	}

	number, err := h.service.NextNumber(ctx, h.CompanyID(c), customerID, c.Query("format"))
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NumberPreviewResponse{Number: number})
}
