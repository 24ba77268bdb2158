package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"facture/internal/domain"
	"facture/internal/domain/documents/estimate"
	"facture/internal/infrastructure/http/v1/dto"
)

// EstimateHandler handles estimate endpoints.
type EstimateHandler struct {
	*BaseHandler
	service *estimate.Service
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(base *BaseHandler, service *estimate.Service) *EstimateHandler {
	return &EstimateHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /estimates
func (h *EstimateHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	f := estimate.ListFilter{ListFilter: domain.DefaultListFilter()}
	f.Search = c.Query("search")
	f.Limit = h.ParseIntQuery(c, "limit", 50)
	f.Offset = h.ParseIntQuery(c, "offset", 0)
	f.OrderBy = c.Query("orderBy")
	f.IncludeDeleted = c.Query("includeDeleted") == "true"

	var ok bool
	if f.CustomerID, ok = h.ParseIDQuery(c, "customerId"); !ok {
		return
	}
	if status := c.Query("status"); status != "" {
		s := estimate.Status(status)
		f.Status = &s
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
		items[i] = dto.FromEstimate(item)
	}

	c.JSON(http.StatusOK, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Get handles GET /estimates/:id
func (h *EstimateHandler) Get(c *gin.Context) {
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

	c.JSON(http.StatusOK, dto.FromEstimate(doc))
}

// Create handles POST /estimates
func (h *EstimateHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateEstimateRequest
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

	c.JSON(http.StatusCreated, dto.FromEstimate(doc))
}

// Update handles PUT /estimates/:id
func (h *EstimateHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEstimateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.GetByID(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}
	if err := req.ApplyTo(doc); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(ctx, doc, req.NumberFormat); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEstimate(doc))
}

// Delete handles DELETE /estimates/:id - soft delete.
func (h *EstimateHandler) Delete(c *gin.Context) {
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

// Send handles POST /estimates/:id/send - draft to sent.
func (h *EstimateHandler) Send(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.MarkSent(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEstimate(doc))
}

// Accept handles POST /estimates/:id/accept
func (h *EstimateHandler) Accept(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Accept(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEstimate(doc))
}

// Reject handles POST /estimates/:id/reject
func (h *EstimateHandler) Reject(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	doc, err := h.service.Reject(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEstimate(doc))
}

// Convert handles POST /estimates/:id/convert - turns an accepted estimate
// into a draft invoice with its own number.
func (h *EstimateHandler) Convert(c *gin.Context) {
	ctx := c.Request.Context()

	docID, ok := h.ParseID(c)
	if !ok {
		return
	}

	inv, err := h.service.ConvertToInvoice(ctx, docID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromInvoice(inv))
}

// NextNumber handles GET /estimates/next-number
func (h *EstimateHandler) NextNumber(c *gin.Context) {
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
