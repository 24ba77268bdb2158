package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"facture/internal/core/apperror"
	"facture/internal/core/appctx"
	"facture/internal/core/id"
	"facture/internal/core/serial"
	"facture/internal/domain/auth"
	"facture/internal/domain/company"
	"facture/internal/infrastructure/http/v1/dto"
)

// CompanyHandler handles company and settings endpoints.
type CompanyHandler struct {
	*BaseHandler
	service     *company.Service
	authService *auth.Service
}

// NewCompanyHandler creates a new company handler.
func NewCompanyHandler(base *BaseHandler, service *company.Service, authService *auth.Service) *CompanyHandler {
	return &CompanyHandler{
		BaseHandler: base,
		service:     service,
		authService: authService,
	}
}

// Create handles POST /companies. The authenticated user becomes the owner
// and is granted membership.
func (h *CompanyHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	comp := company.New(req.Name, ownerID)
	if req.Currency != "" {
		comp.Currency = req.Currency
	}

	if err := h.service.Create(ctx, comp); err != nil {
		h.Error(c, err)
		return
	}
	if err := h.authService.AddToCompany(ctx, ownerID, comp.ID); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromCompany(comp))
}

// List handles GET /companies - companies owned by the authenticated user.
func (h *CompanyHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	ownerID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	companies, err := h.service.ListByOwner(ctx, ownerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]any, len(companies))
	for i, comp := range companies {
		items[i] = dto.FromCompany(comp)
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get handles GET /companies/:id
func (h *CompanyHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if !appctx.HasCompanyAccess(ctx, companyID.String()) {
		h.Error(c, apperror.NewForbidden("no access to company"))
		return
	}

	comp, err := h.service.GetByID(ctx, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCompany(comp))
}

// Update handles PUT /companies/:id
func (h *CompanyHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	companyID, ok := h.ParseID(c)
	if !ok {
		return
	}
	if !appctx.HasCompanyAccess(ctx, companyID.String()) {
		h.Error(c, apperror.NewForbidden("no access to company"))
		return
	}

	var req dto.UpdateCompanyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	comp, err := h.service.GetByID(ctx, companyID)
	if err != nil {
		h.Error(c, err)
		return
	}
	comp.Name = req.Name
	comp.Currency = req.Currency

	if err := h.service.Update(ctx, comp); err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCompany(comp))
}

// GetSettings handles GET /settings?keys=a,b - settings of the active company.
// Without keys, the number format settings are returned.
func (h *CompanyHandler) GetSettings(c *gin.Context) {
	ctx := c.Request.Context()
	companyID := h.CompanyID(c)

	keys := c.QueryArray("keys")
	if len(keys) == 0 {
		keys = []string{
			company.SettingInvoiceNumberFormat,
			company.SettingEstimateNumberFormat,
			company.SettingPaymentNumberFormat,
		}
	}

	values, err := h.service.Settings().GetMany(ctx, companyID, keys)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SettingsResponse{Settings: values})
}

// UpdateSettings handles PUT /settings - upserts setting keys.
func (h *CompanyHandler) UpdateSettings(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateSettingsRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Settings().SetMany(ctx, h.CompanyID(c), req.Settings); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "settings updated")
}

// GetNumberFormat handles GET /settings/number-format/:entityType - the
// effective format documents of this type are numbered with.
func (h *CompanyHandler) GetNumberFormat(c *gin.Context) {
	ctx := c.Request.Context()

	entityType := c.Param("entityType")
	format, err := h.service.Settings().NumberFormat(ctx, h.CompanyID(c), entityType)
	if err != nil {
		h.Error(c, err)
		return
	}
	if format == "" {
		format = serial.DefaultFormat
	}

	c.JSON(http.StatusOK, dto.NumberFormatResponse{
		EntityType: entityType,
		Format:     format,
	})
}

// SetNumberFormat handles PUT /settings/number-format/:entityType.
func (h *CompanyHandler) SetNumberFormat(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.NumberFormatRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entityType := c.Param("entityType")
	key := company.NumberFormatKey(entityType)
	if err := h.service.Settings().Set(ctx, h.CompanyID(c), key, req.Format); err != nil {
		h.Error(c, err)
		return
	}

	h.Success(c, "number format updated")
}

func (h *CompanyHandler) currentUserID(c *gin.Context) (id.ID, bool) {
	user := appctx.GetUser(c.Request.Context())
	if user == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return id.Nil(), false
	}
	userID, err := id.Parse(user.UserID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid user id"))
		return id.Nil(), false
	}
	return userID, true
}
