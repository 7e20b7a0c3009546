package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/httpresp"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/money"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

type CatalogStore interface {
	ListProcedures(ctx context.Context, tenantID uint) ([]models.Procedure, error)
	GetProcedure(ctx context.Context, tenantID uint, id uint) (*models.Procedure, error)
	CreateProcedure(ctx context.Context, p *models.Procedure) error
	UpdateProcedure(ctx context.Context, p *models.Procedure) error
	ListProfessionals(ctx context.Context, tenantID uint) ([]models.Professional, error)
	CreateProfessional(ctx context.Context, p *models.Professional) error
}

// CatalogHandler cuida de procedimentos e profissionais, que precificam
// e atribuem os atendimentos.
type CatalogHandler struct {
	repo CatalogStore
}

func NewCatalogHandler(repo CatalogStore) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

// --------- Requests ---------

// Preço em centavos ou como texto digitado ("R$ 60,00").
type CreateProcedureRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	DurationMin int    `json:"duration_min" binding:"required,min=1"`
	PriceCents  int64  `json:"price_cents"`
	Price       string `json:"price"`
	Category    string `json:"category"`
}

type UpdateProcedureRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	DurationMin *int    `json:"duration_min,omitempty"`
	PriceCents  *int64  `json:"price_cents,omitempty"`
	Price       *string `json:"price,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CreateProfessionalRequest struct {
	Name      string `json:"name" binding:"required"`
	Specialty string `json:"specialty"`
}

func priceCents(cents int64, text string) int64 {
	if cents > 0 {
		return cents
	}
	return money.ParseCurrencyInput(text)
}

// --------- Procedures ---------

func (h *CatalogHandler) ListProcedures(c *gin.Context) {
	procedures, err := h.repo.ListProcedures(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_list_procedures", "Erro ao listar procedimentos.")
		return
	}

	activeStr := strings.TrimSpace(c.Query("active"))
	category := strings.ToLower(strings.TrimSpace(c.Query("category")))

	out := make([]models.Procedure, 0, len(procedures))
	for _, p := range procedures {
		if activeStr != "" && strconv.FormatBool(p.Active) != activeStr {
			continue
		}
		if category != "" && strings.ToLower(p.Category) != category {
			continue
		}
		out = append(out, p)
	}

	httpresp.List(c, out)
}

func (h *CatalogHandler) CreateProcedure(c *gin.Context) {
	var req CreateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos.", err.Error())
		return
	}

	cents := priceCents(req.PriceCents, req.Price)
	if cents <= 0 {
		httperr.BadRequest(c, "invalid_price", "Preço inválido.")
		return
	}

	p := models.Procedure{
		TenantID:    middleware.TenantID(c),
		Name:        validators.NormalizeName(req.Name),
		Description: strings.TrimSpace(req.Description),
		DurationMin: req.DurationMin,
		PriceCents:  cents,
		Active:      true,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
	}

	if err := h.repo.CreateProcedure(c.Request.Context(), &p); err != nil {
		httperr.Internal(c, "failed_to_create_procedure", "Erro ao criar procedimento.")
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *CatalogHandler) UpdateProcedure(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.NotFound(c, "procedure_not_found", "Procedimento não encontrado.")
		return
	}

	p, err := h.repo.GetProcedure(c.Request.Context(), middleware.TenantID(c), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "procedure_not_found", "Procedimento não encontrado.")
			return
		}
		httperr.Internal(c, "failed_to_get_procedure", "Erro ao buscar procedimento.")
		return
	}

	var req UpdateProcedureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos.", err.Error())
		return
	}

	if req.Name != nil {
		p.Name = validators.NormalizeName(*req.Name)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.DurationMin != nil {
		p.DurationMin = *req.DurationMin
	}
	if req.PriceCents != nil || req.Price != nil {
		var cents int64
		var text string
		if req.PriceCents != nil {
			cents = *req.PriceCents
		}
		if req.Price != nil {
			text = *req.Price
		}
		if v := priceCents(cents, text); v > 0 {
			p.PriceCents = v
		}
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := h.repo.UpdateProcedure(c.Request.Context(), p); err != nil {
		httperr.Internal(c, "failed_to_update_procedure", "Erro ao salvar procedimento.")
		return
	}

	c.JSON(http.StatusOK, p)
}

// --------- Professionals ---------

func (h *CatalogHandler) ListProfessionals(c *gin.Context) {
	list, err := h.repo.ListProfessionals(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		httperr.Internal(c, "failed_to_list_professionals", "Erro ao listar profissionais.")
		return
	}
	httpresp.List(c, list)
}

func (h *CatalogHandler) CreateProfessional(c *gin.Context) {
	var req CreateProfessionalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos.", err.Error())
		return
	}

	p := models.Professional{
		TenantID:  middleware.TenantID(c),
		Name:      validators.NormalizeName(req.Name),
		Specialty: strings.TrimSpace(req.Specialty),
		Active:    true,
	}
	if err := h.repo.CreateProfessional(c.Request.Context(), &p); err != nil {
		httperr.Internal(c, "failed_to_create_professional", "Erro ao criar profissional.")
		return
	}

	c.JSON(http.StatusCreated, p)
}
