package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/httpresp"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
	ucQuota "github.com/vitororigens/glowapp-site-sub000/internal/usecase/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

type MeHandler struct {
	db    *gorm.DB
	quota *ucQuota.GetQuotaSummary
}

func NewMeHandler(db *gorm.DB, quota *ucQuota.GetQuotaSummary) *MeHandler {
	return &MeHandler{db: db, quota: quota}
}

type UpdateTenantRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	Locale   *string `json:"locale"`
	Timezone *string `json:"timezone"`
}

func (h *MeHandler) GetMe(c *gin.Context) {
	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		First(&user, middleware.UserID(c)).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userJSON(&user),
		"tenant": user.Tenant,
	})
}

func (h *MeHandler) GetTenant(c *gin.Context) {
	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).First(&tenant, middleware.TenantID(c)).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Conta não encontrada.")
		return
	}
	httpresp.OK(c, tenant)
}

func (h *MeHandler) UpdateTenant(c *gin.Context) {
	var tenant models.Tenant
	if err := h.db.WithContext(c.Request.Context()).First(&tenant, middleware.TenantID(c)).Error; err != nil {
		httperr.NotFound(c, "tenant_not_found", "Conta não encontrada.")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos na requisição.")
		return
	}

	if req.Name != nil {
		name := validators.NormalizeName(*req.Name)
		if name == "" {
			httperr.BadRequest(c, "invalid_name", "Nome obrigatório.")
			return
		}
		tenant.Name = name
	}
	if req.Phone != nil {
		tenant.Phone = validators.NormalizePhone(*req.Phone)
	}
	if req.Address != nil {
		tenant.Address = strings.TrimSpace(*req.Address)
	}
	if req.Locale != nil {
		tenant.Locale = strings.TrimSpace(*req.Locale)
	}
	if req.Timezone != nil {
		if !timezone.IsValid(*req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Fuso horário inválido.")
			return
		}
		tenant.Timezone = *req.Timezone
	}

	if err := h.db.WithContext(c.Request.Context()).Save(&tenant).Error; err != nil {
		httperr.Internal(c, "failed_to_update_tenant", "Erro ao salvar as configurações.")
		return
	}

	c.JSON(http.StatusOK, tenant)
}

// Quota mostra o uso de clientes contra o plano ativo.
func (h *MeHandler) Quota(c *gin.Context) {
	summary, err := h.quota.Execute(c.Request.Context(), middleware.TenantID(c))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	httpresp.OK(c, summary)
}
