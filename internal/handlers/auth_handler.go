package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

type AuthHandler struct {
	db          *gorm.DB
	config      *config.Config
	checkDomain func(ctx context.Context, email string) bool
}

func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		db:          db,
		config:      cfg,
		checkDomain: validators.IsEmailDomainValid,
	}
}

// --------- Requests ---------

type RegisterRequest struct {
	BusinessName    string `json:"business_name" binding:"required"`
	BusinessSlug    string `json:"business_slug" binding:"required"`
	BusinessPhone   string `json:"business_phone"`
	BusinessAddress string `json:"business_address"`
	Timezone        string `json:"timezone"`

	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	Phone     string `json:"phone"`
	Specialty string `json:"specialty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --------- Handlers ---------

// Register cria o tenant, a conta do dono e o dono como primeiro profissional.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos.", err.Error())
		return
	}

	slug := strings.ToLower(strings.TrimSpace(req.BusinessSlug))
	email := validators.NormalizeEmail(req.Email)

	if !h.checkDomain(c.Request.Context(), email) {
		respondError(c, httperr.ErrBusiness("invalid_email_domain"), nil)
		return
	}

	tz := h.config.App.Timezone
	if req.Timezone != "" {
		if !timezone.IsValid(req.Timezone) {
			respondError(c, httperr.ErrBusiness("invalid_timezone"), nil)
			return
		}
		tz = req.Timezone
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "Erro ao processar a senha.")
		return
	}

	trialEnds := time.Now().AddDate(0, 0, h.config.Billing.TrialDays)
	tenant := models.Tenant{
		Name:        validators.NormalizeName(req.BusinessName),
		Slug:        slug,
		Phone:       validators.NormalizePhone(req.BusinessPhone),
		Address:     req.BusinessAddress,
		Locale:      h.config.App.Locale,
		Timezone:    tz,
		PlanTier:    "start",
		TrialEndsAt: &trialEnds,
	}
	user := models.User{
		Name:         validators.NormalizeName(req.Name),
		Email:        email,
		PasswordHash: string(hashed),
		Phone:        validators.NormalizePhone(req.Phone),
		Role:         "owner",
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("slug_already_exists")
		}

		if err := tx.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness("email_already_exists")
		}

		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		user.TenantID = tenant.ID
		if err := tx.Omit("Tenant").Create(&user).Error; err != nil {
			return err
		}

		return tx.Create(&models.Professional{
			TenantID:  tenant.ID,
			Name:      user.Name,
			Specialty: req.Specialty,
			Active:    true,
		}).Error
	})
	if err != nil {
		if httperr.IsUniqueViolation(err) {
			respondError(c, httperr.ErrBusiness("slug_already_exists"), nil)
			return
		}
		respondError(c, err, nil)
		return
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar a sessão.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user":   userJSON(&user),
		"tenant": tenant,
		"token":  token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.WriteDetails(c, http.StatusBadRequest, "invalid_request", "Dados inválidos.", err.Error())
		return
	}

	email := validators.NormalizeEmail(req.Email)

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Tenant").
		Where("email = ?", email).
		First(&user).Error; err != nil {

		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, httperr.ErrBusiness("invalid_credentials"), nil)
			return
		}
		respondError(c, err, nil)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, httperr.ErrBusiness("invalid_credentials"), nil)
		return
	}

	now := time.Now()
	if err := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		UpdateColumn("last_login_at", now).Error; err == nil {
		user.LastLoginAt = &now
	}

	token, err := h.generateToken(&user)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "Erro ao gerar a sessão.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":   userJSON(&user),
		"tenant": user.Tenant,
		"token":  token,
	})
}

func userJSON(user *models.User) gin.H {
	return gin.H{
		"id":            user.ID,
		"name":          user.Name,
		"email":         user.Email,
		"phone":         user.Phone,
		"role":          user.Role,
		"tenant_id":     user.TenantID,
		"last_login_at": user.LastLoginAt,
	}
}

// --------- JWT ---------

func (h *AuthHandler) generateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"tenantId": user.TenantID,
		"role":     user.Role,
		"exp":      now.Add(h.config.JWT.Expiration).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.config.JWT.Secret))
}
