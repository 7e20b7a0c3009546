package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/dto"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/money"
	ucBooking "github.com/vitororigens/glowapp-site-sub000/internal/usecase/booking"
	ucPayment "github.com/vitororigens/glowapp-site-sub000/internal/usecase/payment"
	ucService "github.com/vitororigens/glowapp-site-sub000/internal/usecase/service"
)

// ======================================================
// HANDLER
// ======================================================

type ServiceHandler struct {
	createService *ucBooking.CreateBooking
	createQuote   *ucBooking.CreateBooking
	get           *ucService.GetService
	editImages    *ucService.EditServiceImages

	addPayment     *ucPayment.UpdatePayments
	replacePayment *ucPayment.UpdatePayments
	removePayment  *ucPayment.UpdatePayments
	payInFull      *ucPayment.UpdatePayments

	tenants TenantReader
}

type ServiceUseCases struct {
	CreateService *ucBooking.CreateBooking
	CreateQuote   *ucBooking.CreateBooking
	Get           *ucService.GetService
	EditImages    *ucService.EditServiceImages

	AddPayment     *ucPayment.UpdatePayments
	ReplacePayment *ucPayment.UpdatePayments
	RemovePayment  *ucPayment.UpdatePayments
	PayInFull      *ucPayment.UpdatePayments
}

func NewServiceHandler(uc ServiceUseCases, tenants TenantReader) *ServiceHandler {
	return &ServiceHandler{
		createService:  uc.CreateService,
		createQuote:    uc.CreateQuote,
		get:            uc.Get,
		editImages:     uc.EditImages,
		addPayment:     uc.AddPayment,
		replacePayment: uc.ReplacePayment,
		removePayment:  uc.RemovePayment,
		payInFull:      uc.PayInFull,
		tenants:        tenants,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ClientRequest struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// PaymentRequest aceita centavos ou o texto digitado ("R$ 60,00").
type PaymentRequest struct {
	Method       string     `json:"method"`
	ValueCents   int64      `json:"value_cents"`
	Value        string     `json:"value"`
	Installments int        `json:"installments"`
	Date         *time.Time `json:"date"`
}

func (p PaymentRequest) toLedger() ledger.Payment {
	cents := p.ValueCents
	if cents == 0 && p.Value != "" {
		cents = money.ParseCurrencyInput(p.Value)
	}
	out := ledger.Payment{
		Method:       ledger.Method(strings.ToLower(strings.TrimSpace(p.Method))),
		ValueCents:   cents,
		Installments: p.Installments,
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	return out
}

type BookingRequest struct {
	Client         ClientRequest    `json:"client"`
	ProcedureIDs   []uint           `json:"procedure_ids"`
	ProfessionalID uint             `json:"professional_id"`
	Payments       []PaymentRequest `json:"payments"`
	Date           string           `json:"date"`
	Time           string           `json:"time"`
	Notes          string           `json:"notes"`
}

func (r BookingRequest) toInput(c *gin.Context) ucBooking.Input {
	payments := make([]ledger.Payment, 0, len(r.Payments))
	for _, p := range r.Payments {
		payments = append(payments, p.toLedger())
	}
	return ucBooking.Input{
		TenantID: middleware.TenantID(c),
		UserID:   middleware.UserID(c),
		Client: client.Input{
			Name:  r.Client.Name,
			CPF:   r.Client.CPF,
			Phone: r.Client.Phone,
			Email: r.Client.Email,
		},
		ProcedureIDs:   r.ProcedureIDs,
		ProfessionalID: r.ProfessionalID,
		Payments:       payments,
		Date:           r.Date,
		Time:           r.Time,
		Notes:          strings.TrimSpace(r.Notes),
	}
}

type PayInFullRequest struct {
	Method string `json:"method" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

// Create recebe multipart (campo payload em JSON + arquivos before/after)
// ou JSON puro quando não há fotos.
func (h *ServiceHandler) Create(c *gin.Context) {
	var req BookingRequest
	isMultipart := strings.HasPrefix(c.ContentType(), "multipart/")

	if isMultipart {
		if err := json.Unmarshal([]byte(c.PostForm("payload")), &req); err != nil {
			httperr.BadRequest(c, "invalid_multipart_form", "Formulário inválido.")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	in := req.toInput(c)
	if isMultipart {
		in.BeforeImages = formFiles(c, "before")
		in.AfterImages = formFiles(c, "after")
	}

	h.respondBooking(c, h.createService, in)
}

func (h *ServiceHandler) CreateQuote(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.respondBooking(c, h.createQuote, req.toInput(c))
}

func (h *ServiceHandler) respondBooking(c *gin.Context, uc *ucBooking.CreateBooking, in ucBooking.Input) {
	ctx := c.Request.Context()
	format := formatterFor(ctx, h.tenants, in.TenantID)

	res, err := uc.Execute(ctx, in)
	if err != nil {
		respondError(c, err, format)
		return
	}

	uploadErrors := res.UploadErrors
	if uploadErrors == nil {
		uploadErrors = []ucBooking.UploadFailure{}
	}

	c.JSON(http.StatusCreated, gin.H{
		"service":       dto.NewServiceDTO(res.Service, format),
		"client_link":   res.ClientLink,
		"upload_errors": uploadErrors,
	})
}

// ======================================================
// READ
// ======================================================

func (h *ServiceHandler) Get(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	ctx := c.Request.Context()

	rec, err := h.get.Execute(ctx, tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, dto.NewServiceDTO(rec, formatterFor(ctx, h.tenants, tenantID)))
}

// ======================================================
// PAYMENTS
// ======================================================

func (h *ServiceHandler) AddPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.runPayment(c, h.addPayment, ucPayment.Input{Payment: req.toLedger()})
}

func (h *ServiceHandler) ReplacePayment(c *gin.Context) {
	index, ok := paymentIndex(c)
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.runPayment(c, h.replacePayment, ucPayment.Input{Index: index, Payment: req.toLedger()})
}

func (h *ServiceHandler) RemovePayment(c *gin.Context) {
	index, ok := paymentIndex(c)
	if !ok {
		return
	}
	h.runPayment(c, h.removePayment, ucPayment.Input{Index: index})
}

func (h *ServiceHandler) PayInFull(c *gin.Context) {
	var req PayInFullRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}
	h.runPayment(c, h.payInFull, ucPayment.Input{
		Method: ledger.Method(strings.ToLower(strings.TrimSpace(req.Method))),
	})
}

func (h *ServiceHandler) runPayment(c *gin.Context, uc *ucPayment.UpdatePayments, in ucPayment.Input) {
	ctx := c.Request.Context()
	in.TenantID = middleware.TenantID(c)
	in.UserID = middleware.UserID(c)
	in.ServiceID = c.Param("id")

	format := formatterFor(ctx, h.tenants, in.TenantID)

	rec, err := uc.Execute(ctx, in)
	if err != nil {
		respondError(c, err, format)
		return
	}
	c.JSON(http.StatusOK, dto.NewServiceDTO(rec, format))
}

func paymentIndex(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		httperr.BadRequest(c, "invalid_payment_index", "Índice de pagamento inválido.")
		return 0, false
	}
	return index, true
}

// ======================================================
// IMAGES
// ======================================================

// EditImages substitui as fotos de um tipo: campos keep (URLs mantidas),
// kind (before|after) e arquivos files.
func (h *ServiceHandler) EditImages(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.TenantID(c)

	if _, err := c.MultipartForm(); err != nil {
		httperr.BadRequest(c, "invalid_multipart_form", "Formulário inválido.")
		return
	}

	res, err := h.editImages.Execute(ctx, ucService.EditImagesInput{
		TenantID:  tenantID,
		UserID:    middleware.UserID(c),
		ServiceID: c.Param("id"),
		Kind:      strings.ToLower(c.PostForm("kind")),
		Keep:      c.PostFormArray("keep"),
		Files:     formFiles(c, "files"),
	})
	if err != nil {
		respondError(c, err, nil)
		return
	}

	failed := make([]ucBooking.UploadFailure, 0, len(res.Failed))
	for _, f := range res.Failed {
		failed = append(failed, ucBooking.UploadFailure{File: f.File, Error: f.Err.Error()})
	}

	c.JSON(http.StatusOK, gin.H{
		"service":       dto.NewServiceDTO(res.Service, formatterFor(ctx, h.tenants, tenantID)),
		"upload_errors": failed,
	})
}
