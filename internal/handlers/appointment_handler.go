package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitororigens/glowapp-site-sub000/internal/dto"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
	ucAppointment "github.com/vitororigens/glowapp-site-sub000/internal/usecase/appointment"
	ucBooking "github.com/vitororigens/glowapp-site-sub000/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC      *ucBooking.CreateBooking
	confirmUC     *ucAppointment.TransitionAppointment
	cancelUC      *ucAppointment.TransitionAppointment
	completeUC    *ucAppointment.TransitionAppointment
	noShowUC      *ucAppointment.TransitionAppointment
	convertUC     *ucAppointment.ConvertAppointment
	listByDateUC  *ucAppointment.ListAppointmentsByDate
	listByMonthUC *ucAppointment.ListAppointmentsByMonth
	tenants       TenantReader
}

type AppointmentUseCases struct {
	Create      *ucBooking.CreateBooking
	Confirm     *ucAppointment.TransitionAppointment
	Cancel      *ucAppointment.TransitionAppointment
	Complete    *ucAppointment.TransitionAppointment
	NoShow      *ucAppointment.TransitionAppointment
	Convert     *ucAppointment.ConvertAppointment
	ListByDate  *ucAppointment.ListAppointmentsByDate
	ListByMonth *ucAppointment.ListAppointmentsByMonth
}

func NewAppointmentHandler(uc AppointmentUseCases, tenants TenantReader) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:      uc.Create,
		confirmUC:     uc.Confirm,
		cancelUC:      uc.Cancel,
		completeUC:    uc.Complete,
		noShowUC:      uc.NoShow,
		convertUC:     uc.Convert,
		listByDateUC:  uc.ListByDate,
		listByMonthUC: uc.ListByMonth,
		tenants:       tenants,
	}
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	ctx := c.Request.Context()
	in := req.toInput(c)
	in.Payments = nil

	format := formatterFor(ctx, h.tenants, in.TenantID)

	res, err := h.createUC.Execute(ctx, in)
	if err != nil {
		respondError(c, err, format)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"appointment": dto.NewAppointmentListDTO(*res.Appointment, format),
		"client_link": res.ClientLink,
	})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Data obrigatória.")
		return
	}

	date, err := time.Parse(timezone.DateLayout, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Data inválida.")
		return
	}

	professionalID, ok := optionalProfessional(c)
	if !ok {
		return
	}

	list, err := h.listByDateUC.Execute(c.Request.Context(), middleware.TenantID(c), professionalID, date)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *AppointmentHandler) ListByMonth(c *gin.Context) {
	yearStr := c.Query("year")
	monthStr := c.Query("month")

	if yearStr == "" || monthStr == "" {
		httperr.BadRequest(c, "missing_year_or_month", "Ano e mês são obrigatórios.")
		return
	}

	year, err := strconv.Atoi(yearStr)
	if err != nil || year < 2000 || year > 2100 {
		httperr.BadRequest(c, "invalid_year", "Ano inválido.")
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		httperr.BadRequest(c, "invalid_month", "Mês inválido.")
		return
	}

	professionalID, ok := optionalProfessional(c)
	if !ok {
		return
	}

	list, err := h.listByMonthUC.Execute(c.Request.Context(), middleware.TenantID(c), professionalID, year, month)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"year":         year,
		"month":        month,
		"appointments": list,
	})
}

func optionalProfessional(c *gin.Context) (*uint, bool) {
	raw := c.Query("professional_id")
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_professional_id", "Profissional inválido.")
		return nil, false
	}
	v := uint(id)
	return &v, true
}

// ======================================================
// STATUS
// ======================================================

func (h *AppointmentHandler) Confirm(c *gin.Context)  { h.transition(c, h.confirmUC) }
func (h *AppointmentHandler) Cancel(c *gin.Context)   { h.transition(c, h.cancelUC) }
func (h *AppointmentHandler) Complete(c *gin.Context) { h.transition(c, h.completeUC) }
func (h *AppointmentHandler) NoShow(c *gin.Context)   { h.transition(c, h.noShowUC) }

func (h *AppointmentHandler) transition(c *gin.Context, uc *ucAppointment.TransitionAppointment) {
	ctx := c.Request.Context()
	tenantID := middleware.TenantID(c)

	ap, err := uc.Execute(ctx, ucAppointment.TransitionInput{
		TenantID:      tenantID,
		UserID:        middleware.UserID(c),
		AppointmentID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusOK, dto.NewAppointmentListDTO(*ap, formatterFor(ctx, h.tenants, tenantID)))
}

// ======================================================
// CONVERT
// ======================================================

func (h *AppointmentHandler) Convert(c *gin.Context) {
	ctx := c.Request.Context()
	tenantID := middleware.TenantID(c)

	rec, err := h.convertUC.Execute(ctx, ucAppointment.TransitionInput{
		TenantID:      tenantID,
		UserID:        middleware.UserID(c),
		AppointmentID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err, nil)
		return
	}

	c.JSON(http.StatusCreated, dto.NewServiceDTO(rec, formatterFor(ctx, h.tenants, tenantID)))
}
