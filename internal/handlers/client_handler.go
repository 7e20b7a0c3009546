package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainClient "github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/dto"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/httpresp"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	ucClient "github.com/vitororigens/glowapp-site-sub000/internal/usecase/client"
	ucService "github.com/vitororigens/glowapp-site-sub000/internal/usecase/service"
)

type ClientHandler struct {
	search   *ucClient.SearchClients
	resolve  *ucClient.ResolveClient
	services *ucService.ListClientServices
	tenants  TenantReader
}

func NewClientHandler(
	search *ucClient.SearchClients,
	resolve *ucClient.ResolveClient,
	services *ucService.ListClientServices,
	tenants TenantReader,
) *ClientHandler {
	return &ClientHandler{
		search:   search,
		resolve:  resolve,
		services: services,
		tenants:  tenants,
	}
}

type ResolveClientRequest struct {
	Name  string `json:"name"`
	CPF   string `json:"cpf"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// ======================================================
// LIST
// ======================================================

func (h *ClientHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))

	clients, err := h.search.Execute(c.Request.Context(), middleware.TenantID(c), c.Query("query"), limit)
	if err != nil {
		respondError(c, err, nil)
		return
	}
	if clients == nil {
		clients = []models.Client{}
	}

	httpresp.List(c, clients)
}

// ======================================================
// RESOLVE (busca por cpf > telefone > nome ou cria)
// ======================================================

func (h *ClientHandler) Resolve(c *gin.Context) {
	var req ResolveClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.resolve.Execute(c.Request.Context(), ucClient.ResolveInput{
		TenantID: middleware.TenantID(c),
		UserID:   middleware.UserID(c),
		Client: domainClient.Input{
			Name:  req.Name,
			CPF:   req.CPF,
			Phone: req.Phone,
			Email: req.Email,
		},
	})
	if err != nil {
		respondError(c, err, nil)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"client":     res.Client,
		"created":    res.Created,
		"matched_by": res.MatchedBy,
		"backfilled": res.Backfilled,
	})
}

// ======================================================
// HISTÓRICO
// ======================================================

func (h *ClientHandler) Services(c *gin.Context) {
	tenantID := middleware.TenantID(c)
	ctx := c.Request.Context()

	recs, err := h.services.Execute(ctx, tenantID, c.Param("id"))
	if err != nil {
		respondError(c, err, nil)
		return
	}

	format := formatterFor(ctx, h.tenants, tenantID)
	out := make([]dto.ServiceDTO, 0, len(recs))
	for i := range recs {
		out = append(out, dto.NewServiceDTO(&recs[i], format))
	}
	httpresp.List(c, out)
}
