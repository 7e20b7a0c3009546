package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/httpresp"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	ucSubscription "github.com/vitororigens/glowapp-site-sub000/internal/usecase/subscription"
)

type SubscriptionHandler struct {
	link *ucSubscription.LinkSubscription
}

func NewSubscriptionHandler(link *ucSubscription.LinkSubscription) *SubscriptionHandler {
	return &SubscriptionHandler{link: link}
}

type LinkSubscriptionRequest struct {
	PreapprovalID string `json:"preapproval_id"`
}

// Link é chamado pelo front depois do checkout do Mercado Pago.
func (h *SubscriptionHandler) Link(c *gin.Context) {
	var req LinkSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Dados inválidos.")
		return
	}

	res, err := h.link.Execute(c.Request.Context(), ucSubscription.Input{
		TenantID:      middleware.TenantID(c),
		UserID:        middleware.UserID(c),
		PreapprovalID: req.PreapprovalID,
	})
	if err != nil {
		respondError(c, err, nil)
		return
	}
	httpresp.OK(c, res)
}
