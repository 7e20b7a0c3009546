package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/httpresp"
	"github.com/vitororigens/glowapp-site-sub000/internal/middleware"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLister interface {
	List(ctx context.Context, tenantID uint, f audit.Filter, limit, offset int) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLister
}

func NewAuditLogsHandler(logs AuditLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, limit, offset := httpresp.PageParams(c, 50, 200)

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------
	f := audit.Filter{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	if fromStr := c.Query("from"); fromStr != "" {
		if from, err := time.Parse(timezone.DateLayout, fromStr); err == nil {
			f.From = &from
		}
	}

	if toStr := c.Query("to"); toStr != "" {
		if to, err := time.Parse(timezone.DateLayout, toStr); err == nil {
			end := to.Add(24 * time.Hour)
			f.To = &end
		}
	}

	logs, total, err := h.logs.List(c.Request.Context(), middleware.TenantID(c), f, limit, offset)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	httpresp.Page(c, logs, page, limit, total)
}
