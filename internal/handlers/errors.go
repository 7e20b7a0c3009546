package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/ledger"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/logger"
	"github.com/vitororigens/glowapp-site-sub000/internal/money"
)

// mensagens dos BusinessError conhecidos
var businessMessages = map[string]string{
	"invalid_state":          "Operação não permitida nesta etapa.",
	"already_converted":      "Agendamento já convertido em atendimento.",
	"time_conflict":          "Conflito de horário.",
	"invalid_date_or_time":   "Data ou hora inválida.",
	"appointment_not_found":  "Agendamento não encontrado.",
	"service_not_found":      "Atendimento não encontrado.",
	"client_not_found":       "Cliente não encontrado.",
	"procedure_not_found":    "Procedimento não encontrado.",
	"tenant_not_found":       "Conta não encontrada.",
	"quote_has_no_payments":  "Orçamentos não recebem pagamentos.",
	"quote_has_no_images":    "Orçamentos não recebem fotos.",
	"slug_already_exists":    "Este endereço já está em uso.",
	"email_already_exists":   "Este e-mail já está cadastrado.",
	"invalid_email_domain":   "O domínio do e-mail informado não parece ser válido.",
	"invalid_credentials":    "E-mail ou senha incorretos.",
	"invalid_timezone":       "Fuso horário inválido.",
	"invalid_request":        "Dados inválidos.",
	"invalid_multipart_form": "Formulário inválido.",

	"billing_disabled":          "Assinaturas não estão habilitadas.",
	"unknown_subscription_plan": "Plano de assinatura não reconhecido.",
}

var validationMessages = map[string]string{
	"required":      "Campo obrigatório.",
	"invalid_cpf":   "CPF deve ter 11 dígitos.",
	"not_found":     "Não encontrado.",
	"invalid":       "Valor inválido.",
	"unknown_image": "Imagem não pertence a este atendimento.",
}

type fieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError traduz os erros de domínio para {error_code, message}.
// format renderiza valores em centavos no locale do tenant.
func respondError(c *gin.Context, err error, format func(int64) string) {
	if format == nil {
		format = money.FormatCents
	}

	// --------------------------------------------------
	// Cota
	// --------------------------------------------------
	var qe *quota.ExceededError
	if errors.As(err, &qe) {
		code, msg := "quota_exceeded", quotaMessage(qe.Resource)
		if qe.Inactive {
			code, msg = "plan_inactive", "Sua assinatura não está ativa."
		}
		httperr.Forbidden(c, code, msg, gin.H{
			"resource":  qe.Resource,
			"current":   qe.Current,
			"limit":     qe.Limit,
			"remaining": qe.Remaining,
		})
		return
	}

	// --------------------------------------------------
	// Pagamentos
	// --------------------------------------------------
	var over *ledger.OverLimitError
	if errors.As(err, &over) {
		httperr.Unprocessable(c, "payment_over_limit",
			"O valor ultrapassa o saldo pendente. Máximo permitido: "+format(over.MaxAllowed)+".",
			gin.H{
				"attempted":             over.Attempted,
				"max_allowed":           over.MaxAllowed,
				"max_allowed_formatted": format(over.MaxAllowed),
			})
		return
	}
	switch {
	case errors.Is(err, ledger.ErrInvalidMethod):
		httperr.BadRequest(c, "invalid_payment_method", "Forma de pagamento inválida.")
		return
	case errors.Is(err, ledger.ErrInvalidValue):
		httperr.BadRequest(c, "invalid_payment_value", "O valor do pagamento deve ser maior que zero.")
		return
	case errors.Is(err, ledger.ErrInvalidIndex):
		httperr.NotFound(c, "payment_not_found", "Pagamento não encontrado.")
		return
	}

	// --------------------------------------------------
	// Validação por campo
	// --------------------------------------------------
	if fields := httperr.ValidationFields(err); len(fields) > 0 {
		details := make([]fieldError, len(fields))
		for i, f := range fields {
			details[i] = fieldError{Field: f.Field, Code: f.Code, Message: validationMessages[f.Code]}
		}
		httperr.Unprocessable(c, "validation_failed", "Verifique os campos destacados.", details)
		return
	}

	// --------------------------------------------------
	// Regras de negócio
	// --------------------------------------------------
	var be httperr.BusinessError
	if errors.As(err, &be) {
		msg, ok := businessMessages[be.Code]
		if !ok {
			msg = "Operação não permitida."
		}
		httperr.Write(c, businessStatus(be.Code), be.Code, msg)
		return
	}

	// --------------------------------------------------
	// Infra
	// --------------------------------------------------
	var se *client.StorageError
	if errors.As(err, &se) {
		logger.FromContext(c.Request.Context()).Error("client store failed", zap.String("op", se.Op), zap.Error(se.Err))
		httperr.Unavailable(c, "storage_unavailable", "Serviço temporariamente indisponível.")
		return
	}

	logger.FromContext(c.Request.Context()).Error("unhandled error", zap.Error(err))
	httperr.Internal(c, "internal_error", "Erro interno.")
}

func businessStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "_not_found"):
		return http.StatusNotFound
	case code == "invalid_credentials":
		return http.StatusUnauthorized
	case code == "invalid_state", code == "already_converted", code == "time_conflict",
		code == "slug_already_exists", code == "email_already_exists":
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func quotaMessage(r quota.Resource) string {
	if r == quota.ResourceImages {
		return "Limite de fotos por cliente do seu plano atingido."
	}
	return "Limite de clientes do seu plano atingido."
}
