package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vitororigens/glowapp-site-sub000/internal/config"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/logger"
)

const (
	ContextUserID   = "userID"
	ContextTenantID = "tenantID"
	ContextUserRole = "userRole"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "missing_authorization_header", "Autenticação obrigatória.")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			unauthorized(c, "invalid_authorization_header", "Cabeçalho de autenticação inválido.")
			return
		}

		token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenMalformed
			}
			return []byte(cfg.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "invalid_token", "Sessão inválida ou expirada.")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "invalid_token_claims", "Sessão inválida.")
			return
		}

		userID, ok1 := claims["sub"].(float64)
		tenantID, ok2 := claims["tenantId"].(float64)
		role, _ := claims["role"].(string)
		if !ok1 || !ok2 {
			unauthorized(c, "invalid_token_payload", "Sessão inválida.")
			return
		}

		c.Set(ContextUserID, uint(userID))
		c.Set(ContextTenantID, uint(tenantID))
		c.Set(ContextUserRole, role)

		ctx, _ := logger.WithTenantID(c.Request.Context(), logger.FromContext(c.Request.Context()), uint(tenantID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// TenantID e UserID só valem em rotas atrás do AuthMiddleware.
func TenantID(c *gin.Context) uint {
	return c.MustGet(ContextTenantID).(uint)
}

func UserID(c *gin.Context) uint {
	return c.MustGet(ContextUserID).(uint)
}

func unauthorized(c *gin.Context, code, message string) {
	httperr.Unauthorized(c, code, message)
	c.Abort()
}
