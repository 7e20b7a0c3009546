package handlers

import (
	"context"
	"io"
	"mime/multipart"

	"github.com/gin-gonic/gin"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/money"
)

type TenantReader interface {
	GetTenant(ctx context.Context, id uint) (*models.Tenant, error)
}

// --------------------------------------------------
// Locale e fuso do tenant
// --------------------------------------------------

// formatterFor formata centavos no locale do tenant; sem tenant, pt-BR.
func formatterFor(ctx context.Context, tenants TenantReader, tenantID uint) func(int64) string {
	tenant, err := tenants.GetTenant(ctx, tenantID)
	if err != nil || tenant.Locale == "" {
		return money.FormatCents
	}
	return money.NewFormatter(tenant.Locale).Format
}

// --------------------------------------------------
// Multipart
// --------------------------------------------------

func formFiles(c *gin.Context, field string) []booking.File {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}

	headers := form.File[field]
	files := make([]booking.File, 0, len(headers))
	for _, fh := range headers {
		files = append(files, fileFromHeader(fh))
	}
	return files
}

func fileFromHeader(fh *multipart.FileHeader) booking.File {
	return booking.File{
		Name: fh.Filename,
		Size: fh.Size,
		Open: func() (io.ReadCloser, error) {
			f, err := fh.Open()
			if err != nil {
				return nil, err
			}
			return f, nil
		},
	}
}
