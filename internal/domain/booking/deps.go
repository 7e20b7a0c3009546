package booking

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type ClientResolver interface {
	ResolveOrCreate(ctx context.Context, tenantID uint, in client.Input) (*client.Result, error)
}

type Catalog interface {
	// GetProcedures returns the tenant's procedures among ids; missing ids
	// are simply absent from the result.
	GetProcedures(ctx context.Context, tenantID uint, ids []uint) ([]models.Procedure, error)
	GetProfessional(ctx context.Context, tenantID uint, id uint) (*models.Professional, error)
}

type ImageCounter interface {
	// CountClientImages counts images on every record of the client, except
	// those of excludeRecordID when it is not empty.
	CountClientImages(ctx context.Context, tenantID uint, clientID string, excludeRecordID string) (int, error)
}

type BlobStore interface {
	Upload(ctx context.Context, tenantID uint, f File) (url string, err error)
}

type Recorder interface {
	SaveService(ctx context.Context, rec *models.ServiceRecord) error
	SaveAppointment(ctx context.Context, ap *models.Appointment) error
}

// File is an image waiting to be uploaded.
type File struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// ======================================================
// Upload errors
// ======================================================

type UploadError struct {
	File string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.File, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// UploadErrors lists the files of a batch that failed. The others were stored.
type UploadErrors []*UploadError

func (e UploadErrors) Error() string {
	msgs := make([]string, len(e))
	for i, u := range e {
		msgs[i] = u.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e UploadErrors) Unwrap() []error {
	out := make([]error, len(e))
	for i, u := range e {
		out[i] = u
	}
	return out
}
