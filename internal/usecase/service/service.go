package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type ServiceStore interface {
	Get(ctx context.Context, tenantID uint, id string) (*models.ServiceRecord, error)
	ListByClient(ctx context.Context, tenantID uint, clientID string) ([]models.ServiceRecord, error)
	CountClientImages(ctx context.Context, tenantID uint, clientID string, excludeRecordID string) (int, error)
	ReplaceImages(ctx context.Context, rec *models.ServiceRecord, kind string, urls []string) error
}

// ======================================================
// GET
// ======================================================

type GetService struct {
	repo ServiceStore
}

func NewGetService(repo ServiceStore) *GetService {
	return &GetService{repo: repo}
}

func (uc *GetService) Execute(ctx context.Context, tenantID uint, id string) (*models.ServiceRecord, error) {
	return get(ctx, uc.repo, tenantID, id)
}

func get(ctx context.Context, repo ServiceStore, tenantID uint, id string) (*models.ServiceRecord, error) {
	rec, err := repo.Get(ctx, tenantID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("service_not_found")
	}
	return rec, err
}

type ListClientServices struct {
	repo ServiceStore
}

func NewListClientServices(repo ServiceStore) *ListClientServices {
	return &ListClientServices{repo: repo}
}

func (uc *ListClientServices) Execute(ctx context.Context, tenantID uint, clientID string) ([]models.ServiceRecord, error) {
	return uc.repo.ListByClient(ctx, tenantID, clientID)
}

// ======================================================
// IMAGES (edição de atendimento existente)
// ======================================================

// EditImagesInput substitui as fotos de um tipo: Keep são URLs já gravadas
// que continuam, Files são as novas.
type EditImagesInput struct {
	TenantID  uint
	UserID    uint
	ServiceID string
	Kind      string
	Keep      []string
	Files     []booking.File
}

type EditImagesResult struct {
	Service *models.ServiceRecord
	Failed  booking.UploadErrors
}

type EditServiceImages struct {
	repo   ServiceStore
	blobs  booking.BlobStore
	plans  quota.PlanProvider
	audit  *audit.Dispatcher
	logger *zap.Logger
}

func NewEditServiceImages(
	repo ServiceStore,
	blobs booking.BlobStore,
	plans quota.PlanProvider,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *EditServiceImages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EditServiceImages{
		repo:   repo,
		blobs:  blobs,
		plans:  plans,
		audit:  audit,
		logger: logger,
	}
}

// Execute checks the quota with the record's own images taken out of the
// client's count, so re-saving the same photos never trips it, then uploads
// the new files and stores kept plus uploaded URLs.
func (uc *EditServiceImages) Execute(ctx context.Context, in EditImagesInput) (*EditImagesResult, error) {
	if in.Kind != models.ImageBefore && in.Kind != models.ImageAfter {
		return nil, httperr.ErrValidation("kind", "invalid")
	}

	rec, err := get(ctx, uc.repo, in.TenantID, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if rec.IsBudget {
		return nil, httperr.ErrBusiness("quote_has_no_images")
	}

	current := rec.ImageURLs(in.Kind)
	if !subset(in.Keep, current) {
		return nil, httperr.ErrValidation("keep", "unknown_image")
	}

	// --------------------------------------------------
	// 1️⃣ Cota: imagens do cliente fora deste atendimento
	// --------------------------------------------------
	plan, err := uc.plans.GetActivePlan(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}

	own := len(rec.Images)
	clientTotal := own
	if rec.ClientID != nil {
		clientTotal, err = uc.repo.CountClientImages(ctx, in.TenantID, *rec.ClientID, "")
		if err != nil {
			return nil, err
		}
	}

	otherKind := own - len(current)
	existing := quota.ExistingForEdit(clientTotal, own) + otherKind + len(in.Keep)

	if len(in.Files) > 0 {
		if err := booking.CheckImages(existing, len(in.Files), plan); err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 2️⃣ Upload e gravação
	// --------------------------------------------------
	uploaded, uploadErr := booking.UploadFiles(ctx, uc.blobs, uc.logger, in.TenantID, in.Files)

	res := &EditImagesResult{Service: rec}
	if uploadErr != nil && !errors.As(uploadErr, &res.Failed) {
		return nil, uploadErr
	}

	urls := append(append([]string{}, in.Keep...), uploaded...)
	if err := uc.repo.ReplaceImages(ctx, rec, in.Kind, urls); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		TenantID: in.TenantID,
		UserID:   &in.UserID,
		Action:   "service_images_updated",
		Entity:   "service",
		EntityID: rec.ID,
		Metadata: map[string]any{
			"kind":     in.Kind,
			"kept":     len(in.Keep),
			"uploaded": len(uploaded),
		},
	})

	return res, nil
}

func subset(items, of []string) bool {
	set := make(map[string]struct{}, len(of))
	for _, u := range of {
		set[u] = struct{}{}
	}
	for _, u := range items {
		if _, ok := set[u]; !ok {
			return false
		}
	}
	return true
}
