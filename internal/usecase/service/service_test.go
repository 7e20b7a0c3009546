package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/booking"
	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/infra/repository"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/testutil"
)

type blobStub struct {
	n    int
	fail string
}

func (b *blobStub) Upload(_ context.Context, _ uint, f booking.File) (string, error) {
	if f.Name == b.fail {
		return "", errors.New("timeout")
	}
	b.n++
	return fmt.Sprintf("https://cdn.test/%d-%s", b.n, f.Name), nil
}

type planStub quota.PlanTier

func (p planStub) GetActivePlan(context.Context, uint) (quota.PlanTier, error) {
	return quota.PlanTier(p), nil
}

func files(names ...string) []booking.File {
	out := make([]booking.File, len(names))
	for i, n := range names {
		out[i] = booking.File{Name: n, Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(nil)), nil
		}}
	}
	return out
}

type fixture struct {
	repo  *repository.ServiceGormRepository
	blobs *blobStub
	uc    *EditServiceImages
	rec   *models.ServiceRecord
}

// cliente com 3 fotos: 2 no atendimento editado, 1 em outro; limite 4.
func newFixture(t *testing.T) *fixture {
	gdb := testutil.NewDB(t)
	seed := testutil.SeedTenant(t, gdb, "clinica")
	repo := repository.NewServiceGormRepository(gdb)
	ctx := context.Background()

	c := &models.Client{TenantID: seed.Tenant.ID, Name: "Ana"}
	require.NoError(t, gdb.Create(c).Error)

	mk := func(images ...models.ServiceImage) *models.ServiceRecord {
		id := c.ID
		rec := &models.ServiceRecord{
			TenantID:        seed.Tenant.ID,
			ClientID:        &id,
			ClientName:      "Ana",
			ProfessionalID:  seed.Professional.ID,
			TotalPriceCents: 6000,
			Images:          images,
		}
		require.NoError(t, repo.Create(ctx, rec))
		return rec
	}

	rec := mk(
		models.ServiceImage{Kind: models.ImageBefore, URL: "b0", Position: 0},
		models.ServiceImage{Kind: models.ImageAfter, URL: "a0", Position: 0},
	)
	mk(models.ServiceImage{Kind: models.ImageBefore, URL: "other", Position: 0})

	blobs := &blobStub{}
	plan := planStub{Tier: quota.TierStart, MaxClients: 10, MaxImagesPerClient: 4, Active: true}
	return &fixture{
		repo:  repo,
		blobs: blobs,
		uc:    NewEditServiceImages(repo, blobs, plan, nil, nil),
		rec:   rec,
	}
}

func (f *fixture) input(keep []string, names ...string) EditImagesInput {
	return EditImagesInput{
		TenantID:  f.rec.TenantID,
		ServiceID: f.rec.ID,
		Kind:      models.ImageAfter,
		Keep:      keep,
		Files:     files(names...),
	}
}

func TestEditImages_ResaveNeverTripsQuota(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.Execute(context.Background(), f.input([]string{"a0"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"a0"}, res.Service.ImageURLs(models.ImageAfter))
}

func TestEditImages_QuotaCountsOtherRecords(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// 1 (outro) + 1 (before) + 1 (a0) + 1 nova = 4
	res, err := f.uc.Execute(ctx, f.input([]string{"a0"}, "n1.jpg"))
	require.NoError(t, err)
	assert.Len(t, res.Service.ImageURLs(models.ImageAfter), 2)

	_, err = f.uc.Execute(ctx, f.input(res.Service.ImageURLs(models.ImageAfter), "n2.jpg"))
	var qe *quota.ExceededError
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, 0, qe.Remaining)

	// trocar uma foto por outra cabe
	got, err := f.repo.Get(ctx, f.rec.TenantID, f.rec.ID)
	require.NoError(t, err)
	res, err = f.uc.Execute(ctx, f.input(got.ImageURLs(models.ImageAfter)[:1], "n3.jpg"))
	require.NoError(t, err)
	assert.Len(t, res.Service.ImageURLs(models.ImageAfter), 2)

	n, err := f.repo.CountClientImages(ctx, f.rec.TenantID, *f.rec.ClientID, "")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestEditImages_PartialUploadFailure(t *testing.T) {
	f := newFixture(t)
	f.blobs.fail = "bad.jpg"

	res, err := f.uc.Execute(context.Background(), f.input(nil, "ok.jpg", "bad.jpg"))
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, "bad.jpg", res.Failed[0].File)
	assert.Equal(t, []string{"https://cdn.test/1-ok.jpg"}, res.Service.ImageURLs(models.ImageAfter))
}

func TestEditImages_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	in := f.input([]string{"not-mine"})
	_, err := f.uc.Execute(ctx, in)
	var ve httperr.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "keep", ve.Field)

	in = f.input(nil)
	in.Kind = "during"
	_, err = f.uc.Execute(ctx, in)
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "kind", ve.Field)

	in = f.input(nil)
	in.ServiceID = "missing"
	_, err = f.uc.Execute(ctx, in)
	assert.True(t, httperr.IsBusiness(err, "service_not_found"))
}
