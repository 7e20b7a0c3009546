package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
)

// CheckImages pre-checks a batch of files against the client's image quota.
func CheckImages(existing, adding int, plan quota.PlanTier) error {
	d := quota.CanAddImages(existing, adding, plan)
	if !d.Allowed {
		return quota.ImagesExceeded(existing, d, plan)
	}
	return nil
}

// UploadFiles stores every file and returns the URLs of those that
// succeeded, in order. Failures do not stop the batch; they come back as
// UploadErrors.
func UploadFiles(
	ctx context.Context,
	store BlobStore,
	logger *zap.Logger,
	tenantID uint,
	files []File,
) ([]string, error) {

	var urls []string
	var failed UploadErrors

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			failed = append(failed, &UploadError{File: f.Name, Err: err})
			continue
		}

		url, err := store.Upload(ctx, tenantID, f)
		if err != nil {
			logger.Warn("image upload failed",
				zap.Uint("tenant_id", tenantID),
				zap.String("file", f.Name),
				zap.Error(err),
			)
			failed = append(failed, &UploadError{File: f.Name, Err: err})
			continue
		}
		urls = append(urls, url)
	}

	if len(failed) > 0 {
		return urls, failed
	}
	return urls, nil
}
