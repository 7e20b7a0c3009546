package quota

import "fmt"

type Resource string

const (
	ResourceClients Resource = "clients"
	ResourceImages  Resource = "images"
)

// Decision is the outcome of an image check. Remaining is filled even when
// Allowed is false.
type Decision struct {
	Allowed   bool `json:"allowed"`
	Remaining int  `json:"remaining"`
}

// CanAddClient reports whether one more client fits the plan.
func CanAddClient(currentCount int, limits PlanTier) bool {
	return limits.Active && clamp(currentCount) < limits.MaxClients
}

// CanAddImages checks a batch of imagesToAdd against a client's existing images.
func CanAddImages(clientExistingImageCount, imagesToAdd int, limits PlanTier) Decision {
	existing := clamp(clientExistingImageCount)
	adding := clamp(imagesToAdd)

	return Decision{
		Allowed:   limits.Active && existing+adding <= limits.MaxImagesPerClient,
		Remaining: clamp(limits.MaxImagesPerClient - existing),
	}
}

// ExistingForEdit is the client's image count minus the images already owned
// by the record being edited, so re-saving a record never counts its own
// images twice.
func ExistingForEdit(clientImageCount, recordOwnImageCount int) int {
	return clamp(clamp(clientImageCount) - clamp(recordOwnImageCount))
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

// ExceededError is returned instead of creating a resource past the plan ceiling.
type ExceededError struct {
	Resource  Resource
	Current   int
	Limit     int
	Remaining int
	Inactive  bool
}

func (e *ExceededError) Error() string {
	if e.Inactive {
		return fmt.Sprintf("quota exceeded for %s: plan is not active", e.Resource)
	}
	return fmt.Sprintf("quota exceeded for %s: %d of %d used", e.Resource, e.Current, e.Limit)
}

// ClientsExceeded builds the error for a denied client creation.
func ClientsExceeded(current int, limits PlanTier) *ExceededError {
	return &ExceededError{
		Resource:  ResourceClients,
		Current:   clamp(current),
		Limit:     limits.MaxClients,
		Remaining: clamp(limits.MaxClients - clamp(current)),
		Inactive:  !limits.Active,
	}
}

// ImagesExceeded builds the error for a denied image batch.
func ImagesExceeded(existing int, d Decision, limits PlanTier) *ExceededError {
	return &ExceededError{
		Resource:  ResourceImages,
		Current:   clamp(existing),
		Limit:     limits.MaxImagesPerClient,
		Remaining: d.Remaining,
		Inactive:  !limits.Active,
	}
}
