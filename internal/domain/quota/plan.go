// Package quota decides whether a tenant may add clients or images given a
// usage snapshot and the limits of its plan tier. It never reads storage;
// callers pass the current counts in.
package quota

import (
	"context"
	"strings"
)

type Tier string

const (
	TierStart Tier = "start"
	TierPro   Tier = "pro"
)

func ParseTier(s string) (Tier, bool) {
	switch Tier(strings.ToLower(strings.TrimSpace(s))) {
	case TierStart:
		return TierStart, true
	case TierPro:
		return TierPro, true
	}
	return "", false
}

// PlanTier is the effective limit set for one tenant at one moment.
type PlanTier struct {
	Tier               Tier `json:"tier"`
	MaxClients         int  `json:"max_clients"`
	MaxImagesPerClient int  `json:"max_images_per_client"`
	Active             bool `json:"active"`
}

// Limits are the configured ceilings of a tier, before subscription state is known.
type Limits struct {
	MaxClients         int
	MaxImagesPerClient int
}

// Catalog maps each tier to its limits.
type Catalog map[Tier]Limits

func DefaultCatalog() Catalog {
	return Catalog{
		TierStart: {MaxClients: 10, MaxImagesPerClient: 4},
		TierPro:   {MaxClients: 500, MaxImagesPerClient: 40},
	}
}

// Plan combines a tier's limits with the subscription state. Unknown tiers
// fall back to start.
func (c Catalog) Plan(tier Tier, active bool) PlanTier {
	limits, ok := c[tier]
	if !ok {
		tier = TierStart
		limits = c[TierStart]
	}

	return PlanTier{
		Tier:               tier,
		MaxClients:         limits.MaxClients,
		MaxImagesPerClient: limits.MaxImagesPerClient,
		Active:             active,
	}
}

// PlanProvider yields a tenant's active plan from billing state.
type PlanProvider interface {
	GetActivePlan(ctx context.Context, tenantID uint) (PlanTier, error)
}
