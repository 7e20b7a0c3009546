package quota

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func startPlan() PlanTier {
	return DefaultCatalog().Plan(TierStart, true)
}

func TestCanAddClient_Monotonic(t *testing.T) {
	limits := PlanTier{Tier: TierStart, MaxClients: 10, MaxImagesPerClient: 4, Active: true}

	for n := -2; n < limits.MaxClients; n++ {
		assert.True(t, CanAddClient(n, limits), "count %d", n)
	}
	for n := limits.MaxClients; n < limits.MaxClients+5; n++ {
		assert.False(t, CanAddClient(n, limits), "count %d", n)
	}

	limits.Active = false
	for n := 0; n < 12; n++ {
		assert.False(t, CanAddClient(n, limits), "inactive count %d", n)
	}
}

func TestCanAddClient_StartPlanScenario(t *testing.T) {
	assert.True(t, CanAddClient(9, startPlan()))
	assert.False(t, CanAddClient(10, startPlan()))
}

func TestCanAddImages(t *testing.T) {
	limits := PlanTier{MaxImagesPerClient: 4, Active: true}

	tests := []struct {
		name     string
		existing int
		adding   int
		limits   PlanTier
		want     Decision
	}{
		{"batch over limit", 3, 2, limits, Decision{Allowed: false, Remaining: 1}},
		{"fills exactly", 2, 2, limits, Decision{Allowed: true, Remaining: 2}},
		{"nothing added", 4, 0, limits, Decision{Allowed: true, Remaining: 0}},
		{"already above limit", 6, 1, limits, Decision{Allowed: false, Remaining: 0}},
		{"negative counts clamp", -3, -1, limits, Decision{Allowed: true, Remaining: 4}},
		{"inactive plan", 0, 1, PlanTier{MaxImagesPerClient: 4}, Decision{Allowed: false, Remaining: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAddImages(tt.existing, tt.adding, tt.limits))
		})
	}
}

func TestExistingForEdit(t *testing.T) {
	limits := PlanTier{MaxImagesPerClient: 4, Active: true}

	// client has 4 images, all on the record being re-saved
	existing := ExistingForEdit(4, 4)
	assert.Equal(t, 0, existing)
	assert.True(t, CanAddImages(existing, 4, limits).Allowed)

	assert.Equal(t, 0, ExistingForEdit(1, 3))
	assert.Equal(t, 2, ExistingForEdit(5, 3))
}

func TestCatalogPlan(t *testing.T) {
	c := DefaultCatalog()

	pro := c.Plan(TierPro, true)
	assert.Equal(t, TierPro, pro.Tier)
	assert.Equal(t, 500, pro.MaxClients)

	unknown := c.Plan(Tier("gold"), false)
	assert.Equal(t, TierStart, unknown.Tier)
	assert.False(t, unknown.Active)
}

func TestParseTier(t *testing.T) {
	tier, ok := ParseTier(" PRO ")
	assert.True(t, ok)
	assert.Equal(t, TierPro, tier)

	_, ok = ParseTier("gold")
	assert.False(t, ok)
}

func TestExceededError(t *testing.T) {
	err := fmt.Errorf("resolve: %w", ClientsExceeded(10, startPlan()))

	var qe *ExceededError
	assert.True(t, errors.As(err, &qe))
	assert.Equal(t, ResourceClients, qe.Resource)
	assert.Equal(t, 10, qe.Current)
	assert.Equal(t, 10, qe.Limit)
	assert.Equal(t, 0, qe.Remaining)
	assert.Contains(t, qe.Error(), "10 of 10")

	inactive := ClientsExceeded(1, PlanTier{MaxClients: 10})
	assert.Contains(t, inactive.Error(), "not active")
}
