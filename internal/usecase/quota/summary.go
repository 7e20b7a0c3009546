package quota

import (
	"context"

	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
)

type ClientCounter interface {
	Count(ctx context.Context, tenantID uint) (int, error)
}

// Summary é o uso atual do tenant contra o plano.
type Summary struct {
	Plan             domain.PlanTier `json:"plan"`
	Clients          int             `json:"clients"`
	RemainingClients int             `json:"remaining_clients"`
	CanAddClient     bool            `json:"can_add_client"`
}

type GetQuotaSummary struct {
	clients ClientCounter
	plans   domain.PlanProvider
}

func NewGetQuotaSummary(clients ClientCounter, plans domain.PlanProvider) *GetQuotaSummary {
	return &GetQuotaSummary{clients: clients, plans: plans}
}

func (uc *GetQuotaSummary) Execute(ctx context.Context, tenantID uint) (*Summary, error) {
	plan, err := uc.plans.GetActivePlan(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	n, err := uc.clients.Count(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	remaining := plan.MaxClients - n
	if remaining < 0 {
		remaining = 0
	}

	return &Summary{
		Plan:             plan,
		Clients:          n,
		RemainingClients: remaining,
		CanAddClient:     domain.CanAddClient(n, plan),
	}, nil
}
