package client

import (
	"context"
	"strings"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type Resolver interface {
	ResolveOrCreate(ctx context.Context, tenantID uint, in domain.Input) (*domain.Result, error)
}

type Searcher interface {
	Search(ctx context.Context, tenantID uint, query string, limit int) ([]models.Client, error)
}

// ======================================================
// RESOLVE
// ======================================================

type ResolveInput struct {
	TenantID uint
	UserID   uint
	Client   domain.Input
}

type ResolveClient struct {
	resolver Resolver
	audit    *audit.Dispatcher
}

func NewResolveClient(resolver Resolver, audit *audit.Dispatcher) *ResolveClient {
	return &ResolveClient{resolver: resolver, audit: audit}
}

func (uc *ResolveClient) Execute(ctx context.Context, in ResolveInput) (*domain.Result, error) {
	res, err := uc.resolver.ResolveOrCreate(ctx, in.TenantID, in.Client)
	if err != nil {
		return nil, err
	}

	userID := in.UserID
	switch {
	case res.Created:
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   &userID,
			Action:   "client_created",
			Entity:   "client",
			EntityID: res.Client.ID,
		})
	case len(res.Backfilled) > 0:
		uc.audit.Dispatch(audit.Event{
			TenantID: in.TenantID,
			UserID:   &userID,
			Action:   "client_backfilled",
			Entity:   "client",
			EntityID: res.Client.ID,
			Metadata: map[string]any{
				"matched_by": res.MatchedBy,
				"fields":     res.Backfilled,
			},
		})
	}

	return res, nil
}

// ======================================================
// SEARCH
// ======================================================

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

type SearchClients struct {
	repo Searcher
}

func NewSearchClients(repo Searcher) *SearchClients {
	return &SearchClients{repo: repo}
}

func (uc *SearchClients) Execute(ctx context.Context, tenantID uint, query string, limit int) ([]models.Client, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return uc.repo.Search(ctx, tenantID, strings.TrimSpace(query), limit)
}
