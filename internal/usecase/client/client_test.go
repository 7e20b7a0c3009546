package client

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitororigens/glowapp-site-sub000/internal/audit"
	domain "github.com/vitororigens/glowapp-site-sub000/internal/domain/client"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

type resolverStub struct {
	res *domain.Result
}

func (r resolverStub) ResolveOrCreate(context.Context, uint, domain.Input) (*domain.Result, error) {
	return r.res, nil
}

type sinkStub struct {
	mu      sync.Mutex
	actions []string
}

func (s *sinkStub) Log(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, ev.Action)
	return nil
}

func TestResolveClient_Audit(t *testing.T) {
	c := &models.Client{ID: "c1", Name: "Ana"}

	tests := []struct {
		name string
		res  *domain.Result
		want []string
	}{
		{"created", &domain.Result{Client: c, Created: true}, []string{"client_created"}},
		{"backfilled", &domain.Result{Client: c, MatchedBy: domain.FieldPhone, Backfilled: []string{"cpf"}}, []string{"client_backfilled"}},
		{"plain match", &domain.Result{Client: c, MatchedBy: domain.FieldName}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &sinkStub{}
			d := audit.NewDispatcher(sink, nil)

			res, err := NewResolveClient(resolverStub{tt.res}, d).Execute(context.Background(), ResolveInput{TenantID: 1, UserID: 2})
			require.NoError(t, err)
			assert.Equal(t, "c1", res.Client.ID)

			d.Close()
			assert.Equal(t, tt.want, sink.actions)
		})
	}
}

type searcherStub struct {
	query string
	limit int
}

func (s *searcherStub) Search(_ context.Context, _ uint, query string, limit int) ([]models.Client, error) {
	s.query, s.limit = query, limit
	return nil, nil
}

func TestSearchClients_Limit(t *testing.T) {
	repo := &searcherStub{}
	uc := NewSearchClients(repo)

	_, err := uc.Execute(context.Background(), 1, "  ana ", 0)
	require.NoError(t, err)
	assert.Equal(t, "ana", repo.query)
	assert.Equal(t, defaultSearchLimit, repo.limit)

	_, err = uc.Execute(context.Background(), 1, "", 1000)
	require.NoError(t, err)
	assert.Equal(t, maxSearchLimit, repo.limit)
}
