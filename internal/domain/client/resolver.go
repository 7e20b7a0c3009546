// Package client maps an informally typed client (name plus optional cpf,
// phone and email) to one canonical record per tenant.
package client

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/vitororigens/glowapp-site-sub000/internal/domain/quota"
	"github.com/vitororigens/glowapp-site-sub000/internal/httperr"
	"github.com/vitororigens/glowapp-site-sub000/internal/models"
	"github.com/vitororigens/glowapp-site-sub000/internal/validators"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type Input struct {
	Name  string
	CPF   string
	Phone string
	Email string
}

// Normalized returns the input with every key in its stored form.
func (in Input) Normalized() Input {
	return Input{
		Name:  validators.NormalizeName(in.Name),
		CPF:   validators.NormalizeCPF(in.CPF),
		Phone: validators.NormalizePhone(in.Phone),
		Email: validators.NormalizeEmail(in.Email),
	}
}

type Result struct {
	Client     *models.Client
	Created    bool
	MatchedBy  Field
	Backfilled []string
}

// ======================================================
// RESOLVER
// ======================================================

type Resolver struct {
	repo   Repository
	plans  quota.PlanProvider
	logger *zap.Logger
	now    func() time.Time
}

func NewResolver(
	repo Repository,
	plans quota.PlanProvider,
	logger *zap.Logger,
) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		repo:   repo,
		plans:  plans,
		logger: logger,
		now:    time.Now,
	}
}

// ResolveOrCreate finds the tenant's client by cpf, then phone, then name.
// A match gets its empty cpf/phone/email filled from the input. Without a
// match a client is created if the plan allows one more.
//
// Errors: httperr.ValidationError for a malformed cpf or missing name,
// *quota.ExceededError when the client ceiling is reached, *StorageError
// for store failures.
func (r *Resolver) ResolveOrCreate(
	ctx context.Context,
	tenantID uint,
	in Input,
) (*Result, error) {

	in = in.Normalized()

	if in.CPF != "" && !validators.IsCPFShape(in.CPF) {
		return nil, httperr.ErrValidation("cpf", "invalid_cpf")
	}

	// --------------------------------------------------
	// 1️⃣ Busca por prioridade: cpf > telefone > nome
	// --------------------------------------------------
	for _, key := range []struct {
		field Field
		value string
	}{
		{FieldCPF, in.CPF},
		{FieldPhone, in.Phone},
		{FieldName, in.Name},
	} {
		if key.value == "" {
			continue
		}

		// Um CPF diferente já gravado indica outra pessoa com o mesmo
		// telefone ou nome.
		found, err := r.repo.FindByField(ctx, tenantID, key.field, key.value, in.CPF)
		if err != nil {
			return nil, storageErr("find_by_"+string(key.field), err)
		}
		if found == nil {
			continue
		}

		return r.backfill(ctx, tenantID, found, key.field, in)
	}

	// --------------------------------------------------
	// 2️⃣ Criação sujeita à cota
	// --------------------------------------------------
	if in.Name == "" {
		return nil, httperr.ErrValidation("name", "required")
	}

	return r.create(ctx, tenantID, in)
}

func (r *Resolver) backfill(
	ctx context.Context,
	tenantID uint,
	found *models.Client,
	matchedBy Field,
	in Input,
) (*Result, error) {

	fields := map[string]any{}
	var filled []string

	if found.CPF == "" && in.CPF != "" {
		fields["cpf"] = in.CPF
		found.CPF = in.CPF
		filled = append(filled, "cpf")
	}
	if found.Phone == "" && in.Phone != "" {
		fields["phone"] = in.Phone
		found.Phone = in.Phone
		filled = append(filled, "phone")
	}
	if found.Email == "" && in.Email != "" {
		fields["email"] = in.Email
		found.Email = in.Email
		filled = append(filled, "email")
	}

	if len(fields) > 0 {
		if err := r.repo.Update(ctx, tenantID, found.ID, fields); err != nil {
			return nil, storageErr("update", err)
		}
		r.logger.Debug("client backfilled",
			zap.Uint("tenant_id", tenantID),
			zap.String("client_id", found.ID),
			zap.Strings("fields", filled),
		)
	}

	return &Result{
		Client:     found,
		MatchedBy:  matchedBy,
		Backfilled: filled,
	}, nil
}

func (r *Resolver) create(
	ctx context.Context,
	tenantID uint,
	in Input,
) (*Result, error) {

	plan, err := r.plans.GetActivePlan(ctx, tenantID)
	if err != nil {
		return nil, storageErr("get_plan", err)
	}

	// Checagem rápida antes da transação.
	current, err := r.repo.Count(ctx, tenantID)
	if err != nil {
		return nil, storageErr("count", err)
	}
	if !quota.CanAddClient(current, plan) {
		return nil, quota.ClientsExceeded(current, plan)
	}

	now := r.now()
	c := &models.Client{
		TenantID:  tenantID,
		Name:      in.Name,
		CPF:       in.CPF,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	created, current, err := r.repo.CreateWithinQuota(ctx, c, plan.MaxClients)
	if err != nil {
		return nil, storageErr("create", err)
	}
	if !created {
		return nil, quota.ClientsExceeded(current, plan)
	}

	r.logger.Info("client created",
		zap.Uint("tenant_id", tenantID),
		zap.String("client_id", c.ID),
	)

	return &Result{Client: c, Created: true}, nil
}
