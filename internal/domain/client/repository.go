package client

import (
	"context"

	"github.com/vitororigens/glowapp-site-sub000/internal/models"
)

// Field is an identity key, tried in the order cpf, phone, name.
type Field string

const (
	FieldCPF   Field = "cpf"
	FieldPhone Field = "phone"
	FieldName  Field = "name"
)

type Repository interface {
	// FindByField returns the oldest client whose field equals value, or
	// (nil, nil) when none does. A non-empty cpf skips clients that hold a
	// different cpf.
	FindByField(
		ctx context.Context,
		tenantID uint,
		field Field,
		value string,
		cpf string,
	) (*models.Client, error)

	Count(
		ctx context.Context,
		tenantID uint,
	) (int, error)

	// CreateWithinQuota inserts c only if the tenant has fewer than
	// maxClients clients, counting and inserting in one transaction.
	// Returns (false, n, nil) when the ceiling is already reached.
	CreateWithinQuota(
		ctx context.Context,
		c *models.Client,
		maxClients int,
	) (created bool, current int, err error)

	// Update writes only the given columns.
	Update(
		ctx context.Context,
		tenantID uint,
		id string,
		fields map[string]any,
	) error
}
