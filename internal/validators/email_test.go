package validators

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmailDomainValid_Malformed(t *testing.T) {
	for _, email := range []string{"", "semarroba", "ana@"} {
		assert.False(t, IsEmailDomainValid(context.Background(), email), email)
	}
}
