package validators

import (
	"context"
	"net"
	"strings"
	"time"
)

const lookupTimeout = 3 * time.Second

// IsEmailDomainValid aceita o domínio com MX ou, na falta dele, com A/AAAA.
func IsEmailDomainValid(ctx context.Context, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := strings.ToLower(strings.TrimSpace(email[at+1:]))

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if mx, err := net.DefaultResolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := net.DefaultResolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
