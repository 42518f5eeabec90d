package validators

import (
	"context"
	"net"
	"net/mail"
	"strings"
	"time"
)

// Resolver é o subconjunto de *net.Resolver usado na checagem de domínio.
type Resolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// EmailDomainChecker aceita o e-mail quando o domínio tem MX ou, na falta,
// algum endereço IP.
type EmailDomainChecker struct {
	Resolver Resolver
	Timeout  time.Duration
}

func NewEmailDomainChecker(r Resolver) *EmailDomainChecker {
	return &EmailDomainChecker{Resolver: r, Timeout: 3 * time.Second}
}

// EmailDomain devolve o domínio em minúsculas, ou "" para e-mail malformado.
func EmailDomain(email string) string {
	addr, err := mail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Name != "" {
		return ""
	}

	at := strings.LastIndex(addr.Address, "@")
	if at < 0 || at == len(addr.Address)-1 {
		return ""
	}
	domain := strings.ToLower(addr.Address[at+1:])
	if !strings.Contains(domain, ".") {
		return ""
	}
	return domain
}

func (c *EmailDomainChecker) Valid(ctx context.Context, email string) bool {
	domain := EmailDomain(email)
	if domain == "" {
		return false
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	if mx, err := c.Resolver.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := c.Resolver.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
