package validators

import (
	"context"
	"net"
	"strings"
	"time"

	"github.com/BruksfildServices01/estate-viewings/internal/httperr"
)

const CodeInvalidEmailDomain = "invalid_email_domain"

const lookupTimeout = 3 * time.Second

// DomainResolver is the part of *net.Resolver used to check email domains.
type DomainResolver interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
	LookupIPAddr(ctx context.Context, host string) ([]net.IPAddr, error)
}

// CheckEmailDomain accepts an address whose domain has an MX record or, as
// mail servers fall back to, an address record.
func CheckEmailDomain(ctx context.Context, email string) error {
	return CheckEmailDomainWith(ctx, net.DefaultResolver, email)
}

func CheckEmailDomainWith(ctx context.Context, r DomainResolver, email string) error {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return httperr.ErrBusinessf(CodeInvalidEmailDomain, "email %q has no domain", email)
	}
	domain := strings.TrimSuffix(email[at+1:], ".")

	ctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()

	if mx, err := r.LookupMX(ctx, domain); err == nil && len(mx) > 0 {
		return nil
	}
	if ips, err := r.LookupIPAddr(ctx, domain); err == nil && len(ips) > 0 {
		return nil
	}

	return httperr.ErrBusinessf(CodeInvalidEmailDomain, "email domain %s does not accept mail", domain)
}
