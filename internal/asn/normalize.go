package asn

import (
	"net/netip"

	"webfigscan/internal/platform/errors"
)

// normalizePrefixes parses provider prefix strings. IPv6 entries are
// skipped; anything that is not a CIDR makes the whole response malformed.
func normalizePrefixes(provider string, raw []string) ([]netip.Prefix, error) {
	out := make([]netip.Prefix, 0, len(raw))
	for _, s := range raw {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidResponse, "%s: bad prefix %q", provider, s)
		}
		if !p.Addr().Is4() {
			continue
		}
		out = append(out, p.Masked())
	}
	return out, nil
}

func malformed(provider, reason string) error {
	return errors.Wrapf(errors.ErrInvalidResponse, "%s: %s", provider, reason)
}
