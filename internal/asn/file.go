package asn

import (
	"net/netip"
	"os"

	"webfigscan/internal/core/domain"
)

// LoadPrefixFile reads one IPv4 CIDR per line and returns the deduplicated
// prefixes. Blank lines and # comments are ignored. An unreadable file is a
// specification error like a malformed line.
func LoadPrefixFile(path string) ([]netip.Prefix, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &domain.SpecParseError{Field: "asn-file", Input: path, Reason: err.Error()}
	}
	defer f.Close()

	prefixes, err := domain.ParsePrefixList(f)
	if err != nil {
		return nil, err
	}
	return Dedupe(prefixes), nil
}
