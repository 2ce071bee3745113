// internal/platform/validator/validator.go
package validator

import (
	"net/netip"
	"net/url"
	"strconv"
	"strings"
)

// Address validators

// ParseIPv4 parsea una dirección IPv4 en notación decimal con puntos.
// Rechaza IPv6, incluidas las IPv4-mapped (::ffff:a.b.c.d) y las zonas.
func ParseIPv4(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil || !addr.Is4() {
		return netip.Addr{}, false
	}
	return addr, true
}

// IsIPv4 verifica si un string es una dirección IPv4 válida.
func IsIPv4(s string) bool {
	_, ok := ParseIPv4(s)
	return ok
}

// ParseCIDR4 parsea un bloque IPv4 "a.b.c.d/n" y lo devuelve enmascarado.
func ParseCIDR4(s string) (netip.Prefix, bool) {
	p, err := netip.ParsePrefix(strings.TrimSpace(s))
	if err != nil || !p.Addr().Is4() {
		return netip.Prefix{}, false
	}
	return p.Masked(), true
}

// IsCIDR4 verifica si un string es un bloque CIDR IPv4.
func IsCIDR4(s string) bool {
	_, ok := ParseCIDR4(s)
	return ok
}

// ParseIPv4Range parsea "inicio-fin". Ambos extremos deben ser IPv4 y
// inicio <= fin.
func ParseIPv4Range(s string) (netip.Addr, netip.Addr, bool) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return netip.Addr{}, netip.Addr{}, false
	}
	start, ok := ParseIPv4(a)
	if !ok {
		return netip.Addr{}, netip.Addr{}, false
	}
	end, ok := ParseIPv4(b)
	if !ok {
		return netip.Addr{}, netip.Addr{}, false
	}
	if end.Less(start) {
		return netip.Addr{}, netip.Addr{}, false
	}
	return start, end, true
}

// ASN validators

// NormalizeASN acepta "13335", "AS13335" o "as13335" y devuelve el número.
func NormalizeASN(s string) (uint32, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.EqualFold(s[:2], "as") {
		s = s[2:]
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// IsASN verifica si un string es un identificador de ASN aceptable.
func IsASN(s string) bool {
	_, ok := NormalizeASN(s)
	return ok
}

// Port validators

// ParsePort parsea un puerto en el rango [1-65535].
func ParsePort(s string) (uint16, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return 0, false
	}
	return uint16(n), true
}

// IsPort valida que un puerto esté en el rango válido [1-65535].
func IsPort(s string) bool {
	_, ok := ParsePort(s)
	return ok
}

// URL validators

// IsProxyURL verifica que un proxy tenga esquema soportado y host.
func IsProxyURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil || u.Host == "" {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "socks5", "socks5h", "http", "https":
		return true
	default:
		return false
	}
}

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
