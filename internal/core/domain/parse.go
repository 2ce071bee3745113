// internal/core/domain/parse.go
package domain

import (
	"bufio"
	"io"
	"net/netip"
	"strconv"
	"strings"

	"webfigscan/internal/platform/validator"
)

// ParseTarget interpreta el argumento posicional: CIDR, rango o dirección.
func ParseTarget(token string) (TargetSpec, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return TargetSpec{}, specErr("target", token, "empty target")
	}
	switch {
	case strings.Contains(token, "/"):
		return ParseCIDR(token)
	case strings.Contains(token, "-"):
		return ParseRange(token)
	default:
		addr, ok := validator.ParseIPv4(token)
		if !ok {
			return TargetSpec{}, specErr("target", token, "not an IPv4 address, CIDR or range")
		}
		return SingleTarget(addr), nil
	}
}

// ParseCIDR interpreta un bloque IPv4.
func ParseCIDR(s string) (TargetSpec, error) {
	p, ok := validator.ParseCIDR4(s)
	if !ok {
		return TargetSpec{}, specErr("cidr", s, "expected a.b.c.d/0-32")
	}
	return CIDRTarget(p), nil
}

// ParseRange interpreta "inicio-fin". inicio > fin es un error.
func ParseRange(s string) (TargetSpec, error) {
	a, b, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return TargetSpec{}, specErr("ip-range", s, "expected start-end")
	}
	start, ok := validator.ParseIPv4(a)
	if !ok {
		return TargetSpec{}, specErr("ip-range", s, "start is not an IPv4 address")
	}
	end, ok := validator.ParseIPv4(b)
	if !ok {
		return TargetSpec{}, specErr("ip-range", s, "end is not an IPv4 address")
	}
	return RangeTarget(start, end)
}

// ParseASN acepta la forma numérica y la forma con prefijo "AS".
func ParseASN(s string) (TargetSpec, error) {
	n, ok := validator.NormalizeASN(s)
	if !ok {
		return TargetSpec{}, specErr("asn", s, "expected a number or AS<number>")
	}
	return ASNTarget(n), nil
}

// ParsePorts interpreta "80,443,8080-8090". Se conserva el orden de los
// tokens, los rangos se expanden ascendentes y los duplicados se rechazan.
func ParsePorts(csv string) (PortSpec, error) {
	csv = strings.TrimSpace(csv)
	if csv == "" {
		return PortSpec{}, specErr("ports", csv, "empty port list")
	}

	var ports []uint16
	for _, tok := range strings.Split(csv, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			return PortSpec{}, specErr("ports", csv, "empty token")
		}
		lo, hi, isRange := strings.Cut(tok, "-")
		if !isRange {
			p, ok := validator.ParsePort(tok)
			if !ok {
				return PortSpec{}, specErr("ports", tok, "port must be in 1..65535")
			}
			ports = append(ports, p)
			continue
		}
		start, ok1 := validator.ParsePort(lo)
		end, ok2 := validator.ParsePort(hi)
		if !ok1 || !ok2 {
			return PortSpec{}, specErr("ports", tok, "port must be in 1..65535")
		}
		if start > end {
			return PortSpec{}, specErr("ports", tok, "range start greater than end")
		}
		for p := int(start); p <= int(end); p++ {
			ports = append(ports, uint16(p))
		}
	}
	return ExplicitPorts(ports)
}

// ParsePrefixList lee un prefijo IPv4 por línea. Ignora líneas vacías y
// comentarios '#'. Una línea inválida aborta con SpecParseError.
func ParsePrefixList(r io.Reader) ([]netip.Prefix, error) {
	var out []netip.Prefix
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = strings.TrimSpace(text[:i])
		}
		if text == "" {
			continue
		}
		p, ok := validator.ParseCIDR4(text)
		if !ok {
			return nil, specErr("asn-file", text, "line "+strconv.Itoa(line)+" is not an IPv4 CIDR")
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, specErr("asn-file", "", err.Error())
	}
	return out, nil
}
