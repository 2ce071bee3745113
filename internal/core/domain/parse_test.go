// internal/core/domain/parse_test.go
package domain

import (
	"errors"
	"strings"
	"testing"

	"webfigscan/internal/testutil"
)

func TestParseTarget(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantKind TargetKind
		wantErr  bool
	}{
		{"single", "192.168.1.1", TargetSingle, false},
		{"cidr", "144.48.115.0/24", TargetCIDR, false},
		{"range", "10.0.0.1-10.0.0.20", TargetRange, false},
		{"reversed range", "10.0.0.20-10.0.0.1", 0, true},
		{"hostname", "router.local", 0, true},
		{"ipv6", "2001:db8::1", 0, true},
		{"bad cidr", "10.0.0.0/40", 0, true},
		{"empty", "  ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseTarget(tt.input)
			if tt.wantErr {
				testutil.AssertTrue(t, errors.Is(err, ErrSpecParse), "expected SpecParseError")
				var spe *SpecParseError
				testutil.AssertTrue(t, errors.As(err, &spe), "error should be *SpecParseError")
				return
			}
			testutil.AssertNoError(t, err, "parse target")
			testutil.AssertEqual(t, spec.Kind, tt.wantKind, "target kind")
		})
	}
}

func TestParseASN(t *testing.T) {
	for _, in := range []string{"13335", "AS13335", "as13335"} {
		spec, err := ParseASN(in)
		testutil.AssertNoError(t, err, in)
		testutil.AssertEqual(t, spec.ASN, uint32(13335), "normalized asn")
	}

	_, err := ParseASN("cloudflare")
	testutil.AssertTrue(t, errors.Is(err, ErrSpecParse), "non numeric asn")
}

func TestParsePorts(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []uint16
		wantErr bool
	}{
		{"list keeps order", "8291,80,443", []uint16{8291, 80, 443}, false},
		{"range", "8080-8083", []uint16{8080, 8081, 8082, 8083}, false},
		{"mixed", "80, 8080-8081", []uint16{80, 8080, 8081}, false},
		{"duplicate", "80,80", nil, true},
		{"duplicate via range", "80,79-81", nil, true},
		{"zero", "0", nil, true},
		{"too big", "65536", nil, true},
		{"reversed range", "90-80", nil, true},
		{"empty token", "80,,443", nil, true},
		{"empty", "", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParsePorts(tt.input)
			if tt.wantErr {
				testutil.AssertTrue(t, errors.Is(err, ErrSpecParse), "expected SpecParseError")
				return
			}
			testutil.AssertNoError(t, err, "parse ports")
			if len(spec.Ports) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, spec.Ports)
			}
			for i := range tt.want {
				testutil.AssertEqual(t, spec.Ports[i], tt.want[i], "port order")
			}
		})
	}
}

func TestParsePrefixList(t *testing.T) {
	in := strings.NewReader(`
# announced by AS64500
203.0.113.0/24
198.51.100.7/30   # host bits get masked

192.0.2.0/32
`)
	got, err := ParsePrefixList(in)
	testutil.AssertNoError(t, err, "parse list")
	if len(got) != 3 {
		t.Fatalf("expected 3 prefixes, got %d", len(got))
	}
	testutil.AssertEqual(t, got[1].String(), "198.51.100.4/30", "masked prefix")

	_, err = ParsePrefixList(strings.NewReader("203.0.113.0/24\nnot-a-prefix\n"))
	testutil.AssertTrue(t, errors.Is(err, ErrSpecParse), "bad line rejected")
	testutil.AssertContains(t, err.Error(), "line 2", "error names the line")
}
