// cmd/webfigscan/main_test.go
package main

import (
	"context"
	"testing"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/testutil"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"completed", nil, exitOK},
		{"interrupted", errors.Wrap(context.Canceled, "scan"), exitInterrupted},
		{"spec", &domain.SpecParseError{Field: "asn-file", Reason: "bad line"}, exitSpec},
		{"asn", &domain.AsnResolutionError{ASN: 1, Provider: "bgpview", Err: errors.ErrServiceUnavailable}, exitFailure},
		{"no providers", domain.ErrNoProviders, exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertEqual(t, exitCode(tt.err), tt.want, "exit code")
		})
	}
}
