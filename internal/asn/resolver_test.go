package asn

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/errors"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/testutil"
)

// providerServer sirve body con status y cuenta las peticiones.
func providerServer(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func newResolver(t *testing.T, primaryURL, fallbackURL string) *Resolver {
	t.Helper()
	cfg := func(u string) ports.ProviderConfig {
		return ports.ProviderConfig{BaseURL: u, Timeout: 2 * time.Second}
	}
	primary, err := NewRIPEstat(cfg(primaryURL), logx.Nop())
	testutil.RequireNoError(t, err, "primary")
	fallback, err := NewBGPView(cfg(fallbackURL), logx.Nop())
	testutil.RequireNoError(t, err, "fallback")

	r, err := NewResolver([]ports.PrefixProvider{primary, fallback}, logx.Nop())
	testutil.RequireNoError(t, err, "resolver")
	return r
}

const ripeOK = `{"status":"ok","data":{"prefixes":[
	{"prefix":"203.0.113.0/24"},
	{"prefix":"2001:db8::/32"},
	{"prefix":"198.51.100.0/24"},
	{"prefix":"203.0.113.0/24"}
]}}`

const bgpviewOK = `{"status":"ok","data":{"ipv4_prefixes":[
	{"prefix":"192.0.2.0/24"},
	{"prefix":"203.0.113.0/24"}
]}}`

func TestResolve_PrimarySucceeds(t *testing.T) {
	primary, pHits := providerServer(t, http.StatusOK, ripeOK)
	fallback, fHits := providerServer(t, http.StatusOK, bgpviewOK)
	r := newResolver(t, primary.URL, fallback.URL)

	res, err := r.Resolve(context.Background(), 64500)
	testutil.RequireNoError(t, err, "resolve")

	testutil.AssertEqual(t, res.Provider, "ripestat", "primary answered")
	testutil.AssertEqual(t, len(res.Prefixes), 2, "ipv6 dropped, duplicate collapsed")
	testutil.AssertEqual(t, atomic.LoadInt32(pHits), int32(1), "primary once")
	testutil.AssertEqual(t, atomic.LoadInt32(fHits), int32(0), "fallback never called")
}

func TestResolve_FallbackOnNonSuccessStatus(t *testing.T) {
	primary, pHits := providerServer(t, http.StatusInternalServerError, `oops`)
	fallback, fHits := providerServer(t, http.StatusOK, bgpviewOK)
	r := newResolver(t, primary.URL, fallback.URL)

	res, err := r.Resolve(context.Background(), 64500)
	testutil.RequireNoError(t, err, "fallback should answer")

	testutil.AssertEqual(t, res.Provider, "bgpview", "fallback answered")
	testutil.AssertEqual(t, len(res.Prefixes), 2, "fallback prefixes")
	testutil.AssertEqual(t, len(res.Failed), 1, "primary failure recorded")
	testutil.AssertEqual(t, atomic.LoadInt32(pHits), int32(1), "primary once")
	testutil.AssertEqual(t, atomic.LoadInt32(fHits), int32(1), "fallback exactly once")
}

func TestResolve_FallbackOnMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>maintenance</html>`},
		{"status error", `{"status":"error","data":{}}`},
		{"missing list", `{"status":"ok","data":{}}`},
		{"bad cidr", `{"status":"ok","data":{"prefixes":[{"prefix":"300.1.1.0/24"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary, _ := providerServer(t, http.StatusOK, tt.body)
			fallback, fHits := providerServer(t, http.StatusOK, bgpviewOK)
			r := newResolver(t, primary.URL, fallback.URL)

			res, err := r.Resolve(context.Background(), 64500)
			testutil.RequireNoError(t, err, "fallback should answer")
			testutil.AssertEqual(t, res.Provider, "bgpview", "fallback answered")
			testutil.AssertEqual(t, atomic.LoadInt32(fHits), int32(1), "fallback exactly once")
		})
	}
}

func TestResolve_BothFail(t *testing.T) {
	primary, _ := providerServer(t, http.StatusServiceUnavailable, ``)
	fallback, _ := providerServer(t, http.StatusOK, `{"status":"ok"}`)
	r := newResolver(t, primary.URL, fallback.URL)

	res, err := r.Resolve(context.Background(), 64500)

	testutil.AssertTrue(t, errors.Is(err, domain.ErrAsnResolution), "AsnResolutionError")
	testutil.AssertTrue(t, errors.IsInvalidResponse(err), "last error is the fallback's")
	testutil.AssertEqual(t, len(res.Prefixes), 0, "no prefixes returned")

	var resErr *domain.AsnResolutionError
	testutil.AssertTrue(t, errors.As(err, &resErr), "typed error")
	testutil.AssertEqual(t, resErr.ASN, uint32(64500), "asn carried")
	testutil.AssertEqual(t, resErr.Provider, "bgpview", "last provider carried")
}

func TestResolve_EmptyIsSuccess(t *testing.T) {
	primary, _ := providerServer(t, http.StatusOK, `{"status":"ok","data":{"prefixes":[]}}`)
	fallback, fHits := providerServer(t, http.StatusOK, bgpviewOK)
	r := newResolver(t, primary.URL, fallback.URL)

	res, err := r.Resolve(context.Background(), 64500)
	testutil.RequireNoError(t, err, "zero prefixes is a success")
	testutil.AssertEqual(t, len(res.Prefixes), 0, "zero prefixes")
	testutil.AssertEqual(t, atomic.LoadInt32(fHits), int32(0), "no fallback on empty success")
}

func TestResolve_TransportFailure(t *testing.T) {
	dead := httptest.NewServer(http.NotFoundHandler())
	deadURL := dead.URL
	dead.Close()

	fallback, _ := providerServer(t, http.StatusOK, bgpviewOK)
	r := newResolver(t, deadURL, fallback.URL)

	res, err := r.Resolve(context.Background(), 64500)
	testutil.RequireNoError(t, err, "fallback covers a dead primary")
	testutil.AssertEqual(t, res.Provider, "bgpview", "fallback answered")
}

func TestResolve_RequestPaths(t *testing.T) {
	var mu sync.Mutex
	var ripePath, bgpPath string
	ripe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ripePath = r.URL.RequestURI()
		mu.Unlock()
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ripe.Close()
	bgp := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		bgpPath = r.URL.Path
		mu.Unlock()
		fmt.Fprint(w, bgpviewOK)
	}))
	defer bgp.Close()

	r := newResolver(t, ripe.URL, bgp.URL)
	_, err := r.Resolve(context.Background(), 13335)
	testutil.RequireNoError(t, err, "resolve")

	mu.Lock()
	defer mu.Unlock()
	testutil.AssertEqual(t, ripePath, "/data/announced-prefixes/data.json?resource=AS13335", "ripestat query")
	testutil.AssertEqual(t, bgpPath, "/asn/13335/prefixes", "bgpview path")
}

func TestDedupe_AcrossProviders(t *testing.T) {
	in := []netip.Prefix{
		netip.MustParsePrefix("203.0.113.0/24"),
		netip.MustParsePrefix("203.0.113.7/24"),
		netip.MustParsePrefix("10.0.0.0/8"),
		netip.MustParsePrefix("203.0.113.0/25"),
	}
	out := Dedupe(in)

	testutil.AssertEqual(t, len(out), 3, "203.0.113.0/24 kept once")
	testutil.AssertEqual(t, out[0].String(), "10.0.0.0/8", "sorted by address")
	testutil.AssertEqual(t, out[1].String(), "203.0.113.0/24", "shorter prefix first")
	testutil.AssertEqual(t, out[2].String(), "203.0.113.0/25", "longer prefix second")
}

func TestNewResolver_NoProviders(t *testing.T) {
	_, err := NewResolver(nil, logx.Nop())
	testutil.AssertTrue(t, errors.Is(err, domain.ErrNoProviders), "empty provider list")
}

func TestRegistryHasBothProviders(t *testing.T) {
	providers, err := buildDefault(t)
	testutil.RequireNoError(t, err, "build from registry")
	testutil.AssertEqual(t, providers[0].Name(), "ripestat", "primary")
	testutil.AssertEqual(t, providers[1].Name(), "bgpview", "fallback")
}
