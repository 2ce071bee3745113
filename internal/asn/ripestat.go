package asn

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"strings"

	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/httpclient"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/platform/registry"
)

// RIPEstatBaseURL es el endpoint público de RIPEstat.
const RIPEstatBaseURL = "https://stat.ripe.net"

func init() {
	registry.Global().MustRegister("ripestat", func(cfg ports.ProviderConfig, logger logx.Logger) (ports.PrefixProvider, error) {
		return NewRIPEstat(cfg, logger)
	}, ports.ProviderMetadata{
		Name:        "ripestat",
		Description: "RIPEstat announced-prefixes data call",
		Homepage:    "https://stat.ripe.net/docs/data_api",
	})
}

// RIPEstat consulta el data call announced-prefixes.
type RIPEstat struct {
	baseURL string
	client  *httpclient.Client
	logger  logx.Logger
}

// NewRIPEstat crea el proveedor; BaseURL vacío usa el endpoint público.
func NewRIPEstat(cfg ports.ProviderConfig, logger logx.Logger) (*RIPEstat, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	base := cfg.BaseURL
	if base == "" {
		base = RIPEstatBaseURL
	}
	return &RIPEstat{
		baseURL: strings.TrimRight(base, "/"),
		client:  client,
		logger:  logger.With("provider", "ripestat"),
	}, nil
}

// Name implementa ports.PrefixProvider.
func (r *RIPEstat) Name() string { return "ripestat" }

type ripeResponse struct {
	Status string `json:"status"`
	Data   struct {
		// puntero para distinguir "sin prefijos" de "campo ausente"
		Prefixes *[]struct {
			Prefix string `json:"prefix"`
		} `json:"prefixes"`
	} `json:"data"`
}

// Prefixes implementa ports.PrefixProvider.
func (r *RIPEstat) Prefixes(ctx context.Context, asn uint32) ([]netip.Prefix, error) {
	url := fmt.Sprintf("%s/data/announced-prefixes/data.json?resource=AS%d", r.baseURL, asn)

	body, err := r.client.FetchJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp ripeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(r.Name(), "decode json: "+err.Error())
	}
	if resp.Status != "ok" {
		return nil, malformed(r.Name(), fmt.Sprintf("status %q", resp.Status))
	}
	if resp.Data.Prefixes == nil {
		return nil, malformed(r.Name(), "missing data.prefixes")
	}

	raw := make([]string, 0, len(*resp.Data.Prefixes))
	for _, p := range *resp.Data.Prefixes {
		raw = append(raw, p.Prefix)
	}

	prefixes, err := normalizePrefixes(r.Name(), raw)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("prefixes fetched", "asn", asn, "total", len(raw), "ipv4", len(prefixes))
	return prefixes, nil
}

func newClient(cfg ports.ProviderConfig, logger logx.Logger) (*httpclient.Client, error) {
	return httpclient.New(httpclient.Config{
		Timeout:   cfg.Timeout,
		UserAgent: cfg.UserAgent,
		ProxyURL:  cfg.ProxyURL,
	}, logger)
}
