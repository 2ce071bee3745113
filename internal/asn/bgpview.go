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

// BGPViewBaseURL es el endpoint público de BGPView.
const BGPViewBaseURL = "https://api.bgpview.io"

func init() {
	registry.Global().MustRegister("bgpview", func(cfg ports.ProviderConfig, logger logx.Logger) (ports.PrefixProvider, error) {
		return NewBGPView(cfg, logger)
	}, ports.ProviderMetadata{
		Name:        "bgpview",
		Description: "BGPView ASN prefixes endpoint",
		Homepage:    "https://bgpview.docs.apiary.io",
	})
}

// BGPView consulta /asn/{n}/prefixes.
type BGPView struct {
	baseURL string
	client  *httpclient.Client
	logger  logx.Logger
}

// NewBGPView crea el proveedor; BaseURL vacío usa el endpoint público.
func NewBGPView(cfg ports.ProviderConfig, logger logx.Logger) (*BGPView, error) {
	if logger == nil {
		logger = logx.Nop()
	}
	client, err := newClient(cfg, logger)
	if err != nil {
		return nil, err
	}
	base := cfg.BaseURL
	if base == "" {
		base = BGPViewBaseURL
	}
	return &BGPView{
		baseURL: strings.TrimRight(base, "/"),
		client:  client,
		logger:  logger.With("provider", "bgpview"),
	}, nil
}

// Name implementa ports.PrefixProvider.
func (b *BGPView) Name() string { return "bgpview" }

type bgpviewResponse struct {
	Status string `json:"status"`
	Data   struct {
		IPv4Prefixes *[]struct {
			Prefix string `json:"prefix"`
		} `json:"ipv4_prefixes"`
	} `json:"data"`
}

// Prefixes implementa ports.PrefixProvider.
func (b *BGPView) Prefixes(ctx context.Context, asn uint32) ([]netip.Prefix, error) {
	url := fmt.Sprintf("%s/asn/%d/prefixes", b.baseURL, asn)

	body, err := b.client.FetchJSON(ctx, url)
	if err != nil {
		return nil, err
	}

	var resp bgpviewResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, malformed(b.Name(), "decode json: "+err.Error())
	}
	if resp.Status != "ok" {
		return nil, malformed(b.Name(), fmt.Sprintf("status %q", resp.Status))
	}
	if resp.Data.IPv4Prefixes == nil {
		return nil, malformed(b.Name(), "missing data.ipv4_prefixes")
	}

	raw := make([]string, 0, len(*resp.Data.IPv4Prefixes))
	for _, p := range *resp.Data.IPv4Prefixes {
		raw = append(raw, p.Prefix)
	}

	prefixes, err := normalizePrefixes(b.Name(), raw)
	if err != nil {
		return nil, err
	}
	b.logger.Debug("prefixes fetched", "asn", asn, "ipv4", len(prefixes))
	return prefixes, nil
}
