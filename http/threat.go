package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pagemark/pagemark"
)

// DefaultThreatTimeout bounds a single threat-intelligence lookup. The
// lookup is advisory, so it gets a short leash.
const DefaultThreatTimeout = 5 * time.Second

// Ensure ThreatClient implements pagemark.ThreatAnalyzer at compile time.
var _ pagemark.ThreatAnalyzer = (*ThreatClient)(nil)

// ThreatClient queries a threat-intelligence endpoint over HTTP. The
// endpoint accepts a JSON body {"ioc": "<indicator>"} and responds with
// a JSON report. Any transport or decode failure is returned as an
// error for the caller to treat as advisory.
type ThreatClient struct {
	endpoint string
	client   *http.Client
}

// NewThreatClient creates a ThreatClient for the given endpoint.
// If client is nil a client with DefaultThreatTimeout is used.
func NewThreatClient(endpoint string, client *http.Client) *ThreatClient {
	if client == nil {
		client = &http.Client{Timeout: DefaultThreatTimeout}
	}
	return &ThreatClient{endpoint: endpoint, client: client}
}

// threatResponse is the endpoint's wire format.
type threatResponse struct {
	IOC         string  `json:"ioc"`
	ThreatLevel string  `json:"threat_level"`
	Confidence  float64 `json:"confidence"`
	Source      string  `json:"source"`
}

// Analyze looks up an indicator. Threat levels other than the known set
// are reported as RiskUnknown rather than rejected.
func (c *ThreatClient) Analyze(ctx context.Context, indicator string) (*pagemark.ThreatReport, error) {
	payload, err := json.Marshal(map[string]string{"ioc": indicator})
	if err != nil {
		return nil, fmt.Errorf("encoding threat query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating threat query: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, pagemark.Errorf(pagemark.EUNAVAILABLE, "threat intelligence lookup failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, pagemark.Errorf(pagemark.EUNAVAILABLE, "threat intelligence returned HTTP %d", resp.StatusCode)
	}

	var tr threatResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, pagemark.Errorf(pagemark.EINTERNAL, "decoding threat report: %v", err)
	}

	report := &pagemark.ThreatReport{
		Indicator:  indicator,
		Risk:       parseRiskLevel(tr.ThreatLevel),
		Confidence: tr.Confidence,
		Source:     tr.Source,
	}
	return report, nil
}

func parseRiskLevel(s string) pagemark.RiskLevel {
	switch pagemark.RiskLevel(s) {
	case pagemark.RiskSafe, pagemark.RiskSuspicious, pagemark.RiskMalicious:
		return pagemark.RiskLevel(s)
	default:
		return pagemark.RiskUnknown
	}
}
