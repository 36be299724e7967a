package pagemark

import "context"

// RiskLevel classifies an indicator's threat level.
type RiskLevel string

// Risk levels returned by threat-intelligence lookups. A failed or
// unavailable lookup is reported as RiskUnknown, never as a denial.
const (
	RiskSafe       RiskLevel = "safe"
	RiskSuspicious RiskLevel = "suspicious"
	RiskMalicious  RiskLevel = "malicious"
	RiskUnknown    RiskLevel = "unknown"
)

// ThreatReport holds the result of a threat-intelligence lookup for a
// single indicator (URL, domain, or IP).
type ThreatReport struct {
	Indicator  string    `json:"indicator"`
	Risk       RiskLevel `json:"risk_level"`
	Confidence float64   `json:"confidence"` // in [0, 1]
	Source     string    `json:"source"`
}

// ThreatAnalyzer looks up threat intelligence for an indicator.
// It is a best-effort external oracle: callers bound the call with a
// context deadline and must never treat analyzer failure as a security
// denial.
type ThreatAnalyzer interface {
	Analyze(ctx context.Context, indicator string) (*ThreatReport, error)
}
