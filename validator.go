package pagemark

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

// DenialReason identifies which policy check rejected a URL.
type DenialReason string

// Denial reasons attached to security errors and verdicts.
const (
	DenialProtocolNotAllowed DenialReason = "protocol_not_allowed"
	DenialPrivateIPBlocked   DenialReason = "private_ip_blocked"
	DenialDomainBlocked      DenialReason = "domain_blocked"
	DenialThreatDetected     DenialReason = "threat_detected"
)

// Verdict is the result of validating a single URL. It is created once
// per request and never mutated after creation.
type Verdict struct {
	Allowed  bool          `json:"allowed"`
	Scheme   string        `json:"scheme"`
	Hostname string        `json:"hostname"`
	Denial   DenialReason  `json:"denial_reason,omitempty"`
	Threat   *ThreatReport `json:"threat_report,omitempty"`
}

// URLValidator gates URLs before any render work begins.
type URLValidator interface {
	// Validate checks a raw URL against the safety policy.
	// Returns EINVALID if the URL cannot be parsed into scheme+host,
	// or EFORBIDDEN for any policy denial. On denial the returned
	// verdict carries the denial reason.
	Validate(ctx context.Context, rawURL string) (*Verdict, error)
}

// allowedSchemes is the fixed protocol allow-set. Anything else is an
// SSRF vector (file:, gopher:, ftp:, javascript:) and is denied.
var allowedSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// ipv4Pattern matches a strict dotted-quad IPv4 literal with each octet
// in 0-255.
var ipv4Pattern = regexp.MustCompile(
	`^(?:(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}` +
		`(?:25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$`)

// privateIPPatterns classify a literal IPv4 address as private/reserved.
// The check runs on the literal hostname string: no DNS resolution
// happens in this layer, so a public name resolving to a private address
// at fetch time is not caught here. That residual gap belongs to the
// rendering layer.
var privateIPPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.(1[6-9]|2[0-9]|3[0-1])\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^0\.0\.0\.0$`),
}

// DefaultBlockedDomains is the stock deny-list: loopback names plus
// wildcard entries covering the private IPv4 ranges, so dotted notation
// that slips past the literal-IP check (e.g. a trailing-dot variant) is
// still rejected.
var DefaultBlockedDomains = []string{
	"localhost",
	"127.0.0.1",
	"0.0.0.0",
	"::1",
	"10.*",
	"172.16.*", "172.17.*", "172.18.*", "172.19.*",
	"172.20.*", "172.21.*", "172.22.*", "172.23.*",
	"172.24.*", "172.25.*", "172.26.*", "172.27.*",
	"172.28.*", "172.29.*", "172.30.*", "172.31.*",
	"192.168.*",
}

// Blocklist is an immutable hostname deny-list. Entries are either exact
// lowercase hostnames/IP literals or wildcard patterns where a single `*`
// matches any run of characters, anchored at both ends. Build it once at
// process start; it is never mutated in the request path.
type Blocklist struct {
	exact     map[string]bool
	wildcards []*regexp.Regexp
}

// NewBlocklist compiles a blocklist from deny rules. Invalid wildcard
// patterns are skipped rather than failing construction.
func NewBlocklist(rules []string) *Blocklist {
	bl := &Blocklist{exact: make(map[string]bool)}
	for _, rule := range rules {
		rule = strings.ToLower(strings.TrimSpace(rule))
		if rule == "" {
			continue
		}
		if !strings.Contains(rule, "*") {
			bl.exact[rule] = true
			continue
		}
		pattern := strings.ReplaceAll(regexp.QuoteMeta(rule), `\*`, ".*")
		re, err := regexp.Compile("^" + pattern + "$")
		if err != nil {
			continue
		}
		bl.wildcards = append(bl.wildcards, re)
	}
	return bl
}

// Blocked reports whether a hostname matches the deny-list.
// Matching is case-insensitive: exact rules first, then wildcards.
func (bl *Blocklist) Blocked(hostname string) bool {
	host := strings.ToLower(hostname)
	if bl.exact[host] {
		return true
	}
	for _, re := range bl.wildcards {
		if re.MatchString(host) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled deny rules.
func (bl *Blocklist) Len() int {
	return len(bl.exact) + len(bl.wildcards)
}

// Ensure SafetyValidator implements URLValidator at compile time.
var _ URLValidator = (*SafetyValidator)(nil)

// SafetyValidator validates URLs against the SSRF-defense policy:
// protocol allow-list, literal private IP detection, hostname deny-list,
// and a best-effort threat-intelligence consult, short-circuiting on the
// first failure.
type SafetyValidator struct {
	blocklist *Blocklist
	analyzer  ThreatAnalyzer
}

// NewSafetyValidator creates a SafetyValidator with the given blocklist.
// A nil blocklist uses DefaultBlockedDomains. The analyzer may be nil,
// in which case threat intelligence is skipped entirely.
func NewSafetyValidator(blocklist *Blocklist, analyzer ThreatAnalyzer) *SafetyValidator {
	if blocklist == nil {
		blocklist = NewBlocklist(DefaultBlockedDomains)
	}
	return &SafetyValidator{blocklist: blocklist, analyzer: analyzer}
}

// Validate checks a raw URL against the safety policy.
func (v *SafetyValidator) Validate(ctx context.Context, rawURL string) (*Verdict, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return nil, Errorf(EINVALID, "URL cannot be empty")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid URL format: %v", err)
	}
	if u.Scheme == "" {
		return nil, Errorf(EINVALID, "invalid URL format: missing scheme")
	}

	scheme := strings.ToLower(u.Scheme)
	if !allowedSchemes[scheme] {
		verdict := &Verdict{Scheme: scheme, Denial: DenialProtocolNotAllowed}
		return verdict, Errorf(EFORBIDDEN, "protocol %q is not allowed", scheme)
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return nil, Errorf(EINVALID, "URL must contain a valid hostname")
	}

	if ipv4Pattern.MatchString(hostname) {
		if isPrivateIP(hostname) {
			verdict := &Verdict{Scheme: scheme, Hostname: hostname, Denial: DenialPrivateIPBlocked}
			return verdict, Errorf(EFORBIDDEN, "private IP address not allowed: %s", hostname)
		}
	} else if v.blocklist.Blocked(hostname) {
		verdict := &Verdict{Scheme: scheme, Hostname: hostname, Denial: DenialDomainBlocked}
		return verdict, Errorf(EFORBIDDEN, "domain is blocked: %s", hostname)
	}

	threat := v.consultThreatIntel(ctx, rawURL)
	if threat != nil && threat.Risk == RiskMalicious {
		verdict := &Verdict{Scheme: scheme, Hostname: hostname, Denial: DenialThreatDetected, Threat: threat}
		return verdict, Errorf(EFORBIDDEN, "URL identified as malicious: %s", rawURL)
	}

	return &Verdict{
		Allowed:  true,
		Scheme:   scheme,
		Hostname: hostname,
		Threat:   threat,
	}, nil
}

// consultThreatIntel performs the best-effort gateway lookup. Lookup
// failure is advisory, never a denial: it degrades to an unknown-risk
// report so callers can see the lookup happened.
func (v *SafetyValidator) consultThreatIntel(ctx context.Context, rawURL string) *ThreatReport {
	if v.analyzer == nil {
		return nil
	}
	report, err := v.analyzer.Analyze(ctx, rawURL)
	if err != nil || report == nil {
		return &ThreatReport{Indicator: rawURL, Risk: RiskUnknown}
	}
	return report
}

func isPrivateIP(ip string) bool {
	for _, re := range privateIPPatterns {
		if re.MatchString(ip) {
			return true
		}
	}
	return false
}
