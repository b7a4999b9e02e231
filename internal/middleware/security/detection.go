package security

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// Fragments that show up in probe traffic against PHP-era deployments.
// The API only serves fixed /api paths, so any of these in the URL marks
// the request suspicious.
var probePatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

// Attack tooling user agents. Plain curl and scripting clients are normal
// for a JSON API and stay off this list.
var scannerAgents = []string{
	"sqlmap", "nmap", "nikto", "gobuster", "dirb", "scanner",
}

var unusualMethods = map[string]bool{
	"TRACE":   true,
	"TRACK":   true,
	"DEBUG":   true,
	"CONNECT": true,
}

const maxURLLength = 2048

// Metrics counts detection events for the metrics endpoint.
type Metrics struct {
	SuspiciousRequests int64
}

// Detector flags probe traffic and resolves client IPs behind trusted
// proxies.
type Detector struct {
	suspicious     int64 // atomic
	trustedProxies []*net.IPNet
}

func NewDetector() *Detector {
	return &Detector{
		trustedProxies: []*net.IPNet{
			mustCIDR("127.0.0.0/8"),
			mustCIDR("10.0.0.0/8"),
			mustCIDR("172.16.0.0/12"),
			mustCIDR("192.168.0.0/16"),
		},
	}
}

func mustCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// DetectSuspiciousRequest reports whether the request looks like probe
// traffic and counts it when it does.
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	if !d.isSuspicious(r) {
		return false
	}
	atomic.AddInt64(&d.suspicious, 1)
	return true
}

func (d *Detector) isSuspicious(r *http.Request) bool {
	target := strings.ToLower(r.URL.Path + "?" + r.URL.RawQuery)
	for _, pattern := range probePatterns {
		if strings.Contains(target, pattern) {
			return true
		}
	}

	agent := strings.ToLower(r.Header.Get("User-Agent"))
	for _, scanner := range scannerAgents {
		if strings.Contains(agent, scanner) {
			return true
		}
	}

	if unusualMethods[r.Method] {
		return true
	}
	if len(r.URL.String()) > maxURLLength {
		return true
	}

	// Stacked forwarding headers with a long hop chain suggest header
	// manipulation.
	if r.Header.Get("X-Real-IP") != "" {
		if xff := r.Header.Get("X-Forwarded-For"); strings.Count(xff, ",") > 5 {
			return true
		}
	}

	return false
}

// ExtractClientIP resolves the client address, honoring X-Forwarded-For
// and X-Real-IP only when the direct peer is a trusted proxy.
func (d *Detector) ExtractClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	direct := net.ParseIP(host)
	if direct == nil || !d.isTrustedProxy(direct) {
		return host
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if net.ParseIP(xri) != nil {
			return xri
		}
	}

	return host
}

func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics snapshots the detection counters.
func (d *Detector) GetMetrics() Metrics {
	return Metrics{SuspiciousRequests: atomic.LoadInt64(&d.suspicious)}
}
