package server

import "fmt"

// displayServerInfo shows server configuration information
func (s *Server) displayServerInfo(addr string, tlsEnabled bool) {
	if tlsEnabled {
		fmt.Fprintf(s.out, "Starting server on https://%s (TLS mode: %s)\n", addr, s.TLSConfig.Mode)
		if s.CertificateManager != nil && s.TLSConfig.AutoReload.Enabled && s.TLSConfig.HasFileSources() {
			fmt.Fprintln(s.out, "TLS auto-reload: ENABLED (watching certificate files)")
		}
	} else {
		fmt.Fprintf(s.out, "Starting server on http://%s\n", addr)
		fmt.Fprintln(s.out, "TLS mode: Disabled (HTTP only)")
	}
	s.displayEndpoints()
	s.displayAuthInfo()
	s.displayRequestLimitInfo()
	s.displayRateLimitInfo()
}

// displayEndpoints shows available API endpoints
func (s *Server) displayEndpoints() {
	fmt.Fprintln(s.out, "Available endpoints:")
	fmt.Fprintln(s.out, "  GET  /health                  - Health check")
	fmt.Fprintln(s.out, "  GET  /stats                   - Server statistics")
	fmt.Fprintln(s.out, "  POST /score                   - Score a resume")
	fmt.Fprintln(s.out, "  POST /match                   - Match a resume against a job description")
	fmt.Fprintln(s.out, "  GET  /suggestions             - List roles and industries")
	fmt.Fprintln(s.out, "  GET  /suggestions/{role}      - Suggestions for a role")
	fmt.Fprintln(s.out, "  GET  /industries/{industry}   - Keywords for an industry")
}

// displayAuthInfo shows authentication configuration
func (s *Server) displayAuthInfo() {
	if n := s.apiKeyCount(); n > 0 {
		fmt.Fprintf(s.out, "API authentication: ENABLED (%d keys configured)\n", n)
		if s.SecretWatcher != nil {
			fmt.Fprintln(s.out, "  - Keys rotate from Vault")
		}
	} else {
		fmt.Fprintln(s.out, "API authentication: DISABLED (no API keys configured)")
		fmt.Fprintln(s.out, "WARNING: API endpoints are publicly accessible!")
	}
}

// displayRequestLimitInfo shows request size limit configuration
func (s *Server) displayRequestLimitInfo() {
	if s.MaxRequestSize > 0 {
		fmt.Fprintf(s.out, "Request size limit: %d bytes (%.1f MB)\n", s.MaxRequestSize, float64(s.MaxRequestSize)/(1024*1024))
	} else {
		fmt.Fprintln(s.out, "Request size limit: DISABLED")
	}
}

// displayRateLimitInfo shows rate limiting configuration
func (s *Server) displayRateLimitInfo() {
	if s.RateLimit != nil && s.RateLimit.Enabled {
		fmt.Fprintf(s.out, "Rate limiting: ENABLED (%d requests/min, burst: %d)\n",
			s.RateLimit.RequestsPerMin, s.RateLimit.BurstCapacity)
		if s.RateLimit.ByAPIKey {
			fmt.Fprintln(s.out, "  - Per API key rate limiting enabled")
		}
		if s.RateLimit.ByIP {
			fmt.Fprintln(s.out, "  - Per IP address rate limiting enabled")
		}
	} else {
		fmt.Fprintln(s.out, "Rate limiting: DISABLED")
	}
}
