package server

import (
	"crypto/tls"
	"fmt"

	"resumeforge/internal/config"
	"resumeforge/internal/observability"
)

// configureTLS loads certificates and returns the server TLS config, or nil
// when TLS is disabled
func (s *Server) configureTLS(om *observability.ObservabilityManager) (*tls.Config, error) {
	switch s.TLSConfig.Mode {
	case config.TLSModeDisabled, "":
		return nil, nil
	case config.TLSModeServer, config.TLSModeMutual:
	default:
		return nil, fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", s.TLSConfig.Mode)
	}

	certManager, err := NewCertificateManager(s.TLSConfig, om, s.Logger)
	if err != nil {
		return nil, err
	}
	if err := certManager.Start(); err != nil {
		return nil, fmt.Errorf("failed to start certificate manager: %w", err)
	}
	s.CertificateManager = certManager

	return s.buildTLSConfig(certManager), nil
}

// buildTLSConfig creates the TLS configuration around a certificate manager
func (s *Server) buildTLSConfig(cm *CertificateManager) *tls.Config {
	tlsConfig := &tls.Config{
		MinVersion:     tlsVersion(s.TLSConfig.MinVersion),
		CipherSuites:   cipherSuites(s.TLSConfig.CipherSuites),
		GetCertificate: cm.GetCertificate,
		ClientAuth:     tls.NoClientCert,
	}

	if s.TLSConfig.Mode == config.TLSModeMutual {
		tlsConfig.ClientAuth = clientAuthPolicy(s.TLSConfig.ClientAuthPolicy)
		tlsConfig.ClientCAs = cm.ClientCAs()
		// the CA pool can rotate, so each handshake gets the current one
		base := tlsConfig.Clone()
		tlsConfig.GetConfigForClient = func(*tls.ClientHelloInfo) (*tls.Config, error) {
			c := base.Clone()
			c.ClientCAs = cm.ClientCAs()
			return c, nil
		}
	}

	if s.TLSConfig.InsecureSkipVerify {
		tlsConfig.InsecureSkipVerify = true
		fmt.Fprintln(s.out, "WARNING: TLS certificate verification is disabled (insecureSkipVerify=true)")
	}
	if s.TLSConfig.ServerName != "" {
		tlsConfig.ServerName = s.TLSConfig.ServerName
	}

	return tlsConfig
}

func tlsVersion(version string) uint16 {
	if version == "1.3" {
		return tls.VersionTLS13
	}
	return tls.VersionTLS12
}

// cipherSuites maps configured names to IDs, skipping unknown names
func cipherSuites(names []string) []uint16 {
	if len(names) == 0 {
		return nil
	}
	suites := make([]uint16, 0, len(names))
	for _, name := range names {
		if id := getCipherSuiteID(name); id != 0 {
			suites = append(suites, id)
		}
	}
	return suites
}

func clientAuthPolicy(policy string) tls.ClientAuthType {
	switch policy {
	case "request":
		return tls.RequestClientCert
	case "verify":
		return tls.VerifyClientCertIfGiven
	default:
		return tls.RequireAndVerifyClientCert
	}
}

// getCipherSuiteID returns the cipher suite ID for a given name
func getCipherSuiteID(name string) uint16 {
	for _, suite := range tls.CipherSuites() {
		if suite.Name == name {
			return suite.ID
		}
	}
	return 0
}
