package config

import "fmt"

// TLS modes
const (
	TLSModeDisabled = "disabled"
	TLSModeServer   = "server"
	TLSModeMutual   = "mutual"
)

// ValidateTLSConfig validates the TLS configuration
func (c *Config) ValidateTLSConfig() error {
	tls := c.Server.TLS

	if err := validateTLSMode(tls); err != nil {
		return err
	}
	return validateTLSVersion(tls)
}

// HasFileSources reports whether any certificate material is read from disk,
// i.e. whether watching for changes makes sense.
func (t TLSConfig) HasFileSources() bool {
	return t.CertFile != "" || t.KeyFile != "" || t.CAFile != ""
}

func validateTLSMode(tls TLSConfig) error {
	switch tls.Mode {
	case TLSModeDisabled:
		return nil
	case TLSModeServer:
		return validateServerModeTLS(tls)
	case TLSModeMutual:
		return validateMutualModeTLS(tls)
	default:
		return fmt.Errorf("invalid TLS mode: %s (must be 'disabled', 'server', or 'mutual')", tls.Mode)
	}
}

func validateServerModeTLS(tls TLSConfig) error {
	return requireSource("TLS certificate and key", TLSModeServer+" mode",
		source{"certFile", tls.CertFile, "certContent", tls.CertContent},
		source{"keyFile", tls.KeyFile, "keyContent", tls.KeyContent})
}

func validateMutualModeTLS(tls TLSConfig) error {
	if err := requireSource("TLS certificate and key", TLSModeMutual+" mode",
		source{"certFile", tls.CertFile, "certContent", tls.CertContent},
		source{"keyFile", tls.KeyFile, "keyContent", tls.KeyContent}); err != nil {
		return err
	}
	if err := requireSource("CA certificate", TLSModeMutual+" mode",
		source{"caFile", tls.CAFile, "caContent", tls.CAContent}); err != nil {
		return err
	}
	return validateClientAuthPolicy(tls)
}

// source is one piece of PEM material that may come from a file or inline content
type source struct {
	fileKey, file       string
	contentKey, content string
}

// requireSource checks each source is set exactly once
func requireSource(what, mode string, sources ...source) error {
	for _, s := range sources {
		if s.file == "" && s.content == "" {
			return fmt.Errorf("%s required for %s (provide either files or content)", what, mode)
		}
	}
	for _, s := range sources {
		if s.file != "" && s.content != "" {
			return fmt.Errorf("cannot specify both %s and %s - choose one", s.fileKey, s.contentKey)
		}
	}
	return nil
}

func validateClientAuthPolicy(tls TLSConfig) error {
	switch tls.ClientAuthPolicy {
	case "require", "request", "verify", "":
		return nil
	default:
		return fmt.Errorf("invalid clientAuthPolicy: %s (must be 'require', 'request', or 'verify')", tls.ClientAuthPolicy)
	}
}

func validateTLSVersion(tls TLSConfig) error {
	switch tls.MinVersion {
	case "", "1.2", "1.3":
		return nil
	default:
		return fmt.Errorf("invalid TLS minVersion: %s (must be '1.2' or '1.3')", tls.MinVersion)
	}
}
