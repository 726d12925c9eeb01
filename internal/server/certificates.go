package server

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
	"resumeforge/internal/observability"
	"resumeforge/internal/watch"
)

// CertificateManager serves the current TLS certificate and client CA pool,
// swapping them atomically when the material is reloaded.
type CertificateManager struct {
	mu     sync.Mutex
	source config.TLSConfig

	cert     atomic.Pointer[tls.Certificate]
	clientCA atomic.Pointer[x509.CertPool]
	notAfter atomic.Int64 // unix seconds

	watcher *watch.FileWatcher
	om      *observability.ObservabilityManager
	logger  *errors.Logger

	reloadCount   int64
	reloadFailed  int64
	lastReload    time.Time
	lastReloadErr string
}

// NewCertificateManager loads the configured certificate material. It fails
// when the initial load fails.
func NewCertificateManager(tlsConfig config.TLSConfig, om *observability.ObservabilityManager, logger *errors.Logger) (*CertificateManager, error) {
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	cm := &CertificateManager{
		source: tlsConfig,
		om:     om,
		logger: logger,
	}
	if err := cm.load(tlsConfig); err != nil {
		return nil, err
	}
	return cm, nil
}

// Start watches certificate files for changes when auto-reload is enabled
// and the material comes from disk
func (cm *CertificateManager) Start() error {
	cm.mu.Lock()
	source := cm.source
	cm.mu.Unlock()

	if !source.AutoReload.Enabled || !source.HasFileSources() {
		return nil
	}

	var files []string
	for _, f := range []string{source.CertFile, source.KeyFile, source.CAFile} {
		if f != "" {
			files = append(files, f)
		}
	}

	watcher, err := watch.NewFileWatcher(files, source.AutoReload.Debounce, func(changed []string) {
		cm.logger.Info("Certificate files changed, reloading", "files", changed)
		if err := cm.Reload(); err != nil {
			cm.logger.LogError(err, "Failed to reload TLS certificates")
		}
	}, cm.logger)
	if err != nil {
		return fmt.Errorf("failed to create certificate watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start certificate watcher: %w", err)
	}
	cm.watcher = watcher
	return nil
}

// Stop stops watching certificate files
func (cm *CertificateManager) Stop() error {
	if cm.watcher == nil {
		return nil
	}
	return cm.watcher.Stop()
}

// Reload re-reads the current certificate sources
func (cm *CertificateManager) Reload() error {
	cm.mu.Lock()
	source := cm.source
	cm.mu.Unlock()
	return cm.reload(source)
}

// UpdateFromSecret replaces the certificate material with PEM content from
// a Vault secret and reloads. File sources are dropped for any item the
// secret provides.
func (cm *CertificateManager) UpdateFromSecret(secret *config.VaultSecret) error {
	cm.mu.Lock()
	source := cm.source
	cm.mu.Unlock()

	if config.ApplyTLSContent(&source, secret) == 0 {
		return errors.NewConfigError(errors.ErrCodeTLSLoad, "Vault secret holds no TLS material", nil)
	}
	if err := cm.reload(source); err != nil {
		return err
	}

	cm.mu.Lock()
	cm.source = source
	cm.mu.Unlock()
	return nil
}

func (cm *CertificateManager) reload(source config.TLSConfig) error {
	err := cm.load(source)

	cm.mu.Lock()
	cm.reloadCount++
	cm.lastReload = time.Now()
	if err != nil {
		cm.reloadFailed++
		cm.lastReloadErr = err.Error()
	} else {
		cm.lastReloadErr = ""
	}
	cm.mu.Unlock()

	cm.om.RecordCertificate(context.Background(), err == nil, cm.NotAfter())
	if err == nil {
		cm.logger.Info("TLS certificates reloaded", "not_after", cm.NotAfter())
	}
	return err
}

// load parses the material and swaps it in only when every piece is valid
func (cm *CertificateManager) load(source config.TLSConfig) error {
	cert, err := loadKeyPair(source)
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeTLSLoad, "Failed to load TLS certificate", err)
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return errors.NewConfigError(errors.ErrCodeTLSLoad, "Failed to parse TLS certificate", err)
	}
	cert.Leaf = leaf

	var pool *x509.CertPool
	if source.CAContent != "" || source.CAFile != "" {
		pool, err = loadCAPool(source)
		if err != nil {
			return errors.NewConfigError(errors.ErrCodeTLSLoad, "Failed to load CA certificate", err)
		}
	}

	cm.cert.Store(&cert)
	if pool != nil {
		cm.clientCA.Store(pool)
	}
	cm.notAfter.Store(leaf.NotAfter.Unix())
	return nil
}

// GetCertificate implements tls.Config.GetCertificate
func (cm *CertificateManager) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	cert := cm.cert.Load()
	if cert == nil {
		return nil, fmt.Errorf("no TLS certificate loaded")
	}
	return cert, nil
}

// ClientCAs returns the current pool used to verify client certificates
func (cm *CertificateManager) ClientCAs() *x509.CertPool {
	return cm.clientCA.Load()
}

// NotAfter returns the expiry of the current certificate
func (cm *CertificateManager) NotAfter() time.Time {
	if secs := cm.notAfter.Load(); secs != 0 {
		return time.Unix(secs, 0)
	}
	return time.Time{}
}

// CheckExpiry returns the time left before the current certificate expires
func (cm *CertificateManager) CheckExpiry() (time.Duration, error) {
	notAfter := cm.NotAfter()
	if notAfter.IsZero() {
		return 0, fmt.Errorf("no TLS certificate loaded")
	}
	return time.Until(notAfter), nil
}

// Status reports reload state for the health endpoint
func (cm *CertificateManager) Status() map[string]any {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	status := map[string]any{
		"enabled":              cm.source.AutoReload.Enabled,
		"file_watcher_running": cm.watcher != nil && cm.watcher.IsRunning(),
		"reload_count":         cm.reloadCount,
		"reload_failure_count": cm.reloadFailed,
	}
	if cm.watcher != nil {
		status["watched_files"] = cm.watcher.Files()
	}
	if !cm.lastReload.IsZero() {
		status["last_reload_time"] = cm.lastReload
	}
	if cm.lastReloadErr != "" {
		status["last_reload_error"] = cm.lastReloadErr
	}
	return status
}

// loadKeyPair loads the server certificate from content or files
func loadKeyPair(source config.TLSConfig) (tls.Certificate, error) {
	certPEM, err := pemSource(source.CertContent, source.CertFile, "certificate")
	if err != nil {
		return tls.Certificate{}, err
	}
	keyPEM, err := pemSource(source.KeyContent, source.KeyFile, "key")
	if err != nil {
		return tls.Certificate{}, err
	}
	return tls.X509KeyPair(certPEM, keyPEM)
}

// loadCAPool loads the CA certificate pool for client verification
func loadCAPool(source config.TLSConfig) (*x509.CertPool, error) {
	caPEM, err := pemSource(source.CAContent, source.CAFile, "CA certificate")
	if err != nil {
		return nil, err
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caPEM) {
		return nil, fmt.Errorf("no certificates found in CA PEM")
	}
	return pool, nil
}

// pemSource prefers inline content over a file
func pemSource(content, file, what string) ([]byte, error) {
	if content != "" {
		return []byte(content), nil
	}
	if file == "" {
		return nil, fmt.Errorf("TLS %s is required (provide either a file or content)", what)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s file: %w", what, err)
	}
	return data, nil
}
