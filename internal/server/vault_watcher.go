package server

import (
	"fmt"
	"sync"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// SecretChangeFunc is called with the new contents of a rotated secret
type SecretChangeFunc func(path string, secret *config.VaultSecret)

// VaultWatcher polls Vault KVv2 secrets and calls back when a secret's
// version increases. No lease renewal.
type VaultWatcher struct {
	mu sync.RWMutex

	client       config.SecretReader
	paths        []string
	pollInterval time.Duration
	onChange     SecretChangeFunc
	logger       *errors.Logger

	stopChan    chan struct{}
	done        chan struct{}
	running     bool
	lastVersion map[string]int64
	lastCheck   time.Time
	lastError   string
}

// NewVaultWatcher creates a new VaultWatcher
func NewVaultWatcher(client config.SecretReader, paths []string, pollInterval time.Duration, onChange SecretChangeFunc, logger *errors.Logger) (*VaultWatcher, error) {
	if client == nil || onChange == nil {
		return nil, fmt.Errorf("vault watcher needs a client and a change callback")
	}
	if pollInterval <= 0 {
		return nil, fmt.Errorf("vault poll interval must be positive")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no vault secrets to watch")
	}
	if logger == nil {
		logger = errors.NewNopLogger()
	}
	return &VaultWatcher{
		client:       client,
		paths:        paths,
		pollInterval: pollInterval,
		onChange:     onChange,
		logger:       logger,
		lastVersion:  make(map[string]int64),
	}, nil
}

// Start records the current secret versions and begins polling
func (vw *VaultWatcher) Start() error {
	vw.mu.Lock()
	defer vw.mu.Unlock()
	if vw.running {
		return fmt.Errorf("vault watcher is already running")
	}

	// versions loaded at startup are already applied
	for _, path := range vw.paths {
		secret, err := vw.client.GetSecretV2(path)
		if err != nil {
			vw.logger.Warn("Failed to read initial Vault secret version", "path", path, "error", err)
			continue
		}
		vw.lastVersion[path] = secret.Version
	}

	vw.stopChan = make(chan struct{})
	vw.done = make(chan struct{})
	vw.running = true
	go vw.pollLoop(vw.stopChan, vw.done)

	vw.logger.Info("Vault watcher started", "secret_paths", vw.paths, "poll_interval", vw.pollInterval)
	return nil
}

// Stop stops the Vault watcher and waits for the poll loop to exit
func (vw *VaultWatcher) Stop() error {
	vw.mu.Lock()
	if !vw.running {
		vw.mu.Unlock()
		return nil
	}
	close(vw.stopChan)
	done := vw.done
	vw.running = false
	vw.mu.Unlock()

	<-done
	vw.logger.Info("Vault watcher stopped")
	return nil
}

func (vw *VaultWatcher) pollLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(vw.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			vw.checkForUpdates()
		case <-stop:
			return
		}
	}
}

// checkForUpdates reads every watched secret and fires the callback for
// those whose version increased
func (vw *VaultWatcher) checkForUpdates() {
	for _, path := range vw.paths {
		secret, err := vw.client.GetSecretV2(path)

		vw.mu.Lock()
		vw.lastCheck = time.Now()
		if err != nil {
			vw.lastError = err.Error()
			vw.mu.Unlock()
			vw.logger.LogError(err, "Failed to check Vault for updates", "path", path)
			continue
		}
		vw.lastError = ""
		changed := secret.Version > vw.lastVersion[path]
		if changed {
			vw.lastVersion[path] = secret.Version
		}
		vw.mu.Unlock()

		if changed {
			vw.logger.Info("Vault secret changed", "path", path, "version", secret.Version)
			vw.onChange(path, secret)
		}
	}
}

// Status returns the current status of the VaultWatcher for health reporting
func (vw *VaultWatcher) Status() map[string]any {
	vw.mu.RLock()
	defer vw.mu.RUnlock()

	versions := make(map[string]int64, len(vw.lastVersion))
	for path, v := range vw.lastVersion {
		versions[path] = v
	}
	status := map[string]any{
		"running":       vw.running,
		"poll_interval": vw.pollInterval.String(),
		"versions":      versions,
	}
	if !vw.lastCheck.IsZero() {
		status["last_check"] = vw.lastCheck
	}
	if vw.lastError != "" {
		status["last_error"] = vw.lastError
	}
	return status
}

// applyVaultSecret routes a rotated secret to the API key set or the
// certificate manager
func (s *Server) applyVaultSecret(path string, secret *config.VaultSecret) {
	if s.AppConfig == nil {
		return
	}
	paths := s.AppConfig.Vault.Secrets

	switch path {
	case paths.APIKeys:
		keys, err := config.APIKeysFromSecret(secret, path)
		if err != nil {
			s.Logger.LogError(err, "Ignoring rotated API keys", "path", path)
			return
		}
		if len(keys) == 0 {
			s.Logger.Warn("Rotated API key secret is empty, keeping current keys", "path", path)
			return
		}
		s.SetAPIKeys(keys)
		s.Logger.Info("API keys rotated from Vault", "count", len(keys), "version", secret.Version)

	case paths.TLSCerts:
		if s.CertificateManager == nil {
			return
		}
		if err := s.CertificateManager.UpdateFromSecret(secret); err != nil {
			s.Logger.LogError(err, "Failed to apply rotated TLS certificates", "path", path)
		}
	}
}

// startVaultWatcher polls the configured secrets when rotation is enabled
func (s *Server) startVaultWatcher() error {
	if s.AppConfig == nil || !s.AppConfig.Vault.Enabled || s.AppConfig.Vault.PollInterval <= 0 {
		return nil
	}

	var paths []string
	for _, p := range []string{s.AppConfig.Vault.Secrets.APIKeys, s.AppConfig.Vault.Secrets.TLSCerts} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return nil
	}

	client, err := config.NewVaultClient(s.AppConfig.Vault, s.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Vault client: %w", err)
	}
	watcher, err := NewVaultWatcher(client, paths, s.AppConfig.Vault.PollInterval, s.applyVaultSecret, s.Logger)
	if err != nil {
		return err
	}
	if err := watcher.Start(); err != nil {
		return err
	}
	s.SecretWatcher = watcher
	return nil
}
