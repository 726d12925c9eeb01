package server

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"resumeforge/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// selfSigned returns a PEM certificate and key valid for validFor
func selfSigned(t *testing.T, validFor time.Duration) (certPEM, keyPEM string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	template := &x509.Certificate{
		SerialNumber:          big.NewInt(time.Now().UnixNano()),
		Subject:               pkix.Name{CommonName: "localhost"},
		DNSNames:              []string{"localhost"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(validFor),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		IsCA:                  true,
	}
	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	require.NoError(t, err)

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	certPEM = string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der}))
	keyPEM = string(pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	return certPEM, keyPEM
}

func writePEMFiles(t *testing.T, dir, certPEM, keyPEM string) (certFile, keyFile string) {
	t.Helper()
	certFile = filepath.Join(dir, "server.crt")
	keyFile = filepath.Join(dir, "server.key")
	require.NoError(t, os.WriteFile(certFile, []byte(certPEM), 0600))
	require.NoError(t, os.WriteFile(keyFile, []byte(keyPEM), 0600))
	return certFile, keyFile
}

func TestCertificateManagerLoadsContent(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, 30*24*time.Hour)

	cm, err := NewCertificateManager(config.TLSConfig{
		Mode:        config.TLSModeMutual,
		CertContent: certPEM,
		KeyContent:  keyPEM,
		CAContent:   certPEM,
	}, nil, nil)
	require.NoError(t, err)

	cert, err := cm.GetCertificate(nil)
	require.NoError(t, err)
	require.NotNil(t, cert.Leaf)
	assert.Equal(t, "localhost", cert.Leaf.Subject.CommonName)
	assert.NotNil(t, cm.ClientCAs())

	remaining, err := cm.CheckExpiry()
	require.NoError(t, err)
	assert.InDelta(t, (30 * 24 * time.Hour).Hours(), remaining.Hours(), 1)

	// watcher only starts for file sources
	require.NoError(t, cm.Start())
	assert.Equal(t, false, cm.Status()["file_watcher_running"])
}

func TestCertificateManagerRejectsBadMaterial(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, time.Hour)
	_, otherKey := selfSigned(t, time.Hour)

	tests := []struct {
		name string
		cfg  config.TLSConfig
	}{
		{name: "missing key", cfg: config.TLSConfig{CertContent: certPEM}},
		{name: "mismatched key", cfg: config.TLSConfig{CertContent: certPEM, KeyContent: otherKey}},
		{name: "missing file", cfg: config.TLSConfig{CertFile: "/nonexistent/cert.pem", KeyFile: "/nonexistent/key.pem"}},
		{name: "bad ca", cfg: config.TLSConfig{CertContent: certPEM, KeyContent: keyPEM, CAContent: "not pem"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCertificateManager(tt.cfg, nil, nil)
			assert.ErrorContains(t, err, "TLS_LOAD_ERROR")
		})
	}
}

func TestCertificateManagerUpdateFromSecret(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, 48*time.Hour)
	certFile, keyFile := writePEMFiles(t, t.TempDir(), certPEM, keyPEM)

	cm, err := NewCertificateManager(config.TLSConfig{CertFile: certFile, KeyFile: keyFile}, nil, nil)
	require.NoError(t, err)
	before := cm.NotAfter()

	newCert, newKey := selfSigned(t, 90*24*time.Hour)
	require.NoError(t, cm.UpdateFromSecret(&config.VaultSecret{
		Data:    map[string]any{"cert": newCert, "key": newKey},
		Version: 2,
	}))
	assert.True(t, cm.NotAfter().After(before))
	assert.EqualValues(t, 1, cm.Status()["reload_count"])

	// a broken rotation keeps serving the previous certificate
	current := cm.NotAfter()
	err = cm.UpdateFromSecret(&config.VaultSecret{Data: map[string]any{"cert": "garbage", "key": "garbage"}})
	assert.Error(t, err)
	assert.Equal(t, current, cm.NotAfter())
	assert.EqualValues(t, 1, cm.Status()["reload_failure_count"])

	err = cm.UpdateFromSecret(&config.VaultSecret{Data: map[string]any{}})
	assert.ErrorContains(t, err, "no TLS material")
}

func TestCertificateManagerReloadsChangedFiles(t *testing.T) {
	dir := t.TempDir()
	certPEM, keyPEM := selfSigned(t, 48*time.Hour)
	certFile, keyFile := writePEMFiles(t, dir, certPEM, keyPEM)

	cm, err := NewCertificateManager(config.TLSConfig{
		CertFile:   certFile,
		KeyFile:    keyFile,
		AutoReload: config.AutoReloadConfig{Enabled: true, Debounce: 50 * time.Millisecond},
	}, nil, nil)
	require.NoError(t, err)
	require.NoError(t, cm.Start())
	t.Cleanup(func() { _ = cm.Stop() })
	before := cm.NotAfter()

	newCert, newKey := selfSigned(t, 365*24*time.Hour)
	writePEMFiles(t, dir, newCert, newKey)

	assert.Eventually(t, func() bool {
		return cm.NotAfter().After(before)
	}, 5*time.Second, 50*time.Millisecond)
}

func TestHealthReportsCertificates(t *testing.T) {
	tests := []struct {
		name       string
		validFor   time.Duration
		wantStatus int
		wantCert   string
	}{
		{name: "valid", validFor: 30 * 24 * time.Hour, wantStatus: http.StatusOK, wantCert: "ok"},
		{name: "expiring soon", validFor: 3 * 24 * time.Hour, wantStatus: http.StatusOK, wantCert: "warning"},
		{name: "critical", validFor: time.Hour, wantStatus: http.StatusServiceUnavailable, wantCert: "critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			certPEM, keyPEM := selfSigned(t, tt.validFor)
			ts := newTestServer(t, nil)
			cm, err := NewCertificateManager(config.TLSConfig{CertContent: certPEM, KeyContent: keyPEM}, nil, nil)
			require.NoError(t, err)
			ts.CertificateManager = cm

			rec := ts.do(t, http.MethodGet, "/health", "", nil)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), `"status":"`+tt.wantCert+`"`)
		})
	}
}

func TestBuildTLSConfig(t *testing.T) {
	certPEM, keyPEM := selfSigned(t, time.Hour)
	tlsCfg := config.TLSConfig{
		Mode:             config.TLSModeMutual,
		CertContent:      certPEM,
		KeyContent:       keyPEM,
		CAContent:        certPEM,
		MinVersion:       "1.3",
		CipherSuites:     []string{"TLS_AES_128_GCM_SHA256", "NOT_A_SUITE"},
		ClientAuthPolicy: "verify",
		ServerName:       "api.example.com",
	}
	ts := newTestServer(t, func(c *ServerConfig) { c.TLSConfig = tlsCfg })
	ts.SetOutput(io.Discard)

	got, err := ts.configureTLS(nil)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, uint16(tls.VersionTLS13), got.MinVersion)
	assert.Equal(t, []uint16{tls.TLS_AES_128_GCM_SHA256}, got.CipherSuites)
	assert.Equal(t, tls.VerifyClientCertIfGiven, got.ClientAuth)
	assert.Equal(t, "api.example.com", got.ServerName)
	require.NotNil(t, got.GetConfigForClient)

	perConn, err := got.GetConfigForClient(&tls.ClientHelloInfo{})
	require.NoError(t, err)
	assert.NotNil(t, perConn.ClientCAs)
	assert.NotNil(t, ts.CertificateManager)

	ts.TLSConfig = config.TLSConfig{Mode: config.TLSModeDisabled}
	got, err = ts.configureTLS(nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}
