package tls

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// writeCertPair generates a self-signed ECDSA certificate valid between
// notBefore and notAfter and writes it to dir.
func writeCertPair(t *testing.T, dir string, notBefore, notAfter time.Time) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	template := &x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "relay-client"},
		NotBefore:    notBefore,
		NotAfter:     notAfter,
		KeyUsage:     x509.KeyUsageDigitalSignature,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth},
	}

	der, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("failed to create certificate: %v", err)
	}
	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("failed to marshal key: %v", err)
	}

	certFile = filepath.Join(dir, "client.pem")
	keyFile = filepath.Join(dir, "client-key.pem")
	writePEM(t, certFile, "CERTIFICATE", der)
	writePEM(t, keyFile, "EC PRIVATE KEY", keyDER)
	return certFile, keyFile
}

func writePEM(t *testing.T, path, blockType string, der []byte) {
	t.Helper()
	data := pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: der})
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr string
	}{
		{name: "zero value", config: Config{}},
		{name: "tls 1.3", config: Config{MinVersion: "1.3"}},
		{name: "client pair", config: Config{CertFile: "c.pem", KeyFile: "k.pem"}},
		{name: "cert without key", config: Config{CertFile: "c.pem"}, wantErr: "set together"},
		{name: "key without cert", config: Config{KeyFile: "k.pem"}, wantErr: "set together"},
		{name: "tls 1.0 rejected", config: Config{MinVersion: "1.0"}, wantErr: "unsupported min_version"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfig_ToTLSConfig_Zero(t *testing.T) {
	cfg := Config{}
	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tlsConfig != nil {
		t.Errorf("expected nil tls config for zero value, got %+v", tlsConfig)
	}
}

func TestConfig_ToTLSConfig_MinVersion(t *testing.T) {
	tests := map[string]uint16{
		"1.2": tls.VersionTLS12,
		"1.3": tls.VersionTLS13,
	}

	for version, want := range tests {
		cfg := Config{MinVersion: version}
		tlsConfig, err := cfg.ToTLSConfig()
		if err != nil {
			t.Fatalf("min_version %s: unexpected error: %v", version, err)
		}
		if tlsConfig.MinVersion != want {
			t.Errorf("min_version %s: got %x, want %x", version, tlsConfig.MinVersion, want)
		}
	}
}

func TestConfig_ToTLSConfig_ClientCertificate(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCertPair(t, dir, now.Add(-time.Hour), now.Add(365*24*time.Hour))

	cfg := Config{CertFile: certFile, KeyFile: keyFile, ServerName: "gateway.internal"}
	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tlsConfig.Certificates) != 1 {
		t.Fatalf("expected one client certificate, got %d", len(tlsConfig.Certificates))
	}
	if tlsConfig.ServerName != "gateway.internal" {
		t.Errorf("expected server name override, got %q", tlsConfig.ServerName)
	}
	if tlsConfig.MinVersion != tls.VersionTLS12 {
		t.Errorf("expected default min version TLS 1.2, got %x", tlsConfig.MinVersion)
	}
}

func TestConfig_ToTLSConfig_ExpiredClientCertificate(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	certFile, keyFile := writeCertPair(t, dir, now.Add(-48*time.Hour), now.Add(-24*time.Hour))

	cfg := Config{CertFile: certFile, KeyFile: keyFile}
	_, err := cfg.ToTLSConfig()
	if err == nil || !strings.Contains(err.Error(), "expired") {
		t.Errorf("expected expired certificate error, got %v", err)
	}
}

func TestConfig_ToTLSConfig_MissingFiles(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name   string
		config Config
	}{
		{name: "missing CA", config: Config{CAFile: filepath.Join(dir, "absent.pem")}},
		{name: "missing key pair", config: Config{CertFile: filepath.Join(dir, "c.pem"), KeyFile: filepath.Join(dir, "k.pem")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.config.ToTLSConfig(); err == nil {
				t.Error("expected error for missing files")
			}
		})
	}
}

func TestConfig_ToTLSConfig_InvalidCA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ca.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Config{CAFile: path}
	if _, err := cfg.ToTLSConfig(); err == nil {
		t.Error("expected error for unparsable CA file")
	}
}

func TestConfig_ToTLSConfig_TrustsCustomCA(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	caFile := filepath.Join(t.TempDir(), "ca.pem")
	writePEM(t, caFile, "CERTIFICATE", server.Certificate().Raw)

	cfg := Config{CAFile: caFile}
	tlsConfig, err := cfg.ToTLSConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	client := &http.Client{Transport: &http.Transport{TLSClientConfig: tlsConfig}}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("request with custom CA failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("expected 204, got %d", resp.StatusCode)
	}

	plain := &http.Client{Transport: &http.Transport{}}
	if _, err := plain.Get(server.URL); err == nil {
		t.Error("expected verification failure without the custom CA")
	}
}

func TestValidateCertificate(t *testing.T) {
	if err := ValidateCertificate(nil); err == nil {
		t.Error("expected error for nil certificate")
	}
	if err := ValidateCertificate(&tls.Certificate{}); err == nil {
		t.Error("expected error for empty chain")
	}
}

func TestValidateX509Certificate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cert := &x509.Certificate{
		NotBefore: now.Add(-time.Hour),
		NotAfter:  now.Add(time.Hour),
	}

	tests := []struct {
		name    string
		at      time.Time
		wantErr string
	}{
		{name: "within window", at: now},
		{name: "not yet valid", at: now.Add(-2 * time.Hour), wantErr: "not yet valid"},
		{name: "expired", at: now.Add(2 * time.Hour), wantErr: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateX509Certificate(cert, tt.at)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckCertificateExpiration(t *testing.T) {
	soon := &x509.Certificate{NotAfter: time.Now().Add(10*24*time.Hour + time.Hour)}
	days, warning := CheckCertificateExpiration(soon)
	if days != 10 {
		t.Errorf("expected 10 days, got %d", days)
	}
	if warning == "" {
		t.Error("expected warning for certificate expiring in 10 days")
	}

	later := &x509.Certificate{NotAfter: time.Now().Add(90 * 24 * time.Hour)}
	if _, warning := CheckCertificateExpiration(later); warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
}
