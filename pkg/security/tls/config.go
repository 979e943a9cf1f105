package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"os"
)

// Config represents TLS configuration for outbound connections to provider
// endpoints. The zero value uses the system roots and Go's defaults.
type Config struct {
	// CAFile is the path to a PEM bundle of additional trusted roots.
	// Used for self-hosted endpoints behind a private CA.
	CAFile string `yaml:"ca_file"`

	// CertFile is the path to the PEM-encoded client certificate
	// presented when the endpoint requires mutual TLS.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded client private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to negotiate ("1.2" or "1.3").
	// Default: "1.2"
	MinVersion string `yaml:"min_version"`

	// ServerName overrides the name used to verify the server certificate.
	ServerName string `yaml:"server_name"`

	// InsecureSkipVerify disables server certificate verification.
	// Only meant for local development against self-signed endpoints.
	InsecureSkipVerify bool `yaml:"insecure_skip_verify"`
}

// IsZero reports whether no TLS setting has been configured.
func (c *Config) IsZero() bool {
	return *c == Config{}
}

// Validate checks the configuration without touching the filesystem.
func (c *Config) Validate() error {
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	if _, err := parseTLSVersion(c.MinVersion); err != nil {
		return err
	}
	return nil
}

// ToTLSConfig converts Config to a client crypto/tls.Config.
// It returns nil when nothing is configured so the transport keeps its defaults.
func (c *Config) ToTLSConfig() (*tls.Config, error) {
	if c.IsZero() {
		return nil, nil
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	minVersion, _ := parseTLSVersion(c.MinVersion)

	// #nosec G402 - InsecureSkipVerify is opt-in for development endpoints
	tlsConfig := &tls.Config{
		MinVersion:         minVersion,
		ServerName:         c.ServerName,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}

	if c.CAFile != "" {
		pool, err := loadCAPool(c.CAFile)
		if err != nil {
			return nil, err
		}
		tlsConfig.RootCAs = pool
	}

	if c.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		if err := ValidateCertificate(&cert); err != nil {
			return nil, fmt.Errorf("client certificate validation failed: %w", err)
		}
		if leaf, err := x509.ParseCertificate(cert.Certificate[0]); err == nil {
			if days, warning := CheckCertificateExpiration(leaf); warning != "" {
				slog.Warn("client certificate expiring soon",
					"cert_file", c.CertFile,
					"days_until_expiry", days,
				)
			}
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	return tlsConfig, nil
}

// loadCAPool returns the system roots extended with the certificates in path.
func loadCAPool(path string) (*x509.CertPool, error) {
	pem, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}

	pool, err := x509.SystemCertPool()
	if err != nil || pool == nil {
		pool = x509.NewCertPool()
	}
	if !pool.AppendCertsFromPEM(pem) {
		return nil, fmt.Errorf("failed to parse CA certificates from %s", path)
	}
	return pool, nil
}

// parseTLSVersion converts the MinVersion string to a tls version constant.
// TLS 1.0 and 1.1 are rejected.
func parseTLSVersion(version string) (uint16, error) {
	switch version {
	case "1.2", "":
		return tls.VersionTLS12, nil
	case "1.3":
		return tls.VersionTLS13, nil
	default:
		return 0, fmt.Errorf("unsupported min_version %q (supported: 1.2, 1.3)", version)
	}
}
