package providers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"
)

func TestCredential_Resolve(t *testing.T) {
	secret := NewSecret("sk-test-123")

	tests := []struct {
		name       string
		credential Credential
		creds      DynamicCredentials
		want       string
		wantErr    bool
	}{
		{
			name:       "static",
			credential: StaticCredential(secret),
			want:       "sk-test-123",
		},
		{
			name:       "static ignores table",
			credential: StaticCredential(secret),
			creds:      DynamicCredentials{"OTHER": NewSecret("other")},
			want:       "sk-test-123",
		},
		{
			name:       "dynamic present",
			credential: DynamicCredential("COHERE_KEY"),
			creds:      DynamicCredentials{"COHERE_KEY": NewSecret("dyn-key")},
			want:       "dyn-key",
		},
		{
			name:       "dynamic absent",
			credential: DynamicCredential("COHERE_KEY"),
			creds:      DynamicCredentials{"OTHER": NewSecret("x")},
			wantErr:    true,
		},
		{
			name:       "dynamic nil table",
			credential: DynamicCredential("COHERE_KEY"),
			wantErr:    true,
		},
		{
			name:       "none",
			credential: NoCredential(),
			wantErr:    true,
		},
		{
			name:       "missing",
			credential: MissingCredential(),
			wantErr:    true,
		},
		{
			name:       "zero value is none",
			credential: Credential{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.credential.Resolve("my-provider", tt.creds)
			if tt.wantErr {
				var keyErr *APIKeyMissingError
				if !errors.As(err, &keyErr) {
					t.Fatalf("expected *APIKeyMissingError, got %T: %v", err, err)
				}
				if keyErr.ProviderName != "my-provider" {
					t.Errorf("expected provider name %q, got %q", "my-provider", keyErr.ProviderName)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.ExposeSecret() != tt.want {
				t.Errorf("expected secret %q, got %q", tt.want, got.ExposeSecret())
			}
		})
	}
}

func TestCredential_ResolveDoesNotMutateTable(t *testing.T) {
	creds := DynamicCredentials{"KEY": NewSecret("value")}

	for i := 0; i < 3; i++ {
		if _, err := DynamicCredential("KEY").Resolve("p", creds); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if len(creds) != 1 || creds["KEY"].ExposeSecret() != "value" {
		t.Errorf("table was modified: %v", creds)
	}
}

func TestSecret_NeverRendersValue(t *testing.T) {
	secret := NewSecret("sk-super-secret")

	renderings := map[string]string{
		"%s":  fmt.Sprintf("%s", secret),
		"%v":  fmt.Sprintf("%v", secret),
		"%+v": fmt.Sprintf("%+v", secret),
		"%#v": fmt.Sprintf("%#v", secret),
		"%q":  fmt.Sprintf("%q", secret),
		"struct": fmt.Sprintf("%+v", struct {
			Key Secret
		}{secret}),
		"credential": fmt.Sprintf("%v", StaticCredential(secret)),
	}

	data, err := json.Marshal(map[string]Secret{"key": secret})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	renderings["json"] = string(data)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	logger.Info("test", "secret", secret, "credential", StaticCredential(secret))
	renderings["slog"] = buf.String()

	for name, out := range renderings {
		if strings.Contains(out, "sk-super-secret") {
			t.Errorf("%s rendering leaked secret: %s", name, out)
		}
	}

	if !strings.Contains(renderings["json"], redacted) {
		t.Errorf("expected redaction marker in json, got %s", renderings["json"])
	}
	if secret.ExposeSecret() != "sk-super-secret" {
		t.Error("ExposeSecret should return the value")
	}
}

func TestCredential_String(t *testing.T) {
	tests := []struct {
		credential Credential
		want       string
	}{
		{StaticCredential(NewSecret("x")), "static"},
		{DynamicCredential("NAME"), "dynamic(NAME)"},
		{NoCredential(), "none"},
		{MissingCredential(), "missing"},
	}

	for _, tt := range tests {
		if got := tt.credential.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
