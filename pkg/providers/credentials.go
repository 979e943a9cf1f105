package providers

import (
	"fmt"
	"log/slog"
)

const redacted = "[REDACTED]"

// Secret is an opaque credential value. Every rendering path (fmt verbs,
// JSON, slog) prints a redaction marker; ExposeSecret is the only way to
// read the value and is meant to be called where an auth header is built.
type Secret struct {
	value string
}

// NewSecret wraps value as a Secret.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// ExposeSecret returns the underlying secret value.
func (s Secret) ExposeSecret() string {
	return s.value
}

// IsEmpty reports whether the secret holds no value.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}

// String implements fmt.Stringer.
func (s Secret) String() string {
	return redacted
}

// GoString implements fmt.GoStringer so %#v does not leak the value.
func (s Secret) GoString() string {
	return "providers.Secret(" + redacted + ")"
}

// Format implements fmt.Formatter and renders the redaction marker for every verb.
func (s Secret) Format(f fmt.State, verb rune) {
	if verb == 'v' && f.Flag('#') {
		_, _ = f.Write([]byte(s.GoString()))
		return
	}
	_, _ = f.Write([]byte(redacted))
}

// LogValue implements slog.LogValuer.
func (s Secret) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

// MarshalJSON implements json.Marshaler.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"` + redacted + `"`), nil
}

// MarshalText implements encoding.TextMarshaler.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte(redacted), nil
}

// DynamicCredentials maps credential names to secrets supplied for a single
// call. The caller owns the table; adapters only read it.
type DynamicCredentials map[string]Secret

// CredentialKind tags the variant held by a Credential.
type CredentialKind int

// Credential kinds
const (
	// CredentialNone means no credential is configured.
	CredentialNone CredentialKind = iota

	// CredentialStatic holds a secret baked into deployment configuration.
	CredentialStatic

	// CredentialDynamic names a secret supplied per call.
	CredentialDynamic

	// CredentialMissing is used by test setups and resolves like CredentialNone.
	CredentialMissing
)

// String returns the kind name.
func (k CredentialKind) String() string {
	switch k {
	case CredentialStatic:
		return "static"
	case CredentialDynamic:
		return "dynamic"
	case CredentialMissing:
		return "missing"
	default:
		return "none"
	}
}

// Credential describes where an adapter obtains its secret. The zero value
// is the None variant.
type Credential struct {
	kind   CredentialKind
	secret Secret
	name   string
}

// StaticCredential returns a credential holding secret.
func StaticCredential(secret Secret) Credential {
	return Credential{kind: CredentialStatic, secret: secret}
}

// DynamicCredential returns a credential looked up by name in the per-call table.
func DynamicCredential(name string) Credential {
	return Credential{kind: CredentialDynamic, name: name}
}

// NoCredential returns the None variant.
func NoCredential() Credential {
	return Credential{kind: CredentialNone}
}

// MissingCredential returns the Missing variant.
func MissingCredential() Credential {
	return Credential{kind: CredentialMissing}
}

// Kind returns the credential variant.
func (c Credential) Kind() CredentialKind {
	return c.kind
}

// Name returns the dynamic credential name ("" for other variants).
func (c Credential) Name() string {
	return c.name
}

// String describes the credential without its secret.
func (c Credential) String() string {
	if c.kind == CredentialDynamic {
		return fmt.Sprintf("dynamic(%s)", c.name)
	}
	return c.kind.String()
}

// LogValue implements slog.LogValuer.
func (c Credential) LogValue() slog.Value {
	return slog.StringValue(c.String())
}

// Resolve returns the secret to use for one call. Static credentials always
// resolve; dynamic credentials resolve when their name is present in creds;
// None and Missing never resolve. Failures are *APIKeyMissingError naming
// providerName.
func (c Credential) Resolve(providerName string, creds DynamicCredentials) (Secret, error) {
	switch c.kind {
	case CredentialStatic:
		return c.secret, nil
	case CredentialDynamic:
		if secret, ok := creds[c.name]; ok {
			return secret, nil
		}
		return Secret{}, &APIKeyMissingError{ProviderName: providerName}
	default:
		return Secret{}, &APIKeyMissingError{ProviderName: providerName}
	}
}
