/*
Package secrets provides a pluggable framework for loading secrets from multiple sources.

# Overview

Relay resolves provider API keys configured as "secret::<name>" through this
package. Values are returned as providers.Secret, which never renders its
contents through fmt, slog or encoding/json.

# Secret Providers

  - EnvProvider: reads <prefix><NAME> environment variables
  - FileProvider: reads one file per secret from a directory (Kubernetes-style),
    optionally watching the directory with fsnotify

# Basic Usage

	envProvider := secrets.NewEnvProvider(secrets.DefaultEnvPrefix)
	fileProvider, err := secrets.NewFileProvider("/var/run/secrets/relay", true)
	if err != nil {
		return err
	}

	manager := secrets.NewManager(envProvider, fileProvider)
	defer manager.Close()

	apiKey, err := manager.GetSecret(ctx, "cohere-api-key")
	if err != nil {
		return err
	}
	credential := providers.StaticCredential(apiKey)

# File Permissions

Secret files in a FileProvider directory must have mode 0600 or 0400.
Names that would escape the directory are rejected.

# Rotation

A watching FileProvider drops its cache when a file changes. Credentials are
resolved once when the configuration is loaded, so rotated values take effect
the next time the configuration is loaded.
*/
package secrets
