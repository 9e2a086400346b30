package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateEndpoints(); err != nil {
		return err
	}
	if topic := c.Notifications.NtfyTopic; topic != "" {
		parsed, err := url.Parse(topic)
		if err != nil || parsed.Host == "" || !strings.HasPrefix(parsed.Scheme, "http") {
			return fmt.Errorf("notifications.ntfy_topic must be a full topic URL such as https://ntfy.sh/my-topic, got %q", topic)
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case StorageLocal:
		if c.Storage.LocalDir == "" {
			return errors.New("storage.local_dir must be set when storage.backend is local")
		}
		if c.Storage.SigningKey == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/wandlung/config.toml"
			}
			return fmt.Errorf("storage.signing_key is required for local storage. Set WANDLUNG_SIGNING_KEY env var or edit %s (create with 'wandlung config init')", defaultPath)
		}
	case StorageS3:
		if c.Storage.S3Endpoint == "" {
			return errors.New("storage.s3_endpoint must be set when storage.backend is s3")
		}
		if c.Storage.S3Bucket == "" {
			return errors.New("storage.s3_bucket must be set when storage.backend is s3")
		}
		if c.Storage.S3AccessKey == "" || c.Storage.S3SecretKey == "" {
			return errors.New("storage.s3_access_key and storage.s3_secret_key must be set (or S3_ACCESS_KEY/S3_SECRET_KEY)")
		}
	default:
		return fmt.Errorf("storage.backend: unsupported value %q (want local or s3)", c.Storage.Backend)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	switch c.Translation.Protocol {
	case ProtocolStructured, ProtocolMarker:
	default:
		return fmt.Errorf("translation.protocol: unsupported value %q (want structured or marker)", c.Translation.Protocol)
	}
	if c.Translation.BatchSize > 500 {
		return errors.New("translation.batch_size must be 500 or less")
	}
	return nil
}

func (c *Config) validateEndpoints() error {
	for name, value := range map[string]string{
		"transcription.base_url":  c.Transcription.BaseURL,
		"translation.base_url":    c.Translation.BaseURL,
		"storage.public_base_url": c.Storage.PublicBaseURL,
	} {
		parsed, err := url.Parse(value)
		if err != nil || parsed.Host == "" || !strings.HasPrefix(parsed.Scheme, "http") {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, value)
		}
	}
	return nil
}
