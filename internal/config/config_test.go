package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", false)
	require.NoError(t, err)
	require.Equal(t, DefaultRegion, cfg.Region)
	require.Equal(t, int32(22), cfg.Port)
	require.Equal(t, "tcp", cfg.Protocol)
	require.Equal(t, DefaultIPService, cfg.IPService)
	require.Equal(t, ".amazonip", filepath.Base(cfg.StateFile))
	require.Equal(t, cfg.StateFile+".old", cfg.BackupFile())
	require.False(t, cfg.Force)
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amazonip.yaml")
	content := `
region: eu-west-1
security_group: sg-file
http_timeout: 5s
slack:
  webhook_url: https://hooks.example.com/x
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("AMAZONIP_SECURITY_GROUP", "sg-env")
	t.Setenv("AMAZONIP_SLACK_CHANNEL", "#ops")

	cfg, err := Load(path, true)
	require.NoError(t, err)
	require.Equal(t, "eu-west-1", cfg.Region)
	require.Equal(t, "sg-env", cfg.SecurityGroup)
	require.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	require.Equal(t, "https://hooks.example.com/x", cfg.Slack.WebhookURL)
	require.Equal(t, "#ops", cfg.Slack.Channel)
}

func TestLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing, false)
	require.NoError(t, err)

	_, err = Load(missing, true)
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("region: [unterminated"), 0o600))

	_, err := Load(path, true)
	require.Error(t, err)
}

func TestExpandHome(t *testing.T) {
	t.Setenv("AMAZONIP_STATE_FILE", "~/custom-ip")
	cfg, err := Load("", false)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(homeDir(), "custom-ip"), cfg.StateFile)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing security group", func(c *Config) { c.SecurityGroup = "" }, true},
		{"blank security group", func(c *Config) { c.SecurityGroup = "  " }, true},
		{"port zero", func(c *Config) { c.Port = 0 }, true},
		{"port too large", func(c *Config) { c.Port = 70000 }, true},
		{"bad protocol", func(c *Config) { c.Protocol = "icmp" }, true},
		{"empty ip service", func(c *Config) { c.IPService = "" }, true},
		{"zero timeout", func(c *Config) { c.APITimeout = 0 }, true},
		{"ssm without file", func(c *Config) { c.StateFile = ""; c.SSMParameter = "/amazonip/ip" }, false},
		{"no state backend", func(c *Config) { c.StateFile = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SecurityGroup = "sg-123"
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateMissingSecurityGroupSentinel(t *testing.T) {
	require.ErrorIs(t, Default().Validate(), ErrNoSecurityGroup)
}
