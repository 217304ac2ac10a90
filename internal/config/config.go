package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"gopkg.in/yaml.v3"
)

const (
	DefaultRegion          = "us-east-1"
	DefaultPort            = 22
	DefaultProtocol        = "tcp"
	DefaultIPService       = "http://api.ipify.org/"
	DefaultHTTPTimeout     = 15 * time.Second
	DefaultAPITimeout      = 30 * time.Second
	DefaultRuleDescription = "managed by amazonip"

	stateFileName  = ".amazonip"
	configFileName = ".amazonip.yaml"
)

// ErrNoSecurityGroup is returned by Validate when no security group was supplied.
var ErrNoSecurityGroup = errors.New("no security group given")

type Config struct {
	Region          string        `yaml:"region" env:"REGION"`
	SecurityGroup   string        `yaml:"security_group" env:"SECURITY_GROUP"`
	Force           bool          `yaml:"force" env:"FORCE"`
	Port            int32         `yaml:"port" env:"PORT"`
	Protocol        string        `yaml:"protocol" env:"PROTOCOL"`
	StateFile       string        `yaml:"state_file" env:"STATE_FILE"`
	SSMParameter    string        `yaml:"ssm_parameter" env:"SSM_PARAMETER"`
	IPService       string        `yaml:"ip_service" env:"IP_SERVICE"`
	HTTPTimeout     time.Duration `yaml:"http_timeout" env:"HTTP_TIMEOUT"`
	APITimeout      time.Duration `yaml:"api_timeout" env:"API_TIMEOUT"`
	RuleDescription string        `yaml:"rule_description" env:"RULE_DESCRIPTION"`
	BestEffort      bool          `yaml:"best_effort" env:"BEST_EFFORT"`
	Verbose         bool          `yaml:"verbose" env:"VERBOSE"`
	Slack           SlackConfig   `yaml:"slack" envPrefix:"SLACK_"`
}

type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url" env:"WEBHOOK_URL"`
	Channel    string `yaml:"channel" env:"CHANNEL"`
}

// Default returns the configuration used when nothing else is supplied.
// The state file lives in the user's home directory.
func Default() *Config {
	return &Config{
		Region:          DefaultRegion,
		Port:            DefaultPort,
		Protocol:        DefaultProtocol,
		StateFile:       filepath.Join(homeDir(), stateFileName),
		IPService:       DefaultIPService,
		HTTPTimeout:     DefaultHTTPTimeout,
		APITimeout:      DefaultAPITimeout,
		RuleDescription: DefaultRuleDescription,
	}
}

// DefaultConfigPath is where Load looks when no --config flag was given.
func DefaultConfigPath() string {
	return filepath.Join(homeDir(), configFileName)
}

// Load builds a Config from the defaults, the YAML file at path and the
// AMAZONIP_* environment variables, in that order. A missing file is only
// an error when required is set.
func Load(path string, required bool) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist) && !required:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "AMAZONIP_"}); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.StateFile = ExpandHome(cfg.StateFile)
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.SecurityGroup) == "" {
		return ErrNoSecurityGroup
	}
	if c.Region == "" {
		return fmt.Errorf("region cannot be empty")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.Protocol != "tcp" && c.Protocol != "udp" {
		return fmt.Errorf("invalid protocol: %s", c.Protocol)
	}
	if c.IPService == "" {
		return fmt.Errorf("ip_service cannot be empty")
	}
	if c.HTTPTimeout <= 0 || c.APITimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.SSMParameter == "" && c.StateFile == "" {
		return fmt.Errorf("either state_file or ssm_parameter is required")
	}
	return nil
}

// BackupFile is the sibling file holding the previous run's address.
func (c *Config) BackupFile() string {
	return c.StateFile + ".old"
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// ExpandHome resolves a leading "~" to the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
