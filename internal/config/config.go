// Package config exposes strongly typed deployment configuration structs loaded from YAML.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// App captures process-wide runtime settings such as name, metrics, and logging.
type App struct {
	Name        string `yaml:"name"`
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	PrettyLogs  bool   `yaml:"pretty_logs"`
}

// Paths locates compiled artifacts, deployment records and the transaction journal.
type Paths struct {
	Artifacts   string `yaml:"artifacts"`
	Deployments string `yaml:"deployments"`
	Journal     string `yaml:"journal"`
}

// Config collects every configuration leaf for easy marshaling from YAML.
type Config struct {
	App            App                `yaml:"app"`
	DefaultNetwork string             `yaml:"default_network"`
	Networks       map[string]Network `yaml:"networks"`
	Paths          Paths              `yaml:"paths"`
	Wallet         Wallet             `yaml:"wallet"`
	Scripts        Scripts            `yaml:"scripts"`
}

// Load reads a YAML file from disk, hydrates a Config struct and fills defaults.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	var config Config
	if err := yaml.NewDecoder(file).Decode(&config); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	config.ApplyDefaults()
	return &config, nil
}

// Save persists a Config struct to disk as YAML.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ApplyDefaults fills every unset knob with the value the bundled scripts expect.
func (c *Config) ApplyDefaults() {
	if c.App.Name == "" {
		c.App.Name = "speedrun-deploy"
	}
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Paths.Artifacts == "" {
		c.Paths.Artifacts = "artifacts"
	}
	if c.Paths.Deployments == "" {
		c.Paths.Deployments = "deployments"
	}
	if c.Wallet.PrivateKeyEnv == "" {
		c.Wallet.PrivateKeyEnv = DefaultPrivateKeyEnv
	}
	if c.DefaultNetwork == "" {
		c.DefaultNetwork = "localhost"
	}
	for name, n := range c.Networks {
		n.applyDefaults(name)
		c.Networks[name] = n
	}
	c.Scripts.applyDefaults()
}

// Network returns the named network, or the default one when name is empty.
func (c *Config) Network(name string) (Network, error) {
	if name == "" {
		name = c.DefaultNetwork
	}
	n, ok := c.Networks[name]
	if !ok {
		return Network{}, fmt.Errorf("unknown network %q (configured: %v)", name, c.NetworkNames())
	}
	return n, nil
}

// NetworkNames lists configured networks in sorted order.
func (c *Config) NetworkNames() []string {
	names := make([]string, 0, len(c.Networks))
	for name := range c.Networks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
