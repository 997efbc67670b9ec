package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"cutover/internal/api"
	"cutover/internal/dependency"
)

// Duration wraps time.Duration so YAML documents can use human-readable
// values like "90s" or "5m". time.ParseDuration does the heavy lifting.
type Duration time.Duration

// UnmarshalYAML decodes a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML encodes the duration back to its string form.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Defaults tune action execution when a descriptor does not override them.
type Defaults struct {
	// ActionTimeout bounds a single start/stop transition including state
	// polling.
	ActionTimeout Duration `yaml:"actionTimeout"`

	// PollInterval is the state polling cadence during a transition.
	PollInterval Duration `yaml:"pollInterval"`

	// DrainTimeout bounds the EOD in-flight transaction drain wait.
	DrainTimeout Duration `yaml:"drainTimeout"`

	// MaxConcurrentTransitions caps how many services of one dependency
	// phase transition at the same time. Zero means unbounded within a
	// phase; phase membership already limits cardinality to independent
	// services.
	MaxConcurrentTransitions int `yaml:"maxConcurrentTransitions"`
}

// SSHTarget describes how to reach a remote host for transition commands.
type SSHTarget struct {
	// Addr is the host:port SSH endpoint.
	Addr string `yaml:"addr"`

	// User is the SSH login user.
	User string `yaml:"user"`

	// KeyFile is the path to the private key used for authentication.
	KeyFile string `yaml:"keyFile"`

	// KnownHostsFile pins host keys; empty falls back to ~/.ssh/known_hosts.
	KnownHostsFile string `yaml:"knownHostsFile,omitempty"`
}

// ServiceDescriptor declares one managed service: where it runs, which tier
// it belongs to, what it depends on, and how its lifecycle actions behave.
type ServiceDescriptor struct {
	// Name uniquely identifies the service within its environment.
	Name string `yaml:"name"`

	// Host is the machine the service runs on. Empty or the local hostname
	// selects local systemd execution; anything else requires SSH settings.
	Host string `yaml:"host,omitempty"`

	// SSH carries the remote access settings for non-local hosts.
	SSH *SSHTarget `yaml:"ssh,omitempty"`

	// Domain is the backend tier: core-banking, payment-hub, queue-manager
	// or database.
	Domain api.ServiceDomain `yaml:"domain"`

	// Unit is the systemd unit controlled by lifecycle actions.
	Unit string `yaml:"unit"`

	// DependsOn lists services that must be running before this one starts.
	DependsOn []string `yaml:"dependsOn,omitempty"`

	// ActionTimeout overrides Defaults.ActionTimeout when non-zero.
	ActionTimeout Duration `yaml:"actionTimeout,omitempty"`

	// PollInterval overrides Defaults.PollInterval when non-zero.
	PollInterval Duration `yaml:"pollInterval,omitempty"`
}

// Environment groups the service descriptors of one deployed environment.
type Environment struct {
	// Services are the managed descriptors of this environment.
	Services []ServiceDescriptor `yaml:"services"`

	// ShutdownServicesOnEOD stops all services in reverse dependency order
	// as the final EOD phase.
	ShutdownServicesOnEOD bool `yaml:"shutdownServicesOnEOD,omitempty"`
}

// CutoverConfig is the root configuration document.
type CutoverConfig struct {
	// StorePath is the SQLite file holding the operation audit log.
	StorePath string `yaml:"storePath,omitempty"`

	// Defaults apply to every descriptor that does not override them.
	Defaults Defaults `yaml:"defaults"`

	// Environments maps environment name to its service set.
	Environments map[string]Environment `yaml:"environments"`
}

// GetDefaultConfig returns the built-in configuration used as the base that
// config.yaml overlays.
func GetDefaultConfig() CutoverConfig {
	return CutoverConfig{
		Defaults: Defaults{
			ActionTimeout: Duration(120 * time.Second),
			PollInterval:  Duration(2 * time.Second),
			DrainTimeout:  Duration(10 * time.Minute),
		},
		Environments: map[string]Environment{},
	}
}

// Validate checks the whole document: per-environment name uniqueness, known
// domains, resolvable and acyclic dependencies, and SSH settings for remote
// hosts.
func (c *CutoverConfig) Validate() error {
	for envName, env := range c.Environments {
		seen := make(map[string]bool, len(env.Services))
		nodes := make([]dependency.Node, 0, len(env.Services))

		for _, svc := range env.Services {
			if svc.Name == "" {
				return api.NewValidationError("services", "environment %s contains a service without a name", envName)
			}
			if seen[svc.Name] {
				return api.NewValidationError("services", "duplicate service name %s in environment %s", svc.Name, envName)
			}
			seen[svc.Name] = true

			switch svc.Domain {
			case api.DomainCoreBanking, api.DomainPaymentHub, api.DomainQueueManager, api.DomainDatabase:
			default:
				return api.NewValidationError("domain", "service %s has unknown domain %q", svc.Name, string(svc.Domain))
			}

			if svc.Unit == "" {
				return api.NewValidationError("unit", "service %s has no systemd unit", svc.Name)
			}

			nodes = append(nodes, dependency.Node{Name: svc.Name, DependsOn: svc.DependsOn})
		}

		if err := dependency.New(nodes).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnvironmentNames returns the configured environment names sorted by the
// caller if ordering matters.
func (c *CutoverConfig) EnvironmentNames() []string {
	names := make([]string, 0, len(c.Environments))
	for name := range c.Environments {
		names = append(names, name)
	}
	return names
}

// ActionTimeoutFor resolves the effective action timeout for a descriptor.
func (c *CutoverConfig) ActionTimeoutFor(svc ServiceDescriptor) time.Duration {
	if svc.ActionTimeout > 0 {
		return svc.ActionTimeout.Std()
	}
	return c.Defaults.ActionTimeout.Std()
}

// PollIntervalFor resolves the effective poll interval for a descriptor.
func (c *CutoverConfig) PollIntervalFor(svc ServiceDescriptor) time.Duration {
	if svc.PollInterval > 0 {
		return svc.PollInterval.Std()
	}
	return c.Defaults.PollInterval.Std()
}
