// Package config defines the shipway configuration model.
//
// All pipeline components receive configuration by value from a single
// Config loaded at startup. Nothing reads YAML files or environment
// variables past the load step; the image-tag rewrite and other per-run
// derivations produce new values instead of mutating shared state.
package config

import "fmt"

// Default service exposure used when the config omits node_port.
const DefaultNodePort = 30000

// Config holds the full shipway configuration.
type Config struct {
	// AppName names the deployed workload. It is used as the Deployment
	// name, the pod label selector, and the run-lock key prefix.
	AppName string `yaml:"app_name"`

	// Environment names the deployment target (e.g. "staging"). Run locks
	// and infrastructure tags are keyed by it.
	Environment string `yaml:"environment"`

	Build     BuildConfig     `yaml:"build"`
	Registry  RegistryConfig  `yaml:"registry"`
	Infra     InfraConfig     `yaml:"infra"`
	Remote    RemoteConfig    `yaml:"remote"`
	Manifests ManifestsConfig `yaml:"manifests"`
	Archive   ArchiveConfig   `yaml:"archive"`

	// StateDir holds run records, the run counter, and lock files.
	// Defaults to .shipway in the working directory.
	StateDir string `yaml:"state_dir"`
}

// BuildConfig is the immutable recipe for producing the container image.
type BuildConfig struct {
	// Context is the build context directory (e.g. "./app").
	Context string `yaml:"context"`

	// Dockerfile is the build descriptor path, relative to Context.
	Dockerfile string `yaml:"dockerfile"`

	// Port the application listens on inside the container.
	Port int `yaml:"port"`
}

// RegistryConfig locates the image registry.
type RegistryConfig struct {
	// Host is the registry address, e.g. "registry.example.com".
	Host string `yaml:"host"`

	// Repository is the image repository under Host.
	Repository string `yaml:"repository"`
}

// InfraConfig describes the declarative infrastructure target.
type InfraConfig struct {
	// Workdir is the directory holding the terraform module.
	Workdir string `yaml:"workdir"`

	// Region is the AWS region the instance lives in.
	Region string `yaml:"region"`

	// AddressOutput is the terraform output name carrying the instance's
	// public address. Defaults to "public_ip".
	AddressOutput string `yaml:"address_output"`
}

// RemoteConfig configures the SSH session to the provisioned host.
type RemoteConfig struct {
	// Host overrides the provisioner's address output. When set, the
	// provision stage is skipped entirely.
	Host string `yaml:"host"`

	// User is the login user on the host.
	User string `yaml:"user"`

	// PrivateKeyPath points at the SSH private key. The key itself is
	// supplied out of band and never stored in this config.
	PrivateKeyPath string `yaml:"private_key_path"`

	// Port is the SSH port. Defaults to 22.
	Port int `yaml:"port"`
}

// ManifestsConfig locates the workload manifests applied on the host.
type ManifestsConfig struct {
	// Deployment is the path to the deployment manifest YAML.
	Deployment string `yaml:"deployment"`

	// Service is the path to the service manifest YAML.
	Service string `yaml:"service"`

	// Namespace the workload runs in. Defaults to "default".
	Namespace string `yaml:"namespace"`

	// NodePort the service exposes. Defaults to DefaultNodePort.
	NodePort int `yaml:"node_port"`

	// Kubeconfig is an optional local kubeconfig path used by
	// `shipway status` for direct cluster inspection.
	Kubeconfig string `yaml:"kubeconfig"`
}

// ArchiveConfig enables uploading run records to object storage.
type ArchiveConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Bucket   string `yaml:"bucket"`
	Endpoint string `yaml:"endpoint"`
	Region   string `yaml:"region"`

	// AccessKey and SecretKey select static credentials, for
	// S3-compatible services outside the default AWS chain. Leave both
	// empty to use the ambient credential chain.
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
}

// Validate checks required fields and reports the first problem found.
func (c *Config) Validate() error {
	if c.AppName == "" {
		return fmt.Errorf("app_name is required")
	}
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Build.Context == "" {
		return fmt.Errorf("build.context is required")
	}
	if c.Build.Port <= 0 || c.Build.Port > 65535 {
		return fmt.Errorf("build.port must be in 1-65535, got %d", c.Build.Port)
	}
	if c.Registry.Host == "" {
		return fmt.Errorf("registry.host is required")
	}
	if c.Registry.Repository == "" {
		return fmt.Errorf("registry.repository is required")
	}
	if c.Remote.Host == "" && c.Infra.Workdir == "" {
		return fmt.Errorf("either infra.workdir or remote.host must be set")
	}
	if c.Remote.User == "" {
		return fmt.Errorf("remote.user is required")
	}
	if c.Remote.PrivateKeyPath == "" {
		return fmt.Errorf("remote.private_key_path is required")
	}
	if c.Manifests.Deployment == "" {
		return fmt.Errorf("manifests.deployment is required")
	}
	if c.Manifests.Service == "" {
		return fmt.Errorf("manifests.service is required")
	}
	if c.Archive.Enabled && c.Archive.Bucket == "" {
		return fmt.Errorf("archive.bucket is required when archive is enabled")
	}
	return nil
}

// applyDefaults fills zero-valued optional fields.
func (c *Config) applyDefaults() {
	if c.Build.Dockerfile == "" {
		c.Build.Dockerfile = "Dockerfile"
	}
	if c.Infra.AddressOutput == "" {
		c.Infra.AddressOutput = "public_ip"
	}
	if c.Remote.Port == 0 {
		c.Remote.Port = 22
	}
	if c.Manifests.Namespace == "" {
		c.Manifests.Namespace = "default"
	}
	if c.Manifests.NodePort == 0 {
		c.Manifests.NodePort = DefaultNodePort
	}
	if c.StateDir == "" {
		c.StateDir = ".shipway"
	}
}
