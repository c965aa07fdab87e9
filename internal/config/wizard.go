package config

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
)

// WizardResult holds the user's choices from the init wizard.
type WizardResult struct {
	AppName        string
	Environment    string
	BuildContext   string
	Port           int
	RegistryHost   string
	Repository     string
	InfraWorkdir   string
	Region         string
	RemoteUser     string
	PrivateKeyPath string
	Archive        bool
	ArchiveBucket  string
}

// RunWizard runs the interactive configuration wizard.
func RunWizard(ctx context.Context) (*WizardResult, error) {
	result := &WizardResult{
		Environment:  "staging",
		BuildContext: "./app",
		Port:         5000,
		InfraWorkdir: "./infra",
		Region:       "eu-central-1",
		RemoteUser:   "ubuntu",
	}
	portStr := strconv.Itoa(result.Port)

	form := huh.NewForm(
		// Application identity
		huh.NewGroup(
			huh.NewInput().
				Title("Application name").
				Description("Used as the Deployment name and pod selector (DNS-safe, lowercase)").
				Placeholder("my-app").
				Value(&result.AppName).
				Validate(validateAppName),

			huh.NewInput().
				Title("Environment").
				Description("Deployment target this config describes").
				Value(&result.Environment).
				Validate(validateAppName),
		),

		// Build
		huh.NewGroup(
			huh.NewInput().
				Title("Build context").
				Description("Directory containing the application source and Dockerfile").
				Value(&result.BuildContext),

			huh.NewInput().
				Title("Application port").
				Description("Port the application listens on inside the container").
				Value(&portStr).
				Validate(validatePort),
		),

		// Registry
		huh.NewGroup(
			huh.NewInput().
				Title("Registry host").
				Description("Container registry address, e.g. registry.example.com").
				Value(&result.RegistryHost).
				Validate(requireValue("registry host")),

			huh.NewInput().
				Title("Repository").
				Description("Image repository under the registry host").
				Value(&result.Repository).
				Validate(requireValue("repository")),
		),

		// Infrastructure
		huh.NewGroup(
			huh.NewInput().
				Title("Infrastructure workdir").
				Description("Directory holding the terraform module").
				Value(&result.InfraWorkdir),

			huh.NewSelect[string]().
				Title("Region").
				Description("AWS region the instance lives in").
				Options(
					huh.NewOption("Frankfurt (eu-central-1)", "eu-central-1"),
					huh.NewOption("Ireland (eu-west-1)", "eu-west-1"),
					huh.NewOption("N. Virginia (us-east-1)", "us-east-1"),
					huh.NewOption("Oregon (us-west-2)", "us-west-2"),
				).
				Value(&result.Region),
		),

		// Remote access
		huh.NewGroup(
			huh.NewInput().
				Title("SSH user").
				Description("Login user on the provisioned host").
				Value(&result.RemoteUser).
				Validate(requireValue("SSH user")),

			huh.NewInput().
				Title("SSH private key path").
				Description("Path to the key authenticating the deployment session").
				Placeholder("~/.ssh/id_rsa").
				Value(&result.PrivateKeyPath).
				Validate(requireValue("private key path")),
		),

		// Archive
		huh.NewGroup(
			huh.NewConfirm().
				Title("Archive run records to object storage?").
				Description("Uploads run records and logs to an S3 bucket after each run").
				Value(&result.Archive),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Archive bucket").
				Value(&result.ArchiveBucket).
				Validate(requireValue("bucket")),
		).WithHideFunc(func() bool { return !result.Archive }),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return nil, fmt.Errorf("wizard canceled: %w", err)
	}

	result.Port, _ = strconv.Atoi(portStr)
	return result, nil
}

// ToConfig converts the wizard result to a Config with defaults applied.
// All fields end up explicit so the generated YAML documents itself.
func (r *WizardResult) ToConfig() *Config {
	cfg := &Config{
		AppName:     r.AppName,
		Environment: r.Environment,
		Build: BuildConfig{
			Context: r.BuildContext,
			Port:    r.Port,
		},
		Registry: RegistryConfig{
			Host:       r.RegistryHost,
			Repository: r.Repository,
		},
		Infra: InfraConfig{
			Workdir: r.InfraWorkdir,
			Region:  r.Region,
		},
		Remote: RemoteConfig{
			User:           r.RemoteUser,
			PrivateKeyPath: r.PrivateKeyPath,
		},
		Manifests: ManifestsConfig{
			Deployment: "manifests/deployment.yaml",
			Service:    "manifests/service.yaml",
		},
		Archive: ArchiveConfig{
			Enabled: r.Archive,
			Bucket:  r.ArchiveBucket,
			Region:  r.Region,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// validateAppName keeps names usable as Kubernetes object names and lock
// file keys.
func validateAppName(s string) error {
	if s == "" {
		return fmt.Errorf("name is required")
	}
	if len(s) > 63 {
		return fmt.Errorf("name must be 63 characters or less")
	}
	s = strings.ToLower(s)
	for _, c := range s {
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
			return fmt.Errorf("name can only contain lowercase letters, numbers, and hyphens")
		}
	}
	if s[0] == '-' || s[len(s)-1] == '-' {
		return fmt.Errorf("name cannot start or end with a hyphen")
	}
	return nil
}

func validatePort(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("port must be a number")
	}
	if n < 1 || n > 65535 {
		return fmt.Errorf("port must be in 1-65535")
	}
	return nil
}

func requireValue(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", what)
		}
		return nil
	}
}
