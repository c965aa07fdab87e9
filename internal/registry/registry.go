// Package registry models published image references and registry access.
package registry

import (
	"context"
	"fmt"

	"github.com/google/go-containerregistry/pkg/authn"
	"github.com/google/go-containerregistry/pkg/name"
	v1remote "github.com/google/go-containerregistry/pkg/v1/remote"
)

// ImageReference is a fully qualified, versioned pointer to a published
// container image. Tag holds the unique per-run tag; the stable "latest"
// tag always accompanies it.
type ImageReference struct {
	Registry   string
	Repository string
	Tag        string
}

// String renders the reference as registry/repository:tag.
func (r ImageReference) String() string {
	return fmt.Sprintf("%s/%s:%s", r.Registry, r.Repository, r.Tag)
}

// WithTag returns a copy of the reference pointing at a different tag.
func (r ImageReference) WithTag(tag string) ImageReference {
	r.Tag = tag
	return r
}

// Parse validates s as an image reference and splits it into parts.
func Parse(s string) (ImageReference, error) {
	tag, err := name.NewTag(s)
	if err != nil {
		return ImageReference{}, fmt.Errorf("invalid image reference %q: %w", s, err)
	}

	return ImageReference{
		Registry:   tag.RegistryStr(),
		Repository: tag.RepositoryStr(),
		Tag:        tag.TagStr(),
	}, nil
}

// Client checks registry state. The build stage uses it to confirm a
// pushed tag is addressable before the pipeline advances to deploy.
type Client interface {
	// TagExists reports whether ref resolves to a manifest in the registry.
	TagExists(ctx context.Context, ref ImageReference) (bool, error)
}

// RemoteClient talks to the registry over its HTTPS API using the
// ambient credential keychain (docker config, credential helpers).
type RemoteClient struct{}

// NewRemoteClient creates a registry client.
func NewRemoteClient() *RemoteClient {
	return &RemoteClient{}
}

// TagExists implements Client.
func (c *RemoteClient) TagExists(ctx context.Context, ref ImageReference) (bool, error) {
	tag, err := name.NewTag(ref.String())
	if err != nil {
		return false, fmt.Errorf("invalid image reference %q: %w", ref, err)
	}

	_, err = v1remote.Head(tag,
		v1remote.WithContext(ctx),
		v1remote.WithAuthFromKeychain(authn.DefaultKeychain),
	)
	if err != nil {
		// HEAD failures do not distinguish missing from unauthorized in
		// every registry implementation; report not-found and let the
		// caller surface the underlying error.
		return false, fmt.Errorf("registry check for %s: %w", ref, err)
	}

	return true, nil
}

// MockClient is a function-field fake for tests.
type MockClient struct {
	TagExistsFunc func(ctx context.Context, ref ImageReference) (bool, error)
}

// TagExists implements Client.
func (m *MockClient) TagExists(ctx context.Context, ref ImageReference) (bool, error) {
	if m.TagExistsFunc != nil {
		return m.TagExistsFunc(ctx, ref)
	}
	return true, nil
}
