package vhall

import (
	"context"
	"errors"
	"fmt"

	"github.com/xxscloud/vhall/client"
)

var (
	// ErrUnsupported is returned by operations the selected API variant
	// does not offer.
	ErrUnsupported = errors.New("operation not supported by api variant")
	// ErrEmptyContent is returned when an asset carries no content.
	ErrEmptyContent = errors.New("asset content is empty")
)

// VHall exposes the remote operations for one application credential.
// It is safe for concurrent use.
type VHall struct {
	c *client.Client
}

// New builds the underlying [client.Client] and wraps it.
func New(cred client.Credential, variant client.Variant, opts ...client.Option) (*VHall, error) {
	c, err := client.Build(cred, variant, opts...)
	if err != nil {
		return nil, err
	}

	return &VHall{c: c}, nil
}

// NewFromClient wraps an already built client.
func NewFromClient(c *client.Client) *VHall {
	return &VHall{c: c}
}

// Client returns the underlying signing client.
func (v *VHall) Client() *client.Client {
	return v.c
}

// endpoint pairs the paths of one operation across variants. An empty
// path means the variant does not offer it.
type endpoint struct {
	name    string
	legacy  string
	current string
}

func (e endpoint) path(variant client.Variant) string {
	if variant == client.Legacy {
		return e.legacy
	}
	return e.current
}

// call resolves ep for the client's variant and executes it.
func (v *VHall) call(ctx context.Context, ep endpoint, params client.Params, opts ...client.PostOption) (any, error) {
	path, err := v.resolve(ep)
	if err != nil {
		return nil, err
	}

	return v.c.Call(ctx, path, params, opts...)
}

func (v *VHall) resolve(ep endpoint) (string, error) {
	path := ep.path(v.c.Variant())
	if path == "" {
		return "", fmt.Errorf("%w: %s on %s", ErrUnsupported, ep.name, v.c.Variant())
	}

	return path, nil
}
