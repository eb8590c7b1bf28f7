package client

import (
	"context"
	"fmt"
	"math/big"
	"net/url"

	"github.com/libvault/registry/pkg/registry"
)

// RegisterOptions carries the optional metadata of a registration.
type RegisterOptions struct {
	Description string
	Tags        []string
	Private     bool
	Language    string
}

// Register claims a library name for the caller.
func (c *Client) Register(ctx context.Context, name string, opts RegisterOptions) error {
	body := map[string]any{
		"name":        name,
		"description": opts.Description,
		"tags":        opts.Tags,
		"is_private":  opts.Private,
		"language":    opts.Language,
	}
	return c.do(ctx, "POST", "/v1/libraries", body, nil)
}

// Delete removes a version-less library the caller owns.
func (c *Client) Delete(ctx context.Context, name string) error {
	return c.do(ctx, "DELETE", "/v1/libraries/"+url.PathEscape(name), nil, nil)
}

// ListLibraries returns every registered library name.
func (c *Client) ListLibraries(ctx context.Context) ([]string, error) {
	var resp struct {
		Names []string `json:"names"`
	}
	if err := c.get(ctx, "/v1/libraries", &resp); err != nil {
		return nil, err
	}
	return resp.Names, nil
}

// LibraryInfo returns the full record for one library.
func (c *Client) LibraryInfo(ctx context.Context, name string) (*registry.LibraryInfo, error) {
	var info registry.LibraryInfo
	if err := c.get(ctx, "/v1/libraries/"+url.PathEscape(name), &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Publish records a new version under a library the caller owns.
func (c *Client) Publish(ctx context.Context, name, version, contentRef string, dependencies []string) error {
	body := map[string]any{
		"version":      version,
		"content_ref":  contentRef,
		"dependencies": dependencies,
	}
	return c.do(ctx, "POST", "/v1/libraries/"+url.PathEscape(name)+"/versions", body, nil)
}

// Deprecate flags a published version. Deprecating an already-deprecated
// version succeeds.
func (c *Client) Deprecate(ctx context.Context, name, version string) error {
	path := fmt.Sprintf("/v1/libraries/%s/versions/%s/deprecate",
		url.PathEscape(name), url.PathEscape(version))
	return c.do(ctx, "POST", path, nil, nil)
}

// ListVersions returns a library's version strings in publish order.
func (c *Client) ListVersions(ctx context.Context, name string) ([]string, error) {
	var resp struct {
		Versions []string `json:"versions"`
	}
	if err := c.get(ctx, "/v1/libraries/"+url.PathEscape(name)+"/versions", &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

// VersionInfo returns the record for one published version.
func (c *Client) VersionInfo(ctx context.Context, name, version string) (*registry.VersionInfo, error) {
	var info registry.VersionInfo
	path := fmt.Sprintf("/v1/libraries/%s/versions/%s", url.PathEscape(name), url.PathEscape(version))
	if err := c.get(ctx, path, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetLicense configures the fee and requirement flag on a library the
// caller owns.
func (c *Client) SetLicense(ctx context.Context, name string, fee *big.Int, required bool) error {
	body := map[string]any{"fee": fee.String(), "required": required}
	return c.do(ctx, "PUT", "/v1/libraries/"+url.PathEscape(name)+"/license", body, nil)
}

// Purchase buys a license with the given payment; any amount above the
// configured fee is returned to the caller's balance.
func (c *Client) Purchase(ctx context.Context, name string, payment *big.Int) error {
	body := map[string]any{"payment": payment.String()}
	return c.do(ctx, "POST", "/v1/libraries/"+url.PathEscape(name)+"/license/purchase", body, nil)
}

// HasLicense reports whether an address holds a license for a library.
func (c *Client) HasLicense(ctx context.Context, name, address string) (bool, error) {
	var resp struct {
		HasLicense bool `json:"has_license"`
	}
	path := fmt.Sprintf("/v1/libraries/%s/license/%s", url.PathEscape(name), url.PathEscape(address))
	if err := c.get(ctx, path, &resp); err != nil {
		return false, err
	}
	return resp.HasLicense, nil
}

// Authorize grants an address access to a private library the caller owns.
func (c *Client) Authorize(ctx context.Context, name, address string) error {
	body := map[string]any{"address": address}
	return c.do(ctx, "POST", "/v1/libraries/"+url.PathEscape(name)+"/authorizations", body, nil)
}

// Revoke removes an address from a private library's authorization set.
func (c *Client) Revoke(ctx context.Context, name, address string) error {
	path := fmt.Sprintf("/v1/libraries/%s/authorizations/%s",
		url.PathEscape(name), url.PathEscape(address))
	return c.do(ctx, "DELETE", path, nil, nil)
}

// HasAccess reports whether an address may consume a library.
func (c *Client) HasAccess(ctx context.Context, name, address string) (bool, error) {
	var resp struct {
		HasAccess bool `json:"has_access"`
	}
	path := fmt.Sprintf("/v1/libraries/%s/access/%s", url.PathEscape(name), url.PathEscape(address))
	if err := c.get(ctx, path, &resp); err != nil {
		return false, err
	}
	return resp.HasAccess, nil
}

// Balance returns an address's ledger balance.
func (c *Client) Balance(ctx context.Context, address string) (*big.Int, error) {
	var resp struct {
		Balance string `json:"balance"`
	}
	if err := c.get(ctx, "/v1/ledger/balances/"+url.PathEscape(address), &resp); err != nil {
		return nil, err
	}
	bal, ok := new(big.Int).SetString(resp.Balance, 10)
	if !ok {
		return nil, fmt.Errorf("malformed balance %q in response", resp.Balance)
	}
	return bal, nil
}

// Deposit credits an address through the admin faucet. Requires AdminToken.
func (c *Client) Deposit(ctx context.Context, address string, amount *big.Int) error {
	body := map[string]any{"address": address, "amount": amount.String()}
	return c.do(ctx, "POST", "/v1/ledger/deposits", body, nil)
}

// Health reports whether the gateway is up.
func (c *Client) Health(ctx context.Context) error {
	return c.get(ctx, "/v1/health", nil)
}

// Status returns the gateway's status document.
func (c *Client) Status(ctx context.Context) (map[string]any, error) {
	var resp map[string]any
	if err := c.get(ctx, "/v1/status", &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
