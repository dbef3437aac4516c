package redfish

import (
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	cache "github.com/robfig/go-cache"
	"github.com/stmcginnis/gofish"

	"github.com/device-management-toolkit/redfish-collector/config"
	"github.com/device-management-toolkit/redfish-collector/pkg/logger"
)

const (
	// ServiceRoot is the entry point of every Redfish service.
	ServiceRoot = "/redfish/v1/"

	_cacheCleanup = 30 * time.Second
	_cacheTTL     = time.Hour
)

// Client holds the authenticated session and fetches raw resources.
// Fetched bodies are cached per run keyed by path, so endpoints reachable
// through both the standard graph and OEM extension links are requested
// once.
type Client struct {
	api   *gofish.APIClient
	cache *cache.Cache
	log   logger.Interface
}

// Connect opens an authenticated session against the target. Session
// handling, encoding and retries are the client library's business; the
// collector only configures them.
func Connect(cfg config.Target, log logger.Interface) (*Client, error) {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.Retries
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}, //nolint:gosec // BMCs commonly run self-signed certificates
	}
	retryClient.Logger = nil

	api, err := gofish.Connect(gofish.ClientConfig{
		Endpoint:   cfg.Endpoint(),
		Username:   cfg.Username,
		Password:   cfg.Password,
		Insecure:   !cfg.VerifyTLS,
		BasicAuth:  cfg.BasicAuth,
		HTTPClient: retryClient.StandardClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("redfish - Connect - gofish.Connect: %w", err)
	}

	if svc := api.Service; svc != nil {
		log.Debug("redfish - Connect - service vendor=%s version=%s", svc.Vendor, svc.RedfishVersion)
	}

	return &Client{
		api:   api,
		cache: cache.New(0, _cacheCleanup),
		log:   log,
	}, nil
}

// Close logs the session out.
func (c *Client) Close() {
	c.api.Logout()
}

// Fetch performs a single-resource GET.
func (c *Client) Fetch(path string) (Resource, error) {
	if cached, ok := c.cache.Get(path); ok {
		return cached.(Resource), nil
	}

	resp, err := c.api.Get(path)
	if err != nil {
		return Resource{}, fmt.Errorf("redfish - Fetch - GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Resource{}, fmt.Errorf("redfish - Fetch - GET %s: %w (%d)", path, ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Resource{}, fmt.Errorf("redfish - Fetch - read %s: %w", path, err)
	}

	res := Resource{Path: path, Body: body}
	c.cache.Set(path, res, _cacheTTL)

	return res, nil
}

// FetchCollection expands a collection by fetching every member. A failed
// member is skipped with a warning; a snapshot is best effort.
func (c *Client) FetchCollection(col Resource) []Resource {
	return c.FetchEach(col.Members())
}

// FetchEach fetches a list of hrefs, skipping failures.
func (c *Client) FetchEach(paths []string) []Resource {
	resources := make([]Resource, 0, len(paths))

	for _, path := range paths {
		res, err := c.Fetch(path)
		if err != nil {
			c.log.Warn("redfish - FetchEach - skipping %s: %s", path, err)

			continue
		}

		resources = append(resources, res)
	}

	return resources
}
