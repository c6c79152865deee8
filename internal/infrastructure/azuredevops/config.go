package azuredevops

import (
	"encoding/base64"
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the production Azure DevOps REST endpoint.
	DefaultBaseURL = "https://dev.azure.com"
	// DefaultEntitlementsBaseURL hosts the user entitlements API.
	DefaultEntitlementsBaseURL = "https://vsaex.dev.azure.com"
	// DefaultAPIVersion is the work-item tracking API version.
	DefaultAPIVersion = "7.1-preview"
	// DefaultEntitlementsAPIVersion is the user entitlements API version.
	DefaultEntitlementsAPIVersion = "6.0-preview.3"
)

// Errors for Azure DevOps configuration
var (
	ErrConfigMissingOrganization = errors.New("azuredevops: organization is required")
	ErrConfigMissingPAT          = errors.New("azuredevops: personal access token is required")
)

// Config holds configuration for the Azure DevOps REST API client
type Config struct {
	// Organization is the Azure DevOps organization slug
	Organization string
	// PAT is the personal access token used for basic authentication
	PAT string
	// BaseURL is the REST API endpoint (dev.azure.com in production)
	BaseURL string
	// EntitlementsBaseURL is the user entitlements endpoint (vsaex.dev.azure.com)
	EntitlementsBaseURL string
	// APIVersion is sent as api-version on work-item requests
	APIVersion string
	// EntitlementsAPIVersion is sent as api-version on entitlement requests
	EntitlementsAPIVersion string
	// Timeout is the HTTP request timeout
	Timeout time.Duration
}

// NewConfig creates an Azure DevOps configuration with defaults
func NewConfig(organization, pat string) *Config {
	return &Config{
		Organization:           organization,
		PAT:                    pat,
		BaseURL:                DefaultBaseURL,
		EntitlementsBaseURL:    DefaultEntitlementsBaseURL,
		APIVersion:             DefaultAPIVersion,
		EntitlementsAPIVersion: DefaultEntitlementsAPIVersion,
		Timeout:                30 * time.Second,
	}
}

// Validate validates the configuration and fills in missing defaults
func (c *Config) Validate() error {
	if c.Organization == "" {
		return ErrConfigMissingOrganization
	}
	if c.PAT == "" {
		return ErrConfigMissingPAT
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.EntitlementsBaseURL == "" {
		c.EntitlementsBaseURL = DefaultEntitlementsBaseURL
	}
	if c.APIVersion == "" {
		c.APIVersion = DefaultAPIVersion
	}
	if c.EntitlementsAPIVersion == "" {
		c.EntitlementsAPIVersion = DefaultEntitlementsAPIVersion
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return nil
}

// AuthorizationHeader returns the Basic auth header value for PAT
// authentication: the token is used as the password with an empty
// username.
func (c *Config) AuthorizationHeader() string {
	token := base64.StdEncoding.EncodeToString([]byte(":" + c.PAT))
	return "Basic " + token
}
