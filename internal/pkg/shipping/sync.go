package shipping

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluezpowerhouse/autoshop/app/models"
)

// CarrierClient is a thin client against one carrier's tracking API. The
// carriers push state via webhooks; these clients only serve the manual
// lookup endpoint and the connection test that account sync runs.
type CarrierClient interface {
	TestConnection(ctx context.Context) error
	GetTrackingInfo(ctx context.Context, trackingNumber string) (map[string]any, error)
}

// NewCarrierClient builds the client matching the account's provider.
func NewCarrierClient(account *models.ShippingAccount) (CarrierClient, error) {
	base := &carrierHTTPClient{
		account: account,
		client:  &http.Client{Timeout: 20 * time.Second},
	}
	switch models.NormalizeProvider(account.Provider) {
	case models.ProviderFedex:
		base.baseURL = "https://apis.fedex.com"
		base.trackPath = func(tn string) string { return "/track/v1/trackingnumbers?trackingNumber=" + url.QueryEscape(tn) }
		base.authHeader = "Authorization"
		base.authValue = "Bearer " + account.APIKey
	case models.ProviderUPS:
		base.baseURL = "https://onlinetools.ups.com/api"
		base.trackPath = func(tn string) string { return "/track/v1/details/" + url.PathEscape(tn) }
		base.authHeader = "AccessLicenseNumber"
		base.authValue = account.APIKey
	case models.ProviderDHL:
		base.baseURL = "https://api-eu.dhl.com"
		base.trackPath = func(tn string) string { return "/track/shipments?trackingNumber=" + url.QueryEscape(tn) }
		base.authHeader = "DHL-API-Key"
		base.authValue = account.APIKey
	case models.ProviderUSPS:
		base.baseURL = "https://secure.shippingapis.com/ShippingAPI.dll"
		base.trackPath = func(tn string) string {
			return "?API=TrackV2&XML=" + url.QueryEscape(fmt.Sprintf(`<TrackRequest USERID=%q><TrackID ID=%q/></TrackRequest>`, account.APIKey, tn))
		}
	default:
		return nil, fmt.Errorf("no carrier client for provider %q", account.Provider)
	}
	return base, nil
}

type carrierHTTPClient struct {
	account    *models.ShippingAccount
	client     *http.Client
	baseURL    string
	trackPath  func(trackingNumber string) string
	authHeader string
	authValue  string
}

func (c *carrierHTTPClient) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.trackPath("0000000000"), nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("connection test for %s failed: %w", c.account.Provider, err)
	}
	defer resp.Body.Close()

	// Carrier APIs answer 400/404 for an unknown test tracking number; only
	// auth and server errors mean the account is misconfigured.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode >= 500 {
		return fmt.Errorf("connection test for %s failed: status %d", c.account.Provider, resp.StatusCode)
	}
	return nil
}

func (c *carrierHTTPClient) GetTrackingInfo(ctx context.Context, trackingNumber string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.trackPath(trackingNumber), nil)
	if err != nil {
		return nil, err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking lookup failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tracking lookup failed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var info map[string]any
	if err := json.Unmarshal(body, &info); err != nil {
		// USPS answers XML; hand the raw document back instead of failing.
		return map[string]any{"raw_response": strings.TrimSpace(string(body))}, nil
	}
	return info, nil
}

func (c *carrierHTTPClient) authorize(req *http.Request) {
	if c.authHeader != "" && c.account.APIKey != "" {
		req.Header.Set(c.authHeader, c.authValue)
	}
}

// SyncResult reports the outcome of one account's sync run.
type SyncResult struct {
	AccountID   uint   `json:"account_id"`
	Provider    string `json:"provider"`
	AccountName string `json:"account_name"`
	Synced      bool   `json:"synced"`
	Error       string `json:"error,omitempty"`
}

// SyncAccounts runs a connection test against every active account and
// refreshes last_sync for the ones that pass. Accounts without a carrier
// client (the unassigned sentinel included) are skipped.
func (s *Service) SyncAccounts(ctx context.Context) ([]SyncResult, error) {
	accounts, err := s.repo.ListActiveAccounts()
	if err != nil {
		return nil, err
	}

	results := make([]SyncResult, 0, len(accounts))
	for i := range accounts {
		account := &accounts[i]
		result := SyncResult{
			AccountID:   account.ID,
			Provider:    account.Provider,
			AccountName: account.AccountName,
		}

		client, err := NewCarrierClient(account)
		if err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}

		if err := client.TestConnection(ctx); err != nil {
			result.Error = err.Error()
		} else if err := s.repo.TouchAccountLastSync(account.ID); err != nil {
			result.Error = err.Error()
		} else {
			result.Synced = true
		}
		results = append(results, result)
	}

	return results, nil
}
