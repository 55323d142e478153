package y360client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"diskowner/domain/contracts"
	"diskowner/domain/disk"
	"diskowner/logging"
)

const (
	DefaultDirectoryBaseURL = "https://api360.yandex.net"
	DefaultDiskBaseURL      = "https://cloud-api.yandex.net"

	publicSettingsPath   = "/v1/disk/public/resources/admin/public-settings"
	maxResponseBodyBytes = 1 << 20
)

// Operation names carried by *disk.APIError.
const (
	OpIdentity      = "whoami"
	OpResourceOwner = "resource_owner"
	OpUserProfile   = "user_profile"
)

// Config holds the remote endpoints. Timeout zero leaves the transport default.
type Config struct {
	DirectoryBaseURL string        `env:"Y360_DIRECTORY_API_BASE" envDefault:"https://api360.yandex.net"`
	DiskBaseURL      string        `env:"Y360_DISK_API_BASE" envDefault:"https://cloud-api.yandex.net"`
	Timeout          time.Duration `env:"Y360_HTTP_TIMEOUT" envDefault:"0s"`
}

// DefaultConfig returns the production endpoints.
func DefaultConfig() *Config {
	return &Config{
		DirectoryBaseURL: DefaultDirectoryBaseURL,
		DiskBaseURL:      DefaultDiskBaseURL,
	}
}

// Client calls the Yandex 360 directory and Yandex Disk admin APIs with a single
// OAuth token. It issues one blocking request at a time.
type Client struct {
	httpClient       *http.Client
	token            string
	directoryBaseURL string
	diskBaseURL      string
	logger           *logging.Logger
}

var _ contracts.DirectoryGateway = (*Client)(nil)

// NewClient creates a client for token. A nil cfg uses the production endpoints.
func NewClient(token string, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		httpClient:       &http.Client{Timeout: cfg.Timeout},
		token:            strings.TrimSpace(token),
		directoryBaseURL: trimBaseURL(cfg.DirectoryBaseURL, DefaultDirectoryBaseURL),
		diskBaseURL:      trimBaseURL(cfg.DiskBaseURL, DefaultDiskBaseURL),
		logger:           logging.Default().WithComponent("y360_client"),
	}
}

// Factory returns a contracts.GatewayFactory producing clients for cfg.
func Factory(cfg *Config) contracts.GatewayFactory {
	return func(token string) contracts.DirectoryGateway {
		return NewClient(token, cfg)
	}
}

func trimBaseURL(raw, fallback string) string {
	value := strings.TrimRight(strings.TrimSpace(raw), "/")
	if value == "" {
		return fallback
	}
	return value
}

// Identity calls GET /whoami. Every failure is reported as *disk.APIError.
func (c *Client) Identity(ctx context.Context) (disk.Identity, error) {
	endpoint := c.directoryBaseURL + "/whoami"

	var resp WhoAmIApiResponse
	if err := c.getJSON(ctx, OpIdentity, endpoint, &resp); err != nil {
		return disk.Identity{}, classify(OpIdentity, err, failureMessages{
			transport: "whoami call failed",
		})
	}

	identity := identityFromAPI(resp)
	c.logger.WithContext(ctx).API("Token identity resolved",
		"login", identity.Login,
		"org_count", len(identity.OrgIDs),
		"scope_count", len(identity.Scopes))
	return identity, nil
}

// ResourceOwner resolves the owner of a public resource from its access list.
func (c *Client) ResourceOwner(ctx context.Context, locator disk.Locator) (disk.OwnerReference, error) {
	query := url.Values{}
	query.Set("public_key", quoteAll(locator.String()))
	endpoint := c.diskBaseURL + publicSettingsPath + "?" + query.Encode()

	var resp PublicSettingsApiResponse
	if err := c.getJSON(ctx, OpResourceOwner, endpoint, &resp); err != nil {
		return disk.OwnerReference{}, classify(OpResourceOwner, err, failureMessages{
			notFound:  "public resource not found or does not belong to your organization",
			forbidden: "insufficient rights to read resource information",
			transport: "failed to fetch resource information",
		})
	}

	owner, found, complete := ownerFromAccesses(resp.Accesses)
	if !found {
		return disk.OwnerReference{}, &disk.APIError{
			Op:      OpResourceOwner,
			Message: "resource owner not found in access data",
		}
	}
	if !complete {
		return disk.OwnerReference{}, &disk.APIError{
			Op:      OpResourceOwner,
			Message: "resource owner found but owner data is incomplete",
		}
	}

	c.logger.WithContext(ctx).API("Resource owner resolved",
		"owner_uid", owner.UserID,
		"org_id", owner.OrgID,
		"access_entries", len(resp.Accesses))
	return owner, nil
}

// UserProfile fetches a user from the organization directory.
func (c *Client) UserProfile(ctx context.Context, orgID, userID int64) (disk.UserProfile, error) {
	endpoint := fmt.Sprintf("%s/directory/v1/org/%d/users/%d", c.directoryBaseURL, orgID, userID)

	var resp UserApiResponse
	if err := c.getJSON(ctx, OpUserProfile, endpoint, &resp); err != nil {
		return disk.UserProfile{}, classify(OpUserProfile, err, failureMessages{
			notFound:  fmt.Sprintf("user with ID %d not found in organization %d", userID, orgID),
			forbidden: "insufficient rights to read user information",
			transport: "failed to fetch user information",
		})
	}

	return profileFromAPI(resp), nil
}

// statusError is a non-2xx response.
type statusError struct {
	StatusCode int
	Detail     string
}

func (e *statusError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// failureMessages holds the operator-facing text for one operation. Empty
// status messages fall back to a generic HTTP description.
type failureMessages struct {
	notFound  string
	forbidden string
	transport string
}

func classify(op string, err error, msgs failureMessages) *disk.APIError {
	var statusErr *statusError
	if !errors.As(err, &statusErr) {
		return &disk.APIError{
			Op:      op,
			Message: fmt.Sprintf("%s: %v", msgs.transport, err),
			Err:     err,
		}
	}

	var message string
	switch statusErr.StatusCode {
	case http.StatusNotFound:
		message = msgs.notFound
	case http.StatusForbidden:
		message = msgs.forbidden
	case http.StatusUnauthorized:
		message = "invalid authorization token"
	}
	if message == "" {
		message = fmt.Sprintf("%s: %v", msgs.transport, statusErr)
	}

	return &disk.APIError{
		Op:         op,
		StatusCode: statusErr.StatusCode,
		Message:    message,
		Err:        err,
	}
}

func (c *Client) newRequest(ctx context.Context, endpoint string) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID, ok := logging.RequestIDFromContext(ctx)
	if !ok {
		requestID = uuid.NewString()
	}

	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	return req, nil
}

// getJSON performs a GET and decodes a 2xx JSON body into out.
func (c *Client) getJSON(ctx context.Context, op, endpoint string, out any) error {
	req, err := c.newRequest(ctx, endpoint)
	if err != nil {
		return err
	}

	log := c.logger.WithContext(ctx)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	log.Performance(op, time.Since(start))
	if err != nil {
		log.API("Request failed", "operation", op, "error", err)
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	log.API("Response received", "operation", op, "status", resp.StatusCode, "bytes", len(payload))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{
			StatusCode: resp.StatusCode,
			Detail:     summarizeBody(payload),
		}
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return errors.New("empty response body")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// summarizeBody extracts the API's own error description when present.
func summarizeBody(payload []byte) string {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return ""
	}

	var envelope struct {
		Message     string `json:"message"`
		Description string `json:"description"`
		Error       string `json:"error"`
	}
	if err := json.Unmarshal(payload, &envelope); err == nil {
		for _, v := range []string{envelope.Message, envelope.Description, envelope.Error} {
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}

	if strings.HasPrefix(trimmed, "<") {
		return "html response body omitted"
	}
	if len(trimmed) > 200 {
		return trimmed[:200] + "..."
	}
	return trimmed
}

// quoteAll percent-encodes every byte outside the RFC 3986 unreserved set,
// including '/', ':' and '+'.
func quoteAll(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if isUnreserved(ch) {
			b.WriteByte(ch)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[ch>>4])
		b.WriteByte(hex[ch&0x0F])
	}
	return b.String()
}

func isUnreserved(ch byte) bool {
	switch {
	case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z', '0' <= ch && ch <= '9':
		return true
	case ch == '-', ch == '_', ch == '.', ch == '~':
		return true
	}
	return false
}
