package kiosk

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeviceAPI is the user-facing slice of the kiosk server contract. It is
// implemented by *Client and stubbed in tests.
type DeviceAPI interface {
	FetchAllDevices(ctx context.Context) ([]DeviceRecord, error)
	FetchAvailableDevices(ctx context.Context) ([]DeviceRecord, error)
	FetchRentedBy(ctx context.Context, renter string) ([]DeviceRecord, error)
	Rent(ctx context.Context, req RentRequest) error
	ReturnOne(ctx context.Context, deviceID, renter string) error
	ReturnMany(ctx context.Context, deviceIDs []string, renter string) (MultiReturnResult, error)
	FetchStatus(ctx context.Context) (*StatusSnapshot, error)
}

var _ DeviceAPI = (*Client)(nil)

// Client talks to the kiosk server REST API. It holds no authoritative
// state; every mutation is confirmed by a fresh fetch.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	stream    *http.Client
	userAgent string
	session   string
	token     string
}

const (
	defaultUserAgent      = "loaner/0.1"
	defaultRequestTimeout = 10 * time.Second
)

// Options tune client behavior; the zero value is usable.
type Options struct {
	Timeout     time.Duration
	InsecureTLS bool
	Token       string // bearer token for the admin surface
}

// NewClient builds a Client for the given server URL. A bare host:port is
// accepted and normalized to http.
func NewClient(serverURL string, opts Options) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	transport := http.DefaultTransport
	if opts.InsecureTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
		// The status stream stays open indefinitely; no client timeout.
		stream: &http.Client{
			Transport: transport,
		},
		userAgent: defaultUserAgent,
		session:   uuid.NewString(),
		token:     opts.Token,
	}, nil
}

// WithToken returns a copy of the client that authenticates with the given
// bearer token.
func (c *Client) WithToken(token string) *Client {
	dup := *c
	dup.token = token
	return &dup
}

// FetchAllDevices retrieves every device, available and rented.
func (c *Client) FetchAllDevices(ctx context.Context) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/devices/all", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FetchAvailableDevices retrieves devices open for rental.
func (c *Client) FetchAvailableDevices(ctx context.Context) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/devices/available", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FetchDevice retrieves a single device by id.
func (c *Client) FetchDevice(ctx context.Context, deviceID string) (*DeviceRecord, error) {
	var device DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/devices/"+url.PathEscape(deviceID), nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// FetchRentedBy retrieves the devices currently held by the given renter.
func (c *Client) FetchRentedBy(ctx context.Context, renter string) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	path := "/devices/user/" + url.PathEscape(renter) + "/rented"
	if err := c.do(ctx, http.MethodGet, path, nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// Rent asks the server to rent the listed devices to the named renter. The
// server rejects with 503 while maintenance mode is active.
func (c *Client) Rent(ctx context.Context, req RentRequest) error {
	return c.do(ctx, http.MethodPost, "/devices/rent", req, nil)
}

// ReturnOne returns a single device. The renter name must match the
// recorded renter; mismatches come back as server errors verbatim.
func (c *Client) ReturnOne(ctx context.Context, deviceID, renter string) error {
	path := "/devices/user-return/" + url.PathEscape(deviceID)
	body := struct {
		RenterName string `json:"renterName"`
	}{RenterName: renter}
	return c.do(ctx, http.MethodPost, path, body, nil)
}

// ReturnMany returns several devices at once. The server answers with a
// partitioned result even when some devices fail.
func (c *Client) ReturnMany(ctx context.Context, deviceIDs []string, renter string) (MultiReturnResult, error) {
	var result MultiReturnResult
	req := RentRequest{DeviceIDs: deviceIDs, RenterName: renter}
	if err := c.do(ctx, http.MethodPost, "/devices/user-return-multiple", req, &result); err != nil {
		return MultiReturnResult{}, err
	}
	return result, nil
}

// FetchStatus retrieves the current system status snapshot.
func (c *Client) FetchStatus(ctx context.Context) (*StatusSnapshot, error) {
	var snap StatusSnapshot
	if err := c.do(ctx, http.MethodGet, "/system/status", nil, &snap); err != nil {
		return nil, err
	}
	return &snap, nil
}

// OpenStatusStream opens the live status event channel. The caller owns the
// returned body and must close it; events are parsed by the status package.
func (c *Client) OpenStatusStream(ctx context.Context) (io.ReadCloser, error) {
	rel := &url.URL{Path: "/system/status/stream"}
	reqURL := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")
	c.setCommonHeaders(req)

	resp, err := c.stream.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open status stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		defer func() { _ = resp.Body.Close() }()
		return nil, decodeAPIError(resp.Body, rel.Path, resp.StatusCode)
	}
	return resp.Body, nil
}

// FetchAdminDevices retrieves the admin device listing.
func (c *Client) FetchAdminDevices(ctx context.Context) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/devices/admin/all", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// FetchAdminRented retrieves all currently rented devices.
func (c *Client) FetchAdminRented(ctx context.Context) ([]DeviceRecord, error) {
	var devices []DeviceRecord
	if err := c.do(ctx, http.MethodGet, "/devices/admin/rented", nil, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

// CreateDevice registers a new device in the inventory.
func (c *Client) CreateDevice(ctx context.Context, req NewDevice) (*DeviceRecord, error) {
	var device DeviceRecord
	if err := c.do(ctx, http.MethodPost, "/devices/admin/create", req, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

// UpdateDevice applies a partial update to a device.
func (c *Client) UpdateDevice(ctx context.Context, deviceID string, patch DevicePatch) error {
	path := "/devices/admin/" + url.PathEscape(deviceID)
	return c.do(ctx, http.MethodPatch, path, patch, nil)
}

// DeleteDevice removes a device from the inventory. The server refuses
// while the device is rented.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string) error {
	path := "/devices/admin/" + url.PathEscape(deviceID)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// AdminReturn force-returns a device on behalf of a renter. Requires the QA
// password; a wrong password surfaces as 401.
func (c *Client) AdminReturn(ctx context.Context, deviceID string, req AdminReturnRequest) error {
	path := "/devices/admin/return/" + url.PathEscape(deviceID)
	return c.do(ctx, http.MethodPost, path, req, nil)
}

// FetchRentals retrieves the full rental history.
func (c *Client) FetchRentals(ctx context.Context) ([]RentalRecord, error) {
	return c.fetchRentals(ctx, "/rentals")
}

// FetchActiveRentals retrieves rentals that have not been returned yet.
func (c *Client) FetchActiveRentals(ctx context.Context) ([]RentalRecord, error) {
	return c.fetchRentals(ctx, "/rentals/active")
}

// FetchReturnedRentals retrieves closed rentals.
func (c *Client) FetchReturnedRentals(ctx context.Context) ([]RentalRecord, error) {
	return c.fetchRentals(ctx, "/rentals/returned")
}

// FetchRentalsByRenter retrieves the rental history of one renter.
func (c *Client) FetchRentalsByRenter(ctx context.Context, renter string) ([]RentalRecord, error) {
	return c.fetchRentals(ctx, "/rentals/renter/"+url.PathEscape(renter))
}

// FetchRentalsByDevice retrieves the rental history of one device.
func (c *Client) FetchRentalsByDevice(ctx context.Context, deviceID string) ([]RentalRecord, error) {
	return c.fetchRentals(ctx, "/rentals/device/"+url.PathEscape(deviceID))
}

func (c *Client) fetchRentals(ctx context.Context, path string) ([]RentalRecord, error) {
	var rentals []RentalRecord
	if err := c.do(ctx, http.MethodGet, path, nil, &rentals); err != nil {
		return nil, err
	}
	return rentals, nil
}

// FetchRentalStats retrieves aggregate rental statistics.
func (c *Client) FetchRentalStats(ctx context.Context) (*RentalStats, error) {
	var stats RentalStats
	if err := c.do(ctx, http.MethodGet, "/rentals/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// FetchPlatformStats retrieves rental counts grouped by platform.
func (c *Client) FetchPlatformStats(ctx context.Context) ([]PlatformStat, error) {
	var stats []PlatformStat
	if err := c.do(ctx, http.MethodGet, "/rentals/stats/platform", nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// DeleteRental removes one rental history entry.
func (c *Client) DeleteRental(ctx context.Context, rentalID string) error {
	return c.do(ctx, http.MethodDelete, "/rentals/"+url.PathEscape(rentalID), nil, nil)
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return resp.Token, nil
}

// VerifyToken checks a previously issued token against the server.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	body := struct {
		Token string `json:"token"`
	}{Token: token}
	return c.do(ctx, http.MethodPost, "/auth/verify", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	c.setCommonHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp.Body, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setCommonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Client-Session", c.session)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		return nil, fmt.Errorf("server URL is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server URL %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
