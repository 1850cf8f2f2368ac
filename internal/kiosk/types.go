package kiosk

import (
	"fmt"
	"time"
)

// Platform identifies the operating system family of a managed device.
type Platform string

const (
	PlatformAndroid Platform = "Android"
	PlatformIOS     Platform = "iOS"
)

// DeviceStatus is the server-authoritative rental state of a device.
type DeviceStatus string

const (
	StatusAvailable DeviceStatus = "available"
	StatusRented    DeviceStatus = "rented"
)

// DeviceRecord mirrors one physical test device as reported by the server.
// The server enforces that Status == rented exactly when CurrentRenter is
// non-empty; the client never flips Status locally.
type DeviceRecord struct {
	ID                   string       `json:"id"`
	DeviceNumber         string       `json:"deviceNumber"`
	ProductName          string       `json:"productName"`
	ModelName            string       `json:"modelName,omitempty"`
	OSVersion            string       `json:"osVersion"`
	Platform             Platform     `json:"platform"`
	IsRootedOrJailbroken bool         `json:"isRootedOrJailbroken"`
	Status               DeviceStatus `json:"status"`
	CurrentRenter        string       `json:"currentRenter,omitempty"`
	RentedAt             string       `json:"rentedAt,omitempty"`
}

// Rented reports whether the device is currently held by a renter.
func (d DeviceRecord) Rented() bool {
	return d.Status == StatusRented
}

// ParsedRentedAt returns the rental start timestamp when present.
func (d DeviceRecord) ParsedRentedAt() time.Time {
	return parseTime(d.RentedAt)
}

// Label returns the human-facing short form used in listings and reports.
func (d DeviceRecord) Label() string {
	if d.DeviceNumber == "" {
		return d.ProductName
	}
	return fmt.Sprintf("%s - %s", d.DeviceNumber, d.ProductName)
}

// StatusSnapshot mirrors the payload of GET /system/status. It is replaced
// wholesale on every update; when IsTestMode is false the test fields carry
// no meaning and consumers must ignore them.
type StatusSnapshot struct {
	IsTestMode    bool   `json:"isTestMode"`
	TestType      string `json:"testType,omitempty"`
	TestMessage   string `json:"testMessage,omitempty"`
	TestStartDate string `json:"testStartDate,omitempty"`
	TestEndDate   string `json:"testEndDate,omitempty"`
}

// ParsedTestStart returns the maintenance window start when present.
func (s StatusSnapshot) ParsedTestStart() time.Time {
	return parseTime(s.TestStartDate)
}

// ParsedTestEnd returns the maintenance window end when present.
func (s StatusSnapshot) ParsedTestEnd() time.Time {
	return parseTime(s.TestEndDate)
}

// RentRequest is the body of POST /devices/rent.
type RentRequest struct {
	DeviceIDs  []string `json:"deviceIds"`
	RenterName string   `json:"renterName"`
}

// MultiReturnResult mirrors the partitioned response of the bulk return
// endpoint. Both partitions must be reported to the user; a partial failure
// is neither a plain success nor a plain failure.
type MultiReturnResult struct {
	Summary MultiReturnSummary   `json:"summary"`
	Failed  []MultiReturnFailure `json:"failed"`
}

// MultiReturnSummary counts the two partitions of a bulk return.
type MultiReturnSummary struct {
	SuccessCount int `json:"successCount"`
	FailedCount  int `json:"failedCount"`
}

// MultiReturnFailure describes one device the server refused to return.
type MultiReturnFailure struct {
	DeviceNumber string `json:"deviceNumber"`
	Reason       string `json:"reason"`
}

// NewDevice is the body of the admin create endpoint.
type NewDevice struct {
	DeviceNumber         string   `json:"deviceNumber"`
	ProductName          string   `json:"productName"`
	ModelName            string   `json:"modelName,omitempty"`
	OSVersion            string   `json:"osVersion"`
	Platform             Platform `json:"platform"`
	IsRootedOrJailbroken bool     `json:"isRootedOrJailbroken"`
}

// DevicePatch carries partial updates for the admin PATCH endpoint. Nil
// fields are omitted from the request body and left unchanged server-side.
type DevicePatch struct {
	DeviceNumber         *string   `json:"deviceNumber,omitempty"`
	ProductName          *string   `json:"productName,omitempty"`
	ModelName            *string   `json:"modelName,omitempty"`
	OSVersion            *string   `json:"osVersion,omitempty"`
	Platform             *Platform `json:"platform,omitempty"`
	IsRootedOrJailbroken *bool     `json:"isRootedOrJailbroken,omitempty"`
}

// AdminReturnRequest is the body of the admin return endpoint. The QA
// password is checked server-side; a mismatch surfaces as 401.
type AdminReturnRequest struct {
	RenterName string `json:"renterName"`
	Password   string `json:"password"`
}

// RentalRecord mirrors one entry of the rental history.
type RentalRecord struct {
	ID           string   `json:"id"`
	DeviceID     string   `json:"deviceId"`
	DeviceNumber string   `json:"deviceNumber"`
	ProductName  string   `json:"productName"`
	Platform     Platform `json:"platform"`
	RenterName   string   `json:"renterName"`
	RentedAt     string   `json:"rentedAt"`
	ReturnedAt   string   `json:"returnedAt,omitempty"`
}

// Active reports whether the rental is still open.
func (r RentalRecord) Active() bool {
	return r.ReturnedAt == ""
}

// Duration renders the rental span in a compact human form. Open rentals
// report "ongoing".
func (r RentalRecord) Duration() string {
	if r.ReturnedAt == "" {
		return "ongoing"
	}
	start, end := parseTime(r.RentedAt), parseTime(r.ReturnedAt)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return "-"
	}
	return FormatDuration(end.Sub(start))
}

// RentalStats mirrors GET /rentals/stats.
type RentalStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Returned int `json:"returned"`
}

// PlatformStat is one row of the per-platform rental statistics.
type PlatformStat struct {
	Platform Platform `json:"platform"`
	Count    int      `json:"count"`
}

// Credentials is the body of POST /auth/login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the JWT issued for the admin surface.
type LoginResponse struct {
	Token string `json:"token"`
}

// FormatDuration renders a duration as days/hours/minutes, dropping leading
// zero units.
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int(d / (24 * time.Hour))
	hours := int(d/time.Hour) % 24
	minutes := int(d/time.Minute) % 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// FormatTime renders a server timestamp in local time, or "-" when absent
// or unparseable.
func FormatTime(value string) string {
	t := parseTime(value)
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
