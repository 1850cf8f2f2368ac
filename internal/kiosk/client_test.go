package kiosk

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseBaseURL_NormalizesAndRejectsEmpty(t *testing.T) {
	u, err := parseBaseURL("127.0.0.1:8080")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" || u.Host != "127.0.0.1:8080" {
		t.Fatalf("url = %q, want http://127.0.0.1:8080", u.String())
	}

	u, err = parseBaseURL("https://kiosk.example.com/api?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	if _, err = parseBaseURL("   "); err == nil {
		t.Fatal("parseBaseURL accepted blank input, want error")
	}
}

func TestClient_UserEndpoints(t *testing.T) {
	t.Parallel()

	var gotRentBody RentRequest
	var gotReturnPath string
	var gotSession string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession = r.Header.Get("X-Client-Session")
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/devices/all":
			_ = json.NewEncoder(w).Encode([]DeviceRecord{
				{ID: "d1", DeviceNumber: "1", Status: StatusAvailable},
				{ID: "d2", DeviceNumber: "2", Status: StatusRented, CurrentRenter: "Kim"},
			})
		case r.URL.Path == "/devices/available":
			_ = json.NewEncoder(w).Encode([]DeviceRecord{{ID: "d1", Status: StatusAvailable}})
		case r.URL.Path == "/devices/user/Kim/rented":
			_ = json.NewEncoder(w).Encode([]DeviceRecord{{ID: "d2", CurrentRenter: "Kim"}})
		case r.URL.Path == "/devices/rent":
			_ = json.NewDecoder(r.Body).Decode(&gotRentBody)
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/devices/user-return/"):
			gotReturnPath = r.URL.Path
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/devices/user-return-multiple":
			_ = json.NewEncoder(w).Encode(MultiReturnResult{
				Summary: MultiReturnSummary{SuccessCount: 2, FailedCount: 1},
				Failed:  []MultiReturnFailure{{DeviceNumber: "2", Reason: "renter name mismatch"}},
			})
		case r.URL.Path == "/system/status":
			_ = json.NewEncoder(w).Encode(StatusSnapshot{IsTestMode: true, TestType: "load test"})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	all, err := c.FetchAllDevices(ctx)
	if err != nil {
		t.Fatalf("FetchAllDevices returned error: %v", err)
	}
	if len(all) != 2 || !all[1].Rented() {
		t.Fatalf("FetchAllDevices = %#v, want 2 devices with d2 rented", all)
	}

	available, err := c.FetchAvailableDevices(ctx)
	if err != nil {
		t.Fatalf("FetchAvailableDevices returned error: %v", err)
	}
	if len(available) != 1 || available[0].ID != "d1" {
		t.Fatalf("FetchAvailableDevices = %#v, want [d1]", available)
	}

	mine, err := c.FetchRentedBy(ctx, "Kim")
	if err != nil {
		t.Fatalf("FetchRentedBy returned error: %v", err)
	}
	if len(mine) != 1 || mine[0].CurrentRenter != "Kim" {
		t.Fatalf("FetchRentedBy = %#v, want Kim's device", mine)
	}

	if err := c.Rent(ctx, RentRequest{DeviceIDs: []string{"d1"}, RenterName: "Lee"}); err != nil {
		t.Fatalf("Rent returned error: %v", err)
	}
	if len(gotRentBody.DeviceIDs) != 1 || gotRentBody.DeviceIDs[0] != "d1" || gotRentBody.RenterName != "Lee" {
		t.Fatalf("rent body = %#v, want d1/Lee", gotRentBody)
	}

	if err := c.ReturnOne(ctx, "d2", "Kim"); err != nil {
		t.Fatalf("ReturnOne returned error: %v", err)
	}
	if gotReturnPath != "/devices/user-return/d2" {
		t.Fatalf("return path = %q, want /devices/user-return/d2", gotReturnPath)
	}

	result, err := c.ReturnMany(ctx, []string{"d1", "d2", "d3"}, "Kim")
	if err != nil {
		t.Fatalf("ReturnMany returned error: %v", err)
	}
	if result.Summary.SuccessCount != 2 || result.Summary.FailedCount != 1 {
		t.Fatalf("summary = %#v, want 2/1", result.Summary)
	}
	if len(result.Failed) != 1 || result.Failed[0].DeviceNumber != "2" {
		t.Fatalf("failed = %#v, want device 2", result.Failed)
	}

	snap, err := c.FetchStatus(ctx)
	if err != nil {
		t.Fatalf("FetchStatus returned error: %v", err)
	}
	if !snap.IsTestMode || snap.TestType != "load test" {
		t.Fatalf("FetchStatus = %#v, want test mode load test", snap)
	}

	if gotSession == "" {
		t.Fatal("request carried no X-Client-Session header")
	}
}

func TestClient_MaintenanceRejectionDecodesMessage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"message":"system test in progress; rentals suspended"}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	err = c.Rent(context.Background(), RentRequest{DeviceIDs: []string{"d1"}, RenterName: "Lee"})
	if err == nil {
		t.Fatal("Rent returned nil, want maintenance error")
	}
	if !IsMaintenance(err) {
		t.Fatalf("IsMaintenance(%v) = false, want true", err)
	}
	if IsUnauthorized(err) {
		t.Fatalf("IsUnauthorized(%v) = true, want false", err)
	}
	if Message(err) != "system test in progress; rentals suspended" {
		t.Fatalf("Message = %q, want server message verbatim", Message(err))
	}
}

func TestClient_AdminEndpointsCarryBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.URL.Path == "/auth/login":
			_ = json.NewEncoder(w).Encode(LoginResponse{Token: "jwt-123"})
		case r.URL.Path == "/devices/admin/create" && r.Method == http.MethodPost:
			_ = json.NewEncoder(w).Encode(DeviceRecord{ID: "d9", DeviceNumber: "9"})
		case r.URL.Path == "/devices/admin/d9" && r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		case r.URL.Path == "/rentals/stats":
			_ = json.NewEncoder(w).Encode(RentalStats{Total: 10, Active: 3, Returned: 7})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, Options{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx := context.Background()
	token, err := c.Login(ctx, Credentials{Username: "qa", Password: "secret"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token != "jwt-123" {
		t.Fatalf("token = %q, want jwt-123", token)
	}

	admin := c.WithToken(token)
	created, err := admin.CreateDevice(ctx, NewDevice{DeviceNumber: "9", ProductName: "Pixel 9", Platform: PlatformAndroid})
	if err != nil {
		t.Fatalf("CreateDevice returned error: %v", err)
	}
	if created.ID != "d9" {
		t.Fatalf("created = %#v, want id d9", created)
	}
	if err := admin.DeleteDevice(ctx, "d9"); err != nil {
		t.Fatalf("DeleteDevice returned error: %v", err)
	}
	stats, err := admin.FetchRentalStats(ctx)
	if err != nil {
		t.Fatalf("FetchRentalStats returned error: %v", err)
	}
	if stats.Active != 3 {
		t.Fatalf("stats = %#v, want active 3", stats)
	}

	// Login itself is unauthenticated; everything after must carry the token.
	if gotAuth[0] != "" {
		t.Fatalf("login carried Authorization %q, want none", gotAuth[0])
	}
	for _, auth := range gotAuth[1:] {
		if auth != "Bearer jwt-123" {
			t.Fatalf("Authorization = %q, want Bearer jwt-123", auth)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"minutes only", 25 * time.Minute, "25m"},
		{"hours and minutes", 3*time.Hour + 5*time.Minute, "3h 5m"},
		{"days and hours", 49 * time.Hour, "2d 1h"},
		{"zero", 0, "0m"},
		{"negative clamps", -time.Hour, "0m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatDuration(tt.d); got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestRentalRecord_Duration(t *testing.T) {
	open := RentalRecord{RentedAt: "2026-08-01T10:00:00Z"}
	if got := open.Duration(); got != "ongoing" {
		t.Fatalf("open rental duration = %q, want ongoing", got)
	}
	closed := RentalRecord{RentedAt: "2026-08-01T10:00:00Z", ReturnedAt: "2026-08-01T13:30:00Z"}
	if got := closed.Duration(); got != "3h 30m" {
		t.Fatalf("closed rental duration = %q, want 3h 30m", got)
	}
	garbage := RentalRecord{RentedAt: "not-a-time", ReturnedAt: "also-not"}
	if got := garbage.Duration(); got != "-" {
		t.Fatalf("garbage duration = %q, want -", got)
	}
}
