package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

type staticLister []kiosk.DeviceRecord

func (s staticLister) FetchAllDevices(ctx context.Context) ([]kiosk.DeviceRecord, error) {
	return s, nil
}

func testDevices() staticLister {
	return staticLister{
		{ID: "dev-a", DeviceNumber: "1", ProductName: "Galaxy S24", Platform: kiosk.PlatformAndroid},
		{ID: "dev-b", DeviceNumber: "2", ProductName: "iPhone 15 Pro", Platform: kiosk.PlatformIOS},
		{ID: "dev-c", DeviceNumber: "3", ProductName: "iPhone SE", Platform: kiosk.PlatformIOS},
	}
}

func TestResolveDevice_ByID(t *testing.T) {
	got, err := resolveDevice(context.Background(), testDevices(), "dev-b")
	if err != nil {
		t.Fatalf("resolveDevice returned error: %v", err)
	}
	if got.DeviceNumber != "2" {
		t.Fatalf("resolved #%s, want #2", got.DeviceNumber)
	}
}

func TestResolveDevice_ByDeviceNumber(t *testing.T) {
	got, err := resolveDevice(context.Background(), testDevices(), "3")
	if err != nil {
		t.Fatalf("resolveDevice returned error: %v", err)
	}
	if got.ProductName != "iPhone SE" {
		t.Fatalf("resolved %q, want iPhone SE", got.ProductName)
	}
}

func TestResolveDevice_ByNameFragment(t *testing.T) {
	got, err := resolveDevice(context.Background(), testDevices(), "galaxy")
	if err != nil {
		t.Fatalf("resolveDevice returned error: %v", err)
	}
	if got.ID != "dev-a" {
		t.Fatalf("resolved %q, want dev-a", got.ID)
	}
}

func TestResolveDevice_AmbiguousFragment(t *testing.T) {
	_, err := resolveDevice(context.Background(), testDevices(), "iphone")
	if err == nil || !strings.Contains(err.Error(), "ambiguous") {
		t.Fatalf("error = %v, want ambiguous match", err)
	}
}

func TestResolveDevice_NotFound(t *testing.T) {
	_, err := resolveDevice(context.Background(), testDevices(), "pixel")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v, want not found", err)
	}
}

type countingLister struct {
	devices staticLister
	calls   int
}

func (c *countingLister) FetchAllDevices(ctx context.Context) ([]kiosk.DeviceRecord, error) {
	c.calls++
	return c.devices, nil
}

func TestResolveDevices_SingleFetchForManyInputs(t *testing.T) {
	lister := &countingLister{devices: testDevices()}

	got, err := resolveDevices(context.Background(), lister, []string{"dev-a", "2", "iphone se"})
	if err != nil {
		t.Fatalf("resolveDevices returned error: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("resolved %d devices, want 3", len(got))
	}
	if got[0].ID != "dev-a" || got[1].ID != "dev-b" || got[2].ID != "dev-c" {
		t.Fatalf("resolved ids = %s,%s,%s want dev-a,dev-b,dev-c", got[0].ID, got[1].ID, got[2].ID)
	}
	if lister.calls != 1 {
		t.Fatalf("FetchAllDevices called %d times, want 1", lister.calls)
	}
}

func TestResolveDevices_StopsOnFirstBadInput(t *testing.T) {
	lister := &countingLister{devices: testDevices()}

	_, err := resolveDevices(context.Background(), lister, []string{"dev-a", "pixel"})
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("error = %v, want not found", err)
	}
	if lister.calls != 1 {
		t.Fatalf("FetchAllDevices called %d times, want 1", lister.calls)
	}
}
