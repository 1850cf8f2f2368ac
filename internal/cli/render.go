package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/seojin-dev/loaner/internal/kiosk"
)

// Renderer handles terminal output with colors.
type Renderer struct{}

// NewRenderer creates a new Renderer instance.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Colors
var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

// Success prints a success message
func (r *Renderer) Success(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", green("✓"), msg)
}

// Error prints an error message
func (r *Renderer) Error(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", red("✗"), msg)
}

// Warning prints a warning message
func (r *Renderer) Warning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "%s %s\n", yellow("!"), msg)
}

// Info prints an info message
func (r *Renderer) Info(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s\n", msg)
}

// Dim prints dimmed/secondary text
func (r *Renderer) Dim(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(os.Stderr, "  %s\n", dim(msg))
}

// RenderDeviceList prints devices grouped by platform.
func (r *Renderer) RenderDeviceList(devices []kiosk.DeviceRecord) {
	if len(devices) == 0 {
		r.Info("No devices found")
		return
	}

	byPlatform := make(map[string][]kiosk.DeviceRecord)
	for _, d := range devices {
		platform := string(d.Platform)
		if platform == "" {
			platform = "other"
		}
		byPlatform[platform] = append(byPlatform[platform], d)
	}

	platforms := make([]string, 0, len(byPlatform))
	for p := range byPlatform {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	for _, platform := range platforms {
		fmt.Fprintf(os.Stderr, "\n%s\n", bold(strings.ToUpper(platform)))
		for _, d := range byPlatform[platform] {
			state := green("[available]")
			if d.Rented() {
				state = yellow(fmt.Sprintf("[rented: %s]", d.CurrentRenter))
			}
			rooted := ""
			if d.IsRootedOrJailbroken {
				rooted = red(" rooted")
			}
			name := d.ProductName
			if d.ModelName != "" {
				name = fmt.Sprintf("%s (%s)", d.ProductName, d.ModelName)
			}
			fmt.Fprintf(os.Stderr, "  #%-5s %-24s %s %s%s\n",
				d.DeviceNumber,
				name,
				dim(d.OSVersion),
				state,
				rooted,
			)
		}
	}
	fmt.Fprintln(os.Stderr)
}

// RenderStatus prints the system status snapshot.
func (r *Renderer) RenderStatus(snap kiosk.StatusSnapshot) {
	if !snap.IsTestMode {
		r.Success("Rental service is operating normally")
		return
	}

	r.Warning("Rental service is under maintenance")
	if snap.TestType != "" {
		r.Info("Type: %s", snap.TestType)
	}
	if snap.TestMessage != "" {
		r.Info("Notice: %s", snap.TestMessage)
	}
	if snap.TestStartDate != "" || snap.TestEndDate != "" {
		r.Dim("Window: %s ~ %s", kiosk.FormatTime(snap.TestStartDate), kiosk.FormatTime(snap.TestEndDate))
	}
}

// RenderMultiReturn prints the server's partitioned bulk-return result.
func (r *Renderer) RenderMultiReturn(result kiosk.MultiReturnResult) {
	if result.Summary.SuccessCount > 0 {
		r.Success("Returned %d device(s)", result.Summary.SuccessCount)
	}
	if result.Summary.FailedCount == 0 {
		return
	}
	r.Error("Failed to return %d device(s)", result.Summary.FailedCount)
	for _, f := range result.Failed {
		r.Info("#%s: %s", f.DeviceNumber, f.Reason)
	}
}

// RenderRentals prints rental history records.
func (r *Renderer) RenderRentals(rentals []kiosk.RentalRecord) {
	if len(rentals) == 0 {
		r.Info("No rentals found")
		return
	}
	for _, rec := range rentals {
		state := yellow("[ongoing]")
		if rec.ReturnedAt != "" {
			state = dim(fmt.Sprintf("[returned %s]", kiosk.FormatTime(rec.ReturnedAt)))
		}
		fmt.Fprintf(os.Stderr, "  #%-5s %-20s %s %s %s\n",
			rec.DeviceNumber,
			rec.RenterName,
			dim(kiosk.FormatTime(rec.RentedAt)),
			dim(rec.Duration()),
			state,
		)
	}
}

// RenderStats prints aggregate rental statistics.
func (r *Renderer) RenderStats(stats kiosk.RentalStats, platforms []kiosk.PlatformStat) {
	r.Info("Total rentals:  %d", stats.Total)
	r.Info("Active rentals: %d", stats.Active)
	r.Info("Returned:       %d", stats.Returned)
	if len(platforms) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\n%s\n", bold("BY PLATFORM"))
	for _, p := range platforms {
		fmt.Fprintf(os.Stderr, "  %-10s %d\n", p.Platform, p.Count)
	}
}
