package adb

import (
	"context"
	"fmt"
	"strings"
)

// Device states as reported by `adb devices`.
const (
	StateDevice       = "device"
	StateOffline      = "offline"
	StateUnauthorized = "unauthorized"
)

// Device is one row of `adb devices` output.
type Device struct {
	// Serial is the device identifier. Network transports use "ip:port",
	// USB transports use the hardware serial.
	Serial string

	// State is the transport state ("device", "offline", "unauthorized").
	State string
}

// IsNetwork reports whether the device is connected over TCP rather than
// USB. Network serials always carry an "ip:port" form.
func (d Device) IsNetwork() bool {
	return strings.Contains(d.Serial, ":")
}

// String returns a human-readable representation of the device.
func (d Device) String() string {
	transport := "usb"
	if d.IsNetwork() {
		transport = "tcp"
	}
	return fmt.Sprintf("%s (%s, %s)", d.Serial, transport, d.State)
}

// parseDevices parses `adb devices` output. The first line is the
// "List of devices attached" header; each following non-empty line is
// "<serial>\t<state>".
func parseDevices(out string) []Device {
	var devices []Device
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		devices = append(devices, Device{Serial: fields[0], State: fields[1]})
	}
	return devices
}

// Info describes the device behind a successful connection, read from
// system properties after the handshake. It is used to validate cache
// identity, never to drive discovery decisions.
type Info struct {
	Model          string
	Manufacturer   string
	AndroidVersion string
	DeviceName     string
}

// String returns a human-readable representation of the device info.
func (i Info) String() string {
	return fmt.Sprintf("%s %s (Android %s)", i.Manufacturer, i.Model, i.AndroidVersion)
}

// DeviceInfo reads identity properties from the connected device. Missing
// individual properties are tolerated: the returned Info carries whatever
// could be read.
func (r *Runner) DeviceInfo(ctx context.Context) Info {
	var info Info
	if v, err := r.Shell(ctx, "getprop", "ro.product.model"); err == nil {
		info.Model = v
	}
	if v, err := r.Shell(ctx, "getprop", "ro.product.manufacturer"); err == nil {
		info.Manufacturer = v
	}
	if v, err := r.Shell(ctx, "getprop", "ro.build.version.release"); err == nil {
		info.AndroidVersion = v
	}
	if v, err := r.Shell(ctx, "settings", "get", "global", "device_name"); err == nil && v != "null" {
		info.DeviceName = v
	}
	return info
}
