package config

// Settings represents the user configuration file. Every field has a
// working default; an absent file is equivalent to an empty one.
type Settings struct {
	// ADBPath is the adb binary to invoke ("adb" resolves via PATH).
	ADBPath string `yaml:"adb_path,omitempty"`

	// ScrcpyPath is the mirroring client binary.
	ScrcpyPath string `yaml:"scrcpy_path,omitempty"`

	// CommonPorts overrides the built-in wireless-debug port shortlist.
	CommonPorts []int `yaml:"common_ports,omitempty"`

	// ScanRangeLow and ScanRangeHigh bound the deep port scan.
	ScanRangeLow  int `yaml:"scan_range_low,omitempty"`
	ScanRangeHigh int `yaml:"scan_range_high,omitempty"`

	// PreferredVendors are vendor labels treated as likely Android
	// handsets during scan ordering (lowercase).
	PreferredVendors []string `yaml:"preferred_vendors,omitempty"`

	// MDNSTimeoutSeconds bounds the mDNS fast-path browse. 0 uses the
	// default; -1 disables the fast path.
	MDNSTimeoutSeconds int `yaml:"mdns_timeout_seconds,omitempty"`

	// MirrorArgs are extra arguments passed to the mirroring client.
	MirrorArgs []string `yaml:"mirror_args,omitempty"`

	// KeepScreenOff enables the background loop that keeps the physical
	// display dark while mirroring.
	KeepScreenOff *bool `yaml:"keep_screen_off,omitempty"`
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	s := &Settings{}
	s.applyDefaults()
	return s
}

// applyDefaults fills zero-valued fields after an unmarshal, so partial
// config files inherit the rest of the defaults.
func (s *Settings) applyDefaults() {
	if s.ADBPath == "" {
		s.ADBPath = "adb"
	}
	if s.ScrcpyPath == "" {
		s.ScrcpyPath = "scrcpy"
	}
	if s.ScanRangeLow == 0 {
		s.ScanRangeLow = 30000
	}
	if s.ScanRangeHigh == 0 {
		s.ScanRangeHigh = 50000
	}
	if s.KeepScreenOff == nil {
		on := true
		s.KeepScreenOff = &on
	}
}

// PreferredVendorSet returns the preferred vendors as a lookup set, or
// nil when the built-in set should be used.
func (s *Settings) PreferredVendorSet() map[string]bool {
	if len(s.PreferredVendors) == 0 {
		return nil
	}
	set := make(map[string]bool, len(s.PreferredVendors))
	for _, v := range s.PreferredVendors {
		set[v] = true
	}
	return set
}
