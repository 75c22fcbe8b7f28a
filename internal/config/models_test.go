package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNewSettings_Defaults(t *testing.T) {
	s := NewSettings()
	if s.ADBPath != "adb" {
		t.Errorf("ADBPath = %q, want adb", s.ADBPath)
	}
	if s.ScrcpyPath != "scrcpy" {
		t.Errorf("ScrcpyPath = %q, want scrcpy", s.ScrcpyPath)
	}
	if s.ScanRangeLow != 30000 || s.ScanRangeHigh != 50000 {
		t.Errorf("scan range = %d-%d, want 30000-50000", s.ScanRangeLow, s.ScanRangeHigh)
	}
	if s.KeepScreenOff == nil || !*s.KeepScreenOff {
		t.Error("KeepScreenOff should default to true")
	}
}

func TestSettings_PartialFileInheritsDefaults(t *testing.T) {
	data := []byte("adb_path: /opt/platform-tools/adb\nscan_range_low: 35000\n")

	s := NewSettings()
	if err := yaml.Unmarshal(data, s); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s.applyDefaults()

	if s.ADBPath != "/opt/platform-tools/adb" {
		t.Errorf("ADBPath = %q, want the configured path", s.ADBPath)
	}
	if s.ScanRangeLow != 35000 {
		t.Errorf("ScanRangeLow = %d, want 35000", s.ScanRangeLow)
	}
	if s.ScanRangeHigh != 50000 {
		t.Errorf("ScanRangeHigh = %d, want default 50000", s.ScanRangeHigh)
	}
	if s.ScrcpyPath != "scrcpy" {
		t.Errorf("ScrcpyPath = %q, want default scrcpy", s.ScrcpyPath)
	}
}

func TestSettings_PreferredVendorSet(t *testing.T) {
	s := NewSettings()
	if s.PreferredVendorSet() != nil {
		t.Error("empty preferred_vendors should yield nil (use built-in set)")
	}

	s.PreferredVendors = []string{"fairphone", "nothing"}
	set := s.PreferredVendorSet()
	if !set["fairphone"] || !set["nothing"] || len(set) != 2 {
		t.Errorf("PreferredVendorSet() = %v", set)
	}
}
