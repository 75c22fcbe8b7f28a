package netscan

import "testing"

func TestClassifier_Vendor(t *testing.T) {
	c := NewClassifier(map[string]string{
		"dc:6a:ee": "Xiaomi",
		"f4:f5:e8": "Google",
	}, nil)

	tests := []struct {
		name string
		mac  string
		want string
	}{
		{"known prefix", "dc:6a:ee:11:22:33", "Xiaomi"},
		{"known prefix uppercase", "DC:6A:EE:11:22:33", "Xiaomi"},
		{"another prefix", "f4:f5:e8:00:00:01", "Google"},
		{"malformed", "not-a-mac", UnknownVendor},
		{"empty", "", UnknownVendor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Vendor(tt.mac); got != tt.want {
				t.Errorf("Vendor(%q) = %q, want %q", tt.mac, got, tt.want)
			}
		})
	}
}

func TestClassifier_Deterministic(t *testing.T) {
	c := NewClassifier(nil, nil)
	mac := "dc:6a:ee:11:22:33"
	first := c.Vendor(mac)
	for i := 0; i < 100; i++ {
		if got := c.Vendor(mac); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
}

func TestClassifier_Preferred(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		label string
		want  bool
	}{
		{"Xiaomi", true},
		{"xiaomi", true},
		{"Xiaomi Communications Co Ltd", true},
		{"Samsung", true},
		{"OnePlus", true},
		{"Intel Corporate", false},
		{UnknownVendor, false},
		{"", false},
	}
	for _, tt := range tests {
		if got := c.Preferred(tt.label); got != tt.want {
			t.Errorf("Preferred(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestClassifier_CustomPreferredSet(t *testing.T) {
	c := NewClassifier(nil, map[string]bool{"fairphone": true})
	if c.Preferred("Xiaomi") {
		t.Error("custom preferred set should replace the default, not extend it")
	}
	if !c.Preferred("Fairphone") {
		t.Error("custom preferred vendor not honored")
	}
}

func TestOUIPrefix(t *testing.T) {
	if got := ouiPrefix("DC:6A:EE:11:22:33"); got != "dc:6a:ee" {
		t.Errorf("ouiPrefix = %q, want dc:6a:ee", got)
	}
	if got := ouiPrefix("dc:6a"); got != "" {
		t.Errorf("short mac should yield empty prefix, got %q", got)
	}
	if got := ouiPrefix("dcc:6a:ee:11:22:33"); got != "" {
		t.Errorf("malformed octet should yield empty prefix, got %q", got)
	}
}
