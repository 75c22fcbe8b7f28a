package netscan

import "testing"

func TestParseIPNeigh(t *testing.T) {
	out := `192.168.0.5 dev wlan0 lladdr AA:BB:CC:DD:EE:FF REACHABLE
192.168.0.1 dev wlan0 lladdr 11:22:33:44:55:66 STALE
192.168.0.9 dev wlan0 lladdr de:ad:be:ef:00:01 PERMANENT
192.168.0.77 dev wlan0  FAILED
10.0.0.3 dev eth0 lladdr 0a:0b:0c:0d:0e:0f DELAY
`
	table := parseIPNeigh(out)

	if len(table) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(table), table)
	}
	if n := table["192.168.0.5"]; n.MAC != "aa:bb:cc:dd:ee:ff" || n.Freshness != FreshnessDynamic {
		t.Errorf("REACHABLE entry = %+v, want lowercase mac and dynamic", n)
	}
	if n := table["192.168.0.1"]; n.Freshness != FreshnessDynamic {
		t.Errorf("STALE should map to dynamic, got %v", n.Freshness)
	}
	if n := table["192.168.0.9"]; n.Freshness != FreshnessStatic {
		t.Errorf("PERMANENT should map to static, got %v", n.Freshness)
	}
	if n := table["10.0.0.3"]; n.Freshness != FreshnessDynamic {
		t.Errorf("DELAY should map to dynamic, got %v", n.Freshness)
	}
	if _, ok := table["192.168.0.77"]; ok {
		t.Error("FAILED entry has no lladdr and should be skipped")
	}
}

func TestParseArpBSD(t *testing.T) {
	out := `? (192.168.0.3) at aa:bb:cc:dd:ee:ff [ether] on wlan0
? (192.168.0.254) at 11:22:33:44:55:66 [ether] permanent on wlan0
? (192.168.0.8) at (incomplete) on wlan0
`
	table := parseArpBSD(out)

	if len(table) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(table), table)
	}
	if n := table["192.168.0.3"]; n.Freshness != FreshnessDynamic {
		t.Errorf("plain entry should be dynamic, got %v", n.Freshness)
	}
	if n := table["192.168.0.254"]; n.Freshness != FreshnessStatic {
		t.Errorf("permanent entry should be static, got %v", n.Freshness)
	}
}

func TestParseArpWindows(t *testing.T) {
	out := `Interface: 192.168.0.100 --- 0x4
  Internet Address      Physical Address      Type
  192.168.0.3           00-11-22-33-44-55     dynamic
  192.168.0.255         ff-ff-ff-ff-ff-ff     static
`
	table := parseArpWindows(out)

	if n := table["192.168.0.3"]; n.MAC != "00:11:22:33:44:55" || n.Freshness != FreshnessDynamic {
		t.Errorf("dynamic entry = %+v, want colon mac and dynamic", n)
	}
	if n := table["192.168.0.255"]; n.Freshness != FreshnessStatic {
		t.Errorf("static entry should be static, got %v", n.Freshness)
	}
}

func TestFreshnessString(t *testing.T) {
	tests := []struct {
		f    Freshness
		want string
	}{
		{FreshnessDynamic, "dynamic"},
		{FreshnessStatic, "static"},
		{FreshnessUnknown, "unknown"},
	}
	for _, tt := range tests {
		if got := tt.f.String(); got != tt.want {
			t.Errorf("Freshness(%d).String() = %q, want %q", tt.f, got, tt.want)
		}
	}
}
