package netscan

import (
	"net"
	"testing"

	"github.com/grandcat/zeroconf"
)

func TestParseADBEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantOK   bool
		wantIP   string
		wantPort int
	}{
		{
			name: "advertisement with IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "adb-R10XEY"},
				Port:          40123,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
			},
			wantOK:   true,
			wantIP:   "192.168.1.50",
			wantPort: 40123,
		},
		{
			name: "no IPv4 address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "adb-R10XEY"},
				Port:          40123,
			},
			wantOK: false,
		},
		{
			name: "zero port",
			entry: &zeroconf.ServiceEntry{
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.50")},
			},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ep, ok := parseADBEntry(tt.entry)
			if ok != tt.wantOK {
				t.Fatalf("parseADBEntry() ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if ep.IP != tt.wantIP || ep.Port != tt.wantPort {
				t.Errorf("endpoint = %s:%d, want %s:%d", ep.IP, ep.Port, tt.wantIP, tt.wantPort)
			}
		})
	}
}
