package netscan

import "testing"

func TestParseSubnets(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want []string
	}{
		{
			name: "ip addr output",
			out: `2: wlan0    inet 192.168.0.100/24 brd 192.168.0.255 scope global dynamic wlan0
3: docker0  inet 172.17.0.1/16 brd 172.17.255.255 scope global docker0`,
			want: []string{"192.168.0", "172.17.0"},
		},
		{
			name: "hostname -I output",
			out:  "192.168.0.100 10.8.0.2\n",
			want: []string{"192.168.0", "10.8.0"},
		},
		{
			name: "loopback excluded",
			out:  "inet 127.0.0.1/8 scope host lo\ninet 192.168.1.7/24",
			want: []string{"192.168.1"},
		},
		{
			name: "duplicates collapsed",
			out:  "192.168.0.100 192.168.0.101",
			want: []string{"192.168.0"},
		},
		{
			name: "no addresses",
			out:  "nothing here",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseSubnets(tt.out)
			if len(got) != len(tt.want) {
				t.Fatalf("parseSubnets() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("subnet %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPrefix24(t *testing.T) {
	if got := prefix24("192.168.1.50"); got != "192.168.1" {
		t.Errorf("prefix24 = %q, want 192.168.1", got)
	}
	if got := prefix24("127.0.0.1"); got != "" {
		t.Errorf("loopback should yield empty prefix, got %q", got)
	}
	if got := prefix24("garbage"); got != "" {
		t.Errorf("malformed input should yield empty prefix, got %q", got)
	}
}
