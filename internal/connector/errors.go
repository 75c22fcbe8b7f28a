package connector

// DiscoveryFailedError is returned when every phase of discovery has been
// exhausted without finding a device. It is the only failure surfaced to
// the operator; everything upstream degrades and continues.
type DiscoveryFailedError struct {
	// TriedCache records whether a cached endpoint existed and was retried.
	TriedCache bool
}

func (e *DiscoveryFailedError) Error() string {
	return "no Android device found over USB or WiFi\n" +
		"\n" +
		"Troubleshooting:\n" +
		"  1. USB: plug in the cable, enable USB debugging, accept the authorization prompt\n" +
		"  2. Wireless: enable Wireless Debugging in Developer Options\n" +
		"  3. Network: ensure the phone and this machine are on the same WiFi network"
}
