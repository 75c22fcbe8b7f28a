package netscan

import (
	"strings"
	"sync"

	"github.com/klauspost/oui"
)

// UnknownVendor is the sentinel label for MAC prefixes with no known
// manufacturer.
const UnknownVendor = "Unknown"

// DefaultOUITable maps MAC prefixes (first three octets, lowercase
// colon-hex) of common Android handset makers to vendor labels. The table
// is a priority heuristic only: a wrong or missing label delays a scan, it
// never skips a device.
var DefaultOUITable = map[string]string{
	"00:9e:c8": "Xiaomi",
	"34:ce:00": "Xiaomi",
	"64:09:80": "Xiaomi",
	"74:51:ba": "Xiaomi",
	"78:11:dc": "Xiaomi",
	"f8:a4:5f": "Xiaomi",
	"50:8f:4c": "Xiaomi",
	"ac:c1:ee": "Xiaomi",
	"f4:8e:92": "Xiaomi",
	"28:6c:07": "Xiaomi",
	"38:a4:ed": "Xiaomi",
	"04:cf:4b": "Xiaomi",
	"18:59:36": "Xiaomi",
	"98:fa:e3": "Xiaomi",
	"c4:0b:cb": "Xiaomi",
	"dc:6a:e7": "Xiaomi",
	"dc:6a:ee": "Xiaomi",
	"00:1a:11": "Google",
	"ac:37:43": "Google",
	"f4:f5:e8": "Google",
	"08:00:27": "Samsung",
	"1c:62:b8": "Samsung",
	"2c:44:01": "Samsung",
}

// DefaultPreferredVendors is the set of vendor labels treated as "likely
// Android" during scan ordering and deep-scan gating.
var DefaultPreferredVendors = map[string]bool{
	"xiaomi":  true,
	"google":  true,
	"samsung": true,
	"oneplus": true,
	"oppo":    true,
}

// Classifier maps MAC addresses to vendor labels. The static prefix table
// is authoritative for priority decisions; prefixes outside it are
// labelled from the embedded IEEE OUI database purely for display.
//
// Classification is pure and deterministic: the same MAC prefix always
// yields the same label.
type Classifier struct {
	table     map[string]string
	preferred map[string]bool

	dbOnce sync.Once
	db     oui.OuiDB
}

// NewClassifier creates a classifier with the given prefix table and
// preferred-vendor set. Nil arguments select the defaults.
func NewClassifier(table map[string]string, preferred map[string]bool) *Classifier {
	if table == nil {
		table = DefaultOUITable
	}
	if preferred == nil {
		preferred = DefaultPreferredVendors
	}
	return &Classifier{table: table, preferred: preferred}
}

// Vendor returns the vendor label for a MAC address, or UnknownVendor.
func (c *Classifier) Vendor(mac string) string {
	prefix := ouiPrefix(mac)
	if prefix == "" {
		return UnknownVendor
	}
	if label, ok := c.table[prefix]; ok {
		return label
	}
	if label := c.ieeeLookup(mac); label != "" {
		return label
	}
	return UnknownVendor
}

// Preferred reports whether the label belongs to the preferred (likely
// Android) vendor set. Matching is case-insensitive on the first word of
// the label, so IEEE entries like "Xiaomi Communications Co Ltd" qualify.
func (c *Classifier) Preferred(label string) bool {
	fields := strings.Fields(strings.ToLower(label))
	if len(fields) == 0 {
		return false
	}
	return c.preferred[fields[0]]
}

// ieeeLookup consults the embedded IEEE database. Any failure (bad MAC,
// absent entry) degrades to an empty label.
func (c *Classifier) ieeeLookup(mac string) string {
	c.dbOnce.Do(func() {
		db, err := oui.OpenStaticFile("")
		if err == nil {
			c.db = db
		}
	})
	if c.db == nil {
		return ""
	}
	entry, err := c.db.Query(mac)
	if err != nil || entry == nil {
		return ""
	}
	return entry.Manufacturer
}

// ouiPrefix returns the lowercase first-three-octet prefix of a
// colon-separated MAC address, or "" for malformed input.
func ouiPrefix(mac string) string {
	parts := strings.Split(strings.ToLower(mac), ":")
	if len(parts) < 3 {
		return ""
	}
	for _, p := range parts[:3] {
		if len(p) != 2 {
			return ""
		}
	}
	return strings.Join(parts[:3], ":")
}
