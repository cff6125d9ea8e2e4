// Package privacy keeps client addresses out of logs in identifiable form.
// Handlers and middleware log the anonymized prefix only; the full address
// never leaves the request context.
package privacy

import (
	"fmt"
	"net/netip"
)

// AnonymizeIP masks the host-identifying tail of an address so log lines
// cannot single out one client. IPv4 keeps the /24 prefix with the last
// octet zeroed ("203.0.113.47" becomes "203.0.113.0"). IPv6 keeps the /48
// prefix ("2001:db8:85a3::8a2e:370:7334" becomes "2001:0db8:85a3::").
//
// Empty input and the literal "unknown" come back as "unknown"; anything
// unparseable comes back as "invalid" so a bad value is visible in logs
// without echoing it.
func AnonymizeIP(ip string) string {
	if ip == "" || ip == "unknown" {
		return "unknown"
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}

	if addr.Is4() || addr.Is4In6() {
		b := addr.As4()
		return fmt.Sprintf("%d.%d.%d.0", b[0], b[1], b[2])
	}

	b := addr.As16()
	return fmt.Sprintf("%02x%02x:%02x%02x:%02x%02x::", b[0], b[1], b[2], b[3], b[4], b[5])
}
