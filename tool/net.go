package tool

import "net"

// IsLocalAddress reports whether ip belongs to this host: a loopback address
// or one assigned to one of its interfaces. An editing surface embedded on the
// same machine may reach the bridge through a LAN address.
func IsLocalAddress(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	if parsed.IsLoopback() {
		return true
	}
	_, ok := localAddressSet()[parsed.String()]
	return ok
}

func localAddressSet() map[string]struct{} {
	result := make(map[string]struct{})

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return result
	}

	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok || ipnet.IP == nil || ipnet.IP.IsUnspecified() {
			continue
		}
		result[ipnet.IP.String()] = struct{}{}
	}

	return result
}
