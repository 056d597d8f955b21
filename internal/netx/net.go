package netx

import "strings"

// NormalizeTarget turns a user-typed server address into a gRPC dial target.
// URL schemes and trailing slashes are dropped, so "http://host:50051/"
// becomes "host:50051".
func NormalizeTarget(addr string) string {
	addr = strings.TrimSpace(addr)

	lower := strings.ToLower(addr)
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(lower, scheme) {
			addr = addr[len(scheme):]
			break
		}
	}

	return strings.TrimRight(addr, "/")
}
