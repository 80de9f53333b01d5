// Package netinfo identifies the backend instance that handled an upload.
package netinfo

import (
	"net"
	"sync"
)

// ZeroMAC is reported when no usable interface exists.
const ZeroMAC = "00:00:00:00:00:00"

var (
	once   sync.Once
	cached string
)

// ServerMAC returns the hardware address of the first non-loopback interface
// with a non-zero MAC. The result is computed once per process.
func ServerMAC() string {
	once.Do(func() {
		ifaces, err := net.Interfaces()
		if err != nil {
			cached = ZeroMAC
			return
		}
		cached = pickMAC(ifaces)
	})
	return cached
}

func pickMAC(ifaces []net.Interface) string {
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		mac := iface.HardwareAddr.String()
		if mac == "" || mac == ZeroMAC {
			continue
		}
		return mac
	}
	return ZeroMAC
}
