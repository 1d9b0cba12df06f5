package discovery

import (
	"context"
	"fmt"
	"net"
	"slices"

	psnet "github.com/shirou/gopsutil/v3/net"
)

// routeProbeAddr is only used to select the outbound interface; no packet is sent
const routeProbeAddr = "8.8.8.8:80"

// listInterfaces is replaced in tests
var listInterfaces = psnet.InterfacesWithContext

// LocalSubnet returns the first three octets of this machine's LAN address.
// It asks the routing table for the outbound address first and falls back to
// the first non-loopback IPv4 interface.
func LocalSubnet(ctx context.Context) (string, error) {
	if ip, err := outboundIP(ctx); err == nil {
		return subnetOf(ip), nil
	}

	ifaces, err := listInterfaces(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list network interfaces: %w", err)
	}
	return subnetFromInterfaces(ifaces)
}

func outboundIP(ctx context.Context) (net.IP, error) {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "udp4", routeProbeAddr)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("unexpected local address type %T", conn.LocalAddr())
	}
	ip := addr.IP.To4()
	if ip == nil || ip.IsLoopback() || ip.IsUnspecified() {
		return nil, fmt.Errorf("no usable outbound IPv4 address")
	}
	return ip, nil
}

func subnetFromInterfaces(ifaces psnet.InterfaceStatList) (string, error) {
	for _, iface := range ifaces {
		if !slices.Contains(iface.Flags, "up") || slices.Contains(iface.Flags, "loopback") {
			continue
		}
		for _, addr := range iface.Addrs {
			ip, _, err := net.ParseCIDR(addr.Addr)
			if err != nil {
				ip = net.ParseIP(addr.Addr)
			}
			ip4 := ip.To4()
			if ip4 == nil || ip4.IsLoopback() || ip4.IsLinkLocalUnicast() {
				continue
			}
			return subnetOf(ip4), nil
		}
	}
	return "", fmt.Errorf("no active IPv4 interface found")
}

func subnetOf(ip net.IP) string {
	ip4 := ip.To4()
	return fmt.Sprintf("%d.%d.%d", ip4[0], ip4[1], ip4[2])
}
