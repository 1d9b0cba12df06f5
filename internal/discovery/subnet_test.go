package discovery

import (
	"net"
	"testing"

	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubnetFromInterfaces(t *testing.T) {
	ifaces := psnet.InterfaceStatList{
		{
			Name:  "lo",
			Flags: []string{"up", "loopback"},
			Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}},
		},
		{
			Name:  "eth1",
			Flags: []string{"broadcast", "multicast"},
			Addrs: psnet.InterfaceAddrList{{Addr: "10.9.9.9/24"}},
		},
		{
			Name:  "eth0",
			Flags: []string{"up", "broadcast", "multicast"},
			Addrs: psnet.InterfaceAddrList{
				{Addr: "fe80::1/64"},
				{Addr: "169.254.3.3/16"},
				{Addr: "192.168.7.23/24"},
			},
		},
	}

	subnet, err := subnetFromInterfaces(ifaces)
	require.NoError(t, err)
	assert.Equal(t, "192.168.7", subnet)
}

func TestSubnetFromInterfaces_None(t *testing.T) {
	_, err := subnetFromInterfaces(psnet.InterfaceStatList{
		{Name: "lo", Flags: []string{"up", "loopback"}, Addrs: psnet.InterfaceAddrList{{Addr: "127.0.0.1/8"}}},
	})
	assert.Error(t, err)
}

func TestSubnetOf(t *testing.T) {
	assert.Equal(t, "172.16.4", subnetOf(net.ParseIP("172.16.4.200")))
}
