package simnet

import "net/netip"

// InterfaceFlags mirrors the subset of real NIC flags this simulator
// cares about.
type InterfaceFlags struct {
	Up        bool
	Loopback  bool
	Running   bool
	Multicast bool
	Broadcast bool
	P2P       bool
	Smart     bool
	Simplex   bool
	Promisc   bool
}

// InterfaceStatus is whether an interface is usable right now.
type InterfaceStatus int

const (
	// InterfaceActive means the interface can be bound and used.
	InterfaceActive InterfaceStatus = iota
	// InterfaceInactive means the interface is only pre-configured, not
	// really usable (binds against it fail with ErrNotFound).
	InterfaceInactive
)

// InterfaceAddr is one address bound to an interface: an IPv4/IPv6
// network (address + mask, for longest-match lookup) or a MAC address.
type InterfaceAddr struct {
	Ether bool      // true: MAC address, false: IP prefix
	Mac   [6]byte   // valid iff Ether
	IP    netip.Prefix // valid iff !Ether
}

// NetInterface models one simulated NIC: a name, capability flags, a
// set of addresses, a status, and a priority used to order interfaces
// when a bind doesn't specify which one to use.
type NetInterface struct {
	Name     string
	Flags    InterfaceFlags
	Status   InterfaceStatus
	Addrs    []InterfaceAddr
	Priority int
}

// NewLoopbackInterface returns the loopback interface every node has:
// 127.0.0.1/8 and ::1/128, always active, priority 100.
func NewLoopbackInterface() *NetInterface {
	return &NetInterface{
		Name: "lo0",
		Flags: InterfaceFlags{
			Up: true, Loopback: true, Running: true, Multicast: true,
		},
		Status: InterfaceActive,
		Addrs: []InterfaceAddr{
			{IP: netip.MustParsePrefix("127.0.0.1/8")},
			{IP: netip.MustParsePrefix("::1/128")},
		},
		Priority: 100,
	}
}

// NewEthernetInterface returns a simulated non-loopback NIC bound to
// the given IPv4 address with a /24 mask and a synthetic MAC, active,
// priority 10 — lower than loopback's, so it is tried first when
// iterating interfaces in ascending-priority order for an unspecified
// bind (see Open Question 1 in DESIGN.md: this is the behavior as
// specified, documented rather than "fixed").
func NewEthernetInterface(name string, mac [6]byte, v4 netip.Addr) *NetInterface {
	return &NetInterface{
		Name: name,
		Flags: InterfaceFlags{
			Up: true, Running: true, Multicast: true, Broadcast: true,
			Smart: true, Simplex: true,
		},
		Status: InterfaceActive,
		Addrs: []InterfaceAddr{
			{Ether: true, Mac: mac},
			{IP: netip.PrefixFrom(v4, 24)},
		},
		Priority: 10,
	}
}

// matches reports whether ip falls within one of this interface's IP
// prefixes (longest-match is resolved by the caller comparing Bits()
// across candidates).
func (ni *NetInterface) matches(ip netip.Addr) (netip.Prefix, bool) {
	var best netip.Prefix
	found := false
	for _, a := range ni.Addrs {
		if a.Ether {
			continue
		}
		if a.IP.Contains(ip) {
			if !found || a.IP.Bits() > best.Bits() {
				best = a.IP
				found = true
			}
		}
	}
	return best, found
}

func (ni *NetInterface) usable() bool {
	return ni.Status == InterfaceActive && ni.Flags.Up
}
