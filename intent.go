package simnet

import (
	"net/netip"
	"time"
)

// UdpMessage is the wire shape of a UDP datagram crossing the
// simulation boundary in either direction.
type UdpMessage struct {
	Content []byte
	Src     netip.AddrPort
	Dst     netip.AddrPort
	TTL     uint32
}

// TcpMessage carries a single TCP stream segment.
type TcpMessage struct {
	Content []byte
	Src     netip.AddrPort
	Dst     netip.AddrPort
	TTL     uint32
}

// TcpConnectKind distinguishes the two halves of the 2-step handshake.
type TcpConnectKind int

const (
	TcpClientInitiate TcpConnectKind = iota
	TcpServerAcknowledge
)

// TcpConnectMessage is either half of the handshake: a client's initial
// SYN-analogue, or the server's ack.
type TcpConnectMessage struct {
	Kind   TcpConnectKind
	Client netip.AddrPort
	Server netip.AddrPort
}

// IntentKind tags the union of actions a simulated node would perform
// on the real network, materialized here as data for the host to route.
type IntentKind int

const (
	IntentUdpSend IntentKind = iota
	IntentTcpConnect
	IntentTcpConnectTimeout
	IntentTcpSendPacket
	IntentIoTick
	IntentTcpShutdown
	IntentDnsLookup
)

// Intent is the tagged union NetContext accumulates and the host drains
// via yield_intents. Only the fields relevant to Kind are populated.
type Intent struct {
	Kind IntentKind

	Udp        UdpMessage         // IntentUdpSend
	TcpConnect TcpConnectMessage  // IntentTcpConnect, IntentTcpConnectTimeout
	TcpData    TcpMessage         // IntentTcpSendPacket
	Delay      time.Duration      // IntentTcpConnectTimeout, IntentTcpSendPacket
	TickAt     SimTime            // IntentIoTick
	Addr       netip.AddrPort     // IntentTcpShutdown
	Peer       netip.AddrPort     // IntentTcpShutdown
	Lookup     string             // IntentDnsLookup
}
