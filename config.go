package simnet

import "time"

// TCPConfig is the fixed record of recognized per-socket TCP options.
// There is deliberately no dynamic key/value bag: every field a
// listener or stream cares about is named here, per spec.md §9's
// "Enumerated TCP config" design note.
type TCPConfig struct {
	Linger          time.Duration
	ListenBacklog   int
	RecvBufferSize  int
	SendBufferSize  int
	ReuseAddr       bool
	ReusePort       bool
	ConnectTimeout  time.Duration
	NoDelay         bool
	TTL             uint32
}

// DefaultListenerConfig returns the §6 defaults for a TCP listener:
// backlog 32, 2048-byte buffers, ttl 64, 2s connect timeout, nodelay on.
func DefaultListenerConfig() TCPConfig {
	return TCPConfig{
		ListenBacklog:  32,
		RecvBufferSize: 2048,
		SendBufferSize: 2048,
		ConnectTimeout: 2 * time.Second,
		NoDelay:        true,
		TTL:            64,
	}
}

// DefaultStreamConfig returns the §6 defaults for a bare TCP stream
// (client-initiated connect): backlog 1, otherwise identical to the
// listener defaults.
func DefaultStreamConfig() TCPConfig {
	cfg := DefaultListenerConfig()
	cfg.ListenBacklog = 1
	return cfg
}
