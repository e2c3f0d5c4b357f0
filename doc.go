// Package simnet is a deterministic discrete-event simulator for an
// asynchronous task runtime. It replaces the real monotonic clock, thread
// pool, and OS event loop with a single-threaded, virtual-time driver that
// advances only in response to externally injected events, so that
// protocol code, network services, and time-sensitive distributed
// algorithms can be executed, inspected, and replayed under a fully
// controlled notion of "now".
//
// The host drives a simulation by repeatedly: choosing the next event,
// calling SimDriver.SetNow, firing due timers, optionally injecting a
// packet, draining tasks to quiescence, and consulting the next wake
// time. See SimDriver for the full step contract.
package simnet
