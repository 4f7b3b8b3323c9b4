package iec104

import "time"

// DefaultPort is the IANA registered TCP port for unsecured IEC 104
// (§6). This system never listens over TLS (§1 Non-goals: no
// security), so there is no secure-port counterpart to PortSecure in
// rob-gra-go-iecp5's cs104.Config.
const DefaultPort = 2404

// Configuration ranges, following the clamp-to-default pattern of
// rob-gra-go-iecp5's cs104.Config.Valid rather than rejecting an
// out-of-range value outright.
const (
	ConnectTimeoutMin = 1 * time.Second
	ConnectTimeoutMax = 255 * time.Second

	QuiescenceTimeoutMin = 100 * time.Millisecond
	QuiescenceTimeoutMax = 60 * time.Second
)

// DefaultConnectTimeout bounds how long Connect waits for STARTDT_CON
// (§4.6).
const DefaultConnectTimeout = 30 * time.Second

// DefaultQuiescenceTimeout is how long RequestData waits for more
// interrogation response frames before it decides the burst is over
// (§4.6, §8 property — no activation-termination frame is sent).
const DefaultQuiescenceTimeout = 2 * time.Second

// ClientConfig bundles the timeouts a Session is built with. The zero
// value is invalid; use DefaultClientConfig or call Valid after
// filling in the fields you care about.
type ClientConfig struct {
	ConnectTimeout    time.Duration
	QuiescenceTimeout time.Duration
}

// DefaultClientConfig returns the configuration §4.6's examples
// assume.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ConnectTimeout:    DefaultConnectTimeout,
		QuiescenceTimeout: DefaultQuiescenceTimeout,
	}
}

// Valid clamps out-of-range durations to their nearest bound and
// fills in zero fields with their default, mirroring
// cs104.Config.Valid's defaulting behavior rather than returning an
// error for a caller-supplied zero value.
func (c ClientConfig) Valid() ClientConfig {
	switch {
	case c.ConnectTimeout == 0:
		c.ConnectTimeout = DefaultConnectTimeout
	case c.ConnectTimeout < ConnectTimeoutMin:
		c.ConnectTimeout = ConnectTimeoutMin
	case c.ConnectTimeout > ConnectTimeoutMax:
		c.ConnectTimeout = ConnectTimeoutMax
	}
	switch {
	case c.QuiescenceTimeout == 0:
		c.QuiescenceTimeout = DefaultQuiescenceTimeout
	case c.QuiescenceTimeout < QuiescenceTimeoutMin:
		c.QuiescenceTimeout = QuiescenceTimeoutMin
	case c.QuiescenceTimeout > QuiescenceTimeoutMax:
		c.QuiescenceTimeout = QuiescenceTimeoutMax
	}
	return c
}
