package ycsb

import (
	"fmt"
	"strings"
	"time"

	"github.com/ValentinKolb/dTree/lib/record"
)

// DefaultTimeout bounds every remote call when timeouts are enabled.
const DefaultTimeout = 10 * time.Second

// Options configure a DB.
type Options struct {
	// PoolSize is the number of connections created up front. Ignored if Pooled is false.
	PoolSize int
	// Pooled hands every operation an exclusive connection. Otherwise a single connection is shared.
	Pooled bool
	// VerboseLogging logs every operation with its payload at INFO level instead of DEBUG.
	VerboseLogging bool
	// TimeoutEnabled bounds every remote call by Timeout.
	TimeoutEnabled bool
	Timeout        time.Duration
	// DecodeMode is used when reading stored records.
	DecodeMode record.DecodeMode
}

// DefaultOptions returns a single pooled connection with a ten second timeout and lenient decoding.
func DefaultOptions() Options {
	return Options{
		PoolSize:       1,
		Pooled:         true,
		VerboseLogging: false,
		TimeoutEnabled: true,
		Timeout:        DefaultTimeout,
		DecodeMode:     record.Lenient,
	}
}

// String returns a formatted string representation of the options
func (o Options) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("\nYCSB CLIENT\n")
	addField("Pooled", fmt.Sprintf("%t", o.Pooled))
	if o.Pooled {
		addField("Pool Size", fmt.Sprintf("%d", o.PoolSize))
	}
	addField("Verbose", fmt.Sprintf("%t", o.VerboseLogging))
	if o.TimeoutEnabled {
		addField("Timeout", o.Timeout.String())
	} else {
		addField("Timeout", "disabled")
	}
	addField("Decode Mode", o.DecodeMode.String())

	return sb.String()
}
