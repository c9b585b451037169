package regmap

import (
	"slices"

	"svreg/internal/diag"
	"svreg/internal/ident"
)

// Protocol names a host bus protocol.
type Protocol string

const (
	ProtocolAXI4Lite Protocol = "axi4lite"
	ProtocolAPB      Protocol = "apb"
)

// Protocols lists the supported protocols in their default order.
var Protocols = []Protocol{ProtocolAXI4Lite, ProtocolAPB}

// Configuration holds the settings shared by every register block.
type Configuration struct {
	BusWidth          int
	AddressWidth      int
	ArrayPortFormat   ident.Format
	Protocol          Protocol
	FoldInterfacePort bool
}

// DefaultConfiguration mirrors the values used when the manifest is silent.
func DefaultConfiguration() Configuration {
	return Configuration{
		BusWidth:          32,
		AddressWidth:      32,
		ArrayPortFormat:   ident.Packed,
		Protocol:          ProtocolAXI4Lite,
		FoldInterfacePort: true,
	}
}

// ByteWidth is the bus width in bytes.
func (c Configuration) ByteWidth() int { return c.BusWidth / 8 }

// Validate checks the protocol-specific constraints.
func (c Configuration) Validate() error {
	if c.AddressWidth <= 0 {
		return diag.Configf(diag.CfgInvalidSize, "configuration", "address width must be positive: %d", c.AddressWidth)
	}
	if c.BusWidth <= 0 || c.BusWidth%8 != 0 {
		return diag.Configf(diag.CfgUnsupportedBusWidth, "configuration", "bus width must be a positive multiple of 8: %d", c.BusWidth)
	}
	switch c.Protocol {
	case ProtocolAXI4Lite:
		if c.BusWidth != 32 && c.BusWidth != 64 {
			return diag.Configf(diag.CfgUnsupportedBusWidth, "configuration", "bus width either 32 bit or 64 bit is only supported: %d", c.BusWidth)
		}
	case ProtocolAPB:
		if c.BusWidth > 32 {
			return diag.Configf(diag.CfgUnsupportedBusWidth, "configuration", "bus width over 32 bit is not supported: %d", c.BusWidth)
		}
	default:
		return diag.Configf(diag.CfgUnknownProtocol, "configuration", "unknown protocol: %q", string(c.Protocol))
	}
	return nil
}

// ParseProtocol accepts the protocol names of Protocols.
func ParseProtocol(s string) (Protocol, error) {
	p := Protocol(s)
	if !slices.Contains(Protocols, p) {
		return "", diag.Configf(diag.CfgUnknownProtocol, "configuration", "unknown protocol: %q", s)
	}
	return p, nil
}
