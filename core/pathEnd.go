package core

import (
	"strings"

	clienttypes "github.com/cosmos/ibc-go/v8/modules/core/02-client/types"
	chantypes "github.com/cosmos/ibc-go/v8/modules/core/04-channel/types"
)

// PathEnd represents one endpoint of a relay path: a chain and the identifiers
// of the client/connection/channel used on it.
type PathEnd struct {
	ChainID      string `yaml:"chain-id" json:"chain-id"`
	ClientID     string `yaml:"client-id" json:"client-id"`
	ConnectionID string `yaml:"connection-id" json:"connection-id"`
	ChannelID    string `yaml:"channel-id" json:"channel-id"`
	PortID       string `yaml:"port-id" json:"port-id"`
	Order        string `yaml:"order" json:"order"`
	Version      string `yaml:"version" json:"version"`
}

// ChannelOrder returns the channel order as the channel type
func (pe PathEnd) ChannelOrder() chantypes.Order {
	return OrderFromString(strings.ToUpper(pe.Order))
}

// Ordered returns whether the channel end is ordered
func (pe PathEnd) Ordered() bool {
	return pe.ChannelOrder() == chantypes.ORDERED
}

// Revision returns the revision number encoded in the chain ID
func (pe PathEnd) Revision() uint64 {
	return clienttypes.ParseChainID(pe.ChainID)
}

// OrderFromString parses a string into a channel order byte
func OrderFromString(order string) chantypes.Order {
	switch order {
	case "UNORDERED":
		return chantypes.UNORDERED
	case "ORDERED":
		return chantypes.ORDERED
	default:
		return chantypes.NONE
	}
}
