package model

import (
	"fmt"
	"strings"
)

// Network names the chain a mirror follows.
type Network string

var (
	Mainnet Network = "mainnet"
	Testnet Network = "testnet"
	Signet  Network = "signet"
	Regtest Network = "regtest"
)

// UnmarshalFlag implements flags.Unmarshaler so binaries reject unknown networks early.
func (n *Network) UnmarshalFlag(value string) error {
	switch strings.ToLower(value) {
	case "main", "mainnet", "bitcoin":
		*n = Mainnet
	case "test", "testnet", "testnet3":
		*n = Testnet
	case "signet":
		*n = Signet
	case "regtest":
		*n = Regtest
	default:
		return fmt.Errorf("unsupported network %q", value)
	}
	return nil
}
