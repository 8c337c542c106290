package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
	"github.com/goodnatureofminers/blockmirror/pkg/safe"
)

const (
	methodBlockchainInfo = "getblockchaininfo"
	methodBlockHash      = "getblockhash"
	methodBlock          = "getblock"

	verbosityHeader = 1
	verbosityFull   = 2
)

// Node exposes typed chain queries on top of a Caller.
type Node struct {
	caller  Caller
	decoder *scriptDecoder
}

// NewNode returns a Node that decodes output addresses for network.
func NewNode(caller Caller, network model.Network) (*Node, error) {
	decoder, err := newScriptDecoder(network)
	if err != nil {
		return nil, err
	}
	return &Node{caller: caller, decoder: decoder}, nil
}

// TipHeight returns the height of the node's best chain.
func (n *Node) TipHeight(ctx context.Context) (uint64, error) {
	var info blockchainInfoRecord
	if err := n.call(ctx, &info, methodBlockchainInfo); err != nil {
		return 0, err
	}
	height, err := safe.Uint64(*info.Blocks)
	if err != nil {
		return 0, &RemoteProtocolError{Method: methodBlockchainInfo, Err: err}
	}
	return height, nil
}

// BlockHash returns the hash of the best-chain block at height.
func (n *Node) BlockHash(ctx context.Context, height uint64) (string, error) {
	h, err := safe.Int64(height)
	if err != nil {
		return "", fmt.Errorf("block hash height %d: %w", height, err)
	}
	raw, err := n.caller.Call(ctx, methodBlockHash, h)
	if err != nil {
		return "", err
	}
	var hash string
	if err := json.Unmarshal(raw, &hash); err != nil {
		return "", &RemoteProtocolError{Method: methodBlockHash, Err: err}
	}
	if err := validateHash(hash); err != nil {
		return "", &RemoteProtocolError{Method: methodBlockHash, Err: err}
	}
	return hash, nil
}

// Block returns the full block identified by hash with its transactions.
func (n *Node) Block(ctx context.Context, hash string) (model.Block, error) {
	if err := validateHash(hash); err != nil {
		return model.Block{}, fmt.Errorf("block: %w", err)
	}
	var record blockRecord
	if err := n.call(ctx, &record, methodBlock, hash, verbosityFull); err != nil {
		return model.Block{}, err
	}
	block, err := buildBlock(record, n.decoder)
	if err != nil {
		return model.Block{}, &RemoteProtocolError{Method: methodBlock, Err: err}
	}
	return block, nil
}

// BlockHeader returns the header of the best-chain block at height.
func (n *Node) BlockHeader(ctx context.Context, height uint64) (model.BlockHeader, error) {
	hash, err := n.BlockHash(ctx, height)
	if err != nil {
		return model.BlockHeader{}, err
	}
	var record headerRecord
	if err := n.call(ctx, &record, methodBlock, hash, verbosityHeader); err != nil {
		return model.BlockHeader{}, err
	}
	header, err := buildHeader(record)
	if err != nil {
		return model.BlockHeader{}, &RemoteProtocolError{Method: methodBlock, Err: err}
	}
	if header.Height != height {
		return model.BlockHeader{}, &RemoteProtocolError{
			Method: methodBlock,
			Err:    fmt.Errorf("header %s reports height %d, requested %d", hash, header.Height, height),
		}
	}
	return header, nil
}

type validatable interface {
	validate() error
}

func (n *Node) call(ctx context.Context, dst validatable, method string, params ...any) error {
	raw, err := n.caller.Call(ctx, method, params...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return &RemoteProtocolError{Method: method, Err: err}
	}
	if err := dst.validate(); err != nil {
		return &RemoteProtocolError{Method: method, Err: err}
	}
	return nil
}

func validateHash(hash string) error {
	if len(hash) != chainhash.MaxHashStringSize {
		return fmt.Errorf("hash %q: want %d hex characters", hash, chainhash.MaxHashStringSize)
	}
	if _, err := chainhash.NewHashFromStr(hash); err != nil {
		return fmt.Errorf("hash %q: %w", hash, err)
	}
	return nil
}
