package ingester

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
)

func hashOf(height uint64, branch string) string {
	return fmt.Sprintf("%s%063x", branch, height)
}

func testBlock(height uint64, branch, prev string) model.Block {
	hash := hashOf(height, branch)
	txid := hashOf(height, "f")
	return model.Block{
		Height:            height,
		Hash:              hash,
		PreviousBlockHash: prev,
		Chainwork:         fmt.Sprintf("%064x", height+1),
		Difficulty:        1,
		TxCount:           1,
		Transactions: []model.Transaction{{
			TxID:        txid,
			BlockHash:   hash,
			BlockHeight: height,
			Inputs:      []model.TransactionInput{{TxID: txid, IsCoinbase: true, Coinbase: "03"}},
			Outputs: []model.TransactionOutput{
				{TxID: txid, Index: 0, Value: 50},
				{TxID: txid, Index: 1, Value: 0},
			},
		}},
	}
}

// testChain is indexed by height.
type testChain []model.Block

func newTestChain(tip uint64, branch string) testChain {
	chain := make(testChain, 0, tip+1)
	prev := ""
	for h := uint64(0); h <= tip; h++ {
		block := testBlock(h, branch, prev)
		chain = append(chain, block)
		prev = block.Hash
	}
	return chain
}

// fork keeps heights below from and grows a new branch from there up to tip.
func (c testChain) fork(from, tip uint64, branch string) testChain {
	chain := append(testChain(nil), c[:from]...)
	prev := ""
	if from > 0 {
		prev = c[from-1].Hash
	}
	for h := from; h <= tip; h++ {
		block := testBlock(h, branch, prev)
		chain = append(chain, block)
		prev = block.Hash
	}
	return chain
}

type fakeNode struct {
	mu        sync.Mutex
	chain     testChain
	hashErrs  map[uint64]error
	hashCalls int
}

func newFakeNode(chain testChain) *fakeNode {
	return &fakeNode{chain: chain, hashErrs: map[uint64]error{}}
}

func (n *fakeNode) setChain(chain testChain) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.chain = chain
}

func (n *fakeNode) TipHeight(context.Context) (uint64, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return uint64(len(n.chain) - 1), nil
}

func (n *fakeNode) BlockHash(_ context.Context, height uint64) (string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hashCalls++
	if err := n.hashErrs[height]; err != nil {
		return "", err
	}
	if height >= uint64(len(n.chain)) {
		return "", fmt.Errorf("block height %d out of range", height)
	}
	return n.chain[height].Hash, nil
}

func (n *fakeNode) Block(_ context.Context, hash string) (model.Block, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, block := range n.chain {
		if block.Hash == hash {
			return block, nil
		}
	}
	return model.Block{}, fmt.Errorf("block %s not found", hash)
}

// fakeStore mirrors the cascading semantics of the relational schema.
type fakeStore struct {
	mu       sync.Mutex
	blocks   map[uint64]model.Block
	saveErrs map[uint64]error
	saves    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{blocks: map[uint64]model.Block{}, saveErrs: map[uint64]error{}}
}

func (s *fakeStore) seed(chain testChain, from, to uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for h := from; h <= to; h++ {
		s.blocks[h] = chain[h]
	}
}

func (s *fakeStore) MaxBlockHeight(context.Context) (uint64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.blocks) == 0 {
		return 0, false, nil
	}
	var highest uint64
	for h := range s.blocks {
		if h > highest {
			highest = h
		}
	}
	return highest, true, nil
}

func (s *fakeStore) BlockHashAtHeight(_ context.Context, height uint64) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	block, ok := s.blocks[height]
	return block.Hash, ok, nil
}

func (s *fakeStore) SaveBlock(_ context.Context, block model.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveErrs[block.Height]; err != nil {
		return err
	}
	s.saves++
	for h, stored := range s.blocks {
		if stored.Hash == block.Hash {
			delete(s.blocks, h)
		}
	}
	s.blocks[block.Height] = block
	return nil
}

func (s *fakeStore) DeleteBlocksFrom(_ context.Context, fromHeight uint64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for h := range s.blocks {
		if h >= fromHeight {
			delete(s.blocks, h)
			removed++
		}
	}
	return removed, nil
}

func (s *fakeStore) heights() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	heights := make([]uint64, 0, len(s.blocks))
	for h := range s.blocks {
		heights = append(heights, h)
	}
	sort.Slice(heights, func(i, j int) bool { return heights[i] < heights[j] })
	return heights
}

func (s *fakeStore) hashAt(height uint64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.blocks[height].Hash
}

// rowCounts returns the number of transactions, inputs and outputs owned by stored blocks.
func (s *fakeStore) rowCounts() (txs, inputs, outputs int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, block := range s.blocks {
		txs += len(block.Transactions)
		for _, tx := range block.Transactions {
			inputs += len(tx.Inputs)
			outputs += len(tx.Outputs)
		}
	}
	return txs, inputs, outputs
}

// linkageViolations lists heights above start whose previous hash does not match the
// stored predecessor.
func (s *fakeStore) linkageViolations(start uint64) []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var bad []uint64
	for h, block := range s.blocks {
		if h <= start {
			continue
		}
		prev, ok := s.blocks[h-1]
		if !ok || prev.Hash != block.PreviousBlockHash {
			bad = append(bad, h)
		}
	}
	sort.Slice(bad, func(i, j int) bool { return bad[i] < bad[j] })
	return bad
}

type nopSyncMetrics struct{}

func (nopSyncMetrics) ObserveHeight(string, time.Time) {}
func (nopSyncMetrics) ObserveRound(error, uint64)      {}
func (nopSyncMetrics) ObserveReorg(int64)              {}
func (nopSyncMetrics) SetHeights(uint64, uint64)       {}

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.ReorgEvent
}

func (p *recordingPublisher) PublishReorg(_ context.Context, event model.ReorgEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}
