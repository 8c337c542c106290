//go:build integration

package postgres

import (
	"context"

	"github.com/goodnatureofminers/blockmirror/internal/mirror/model"
)

func (s *RepositorySuite) TestMaxBlockHeightEmptyStore() {
	height, ok, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.False(ok)
	s.Zero(height)
}

func (s *RepositorySuite) TestSaveBlockPersistsEverything() {
	s.saveChain(0, 2, "a")

	height, ok, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(uint64(2), height)

	s.Equal(int64(3), s.countRows("blocks"))
	s.Equal(int64(6), s.countRows("transactions"))
	s.Equal(int64(9), s.countRows("tx_inputs"))
	s.Equal(int64(9), s.countRows("tx_outputs"))

	hash, ok, err := s.repo.BlockHashAtHeight(s.testCtx, 1)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(hashFor(1, "a"), hash)

	var witness, addresses []string
	s.Require().NoError(s.repo.pool.QueryRow(s.testCtx,
		`SELECT witness FROM tx_inputs WHERE block_height = 1 AND input_index = 0 AND NOT is_coinbase`).Scan(&witness))
	s.Equal([]string{"w0", "w1"}, witness)
	s.Require().NoError(s.repo.pool.QueryRow(s.testCtx,
		`SELECT addresses FROM tx_outputs WHERE block_height = 1 AND script_type = 'multisig'`).Scan(&addresses))
	s.Equal([]string{"a", "b"}, addresses)
}

func (s *RepositorySuite) TestSaveBlockIsIdempotent() {
	s.saveChain(0, 1, "a")
	s.saveChain(1, 1, "a")

	s.Equal(int64(2), s.countRows("blocks"))
	s.Equal(int64(4), s.countRows("transactions"))
	s.Equal(int64(6), s.countRows("tx_inputs"))
	s.Equal(int64(6), s.countRows("tx_outputs"))
}

func (s *RepositorySuite) TestSaveBlockReplacesDifferentHashAtHeight() {
	s.saveChain(0, 1, "a")
	s.Require().NoError(s.repo.SaveBlock(s.testCtx, newBlock(1, "b")))

	hash, ok, err := s.repo.BlockHashAtHeight(s.testCtx, 1)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal(hashFor(1, "b"), hash)
	s.Equal(int64(2), s.countRows("blocks"))
	s.Equal(int64(4), s.countRows("transactions"))
}

func (s *RepositorySuite) TestSaveBlockRollsBackOnFailure() {
	s.saveChain(0, 0, "a")

	broken := newBlock(1, "a")
	broken.Transactions = append(broken.Transactions, broken.Transactions[0])

	s.Require().Error(s.repo.SaveBlock(s.testCtx, broken))

	s.Equal(int64(1), s.countRows("blocks"))
	s.Equal(int64(2), s.countRows("transactions"))
	_, ok, err := s.repo.BlockHashAtHeight(s.testCtx, 1)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RepositorySuite) TestDeleteBlocksFromCascades() {
	s.saveChain(0, 10, "a")

	removed, err := s.repo.DeleteBlocksFrom(s.testCtx, 8)
	s.Require().NoError(err)
	s.Equal(int64(3), removed)

	height, _, err := s.repo.MaxBlockHeight(s.testCtx)
	s.Require().NoError(err)
	s.Equal(uint64(7), height)
	s.Equal(int64(8), s.countRows("blocks"))
	s.Equal(int64(16), s.countRows("transactions"))
	s.Equal(int64(24), s.countRows("tx_inputs"))
	s.Equal(int64(24), s.countRows("tx_outputs"))

	var orphans int64
	s.Require().NoError(s.repo.pool.QueryRow(s.testCtx,
		`SELECT count(*) FROM transactions WHERE block_height >= 8`).Scan(&orphans))
	s.Zero(orphans)
}

func (s *RepositorySuite) TestBlockHeaders() {
	s.saveChain(0, 4, "a")

	headers, err := s.repo.BlockHeaders(s.testCtx, 2, 9)
	s.Require().NoError(err)
	s.Require().Len(headers, 3)

	want := newBlock(3, "a").Header()
	s.Equal(want, headers[1])
	s.Equal(uint64(4), headers[2].Height)

	genesis, err := s.repo.BlockHeaders(s.testCtx, 0, 0)
	s.Require().NoError(err)
	s.Require().Len(genesis, 1)
	s.Empty(genesis[0].PreviousBlockHash)
}

func (s *RepositorySuite) TestReadOnlyPoolRejectsWrites() {
	readOnly, err := NewRepository(s.testCtx, s.dsn, s.metrics, WithReadOnly(), WithMaxConns(2))
	s.Require().NoError(err)
	defer readOnly.Close()

	s.saveChain(0, 0, "a")

	s.Require().Error(readOnly.SaveBlock(s.testCtx, newBlock(1, "a")))
	_, err = readOnly.DeleteBlocksFrom(s.testCtx, 0)
	s.Require().Error(err)

	headers, err := readOnly.BlockHeaders(s.testCtx, 0, 0)
	s.Require().NoError(err)
	s.Equal([]model.BlockHeader{newBlock(0, "a").Header()}, headers)
}

func (s *RepositorySuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.testCtx)
	cancel()

	s.Require().Error(s.repo.SaveBlock(ctx, newBlock(0, "a")))
	s.Zero(s.countRows("blocks"))
}
