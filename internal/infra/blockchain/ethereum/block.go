package ethereum

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/ethcrawler/internal/crawler"
	"github.com/gabapcia/ethcrawler/internal/pkg/types"

	"github.com/ethereum/go-ethereum/common"
)

// BlockResponse is the subset of an eth_getBlockByNumber result the crawler reads.
// Blocks are requested without full transaction objects, so Transactions holds hashes.
type BlockResponse struct {
	Hash         common.Hash   `json:"hash"`
	ParentHash   common.Hash   `json:"parentHash"`
	Number       types.Hex     `json:"number"`
	Timestamp    types.Hex     `json:"timestamp"`
	Transactions []common.Hash `json:"transactions"`
}

// toCrawlerBlock converts a BlockResponse to a crawler.Block.
func (b BlockResponse) toCrawlerBlock() crawler.Block {
	return crawler.Block{
		Number:            b.Number.Uint64(),
		TransactionHashes: b.Transactions,
	}
}

// LatestBlockNumber implements crawler.Blockchain using eth_blockNumber.
func (c *client) LatestBlockNumber(ctx context.Context) (uint64, error) {
	data, err := c.conn.Fetch(ctx, "eth_blockNumber")
	if err != nil {
		return 0, err
	}

	var blockNumber types.Hex
	if err := json.Unmarshal(data, &blockNumber); err != nil {
		return 0, fmt.Errorf("decode block number: %w", err)
	}

	return blockNumber.Uint64(), nil
}

// BlockByNumber implements crawler.Blockchain using eth_getBlockByNumber.
// A null result is reported as crawler.ErrBlockNotFound.
func (c *client) BlockByNumber(ctx context.Context, number uint64) (crawler.Block, error) {
	data, err := c.conn.Fetch(ctx, "eth_getBlockByNumber", types.HexFromUint64(number), false)
	if err != nil {
		return crawler.Block{}, err
	}

	if isNull(data) {
		return crawler.Block{}, fmt.Errorf("%w: %d", crawler.ErrBlockNotFound, number)
	}

	var blockResponse BlockResponse
	if err := json.Unmarshal(data, &blockResponse); err != nil {
		return crawler.Block{}, fmt.Errorf("decode block %d: %w", number, err)
	}

	return blockResponse.toCrawlerBlock(), nil
}
