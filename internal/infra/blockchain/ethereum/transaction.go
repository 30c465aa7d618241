package ethereum

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gabapcia/ethcrawler/internal/crawler"
	"github.com/gabapcia/ethcrawler/internal/pkg/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// TransactionResponse is the subset of an eth_getTransactionByHash result the crawler reads.
// To is nil for contract creations.
type TransactionResponse struct {
	Hash        common.Hash     `json:"hash"`
	BlockHash   *common.Hash    `json:"blockHash"`
	BlockNumber *types.Hex      `json:"blockNumber"`
	From        common.Address  `json:"from"`
	To          *common.Address `json:"to"`
	Value       *hexutil.Big    `json:"value"`
	Nonce       hexutil.Uint64  `json:"nonce"`
	Input       hexutil.Bytes   `json:"input"`
}

// toCrawlerTransaction converts a TransactionResponse to a crawler.Transaction.
// hexutil.Big already rejects values wider than 256 bits.
func (t TransactionResponse) toCrawlerTransaction() crawler.Transaction {
	value := new(uint256.Int)
	if t.Value != nil {
		value = uint256.MustFromBig(t.Value.ToInt())
	}

	return crawler.Transaction{
		Hash:  t.Hash,
		From:  t.From,
		To:    t.To,
		Value: value,
	}
}

// TransactionByHash implements crawler.Blockchain using eth_getTransactionByHash.
// A null result is reported as crawler.ErrTransactionNotFound.
func (c *client) TransactionByHash(ctx context.Context, hash common.Hash) (crawler.Transaction, error) {
	data, err := c.conn.Fetch(ctx, "eth_getTransactionByHash", hash)
	if err != nil {
		return crawler.Transaction{}, err
	}

	if isNull(data) {
		return crawler.Transaction{}, fmt.Errorf("%w: %s", crawler.ErrTransactionNotFound, hash.Hex())
	}

	var transactionResponse TransactionResponse
	if err := json.Unmarshal(data, &transactionResponse); err != nil {
		return crawler.Transaction{}, fmt.Errorf("decode transaction %s: %w", hash.Hex(), err)
	}

	return transactionResponse.toCrawlerTransaction(), nil
}
