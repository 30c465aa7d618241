package crawler

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// etherDecimals is the number of wei digits in one ether.
const etherDecimals = 18

var weiPerEther = uint256.NewInt(1_000_000_000_000_000_000)

// MatchedTransaction is a transaction that involves the crawled address, with its
// value converted to ether.
type MatchedTransaction struct {
	Hash  common.Hash     `json:"hash"`
	From  common.Address  `json:"from"`
	To    *common.Address `json:"to"`
	Value string          `json:"value"` // ether, always 18 fractional digits
}

// Project returns the output record for tx when target is its sender or its
// recipient. A contract creation only matches on the sender side.
func Project(target common.Address, tx Transaction) (MatchedTransaction, bool) {
	if tx.From != target && (tx.To == nil || *tx.To != target) {
		return MatchedTransaction{}, false
	}

	return MatchedTransaction{
		Hash:  tx.Hash,
		From:  tx.From,
		To:    tx.To,
		Value: FormatEther(tx.Value),
	}, true
}

// FormatEther renders a wei amount as ether with exactly 18 fractional digits,
// e.g. 1 wei is "0.000000000000000001". A nil amount is zero.
func FormatEther(wei *uint256.Int) string {
	if wei == nil {
		wei = new(uint256.Int)
	}

	var whole, frac uint256.Int
	whole.DivMod(wei, weiPerEther, &frac)

	fracDigits := frac.Dec()
	return whole.Dec() + "." + strings.Repeat("0", etherDecimals-len(fracDigits)) + fracDigits
}
