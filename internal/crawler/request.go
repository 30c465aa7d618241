package crawler

import (
	"fmt"

	"github.com/gabapcia/ethcrawler/internal/pkg/validator"

	"github.com/ethereum/go-ethereum/common"
)

// Request describes a single crawl: every transaction touching Address in
// blocks FromBlock through ToBlock, both inclusive.
type Request struct {
	Address   string  `validate:"required,eth_addr"` // 0x-prefixed, 40 hex digits, any case
	FromBlock uint64  // first block to scan
	ToBlock   *uint64 // last block to scan; nil means the chain head at the time of the crawl
}

// target validates the request and returns the parsed address.
func (r Request) target() (common.Address, error) {
	if err := validator.Validate(r); err != nil {
		return common.Address{}, fmt.Errorf("%w: %w", ErrInvalidAddress, err)
	}

	return common.HexToAddress(r.Address), nil
}

// blockRange enumerates from..to inclusive. It is empty when from > to.
func blockRange(from, to uint64) []uint64 {
	if from > to {
		return nil
	}

	numbers := make([]uint64, 0, to-from+1)
	for n := from; ; n++ {
		numbers = append(numbers, n)
		if n == to {
			break
		}
	}

	return numbers
}
