package model

import "math/big"

// TokenMeta captures ERC20 metadata for one pool asset.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// PoolSnapshot is one consistent read of the pool state every later stage is
// anchored to. All fields are fetched against the same block number; a new
// snapshot must be taken to observe state changes.
type PoolSnapshot struct {
	ChainID      uint64
	Address      string
	BlockNumber  uint64
	SqrtPriceX96 *big.Int
	Tick         int32
	TickSpacing  int32
	Fee          uint32
	Liquidity    *big.Int
	Token0       TokenMeta
	Token1       TokenMeta
}
