package main

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

var weiPerEther = big.NewRat(params.Ether, 1)

// parseEther converts a decimal ETH amount such as "0.008" to wei. Amounts finer than one
// wei are rejected rather than rounded.
func parseEther(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return nil, fmt.Errorf("amount is required")
	}
	r, ok := new(big.Rat).SetString(amount)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("amount must not be negative: %s", amount)
	}
	r.Mul(r, weiPerEther)
	if !r.IsInt() {
		return nil, fmt.Errorf("amount %s has more than 18 decimals", amount)
	}
	return new(big.Int).Set(r.Num()), nil
}

// formatEther renders wei as ETH without trailing zeros.
func formatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	s := new(big.Rat).Quo(new(big.Rat).SetInt(wei), weiPerEther).FloatString(18)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
