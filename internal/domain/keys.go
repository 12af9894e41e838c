package domain

import (
	"fmt"
	"math/big"
)

// treeIDShift is the number of low bits below the top-level tree id in a hat id.
// A hat id is 256 bits wide and its leading 32 bits identify the tree.
const treeIDShift = 256 - 32

// HatIDToTreeID returns the decimal id of the tree that owns hatID
func HatIDToTreeID(hatID *big.Int) string {
	if hatID == nil {
		return "0"
	}
	return new(big.Int).Rsh(hatID, treeIDShift).String()
}

// HatIDStringToTreeID parses a decimal or 0x-hex hat id and returns its tree id
func HatIDStringToTreeID(hatID string) (string, error) {
	v, err := ParseUint256(hatID)
	if err != nil {
		return "", err
	}
	return HatIDToTreeID(v), nil
}

// Scope identifies the ledger a token id belongs to.
// The empty scope is the workspace-independent fraction token; a module or
// token contract address scopes everything it emits.
type Scope string

// GlobalScope is the scope of the shared fraction token contract
const GlobalScope Scope = ""

func (s Scope) String() string {
	if s == GlobalScope {
		return globalScope
	}
	return string(s)
}

// InitializedTokenKey is the id of the initialization record for tokenID within scope
func InitializedTokenKey(scope Scope, tokenID string) string {
	return fmt.Sprintf("%s-%s", scope, tokenID)
}

// BalanceKey is the id of the balance of account for tokenID within scope
func BalanceKey(scope Scope, tokenID, account string) string {
	return fmt.Sprintf("%s-%s-%s", scope, tokenID, NormalizeAddress(account))
}

// TransferKey is the id of a transfer history record.
// The log index keeps two identical transfers in one transaction apart while a
// redelivered log always maps to the same id.
func TransferKey(scope Scope, txHash string, logIndex uint, tokenID, from, to string, blockNumber uint64) string {
	return fmt.Sprintf("%s-%s-%d-%s-%s-%s-%d",
		scope, txHash, logIndex, tokenID, NormalizeAddress(from), NormalizeAddress(to), blockNumber)
}

// ThanksTokenBalanceKey is the id of the balance of account on a ThanksToken contract
func ThanksTokenBalanceKey(contract, account string) string {
	return fmt.Sprintf("%s-%s", NormalizeAddress(contract), NormalizeAddress(account))
}

// ThanksTokenHistoryKey is the id of a ThanksToken mint or transfer record
func ThanksTokenHistoryKey(contract, txHash string, logIndex uint) string {
	return fmt.Sprintf("%s-%s-%d", NormalizeAddress(contract), txHash, logIndex)
}
