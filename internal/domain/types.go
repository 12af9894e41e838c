package domain

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Chain represents the blockchain network identifier using CAIP-2 format
type Chain string

const (
	ChainEthereumMainnet Chain = "eip155:1"
	ChainEthereumSepolia Chain = "eip155:11155111"
	ChainBaseMainnet     Chain = "eip155:8453"
	ChainBaseSepolia     Chain = "eip155:84532"
)

// IsValidChain checks if a chain is valid
func IsValidChain(chain Chain) bool {
	return chain == ChainEthereumMainnet ||
		chain == ChainEthereumSepolia ||
		chain == ChainBaseMainnet ||
		chain == ChainBaseSepolia
}

// Namespace returns the subject-safe short name of the chain (e.g. "eip155-8453")
func (c Chain) Namespace() string {
	return strings.ReplaceAll(string(c), ":", "-")
}

// EventName identifies a contract log emitted by the Toban contracts
type EventName string

const (
	// EventExecuted is emitted by BigBang when a workspace is created
	EventExecuted EventName = "Executed"
	// EventInitialMint is emitted by a fraction token on the first mint of a role-share token
	EventInitialMint EventName = "InitialMint"
	// EventTransferSingle is the ERC-1155 single transfer
	EventTransferSingle EventName = "TransferSingle"
	// EventTokensMinted is emitted by a ThanksToken on mint
	EventTokensMinted EventName = "TokensMinted"
	// EventTransfer is the ERC-20 transfer emitted by a ThanksToken
	EventTransfer EventName = "Transfer"
)

// ExecutedPayload is the decoded BigBang Executed event
type ExecutedPayload struct {
	Creator              string `json:"creator"`
	Owner                string `json:"owner"`
	TopHatID             string `json:"top_hat_id"`
	HatterHatID          string `json:"hatter_hat_id"`
	HatsTimeFrameModule  string `json:"hats_time_frame_module"`
	HatsHatCreatorModule string `json:"hats_hat_creator_module"`
	SplitCreator         string `json:"split_creator"`
}

// InitialMintPayload is the decoded fraction token InitialMint event
type InitialMintPayload struct {
	TokenID string `json:"token_id"`
	HatID   string `json:"hat_id"`
	Wearer  string `json:"wearer"`
}

// TransferSinglePayload is the decoded ERC-1155 TransferSingle event
type TransferSinglePayload struct {
	Operator string `json:"operator"`
	From     string `json:"from"`
	To       string `json:"to"`
	ID       string `json:"id"`
	Value    string `json:"value"`
}

// TokensMintedPayload is the decoded ThanksToken TokensMinted event
type TokensMintedPayload struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
}

// TransferPayload is the decoded ERC-20 Transfer event
type TransferPayload struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Value string `json:"value"`
}

// ChainEvent represents a decoded contract log
// This is the standard format published to NATS
type ChainEvent struct {
	Chain           Chain     `json:"chain"`            // e.g., "eip155:8453"
	ContractAddress string    `json:"contract_address"` // emitting contract, lowercase hex
	Name            EventName `json:"name"`             // Executed, InitialMint, ...
	TxHash          string    `json:"tx_hash"`          // transaction hash
	LogIndex        uint      `json:"log_index"`        // log index in the block
	BlockNumber     uint64    `json:"block_number"`     // block number
	BlockHash       string    `json:"block_hash"`       // block hash
	Timestamp       time.Time `json:"timestamp"`        // block timestamp

	Executed       *ExecutedPayload       `json:"executed,omitempty"`
	InitialMint    *InitialMintPayload    `json:"initial_mint,omitempty"`
	TransferSingle *TransferSinglePayload `json:"transfer_single,omitempty"`
	TokensMinted   *TokensMintedPayload   `json:"tokens_minted,omitempty"`
	Transfer       *TransferPayload       `json:"transfer,omitempty"`
}

// ID returns the unique identifier of the log the event was decoded from
func (e *ChainEvent) ID() string {
	return fmt.Sprintf("%s:%s:%d", e.Chain, e.TxHash, e.LogIndex)
}

// Valid checks that the event carries exactly the payload its name requires
// and that every address and integer in it is well-formed
func (e *ChainEvent) Valid() bool {
	if !common.IsHexAddress(e.ContractAddress) || e.TxHash == "" {
		return false
	}

	payloads := 0
	for _, set := range []bool{
		e.Executed != nil,
		e.InitialMint != nil,
		e.TransferSingle != nil,
		e.TokensMinted != nil,
		e.Transfer != nil,
	} {
		if set {
			payloads++
		}
	}
	if payloads != 1 {
		return false
	}

	switch e.Name {
	case EventExecuted:
		p := e.Executed
		return p != nil &&
			validAddresses(p.Creator, p.Owner, p.HatsTimeFrameModule, p.HatsHatCreatorModule, p.SplitCreator) &&
			validUint256(p.TopHatID) && validUint256(p.HatterHatID)
	case EventInitialMint:
		p := e.InitialMint
		return p != nil && validAddresses(p.Wearer) && validUint256(p.TokenID) && validUint256(p.HatID)
	case EventTransferSingle:
		p := e.TransferSingle
		return p != nil && validAddresses(p.Operator, p.From, p.To) && validUint256(p.ID) && validUint256(p.Value)
	case EventTokensMinted:
		p := e.TokensMinted
		return p != nil && validAddresses(p.To) && validUint256(p.Amount)
	case EventTransfer:
		p := e.Transfer
		return p != nil && validAddresses(p.From, p.To) && validUint256(p.Value)
	default:
		return false
	}
}

// NormalizeAddress normalizes an address to lowercase 0x-prefixed hex
func NormalizeAddress(address string) string {
	if !common.IsHexAddress(address) {
		return strings.ToLower(address)
	}
	return strings.ToLower(common.HexToAddress(address).Hex())
}

// ParseUint256 parses a decimal or 0x-prefixed hex integer
func ParseUint256(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok || v.Sign() < 0 || v.BitLen() > 256 {
		return nil, fmt.Errorf("%w: invalid uint256 %q", ErrMalformedEvent, s)
	}
	return v, nil
}

func validAddresses(addresses ...string) bool {
	for _, a := range addresses {
		if !common.IsHexAddress(a) {
			return false
		}
	}
	return true
}

func validUint256(s string) bool {
	_, err := ParseUint256(s)
	return err == nil
}
