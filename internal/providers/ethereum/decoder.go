package ethereum

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
)

// tobanEventsABI holds the events emitted by the Toban contracts:
// BigBang (Executed), FractionToken and its modules (InitialMint, ERC-1155 TransferSingle)
// and ThanksToken (TokensMinted, ERC-20 Transfer)
const tobanEventsABI = `[
	{"anonymous":false,"name":"Executed","type":"event","inputs":[
		{"indexed":true,"name":"creator","type":"address"},
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"topHatId","type":"uint256"},
		{"indexed":false,"name":"hatterHatId","type":"uint256"},
		{"indexed":false,"name":"hatsTimeFrameModule","type":"address"},
		{"indexed":false,"name":"hatsHatCreatorModule","type":"address"},
		{"indexed":false,"name":"splitCreator","type":"address"}]},
	{"anonymous":false,"name":"InitialMint","type":"event","inputs":[
		{"indexed":true,"name":"tokenId","type":"uint256"},
		{"indexed":true,"name":"hatId","type":"uint256"},
		{"indexed":true,"name":"wearer","type":"address"}]},
	{"anonymous":false,"name":"TransferSingle","type":"event","inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"id","type":"uint256"},
		{"indexed":false,"name":"value","type":"uint256"}]},
	{"anonymous":false,"name":"TokensMinted","type":"event","inputs":[
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"amount","type":"uint256"}]},
	{"anonymous":false,"name":"Transfer","type":"event","inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}
]`

// Decoder turns raw contract logs into chain events
//
//go:generate mockgen -source=decoder.go -destination=../../mocks/decoder.go -package=mocks -mock_names=Decoder=MockDecoder
type Decoder interface {
	// Topic returns the topic0 signature hash of name
	Topic(name domain.EventName) common.Hash

	// Decode parses vLog into a chain event without a block timestamp.
	// Logs that are not Toban events, removed logs and ERC-721 transfers return nil, nil.
	Decode(vLog types.Log) (*domain.ChainEvent, error)
}

type decoder struct {
	chainID domain.Chain
	events  map[common.Hash]abi.Event
	topics  map[domain.EventName]common.Hash
}

// NewDecoder creates a decoder for chainID
func NewDecoder(chainID domain.Chain) (Decoder, error) {
	parsed, err := abi.JSON(strings.NewReader(tobanEventsABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	d := &decoder{
		chainID: chainID,
		events:  make(map[common.Hash]abi.Event, len(parsed.Events)),
		topics:  make(map[domain.EventName]common.Hash, len(parsed.Events)),
	}
	for name, event := range parsed.Events {
		d.events[event.ID] = event
		d.topics[domain.EventName(name)] = event.ID
	}
	return d, nil
}

// Topic returns the topic0 signature hash of name
func (d *decoder) Topic(name domain.EventName) common.Hash {
	return d.topics[name]
}

// Decode parses vLog into a chain event
func (d *decoder) Decode(vLog types.Log) (*domain.ChainEvent, error) {
	if len(vLog.Topics) == 0 {
		return nil, nil
	}
	if vLog.Removed {
		logger.Debug("Skipping removed log",
			zap.String("txHash", vLog.TxHash.Hex()),
			zap.Uint("logIndex", vLog.Index))
		return nil, nil
	}

	event, ok := d.events[vLog.Topics[0]]
	if !ok {
		return nil, nil
	}

	indexed := indexedArguments(event.Inputs)
	if event.Name == string(domain.EventTransfer) && len(vLog.Topics) == 4 {
		// ERC-721 Transfer shares the ERC-20 signature with the token id as a third topic
		logger.Debug("Skipping ERC721 transfer event",
			zap.String("contract", vLog.Address.Hex()),
			zap.String("txHash", vLog.TxHash.Hex()))
		return nil, nil
	}
	if len(vLog.Topics) != len(indexed)+1 {
		return nil, fmt.Errorf("%w: invalid %s event: expected %d topics, got %d",
			domain.ErrMalformedEvent, event.Name, len(indexed)+1, len(vLog.Topics))
	}

	values := make(map[string]interface{}, len(event.Inputs))
	if err := abi.ParseTopicsIntoMap(values, indexed, vLog.Topics[1:]); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s topics: %v", domain.ErrMalformedEvent, event.Name, err)
	}
	if err := event.Inputs.NonIndexed().UnpackIntoMap(values, vLog.Data); err != nil {
		return nil, fmt.Errorf("%w: failed to unpack %s data: %v", domain.ErrMalformedEvent, event.Name, err)
	}

	ev := &domain.ChainEvent{
		Chain:           d.chainID,
		ContractAddress: domain.NormalizeAddress(vLog.Address.Hex()),
		Name:            domain.EventName(event.Name),
		TxHash:          vLog.TxHash.Hex(),
		LogIndex:        vLog.Index,
		BlockNumber:     vLog.BlockNumber,
		BlockHash:       vLog.BlockHash.Hex(),
	}

	args := eventArgs(values)
	switch ev.Name {
	case domain.EventExecuted:
		ev.Executed = &domain.ExecutedPayload{
			Creator:              args.address("creator"),
			Owner:                args.address("owner"),
			TopHatID:             args.uint256("topHatId"),
			HatterHatID:          args.uint256("hatterHatId"),
			HatsTimeFrameModule:  args.address("hatsTimeFrameModule"),
			HatsHatCreatorModule: args.address("hatsHatCreatorModule"),
			SplitCreator:         args.address("splitCreator"),
		}
	case domain.EventInitialMint:
		ev.InitialMint = &domain.InitialMintPayload{
			TokenID: args.uint256("tokenId"),
			HatID:   args.uint256("hatId"),
			Wearer:  args.address("wearer"),
		}
	case domain.EventTransferSingle:
		ev.TransferSingle = &domain.TransferSinglePayload{
			Operator: args.address("operator"),
			From:     args.address("from"),
			To:       args.address("to"),
			ID:       args.uint256("id"),
			Value:    args.uint256("value"),
		}
	case domain.EventTokensMinted:
		ev.TokensMinted = &domain.TokensMintedPayload{
			To:     args.address("to"),
			Amount: args.uint256("amount"),
		}
	case domain.EventTransfer:
		ev.Transfer = &domain.TransferPayload{
			From:  args.address("from"),
			To:    args.address("to"),
			Value: args.uint256("value"),
		}
	}

	if !ev.Valid() {
		return nil, fmt.Errorf("%w: %s at %s", domain.ErrMalformedEvent, ev.Name, ev.ID())
	}
	return ev, nil
}

func indexedArguments(inputs abi.Arguments) abi.Arguments {
	var indexed abi.Arguments
	for _, arg := range inputs {
		if arg.Indexed {
			indexed = append(indexed, arg)
		}
	}
	return indexed
}

// eventArgs reads typed values out of an unpacked argument map.
// A missing or mistyped value renders as an empty string, which fails ChainEvent.Valid.
type eventArgs map[string]interface{}

func (a eventArgs) address(name string) string {
	v, ok := a[name].(common.Address)
	if !ok {
		return ""
	}
	return domain.NormalizeAddress(v.Hex())
}

func (a eventArgs) uint256(name string) string {
	v, ok := a[name].(*big.Int)
	if !ok || v == nil {
		return ""
	}
	return v.String()
}
