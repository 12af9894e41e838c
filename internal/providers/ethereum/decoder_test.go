package ethereum_test

import (
	"math/big"
	"os"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/logger"
	"github.com/hackdays-io/toban-indexer/internal/providers/ethereum"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

var (
	contractAddr = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	creatorAddr  = common.HexToAddress("0xAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAaAa")
	ownerAddr    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	moduleBAddr  = common.HexToAddress("0xBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBbBb")
	moduleCAddr  = common.HexToAddress("0xCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCcCc")
	splitAddr    = common.HexToAddress("0xDdDdDdDdDdDdDdDdDdDdDdDdDdDdDdDdDdDdDdDd")
	wearerAddr   = common.HexToAddress("0xEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEeEe")
	txHash       = common.HexToHash("0xabc0000000000000000000000000000000000000000000000000000000000001")
	blockHash    = common.HexToHash("0xdef0000000000000000000000000000000000000000000000000000000000002")

	topHatID = mustBig("0x0000023a00000000000000000000000000000000000000000000000000000000")
)

func mustBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 0)
	if !ok {
		panic(s)
	}
	return v
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic(err)
	}
	return typ
}

func pack(t *testing.T, typeNames []string, values ...interface{}) []byte {
	args := make(abi.Arguments, 0, len(typeNames))
	for _, typ := range typeNames {
		args = append(args, abi.Argument{Type: mustType(typ)})
	}
	data, err := args.Pack(values...)
	require.NoError(t, err)
	return data
}

func addressTopic(a common.Address) common.Hash {
	return common.BytesToHash(a.Bytes())
}

func newDecoder(t *testing.T) ethereum.Decoder {
	d, err := ethereum.NewDecoder(domain.ChainBaseSepolia)
	require.NoError(t, err)
	return d
}

func TestDecoder_Topics(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name      domain.EventName
		signature string
	}{
		{domain.EventExecuted, "Executed(address,address,uint256,uint256,address,address,address)"},
		{domain.EventInitialMint, "InitialMint(uint256,uint256,address)"},
		{domain.EventTransferSingle, "TransferSingle(address,address,address,uint256,uint256)"},
		{domain.EventTokensMinted, "TokensMinted(address,uint256)"},
		{domain.EventTransfer, "Transfer(address,address,uint256)"},
	}

	for _, tt := range tests {
		t.Run(string(tt.name), func(t *testing.T) {
			assert.Equal(t, crypto.Keccak256Hash([]byte(tt.signature)), d.Topic(tt.name))
		})
	}
}

func TestDecoder_Decode(t *testing.T) {
	d := newDecoder(t)

	base := types.Log{
		Address:     contractAddr,
		TxHash:      txHash,
		BlockHash:   blockHash,
		BlockNumber: 100,
		Index:       3,
	}

	tests := []struct {
		name     string
		log      func() types.Log
		expected func(ev *domain.ChainEvent)
	}{
		{
			name: "Executed",
			log: func() types.Log {
				l := base
				l.Topics = []common.Hash{
					d.Topic(domain.EventExecuted),
					addressTopic(creatorAddr),
					addressTopic(ownerAddr),
					common.BigToHash(topHatID),
				}
				l.Data = pack(t, []string{"uint256", "address", "address", "address"},
					big.NewInt(2), moduleBAddr, moduleCAddr, splitAddr)
				return l
			},
			expected: func(ev *domain.ChainEvent) {
				require.NotNil(t, ev.Executed)
				assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ev.Executed.Creator)
				assert.Equal(t, "0x1111111111111111111111111111111111111111", ev.Executed.Owner)
				assert.Equal(t, topHatID.String(), ev.Executed.TopHatID)
				assert.Equal(t, "2", ev.Executed.HatterHatID)
				assert.Equal(t, "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", ev.Executed.HatsTimeFrameModule)
				assert.Equal(t, "0xcccccccccccccccccccccccccccccccccccccccc", ev.Executed.HatsHatCreatorModule)
				assert.Equal(t, "0xdddddddddddddddddddddddddddddddddddddddd", ev.Executed.SplitCreator)
			},
		},
		{
			name: "InitialMint",
			log: func() types.Log {
				l := base
				l.Topics = []common.Hash{
					d.Topic(domain.EventInitialMint),
					common.BigToHash(big.NewInt(1)),
					common.BigToHash(topHatID),
					addressTopic(wearerAddr),
				}
				return l
			},
			expected: func(ev *domain.ChainEvent) {
				require.NotNil(t, ev.InitialMint)
				assert.Equal(t, "1", ev.InitialMint.TokenID)
				assert.Equal(t, topHatID.String(), ev.InitialMint.HatID)
				assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", ev.InitialMint.Wearer)
			},
		},
		{
			name: "TransferSingle",
			log: func() types.Log {
				l := base
				l.Topics = []common.Hash{
					d.Topic(domain.EventTransferSingle),
					addressTopic(ownerAddr),
					addressTopic(wearerAddr),
					addressTopic(creatorAddr),
				}
				l.Data = pack(t, []string{"uint256", "uint256"}, big.NewInt(1), big.NewInt(50))
				return l
			},
			expected: func(ev *domain.ChainEvent) {
				require.NotNil(t, ev.TransferSingle)
				assert.Equal(t, "0x1111111111111111111111111111111111111111", ev.TransferSingle.Operator)
				assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", ev.TransferSingle.From)
				assert.Equal(t, "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", ev.TransferSingle.To)
				assert.Equal(t, "1", ev.TransferSingle.ID)
				assert.Equal(t, "50", ev.TransferSingle.Value)
			},
		},
		{
			name: "TokensMinted",
			log: func() types.Log {
				l := base
				l.Topics = []common.Hash{d.Topic(domain.EventTokensMinted), addressTopic(wearerAddr)}
				l.Data = pack(t, []string{"uint256"}, big.NewInt(7))
				return l
			},
			expected: func(ev *domain.ChainEvent) {
				require.NotNil(t, ev.TokensMinted)
				assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", ev.TokensMinted.To)
				assert.Equal(t, "7", ev.TokensMinted.Amount)
			},
		},
		{
			name: "ERC20 Transfer",
			log: func() types.Log {
				l := base
				l.Topics = []common.Hash{
					d.Topic(domain.EventTransfer),
					addressTopic(wearerAddr),
					common.Hash{},
				}
				l.Data = pack(t, []string{"uint256"}, big.NewInt(9))
				return l
			},
			expected: func(ev *domain.ChainEvent) {
				require.NotNil(t, ev.Transfer)
				assert.Equal(t, "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee", ev.Transfer.From)
				assert.Equal(t, domain.ETHEREUM_ZERO_ADDRESS, ev.Transfer.To)
				assert.Equal(t, "9", ev.Transfer.Value)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := d.Decode(tt.log())
			require.NoError(t, err)
			require.NotNil(t, ev)

			assert.Equal(t, domain.ChainBaseSepolia, ev.Chain)
			assert.Equal(t, "0x5fbdb2315678afecb367f032d93f642f64180aa3", ev.ContractAddress)
			assert.Equal(t, txHash.Hex(), ev.TxHash)
			assert.Equal(t, blockHash.Hex(), ev.BlockHash)
			assert.Equal(t, uint64(100), ev.BlockNumber)
			assert.Equal(t, uint(3), ev.LogIndex)
			assert.True(t, ev.Timestamp.IsZero())
			assert.True(t, ev.Valid())
			tt.expected(ev)
		})
	}
}

func TestDecoder_Decode_Skipped(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name string
		log  types.Log
	}{
		{
			name: "no topics",
			log:  types.Log{Address: contractAddr},
		},
		{
			name: "unknown signature",
			log: types.Log{
				Address: contractAddr,
				Topics:  []common.Hash{crypto.Keccak256Hash([]byte("Approval(address,address,uint256)"))},
			},
		},
		{
			name: "ERC721 transfer",
			log: types.Log{
				Address: contractAddr,
				Topics: []common.Hash{
					d.Topic(domain.EventTransfer),
					addressTopic(wearerAddr),
					addressTopic(creatorAddr),
					common.BigToHash(big.NewInt(1)),
				},
			},
		},
		{
			name: "removed log",
			log: types.Log{
				Address: contractAddr,
				Topics:  []common.Hash{d.Topic(domain.EventTokensMinted), addressTopic(wearerAddr)},
				Data:    pack(t, []string{"uint256"}, big.NewInt(7)),
				Removed: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := d.Decode(tt.log)
			assert.NoError(t, err)
			assert.Nil(t, ev)
		})
	}
}

func TestDecoder_Decode_Malformed(t *testing.T) {
	d := newDecoder(t)

	tests := []struct {
		name string
		log  types.Log
	}{
		{
			name: "missing topic",
			log: types.Log{
				Address: contractAddr,
				TxHash:  txHash,
				Topics:  []common.Hash{d.Topic(domain.EventInitialMint), common.BigToHash(big.NewInt(1))},
			},
		},
		{
			name: "short data",
			log: types.Log{
				Address: contractAddr,
				TxHash:  txHash,
				Topics: []common.Hash{
					d.Topic(domain.EventTransferSingle),
					addressTopic(ownerAddr),
					addressTopic(wearerAddr),
					addressTopic(creatorAddr),
				},
				Data: pack(t, []string{"uint256"}, big.NewInt(1)),
			},
		},
		{
			name: "empty data",
			log: types.Log{
				Address: contractAddr,
				TxHash:  txHash,
				Topics:  []common.Hash{d.Topic(domain.EventTokensMinted), addressTopic(wearerAddr)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := d.Decode(tt.log)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedEvent)
			assert.Nil(t, ev)
		})
	}
}
