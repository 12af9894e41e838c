package dto

import (
	"time"

	"github.com/hackdays-io/toban-indexer/internal/store/schema"
)

// WorkspaceResponse is a workspace as returned by the API
type WorkspaceResponse struct {
	ID                   string    `json:"id"`
	Creator              string    `json:"creator"`
	Owner                string    `json:"owner"`
	TopHatID             string    `json:"top_hat_id"`
	HatterHatID          string    `json:"hatter_hat_id"`
	HatsTimeFrameModule  string    `json:"hats_time_frame_module"`
	HatsHatCreatorModule string    `json:"hats_hat_creator_module"`
	SplitCreator         string    `json:"split_creator"`
	BlockNumber          uint64    `json:"block_number"`
	BlockTimestamp       time.Time `json:"block_timestamp"`
	TxHash               string    `json:"tx_hash"`
}

// BalanceResponse is a role-share balance as returned by the API
type BalanceResponse struct {
	ID           string    `json:"id"`
	Scope        string    `json:"scope"`
	TokenID      string    `json:"token_id"`
	OwnerAddress string    `json:"owner_address"`
	Balance      string    `json:"balance"`
	WorkspaceID  string    `json:"workspace_id"`
	HatID        string    `json:"hat_id"`
	Wearer       string    `json:"wearer"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TransferResponse is a role-share history record as returned by the API
type TransferResponse struct {
	ID             string    `json:"id"`
	Scope          string    `json:"scope"`
	Kind           string    `json:"kind"`
	TokenID        string    `json:"token_id"`
	FromAddress    string    `json:"from_address"`
	ToAddress      string    `json:"to_address"`
	Amount         string    `json:"amount"`
	WorkspaceID    string    `json:"workspace_id"`
	HatID          string    `json:"hat_id"`
	Wearer         string    `json:"wearer"`
	TxHash         string    `json:"tx_hash"`
	LogIndex       uint      `json:"log_index"`
	BlockNumber    uint64    `json:"block_number"`
	BlockTimestamp time.Time `json:"block_timestamp"`
}

// ThanksTokenBalanceResponse is a ThanksToken balance as returned by the API
type ThanksTokenBalanceResponse struct {
	ContractAddress string    `json:"contract_address"`
	OwnerAddress    string    `json:"owner_address"`
	Balance         string    `json:"balance"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ListResponse wraps a page of items
type ListResponse[T any] struct {
	Items  []T    `json:"items"`
	Limit  int    `json:"limit"`
	Offset uint64 `json:"offset"`
}

// NewListResponse maps a page of rows with fn
func NewListResponse[S any, T any](rows []S, limit int, offset uint64, fn func(S) T) ListResponse[T] {
	items := make([]T, 0, len(rows))
	for _, row := range rows {
		items = append(items, fn(row))
	}
	return ListResponse[T]{Items: items, Limit: limit, Offset: offset}
}

func MapWorkspace(w *schema.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:                   w.ID,
		Creator:              w.Creator,
		Owner:                w.Owner,
		TopHatID:             w.TopHatID,
		HatterHatID:          w.HatterHatID,
		HatsTimeFrameModule:  w.HatsTimeFrameModule,
		HatsHatCreatorModule: w.HatsHatCreatorModule,
		SplitCreator:         w.SplitCreator,
		BlockNumber:          w.BlockNumber,
		BlockTimestamp:       w.BlockTimestamp,
		TxHash:               w.TxHash,
	}
}

func MapBalance(b *schema.Balance) BalanceResponse {
	return BalanceResponse{
		ID:           b.ID,
		Scope:        b.Scope,
		TokenID:      b.TokenID,
		OwnerAddress: b.OwnerAddress,
		Balance:      b.Balance,
		WorkspaceID:  b.WorkspaceID,
		HatID:        b.HatID,
		Wearer:       b.Wearer,
		UpdatedAt:    b.UpdatedAt,
	}
}

func MapTransfer(t *schema.Transfer) TransferResponse {
	return TransferResponse{
		ID:             t.ID,
		Scope:          t.Scope,
		Kind:           string(t.Kind),
		TokenID:        t.TokenID,
		FromAddress:    t.FromAddress,
		ToAddress:      t.ToAddress,
		Amount:         t.Amount,
		WorkspaceID:    t.WorkspaceID,
		HatID:          t.HatID,
		Wearer:         t.Wearer,
		TxHash:         t.TxHash,
		LogIndex:       t.LogIndex,
		BlockNumber:    t.BlockNumber,
		BlockTimestamp: t.BlockTimestamp,
	}
}

func MapThanksTokenBalance(b *schema.ThanksTokenBalance) ThanksTokenBalanceResponse {
	return ThanksTokenBalanceResponse{
		ContractAddress: b.ContractAddress,
		OwnerAddress:    b.OwnerAddress,
		Balance:         b.Balance,
		UpdatedAt:       b.UpdatedAt,
	}
}
