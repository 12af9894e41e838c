package rest

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/store"
)

// PaginationParams holds the limit/offset pair shared by every list endpoint
type PaginationParams struct {
	Limit  int    `form:"limit,default=50" binding:"min=0"`
	Offset uint64 `form:"offset,default=0"`
}

// capLimit applies store.MaxQueryLimit
func (p *PaginationParams) capLimit() {
	if p.Limit > store.MaxQueryLimit {
		p.Limit = store.MaxQueryLimit
	}
}

// ListWorkspacesQueryParams holds query parameters for GET /v1/workspaces
type ListWorkspacesQueryParams struct {
	PaginationParams
	Creator string `form:"creator"`
}

// ListBalancesQueryParams holds query parameters for GET /v1/balances
type ListBalancesQueryParams struct {
	PaginationParams
	WorkspaceID string `form:"workspace_id"`
	Owner       string `form:"owner"`
	TokenID     string `form:"token_id"`
}

// ListTransfersQueryParams holds query parameters for GET /v1/transfers
type ListTransfersQueryParams struct {
	PaginationParams
	WorkspaceID string `form:"workspace_id"`
	TokenID     string `form:"token_id"`
	Address     string `form:"address"`
}

// ParseListWorkspacesQuery parses query parameters for GET /v1/workspaces
func ParseListWorkspacesQuery(c *gin.Context) (*ListWorkspacesQueryParams, error) {
	var params ListWorkspacesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.capLimit()

	creator, err := normalizeOptionalAddress("creator", params.Creator)
	if err != nil {
		return nil, err
	}
	params.Creator = creator

	return &params, nil
}

// ParseListBalancesQuery parses query parameters for GET /v1/balances
func ParseListBalancesQuery(c *gin.Context) (*ListBalancesQueryParams, error) {
	var params ListBalancesQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.capLimit()

	owner, err := normalizeOptionalAddress("owner", params.Owner)
	if err != nil {
		return nil, err
	}
	params.Owner = owner

	tokenID, err := normalizeOptionalUint256("token_id", params.TokenID)
	if err != nil {
		return nil, err
	}
	params.TokenID = tokenID

	return &params, nil
}

// ParseListTransfersQuery parses query parameters for GET /v1/transfers
func ParseListTransfersQuery(c *gin.Context) (*ListTransfersQueryParams, error) {
	var params ListTransfersQueryParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.capLimit()

	address, err := normalizeOptionalAddress("address", params.Address)
	if err != nil {
		return nil, err
	}
	params.Address = address

	tokenID, err := normalizeOptionalUint256("token_id", params.TokenID)
	if err != nil {
		return nil, err
	}
	params.TokenID = tokenID

	return &params, nil
}

// ParsePagination parses limit and offset only
func ParsePagination(c *gin.Context) (*PaginationParams, error) {
	var params PaginationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		return nil, err
	}
	params.capLimit()
	return &params, nil
}

func normalizeOptionalAddress(name, address string) (string, error) {
	if address == "" {
		return "", nil
	}
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("%s must be a hex address", name)
	}
	return domain.NormalizeAddress(address), nil
}

// normalizeOptionalUint256 accepts decimal or 0x-hex and returns decimal
func normalizeOptionalUint256(name, value string) (string, error) {
	if value == "" {
		return "", nil
	}
	v, err := domain.ParseUint256(value)
	if err != nil {
		return "", fmt.Errorf("%s must be an unsigned 256-bit integer", name)
	}
	return v.String(), nil
}
