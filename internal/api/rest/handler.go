package rest

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hackdays-io/toban-indexer/internal/api/rest/dto"
	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/store"
)

// Handler defines the interface for REST API handlers
//
//go:generate mockgen -source=handler.go -destination=../../mocks/api_handler.go -package=mocks -mock_names=Handler=MockAPIHandler
type Handler interface {
	// GetWorkspace retrieves a workspace by tree id
	// GET /v1/workspaces/:id
	GetWorkspace(c *gin.Context)

	// ListWorkspaces retrieves workspaces ordered by creation block
	// GET /v1/workspaces?creator=<address>&limit=<limit>&offset=<offset>
	ListWorkspaces(c *gin.Context)

	// ListBalances retrieves role-share balances
	// GET /v1/balances?workspace_id=<id>&owner=<address>&token_id=<id>&limit=<limit>&offset=<offset>
	ListBalances(c *gin.Context)

	// ListTransfers retrieves role-share history
	// GET /v1/transfers?workspace_id=<id>&token_id=<id>&address=<address>&limit=<limit>&offset=<offset>
	ListTransfers(c *gin.Context)

	// ListThanksTokenBalances retrieves the balances of a ThanksToken contract
	// GET /v1/thanks-tokens/:address/balances?limit=<limit>&offset=<offset>
	ListThanksTokenBalances(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /healthz
	HealthCheck(c *gin.Context)
}

type handler struct {
	store store.Store
	chain domain.Chain
}

// NewHandler creates a new REST API handler reading from st
func NewHandler(st store.Store, chain domain.Chain) Handler {
	return &handler{
		store: st,
		chain: chain,
	}
}

func (h *handler) GetWorkspace(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Workspace ID is required")
		return
	}

	workspace, err := h.store.GetWorkspace(c.Request.Context(), id)
	if err != nil {
		respondInternalError(c, err, "Failed to get workspace", zap.String("id", id))
		return
	}
	if workspace == nil {
		respondNotFound(c, "Workspace not found")
		return
	}

	c.JSON(http.StatusOK, dto.MapWorkspace(workspace))
}

func (h *handler) ListWorkspaces(c *gin.Context) {
	params, err := ParseListWorkspacesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	workspaces, err := h.store.ListWorkspaces(c.Request.Context(), store.WorkspaceQueryFilter{
		Creator: params.Creator,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list workspaces")
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(workspaces, params.Limit, params.Offset, dto.MapWorkspace))
}

func (h *handler) ListBalances(c *gin.Context) {
	params, err := ParseListBalancesQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	balances, err := h.store.ListBalances(c.Request.Context(), store.BalanceQueryFilter{
		WorkspaceID:  params.WorkspaceID,
		OwnerAddress: params.Owner,
		TokenID:      params.TokenID,
		Limit:        params.Limit,
		Offset:       params.Offset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list balances")
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(balances, params.Limit, params.Offset, dto.MapBalance))
}

func (h *handler) ListTransfers(c *gin.Context) {
	params, err := ParseListTransfersQuery(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	transfers, err := h.store.ListTransfers(c.Request.Context(), store.TransferQueryFilter{
		WorkspaceID: params.WorkspaceID,
		TokenID:     params.TokenID,
		Address:     params.Address,
		Limit:       params.Limit,
		Offset:      params.Offset,
	})
	if err != nil {
		respondInternalError(c, err, "Failed to list transfers")
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(transfers, params.Limit, params.Offset, dto.MapTransfer))
}

func (h *handler) ListThanksTokenBalances(c *gin.Context) {
	address := c.Param("address")
	if !common.IsHexAddress(address) {
		respondBadRequest(c, "Invalid ThanksToken address")
		return
	}

	params, err := ParsePagination(c)
	if err != nil {
		respondValidationError(c, err.Error())
		return
	}

	balances, err := h.store.ListThanksTokenBalances(c.Request.Context(), domain.NormalizeAddress(address), params.Limit, params.Offset)
	if err != nil {
		respondInternalError(c, err, "Failed to list ThanksToken balances", zap.String("address", address))
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(balances, params.Limit, params.Offset, dto.MapThanksTokenBalance))
}

func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "toban-indexer-api",
		"chain":   h.chain,
	})
}
