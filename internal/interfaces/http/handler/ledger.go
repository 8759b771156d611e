package handler

import (
	"time"

	appledger "github.com/commerce/backend/internal/application/ledger"
	"github.com/commerce/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LedgerHandler handles chart of accounts and journal endpoints
type LedgerHandler struct {
	BaseHandler
	service *appledger.PostingService
}

// NewLedgerHandler creates a new ledger handler
func NewLedgerHandler(service *appledger.PostingService, logger *zap.Logger) *LedgerHandler {
	return &LedgerHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// RegisterRoutes registers ledger routes on the given group
func (h *LedgerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	ledger := rg.Group("/ledger")
	{
		ledger.GET("/accounts", h.ListAccounts)
		ledger.GET("/accounts/:code", h.GetAccount)
		ledger.GET("/journal-entries", h.ListJournalEntries)
		ledger.GET("/journal-entries/:number", h.GetJournalEntry)
		ledger.GET("/trial-balance", h.TrialBalance)
		ledger.POST("/close-period", h.ClosePeriod)
	}
}

// ListAccounts handles GET /ledger/accounts
func (h *LedgerHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.service.GetChartOfAccounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetAccount handles GET /ledger/accounts/:code
func (h *LedgerHandler) GetAccount(c *gin.Context) {
	account, err := h.service.GetAccountByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

type listJournalEntriesRequest struct {
	dto.ListRequest
	Start time.Time `form:"start" time_format:"2006-01-02"`
	End   time.Time `form:"end" time_format:"2006-01-02"`
}

// ListJournalEntries handles GET /ledger/journal-entries
func (h *LedgerHandler) ListJournalEntries(c *gin.Context) {
	var req listJournalEntriesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	end := req.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	page, err := h.service.GetJournalEntriesByPeriod(c.Request.Context(), req.Start, end, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetJournalEntry handles GET /ledger/journal-entries/:number
func (h *LedgerHandler) GetJournalEntry(c *gin.Context) {
	entry, err := h.service.GetJournalEntry(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

type closePeriodRequest struct {
	EndDate time.Time `json:"end_date" binding:"required"`
}

// ClosePeriod handles POST /ledger/close-period
func (h *LedgerHandler) ClosePeriod(c *gin.Context) {
	var req closePeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	closed, err := h.service.ClosePeriod(c.Request.Context(), req.EndDate)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"end_date":       req.EndDate,
		"entries_posted": closed,
	})
}

// TrialBalance handles GET /ledger/trial-balance
func (h *LedgerHandler) TrialBalance(c *gin.Context) {
	balance, err := h.service.GetTrialBalance(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balance)
}
