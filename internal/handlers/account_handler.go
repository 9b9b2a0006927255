package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hisabu/internal/services"
)

// AccountHandler handles account-related requests.
type AccountHandler struct {
	accountService services.AccountServicer
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountServicer) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// GetAccounts handles the retrieval of the ledger's accounts
// @Summary     Get accounts
// @Description Get the cash and bank account rows with their current balances
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.Account "Accounts"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts [get]
func (h *AccountHandler) GetAccounts(c *gin.Context) {
	accounts, err := h.accountService.GetAccounts()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accounts": accounts})
}

// GetBalances handles the retrieval of the balance summary
// @Summary     Get balances
// @Description Get the cash balance, bank balance, and the derived combined balance
// @Tags        accounts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.BalanceSummary "Balance summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /accounts/balances [get]
func (h *AccountHandler) GetBalances(c *gin.Context) {
	summary, err := h.accountService.Balances()
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balances": summary})
}
