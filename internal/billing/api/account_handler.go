package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
	"github.com/yucheng0106/printbill/backend/internal/billing/service"
)

type AccountHandler struct {
	svc *service.AccountService
}

func NewAccountHandler(svc *service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *AccountHandler) RegisterRoutes(r *gin.RouterGroup) {
	accounts := r.Group("/accounts")
	{
		accounts.GET("/receivables", h.ListReceivables)
		accounts.PUT("/receivables/:kind/:id/status", h.SetReceivableStatus)
		accounts.GET("/payables/unpaid", h.ListUnpaidPayables)
		accounts.GET("/payables/paid", h.ListPaidPayables)
		accounts.GET("/service-expenses", h.ListServiceExpenses)
	}
}

// ListReceivables 应收账款合并列表
// GET /api/v1/accounts/receivables?type=leasing&customer_code=C001&from=2024-01-01
func (h *AccountHandler) ListReceivables(c *gin.Context) {
	f, err := receivableFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.svc.ListReceivables(c.Request.Context(), c.Query("type"), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// SetReceivableStatus 单行应收的收款状态流转
// PUT /api/v1/accounts/receivables/:kind/:id/status
func (h *AccountHandler) SetReceivableStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, fmt.Errorf("receivable id %q: %w", c.Param("id"), domain.ErrValidation))
		return
	}

	var req ReceivableStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if err := h.svc.SetReceivableStatus(c.Request.Context(), c.Param("kind"), id,
		domain.PaymentStatus(req.Status)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "status updated"})
}

// ListUnpaidPayables 未付的应付账款（销售方 / 维修方视角）
// GET /api/v1/accounts/payables/unpaid?type=leasing&side=sales
func (h *AccountHandler) ListUnpaidPayables(c *gin.Context) {
	h.listPayables(c, false)
}

// ListPaidPayables 已付的应付账款
// GET /api/v1/accounts/payables/paid
func (h *AccountHandler) ListPaidPayables(c *gin.Context) {
	h.listPayables(c, true)
}

func (h *AccountHandler) listPayables(c *gin.Context, paid bool) {
	f, err := receivableFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.svc.ListPayables(c.Request.Context(), paid, c.Query("type"),
		domain.PayableSide(c.Query("side")), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *AccountHandler) ListServiceExpenses(c *gin.Context) {
	f, err := receivableFilterFromQuery(c)
	if err != nil {
		respondError(c, err)
		return
	}

	rows, err := h.svc.ListServiceExpenses(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func receivableFilterFromQuery(c *gin.Context) (domain.ReceivableFilter, error) {
	from, err := parseOptionalDate(c.Query("from"))
	if err != nil {
		return domain.ReceivableFilter{}, err
	}
	to, err := parseOptionalDate(c.Query("to"))
	if err != nil {
		return domain.ReceivableFilter{}, err
	}
	return domain.ReceivableFilter{
		ContractCode:  c.Query("contract_code"),
		CustomerCode:  c.Query("customer_code"),
		CustomerName:  c.Query("customer_name"),
		FromDate:      from,
		ToDate:        to,
		PaymentStatus: domain.PaymentStatus(c.Query("status")),
		ServiceType:   c.Query("service_type"),
	}, nil
}
