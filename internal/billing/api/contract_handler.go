package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
	"github.com/yucheng0106/printbill/backend/internal/billing/service"
)

type ContractHandler struct {
	svc *service.ContractService
}

func NewContractHandler(svc *service.ContractService) *ContractHandler {
	return &ContractHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *ContractHandler) RegisterRoutes(r *gin.RouterGroup) {
	leasing := r.Group("/contracts/leasing")
	{
		leasing.GET("", h.ListLeasing)
		leasing.POST("", h.CreateLeasing)
		leasing.GET("/:code", h.GetLeasing)
		leasing.PUT("/:code", h.UpdateLeasing)
		leasing.DELETE("/:code", h.DeleteLeasing)
		leasing.POST("/:code/pause", h.PauseLeasing)
		leasing.POST("/:code/resume", h.ResumeLeasing)
		leasing.PUT("/:code/payable-status", h.SetLeasingPayableStatus)
		leasing.GET("/:code/receivables", h.ListLeasingLedger)
	}

	buyout := r.Group("/contracts/buyout")
	{
		buyout.GET("", h.ListBuyout)
		buyout.POST("", h.CreateBuyout)
		buyout.GET("/:code", h.GetBuyout)
		buyout.PUT("/:code", h.UpdateBuyout)
		buyout.DELETE("/:code", h.DeleteBuyout)
		buyout.POST("/:code/pause", h.PauseBuyout)
		buyout.POST("/:code/resume", h.ResumeBuyout)
		buyout.PUT("/:code/payable-status", h.SetBuyoutPayableStatus)
		buyout.GET("/:code/receivables", h.ListBuyoutLedger)
	}
}

// ===== 租赁合同 =====

// CreateLeasing 新增租赁合同
// POST /api/v1/contracts/leasing
func (h *ContractHandler) CreateLeasing(c *gin.Context) {
	var req LeasingContractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.CreateLeasing(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

// UpdateLeasing 更新租赁合同（可能连带重建或改号应收账款）
// PUT /api/v1/contracts/leasing/:code
func (h *ContractHandler) UpdateLeasing(c *gin.Context) {
	var req LeasingContractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.UpdateLeasing(c.Request.Context(), c.Param("code"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ListLeasing(c *gin.Context) {
	contracts, err := h.svc.ListLeasing(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) GetLeasing(c *gin.Context) {
	contract, err := h.svc.GetLeasing(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) DeleteLeasing(c *gin.Context) {
	if err := h.svc.DeleteLeasing(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted"})
}

// PauseLeasing 暂停合同，应收账款随之清空
// POST /api/v1/contracts/leasing/:code/pause
func (h *ContractHandler) PauseLeasing(c *gin.Context) {
	contract, err := h.svc.PauseLeasing(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

// ResumeLeasing 恢复合同，账款从 resume_date（缺省今天）重新起算
// POST /api/v1/contracts/leasing/:code/resume
func (h *ContractHandler) ResumeLeasing(c *gin.Context) {
	// 请求体可以整个省略，此时锚点取今天
	var req ResumeReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	anchor, err := parseOptionalDate(req.ResumeDate)
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.ResumeLeasing(c.Request.Context(), c.Param("code"), anchor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) SetLeasingPayableStatus(c *gin.Context) {
	var req PayableStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contract, err := h.svc.SetLeasingPayableStatus(c.Request.Context(), c.Param("code"),
		domain.PayableSide(req.Side), domain.PaymentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ListLeasingLedger(c *gin.Context) {
	rows, err := h.svc.ListLeasingLedger(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ===== 买断合同 =====

// CreateBuyout 新增买断合同
// POST /api/v1/contracts/buyout
func (h *ContractHandler) CreateBuyout(c *gin.Context) {
	var req BuyoutContractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.CreateBuyout(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, contract)
}

func (h *ContractHandler) UpdateBuyout(c *gin.Context) {
	var req BuyoutContractReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.UpdateBuyout(c.Request.Context(), c.Param("code"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ListBuyout(c *gin.Context) {
	contracts, err := h.svc.ListBuyout(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contracts)
}

func (h *ContractHandler) GetBuyout(c *gin.Context) {
	contract, err := h.svc.GetBuyout(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) DeleteBuyout(c *gin.Context) {
	if err := h.svc.DeleteBuyout(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "contract deleted"})
}

func (h *ContractHandler) PauseBuyout(c *gin.Context) {
	contract, err := h.svc.PauseBuyout(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ResumeBuyout(c *gin.Context) {
	var req ResumeReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	anchor, err := parseOptionalDate(req.ResumeDate)
	if err != nil {
		respondError(c, err)
		return
	}

	contract, err := h.svc.ResumeBuyout(c.Request.Context(), c.Param("code"), anchor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) SetBuyoutPayableStatus(c *gin.Context) {
	var req PayableStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	contract, err := h.svc.SetBuyoutPayableStatus(c.Request.Context(), c.Param("code"),
		domain.PayableSide(req.Side), domain.PaymentStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, contract)
}

func (h *ContractHandler) ListBuyoutLedger(c *gin.Context) {
	rows, err := h.svc.ListBuyoutLedger(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// ===== DTO 转换 (API Layer -> Service Layer) =====

func (r LeasingContractReq) toInput() (service.LeasingInput, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return service.LeasingInput{}, err
	}
	return service.LeasingInput{
		ContractCode:       r.ContractCode,
		CustomerCode:       r.CustomerCode,
		StartDate:          start,
		Model:              r.Model,
		Quantity:           r.Quantity,
		MonthlyRent:        r.MonthlyRent,
		PaymentCycleMonths: r.PaymentCycleMonths,
		Overprint:          r.Overprint,
		ContractMonths:     r.ContractMonths,
		SalesCompanyCode:   r.SalesCompanyCode,
		SalesAmount:        r.SalesAmount,
		ServiceCompanyCode: r.ServiceCompanyCode,
		ServiceAmount:      r.ServiceAmount,
		NeedsInvoice:       r.NeedsInvoice,
	}, nil
}

func (r BuyoutContractReq) toInput() (service.BuyoutInput, error) {
	dealDate, err := parseDate(r.DealDate)
	if err != nil {
		return service.BuyoutInput{}, err
	}
	return service.BuyoutInput{
		ContractCode:       r.ContractCode,
		CustomerCode:       r.CustomerCode,
		DealDate:           dealDate,
		DealAmount:         r.DealAmount,
		SalesCompanyCode:   r.SalesCompanyCode,
		SalesAmount:        r.SalesAmount,
		ServiceCompanyCode: r.ServiceCompanyCode,
		ServiceAmount:      r.ServiceAmount,
		NeedsInvoice:       r.NeedsInvoice,
	}, nil
}
