package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yucheng0106/printbill/backend/internal/billing/service"
)

type CustomerHandler struct {
	svc *service.CustomerService
}

func NewCustomerHandler(svc *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

// RegisterRoutes 注册路由
func (h *CustomerHandler) RegisterRoutes(r *gin.RouterGroup) {
	customers := r.Group("/customers")
	{
		customers.GET("", h.List)
		customers.POST("", h.Create)
		customers.GET("/:code", h.Get)
		customers.PUT("/:code", h.Update)
		customers.DELETE("/:code", h.Delete)
		customers.PUT("/:code/code", h.RenameCode)
	}
}

func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.svc.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	var req CustomerReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), c.Param("code"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
}

// RenameCode 客户改号：同事务把所有合同和应收上的旧编号一起改掉
// PUT /api/v1/customers/:code/code
func (h *CustomerHandler) RenameCode(c *gin.Context) {
	var req CustomerCodeChangeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	customer, err := h.svc.RenameCode(c.Request.Context(), c.Param("code"), req.NewCustomerCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (r CustomerReq) toInput() service.CustomerInput {
	return service.CustomerInput{
		CustomerCode: r.CustomerCode,
		Name:         r.Name,
		ContactName:  r.ContactName,
		Mobile:       r.Mobile,
		Phone:        r.Phone,
		Address:      r.Address,
		Email:        r.Email,
		TaxID:        r.TaxID,
		SalesRepName: r.SalesRepName,
		Remark:       r.Remark,
	}
}
