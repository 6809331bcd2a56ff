package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yucheng0106/printbill/backend/internal/billing/service"
)

type CompanyHandler struct {
	svc *service.CompanyService
}

func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

// RegisterRoutes 注册路由。kind=sales / service 过滤公司角色。
func (h *CompanyHandler) RegisterRoutes(r *gin.RouterGroup) {
	companies := r.Group("/companies")
	{
		companies.GET("", h.List)
		companies.POST("", h.Create)
		companies.GET("/:code", h.Get)
		companies.PUT("/:code", h.Update)
		companies.DELETE("/:code", h.Delete)
	}
}

func (h *CompanyHandler) List(c *gin.Context) {
	companies, err := h.svc.List(c.Request.Context(), c.Query("kind"), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, companies)
}

func (h *CompanyHandler) Get(c *gin.Context) {
	company, err := h.svc.Get(c.Request.Context(), c.Param("code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Create(c *gin.Context) {
	var req CompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	company, err := h.svc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, company)
}

func (h *CompanyHandler) Update(c *gin.Context) {
	var req CompanyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	company, err := h.svc.Update(c.Request.Context(), c.Param("code"), req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "company deleted"})
}

func (r CompanyReq) toInput() service.CompanyInput {
	return service.CompanyInput{
		CompanyCode: r.CompanyCode,
		Name:        r.Name,
		ContactName: r.ContactName,
		Mobile:      r.Mobile,
		Phone:       r.Phone,
		Address:     r.Address,
		Email:       r.Email,
		TaxID:       r.TaxID,
		SalesRep:    r.SalesRep,
		IsSales:     r.IsSales,
		IsService:   r.IsService,
	}
}
