package api

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

const dateLayout = "2006-01-02"

// LeasingContractReq 租赁合同请求体（新增 / 更新共用）
type LeasingContractReq struct {
	ContractCode       string          `json:"contract_code" binding:"required"`
	CustomerCode       string          `json:"customer_code" binding:"required"`
	StartDate          string          `json:"start_date" binding:"required"`
	Model              string          `json:"model"`
	Quantity           int             `json:"quantity"`
	MonthlyRent        decimal.Decimal `json:"monthly_rent"`
	PaymentCycleMonths int             `json:"payment_cycle_months"`
	Overprint          string          `json:"overprint"`
	ContractMonths     int             `json:"contract_months"`
	SalesCompanyCode   string          `json:"sales_company_code"`
	SalesAmount        decimal.Decimal `json:"sales_amount"`
	ServiceCompanyCode string          `json:"service_company_code"`
	ServiceAmount      decimal.Decimal `json:"service_amount"`
	NeedsInvoice       bool            `json:"needs_invoice"`
}

// BuyoutContractReq 买断合同请求体
type BuyoutContractReq struct {
	ContractCode       string          `json:"contract_code" binding:"required"`
	CustomerCode       string          `json:"customer_code" binding:"required"`
	DealDate           string          `json:"deal_date" binding:"required"`
	DealAmount         decimal.Decimal `json:"deal_amount"`
	SalesCompanyCode   string          `json:"sales_company_code"`
	SalesAmount        decimal.Decimal `json:"sales_amount"`
	ServiceCompanyCode string          `json:"service_company_code"`
	ServiceAmount      decimal.Decimal `json:"service_amount"`
	NeedsInvoice       bool            `json:"needs_invoice"`
}

// ResumeReq 恢复请求，锚点日期可省略（缺省今天）
type ResumeReq struct {
	ResumeDate string `json:"resume_date"`
}

// PayableStatusReq 合同级销售方 / 维修方收款状态
type PayableStatusReq struct {
	Side   string `json:"side" binding:"required,oneof=sales service"`
	Status string `json:"status" binding:"required,oneof=uncollected collected"`
}

// ReceivableStatusReq 应收单行收款状态
type ReceivableStatusReq struct {
	Status string `json:"status" binding:"required,oneof=uncollected collected"`
}

// CustomerReq 客户请求体
type CustomerReq struct {
	CustomerCode string `json:"customer_code"`
	Name         string `json:"name" binding:"required"`
	ContactName  string `json:"contact_name"`
	Mobile       string `json:"mobile"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Email        string `json:"email"`
	TaxID        string `json:"tax_id"`
	SalesRepName string `json:"sales_rep_name"`
	Remark       string `json:"remark"`
}

// CustomerCodeChangeReq 客户改号请求体
type CustomerCodeChangeReq struct {
	NewCustomerCode string `json:"new_customer_code" binding:"required"`
}

// CompanyReq 往来公司请求体
type CompanyReq struct {
	CompanyCode string `json:"company_code"`
	Name        string `json:"name" binding:"required"`
	ContactName string `json:"contact_name"`
	Mobile      string `json:"mobile"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	Email       string `json:"email"`
	TaxID       string `json:"tax_id"`
	SalesRep    string `json:"sales_rep"`
	IsSales     bool   `json:"is_sales"`
	IsService   bool   `json:"is_service"`
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q must be YYYY-MM-DD: %w", s, domain.ErrValidation)
	}
	return t, nil
}

func parseOptionalDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
