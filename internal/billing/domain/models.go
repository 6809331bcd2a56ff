package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer 客户主档
// 对应数据库表: customers
// customer_code 是对外编号，被合同 / 应收 / 维修费用表冗余引用，
// 没有外键级联——一致性由改号传播逻辑负责。
type Customer struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerCode string `gorm:"uniqueIndex;type:varchar(32);not null" json:"customer_code"`
	Name         string `gorm:"type:varchar(100);not null" json:"name"`
	ContactName  string `gorm:"type:varchar(64)" json:"contact_name"`
	Mobile       string `gorm:"type:varchar(32)" json:"mobile"`
	Phone        string `gorm:"type:varchar(32)" json:"phone"`
	Address      string `gorm:"type:varchar(200)" json:"address"`
	Email        string `gorm:"type:varchar(100)" json:"email"`
	TaxID        string `gorm:"type:varchar(32)" json:"tax_id"`
	SalesRepName string `gorm:"type:varchar(64)" json:"sales_rep_name"`
	Remark       string `gorm:"type:text" json:"remark"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Customer) TableName() string {
	return "customers"
}

// Company 往来公司主档（销售方 / 维修方）
// 对应数据库表: companies
type Company struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	CompanyCode string `gorm:"uniqueIndex;type:varchar(32);not null" json:"company_code"`
	Name        string `gorm:"type:varchar(100);not null" json:"name"`
	ContactName string `gorm:"type:varchar(64)" json:"contact_name"`
	Mobile      string `gorm:"type:varchar(32)" json:"mobile"`
	Phone       string `gorm:"type:varchar(32)" json:"phone"`
	Address     string `gorm:"type:varchar(200)" json:"address"`
	Email       string `gorm:"type:varchar(100)" json:"email"`
	TaxID       string `gorm:"type:varchar(32)" json:"tax_id"`
	SalesRep    string `gorm:"type:varchar(64)" json:"sales_rep"`
	IsSales     bool   `json:"is_sales"`
	IsService   bool   `json:"is_service"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Company) TableName() string {
	return "companies"
}

// ContractLeasing 租赁合同（按周期计费）
// 对应数据库表: contracts_leasing
// 不变式：needs_invoice 为 true 时，monthly_rent 存的是已加过一次 5% 税的值。
type ContractLeasing struct {
	ID                 int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractCode       string          `gorm:"uniqueIndex;type:varchar(32);not null" json:"contract_code"`
	CustomerCode       string          `gorm:"index;type:varchar(32);not null" json:"customer_code"`
	CustomerName       string          `gorm:"type:varchar(100)" json:"customer_name"`
	StartDate          time.Time       `gorm:"type:date;not null" json:"start_date"`
	Model              string          `gorm:"type:varchar(64)" json:"model"`
	Quantity           int             `gorm:"not null;default:1" json:"quantity"`
	MonthlyRent        decimal.Decimal `gorm:"type:decimal(12,2)" json:"monthly_rent"`
	PaymentCycleMonths int             `gorm:"not null;default:1" json:"payment_cycle_months"`
	Overprint          string          `gorm:"type:text" json:"overprint"`
	ContractMonths     int             `json:"contract_months"`
	SalesCompanyCode   string          `gorm:"type:varchar(32)" json:"sales_company_code"`
	SalesAmount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"sales_amount"`
	ServiceCompanyCode string          `gorm:"type:varchar(32)" json:"service_company_code"`
	ServiceAmount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"service_amount"`
	NeedsInvoice       bool            `json:"needs_invoice"`

	SalesPaymentStatus   PaymentStatus  `gorm:"type:varchar(16);not null" json:"sales_payment_status"`
	ServicePaymentStatus PaymentStatus  `gorm:"type:varchar(16);not null" json:"service_payment_status"`
	Status               ContractStatus `gorm:"type:varchar(16);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContractLeasing) TableName() string {
	return "contracts_leasing"
}

// ContractBuyout 买断合同（一次性成交）
// 对应数据库表: contracts_buyout
type ContractBuyout struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractCode string          `gorm:"uniqueIndex;type:varchar(32);not null" json:"contract_code"`
	CustomerCode string          `gorm:"index;type:varchar(32);not null" json:"customer_code"`
	CustomerName string          `gorm:"type:varchar(100)" json:"customer_name"`
	DealDate     time.Time       `gorm:"type:date;not null" json:"deal_date"`
	DealAmount   decimal.Decimal `gorm:"type:decimal(12,2)" json:"deal_amount"`

	SalesCompanyCode   string          `gorm:"type:varchar(32)" json:"sales_company_code"`
	SalesAmount        decimal.Decimal `gorm:"type:decimal(12,2)" json:"sales_amount"`
	ServiceCompanyCode string          `gorm:"type:varchar(32)" json:"service_company_code"`
	ServiceAmount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"service_amount"`
	NeedsInvoice       bool            `json:"needs_invoice"`

	SalesPaymentStatus   PaymentStatus  `gorm:"type:varchar(16);not null" json:"sales_payment_status"`
	ServicePaymentStatus PaymentStatus  `gorm:"type:varchar(16);not null" json:"service_payment_status"`
	Status               ContractStatus `gorm:"type:varchar(16);not null" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ContractBuyout) TableName() string {
	return "contracts_buyout"
}

// ARLeasing 租赁应收账款（一条 = 一个计费周期）
// 对应数据库表: ar_leasing
// 不变式：active 且租金 / 期限有效的合同，其应收行恰好无缝切分
// [start_date, start_date+contract_months)；paused 合同零行。
type ARLeasing struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractCode   string          `gorm:"index;type:varchar(32);not null" json:"contract_code"`
	CustomerCode   string          `gorm:"index;type:varchar(32)" json:"customer_code"`
	CustomerName   string          `gorm:"type:varchar(100)" json:"customer_name"`
	StartDate      time.Time       `gorm:"type:date;not null" json:"start_date"`
	EndDate        time.Time       `gorm:"type:date;not null" json:"end_date"`
	TotalRent      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_rent"`
	Fee            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fee"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"received_amount"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(16);not null" json:"payment_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (ARLeasing) TableName() string {
	return "ar_leasing"
}

// ARBuyout 买断应收账款（每份合同恒为一行）
// 对应数据库表: ar_buyout
type ARBuyout struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractCode   string          `gorm:"index;type:varchar(32);not null" json:"contract_code"`
	CustomerCode   string          `gorm:"index;type:varchar(32)" json:"customer_code"`
	CustomerName   string          `gorm:"type:varchar(100)" json:"customer_name"`
	DealDate       time.Time       `gorm:"type:date;not null" json:"deal_date"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Fee            decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fee"`
	ReceivedAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"received_amount"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(16);not null" json:"payment_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (ARBuyout) TableName() string {
	return "ar_buyout"
}

// ServiceExpense 维修费用记录
// 对应数据库表: service_expense
// 本系统只读它（列表查询 + 客户改号时的冗余编号改写）。
type ServiceExpense struct {
	ID                int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ContractCode      string          `gorm:"index;type:varchar(32)" json:"contract_code"`
	CustomerCode      string          `gorm:"index;type:varchar(32)" json:"customer_code"`
	CustomerName      string          `gorm:"type:varchar(100)" json:"customer_name"`
	ServiceDate       time.Time       `gorm:"type:date" json:"service_date"`
	ConfirmDate       *time.Time      `gorm:"type:date" json:"confirm_date"`
	ServiceType       string          `gorm:"type:varchar(64)" json:"service_type"`
	RepairCompanyCode string          `gorm:"type:varchar(32)" json:"repair_company_code"`
	TotalAmount       decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_amount"`
	PaymentStatus     PaymentStatus   `gorm:"type:varchar(16);not null" json:"payment_status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

func (ServiceExpense) TableName() string {
	return "service_expense"
}
