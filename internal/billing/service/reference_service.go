package service

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// CompanyInput 往来公司写入请求
type CompanyInput struct {
	CompanyCode string
	Name        string
	ContactName string
	Mobile      string
	Phone       string
	Address     string
	Email       string
	TaxID       string
	SalesRep    string
	IsSales     bool
	IsService   bool
}

// CompanyService 往来公司主档维护（纯 CRUD，无派生状态）
type CompanyService struct {
	db        *gorm.DB
	companies domain.CompanyRepository
}

func NewCompanyService(db *gorm.DB, companies domain.CompanyRepository) *CompanyService {
	return &CompanyService{db: db, companies: companies}
}

func (s *CompanyService) List(ctx context.Context, kind, search string) ([]domain.Company, error) {
	return s.companies.List(ctx, s.db, kind, search)
}

func (s *CompanyService) Get(ctx context.Context, code string) (*domain.Company, error) {
	return s.companies.FetchByCode(ctx, s.db, code)
}

func (s *CompanyService) Create(ctx context.Context, in CompanyInput) (*domain.Company, error) {
	in.CompanyCode = strings.TrimSpace(in.CompanyCode)
	if in.CompanyCode == "" || in.Name == "" {
		return nil, fmt.Errorf("company_code / name required: %w", domain.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.companies.CodeExists(ctx, tx, in.CompanyCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("company %s: %w", in.CompanyCode, domain.ErrDuplicateCode)
		}
		return s.companies.Create(ctx, tx, &domain.Company{
			CompanyCode: in.CompanyCode,
			Name:        in.Name,
			ContactName: in.ContactName,
			Mobile:      in.Mobile,
			Phone:       in.Phone,
			Address:     in.Address,
			Email:       in.Email,
			TaxID:       in.TaxID,
			SalesRep:    in.SalesRep,
			IsSales:     in.IsSales,
			IsService:   in.IsService,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.companies.FetchByCode(ctx, s.db, in.CompanyCode)
}

func (s *CompanyService) Update(ctx context.Context, code string, in CompanyInput) (*domain.Company, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required: %w", domain.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.companies.FetchByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		c.Name = in.Name
		c.ContactName = in.ContactName
		c.Mobile = in.Mobile
		c.Phone = in.Phone
		c.Address = in.Address
		c.Email = in.Email
		c.TaxID = in.TaxID
		c.SalesRep = in.SalesRep
		c.IsSales = in.IsSales
		c.IsService = in.IsService
		return s.companies.Save(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return s.companies.FetchByCode(ctx, s.db, code)
}

func (s *CompanyService) Delete(ctx context.Context, code string) error {
	n, err := s.companies.DeleteByCode(ctx, s.db, code)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("company %s: %w", code, domain.ErrNotFound)
	}
	return nil
}

// ---------------------------------------------------------

// ReceivableItem 应收账款列表的合并视图（租赁 / 买断各自的日期列归一成 date）
type ReceivableItem struct {
	ID             int64                `json:"id"`
	Kind           string               `json:"type"` // leasing / buyout
	ContractCode   string               `json:"contract_code"`
	CustomerCode   string               `json:"customer_code"`
	CustomerName   string               `json:"customer_name"`
	Date           string               `json:"date"`
	EndDate        string               `json:"end_date,omitempty"`
	Amount         string               `json:"amount"`
	Fee            string               `json:"fee"`
	ReceivedAmount string               `json:"received_amount"`
	PaymentStatus  domain.PaymentStatus `json:"payment_status"`
}

// AccountService 账款查询 + 单行收款状态更新
type AccountService struct {
	db        *gorm.DB
	leasing   domain.LeasingContractRepository
	buyout    domain.BuyoutContractRepository
	leasingAR domain.LeasingLedgerRepository
	buyoutAR  domain.BuyoutLedgerRepository
	expenses  domain.ServiceExpenseRepository
}

func NewAccountService(
	db *gorm.DB,
	leasing domain.LeasingContractRepository,
	buyout domain.BuyoutContractRepository,
	leasingAR domain.LeasingLedgerRepository,
	buyoutAR domain.BuyoutLedgerRepository,
	expenses domain.ServiceExpenseRepository,
) *AccountService {
	return &AccountService{
		db:        db,
		leasing:   leasing,
		buyout:    buyout,
		leasingAR: leasingAR,
		buyoutAR:  buyoutAR,
		expenses:  expenses,
	}
}

const dateLayout = "2006-01-02"

// ListReceivables 合并租赁和买断的应收；kind 为空查全部
func (s *AccountService) ListReceivables(ctx context.Context, kind string, f domain.ReceivableFilter) ([]ReceivableItem, error) {
	items := make([]ReceivableItem, 0)

	if kind == "" || kind == "leasing" {
		rows, err := s.leasingAR.List(ctx, s.db, f)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			items = append(items, ReceivableItem{
				ID:             r.ID,
				Kind:           "leasing",
				ContractCode:   r.ContractCode,
				CustomerCode:   r.CustomerCode,
				CustomerName:   r.CustomerName,
				Date:           r.StartDate.Format(dateLayout),
				EndDate:        r.EndDate.Format(dateLayout),
				Amount:         r.TotalRent.String(),
				Fee:            r.Fee.String(),
				ReceivedAmount: r.ReceivedAmount.String(),
				PaymentStatus:  r.PaymentStatus,
			})
		}
	}

	if kind == "" || kind == "buyout" {
		rows, err := s.buyoutAR.List(ctx, s.db, f)
		if err != nil {
			return nil, err
		}
		for _, r := range rows {
			items = append(items, ReceivableItem{
				ID:             r.ID,
				Kind:           "buyout",
				ContractCode:   r.ContractCode,
				CustomerCode:   r.CustomerCode,
				CustomerName:   r.CustomerName,
				Date:           r.DealDate.Format(dateLayout),
				Amount:         r.TotalAmount.String(),
				Fee:            r.Fee.String(),
				ReceivedAmount: r.ReceivedAmount.String(),
				PaymentStatus:  r.PaymentStatus,
			})
		}
	}

	return items, nil
}

func (s *AccountService) ListServiceExpenses(ctx context.Context, f domain.ReceivableFilter) ([]domain.ServiceExpense, error) {
	return s.expenses.List(ctx, s.db, f)
}

// PayableItem 应付账款列表的合并视图：合同上销售方 / 维修方各算一笔，
// 金额为零的一侧不出现。日期取租赁起始日 / 买断成交日。
type PayableItem struct {
	ContractCode  string               `json:"contract_code"`
	Kind          string               `json:"type"` // leasing / buyout
	CustomerCode  string               `json:"customer_code"`
	CustomerName  string               `json:"customer_name"`
	Date          string               `json:"date"`
	Side          domain.PayableSide   `json:"side"` // sales / service
	CompanyCode   string               `json:"company_code"`
	Amount        string               `json:"amount"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

// ListPayables 应付账款列表。paid 为 true 取已付视图，否则取未付。
// kind / side 为空查全部；给了不认识的值就是空结果，不报错。
func (s *AccountService) ListPayables(ctx context.Context, paid bool, kind string, side domain.PayableSide, f domain.ReceivableFilter) ([]PayableItem, error) {
	sides := []domain.PayableSide{domain.SideSales, domain.SideService}
	if side != "" {
		sides = []domain.PayableSide{side}
	}

	items := make([]PayableItem, 0)
	for _, sd := range sides {
		if !sd.IsValid() {
			continue
		}
		if kind == "" || kind == "leasing" {
			rows, err := s.leasing.ListPayables(ctx, s.db, sd, paid, f)
			if err != nil {
				return nil, err
			}
			for _, c := range rows {
				items = append(items, leasingPayable(&c, sd))
			}
		}
		if kind == "" || kind == "buyout" {
			rows, err := s.buyout.ListPayables(ctx, s.db, sd, paid, f)
			if err != nil {
				return nil, err
			}
			for _, c := range rows {
				items = append(items, buyoutPayable(&c, sd))
			}
		}
	}
	return items, nil
}

func leasingPayable(c *domain.ContractLeasing, side domain.PayableSide) PayableItem {
	it := PayableItem{
		ContractCode: c.ContractCode,
		Kind:         "leasing",
		CustomerCode: c.CustomerCode,
		CustomerName: c.CustomerName,
		Date:         c.StartDate.Format(dateLayout),
		Side:         side,
	}
	if side == domain.SideService {
		it.CompanyCode = c.ServiceCompanyCode
		it.Amount = c.ServiceAmount.String()
		it.PaymentStatus = c.ServicePaymentStatus
	} else {
		it.CompanyCode = c.SalesCompanyCode
		it.Amount = c.SalesAmount.String()
		it.PaymentStatus = c.SalesPaymentStatus
	}
	return it
}

func buyoutPayable(c *domain.ContractBuyout, side domain.PayableSide) PayableItem {
	it := PayableItem{
		ContractCode: c.ContractCode,
		Kind:         "buyout",
		CustomerCode: c.CustomerCode,
		CustomerName: c.CustomerName,
		Date:         c.DealDate.Format(dateLayout),
		Side:         side,
	}
	if side == domain.SideService {
		it.CompanyCode = c.ServiceCompanyCode
		it.Amount = c.ServiceAmount.String()
		it.PaymentStatus = c.ServicePaymentStatus
	} else {
		it.CompanyCode = c.SalesCompanyCode
		it.Amount = c.SalesAmount.String()
		it.PaymentStatus = c.SalesPaymentStatus
	}
	return it
}

// SetReceivableStatus 把某行应收标成已收 / 未收
func (s *AccountService) SetReceivableStatus(ctx context.Context, kind string, id int64, status domain.PaymentStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("payment status %q: %w", status, domain.ErrValidation)
	}
	var (
		n   int64
		err error
	)
	switch kind {
	case "leasing":
		n, err = s.leasingAR.SetPaymentStatus(ctx, s.db, id, status)
	case "buyout":
		n, err = s.buyoutAR.SetPaymentStatus(ctx, s.db, id, status)
	default:
		return fmt.Errorf("receivable type %q: %w", kind, domain.ErrValidation)
	}
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("receivable %s/%d: %w", kind, id, domain.ErrNotFound)
	}
	return nil
}
