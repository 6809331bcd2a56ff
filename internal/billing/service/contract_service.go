package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
	"github.com/yucheng0106/printbill/backend/internal/billing/schedule"
)

// invoiceMarkupRate 开发票时金额一次性上浮 5%，只在落库前对请求值加一次。
var invoiceMarkupRate = decimal.NewFromFloat(1.05)

// LeasingInput 租赁合同的写入请求（API 层已做过结构校验）
type LeasingInput struct {
	ContractCode       string
	CustomerCode       string
	StartDate          time.Time
	Model              string
	Quantity           int
	MonthlyRent        decimal.Decimal
	PaymentCycleMonths int
	Overprint          string
	ContractMonths     int
	SalesCompanyCode   string
	SalesAmount        decimal.Decimal
	ServiceCompanyCode string
	ServiceAmount      decimal.Decimal
	NeedsInvoice       bool
}

// BuyoutInput 买断合同的写入请求
type BuyoutInput struct {
	ContractCode       string
	CustomerCode       string
	DealDate           time.Time
	DealAmount         decimal.Decimal
	SalesCompanyCode   string
	SalesAmount        decimal.Decimal
	ServiceCompanyCode string
	ServiceAmount      decimal.Decimal
	NeedsInvoice       bool
}

// ContractService 合同变更的唯一事务边界。
// 每个操作 = 一个 db.Transaction：行锁取旧值 → 查客户名快照 → 算税 →
// 三选一 {全量重建账款 / 原地改号 / 不动账款} → 提交后重读返回落库状态。
// 合同行和它的应收账款不允许出现任何可观察到的不一致。
type ContractService struct {
	db        *gorm.DB
	logger    *zap.Logger
	leasing   domain.LeasingContractRepository
	buyout    domain.BuyoutContractRepository
	leasingAR domain.LeasingLedgerRepository
	buyoutAR  domain.BuyoutLedgerRepository
	customers domain.CustomerRepository
}

func NewContractService(
	db *gorm.DB,
	logger *zap.Logger,
	leasing domain.LeasingContractRepository,
	buyout domain.BuyoutContractRepository,
	leasingAR domain.LeasingLedgerRepository,
	buyoutAR domain.BuyoutLedgerRepository,
	customers domain.CustomerRepository,
) *ContractService {
	return &ContractService{
		db:        db,
		logger:    logger,
		leasing:   leasing,
		buyout:    buyout,
		leasingAR: leasingAR,
		buyoutAR:  buyoutAR,
		customers: customers,
	}
}

// ===== 租赁合同 =====

// CreateLeasing 新增租赁合同，租金和期限都有效时同事务生成应收账款。
func (s *ContractService) CreateLeasing(ctx context.Context, in LeasingInput) (*domain.ContractLeasing, error) {
	if err := normalizeLeasingInput(&in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.leasing.CodeExists(ctx, tx, in.ContractCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("leasing contract %s: %w", in.ContractCode, domain.ErrDuplicateCode)
		}

		customerName, err := s.customers.LookupName(ctx, tx, in.CustomerCode)
		if err != nil {
			return err
		}

		c := &domain.ContractLeasing{
			ContractCode:         in.ContractCode,
			CustomerCode:         in.CustomerCode,
			CustomerName:         customerName,
			StartDate:            in.StartDate,
			Model:                in.Model,
			Quantity:             in.Quantity,
			MonthlyRent:          applyInvoiceMarkup(in.MonthlyRent, in.NeedsInvoice),
			PaymentCycleMonths:   in.PaymentCycleMonths,
			Overprint:            in.Overprint,
			ContractMonths:       in.ContractMonths,
			SalesCompanyCode:     in.SalesCompanyCode,
			SalesAmount:          in.SalesAmount,
			ServiceCompanyCode:   in.ServiceCompanyCode,
			ServiceAmount:        in.ServiceAmount,
			NeedsInvoice:         in.NeedsInvoice,
			SalesPaymentStatus:   domain.PaymentUncollected,
			ServicePaymentStatus: domain.PaymentUncollected,
			Status:               domain.StatusActive,
		}
		if err := s.leasing.Create(ctx, tx, c); err != nil {
			return err
		}

		if shouldGenerateLeasing(c) {
			return s.leasingAR.Replace(ctx, tx, leasingRows(c, c.StartDate), c.ContractCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leasing contract created", zap.String("contract_code", in.ContractCode))
	return s.leasing.FetchByCode(ctx, s.db, in.ContractCode, false)
}

// UpdateLeasing 更新租赁合同。
// 账款动作三选一：租金和期限都有效 → 全量重建（新旧编号名下旧行一并清掉）；
// 否则若改了合同编号 → 应收行原地改号；否则不动。
func (s *ContractService) UpdateLeasing(ctx context.Context, code string, in LeasingInput) (*domain.ContractLeasing, error) {
	if err := normalizeLeasingInput(&in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.leasing.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}

		codeChanged := in.ContractCode != code
		if codeChanged {
			exists, err := s.leasing.CodeExists(ctx, tx, in.ContractCode)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("leasing contract %s: %w", in.ContractCode, domain.ErrDuplicateCode)
			}
		}

		customerName, err := s.customers.LookupName(ctx, tx, in.CustomerCode)
		if err != nil {
			return err
		}

		existing.ContractCode = in.ContractCode
		existing.CustomerCode = in.CustomerCode
		existing.CustomerName = customerName
		existing.StartDate = in.StartDate
		existing.Model = in.Model
		existing.Quantity = in.Quantity
		existing.MonthlyRent = applyInvoiceMarkup(in.MonthlyRent, in.NeedsInvoice)
		existing.PaymentCycleMonths = in.PaymentCycleMonths
		existing.Overprint = in.Overprint
		existing.ContractMonths = in.ContractMonths
		existing.SalesCompanyCode = in.SalesCompanyCode
		existing.SalesAmount = in.SalesAmount
		existing.ServiceCompanyCode = in.ServiceCompanyCode
		existing.ServiceAmount = in.ServiceAmount
		existing.NeedsInvoice = in.NeedsInvoice

		if err := s.leasing.Save(ctx, tx, existing); err != nil {
			return err
		}

		switch {
		case shouldGenerateLeasing(existing):
			return s.leasingAR.Replace(ctx, tx, leasingRows(existing, existing.StartDate), code, in.ContractCode)
		case codeChanged:
			// 不重建时改号要跟着走，避免应收行变成孤儿
			return s.leasingAR.RenameContractCode(ctx, tx, code, in.ContractCode)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leasing contract updated",
		zap.String("contract_code", code), zap.String("new_code", in.ContractCode))
	return s.leasing.FetchByCode(ctx, s.db, in.ContractCode, false)
}

// PauseLeasing 暂停合同并清空应收账款。重复暂停报 ErrInvalidStateTransition。
func (s *ContractService) PauseLeasing(ctx context.Context, code string) (*domain.ContractLeasing, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.leasing.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}
		if c.Status == domain.StatusPaused {
			return fmt.Errorf("leasing contract %s already paused: %w", code, domain.ErrInvalidStateTransition)
		}
		c.Status = domain.StatusPaused
		if err := s.leasing.Save(ctx, tx, c); err != nil {
			return err
		}
		return s.leasingAR.Replace(ctx, tx, nil, code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leasing contract paused", zap.String("contract_code", code))
	return s.leasing.FetchByCode(ctx, s.db, code, false)
}

// ResumeLeasing 恢复合同，账款以 resumeDate（缺省今天）为新锚点重建；
// 合同行自己的 start_date 保持不动。对 active 合同执行报 ErrInvalidStateTransition。
func (s *ContractService) ResumeLeasing(ctx context.Context, code string, resumeDate *time.Time) (*domain.ContractLeasing, error) {
	anchor := today()
	if resumeDate != nil {
		anchor = *resumeDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.leasing.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}
		if c.Status != domain.StatusPaused {
			return fmt.Errorf("leasing contract %s is not paused: %w", code, domain.ErrInvalidStateTransition)
		}
		c.Status = domain.StatusActive
		if err := s.leasing.Save(ctx, tx, c); err != nil {
			return err
		}
		if shouldGenerateLeasing(c) {
			return s.leasingAR.Replace(ctx, tx, leasingRows(c, anchor), code)
		}
		return s.leasingAR.Replace(ctx, tx, nil, code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("leasing contract resumed",
		zap.String("contract_code", code), zap.Time("anchor", anchor))
	return s.leasing.FetchByCode(ctx, s.db, code, false)
}

// DeleteLeasing 同事务删除合同与全部应收账款。账款删除无条件且幂等，
// 合同行不存在时报 ErrNotFound。
func (s *ContractService) DeleteLeasing(ctx context.Context, code string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.leasingAR.Replace(ctx, tx, nil, code); err != nil {
			return err
		}
		n, err := s.leasing.DeleteByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("leasing contract %s: %w", code, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("leasing contract deleted", zap.String("contract_code", code))
	return nil
}

// SetLeasingPayableStatus 更新合同上销售方 / 维修方的独立收款状态
func (s *ContractService) SetLeasingPayableStatus(ctx context.Context, code string, side domain.PayableSide, status domain.PaymentStatus) (*domain.ContractLeasing, error) {
	if !side.IsValid() || !status.IsValid() {
		return nil, fmt.Errorf("payable side %q / status %q: %w", side, status, domain.ErrValidation)
	}
	n, err := s.leasing.SetPayableStatus(ctx, s.db, code, side, status)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("leasing contract %s: %w", code, domain.ErrNotFound)
	}
	return s.leasing.FetchByCode(ctx, s.db, code, false)
}

func (s *ContractService) ListLeasing(ctx context.Context, search string) ([]domain.ContractLeasing, error) {
	return s.leasing.List(ctx, s.db, search)
}

func (s *ContractService) GetLeasing(ctx context.Context, code string) (*domain.ContractLeasing, error) {
	return s.leasing.FetchByCode(ctx, s.db, code, false)
}

func (s *ContractService) ListLeasingLedger(ctx context.Context, code string) ([]domain.ARLeasing, error) {
	return s.leasingAR.ListByContract(ctx, s.db, code)
}

// ===== 买断合同 =====

// CreateBuyout 新增买断合同，成交额有效时生成恰好一行应收。
func (s *ContractService) CreateBuyout(ctx context.Context, in BuyoutInput) (*domain.ContractBuyout, error) {
	if err := normalizeBuyoutInput(&in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.buyout.CodeExists(ctx, tx, in.ContractCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("buyout contract %s: %w", in.ContractCode, domain.ErrDuplicateCode)
		}

		customerName, err := s.customers.LookupName(ctx, tx, in.CustomerCode)
		if err != nil {
			return err
		}

		c := &domain.ContractBuyout{
			ContractCode:         in.ContractCode,
			CustomerCode:         in.CustomerCode,
			CustomerName:         customerName,
			DealDate:             in.DealDate,
			DealAmount:           applyInvoiceMarkup(in.DealAmount, in.NeedsInvoice),
			SalesCompanyCode:     in.SalesCompanyCode,
			SalesAmount:          in.SalesAmount,
			ServiceCompanyCode:   in.ServiceCompanyCode,
			ServiceAmount:        in.ServiceAmount,
			NeedsInvoice:         in.NeedsInvoice,
			SalesPaymentStatus:   domain.PaymentUncollected,
			ServicePaymentStatus: domain.PaymentUncollected,
			Status:               domain.StatusActive,
		}
		if err := s.buyout.Create(ctx, tx, c); err != nil {
			return err
		}

		if c.DealAmount.IsPositive() {
			return s.buyoutAR.Replace(ctx, tx, buyoutRows(c, c.DealDate), c.ContractCode)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buyout contract created", zap.String("contract_code", in.ContractCode))
	return s.buyout.FetchByCode(ctx, s.db, in.ContractCode, false)
}

// UpdateBuyout 更新买断合同。成交额有效 → 重建那一行应收；否则改号时原地改号。
func (s *ContractService) UpdateBuyout(ctx context.Context, code string, in BuyoutInput) (*domain.ContractBuyout, error) {
	if err := normalizeBuyoutInput(&in); err != nil {
		return nil, err
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := s.buyout.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}

		codeChanged := in.ContractCode != code
		if codeChanged {
			exists, err := s.buyout.CodeExists(ctx, tx, in.ContractCode)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("buyout contract %s: %w", in.ContractCode, domain.ErrDuplicateCode)
			}
		}

		customerName, err := s.customers.LookupName(ctx, tx, in.CustomerCode)
		if err != nil {
			return err
		}

		existing.ContractCode = in.ContractCode
		existing.CustomerCode = in.CustomerCode
		existing.CustomerName = customerName
		existing.DealDate = in.DealDate
		existing.DealAmount = applyInvoiceMarkup(in.DealAmount, in.NeedsInvoice)
		existing.SalesCompanyCode = in.SalesCompanyCode
		existing.SalesAmount = in.SalesAmount
		existing.ServiceCompanyCode = in.ServiceCompanyCode
		existing.ServiceAmount = in.ServiceAmount
		existing.NeedsInvoice = in.NeedsInvoice

		if err := s.buyout.Save(ctx, tx, existing); err != nil {
			return err
		}

		switch {
		case existing.DealAmount.IsPositive():
			return s.buyoutAR.Replace(ctx, tx, buyoutRows(existing, existing.DealDate), code, in.ContractCode)
		case codeChanged:
			return s.buyoutAR.RenameContractCode(ctx, tx, code, in.ContractCode)
		default:
			return nil
		}
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buyout contract updated",
		zap.String("contract_code", code), zap.String("new_code", in.ContractCode))
	return s.buyout.FetchByCode(ctx, s.db, in.ContractCode, false)
}

// PauseBuyout 暂停买断合同并清掉应收行
func (s *ContractService) PauseBuyout(ctx context.Context, code string) (*domain.ContractBuyout, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.buyout.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}
		if c.Status == domain.StatusPaused {
			return fmt.Errorf("buyout contract %s already paused: %w", code, domain.ErrInvalidStateTransition)
		}
		c.Status = domain.StatusPaused
		if err := s.buyout.Save(ctx, tx, c); err != nil {
			return err
		}
		return s.buyoutAR.Replace(ctx, tx, nil, code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buyout contract paused", zap.String("contract_code", code))
	return s.buyout.FetchByCode(ctx, s.db, code, false)
}

// ResumeBuyout 恢复买断合同。重建的应收行把 resumeDate 当成交日，
// 合同行自己的 deal_date 不动。
func (s *ContractService) ResumeBuyout(ctx context.Context, code string, resumeDate *time.Time) (*domain.ContractBuyout, error) {
	anchor := today()
	if resumeDate != nil {
		anchor = *resumeDate
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.buyout.FetchByCode(ctx, tx, code, true)
		if err != nil {
			return err
		}
		if c.Status != domain.StatusPaused {
			return fmt.Errorf("buyout contract %s is not paused: %w", code, domain.ErrInvalidStateTransition)
		}
		c.Status = domain.StatusActive
		if err := s.buyout.Save(ctx, tx, c); err != nil {
			return err
		}
		if c.DealAmount.IsPositive() {
			return s.buyoutAR.Replace(ctx, tx, buyoutRows(c, anchor), code)
		}
		return s.buyoutAR.Replace(ctx, tx, nil, code)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("buyout contract resumed",
		zap.String("contract_code", code), zap.Time("anchor", anchor))
	return s.buyout.FetchByCode(ctx, s.db, code, false)
}

// DeleteBuyout 同事务删除合同与应收行
func (s *ContractService) DeleteBuyout(ctx context.Context, code string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.buyoutAR.Replace(ctx, tx, nil, code); err != nil {
			return err
		}
		n, err := s.buyout.DeleteByCode(ctx, tx, code)
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("buyout contract %s: %w", code, domain.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("buyout contract deleted", zap.String("contract_code", code))
	return nil
}

func (s *ContractService) SetBuyoutPayableStatus(ctx context.Context, code string, side domain.PayableSide, status domain.PaymentStatus) (*domain.ContractBuyout, error) {
	if !side.IsValid() || !status.IsValid() {
		return nil, fmt.Errorf("payable side %q / status %q: %w", side, status, domain.ErrValidation)
	}
	n, err := s.buyout.SetPayableStatus(ctx, s.db, code, side, status)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("buyout contract %s: %w", code, domain.ErrNotFound)
	}
	return s.buyout.FetchByCode(ctx, s.db, code, false)
}

func (s *ContractService) ListBuyout(ctx context.Context, search string) ([]domain.ContractBuyout, error) {
	return s.buyout.List(ctx, s.db, search)
}

func (s *ContractService) GetBuyout(ctx context.Context, code string) (*domain.ContractBuyout, error) {
	return s.buyout.FetchByCode(ctx, s.db, code, false)
}

func (s *ContractService) ListBuyoutLedger(ctx context.Context, code string) ([]domain.ARBuyout, error) {
	return s.buyoutAR.ListByContract(ctx, s.db, code)
}

// ===== 内部工具 =====

// applyInvoiceMarkup 税算在请求值上，不碰已落库的值，所以不会重复加成。
func applyInvoiceMarkup(amount decimal.Decimal, needsInvoice bool) decimal.Decimal {
	if needsInvoice && amount.IsPositive() {
		return amount.Mul(invoiceMarkupRate)
	}
	return amount
}

// shouldGenerateLeasing 重建账款的闸门：租金和期限必须同时有效
func shouldGenerateLeasing(c *domain.ContractLeasing) bool {
	return c.MonthlyRent.IsPositive() && c.ContractMonths > 0
}

// leasingRows 以 anchor 为锚点展开计费期间，每行初始化为未收、零手续费
func leasingRows(c *domain.ContractLeasing, anchor time.Time) []domain.ARLeasing {
	periods := schedule.GenerateLeasing(anchor, c.MonthlyRent, c.PaymentCycleMonths, c.ContractMonths)
	rows := make([]domain.ARLeasing, 0, len(periods))
	for _, p := range periods {
		rows = append(rows, domain.ARLeasing{
			ContractCode:   c.ContractCode,
			CustomerCode:   c.CustomerCode,
			CustomerName:   c.CustomerName,
			StartDate:      p.Start,
			EndDate:        p.End,
			TotalRent:      p.Amount,
			Fee:            decimal.Zero,
			ReceivedAmount: decimal.Zero,
			PaymentStatus:  domain.PaymentUncollected,
		})
	}
	return rows
}

func buyoutRows(c *domain.ContractBuyout, anchor time.Time) []domain.ARBuyout {
	p := schedule.GenerateBuyout(anchor, c.DealAmount)
	return []domain.ARBuyout{{
		ContractCode:   c.ContractCode,
		CustomerCode:   c.CustomerCode,
		CustomerName:   c.CustomerName,
		DealDate:       p.Start,
		TotalAmount:    p.Amount,
		Fee:            decimal.Zero,
		ReceivedAmount: decimal.Zero,
		PaymentStatus:  domain.PaymentUncollected,
	}}
}

func normalizeLeasingInput(in *LeasingInput) error {
	in.ContractCode = strings.TrimSpace(in.ContractCode)
	in.CustomerCode = strings.TrimSpace(in.CustomerCode)
	if in.ContractCode == "" || in.CustomerCode == "" {
		return fmt.Errorf("contract_code / customer_code required: %w", domain.ErrValidation)
	}
	if in.PaymentCycleMonths < 1 {
		in.PaymentCycleMonths = 1
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}
	return nil
}

func normalizeBuyoutInput(in *BuyoutInput) error {
	in.ContractCode = strings.TrimSpace(in.ContractCode)
	in.CustomerCode = strings.TrimSpace(in.CustomerCode)
	if in.ContractCode == "" || in.CustomerCode == "" {
		return fmt.Errorf("contract_code / customer_code required: %w", domain.ErrValidation)
	}
	return nil
}

// today 当前日期（零点，UTC），resume 不带锚点时的缺省值
func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
