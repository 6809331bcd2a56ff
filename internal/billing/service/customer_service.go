package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// CustomerInput 客户写入请求
type CustomerInput struct {
	CustomerCode string
	Name         string
	ContactName  string
	Mobile       string
	Phone        string
	Address      string
	Email        string
	TaxID        string
	SalesRepName string
	Remark       string
}

// CustomerService 客户主档维护 + 客户改号传播
type CustomerService struct {
	db        *gorm.DB
	logger    *zap.Logger
	customers domain.CustomerRepository
}

func NewCustomerService(db *gorm.DB, logger *zap.Logger, customers domain.CustomerRepository) *CustomerService {
	return &CustomerService{db: db, logger: logger, customers: customers}
}

func (s *CustomerService) List(ctx context.Context, search string) ([]domain.Customer, error) {
	return s.customers.List(ctx, s.db, search)
}

func (s *CustomerService) Get(ctx context.Context, code string) (*domain.Customer, error) {
	return s.customers.FetchByCode(ctx, s.db, code, false)
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	in.CustomerCode = strings.TrimSpace(in.CustomerCode)
	if in.CustomerCode == "" || in.Name == "" {
		return nil, fmt.Errorf("customer_code / name required: %w", domain.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		exists, err := s.customers.CodeExists(ctx, tx, in.CustomerCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("customer %s: %w", in.CustomerCode, domain.ErrDuplicateCode)
		}
		return s.customers.Create(ctx, tx, &domain.Customer{
			CustomerCode: in.CustomerCode,
			Name:         in.Name,
			ContactName:  in.ContactName,
			Mobile:       in.Mobile,
			Phone:        in.Phone,
			Address:      in.Address,
			Email:        in.Email,
			TaxID:        in.TaxID,
			SalesRepName: in.SalesRepName,
			Remark:       in.Remark,
		})
	})
	if err != nil {
		return nil, err
	}
	return s.customers.FetchByCode(ctx, s.db, in.CustomerCode, false)
}

// Update 更新客户资料。不回刷合同上的名称快照——快照在下一次合同变更时刷新。
func (s *CustomerService) Update(ctx context.Context, code string, in CustomerInput) (*domain.Customer, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required: %w", domain.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		c, err := s.customers.FetchByCode(ctx, tx, code, true)
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
		c.SalesRepName = in.SalesRepName
		c.Remark = in.Remark
		return s.customers.Save(ctx, tx, c)
	})
	if err != nil {
		return nil, err
	}
	return s.customers.FetchByCode(ctx, s.db, code, false)
}

func (s *CustomerService) Delete(ctx context.Context, code string) error {
	n, err := s.customers.DeleteByCode(ctx, s.db, code)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("customer %s: %w", code, domain.ErrNotFound)
	}
	return nil
}

// RenameCode 客户改号。先对被改的客户行加锁，再做目标编号查重
// （锁内预检，堵住两个并发改号抢同一个新编号的窗口），
// 然后在同一事务里按扇出清单改写所有冗余引用。
func (s *CustomerService) RenameCode(ctx context.Context, oldCode, newCode string) (*domain.Customer, error) {
	newCode = strings.TrimSpace(newCode)
	if newCode == "" {
		return nil, fmt.Errorf("new customer_code required: %w", domain.ErrValidation)
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.customers.FetchByCode(ctx, tx, oldCode, true); err != nil {
			return err
		}
		if newCode == oldCode {
			return nil
		}
		exists, err := s.customers.CodeExists(ctx, tx, newCode)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("customer %s: %w", newCode, domain.ErrDuplicateCode)
		}
		return s.customers.RenameCode(ctx, tx, oldCode, newCode)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("customer code renamed",
		zap.String("old_code", oldCode), zap.String("new_code", newCode))
	return s.customers.FetchByCode(ctx, s.db, newCode, false)
}
