package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// GormLeasingContractRepo 租赁合同仓储的 gorm 实现
type GormLeasingContractRepo struct{}

func NewLeasingContractRepo() *GormLeasingContractRepo {
	return &GormLeasingContractRepo{}
}

func (r *GormLeasingContractRepo) FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*domain.ContractLeasing, error) {
	q := db.WithContext(ctx)
	if forUpdate {
		q = lockForUpdate(q)
	}
	var c domain.ContractLeasing
	if err := q.Where("contract_code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormLeasingContractRepo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.ContractLeasing{}).
		Where("contract_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormLeasingContractRepo) Create(ctx context.Context, db *gorm.DB, c *domain.ContractLeasing) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *GormLeasingContractRepo) Save(ctx context.Context, db *gorm.DB, c *domain.ContractLeasing) error {
	return db.WithContext(ctx).Save(c).Error
}

func (r *GormLeasingContractRepo) DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	result := db.WithContext(ctx).Where("contract_code = ?", code).Delete(&domain.ContractLeasing{})
	return result.RowsAffected, result.Error
}

func (r *GormLeasingContractRepo) List(ctx context.Context, db *gorm.DB, search string) ([]domain.ContractLeasing, error) {
	q := db.WithContext(ctx).Model(&domain.ContractLeasing{})
	if search != "" {
		p := likePattern(search)
		q = q.Where("LOWER(contract_code) LIKE ? OR LOWER(customer_name) LIKE ?", p, p)
	}
	var contracts []domain.ContractLeasing
	if err := q.Order("contract_code").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *GormLeasingContractRepo) SetPayableStatus(ctx context.Context, db *gorm.DB, code string, side domain.PayableSide, status domain.PaymentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&domain.ContractLeasing{}).
		Where("contract_code = ?", code).
		Update(payableColumn(side), status)
	return result.RowsAffected, result.Error
}

func (r *GormLeasingContractRepo) ListPayables(ctx context.Context, db *gorm.DB, side domain.PayableSide, paid bool, f domain.ReceivableFilter) ([]domain.ContractLeasing, error) {
	q := applyPayableFilter(db.WithContext(ctx).Model(&domain.ContractLeasing{}), side, paid, f, "start_date")
	var contracts []domain.ContractLeasing
	err := q.Order("contract_code").Find(&contracts).Error
	return contracts, err
}

// ---------------------------------------------------------

// GormBuyoutContractRepo 买断合同仓储的 gorm 实现
type GormBuyoutContractRepo struct{}

func NewBuyoutContractRepo() *GormBuyoutContractRepo {
	return &GormBuyoutContractRepo{}
}

func (r *GormBuyoutContractRepo) FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*domain.ContractBuyout, error) {
	q := db.WithContext(ctx)
	if forUpdate {
		q = lockForUpdate(q)
	}
	var c domain.ContractBuyout
	if err := q.Where("contract_code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormBuyoutContractRepo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.ContractBuyout{}).
		Where("contract_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormBuyoutContractRepo) Create(ctx context.Context, db *gorm.DB, c *domain.ContractBuyout) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *GormBuyoutContractRepo) Save(ctx context.Context, db *gorm.DB, c *domain.ContractBuyout) error {
	return db.WithContext(ctx).Save(c).Error
}

func (r *GormBuyoutContractRepo) DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	result := db.WithContext(ctx).Where("contract_code = ?", code).Delete(&domain.ContractBuyout{})
	return result.RowsAffected, result.Error
}

func (r *GormBuyoutContractRepo) List(ctx context.Context, db *gorm.DB, search string) ([]domain.ContractBuyout, error) {
	q := db.WithContext(ctx).Model(&domain.ContractBuyout{})
	if search != "" {
		p := likePattern(search)
		q = q.Where("LOWER(contract_code) LIKE ? OR LOWER(customer_name) LIKE ?", p, p)
	}
	var contracts []domain.ContractBuyout
	if err := q.Order("contract_code").Find(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *GormBuyoutContractRepo) SetPayableStatus(ctx context.Context, db *gorm.DB, code string, side domain.PayableSide, status domain.PaymentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&domain.ContractBuyout{}).
		Where("contract_code = ?", code).
		Update(payableColumn(side), status)
	return result.RowsAffected, result.Error
}

func (r *GormBuyoutContractRepo) ListPayables(ctx context.Context, db *gorm.DB, side domain.PayableSide, paid bool, f domain.ReceivableFilter) ([]domain.ContractBuyout, error) {
	q := applyPayableFilter(db.WithContext(ctx).Model(&domain.ContractBuyout{}), side, paid, f, "deal_date")
	var contracts []domain.ContractBuyout
	err := q.Order("contract_code").Find(&contracts).Error
	return contracts, err
}

func payableColumn(side domain.PayableSide) string {
	if side == domain.SideService {
		return "service_payment_status"
	}
	return "sales_payment_status"
}

func payableAmountColumn(side domain.PayableSide) string {
	if side == domain.SideService {
		return "service_amount"
	}
	return "sales_amount"
}
