package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// GormLeasingLedgerRepo 租赁应收账款仓储的 gorm 实现
type GormLeasingLedgerRepo struct{}

func NewLeasingLedgerRepo() *GormLeasingLedgerRepo {
	return &GormLeasingLedgerRepo{}
}

// Replace 全量替换：DELETE 再整批 INSERT，跑在调用方事务里，自己不提交。
func (r *GormLeasingLedgerRepo) Replace(ctx context.Context, db *gorm.DB, rows []domain.ARLeasing, codes ...string) error {
	if err := db.WithContext(ctx).
		Where("contract_code IN ?", codes).
		Delete(&domain.ARLeasing{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *GormLeasingLedgerRepo) RenameContractCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error {
	return db.WithContext(ctx).Model(&domain.ARLeasing{}).
		Where("contract_code = ?", oldCode).
		Update("contract_code", newCode).Error
}

func (r *GormLeasingLedgerRepo) ListByContract(ctx context.Context, db *gorm.DB, code string) ([]domain.ARLeasing, error) {
	var rows []domain.ARLeasing
	err := db.WithContext(ctx).
		Where("contract_code = ?", code).
		Order("start_date").Find(&rows).Error
	return rows, err
}

func (r *GormLeasingLedgerRepo) List(ctx context.Context, db *gorm.DB, f domain.ReceivableFilter) ([]domain.ARLeasing, error) {
	q := applyReceivableFilter(db.WithContext(ctx).Model(&domain.ARLeasing{}), f, "start_date")
	var rows []domain.ARLeasing
	err := q.Order("contract_code, start_date").Find(&rows).Error
	return rows, err
}

func (r *GormLeasingLedgerRepo) SetPaymentStatus(ctx context.Context, db *gorm.DB, id int64, status domain.PaymentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&domain.ARLeasing{}).
		Where("id = ?", id).
		Update("payment_status", status)
	return result.RowsAffected, result.Error
}

// ---------------------------------------------------------

// GormBuyoutLedgerRepo 买断应收账款仓储的 gorm 实现
type GormBuyoutLedgerRepo struct{}

func NewBuyoutLedgerRepo() *GormBuyoutLedgerRepo {
	return &GormBuyoutLedgerRepo{}
}

func (r *GormBuyoutLedgerRepo) Replace(ctx context.Context, db *gorm.DB, rows []domain.ARBuyout, codes ...string) error {
	if err := db.WithContext(ctx).
		Where("contract_code IN ?", codes).
		Delete(&domain.ARBuyout{}).Error; err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&rows).Error
}

func (r *GormBuyoutLedgerRepo) RenameContractCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error {
	return db.WithContext(ctx).Model(&domain.ARBuyout{}).
		Where("contract_code = ?", oldCode).
		Update("contract_code", newCode).Error
}

func (r *GormBuyoutLedgerRepo) ListByContract(ctx context.Context, db *gorm.DB, code string) ([]domain.ARBuyout, error) {
	var rows []domain.ARBuyout
	err := db.WithContext(ctx).
		Where("contract_code = ?", code).
		Order("deal_date").Find(&rows).Error
	return rows, err
}

func (r *GormBuyoutLedgerRepo) List(ctx context.Context, db *gorm.DB, f domain.ReceivableFilter) ([]domain.ARBuyout, error) {
	q := applyReceivableFilter(db.WithContext(ctx).Model(&domain.ARBuyout{}), f, "deal_date")
	var rows []domain.ARBuyout
	err := q.Order("contract_code, deal_date").Find(&rows).Error
	return rows, err
}

func (r *GormBuyoutLedgerRepo) SetPaymentStatus(ctx context.Context, db *gorm.DB, id int64, status domain.PaymentStatus) (int64, error) {
	result := db.WithContext(ctx).Model(&domain.ARBuyout{}).
		Where("id = ?", id).
		Update("payment_status", status)
	return result.RowsAffected, result.Error
}
