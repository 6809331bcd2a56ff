package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// GormCompanyRepo 往来公司仓储的 gorm 实现
type GormCompanyRepo struct{}

func NewCompanyRepo() *GormCompanyRepo {
	return &GormCompanyRepo{}
}

func (r *GormCompanyRepo) FetchByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Company, error) {
	var c domain.Company
	if err := db.WithContext(ctx).Where("company_code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCompanyRepo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Company{}).
		Where("company_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormCompanyRepo) Create(ctx context.Context, db *gorm.DB, c *domain.Company) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *GormCompanyRepo) Save(ctx context.Context, db *gorm.DB, c *domain.Company) error {
	return db.WithContext(ctx).Save(c).Error
}

func (r *GormCompanyRepo) DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	result := db.WithContext(ctx).Where("company_code = ?", code).Delete(&domain.Company{})
	return result.RowsAffected, result.Error
}

func (r *GormCompanyRepo) List(ctx context.Context, db *gorm.DB, kind, search string) ([]domain.Company, error) {
	q := db.WithContext(ctx).Model(&domain.Company{})
	switch kind {
	case "sales":
		q = q.Where("is_sales = ?", true)
	case "service":
		q = q.Where("is_service = ?", true)
	}
	if search != "" {
		p := likePattern(search)
		q = q.Where(
			"LOWER(company_code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(mobile) LIKE ?",
			p, p, p, p,
		)
	}
	var companies []domain.Company
	if err := q.Order("name").Find(&companies).Error; err != nil {
		return nil, err
	}
	return companies, nil
}

// ---------------------------------------------------------

// GormServiceExpenseRepo 维修费用仓储的 gorm 实现（只读）
type GormServiceExpenseRepo struct{}

func NewServiceExpenseRepo() *GormServiceExpenseRepo {
	return &GormServiceExpenseRepo{}
}

func (r *GormServiceExpenseRepo) List(ctx context.Context, db *gorm.DB, f domain.ReceivableFilter) ([]domain.ServiceExpense, error) {
	q := applyReceivableFilter(db.WithContext(ctx).Model(&domain.ServiceExpense{}), f, "service_date")
	if f.ServiceType != "" {
		q = q.Where("LOWER(service_type) LIKE ?", likePattern(f.ServiceType))
	}
	var rows []domain.ServiceExpense
	err := q.Order("service_date DESC").Find(&rows).Error
	return rows, err
}
