package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// customerCodeFanOut 客户改号的扇出清单：所有冗余存了 customer_code 的表。
// 这些引用没有外键级联，一致性靠这里逐表改写；新增冗余引用时必须登记进来。
var customerCodeFanOut = []struct {
	model  interface{}
	column string
}{
	{&domain.Customer{}, "customer_code"},
	{&domain.ContractLeasing{}, "customer_code"},
	{&domain.ContractBuyout{}, "customer_code"},
	{&domain.ARLeasing{}, "customer_code"},
	{&domain.ARBuyout{}, "customer_code"},
	{&domain.ServiceExpense{}, "customer_code"},
}

// GormCustomerRepo 客户仓储的 gorm 实现
type GormCustomerRepo struct{}

func NewCustomerRepo() *GormCustomerRepo {
	return &GormCustomerRepo{}
}

func (r *GormCustomerRepo) FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*domain.Customer, error) {
	q := db.WithContext(ctx)
	if forUpdate {
		q = lockForUpdate(q)
	}
	var c domain.Customer
	if err := q.Where("customer_code = ?", code).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// LookupName 名称快照来源：存在返回名称，不存在返回空串不报错。
func (r *GormCustomerRepo) LookupName(ctx context.Context, db *gorm.DB, code string) (string, error) {
	var c domain.Customer
	err := db.WithContext(ctx).Select("name").Where("customer_code = ?", code).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return c.Name, nil
}

func (r *GormCustomerRepo) CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Customer{}).
		Where("customer_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GormCustomerRepo) Create(ctx context.Context, db *gorm.DB, c *domain.Customer) error {
	return db.WithContext(ctx).Create(c).Error
}

func (r *GormCustomerRepo) Save(ctx context.Context, db *gorm.DB, c *domain.Customer) error {
	return db.WithContext(ctx).Save(c).Error
}

func (r *GormCustomerRepo) DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error) {
	result := db.WithContext(ctx).Where("customer_code = ?", code).Delete(&domain.Customer{})
	return result.RowsAffected, result.Error
}

func (r *GormCustomerRepo) List(ctx context.Context, db *gorm.DB, search string) ([]domain.Customer, error) {
	q := db.WithContext(ctx).Model(&domain.Customer{})
	if search != "" {
		p := likePattern(search)
		q = q.Where(
			"LOWER(customer_code) LIKE ? OR LOWER(name) LIKE ? OR LOWER(contact_name) LIKE ? OR LOWER(mobile) LIKE ? OR LOWER(phone) LIKE ? OR LOWER(email) LIKE ?",
			p, p, p, p, p, p,
		)
	}
	var customers []domain.Customer
	if err := q.Order("customer_code").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// RenameCode 按扇出清单把 oldCode 全部改写为 newCode。纯编号改写，
// 不重建应收、不重算金额。必须跑在调用方事务里。
func (r *GormCustomerRepo) RenameCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error {
	for _, target := range customerCodeFanOut {
		if err := db.WithContext(ctx).Model(target.model).
			Where(target.column+" = ?", oldCode).
			Update(target.column, newCode).Error; err != nil {
			return err
		}
	}
	return nil
}
