package domain

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// 仓储接口定义（Port），gorm 适配器在 adapter/repo 实现。
// 写操作一律接收调用方的 *gorm.DB 事务句柄，自己不开事务、不提交。

// ReceivableFilter 应收账款 / 维修费用列表的查询条件（部分比对）
type ReceivableFilter struct {
	ContractCode  string
	CustomerCode  string
	CustomerName  string
	FromDate      *time.Time
	ToDate        *time.Time
	PaymentStatus PaymentStatus
	ServiceType   string
}

// LeasingContractRepository 租赁合同仓储
type LeasingContractRepository interface {
	// FetchByCode 按编号取合同；forUpdate 为 true 时加行锁（SELECT ... FOR UPDATE）。
	// 不存在返回 ErrNotFound。
	FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*ContractLeasing, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, c *ContractLeasing) error
	Save(ctx context.Context, db *gorm.DB, c *ContractLeasing) error
	// DeleteByCode 返回删除行数（0 表示合同不存在）
	DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	List(ctx context.Context, db *gorm.DB, search string) ([]ContractLeasing, error)
	SetPayableStatus(ctx context.Context, db *gorm.DB, code string, side PayableSide, status PaymentStatus) (int64, error)
	// ListPayables 取 side 一侧金额大于零的合同：paid 为 true 取已收，
	// 否则取未收。f.PaymentStatus 命中的是 side 对应的状态列。
	ListPayables(ctx context.Context, db *gorm.DB, side PayableSide, paid bool, f ReceivableFilter) ([]ContractLeasing, error)
}

// BuyoutContractRepository 买断合同仓储
type BuyoutContractRepository interface {
	FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*ContractBuyout, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, c *ContractBuyout) error
	Save(ctx context.Context, db *gorm.DB, c *ContractBuyout) error
	DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	List(ctx context.Context, db *gorm.DB, search string) ([]ContractBuyout, error)
	SetPayableStatus(ctx context.Context, db *gorm.DB, code string, side PayableSide, status PaymentStatus) (int64, error)
	ListPayables(ctx context.Context, db *gorm.DB, side PayableSide, paid bool, f ReceivableFilter) ([]ContractBuyout, error)
}

// LeasingLedgerRepository 租赁应收账款仓储
type LeasingLedgerRepository interface {
	// Replace 全量替换：先删掉 codes 名下所有应收行，再整批插入 rows。
	// 非增量，同一输入重复执行对最终状态幂等。必须跑在调用方事务里。
	Replace(ctx context.Context, db *gorm.DB, rows []ARLeasing, codes ...string) error
	// RenameContractCode 原地改号，不触碰金额（合同改号且不重建账款时走这条路）
	RenameContractCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error
	ListByContract(ctx context.Context, db *gorm.DB, code string) ([]ARLeasing, error)
	List(ctx context.Context, db *gorm.DB, f ReceivableFilter) ([]ARLeasing, error)
	SetPaymentStatus(ctx context.Context, db *gorm.DB, id int64, status PaymentStatus) (int64, error)
}

// BuyoutLedgerRepository 买断应收账款仓储
type BuyoutLedgerRepository interface {
	Replace(ctx context.Context, db *gorm.DB, rows []ARBuyout, codes ...string) error
	RenameContractCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error
	ListByContract(ctx context.Context, db *gorm.DB, code string) ([]ARBuyout, error)
	List(ctx context.Context, db *gorm.DB, f ReceivableFilter) ([]ARBuyout, error)
	SetPaymentStatus(ctx context.Context, db *gorm.DB, id int64, status PaymentStatus) (int64, error)
}

// CustomerRepository 客户仓储
type CustomerRepository interface {
	FetchByCode(ctx context.Context, db *gorm.DB, code string, forUpdate bool) (*Customer, error)
	// LookupName 按编号取客户名称，不存在返回空串（用于刷新合同上的名称快照）
	LookupName(ctx context.Context, db *gorm.DB, code string) (string, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, c *Customer) error
	Save(ctx context.Context, db *gorm.DB, c *Customer) error
	DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	List(ctx context.Context, db *gorm.DB, search string) ([]Customer, error)
	// RenameCode 把 customer_code 从 oldCode 改写为 newCode，
	// 按固定扇出表清单逐表改写冗余编号。纯编号改写，不重算任何金额。
	RenameCode(ctx context.Context, db *gorm.DB, oldCode, newCode string) error
}

// CompanyRepository 往来公司仓储
type CompanyRepository interface {
	FetchByCode(ctx context.Context, db *gorm.DB, code string) (*Company, error)
	CodeExists(ctx context.Context, db *gorm.DB, code string) (bool, error)
	Create(ctx context.Context, db *gorm.DB, c *Company) error
	Save(ctx context.Context, db *gorm.DB, c *Company) error
	DeleteByCode(ctx context.Context, db *gorm.DB, code string) (int64, error)
	// List kind 取值 "sales" / "service" / ""（全部）
	List(ctx context.Context, db *gorm.DB, kind, search string) ([]Company, error)
}

// ServiceExpenseRepository 维修费用仓储（只读）
type ServiceExpenseRepository interface {
	List(ctx context.Context, db *gorm.DB, f ReceivableFilter) ([]ServiceExpense, error)
}
