package repo

import (
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

// lockForUpdate 行级排它锁。
// SELECT ... FOR UPDATE 只有 postgres 认识；sqlite（测试库）写入本身串行，
// 按方言降级，不改变业务路径。
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// likePattern 大小写不敏感的部分比对（代替 postgres 专属的 ILIKE）
func likePattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// applyPayableFilter 应付视角的合同查询：side 一侧金额大于零，
// paid 决定取已收还是未收；f.PaymentStatus 命中 side 对应的状态列。
func applyPayableFilter(q *gorm.DB, side domain.PayableSide, paid bool, f domain.ReceivableFilter, dateCol string) *gorm.DB {
	statusCol := payableColumn(side)
	q = q.Where(payableAmountColumn(side) + " > 0")
	if paid {
		q = q.Where(statusCol+" = ?", domain.PaymentCollected)
	} else {
		q = q.Where(statusCol+" <> ?", domain.PaymentCollected)
	}
	if f.PaymentStatus != "" {
		q = q.Where(statusCol+" = ?", f.PaymentStatus)
		f.PaymentStatus = "" // 下面的通用条件只认 payment_status 列
	}
	return applyReceivableFilter(q, f, dateCol)
}

// applyReceivableFilter 组装应收查询条件，date 列名由调用方给定
// （租赁用 start_date，买断用 deal_date，维修费用用 service_date）。
func applyReceivableFilter(q *gorm.DB, f domain.ReceivableFilter, dateCol string) *gorm.DB {
	if f.ContractCode != "" {
		q = q.Where("LOWER(contract_code) LIKE ?", likePattern(f.ContractCode))
	}
	if f.CustomerCode != "" {
		q = q.Where("LOWER(customer_code) LIKE ?", likePattern(f.CustomerCode))
	}
	if f.CustomerName != "" {
		q = q.Where("LOWER(customer_name) LIKE ?", likePattern(f.CustomerName))
	}
	if f.FromDate != nil {
		q = q.Where(dateCol+" >= ?", *f.FromDate)
	}
	if f.ToDate != nil {
		q = q.Where(dateCol+" <= ?", *f.ToDate)
	}
	if f.PaymentStatus != "" {
		q = q.Where("payment_status = ?", f.PaymentStatus)
	}
	return q
}
