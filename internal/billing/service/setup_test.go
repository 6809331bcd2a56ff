package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yucheng0106/printbill/backend/internal/billing/adapter/repo"
	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	// sqlite 内存库：单连接，避免表锁和连接间看不到同一个库
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&domain.Customer{},
		&domain.Company{},
		&domain.ContractLeasing{},
		&domain.ContractBuyout{},
		&domain.ARLeasing{},
		&domain.ARBuyout{},
		&domain.ServiceExpense{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newContractService(t *testing.T, db *gorm.DB) *ContractService {
	t.Helper()
	return NewContractService(db, zap.NewNop(),
		repo.NewLeasingContractRepo(),
		repo.NewBuyoutContractRepo(),
		repo.NewLeasingLedgerRepo(),
		repo.NewBuyoutLedgerRepo(),
		repo.NewCustomerRepo(),
	)
}

func newCustomerService(t *testing.T, db *gorm.DB) *CustomerService {
	t.Helper()
	return NewCustomerService(db, zap.NewNop(), repo.NewCustomerRepo())
}

func seedCustomer(t *testing.T, db *gorm.DB, code, name string) {
	t.Helper()
	if err := db.Create(&domain.Customer{CustomerCode: code, Name: name}).Error; err != nil {
		t.Fatalf("seed customer %s: %v", code, err)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ledgerRows(t *testing.T, db *gorm.DB, code string) []domain.ARLeasing {
	t.Helper()
	var rows []domain.ARLeasing
	if err := db.Where("contract_code = ?", code).Order("start_date").Find(&rows).Error; err != nil {
		t.Fatalf("query ar_leasing: %v", err)
	}
	return rows
}

func buyoutLedgerRows(t *testing.T, db *gorm.DB, code string) []domain.ARBuyout {
	t.Helper()
	var rows []domain.ARBuyout
	if err := db.Where("contract_code = ?", code).Find(&rows).Error; err != nil {
		t.Fatalf("query ar_buyout: %v", err)
	}
	return rows
}

func leasingInput(code string) LeasingInput {
	return LeasingInput{
		ContractCode:       code,
		CustomerCode:       "C001",
		StartDate:          date(2024, time.March, 1),
		Model:              "HP-M428",
		Quantity:           2,
		MonthlyRent:        dec("1000"),
		PaymentCycleMonths: 3,
		ContractMonths:     10,
	}
}

func buyoutInput(code string) BuyoutInput {
	return BuyoutInput{
		ContractCode: code,
		CustomerCode: "C001",
		DealDate:     date(2024, time.March, 15),
		DealAmount:   dec("8000"),
	}
}

var ctx = context.Background()
