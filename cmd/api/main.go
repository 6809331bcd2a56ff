package main

import (
	"log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/yucheng0106/printbill/backend/internal/billing/adapter/repo"
	"github.com/yucheng0106/printbill/backend/internal/billing/api"
	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
	"github.com/yucheng0106/printbill/backend/internal/billing/service"
	"github.com/yucheng0106/printbill/backend/internal/platform/database"
	"github.com/yucheng0106/printbill/backend/internal/platform/logger"
	"github.com/yucheng0106/printbill/backend/internal/platform/server"
)

func main() {
	// 1. 加载配置
	viper.SetConfigFile("configs/config.yaml")
	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file: %s", err)
	}

	// 2. 初始化基础设施 (Infra)
	appLogger := logger.NewLogger(viper.GetString("server.mode"))
	dsn := viper.GetString("database.dsn")
	maxIdleConns := viper.GetInt("database.max_idle_conns")
	maxOpenConns := viper.GetInt("database.max_open_conns")
	db := database.NewPostgresDB(dsn, maxIdleConns, maxOpenConns)

	if err := db.AutoMigrate(
		&domain.Customer{},
		&domain.Company{},
		&domain.ContractLeasing{},
		&domain.ContractBuyout{},
		&domain.ARLeasing{},
		&domain.ARBuyout{},
		&domain.ServiceExpense{},
	); err != nil {
		appLogger.Fatal("Database migration failed", zap.Error(err))
	}

	// 3. 依赖注入 (Wiring)
	leasingRepo := repo.NewLeasingContractRepo()
	buyoutRepo := repo.NewBuyoutContractRepo()
	leasingARRepo := repo.NewLeasingLedgerRepo()
	buyoutARRepo := repo.NewBuyoutLedgerRepo()
	customerRepo := repo.NewCustomerRepo()
	companyRepo := repo.NewCompanyRepo()
	expenseRepo := repo.NewServiceExpenseRepo()

	contractSvc := service.NewContractService(db, appLogger,
		leasingRepo, buyoutRepo, leasingARRepo, buyoutARRepo, customerRepo)
	customerSvc := service.NewCustomerService(db, appLogger, customerRepo)
	companySvc := service.NewCompanyService(db, companyRepo)
	accountSvc := service.NewAccountService(db, leasingRepo, buyoutRepo, leasingARRepo, buyoutARRepo, expenseRepo)

	// 4. 初始化 Server (Gateway)
	srv := server.NewServer(
		appLogger,
		viper.GetString("server.port"),
		viper.GetString("server.mode"),
		server.Handlers{
			Contracts: api.NewContractHandler(contractSvc),
			Customers: api.NewCustomerHandler(customerSvc),
			Companies: api.NewCompanyHandler(companySvc),
			Accounts:  api.NewAccountHandler(accountSvc),
		},
	)

	// 5. 启动服务
	if err := srv.Run(); err != nil {
		appLogger.Fatal("Server startup failed", zap.Error(err))
	}
}
