package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yucheng0106/printbill/backend/internal/billing/adapter/repo"
	"github.com/yucheng0106/printbill/backend/internal/billing/domain"
	"github.com/yucheng0106/printbill/backend/internal/billing/service"
)

func setupRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

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

	leasingRepo := repo.NewLeasingContractRepo()
	buyoutRepo := repo.NewBuyoutContractRepo()
	leasingARRepo := repo.NewLeasingLedgerRepo()
	buyoutARRepo := repo.NewBuyoutLedgerRepo()
	customerRepo := repo.NewCustomerRepo()

	contractSvc := service.NewContractService(db, zap.NewNop(),
		leasingRepo, buyoutRepo, leasingARRepo, buyoutARRepo, customerRepo)
	customerSvc := service.NewCustomerService(db, zap.NewNop(), customerRepo)
	companySvc := service.NewCompanyService(db, repo.NewCompanyRepo())
	accountSvc := service.NewAccountService(db, leasingRepo, buyoutRepo,
		leasingARRepo, buyoutARRepo, repo.NewServiceExpenseRepo())

	r := gin.New()
	v1 := r.Group("/api/v1")
	NewContractHandler(contractSvc).RegisterRoutes(v1)
	NewCustomerHandler(customerSvc).RegisterRoutes(v1)
	NewCompanyHandler(companySvc).RegisterRoutes(v1)
	NewAccountHandler(accountSvc).RegisterRoutes(v1)
	return r, db
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLeasingContractLifecycleHTTP(t *testing.T) {
	r, db := setupRouter(t)
	if err := db.Create(&domain.Customer{CustomerCode: "C001", Name: "宏达印务"}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	body := gin.H{
		"contract_code":        "L001",
		"customer_code":        "C001",
		"start_date":           "2024-03-01",
		"monthly_rent":         1000,
		"payment_cycle_months": 3,
		"contract_months":      10,
	}

	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing", body); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	// 重复编号
	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing", body); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/contracts/leasing/L001/receivables", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("receivables status = %d", w.Code)
	}
	var rows []domain.ARLeasing
	if err := json.Unmarshal(w.Body.Bytes(), &rows); err != nil {
		t.Fatalf("decode receivables: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("receivable rows = %d, want 4", len(rows))
	}

	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing/L001/pause", nil); w.Code != http.StatusOK {
		t.Fatalf("pause status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing/L001/pause", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("double pause status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing/L001/resume",
		gin.H{"resume_date": "2024-06-01"}); w.Code != http.StatusOK {
		t.Fatalf("resume status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodPut, "/api/v1/contracts/leasing/L001/payable-status",
		gin.H{"side": "sales", "status": "collected"}); w.Code != http.StatusOK {
		t.Fatalf("payable status = %d, body = %s", w.Code, w.Body.String())
	}

	if w := doJSON(t, r, http.MethodDelete, "/api/v1/contracts/leasing/L001", nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/contracts/leasing/L001", nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", w.Code)
	}
}

func TestLeasingContractBadDateHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing", gin.H{
		"contract_code": "L001",
		"customer_code": "C001",
		"start_date":    "03/01/2024",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d, want 400", w.Code)
	}
}

func TestCustomerRenameHTTP(t *testing.T) {
	r, db := setupRouter(t)
	if err := db.Create(&domain.Customer{CustomerCode: "C001", Name: "宏达印务"}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}

	w := doJSON(t, r, http.MethodPut, "/api/v1/customers/C001/code",
		gin.H{"new_customer_code": "C900"})
	if w.Code != http.StatusOK {
		t.Fatalf("rename status = %d, body = %s", w.Code, w.Body.String())
	}
	var c domain.Customer
	if err := json.Unmarshal(w.Body.Bytes(), &c); err != nil {
		t.Fatalf("decode customer: %v", err)
	}
	if c.CustomerCode != "C900" {
		t.Fatalf("code = %q, want C900", c.CustomerCode)
	}

	if w := doJSON(t, r, http.MethodPut, "/api/v1/customers/NOPE/code",
		gin.H{"new_customer_code": "C901"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing customer status = %d, want 404", w.Code)
	}
}

func TestCompanyLifecycleHTTP(t *testing.T) {
	r, _ := setupRouter(t)

	body := gin.H{"company_code": "S001", "name": "联创办公", "is_sales": true}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/companies", body); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/companies", body); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate status = %d, want 400", w.Code)
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/companies?kind=sales", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status = %d", w.Code)
	}
	var companies []domain.Company
	if err := json.Unmarshal(w.Body.Bytes(), &companies); err != nil {
		t.Fatalf("decode companies: %v", err)
	}
	if len(companies) != 1 || companies[0].CompanyCode != "S001" {
		t.Fatalf("companies = %+v, want single S001", companies)
	}

	if w := doJSON(t, r, http.MethodPut, "/api/v1/companies/S001",
		gin.H{"name": "联创办公设备", "is_sales": true}); w.Code != http.StatusOK {
		t.Fatalf("update status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodGet, "/api/v1/companies/NOPE", nil); w.Code != http.StatusNotFound {
		t.Fatalf("missing company status = %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/v1/companies/S001", nil); w.Code != http.StatusOK {
		t.Fatalf("delete status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/api/v1/companies/S001", nil); w.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", w.Code)
	}
}

func TestPayablesHTTP(t *testing.T) {
	r, db := setupRouter(t)
	if err := db.Create(&domain.Customer{CustomerCode: "C001", Name: "宏达印务"}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/leasing", gin.H{
		"contract_code":      "L001",
		"customer_code":      "C001",
		"start_date":         "2024-03-01",
		"sales_company_code": "S001",
		"sales_amount":       600,
	}); w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", w.Code, w.Body.String())
	}

	w := doJSON(t, r, http.MethodGet, "/api/v1/accounts/payables/unpaid?side=sales", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unpaid status = %d", w.Code)
	}
	var items []service.PayableItem
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode payables: %v", err)
	}
	if len(items) != 1 || items[0].CompanyCode != "S001" {
		t.Fatalf("unpaid payables = %+v, want single S001 row", items)
	}

	if w := doJSON(t, r, http.MethodGet, "/api/v1/accounts/payables/paid", nil); w.Code != http.StatusOK {
		t.Fatalf("paid status = %d", w.Code)
	} else if body := w.Body.String(); body != "[]" {
		t.Fatalf("paid payables = %s, want empty list", body)
	}
}

func TestReceivableStatusHTTP(t *testing.T) {
	r, db := setupRouter(t)
	if err := db.Create(&domain.Customer{CustomerCode: "C001", Name: "宏达印务"}).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	if w := doJSON(t, r, http.MethodPost, "/api/v1/contracts/buyout", gin.H{
		"contract_code": "B001",
		"customer_code": "C001",
		"deal_date":     "2024-03-15",
		"deal_amount":   8000,
	}); w.Code != http.StatusCreated {
		t.Fatalf("create buyout status = %d, body = %s", w.Code, w.Body.String())
	}

	var row domain.ARBuyout
	if err := db.Where("contract_code = ?", "B001").First(&row).Error; err != nil {
		t.Fatalf("fetch ar row: %v", err)
	}

	path := fmt.Sprintf("/api/v1/accounts/receivables/buyout/%d/status", row.ID)
	if w := doJSON(t, r, http.MethodPut, path, gin.H{"status": "collected"}); w.Code != http.StatusOK {
		t.Fatalf("set status = %d, body = %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPut, "/api/v1/accounts/receivables/buyout/99999/status",
		gin.H{"status": "collected"}); w.Code != http.StatusNotFound {
		t.Fatalf("missing row status = %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, "/api/v1/accounts/receivables/buyout/abc/status",
		gin.H{"status": "collected"}); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status = %d, want 400", w.Code)
	}
}
