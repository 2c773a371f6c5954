package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"retailing/internal/config"
	"retailing/internal/dto"
	"retailing/internal/infra"
	"retailing/internal/model"
	"retailing/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type api struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Country{}, &model.User{}, &model.Supplier{}, &model.Category{},
		&model.Product{}, &model.Order{}, &model.Warehouse{}, &model.Payable{},
	))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:                    "test",
		JWTSecret:              "router-test-secret",
		JWTExpirationHours:     1,
		JWTRefreshHours:        2,
		CountryCacheTTLMinutes: 1,
	}
	engine := router.New(cfg, router.Deps{DB: db, Metrics: infra.NewMetrics()})
	return &api{t: t, engine: engine, db: db}
}

// do sends a JSON request and decodes the response into out when non-nil.
func (a *api) do(method, path, token string, body, out interface{}) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	if out != nil {
		require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

// signup registers a user, logs them in and returns the access token.
func (a *api) signup(name string) string {
	a.t.Helper()
	email := name + "@example.test"
	code := a.do(http.MethodPost, "/v1/users/register", "", dto.RegisterUserRequest{
		Username: name, Email: email, Password: "s3cret-pass",
	}, nil)
	require.Equal(a.t, http.StatusCreated, code)

	var login dto.LoginResponse
	code = a.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{Email: email, Password: "s3cret-pass"}, &login)
	require.Equal(a.t, http.StatusOK, code)
	return login.AccessToken
}

func (a *api) registerSupplier(token, name, kind string, country uint) dto.SupplierResponse {
	a.t.Helper()
	var s dto.SupplierResponse
	code := a.do(http.MethodPost, "/v1/suppliers", token, dto.RegisterSupplierRequest{
		Name: name, Type: kind, Email: "office@" + strings.ToLower(name) + ".test",
		CountryID: country, City: "Berlin", Street: "Hauptstrasse", HouseNumber: "1",
	}, &s)
	require.Equal(a.t, http.StatusCreated, code)
	return s
}

type envelope struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func TestAPI_TradingFlow(t *testing.T) {
	a := newAPI(t)
	country := model.Country{Code: "DE", Name: "Germany"}
	require.NoError(t, a.db.Create(&country).Error)

	vendorTok := a.signup("vendor")
	distTok := a.signup("dist")
	vendor := a.registerSupplier(vendorTok, "Acme", "vendor", country.ID)
	dist := a.registerSupplier(distTok, "Nordic", "distributor", country.ID)

	var cat dto.CategoryResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/categories", vendorTok, dto.CategoryRequest{Name: "Phones"}, &cat))

	var product dto.ProductResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/products", vendorTok, dto.CreateProductRequest{
		Name: "Phone 7", CategoryID: cat.ID, ReleaseDate: "2026-01-15",
	}, &product))

	var missing struct {
		Fields map[string]string `json:"fields"`
	}
	code := a.do(http.MethodPost, "/v1/orders", vendorTok, map[string]interface{}{
		"supplier": vendor.ID, "product": product.ID, "operation": "addition", "quantity": 3,
	}, &missing)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "required", missing.Fields["Price"])

	var subCent envelope
	code = a.do(http.MethodPost, "/v1/orders", vendorTok, map[string]interface{}{
		"supplier": vendor.ID, "product": product.ID, "operation": "addition", "quantity": 1000, "price": "0.004",
	}, &subCent)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid_input", subCent.Code)

	price := decimal.NewFromInt(45000)
	var addition dto.OrderResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/orders", vendorTok, dto.SubmitOrderRequest{
		SupplierID: vendor.ID, ProductID: product.ID, Operation: "addition", Quantity: 5, Price: &price,
	}, &addition))
	assert.Equal(t, vendor.ID, addition.OwnerID)

	var rejected envelope
	code = a.do(http.MethodPost, "/v1/orders", distTok, dto.SubmitOrderRequest{
		SupplierID: vendor.ID, ProductID: product.ID, Operation: "buying", Quantity: 10, Price: &price,
	}, &rejected)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "insufficient_stock", rejected.Code)

	var buying dto.OrderResponse
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/v1/orders", distTok, dto.SubmitOrderRequest{
		SupplierID: vendor.ID, ProductID: product.ID, Operation: "buying", Quantity: 2, Price: &price,
	}, &buying))
	assert.True(t, buying.Amount.Equal(decimal.NewFromInt(90000)))

	var vendorStock []dto.WarehouseResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/warehouse", vendorTok, nil, &vendorStock))
	require.Len(t, vendorStock, 1)
	assert.Equal(t, 3, vendorStock[0].Quantity)

	var distStock []dto.WarehouseResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/warehouse", distTok, nil, &distStock))
	require.Len(t, distStock, 1)
	assert.Equal(t, 2, distStock[0].Quantity)

	var payables []dto.PayableResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/payables", vendorTok, nil, &payables))
	require.Len(t, payables, 1)
	assert.Equal(t, dist.ID, payables[0].OwnerID)
	assert.Equal(t, vendor.ID, payables[0].SupplierID)
	assert.True(t, payables[0].Amount.Equal(decimal.NewFromInt(90000)))

	var orders []dto.OrderResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/v1/orders", distTok, nil, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, buying.ID, orders[0].ID)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/v1/orders/%d/receipt", buying.ID), nil)
	req.Header.Set("Authorization", "Bearer "+distTok)
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestAPI_ReadOnlyResources(t *testing.T) {
	a := newAPI(t)
	country := model.Country{Code: "FR", Name: "France"}
	require.NoError(t, a.db.Create(&country).Error)
	tok := a.signup("retail")
	a.registerSupplier(tok, "Shop", "retailer", country.ID)

	cases := []struct {
		method, path string
	}{
		{http.MethodPut, "/v1/orders/1"},
		{http.MethodPatch, "/v1/orders/1"},
		{http.MethodDelete, "/v1/orders/1"},
		{http.MethodPost, "/v1/warehouse"},
		{http.MethodDelete, "/v1/warehouse/1"},
		{http.MethodPatch, "/v1/payables/1"},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			var e envelope
			code := a.do(tc.method, tc.path, tok, map[string]int{"quantity": 100}, &e)
			assert.Equal(t, http.StatusMethodNotAllowed, code)
			assert.Equal(t, "operation_not_permitted", e.Code)
		})
	}
}

func TestAPI_OrdersImmutableForAdministrators(t *testing.T) {
	a := newAPI(t)
	a.signup("root")
	require.NoError(t, a.db.Model(&model.User{}).Where("email = ?", "root@example.test").Update("is_superuser", true).Error)

	var login dto.LoginResponse
	require.Equal(t, http.StatusOK, a.do(http.MethodPost, "/v1/auth/login", "", dto.LoginRequest{
		Email: "root@example.test", Password: "s3cret-pass",
	}, &login))
	require.True(t, login.User.IsSuperuser)

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		var e envelope
		code := a.do(method, "/v1/orders/1", login.AccessToken, map[string]int{"quantity": 1}, &e)
		assert.Equal(t, http.StatusMethodNotAllowed, code, method)
		assert.Equal(t, "operation_not_permitted", e.Code, method)
	}

	// Reading the journal is still reserved to trading parties.
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/v1/orders", login.AccessToken, nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodDelete, "/v1/orders/1", "", nil, nil))
}

func TestAPI_AccessControl(t *testing.T) {
	a := newAPI(t)

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/orders", "", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/v1/warehouse", "not-a-token", nil, nil))

	// Authenticated but not employed by any supplier.
	tok := a.signup("loner")
	var e envelope
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodGet, "/v1/payables", tok, nil, &e))
	assert.Equal(t, "unauthorized", e.Code)
	assert.Equal(t, http.StatusForbidden, a.do(http.MethodPost, "/v1/admin/reconcile", tok, nil, nil))

	var invalid struct {
		Fields map[string]string `json:"fields"`
	}
	assert.Equal(t, http.StatusUnprocessableEntity, a.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "x"}, &invalid))
	assert.Equal(t, "email", invalid.Fields["Email"])
}

func TestAPI_HealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	var health map[string]interface{}
	require.Equal(t, http.StatusOK, a.do(http.MethodGet, "/health", "", nil, &health))
	assert.Equal(t, true, health["ok"])
	assert.Equal(t, "connected", health["db"])
	assert.Equal(t, "disabled", health["redis"])
	assert.Equal(t, "disabled", health["smtp"])

	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "retailing_warehouse_drift_rows")
}
