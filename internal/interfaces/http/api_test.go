package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/auth"
	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/inventory-manager/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fakePDF struct{}

func (fakePDF) GenerateStockReport(context.Context, *report.StockReport) ([]byte, error) {
	return []byte("%PDF-1.3 fake"), nil
}

type testAPI struct {
	app    *fiber.App
	staff  string
	viewer string
}

// newTestAPI arma la API completa sobre el store en memoria con un usuario staff y uno sin staff.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	authUC := auth.NewAuthUseCase(store.Users(), auth.JWTConfig{Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer})
	searchUC := usecase.NewSearchUseCase(store.Products(), store.Movements(), time.UTC)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:         authUC,
		UserUC:         usecase.NewUserUseCase(store.Users()),
		ProductUC:      usecase.NewProductUseCase(store.Products(), store.Categories()),
		CategoryUC:     usecase.NewCategoryUseCase(store.Categories()),
		SearchUC:       searchUC,
		MovementUC:     inventory.NewMovementUseCase(store, store.Movements()),
		StockReportUC:  report.NewStockReportUseCase(store.Products(), fakePDF{}),
		JWTSecret:      testJWTSecret,
		RequestTimeout: 5 * time.Second,
	})

	api := &testAPI{app: app}
	for _, u := range []dto.CreateUserRequest{
		{Email: "admin@example.com", Password: "admin-password", IsStaff: true},
		{Email: "viewer@example.com", Password: "viewer-password"},
	} {
		_, err := authUC.CreateUser(ctx, u)
		require.NoError(t, err)
	}
	api.staff = api.login(t, "admin@example.com", "admin-password")
	api.viewer = api.login(t, "viewer@example.com", "viewer-password")
	return api
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (a *testAPI) login(t *testing.T, email, password string) string {
	t.Helper()
	resp := a.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out.Token
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	return decode[dto.ErrorResponse](t, resp).Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestAPI_EscenarioWidget(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/products", api.staff, map[string]any{"name": "Widget", "stock": 100, "price": "9.99"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	product := decode[dto.ProductResponse](t, resp)
	assert.Regexp(t, `^P[0-9A-F]{8}$`, product.Code)

	record := func(movType string, qty int64) *http.Response {
		return api.do(t, http.MethodPost, "/api/movements", api.staff, dto.RecordMovementRequest{ProductID: product.ID, Type: movType, Quantity: qty})
	}

	resp = record("entrada", 50)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = record("salida", 200)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", errorCode(t, resp))

	resp = record("salida", 150)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	mov := decode[dto.MovementResponse](t, resp)
	assert.Equal(t, "Widget", mov.ProductName)

	resp = record("ajuste", 1)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, "UNSUPPORTED_MOVEMENT_TYPE", errorCode(t, resp))

	resp = api.do(t, http.MethodGet, "/api/products/"+strconv.FormatInt(product.ID, 10), api.viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int64(0), decode[dto.ProductResponse](t, resp).Stock)

	resp = api.do(t, http.MethodGet, "/api/movements/search?type=entrada&type=salida&product_name=WID", api.viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.MovementListResponse](t, resp).Total)
}

func TestAPI_Permisos(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/products", api.viewer, map[string]any{"name": "Widget", "price": "1"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "PERMISSION_DENIED", errorCode(t, resp))

	resp = api.do(t, http.MethodGet, "/api/products", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/categories", api.viewer, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/movements/1", api.viewer, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el detalle de movimiento exige staff")
	resp.Body.Close()

	resp = api.do(t, http.MethodGet, "/api/movements/1", api.staff, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, resp))
}

func TestAPI_BusquedaDeProductos(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/categories", api.staff, dto.CreateCategoryRequest{Name: "Ferretería"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	cat := decode[dto.CategoryResponse](t, resp)

	for _, p := range []map[string]any{
		{"name": "Martillo", "price": "15.00", "category_id": cat.ID},
		{"name": "Taladro", "price": "120.00", "category_id": cat.ID},
		{"name": "Cuaderno", "price": "3.50", "code": "CUA-1"},
	} {
		resp := api.do(t, http.MethodPost, "/api/products", api.staff, p)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp = api.do(t, http.MethodGet, "/api/products/search?price_min=10&price_max=20", api.viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.ProductListResponse](t, resp)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "Martillo", list.Items[0].Name)

	resp = api.do(t, http.MethodGet, "/api/products/search?category=ferre", api.viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.ProductListResponse](t, resp).Total)

	resp = api.do(t, http.MethodGet, "/api/products/search?price_min=abc", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))

	resp = api.do(t, http.MethodGet, "/api/products/code/CUA-1", api.viewer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Cuaderno", decode[dto.ProductResponse](t, resp).Name)

	resp = api.do(t, http.MethodPost, "/api/products", api.staff, map[string]any{"name": "Otro", "price": "1", "code": "CUA-1"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", errorCode(t, resp))
}

func TestAPI_ReporteDeStock(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/reports/stock.pdf", api.viewer, nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "stock_")
}

func TestAPI_LoginCredencialesInvalidas(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "admin@example.com", Password: "incorrecta"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "nadie@example.com", Password: "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_Perfil(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/auth/me", api.staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[dto.UserResponse](t, resp)
	assert.Equal(t, "admin@example.com", me.Email)
	assert.True(t, me.IsStaff)

	resp = api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestAPI_IDInvalido(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(t, http.MethodGet, "/api/products/abc", api.viewer, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, resp))
}
