package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/analytics"
	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/application/inventory"
	"github.com/jhoicas/kardex-api/internal/application/returns"
	apphttp "github.com/jhoicas/kardex-api/internal/interfaces/http"
	"github.com/jhoicas/kardex-api/internal/testutil"
)

type apiClient struct {
	t   *testing.T
	app *fiber.App
}

// newAPI levanta el router completo sobre una base SQLite en memoria.
func newAPI(t *testing.T) *apiClient {
	t.Helper()
	store := testutil.NewStore(t)
	store.SeedDepartment(t, "d-cocina", "Cocina")
	log := zerolog.Nop()

	engine := inventory.NewMovementEngine(store.TxRunner, inventory.EngineConfig{MaxRetries: 3, RetryBackoff: time.Millisecond}, log)
	app := fiber.New()
	app.Use(apphttp.RequestLogger(log))
	apphttp.Router(app, apphttp.RouterDeps{
		ItemUC:    inventory.NewItemUseCase(store.TxRunner, engine, store.Items, log),
		Engine:    engine,
		BulkExit:  inventory.NewBulkExitProcessor(engine, store.Items, 2, log),
		LedgerUC:  inventory.NewLedgerUseCase(store.TxRunner, store.Ledger, true, log),
		ReturnsUC: returns.NewUseCase(store.TxRunner, store.Returns, engine, log),
		Reports:   analytics.NewStockReportUseCase(store.Items, store.Ledger, store.Reference, time.UTC),
		JWTSecret: testJWTSecret,
		Log:       log,
	})
	return &apiClient{t: t, app: app}
}

// do envía la petición con un token del rol indicado y decodifica la respuesta en out (si no es nil).
func (a *apiClient) do(method, path, role string, body, out interface{}) int {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", tokenForRole(a.t, role))
	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(a.t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (a *apiClient) createItem(name string, qty, min int64) dto.ItemResponse {
	a.t.Helper()
	var item dto.ItemResponse
	status := a.do(http.MethodPost, "/api/items", apphttp.RoleBodeguero, dto.CreateItemRequest{
		Name: name, DepartmentID: "d-cocina", InitialQuantity: qty, MinimumQuantity: min,
	}, &item)
	require.Equal(a.t, http.StatusCreated, status)
	return item
}

func TestRouter_MovimientosYKardex(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Servilletas", 50, 10)
	assert.Equal(t, int64(50), item.CurrentQuantity)

	var entry dto.LedgerEntryResponse
	status := api.do(http.MethodPost, "/api/ledger/movements", apphttp.RoleBodeguero, dto.RegisterMovementRequest{
		ItemID: item.ID, Direction: "out", Quantity: 20, Observation: "evento",
	}, &entry)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "OUT", entry.Direction)
	assert.Equal(t, testUserName, entry.ActorName)
	assert.Equal(t, "d-cocina", entry.DepartmentID)

	var errResp dto.ErrorResponse
	status = api.do(http.MethodPost, "/api/ledger/movements", apphttp.RoleBodeguero, dto.RegisterMovementRequest{
		ItemID: item.ID, Direction: "OUT", Quantity: 31,
	}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", errResp.Code)

	status = api.do(http.MethodPost, "/api/ledger/movements", apphttp.RoleBodeguero, dto.RegisterMovementRequest{
		ItemID: item.ID, Direction: "LATERAL", Quantity: 1,
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "direction", errResp.Field)

	var got dto.ItemResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/items/"+item.ID, apphttp.RoleConsulta, nil, &got))
	assert.Equal(t, int64(30), got.CurrentQuantity)

	var entries []dto.LedgerEntryResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/ledger/entries?item_id="+item.ID, apphttp.RoleConsulta, nil, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "INITIAL", entries[0].Origin)
	assert.Equal(t, "MANUAL", entries[1].Origin)

	status = api.do(http.MethodGet, "/api/ledger/entries?from=ayer", apphttp.RoleConsulta, nil, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "from", errResp.Field)

	var rec dto.ReconciliationResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/items/"+item.ID+"/reconciliation", apphttp.RoleConsulta, nil, &rec))
	assert.True(t, rec.Consistent)
	assert.Equal(t, int64(30), rec.Expected)
}

func TestRouter_SalidaMasivaParcial(t *testing.T) {
	api := newAPI(t)
	a := api.createItem("Vasos", 10, 0)
	b := api.createItem("Platos", 2, 0)

	var res dto.BulkExitResponse
	status := api.do(http.MethodPost, "/api/ledger/bulk-exit", apphttp.RoleBodeguero, dto.BulkExitRequest{
		Lines: []dto.BulkExitLineRequest{
			{ItemID: a.ID, Quantity: 4},
			{ItemID: b.ID, Quantity: 5},
			{ItemID: "no-existe", Quantity: 1},
		},
		DepartmentID: "d-cocina",
	}, &res)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{a.ID}, res.Applied)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "INSUFFICIENT_STOCK", res.Failed[0].Code)
	assert.Equal(t, 1, res.Failed[0].Line)
	assert.Equal(t, "NOT_FOUND", res.Failed[1].Code)
}

func TestRouter_FlujoDevolucion(t *testing.T) {
	api := newAPI(t)
	item := api.createItem("Manteles", 30, 0)

	var ret dto.ReturnResponse
	require.Equal(t, http.StatusCreated, api.do(http.MethodPost, "/api/returns", apphttp.RoleBodeguero, dto.CreateReturnRequest{
		ItemName: "manteles", Quantity: 10, Reason: "sobrante", DepartmentID: "d-cocina",
	}, &ret))
	assert.Equal(t, "PENDING", ret.Status)
	assert.Equal(t, testUserName, ret.RequestedBy)

	// Solo admin aprueba.
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/returns/"+ret.ID+"/approve", apphttp.RoleBodeguero, nil, nil))
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/returns/"+ret.ID+"/approve", apphttp.RoleAdmin, nil, &ret))
	assert.Equal(t, "APPROVED", ret.Status)

	var done dto.CompleteReturnResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodPost, "/api/returns/"+ret.ID+"/complete", apphttp.RoleAdmin, nil, &done))
	assert.Equal(t, "COMPLETED", done.Return.Status)
	assert.Equal(t, "RETURN", done.Entry.Origin)
	assert.Equal(t, done.Entry.ID, done.Return.LedgerEntryID)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusConflict, api.do(http.MethodPost, "/api/returns/"+ret.ID+"/complete", apphttp.RoleAdmin, nil, &errResp))
	assert.Equal(t, "INVALID_TRANSITION", errResp.Code)

	var got dto.ItemResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/items/"+item.ID, apphttp.RoleConsulta, nil, &got))
	assert.Equal(t, int64(40), got.CurrentQuantity, "la devolución se acredita una sola vez")

	var list []dto.ReturnResponse
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/returns?status=completed", apphttp.RoleConsulta, nil, &list))
	assert.Len(t, list, 1)

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/api/returns?status=PERDIDA", apphttp.RoleConsulta, nil, nil))
}

func TestRouter_Reportes(t *testing.T) {
	api := newAPI(t)
	api.createItem("Sal", 2, 5)
	api.createItem("Azúcar", 20, 5)

	var low []dto.LowStockDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/reports/low-stock", apphttp.RoleConsulta, nil, &low))
	require.Len(t, low, 1)
	assert.Equal(t, "Sal", low[0].Name)
	assert.Equal(t, int64(3), low[0].Deficit)

	var dist []dto.DepartmentDistributionDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/reports/departments", apphttp.RoleConsulta, nil, &dist))
	require.Len(t, dist, 1)
	assert.Equal(t, "Cocina", dist[0].Name)
	assert.Equal(t, 2, dist[0].ItemCount)
	assert.Equal(t, int64(22), dist[0].TotalQuantity)

	var months []dto.MonthlyMovementDTO
	require.Equal(t, http.StatusOK, api.do(http.MethodGet, "/api/reports/monthly-movements", apphttp.RoleConsulta, nil, &months))
	require.Len(t, months, 1)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), months[0].Month)
	assert.Equal(t, int64(22), months[0].In)
}

func TestRouter_ErroresHTTP(t *testing.T) {
	api := newAPI(t)

	var errResp dto.ErrorResponse
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/items/no-existe", apphttp.RoleConsulta, nil, &errResp))
	assert.Equal(t, "NOT_FOUND", errResp.Code)

	api.createItem("Cucharas", 1, 0)
	status := api.do(http.MethodPost, "/api/items", apphttp.RoleBodeguero, dto.CreateItemRequest{Name: "CUCHARAS", DepartmentID: "d-cocina"}, &errResp)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", errResp.Code)

	status = api.do(http.MethodPost, "/api/items", apphttp.RoleBodeguero, dto.CreateItemRequest{Name: "  "}, &errResp)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "name", errResp.Field)

	// Corrección restringida a admin.
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodPost, "/api/ledger/entries/x/correction", apphttp.RoleBodeguero, dto.CorrectionRequest{Reason: "error"}, nil))
}
