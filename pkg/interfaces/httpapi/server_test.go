package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/bomplan/pkg/application/dto"
	"github.com/vsinha/bomplan/pkg/application/services/eoq"
	"github.com/vsinha/bomplan/pkg/application/services/mrp"
	"github.com/vsinha/bomplan/pkg/application/services/orchestration"
	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/services/bomgraph"
	"github.com/vsinha/bomplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/bomplan/pkg/infrastructure/samples"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	folders := memory.NewFolderRepository()
	components := memory.NewComponentRepository()
	boms := memory.NewBOMRepository(4)
	_, err := samples.Seed(context.Background(), folders, components, boms)
	require.NoError(t, err)

	planner := orchestration.NewPlanningOrchestrator(
		eoq.NewEOQService(), mrp.NewMRPService(), folders, boms, nil,
	)
	return NewRouter(StartOpts{Planner: planner, Folders: folders, Components: components, BOMs: boms})
}

func do(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func alphaGraph() entities.Graph {
	return bomgraph.NewExpander(nil, bomgraph.DefaultLayout).Expand(samples.AlphaBOM(), entities.Position{}, samples.FolderID)
}

func TestStart_RequiresPlanner(t *testing.T) {
	err := Start(context.Background(), StartOpts{})
	assert.ErrorContains(t, err, "planner is required")
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestValidateEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/bom/validate", alphaGraph())
	assert.Equal(t, http.StatusOK, w.Code)

	loop := entities.Graph{
		Nodes: []entities.GraphNode{{ID: "a"}},
		Edges: []entities.GraphEdge{{ID: "a->a", Source: "a", Target: "a"}},
	}
	w = do(t, router, http.MethodPost, "/api/bom/validate", loop)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode[errorResponse](t, w)
	assert.Equal(t, "self_loop", body.Kind)

	w = do(t, router, http.MethodPost, "/api/bom/validate", "{not json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCollapseAndExpandEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/bom/collapse", alphaGraph())
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tree := decode[entities.BOMNode](t, w)
	assert.Equal(t, samples.AlphaBOM().Signature(), tree.Signature())

	w = do(t, router, http.MethodPost, "/api/bom/expand", expandRequest{Tree: &tree, Origin: entities.Position{X: 5}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	graph := decode[entities.Graph](t, w)
	assert.Len(t, graph.Nodes, tree.Count())
	assert.Equal(t, 5.0, graph.Nodes[0].Position.X)

	w = do(t, router, http.MethodPost, "/api/bom/expand", expandRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEOQEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/eoq", eoqRequest{Tree: samples.SkateBOM(), AnnualDemand: 1000})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[dto.EOQResult](t, w)
	require.Len(t, result.Rows, 7)
	assert.Equal(t, "Skate", result.Rows[0].Component)
}

func TestMRPEndpoint(t *testing.T) {
	router := newTestRouter(t)

	body := `{"tree": ` + mustJSON(t, samples.AlphaBOM()) + `, "orders": [{"demand": 100}, {"offset": "2", "demand": 50}, {"offset": 3, "demand": "50"}]}`
	w := do(t, router, http.MethodPost, "/api/mrp", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	result := decode[dto.MRPResult](t, w)
	assert.Equal(t, -12, result.Periods[0])
	assert.Equal(t, []string{"Alpha", "B", "C", "D", "E", "F"}, result.Order)

	bad := `{"tree": ` + mustJSON(t, samples.AlphaBOM()) + `, "orders": [{"demand": "1.5"}]}`
	w = do(t, router, http.MethodPost, "/api/mrp", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "offsets and demands must be integers")

	huge := `{"tree": ` + mustJSON(t, samples.AlphaBOM()) + `, "orders": [{"demand": 10}, {"offset": "9223372036854775807", "demand": 5}]}`
	w = do(t, router, http.MethodPost, "/api/mrp", huge)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "orders span more than")
}

func TestFolderAndComponentCRUD(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, http.MethodPost, "/api/folders", folderRequest{Name: "Bikes"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	folder := decode[entities.Folder](t, w)

	w = do(t, router, http.MethodGet, "/api/folders", nil)
	folders := decode[[]entities.Folder](t, w)
	assert.Len(t, folders, 2)

	w = do(t, router, http.MethodPost, "/api/folders", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/folders/"+folder.ID+"/components",
		`{"name": "Wheel", "attributes": {"unit_cost": "12.5", "lead_time": 2, "lot_size": 4}}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	component := decode[entities.Component](t, w)
	assert.Equal(t, "12.5", component.Attributes.UnitCost.String())

	w = do(t, router, http.MethodPost, "/api/folders/"+folder.ID+"/components",
		`{"name": "Broken", "attributes": {"number_on_hand": -1}}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/folders/nowhere/components", `{"name": "Wheel"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	path := "/api/folders/" + folder.ID + "/components/" + component.ID
	assert.Equal(t, http.StatusOK, do(t, router, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, path, nil).Code)
}

func TestStoredBOMLifecycle(t *testing.T) {
	router := newTestRouter(t)
	base := "/api/folders/" + samples.FolderID + "/boms"

	w := do(t, router, http.MethodPost, base, saveBOMRequest{Name: "Alpha copy", Graph: alphaGraph()})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	saved := decode[entities.SavedBOM](t, w)
	assert.Equal(t, "Alpha copy", saved.Name)

	w = do(t, router, http.MethodGet, base, nil)
	assert.Len(t, decode[[]entities.SavedBOM](t, w), 3)

	w = do(t, router, http.MethodPost, base+"/"+saved.ID+"/expand", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[entities.Graph](t, w).Nodes, saved.Tree.Count())

	w = do(t, router, http.MethodPost, base+"/bom-skate/eoq", `{"annual_demand": 500}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, int64(500), decode[dto.EOQResult](t, w).AnnualDemand)

	w = do(t, router, http.MethodPost, base+"/bom-skate/mrp", `{"orders": [{"demand": 900}, {"offset": 3, "demand": 800}]}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Len(t, decode[dto.MRPResult](t, w).Entries, 7)

	w = do(t, router, http.MethodPost, base+"/bom-missing/mrp", `{"orders": [{"demand": 1}]}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	cyclic := `{"graph": {"nodes": [{"id": "a"}, {"id": "b"}], "edges": [{"id": "1", "source": "a", "target": "b"}, {"id": "2", "source": "b", "target": "a"}]}}`
	w = do(t, router, http.MethodPost, base, cyclic)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "cycle", decode[errorResponse](t, w).Kind)

	assert.Equal(t, http.StatusNoContent, do(t, router, http.MethodDelete, base+"/"+saved.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, router, http.MethodGet, base+"/"+saved.ID, nil).Code)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}
