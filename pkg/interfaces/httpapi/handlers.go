package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vsinha/bomplan/pkg/application/services/orchestration"
	"github.com/vsinha/bomplan/pkg/domain/entities"
	"github.com/vsinha/bomplan/pkg/domain/repositories"
)

type handlers struct {
	planner    *orchestration.PlanningOrchestrator
	folders    repositories.FolderRepository
	components repositories.ComponentRepository
	boms       repositories.BOMRepository
}

// orderRequest accepts numbers or numeric strings
type orderRequest struct {
	Offset json.Number `json:"offset"`
	Demand json.Number `json:"demand"`
}

func parseOrders(orders []orderRequest) (entities.Schedule, error) {
	raw := make([]entities.RawOrder, len(orders))
	for i, o := range orders {
		raw[i] = entities.RawOrder{Offset: o.Offset.String(), Demand: o.Demand.String()}
	}
	return entities.ParseSchedule(raw)
}

type expandRequest struct {
	Tree     *entities.BOMNode `json:"tree"`
	Origin   entities.Position `json:"origin"`
	FolderID string            `json:"folder_id"`
}

type eoqRequest struct {
	Tree         *entities.BOMNode `json:"tree"`
	AnnualDemand int64             `json:"annual_demand"`
}

type mrpRequest struct {
	Tree   *entities.BOMNode `json:"tree"`
	Orders []orderRequest    `json:"orders"`
}

type folderRequest struct {
	Name string `json:"name" binding:"required"`
}

type componentRequest struct {
	Name       string              `json:"name" binding:"required"`
	Attributes entities.Attributes `json:"attributes"`
}

type saveBOMRequest struct {
	Name  string         `json:"name"`
	Graph entities.Graph `json:"graph"`
}

type originRequest struct {
	Origin entities.Position `json:"origin"`
}

func (h *handlers) validate(c *gin.Context) {
	var graph entities.Graph
	if err := c.ShouldBindJSON(&graph); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.planner.Validate(c.Request.Context(), "", graph); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true})
}

func (h *handlers) collapse(c *gin.Context) {
	var graph entities.Graph
	if err := c.ShouldBindJSON(&graph); err != nil {
		badRequest(c, err)
		return
	}
	tree, err := h.planner.Collapse(c.Request.Context(), "", graph)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

func (h *handlers) expand(c *gin.Context) {
	var req expandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := orchestration.ValidateTree(req.Tree); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.planner.ExpandTree(req.Tree, req.Origin, req.FolderID))
}

func (h *handlers) eoq(c *gin.Context) {
	var req eoqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.planner.EOQForTree(req.Tree, req.AnnualDemand)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) mrp(c *gin.Context) {
	var req mrpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	schedule, err := parseOrders(req.Orders)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.planner.MRPForTree(req.Tree, schedule)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) listFolders(c *gin.Context) {
	folders, err := h.folders.ListFolders(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, folders)
}

func (h *handlers) createFolder(c *gin.Context) {
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	folder, err := entities.NewFolder(uuid.NewString(), req.Name)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.folders.SaveFolder(c.Request.Context(), folder); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, folder)
}

func (h *handlers) getFolder(c *gin.Context) {
	folder, err := h.folders.GetFolder(c.Request.Context(), c.Param("folderID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, folder)
}

func (h *handlers) listComponents(c *gin.Context) {
	components, err := h.components.ListComponents(c.Request.Context(), c.Param("folderID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, components)
}

func (h *handlers) createComponent(c *gin.Context) {
	ctx := c.Request.Context()
	folderID := c.Param("folderID")
	if _, err := h.folders.GetFolder(ctx, folderID); err != nil {
		writeError(c, err)
		return
	}

	var req componentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a := req.Attributes
	attrs, err := entities.NewAttributes(a.UnitCost, a.OrderingCost, a.CarryingCost, a.NumberOnHand, a.LeadTime, a.LotSize)
	if err != nil {
		badRequest(c, err)
		return
	}
	component, err := entities.NewComponent(uuid.NewString(), folderID, req.Name, attrs)
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := h.components.SaveComponent(ctx, component); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, component)
}

func (h *handlers) getComponent(c *gin.Context) {
	component, err := h.components.GetComponent(c.Request.Context(), c.Param("folderID"), c.Param("componentID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, component)
}

func (h *handlers) deleteComponent(c *gin.Context) {
	if err := h.components.DeleteComponent(c.Request.Context(), c.Param("folderID"), c.Param("componentID")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) listBOMs(c *gin.Context) {
	boms, err := h.boms.ListBOMs(c.Request.Context(), c.Param("folderID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, boms)
}

func (h *handlers) saveBOM(c *gin.Context) {
	var req saveBOMRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	bom, err := h.planner.SaveBOM(c.Request.Context(), c.Param("folderID"), req.Name, req.Graph)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bom)
}

func (h *handlers) getBOM(c *gin.Context) {
	bom, err := h.boms.GetBOM(c.Request.Context(), c.Param("folderID"), c.Param("bomID"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bom)
}

func (h *handlers) deleteBOM(c *gin.Context) {
	if err := h.boms.DeleteBOM(c.Request.Context(), c.Param("folderID"), c.Param("bomID")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) expandBOM(c *gin.Context) {
	var req originRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	graph, err := h.planner.Expand(c.Request.Context(), c.Param("folderID"), c.Param("bomID"), req.Origin)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

func (h *handlers) eoqBOM(c *gin.Context) {
	var req eoqRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	result, err := h.planner.RunEOQ(c.Request.Context(), c.Param("folderID"), c.Param("bomID"), req.AnnualDemand)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handlers) mrpBOM(c *gin.Context) {
	var req mrpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	schedule, err := parseOrders(req.Orders)
	if err != nil {
		writeError(c, err)
		return
	}
	result, err := h.planner.RunMRP(c.Request.Context(), c.Param("folderID"), c.Param("bomID"), schedule)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
