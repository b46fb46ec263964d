package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plant_monitor/internal/models"
	"plant_monitor/internal/service"
)

// RunAnalysisRequest is the payload of POST /api/v1/analysis/run.
type RunAnalysisRequest struct {
	PlantID    string `json:"plantId" example:"c0a8e4f2-6d1b-4c3e-9a57-1f2b3c4d5e6f"`
	SensorNode string `json:"sensorNode" example:"JSON"`
}

// @Summary      Run plant analysis
// @Description  Writes the trigger record, runs the analysis worker and waits until the worker clears the record. Blocks for up to poll_interval x max_attempts.
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        body  body      RunAnalysisRequest  true  "Plant and sensor node"
// @Success      200   {object}  models.AnalysisResult
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  errorResponse  "error=internal, message names the failing phase"
// @Router       /api/v1/analysis/run [post]
// @Security     BearerAuth
func (h *Handler) runAnalysis(c *gin.Context) {
	var req RunAnalysisRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	res, err := h.services.Analysis.Run(c.Request.Context(), models.AnalysisRequest{
		PlantID:     req.PlantID,
		SensorNode:  req.SensorNode,
		RequestedBy: currentUserID(c),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.internalError(c, "analysis_run_failed", err, "plant_id", req.PlantID, "sensor_node", req.SensorNode)
		return
	}
	c.JSON(http.StatusOK, res)
}

// @Summary      Get pending trigger
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "trigger (null when none is pending)"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/monitoring/trigger [get]
// @Security     BearerAuth
func (h *Handler) getTrigger(c *gin.Context) {
	rec, err := h.services.Monitoring.GetTrigger(c.Request.Context())
	if err != nil {
		h.internalError(c, "trigger_get_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trigger": rec})
}

// @Summary      Clear trigger
// @Description  Removes the trigger record. Workers call this when their analysis is done.
// @Tags         monitoring
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status, trigger (the cleared record)"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/monitoring/trigger [delete]
// @Security     BearerAuth
func (h *Handler) clearTrigger(c *gin.Context) {
	prev, err := h.services.Monitoring.ClearTrigger(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.internalError(c, "trigger_clear_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": statusCleared, "trigger": prev})
}
