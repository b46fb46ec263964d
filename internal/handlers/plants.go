package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"plant_monitor/internal/service"
)

const (
	errListPlants  = "failed to load plants"
	errGetPlant    = "failed to load plant"
	errAddPlant    = "failed to add plant"
	errUpdateState = "failed to update plant status"
	errNoPlant     = "plant not found"
)

// AddPlantRequest is the payload of POST /api/v1/plants.
type AddPlantRequest struct {
	Name       string `json:"name" example:"Basil"`
	Species    string `json:"species,omitempty" example:"Ocimum basilicum"`
	SensorNode string `json:"sensorNode" example:"JSON"`
}

// PlantStatusRequest carries a worker verdict.
type PlantStatusRequest struct {
	Status string `json:"status" example:"healthy"`
}

// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, plants"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/plants [get]
// @Security     BearerAuth
func (h *Handler) listPlants(c *gin.Context) {
	plants, err := h.services.Plants.ListPlants(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListPlants, "plants_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":  len(plants),
		"plants": plants,
	})
}

// @Summary      Add plant
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        body  body      AddPlantRequest  true  "Plant"
// @Success      201   {object}  models.Plant
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  map[string]string
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/plants [post]
// @Security     BearerAuth
func (h *Handler) addPlant(c *gin.Context) {
	var req AddPlantRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	p, err := h.services.Plants.AddPlant(c.Request.Context(), service.NewPlant{
		Name:       req.Name,
		Species:    req.Species,
		SensorNode: req.SensorNode,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errAddPlant, "plant_add_failed", err, "name", req.Name)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// @Summary      Get plant
// @Tags         plants
// @Produce      json
// @Param        id   path      string  true  "Plant ID"
// @Success      200  {object}  models.Plant
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/v1/plants/{id} [get]
// @Security     BearerAuth
func (h *Handler) getPlant(c *gin.Context) {
	id := c.Param("id")
	p, err := h.services.Plants.GetPlant(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrPlantNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: errNoPlant})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetPlant, "plant_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary      Update plant status
// @Description  Used by the analysis worker to store its verdict (healthy, a disease label or Unknown).
// @Tags         plants
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Plant ID"
// @Param        body  body      PlantStatusRequest  true  "Verdict"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/v1/plants/{id}/status [put]
// @Security     BearerAuth
func (h *Handler) updatePlantStatus(c *gin.Context) {
	id := c.Param("id")
	var req PlantStatusRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	err := h.services.Plants.UpdatePlantStatus(c.Request.Context(), id, req.Status)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": statusUpdated, "id": id, "plantStatus": req.Status})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrPlantNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: errNoPlant})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errUpdateState, "plant_status_update_failed", err, "id", id)
	}
}
