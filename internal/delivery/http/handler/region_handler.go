package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/cosmogony-cities/internal/domain"
	"github.com/cosmogony-cities/internal/pkg/errors"
	"github.com/cosmogony-cities/internal/pkg/utils"
	"github.com/cosmogony-cities/internal/pkg/validator"
)

// RegionService - операции чтения городов, которые нужны handler
type RegionService interface {
	GetByID(ctx context.Context, id int64) (*domain.RegionSummary, error)
	GetByURI(ctx context.Context, uri string) (*domain.RegionSummary, error)
	Lookup(ctx context.Context, lat, lon float64) (*domain.RegionSummary, error)
}

// LookupRequest - параметры /regions/lookup
type LookupRequest struct {
	Lat *float64 `validate:"required,min=-90,max=90"`
	Lon *float64 `validate:"required,min=-180,max=180"`
}

// RegionHandler обрабатывает запросы к загруженным городам
type RegionHandler struct {
	regionUC RegionService
	logger   *zap.Logger
}

// NewRegionHandler создает новый RegionHandler
func NewRegionHandler(regionUC RegionService, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{
		regionUC: regionUC,
		logger:   logger,
	}
}

// GetByID godoc
// @Summary Получение города по ID
// @Description Возвращает город из administrative_regions по его идентификатору (id зоны cosmogony)
// @Tags Regions
// @Produce json
// @Param id path int true "ID города"
// @Success 200 {object} utils.SuccessResponse{data=domain.RegionSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/regions/{id} [get]
func (h *RegionHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, errors.ErrInvalidRegionID)
	}

	region, err := h.regionUC.GetByID(c.UserContext(), id)
	if err != nil {
		h.logger.Debug("Failed to get region", zap.Int64("id", id), zap.Error(err))
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, region, nil)
}

// GetByURI godoc
// @Summary Получение города по URI
// @Description Возвращает город по uri вида admin:fr:<insee> или admin:osm:<osm_id>
// @Tags Regions
// @Produce json
// @Param uri query string true "URI города"
// @Success 200 {object} utils.SuccessResponse{data=domain.RegionSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/regions/by-uri [get]
func (h *RegionHandler) GetByURI(c *fiber.Ctx) error {
	uri := c.Query("uri")
	if err := validator.Var(uri, "required"); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest.WithDetails(map[string]interface{}{
			"uri": "required",
		}))
	}

	region, err := h.regionUC.GetByURI(c.UserContext(), uri)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, region, nil)
}

// Lookup godoc
// @Summary Город по координатам
// @Description Возвращает самый маленький город, граница которого содержит точку
// @Tags Regions
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Success 200 {object} utils.SuccessResponse{data=domain.RegionSummary}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/regions/lookup [get]
func (h *RegionHandler) Lookup(c *fiber.Ctx) error {
	var req LookupRequest
	var parseErr error
	req.Lat, parseErr = queryFloat(c, "lat")
	if parseErr == nil {
		req.Lon, parseErr = queryFloat(c, "lon")
	}
	if parseErr != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates)
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidCoordinates.WithDetails(map[string]interface{}{
			"reason": err.Error(),
		}))
	}

	region, err := h.regionUC.Lookup(c.UserContext(), *req.Lat, *req.Lon)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, region, nil)
}

// queryFloat returns nil for a missing parameter
func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
