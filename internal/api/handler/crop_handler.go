package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/cropdeal/marketplace-backend/internal/api/middleware"
	"github.com/cropdeal/marketplace-backend/internal/core/ports"
)

// CropHandler exposes crop listing management for the farmer service.
// Mutating routes are mounted behind RequireAuthority(ROLE_FARMER); the
// farmer's profile id is resolved from the request identity.
type CropHandler struct {
	cropService ports.CropService
	farmers     ports.FarmerProfileRepository
}

func NewCropHandler(cropService ports.CropService, farmers ports.FarmerProfileRepository) *CropHandler {
	return &CropHandler{cropService: cropService, farmers: farmers}
}

type cropRequest struct {
	Name        string  `json:"cropName" validate:"required"`
	Type        string  `json:"cropType" validate:"required,oneof=vegetable fruit"`
	Quantity    int     `json:"cropQty" validate:"required,gt=0"`
	Price       float64 `json:"cropPrice" validate:"required,gt=0"`
	Description string  `json:"cropDescription,omitempty"`
	ImageURL    string  `json:"imageUrl,omitempty"`
	Location    string  `json:"location,omitempty"`
}

func (r *cropRequest) toInput() ports.CropInput {
	return ports.CropInput{
		Name:        r.Name,
		Type:        r.Type,
		Quantity:    r.Quantity,
		Price:       r.Price,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Location:    r.Location,
	}
}

// farmerID resolves the authenticated caller's farmer profile id.
func (h *CropHandler) farmerID(c echo.Context) (int64, error) {
	id, ok := middleware.Identity(c)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	profile, err := h.farmers.FindByUsername(c.Request().Context(), id.Username)
	if err != nil {
		return 0, err
	}
	return profile.ID, nil
}

// Publish creates a new crop listing for the authenticated farmer.
func (h *CropHandler) Publish(c echo.Context) error {
	farmerID, err := h.farmerID(c)
	if err != nil {
		return err
	}

	var req cropRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	crop, err := h.cropService.Publish(c.Request().Context(), farmerID, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, crop)
}

// ListMine returns the authenticated farmer's own listings.
func (h *CropHandler) ListMine(c echo.Context) error {
	farmerID, err := h.farmerID(c)
	if err != nil {
		return err
	}

	crops, err := h.cropService.ListMine(c.Request().Context(), farmerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crops)
}

// ListAll returns every published crop. Open to any authenticated caller.
func (h *CropHandler) ListAll(c echo.Context) error {
	crops, err := h.cropService.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crops)
}

// Get returns one crop by id.
func (h *CropHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	crop, err := h.cropService.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crop)
}

// Update rewrites one of the authenticated farmer's listings.
func (h *CropHandler) Update(c echo.Context) error {
	farmerID, err := h.farmerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var req cropRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	crop, err := h.cropService.Update(c.Request().Context(), farmerID, id, req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, crop)
}

// Delete removes one of the authenticated farmer's listings.
func (h *CropHandler) Delete(c echo.Context) error {
	farmerID, err := h.farmerID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.cropService.Remove(c.Request().Context(), farmerID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
