package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/farmgate/livestock-market/internal/core/domain"
	"github.com/farmgate/livestock-market/internal/core/ports"
)

// AnimalHandler handles HTTP requests for livestock listings.
type AnimalHandler struct {
	service ports.AnimalService
}

func NewAnimalHandler(service ports.AnimalService) *AnimalHandler {
	return &AnimalHandler{service: service}
}

// Create handles POST /v1/animals — farmers list an animal for sale.
//
// @Summary      Create a livestock listing
// @Tags         animals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAnimalRequest  true  "Listing details"
// @Success      201   {object}  animalResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/animals [post]
func (h *AnimalHandler) Create(c echo.Context) error {
	var req createAnimalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	userID, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	animal, err := h.service.CreateAnimal(c.Request().Context(), toCreateAnimalInput(req, userID))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAnimalResponse(animal))
}

// Get handles GET /v1/animals/:id.
//
// @Summary      Get a listing by id
// @Tags         animals
// @Produce      json
// @Param        id   path      string  true  "Animal id"
// @Success      200  {object}  animalResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/animals/{id} [get]
func (h *AnimalHandler) Get(c echo.Context) error {
	id, err := animalID(c)
	if err != nil {
		return err
	}

	animal, err := h.service.GetAnimal(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAnimalResponse(animal))
}

// List handles GET /v1/animals — the marketplace browse endpoint.
//
// @Summary      Browse listings
// @Tags         animals
// @Produce      json
// @Param        species  query     string  false  "Filter by species"
// @Param        status   query     string  false  "Filter by status (default available)"
// @Param        page     query     int     false  "Page number (1-based)"
// @Param        limit    query     int     false  "Page size (max 100)"
// @Success      200      {object}  listAnimalsResponse
// @Failure      400      {object}  errorResponse
// @Router       /v1/animals [get]
func (h *AnimalHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListAnimals(c.Request().Context(), ports.ListAnimalsInput{
		Species: c.QueryParam("species"),
		Status:  c.QueryParam("status"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toListAnimalsResponse(result))
}

// UpdateStatus handles PATCH /v1/animals/:id/status.
//
// @Summary      Update listing status
// @Tags         animals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                     true  "Animal id"
// @Param        body  body      updateAnimalStatusRequest  true  "New status"
// @Success      200   {object}  animalResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/animals/{id}/status [patch]
func (h *AnimalHandler) UpdateStatus(c echo.Context) error {
	var req updateAnimalStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id, err := animalID(c)
	if err != nil {
		return err
	}

	userID, role, err := ctxClaims(c)
	if err != nil {
		return err
	}

	animal, err := h.service.UpdateStatus(c.Request().Context(), ports.UpdateAnimalStatusInput{
		AnimalID: id,
		Status:   req.Status,
		UserID:   userID,
		Role:     role,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAnimalResponse(animal))
}

// animalID extracts and validates the :id path parameter. A value that is
// not a UUID cannot match any row, so it is reported as not found rather
// than bubbling up as a store coercion error.
func animalID(c echo.Context) (string, error) {
	id := c.Param("id")
	if err := uuid.Validate(id); err != nil {
		return "", domain.ErrAnimalNotFound
	}
	return id, nil
}
