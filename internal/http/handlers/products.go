package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/techsrow/locationhubapi/internal/services"
	"github.com/techsrow/locationhubapi/internal/validation"
)

// ProductHandler serves the bookable catalog.
type ProductHandler struct {
	Catalog  services.CatalogService
	Validate *validation.Validator
}

type createProductRequest struct {
	Name  string               `json:"name" validate:"required"`
	Price float64              `json:"price" validate:"required,gt=0"`
	Slots []services.SlotInput `json:"slots"`
}

// GET /api/products
func (h ProductHandler) List(c *gin.Context) {
	products, err := h.Catalog.ListProducts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// GET /api/products/:id
func (h ProductHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid product id", err)
		return
	}
	product, err := h.Catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// POST /api/products
func (h ProductHandler) Create(c *gin.Context) {
	var req createProductRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		RespondDomainError(c, err)
		return
	}
	product, err := h.Catalog.CreateProduct(c.Request.Context(), req.Name, req.Price, req.Slots)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// POST /api/products/:id/slots
func (h ProductHandler) CreateSlot(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid product id", err)
		return
	}
	var req services.SlotInput
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := h.Validate.Struct(req); err != nil {
		RespondDomainError(c, err)
		return
	}
	slot, err := h.Catalog.CreateSlot(c.Request.Context(), id, req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, slot)
}
