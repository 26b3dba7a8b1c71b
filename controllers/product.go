package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// ListProducts returns a page of products plus the price range of the filter
func (h *Handler) ListProducts(c *gin.Context) {
	page, err := h.Products.List(c.Request.Context(), params(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetProduct by slug (:key), reviews included
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.Products.GetBySlug(c.Request.Context(), c.Param("key"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// AddProduct (admin)
func (h *Handler) AddProduct(c *gin.Context) {
	var data models.ProductRequest
	if !bind(c, &data) {
		return
	}

	product, err := h.Products.Create(c.Request.Context(), credentials(c), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// UpdateProduct (creator or admin)
func (h *Handler) UpdateProduct(c *gin.Context) {
	var data models.ProductRequest
	if !bind(c, &data) {
		return
	}

	product, err := h.Products.Update(c.Request.Context(), credentials(c), c.Param("key"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DeleteProduct (creator or admin)
func (h *Handler) DeleteProduct(c *gin.Context) {
	if err := h.Products.Delete(c.Request.Context(), credentials(c), c.Param("key")); err != nil {
		respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReviewProduct adds the review of the signed-in user (one per product)
func (h *Handler) ReviewProduct(c *gin.Context) {
	var data models.ReviewRequest
	if !bind(c, &data) {
		return
	}

	product, err := h.Products.Review(c.Request.Context(), credentials(c), c.Param("key"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}
