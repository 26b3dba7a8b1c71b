package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// GetWishlist of the signed-in user
func (h *Handler) GetWishlist(c *gin.Context) {
	products, err := h.Shop.Wishlist(c.Request.Context(), credentials(c).UserID)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// ToggleWishlist adds or removes the product
func (h *Handler) ToggleWishlist(c *gin.Context) {
	res, err := h.Shop.ToggleWishlist(c.Request.Context(), credentials(c).UserID, c.Param("productId"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetCart returns the expanded cart
func (h *Handler) GetCart(c *gin.Context) {
	cart, err := h.Shop.Cart(c.Request.Context(), credentials(c).UserID)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// AddToCart merges the quantity into an existing line
func (h *Handler) AddToCart(c *gin.Context) {
	var data models.CartItemRequest
	if !bind(c, &data) {
		return
	}

	cart, err := h.Shop.AddToCart(c.Request.Context(), credentials(c).UserID, &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// SetCartQuantity sets the quantity of a line (0 removes it)
func (h *Handler) SetCartQuantity(c *gin.Context) {
	var data models.QuantityRequest
	if !bind(c, &data) {
		return
	}

	cart, err := h.Shop.SetQuantity(c.Request.Context(), credentials(c).UserID, c.Param("productId"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// RemoveFromCart drops a line
func (h *Handler) RemoveFromCart(c *gin.Context) {
	cart, err := h.Shop.RemoveFromCart(c.Request.Context(), credentials(c).UserID, c.Param("productId"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

// ClearCart empties the cart
func (h *Handler) ClearCart(c *gin.Context) {
	if err := h.Shop.ClearCart(c.Request.Context(), credentials(c).UserID); err != nil {
		respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
