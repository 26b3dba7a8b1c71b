package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// AddOrder places the order; stock is taken and the cart cleared
func (h *Handler) AddOrder(c *gin.Context) {
	var data models.OrderRequest
	if !bind(c, &data) {
		return
	}

	order, err := h.Orders.Create(c.Request.Context(), credentials(c), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// ListMyOrders newest first
func (h *Handler) ListMyOrders(c *gin.Context) {
	orders, err := h.Orders.Mine(c.Request.Context(), credentials(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrder (owner or admin)
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.Orders.Get(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PayOrder marks the order as paid
func (h *Handler) PayOrder(c *gin.Context) {
	order, err := h.Orders.Pay(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeliverOrder marks a paid order as delivered (admin)
func (h *Handler) DeliverOrder(c *gin.Context) {
	order, err := h.Orders.Deliver(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
