package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is used by the load balancer
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CountRequests of the visit registry (admin)
func (h *Handler) CountRequests(c *gin.Context) {
	c.JSON(http.StatusOK, h.Requests.Count())
}

// DumpRequests shows the latest entries of the visit registry (admin)
func (h *Handler) DumpRequests(c *gin.Context) {
	c.JSON(http.StatusOK, h.Requests.Dump(50))
}

// FlushRequests drops expired entries of the visit registry (admin)
func (h *Handler) FlushRequests(c *gin.Context) {
	res := struct {
		Flushed int `json:"flushed"`
	}{h.Requests.Flush()}

	c.JSON(http.StatusOK, res)
}
