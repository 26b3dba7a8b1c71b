package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// ListLookups returns a handler listing one taxonomy kind (tags, categories, brands)
func (h *Handler) ListLookups(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		lookups, err := h.Taxonomy.List(c.Request.Context(), kind)
		if err != nil {
			respond(c, err)
			return
		}
		c.JSON(http.StatusOK, lookups)
	}
}

// AddLookup returns a handler creating an entry of one taxonomy kind
func (h *Handler) AddLookup(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var data models.LookupRequest
		if !bind(c, &data) {
			return
		}

		lookup, err := h.Taxonomy.Create(c.Request.Context(), credentials(c), kind, &data)
		if err != nil {
			respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, lookup)
	}
}

// ListDeliveryMethods offered when ordering
func (h *Handler) ListDeliveryMethods(c *gin.Context) {
	methods, err := h.Taxonomy.DeliveryMethods(c.Request.Context())
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, methods)
}

func (h *Handler) ListCommercials(c *gin.Context) {
	commercials, err := h.Taxonomy.Commercials(c.Request.Context())
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, commercials)
}
