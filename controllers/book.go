package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// ListBooks; users only see their own books
func (h *Handler) ListBooks(c *gin.Context) {
	page, err := h.Books.List(c.Request.Context(), credentials(c), params(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) GetBook(c *gin.Context) {
	book, err := h.Books.Get(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) AddBook(c *gin.Context) {
	var data models.BookRequest
	if !bind(c, &data) {
		return
	}

	book, err := h.Books.Create(c.Request.Context(), credentials(c), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c *gin.Context) {
	var data models.BookRequest
	if !bind(c, &data) {
		return
	}

	book, err := h.Books.Update(c.Request.Context(), credentials(c), c.Param("id"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, book)
}

// DeleteBook (admin)
func (h *Handler) DeleteBook(c *gin.Context) {
	if err := h.Books.Delete(c.Request.Context(), credentials(c), c.Param("id")); err != nil {
		respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
