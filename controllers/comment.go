package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// ListComments returns a page of top-level comments with their replies (limited depth)
func (h *Handler) ListComments(c *gin.Context) {
	page, err := h.Comments.List(c.Request.Context(), c.Param("id"), params(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// AddComment creates a top-level comment on the article
func (h *Handler) AddComment(c *gin.Context) {
	var data models.CommentRequest
	if !bind(c, &data) {
		return
	}

	comment, err := h.Comments.Add(c.Request.Context(), credentials(c), c.Param("id"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ReplyComment answers the comment :id
func (h *Handler) ReplyComment(c *gin.Context) {
	var data models.CommentRequest
	if !bind(c, &data) {
		return
	}

	comment, err := h.Comments.Reply(c.Request.Context(), credentials(c), c.Param("id"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// EditComment changes the text (author only)
func (h *Handler) EditComment(c *gin.Context) {
	var data models.CommentRequest
	if !bind(c, &data) {
		return
	}

	comment, err := h.Comments.Edit(c.Request.Context(), credentials(c), c.Param("id"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

// DeleteComment removes the comment and all its replies (author or admin)
func (h *Handler) DeleteComment(c *gin.Context) {
	deleted, err := h.Comments.Delete(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}

	res := struct {
		Deleted int64 `json:"deleted"`
	}{deleted}

	c.JSON(http.StatusOK, res)
}
