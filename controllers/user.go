package controllers

import (
	"net/http"

	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// GetUser returns the public profile
func (h *Handler) GetUser(c *gin.Context) {
	profile, err := h.Users.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetAvatar points the avatar of the signed-in user to an image URL
func (h *Handler) SetAvatar(c *gin.Context) {
	var data models.AvatarRequest
	if !bind(c, &data) {
		return
	}

	profile, err := h.Users.SetAvatar(c.Request.Context(), credentials(c).UserID, &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ChangePassword sets a new password; tokens issued before are no longer accepted
func (h *Handler) ChangePassword(c *gin.Context) {
	var data models.PasswordRequest
	if !bind(c, &data) {
		return
	}

	if err := h.Users.ChangePassword(c.Request.Context(), credentials(c).UserID, &data); err != nil {
		respond(c, err)
		return
	}

	// the current pair is dead now, the client has to log in again
	h.Tokens.Logout(c, "")

	c.Status(http.StatusNoContent)
}

// GetStarred lists the articles starred by the signed-in user
func (h *Handler) GetStarred(c *gin.Context) {
	articles, err := h.Articles.Starred(c.Request.Context(), credentials(c).UserID)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, articles)
}
