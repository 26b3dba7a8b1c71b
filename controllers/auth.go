package controllers

import (
	"net/http"

	"bloggy-api/authentication"
	"bloggy-api/models"

	"github.com/gin-gonic/gin"
)

// Session is returned by register, login and refresh
type Session struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func session(user interface{}, td *authentication.TokenDetails) Session {
	return Session{User: user, AccessToken: td.AccessToken, RefreshToken: td.RefreshToken}
}

// Register a new User
func (h *Handler) Register(c *gin.Context) {
	var data models.RegisterRequest
	if !bind(c, &data) {
		return
	}

	// this also validates the user name, pwd etc.
	user, err := h.Auth.Register(c.Request.Context(), &data)
	if err != nil {
		respond(c, err)
		return
	}

	// create, register & save pair of AT/RT
	td, err := h.Tokens.CreateTokens(c, user.ID.Hex(), user.Role)
	if err != nil {
		respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, session(user, td))
}

// Login a user
func (h *Handler) Login(c *gin.Context) {
	var data models.LoginRequest
	if !bind(c, &data) {
		return
	}

	user, err := h.Auth.Login(c.Request.Context(), &data)
	if err != nil {
		respond(c, err)
		return
	}

	td, err := h.Tokens.CreateTokens(c, user.ID.Hex(), user.Role)
	if err != nil {
		respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session(user, td))
}

// the refresh token is sent in the body or read from the cookie
type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh issues a new pair as long as the refresh token is valid; the old one is revoked
func (h *Handler) Refresh(c *gin.Context) {
	var data refreshRequest
	if c.Request.ContentLength > 0 && !bind(c, &data) {
		return
	}

	td, cred, err := h.Tokens.Refresh(c, data.RefreshToken)
	if err != nil {
		respond(c, err)
		return
	}

	profile, err := h.Users.Profile(c.Request.Context(), cred.UserID.Hex())
	if err != nil {
		respond(c, err)
		return
	}

	c.JSON(http.StatusOK, session(profile, td))
}

// Logout revokes the tokens; the client shall always be able to clear its
// session, so there is no error
func (h *Handler) Logout(c *gin.Context) {
	var data refreshRequest
	if c.Request.ContentLength > 0 {
		_ = c.ShouldBindJSON(&data)
	}

	h.Tokens.Logout(c, data.RefreshToken)

	c.Status(http.StatusNoContent)
}
