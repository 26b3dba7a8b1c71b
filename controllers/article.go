package controllers

import (
	"net/http"
	"strconv"
	"time"

	"bloggy-api/authorization"
	"bloggy-api/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// default window of the visit statistics
const visitDays = 7

// ListArticles supports filter, search, sort, fields and pagination (query string)
func (h *Handler) ListArticles(c *gin.Context) {
	page, err := h.Articles.List(c.Request.Context(), params(c))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetArticle returns the article with its references populated and counts the visit
func (h *Handler) GetArticle(c *gin.Context) {
	article, err := h.Articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}

	// anonymous visits are counted too
	userID := ""
	if cred, ok := authorization.GetCredentials(c); ok {
		userID = cred.UserID.Hex()
	}
	if err = h.Tracker.SaveVisit(c.Request.Context(), c.ClientIP(), article.ID.Hex(), userID); err != nil {
		// statistics must not break the page
		log.Warn().Err(err).Str("article", article.ID.Hex()).Msg("visit not saved")
	}

	c.JSON(http.StatusOK, article)
}

// AddArticle creates a new article of the signed-in user
func (h *Handler) AddArticle(c *gin.Context) {
	var data models.ArticleRequest
	if !bind(c, &data) {
		return
	}

	article, err := h.Articles.Create(c.Request.Context(), credentials(c), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, article)
}

// UpdateArticle changes the editable fields (author or admin)
func (h *Handler) UpdateArticle(c *gin.Context) {
	var data models.ArticleRequest
	if !bind(c, &data) {
		return
	}

	article, err := h.Articles.Update(c.Request.Context(), credentials(c), c.Param("id"), &data)
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, article)
}

// DeleteArticle removes the article with all its comments (admin)
func (h *Handler) DeleteArticle(c *gin.Context) {
	if err := h.Articles.Delete(c.Request.Context(), credentials(c), c.Param("id")); err != nil {
		respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetArticleVisits counts the visits of the last days (?days=7)
func (h *Handler) GetArticleVisits(c *gin.Context) {
	days := visitDays
	if s := c.Query("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 365 {
			respond(c, ErrInvalidRequest)
			return
		}
		days = n
	}

	article, err := h.Articles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}

	// starting at 00:00:00 UTC
	startDT := time.Now().UTC().AddDate(0, 0, -days)
	startDT = time.Date(startDT.Year(), startDT.Month(), startDT.Day(), 0, 0, 0, 0, time.UTC)

	visits, err := h.Tracker.CountVisits(c.Request.Context(), article.ID.Hex(), startDT)
	if err != nil {
		respond(c, err)
		return
	}

	// wrap response into an object
	res := struct {
		Visits int64 `json:"visits"`
		Days   int   `json:"days"`
	}{visits, days}

	c.JSON(http.StatusOK, res)
}

// StarArticle toggles the star of the signed-in user
func (h *Handler) StarArticle(c *gin.Context) {
	res, err := h.Stars.Toggle(c.Request.Context(), credentials(c), c.Param("id"))
	if err != nil {
		respond(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
