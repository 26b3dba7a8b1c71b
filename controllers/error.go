package controllers

import (
	"errors"
	"net/http"

	"bloggy-api/apperror"
	"bloggy-api/helpers"
	"bloggy-api/models"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// generic custom error types
var (
	ErrInvalidRequest = apperror.Validation("invalid json")
)

// ErrorResponse is the standardized error structure which may be returned by any API
type ErrorResponse struct {
	Code    int32  `json:"code"`
	Message string `json:"msg"`
}

// Application Error Codes (API Errors)
const (
	// client/api
	InvalidJSON int32 = (10000 + iota)
	InvalidRequest
	InvalidLogin
	// generic
	NotFound
	ActionDenied
	Conflict
	Unauthorized
	// user
	EMailAddressTaken
	InvalidPassword
	// blog
	SelfStar
	// shop
	OutOfStock
	ReviewExists
	SystemError = 99999
)

// codes of well-known errors; the message is the one of the error
var knownErrors = []struct {
	err  error
	code int32
}{
	{models.ErrEMailAddressTaken, EMailAddressTaken},
	{models.ErrInvalidLogin, InvalidLogin},
	{models.ErrInvalidPassword, InvalidPassword},
	{models.ErrSelfStar, SelfStar},
	{models.ErrOutOfStock, OutOfStock},
	{models.ErrReviewExists, ReviewExists},
	{ErrInvalidRequest, InvalidJSON},
}

// HandleError maps an error to the http status and the std ErrorResponse
func HandleError(err error) (httpStatus int, apiError ErrorResponse) {
	if err == nil {
		return 0, apiError
	}

	for _, k := range knownErrors {
		if errors.Is(err, k.err) {
			return status(apperror.KindOf(k.err)), ErrorResponse{Code: k.code, Message: message(err)}
		}
	}

	apiError.Message = message(err)
	switch kind := apperror.KindOf(err); kind {
	case apperror.ErrNotFound:
		apiError.Code = NotFound
	case apperror.ErrForbidden:
		apiError.Code = ActionDenied
	case apperror.ErrValidation:
		apiError.Code = InvalidRequest
	case apperror.ErrConflict, apperror.ErrRecordChanged:
		apiError.Code = Conflict
	case apperror.ErrUnauthorized:
		apiError.Code = Unauthorized
	default:
		// never leak technical details
		apiError.Code = SystemError
		apiError.Message = "Server Problem"
	}
	return status(apperror.KindOf(err)), apiError
}

// message drops technical errors joined to an application error (eg. a failed rollback)
func message(err error) string {
	var se *helpers.SystemError
	var ae *apperror.AppError
	if errors.As(err, &se) && errors.As(err, &ae) {
		return ae.Error()
	}
	return err.Error()
}

func status(kind apperror.Error) int {
	switch kind {
	case apperror.ErrNotFound:
		return http.StatusNotFound
	case apperror.ErrForbidden:
		return http.StatusForbidden
	case apperror.ErrValidation:
		return http.StatusBadRequest
	case apperror.ErrConflict, apperror.ErrRecordChanged:
		return http.StatusConflict
	case apperror.ErrUnauthorized:
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// respond writes the error; system errors are logged
func respond(c *gin.Context, err error) {
	status, apiError := HandleError(err)
	var se *helpers.SystemError
	if status >= http.StatusInternalServerError || errors.As(err, &se) {
		log.Error().Err(err).
			Str("request_id", c.GetString("request_id")).
			Str("path", c.Request.URL.Path).
			Msg("system error")
	}
	c.AbortWithStatusJSON(status, apiError)
}

// ErrorHandler renders errors attached by middlewares (c.Error + Abort)
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		respond(c, c.Errors.Last().Err)
	}
}
