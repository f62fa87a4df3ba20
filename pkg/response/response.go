package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK sends 200 JSON with data as the body.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// Error aborts with status and {"detail": detail}.
func Error(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorResp{Detail: detail})
}

// InternalError aborts with 500. The error text is exposed only when debug is set.
func InternalError(c *gin.Context, err error, debug bool) {
	resp := ErrorResp{Detail: DefaultErrorMessage}
	if debug && err != nil {
		resp.Error = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
}

// Unauthorized sends 401 response.
func Unauthorized(c *gin.Context, detail string) {
	Error(c, http.StatusUnauthorized, detail)
}

// Forbidden sends 403 response.
func Forbidden(c *gin.Context, detail string) {
	Error(c, http.StatusForbidden, detail)
}
