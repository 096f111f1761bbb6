package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"climatejobs/internal/pkg/apperr"
	"climatejobs/internal/pkg/pagination"
)

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func SuccessWithMessage(c *gin.Context, statusCode int, data interface{}, message string) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(statusCode, body)
}

// Paginated writes a list page with top-level page/limit/total/total_pages.
func Paginated(c *gin.Context, data interface{}, p pagination.Params, total int64) {
	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"data":        data,
		"page":        p.Page,
		"limit":       p.Limit,
		"total":       total,
		"total_pages": p.TotalPages(total),
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Abort writes the error envelope and stops the handler chain.
func Abort(c *gin.Context, kind apperr.Kind, message string) {
	Error(c, apperr.Status(kind), string(kind), message)
	c.Abort()
}

// Fail maps err to its kind and writes the envelope. Upstream and internal
// errors are attached to the gin context for the request logger and answered
// with a generic message.
func Fail(c *gin.Context, err error) {
	e := apperr.As(err)
	status := apperr.Status(e.Kind)

	switch e.Kind {
	case apperr.Upstream, apperr.Internal:
		_ = c.Error(err)
		Error(c, status, string(e.Kind), genericMessage(e))
	default:
		if len(e.Fields) > 0 {
			ErrorWithDetails(c, status, string(e.Kind), e.Message, e.Fields)
			return
		}
		Error(c, status, string(e.Kind), e.Message)
	}
}

func genericMessage(e *apperr.Error) string {
	if e.Kind == apperr.Upstream && e.Message != "" && e.Err != nil {
		return e.Message
	}
	return "Internal server error"
}
