package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/signupflow/backend/pkg/logger"
)

func errorResponse(c *gin.Context, err error) {
	status, marker := classifyError(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.AbortWithStatusJSON(status, ErrorStruct{Error: marker})
}

// validationErrorResponse maps binding failures onto the adapter's input
// markers: email and password get their own markers, everything else is
// generic invalid input.
func validationErrorResponse(c *gin.Context, err error) {
	marker := MarkerInvalidInput

	var verr validator.ValidationErrors
	if errors.As(err, &verr) && len(verr) > 0 {
		switch verr[0].Field() {
		case "email":
			marker = MarkerInvalidEmail
		case "password":
			marker = MarkerInvalidPassword
		}
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorStruct{Error: marker})
}
