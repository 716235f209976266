package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/serviceerror"
)

const actorKey = "actor"

// SendSuccessResponse sends a successful JSON response
func SendSuccessResponse(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// SendErrorResponse sends an error JSON response
func SendErrorResponse(c *gin.Context, statusCode int, errCode, message, details string) {
	c.JSON(statusCode, models.ErrorResponse{
		Code:    errCode,
		Message: message,
		Details: details,
	})
}

// SendCreatedResponse sends a 201 Created response
func SendCreatedResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// SendOKResponse sends a 200 OK response
func SendOKResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// SendNoContentResponse sends a 204 No Content response
func SendNoContentResponse(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// SendBadRequestError sends a 400 Bad Request error
func SendBadRequestError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeBadRequest, message, details)
}

// SendValidationError sends a validation error response
func SendValidationError(c *gin.Context, details string) {
	SendErrorResponse(c, http.StatusBadRequest, models.ErrCodeValidationError, "Validation failed", details)
}

// SendInternalServerError sends a 500 Internal Server Error
func SendInternalServerError(c *gin.Context, message, details string) {
	SendErrorResponse(c, http.StatusInternalServerError, models.ErrCodeInternalError, message, details)
}

// SendServiceError maps an error returned by a service to its HTTP response.
// Errors that are not ServiceErrors are reported as internal errors without detail.
func SendServiceError(c *gin.Context, err error) {
	se, ok := serviceerror.As(err)
	if !ok {
		SendInternalServerError(c, "Internal server error", "")
		return
	}
	details := se.ErrorDescription
	if se.Type == serviceerror.ServerErrorType {
		// driver messages stay in the logs
		details = serviceerror.StoreError.ErrorDescription
	}
	SendErrorResponse(c, se.HTTPStatus(), se.Code, se.Message, details)
}

// SetActor stores the caller's identity in the gin context
func SetActor(c *gin.Context, actor models.Actor) {
	c.Set(actorKey, actor)
}

// GetActor returns the caller's identity, or a zero Actor when none was set
func GetActor(c *gin.Context) models.Actor {
	v, exists := c.Get(actorKey)
	if !exists {
		return models.Actor{}
	}
	actor, _ := v.(models.Actor)
	return actor
}

// GetTenantID returns the caller's tenant
func GetTenantID(c *gin.Context) string {
	return GetActor(c).TenantID
}
