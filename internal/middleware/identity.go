package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/empathy-ledger/campaign-workflow-api/internal/models"
	"github.com/empathy-ledger/campaign-workflow-api/internal/utils"
)

// Caller identity headers. Authentication happens upstream of this service.
const (
	TenantIDHeader = "X-Tenant-ID"
	UserIDHeader   = "X-User-ID"
	UserRoleHeader = "X-User-Role"
)

// Identity builds the caller's Actor from the identity headers.
// Requests without a tenant are rejected.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := models.Actor{
			TenantID: strings.TrimSpace(c.GetHeader(TenantIDHeader)),
			UserID:   strings.TrimSpace(c.GetHeader(UserIDHeader)),
			Role:     strings.ToLower(strings.TrimSpace(c.GetHeader(UserRoleHeader))),
		}
		if actor.TenantID == "" {
			utils.SendBadRequestError(c, "Missing tenant", TenantIDHeader+" header is required")
			c.Abort()
			return
		}
		utils.SetActor(c, actor)
		c.Next()
	}
}
