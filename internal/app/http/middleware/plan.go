package middleware

import (
	"net/http"
	"time"

	"pulse/database"
	"pulse/internal/domain/access"
	"pulse/internal/infra/logger"

	"github.com/gin-gonic/gin"
)

const policyKey = "access_policy"

// LoadPolicy resolves the caller's plan once per request. Must run after
// AuthMiddleware.
func LoadPolicy() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("user_id")
		policy, err := access.LoadPolicy(database.DB.WithContext(c.Request.Context()), userID)
		if err != nil {
			logger.Error("failed to load access policy", "user_id", userID, "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		c.Set(policyKey, policy)
		c.Next()
	}
}

// Policy returns the policy set by LoadPolicy, or the free policy.
func Policy(c *gin.Context) access.Policy {
	if v, ok := c.Get(policyKey); ok {
		if p, ok := v.(access.Policy); ok {
			return p
		}
	}
	return access.ComputePolicy(time.Now(), nil)
}
