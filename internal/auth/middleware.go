package auth

import (
	"net/http"
	"strings"

	"github.com/SAP-F-2025/training-service/internal/models"
	"github.com/SAP-F-2025/training-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const requesterKey = "requester"

// Middleware rejects requests without a valid bearer token and stores the
// verified requester in the gin context.
func Middleware(verifier Verifier, logger utils.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var requester models.Requester
			requester, err = verifier.Verify(c.Request.Context(), token)
			if err == nil {
				c.Set(requesterKey, requester)
				c.Next()
				return
			}
		}

		logger.WarnContext(c.Request.Context(), "Authentication failed",
			"path", c.Request.URL.Path,
			"error", err)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"message": err.Error(),
			"code":    "unauthenticated",
		})
	}
}

// RequesterFromContext returns the identity stored by Middleware.
func RequesterFromContext(c *gin.Context) (models.Requester, bool) {
	v, ok := c.Get(requesterKey)
	if !ok {
		return models.Requester{}, false
	}
	r, ok := v.(models.Requester)
	return r, ok
}

// SetRequester stores an identity on the context directly.
func SetRequester(c *gin.Context, r models.Requester) {
	c.Set(requesterKey, r)
}

func bearerToken(header string) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}
