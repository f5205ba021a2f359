package middleware

import (
  "errors"
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/requestdata"
  "github.com/lotoracle/lotoracle-backend/internal/services"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

// RequireAdmin gates the admin surface behind the shared admin token.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractBearerToken(c)
    if !am.authService.VerifyAdminToken(tokenString) {
      abortUnauthorized(c, "Invalid admin token")
      return
    }
    c.Next()
  }
}

// RequireUser resolves the caller's access token and stamps the request
// context with their identity.
func (am *AuthMiddleware) RequireUser() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractBearerToken(c)
    if tokenString == "" {
      abortUnauthorized(c, "Invalid or expired token")
      return
    }
    ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
    if err != nil {
      // A store failure is not an auth decision.
      var apiErr *apierr.Error
      if errors.As(err, &apiErr) && apiErr.Status == http.StatusInternalServerError {
        am.log.Error("Token lookup failed", "error", err.Error())
        abortInternal(c)
        return
      }
      abortUnauthorized(c, "Invalid or expired token")
      return
    }
    c.Request = c.Request.WithContext(ctx)
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      abortUnauthorized(c, "Invalid or expired token")
      return
    }
    c.Next()
  }
}

func extractBearerToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return strings.TrimSpace(authHeader[7:])
  }
  return ""
}

func abortUnauthorized(c *gin.Context, message string) {
  c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
    "error": gin.H{"message": message, "code": apierr.CodeUnauthorized},
  })
}

func abortInternal(c *gin.Context) {
  c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
    "error": gin.H{"message": "Internal server error", "code": apierr.CodeInternal},
  })
}
