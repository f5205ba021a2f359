package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
)

type APIError struct {
  Message     string	`json:"message"`
  Code	      string	`json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error	      APIError	`json:"error"`
}

// RespondError maps a service error onto the wire. Tagged errors carry
// their own status and message; anything else is a 500 with a generic
// body, logged server-side with the real cause.
func RespondError(c *gin.Context, log *logger.Logger, err error) {
  var apiErr *apierr.Error
  if errors.As(err, &apiErr) && apiErr.Status != http.StatusInternalServerError {
    c.JSON(apiErr.Status, ErrorEnvelope{
      Error: APIError{
        Message: apiErr.Err.Error(),
        Code:    apiErr.Code,
      },
    })
    return
  }

  if log != nil {
    log.Error("Request failed", "path", c.FullPath(), "error", err.Error())
  }
  c.JSON(http.StatusInternalServerError, ErrorEnvelope{
    Error: APIError{
      Message: "Internal server error",
      Code:    apierr.CodeInternal,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}
