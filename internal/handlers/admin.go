package handlers

import (
  "time"

  "github.com/gin-gonic/gin"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/services"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

type AdminHandler struct {
  log         *logger.Logger
  userService services.UserService
}

func NewAdminHandler(log *logger.Logger, userService services.UserService) *AdminHandler {
  return &AdminHandler{
    log:         log.With("handler", "AdminHandler"),
    userService: userService,
  }
}

type adminRequest struct {
  Action   string         `json:"action"`
  UserData map[string]any `json:"user_data"`
}

type userView struct {
  ID          string    `json:"id"`
  Email       string    `json:"email"`
  Name        string    `json:"name"`
  AccessToken string    `json:"access_token"`
  CreatedAt   time.Time `json:"created_at"`
  IsActive    bool      `json:"is_active"`
}

func toUserView(user *types.User) userView {
  return userView{
    ID:          user.ID.String(),
    Email:       user.Email,
    Name:        user.Name,
    AccessToken: user.AccessToken,
    CreatedAt:   user.CreatedAt,
    IsActive:    user.IsActive,
  }
}

func (ah *AdminHandler) ManageUsers(c *gin.Context) {
  var req adminRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, ah.log, apierr.InvalidInput("Invalid request body"))
    return
  }

  email, _ := req.UserData["email"].(string)
  name, _ := req.UserData["name"].(string)

  switch req.Action {
  case "create_user":
    user, err := ah.userService.CreateUser(c.Request.Context(), email, name)
    if err != nil {
      RespondError(c, ah.log, err)
      return
    }
    RespondOK(c, gin.H{
      "message": "User created successfully",
      "user":    toUserView(user),
    })

  case "revoke_access":
    if err := ah.userService.RevokeAccess(c.Request.Context(), email); err != nil {
      RespondError(c, ah.log, err)
      return
    }
    RespondOK(c, gin.H{"message": "Access revoked successfully"})

  case "activate_user":
    if err := ah.userService.ActivateUser(c.Request.Context(), email); err != nil {
      RespondError(c, ah.log, err)
      return
    }
    RespondOK(c, gin.H{"message": "User activated successfully"})

  default:
    RespondError(c, ah.log, apierr.InvalidInput("Invalid action"))
  }
}

func (ah *AdminHandler) ListUsers(c *gin.Context) {
  users, err := ah.userService.ListUsers(c.Request.Context())
  if err != nil {
    RespondError(c, ah.log, err)
    return
  }
  views := make([]userView, len(users))
  for i, user := range users {
    views[i] = toUserView(user)
  }
  RespondOK(c, gin.H{"users": views})
}
