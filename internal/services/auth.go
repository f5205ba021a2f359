package services

import (
  "context"
  "crypto/subtle"
  "os"

  "gorm.io/gorm"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/repos"
  "github.com/lotoracle/lotoracle-backend/internal/requestdata"
)

type AuthService interface {
  VerifyAdminToken(token string) bool
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type authService struct {
  log        *logger.Logger
  db         *gorm.DB
  userRepo   repos.UserRepo
  adminToken string
}

func NewAuthService(log *logger.Logger, db *gorm.DB, userRepo repos.UserRepo) AuthService {
  return &authService{
    log:        log.With("service", "AuthService"),
    db:         db,
    userRepo:   userRepo,
    adminToken: os.Getenv("ADMIN_TOKEN"),
  }
}

func (s *authService) VerifyAdminToken(token string) bool {
  if s.adminToken == "" || token == "" {
    return false
  }
  return subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) == 1
}

// SetContextFromToken resolves a user access token and stamps the
// request context with the caller's identity. Inactive and unknown
// tokens are indistinguishable to the caller.
func (s *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, apierr.Unauthorized("Invalid or expired token")
  }

  user, err := s.userRepo.GetByAccessToken(ctx, nil, tokenString)
  if err != nil {
    return ctx, apierr.Internal(err)
  }
  if user == nil || !user.IsActive {
    return ctx, apierr.Unauthorized("Invalid or expired token")
  }

  return requestdata.WithRequestData(ctx, &requestdata.RequestData{
    UserID:      user.ID,
    TokenString: tokenString,
  }), nil
}
