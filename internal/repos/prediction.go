package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

type PredictionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, prediction *types.Prediction) (*types.Prediction, error)
  GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Prediction, error)
}

type predictionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewPredictionRepo(db *gorm.DB, baseLog *logger.Logger) PredictionRepo {
  repoLog := baseLog.With("repo", "PredictionRepo")
  return &predictionRepo{db: db, log: repoLog}
}

func (pr *predictionRepo) Create(ctx context.Context, tx *gorm.DB, prediction *types.Prediction) (*types.Prediction, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  if err := transaction.WithContext(ctx).Create(prediction).Error; err != nil {
    return nil, err
  }
  return prediction, nil
}

func (pr *predictionRepo) GetRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.Prediction, error) {
  transaction := tx
  if transaction == nil {
    transaction = pr.db
  }

  var results []*types.Prediction
  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("prediction_date DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
