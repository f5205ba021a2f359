package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

type HistoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, draw *types.HistoricalDraw) (*types.HistoricalDraw, error)
  GetRecent(ctx context.Context, tx *gorm.DB, lotteryType string, limit int) ([]*types.HistoricalDraw, error)
}

type historyRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewHistoryRepo(db *gorm.DB, baseLog *logger.Logger) HistoryRepo {
  repoLog := baseLog.With("repo", "HistoryRepo")
  return &historyRepo{db: db, log: repoLog}
}

func (hr *historyRepo) Create(ctx context.Context, tx *gorm.DB, draw *types.HistoricalDraw) (*types.HistoricalDraw, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  if err := transaction.WithContext(ctx).Create(draw).Error; err != nil {
    return nil, err
  }
  return draw, nil
}

func (hr *historyRepo) GetRecent(ctx context.Context, tx *gorm.DB, lotteryType string, limit int) ([]*types.HistoricalDraw, error) {
  transaction := tx
  if transaction == nil {
    transaction = hr.db
  }

  var results []*types.HistoricalDraw
  if err := transaction.WithContext(ctx).
    Where("lottery_type = ?", lotteryType).
    Order("draw_date DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
