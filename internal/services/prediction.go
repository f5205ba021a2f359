package services

import (
  "context"
  "encoding/json"
  "math/rand"
  "sort"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"
  "gorm.io/datatypes"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/lottery"
  "github.com/lotoracle/lotoracle-backend/internal/repos"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

const (
  historyWindow   = 100
  predictionLimit = 50
)

// SequencePredictor emits a next-draw estimate from raw history. The
// estimate feeds the analyzer prompt only.
type SequencePredictor interface {
  PredictNext(history [][]int, min, max, count int) []int
}

type PredictionService interface {
  Generate(ctx context.Context, userID uuid.UUID, lotteryType string, language string) (*types.Prediction, error)
  ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Prediction, error)
}

type predictionService struct {
  log            *logger.Logger
  db             *gorm.DB
  registry       *lottery.Registry
  historyRepo    repos.HistoryRepo
  predictionRepo repos.PredictionRepo
  predictor      SequencePredictor
  analyzer       PatternAnalyzer
}

func NewPredictionService(
  log *logger.Logger,
  db *gorm.DB,
  registry *lottery.Registry,
  historyRepo repos.HistoryRepo,
  predictionRepo repos.PredictionRepo,
  predictor SequencePredictor,
  analyzer PatternAnalyzer,
) PredictionService {
  return &predictionService{
    log:            log.With("service", "PredictionService"),
    db:             db,
    registry:       registry,
    historyRepo:    historyRepo,
    predictionRepo: predictionRepo,
    predictor:      predictor,
    analyzer:       analyzer,
  }
}

func (s *predictionService) Generate(ctx context.Context, userID uuid.UUID, lotteryType string, language string) (*types.Prediction, error) {
  cfg, ok := s.registry.Get(lotteryType)
  if !ok {
    return nil, apierr.InvalidInput("Invalid lottery type")
  }

  lang := language
  if lang != "es" {
    lang = "pt"
  }

  history, err := s.loadHistory(ctx, lotteryType)
  if err != nil {
    return nil, apierr.Internal(err)
  }

  modelVec := s.predictor.PredictNext(history, cfg.Main.Min, cfg.Main.Max, cfg.Main.Count)
  analysis := s.analyzer.Analyze(ctx, lotteryType, history, modelVec, lang)

  numbers := map[string][]int{
    "main_numbers": sampleDistinct(cfg.Main.Min, cfg.Main.Max, cfg.Main.Count),
  }
  if cfg.Secondary != nil {
    numbers[cfg.Secondary.Key] = sampleSecondary(cfg.Secondary)
  }

  raw, err := json.Marshal(numbers)
  if err != nil {
    return nil, apierr.Internal(err)
  }

  prediction := &types.Prediction{
    ID:             uuid.New(),
    UserID:         userID,
    LotteryType:    lotteryType,
    Numbers:        datatypes.JSON(raw),
    Confidence:     analysis.Confidence,
    Analysis:       analysis.Analysis,
    Language:       lang,
    PredictionDate: time.Now().UTC(),
  }
  created, err := s.predictionRepo.Create(ctx, nil, prediction)
  if err != nil {
    return nil, apierr.Internal(err)
  }

  s.log.Info("Prediction generated",
    "user_id", userID.String(),
    "lottery_type", lotteryType,
    "patterns_found", analysis.PatternsFound,
  )
  return created, nil
}

func (s *predictionService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*types.Prediction, error) {
  predictions, err := s.predictionRepo.GetRecentByUser(ctx, nil, userID, predictionLimit)
  if err != nil {
    return nil, apierr.Internal(err)
  }
  return predictions, nil
}

// loadHistory fetches recent draws newest first and decodes their
// number arrays. Rows with malformed payloads are skipped.
func (s *predictionService) loadHistory(ctx context.Context, lotteryType string) ([][]int, error) {
  draws, err := s.historyRepo.GetRecent(ctx, nil, lotteryType, historyWindow)
  if err != nil {
    return nil, err
  }
  history := make([][]int, 0, len(draws))
  for _, draw := range draws {
    var numbers []int
    if err := json.Unmarshal(draw.WinningNumbers, &numbers); err != nil {
      s.log.Warn("Skipping draw with malformed numbers", "draw_id", draw.ID.String(), "error", err.Error())
      continue
    }
    history = append(history, numbers)
  }
  return history, nil
}

// sampleDistinct draws count numbers from [min, max] without
// replacement and returns them sorted ascending.
func sampleDistinct(min, max, count int) []int {
  span := max - min + 1
  if count > span {
    count = span
  }
  perm := rand.Perm(span)
  out := make([]int, count)
  for i := 0; i < count; i++ {
    out[i] = min + perm[i]
  }
  sort.Ints(out)
  return out
}

func sampleSecondary(field *lottery.SecondaryField) []int {
  if field.Distinct {
    return sampleDistinct(field.Min, field.Max, field.Count)
  }
  out := make([]int, field.Count)
  for i := range out {
    out[i] = field.Min + rand.Intn(field.Max-field.Min+1)
  }
  return out
}
