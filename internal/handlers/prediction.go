package handlers

import (
  "encoding/json"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/lotoracle/lotoracle-backend/internal/apierr"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
  "github.com/lotoracle/lotoracle-backend/internal/requestdata"
  "github.com/lotoracle/lotoracle-backend/internal/services"
  "github.com/lotoracle/lotoracle-backend/internal/types"
)

type PredictionHandler struct {
  log               *logger.Logger
  predictionService services.PredictionService
}

func NewPredictionHandler(log *logger.Logger, predictionService services.PredictionService) *PredictionHandler {
  return &PredictionHandler{
    log:               log.With("handler", "PredictionHandler"),
    predictionService: predictionService,
  }
}

type predictionRequest struct {
  LotteryType string `json:"lottery_type"`
  Language    string `json:"language"`
}

type predictionView struct {
  ID             string          `json:"id,omitempty"`
  LotteryType    string          `json:"lottery_type"`
  Numbers        json.RawMessage `json:"numbers"`
  Confidence     float64         `json:"prediction_confidence"`
  Analysis       string          `json:"ai_analysis"`
  PredictionDate time.Time       `json:"prediction_date"`
}

func toPredictionView(p *types.Prediction, withID bool) predictionView {
  view := predictionView{
    LotteryType:    p.LotteryType,
    Numbers:        json.RawMessage(p.Numbers),
    Confidence:     p.Confidence,
    Analysis:       p.Analysis,
    PredictionDate: p.PredictionDate,
  }
  if withID {
    view.ID = p.ID.String()
  }
  return view
}

func (ph *PredictionHandler) Predict(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, ph.log, apierr.Unauthorized("Invalid or expired token"))
    return
  }

  var req predictionRequest
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, ph.log, apierr.InvalidInput("Invalid request body"))
    return
  }

  prediction, err := ph.predictionService.Generate(c.Request.Context(), rd.UserID, req.LotteryType, req.Language)
  if err != nil {
    RespondError(c, ph.log, err)
    return
  }
  RespondOK(c, toPredictionView(prediction, false))
}

func (ph *PredictionHandler) ListForUser(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, ph.log, apierr.Unauthorized("Invalid or expired token"))
    return
  }

  predictions, err := ph.predictionService.ListForUser(c.Request.Context(), rd.UserID)
  if err != nil {
    RespondError(c, ph.log, err)
    return
  }
  views := make([]predictionView, len(predictions))
  for i, p := range predictions {
    views[i] = toPredictionView(p, true)
  }
  RespondOK(c, gin.H{"predictions": views})
}
