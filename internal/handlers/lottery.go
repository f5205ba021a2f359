package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/lotoracle/lotoracle-backend/internal/lottery"
)

type LotteryHandler struct {
  registry *lottery.Registry
}

func NewLotteryHandler(registry *lottery.Registry) *LotteryHandler {
  return &LotteryHandler{registry: registry}
}

func (lh *LotteryHandler) GetConfigs(c *gin.Context) {
  RespondOK(c, gin.H{"lotteries": lh.registry.Dump()})
}
