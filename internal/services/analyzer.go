package services

import (
  "context"
  "encoding/json"
  "fmt"
  "math/rand"

  "github.com/google/uuid"
  "github.com/lotoracle/lotoracle-backend/internal/logger"
)

type AnalysisResult struct {
  Analysis      string
  Confidence    float64
  PatternsFound bool
}

// PatternAnalyzer turns draw history plus the sequence-model vector into
// a narrative for the player. It degrades instead of failing: when the
// model call breaks the result carries a fixed fallback text and a
// lowered confidence, never an error.
type PatternAnalyzer interface {
  Analyze(ctx context.Context, lotteryType string, history [][]int, modelPrediction []int, language string) AnalysisResult
}

type patternAnalyzer struct {
  log    *logger.Logger
  client GeminiClient
}

func NewPatternAnalyzer(log *logger.Logger, client GeminiClient) PatternAnalyzer {
  return &patternAnalyzer{
    log:    log.With("service", "PatternAnalyzer"),
    client: client,
  }
}

var analyzerFallback = map[string]string{
  "pt": "Análise temporariamente indisponível. Usando previsão LSTM.",
  "es": "Análisis temporalmente no disponible. Usando predicción LSTM.",
}

func (a *patternAnalyzer) Analyze(ctx context.Context, lotteryType string, history [][]int, modelPrediction []int, language string) AnalysisResult {
  lang := language
  if lang != "es" {
    lang = "pt"
  }

  sessionID := uuid.NewString()
  system := systemPrompt(lang, lotteryType)
  user := userPrompt(lang, lotteryType, history, modelPrediction)

  text, err := a.client.GenerateText(ctx, sessionID, system, user)
  if err != nil {
    a.log.Error("Pattern analysis failed, using fallback text",
      "lottery_type", lotteryType,
      "session_id", sessionID,
      "error", err.Error(),
    )
    return AnalysisResult{
      Analysis:      analyzerFallback[lang],
      Confidence:    0.6,
      PatternsFound: false,
    }
  }

  return AnalysisResult{
    Analysis:      text,
    Confidence:    0.7 + rand.Float64()*0.2,
    PatternsFound: true,
  }
}

func systemPrompt(lang, lotteryType string) string {
  if lang == "es" {
    return fmt.Sprintf(`Eres un experto en análisis de patrones de lotería usando IA avanzada.
Analiza los datos históricos de la lotería %s y proporciona predicciones inteligentes.
Considera patrones estadísticos, frecuencia de números, y tendencias históricas.
Sé confiado pero realista sobre las limitaciones de las predicciones.`, lotteryType)
  }
  return fmt.Sprintf(`Você é um especialista em análise de padrões de loteria usando IA avançada.
Analise os dados históricos da loteria %s e forneça previsões inteligentes.
Considere padrões estatísticos, frequência de números, e tendências históricas.
Seja confiante mas realista sobre as limitações das previsões.`, lotteryType)
}

func userPrompt(lang, lotteryType string, history [][]int, modelPrediction []int) string {
  recent := history
  if len(recent) > 10 {
    recent = recent[:10]
  }
  recentText := "Dados limitados"
  if lang == "es" {
    recentText = "Datos limitados"
  }
  if len(recent) > 0 {
    if raw, err := json.Marshal(recent); err == nil {
      recentText = string(raw)
    }
  }
  predText := "[]"
  if raw, err := json.Marshal(modelPrediction); err == nil {
    predText = string(raw)
  }

  if lang == "es" {
    return fmt.Sprintf(`Basado en los datos históricos de la lotería %s:
Últimos sorteos: %s
Predicción LSTM: %s

Por favor, analiza los patrones y proporciona:
1. Números recomendados para el próximo sorteo
2. Nivel de confianza (0-100%%)
3. Explicación de los patrones identificados
4. Consejos estratégicos para el jugador

Responde en español.`, lotteryType, recentText, predText)
  }
  return fmt.Sprintf(`Baseado nos dados históricos da loteria %s:
Últimos sorteios: %s
Previsão LSTM: %s

Por favor, analise os padrões e forneça:
1. Números recomendados para o próximo sorteio
2. Nível de confiança (0-100%%)
3. Explicação dos padrões identificados
4. Dicas estratégicas para o jogador

Responda em português brasileiro.`, lotteryType, recentText, predText)
}
