package predictor

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/lotoracle/lotoracle-backend/internal/logger"
)

// Predictor fits a fresh sequence model per call over the supplied
// draw history and emits a best-effort next-draw vector. The vector is
// analyzer context only; it never becomes the returned numbers. Any
// failure degrades to a uniform random vector, never an error.
type Predictor struct {
	SeqLen         int
	Hidden         int
	DenseHidden    int
	Epochs         int
	SyntheticDraws int
	LearnRate      float64
	Dropout        float64

	log *logger.Logger
	rng *rand.Rand
}

func New(log *logger.Logger) *Predictor {
	return &Predictor{
		SeqLen:         10,
		Hidden:         50,
		DenseHidden:    25,
		Epochs:         50,
		SyntheticDraws: 100,
		LearnRate:      0.001,
		Dropout:        0.2,
		log:            log.With("service", "Predictor"),
	}
}

// Seed pins the predictor to a fixed random source; tests use it.
// Unseeded predictors draw a fresh source per call so that concurrent
// requests never share one.
func (p *Predictor) Seed(seed int64) {
	p.rng = rand.New(rand.NewSource(seed))
}

func (p *Predictor) callRNG() *rand.Rand {
	if p.rng != nil {
		return p.rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano() ^ rand.Int63()))
}

// PredictNext trains on history (most recent first, each row the
// game's main-number width) and predicts the following draw, with
// every entry clamped to [min, max].
func (p *Predictor) PredictNext(history [][]int, min, max, count int) []int {
	rng := p.callRNG()
	vec, err := p.trainAndPredict(rng, history, min, max, count)
	if err != nil {
		p.log.Warn("Sequence model failed, falling back to random vector", "error", err)
		return randomVector(rng, min, max, count)
	}
	return vec
}

func (p *Predictor) trainAndPredict(rng *rand.Rand, history [][]int, min, max, count int) ([]int, error) {
	if count <= 0 || min > max {
		return nil, fmt.Errorf("bad bounds: min=%d max=%d count=%d", min, max, count)
	}

	data := history
	if len(data) < p.SeqLen {
		data = p.syntheticDraws(rng, history, min, max, count)
	}

	rows := make([][]float64, len(data))
	for i, draw := range data {
		if len(draw) != count {
			return nil, fmt.Errorf("draw %d has width %d, want %d", i, len(draw), count)
		}
		row := make([]float64, count)
		for j, v := range draw {
			row[j] = float64(v)
		}
		rows[i] = row
	}

	var scaler minMaxScaler
	scaler.fit(rows)
	scaled := scaler.transform(rows)

	var windows [][][]float64
	var targets [][]float64
	for i := p.SeqLen; i < len(scaled); i++ {
		windows = append(windows, scaled[i-p.SeqLen:i])
		targets = append(targets, scaled[i])
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("not enough rows for a single training window (%d < %d)", len(scaled), p.SeqLen+1)
	}

	net := newNetwork(rng, count, p.Hidden, p.DenseHidden, count, p.Dropout, p.LearnRate)
	if err := net.train(windows, targets, p.Epochs); err != nil {
		return nil, err
	}

	raw := net.predict(scaled[len(scaled)-p.SeqLen:])
	if !allFinite(raw) {
		return nil, fmt.Errorf("model emitted a non-finite vector")
	}
	next := scaler.inverse(raw)

	out := make([]int, count)
	for j, v := range next {
		out[j] = clampInt(int(math.Round(v)), min, max)
	}
	return out, nil
}

// syntheticDraws builds a training set when real history is too thin:
// each synthetic draw perturbs the seed vector entrywise by a uniform
// offset in [-5, 5], clamped to the legal range; with no history at
// all it draws fresh uniform integers.
func (p *Predictor) syntheticDraws(rng *rand.Rand, history [][]int, min, max, count int) [][]int {
	var seed []int
	if len(history) > 0 {
		seed = history[len(history)-1]
	}
	out := make([][]int, p.SyntheticDraws)
	for n := range out {
		row := make([]int, count)
		for j := range row {
			if len(seed) > 0 {
				row[j] = clampInt(seed[j%len(seed)]+rng.Intn(11)-5, min, max)
			} else {
				row[j] = min + rng.Intn(max-min+1)
			}
		}
		out[n] = row
	}
	return out
}

func randomVector(rng *rand.Rand, min, max, count int) []int {
	if count <= 0 || min > max {
		return nil
	}
	out := make([]int, count)
	for j := range out {
		out[j] = min + rng.Intn(max-min+1)
	}
	return out
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ---- min-max scaling, fit on the batch at hand ----

type minMaxScaler struct {
	min []float64
	rng []float64
}

func (s *minMaxScaler) fit(rows [][]float64) {
	if len(rows) == 0 {
		return
	}
	dim := len(rows[0])
	s.min = make([]float64, dim)
	s.rng = make([]float64, dim)
	maxs := make([]float64, dim)
	for j := 0; j < dim; j++ {
		s.min[j] = rows[0][j]
		maxs[j] = rows[0][j]
	}
	for _, row := range rows {
		for j, v := range row {
			if v < s.min[j] {
				s.min[j] = v
			}
			if v > maxs[j] {
				maxs[j] = v
			}
		}
	}
	for j := 0; j < dim; j++ {
		s.rng[j] = maxs[j] - s.min[j]
	}
}

func (s *minMaxScaler) transform(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled := make([]float64, len(row))
		for j, v := range row {
			if s.rng[j] == 0 {
				scaled[j] = 0
				continue
			}
			scaled[j] = (v - s.min[j]) / s.rng[j]
		}
		out[i] = scaled
	}
	return out
}

func (s *minMaxScaler) inverse(row []float64) []float64 {
	out := make([]float64, len(row))
	for j, v := range row {
		out[j] = v*s.rng[j] + s.min[j]
	}
	return out
}
