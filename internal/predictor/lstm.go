package predictor

import (
	"math"
	"math/rand"
)

// Gate rows are packed i|f|g|o, each hidden-size tall.
type lstmCell struct {
	inDim  int
	hidden int
	wx     [][]float64 // [4H][inDim]
	wh     [][]float64 // [4H][H]
	b      []float64   // [4H]
}

type cellStep struct {
	x, hPrev, cPrev        []float64
	i, f, g, o, c, tc, h   []float64
}

type cellGrads struct {
	dWx [][]float64
	dWh [][]float64
	dB  []float64
}

func newLSTMCell(rng *rand.Rand, inDim, hidden int) *lstmCell {
	return &lstmCell{
		inDim:  inDim,
		hidden: hidden,
		wx:     randMat(rng, 4*hidden, inDim),
		wh:     randMat(rng, 4*hidden, hidden),
		b:      make([]float64, 4*hidden),
	}
}

func (c *lstmCell) newGrads() *cellGrads {
	return &cellGrads{
		dWx: zeroMat(4*c.hidden, c.inDim),
		dWh: zeroMat(4*c.hidden, c.hidden),
		dB:  make([]float64, 4*c.hidden),
	}
}

// forward runs the cell over a full window and returns per-step caches.
func (c *lstmCell) forward(inputs [][]float64) []cellStep {
	h := make([]float64, c.hidden)
	cs := make([]float64, c.hidden)
	steps := make([]cellStep, len(inputs))
	for t, x := range inputs {
		z := make([]float64, 4*c.hidden)
		for r := 0; r < 4*c.hidden; r++ {
			sum := c.b[r]
			for k, xv := range x {
				sum += c.wx[r][k] * xv
			}
			for k, hv := range h {
				sum += c.wh[r][k] * hv
			}
			z[r] = sum
		}
		st := cellStep{
			x:     x,
			hPrev: h,
			cPrev: cs,
			i:     make([]float64, c.hidden),
			f:     make([]float64, c.hidden),
			g:     make([]float64, c.hidden),
			o:     make([]float64, c.hidden),
			c:     make([]float64, c.hidden),
			tc:    make([]float64, c.hidden),
			h:     make([]float64, c.hidden),
		}
		for j := 0; j < c.hidden; j++ {
			st.i[j] = sigmoid(z[j])
			st.f[j] = sigmoid(z[c.hidden+j])
			st.g[j] = math.Tanh(z[2*c.hidden+j])
			st.o[j] = sigmoid(z[3*c.hidden+j])
			st.c[j] = st.f[j]*cs[j] + st.i[j]*st.g[j]
			st.tc[j] = math.Tanh(st.c[j])
			st.h[j] = st.o[j] * st.tc[j]
		}
		h = st.h
		cs = st.c
		steps[t] = st
	}
	return steps
}

// backprop runs BPTT over a forwarded window. dhs carries the gradient
// arriving at each step's hidden output; the return value is the
// gradient with respect to each step's input.
func (c *lstmCell) backprop(steps []cellStep, dhs [][]float64, grads *cellGrads) [][]float64 {
	dxs := make([][]float64, len(steps))
	dhChain := make([]float64, c.hidden)
	dcChain := make([]float64, c.hidden)
	for t := len(steps) - 1; t >= 0; t-- {
		st := steps[t]
		dz := make([]float64, 4*c.hidden)
		dhPrev := make([]float64, c.hidden)
		dcPrev := make([]float64, c.hidden)
		for j := 0; j < c.hidden; j++ {
			dh := dhs[t][j] + dhChain[j]
			do := dh * st.tc[j]
			dc := dh*st.o[j]*(1-st.tc[j]*st.tc[j]) + dcChain[j]
			di := dc * st.g[j]
			df := dc * st.cPrev[j]
			dg := dc * st.i[j]
			dcPrev[j] = dc * st.f[j]
			dz[j] = di * st.i[j] * (1 - st.i[j])
			dz[c.hidden+j] = df * st.f[j] * (1 - st.f[j])
			dz[2*c.hidden+j] = dg * (1 - st.g[j]*st.g[j])
			dz[3*c.hidden+j] = do * st.o[j] * (1 - st.o[j])
		}
		dx := make([]float64, c.inDim)
		for r := 0; r < 4*c.hidden; r++ {
			dzr := dz[r]
			if dzr == 0 {
				continue
			}
			grads.dB[r] += dzr
			for k, xv := range st.x {
				grads.dWx[r][k] += dzr * xv
				dx[k] += c.wx[r][k] * dzr
			}
			for k, hv := range st.hPrev {
				grads.dWh[r][k] += dzr * hv
				dhPrev[k] += c.wh[r][k] * dzr
			}
		}
		dxs[t] = dx
		dhChain = dhPrev
		dcChain = dcPrev
	}
	return dxs
}

// ---- Adam ----

type matState struct {
	m, v [][]float64
}

type vecState struct {
	m, v []float64
}

type adam struct {
	lr, beta1, beta2, eps float64
	t                     int
}

func newAdam(lr float64) *adam {
	return &adam{lr: lr, beta1: 0.9, beta2: 0.999, eps: 1e-8}
}

func newMatState(rows, cols int) *matState {
	return &matState{m: zeroMat(rows, cols), v: zeroMat(rows, cols)}
}

func newVecState(n int) *vecState {
	return &vecState{m: make([]float64, n), v: make([]float64, n)}
}

func (a *adam) updateMat(w, grad [][]float64, s *matState) {
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for r := range w {
		for k := range w[r] {
			g := grad[r][k]
			s.m[r][k] = a.beta1*s.m[r][k] + (1-a.beta1)*g
			s.v[r][k] = a.beta2*s.v[r][k] + (1-a.beta2)*g*g
			w[r][k] -= a.lr * (s.m[r][k] / c1) / (math.Sqrt(s.v[r][k]/c2) + a.eps)
		}
	}
}

func (a *adam) updateVec(b, grad []float64, s *vecState) {
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for k := range b {
		g := grad[k]
		s.m[k] = a.beta1*s.m[k] + (1-a.beta1)*g
		s.v[k] = a.beta2*s.v[k] + (1-a.beta2)*g*g
		b[k] -= a.lr * (s.m[k] / c1) / (math.Sqrt(s.v[k]/c2) + a.eps)
	}
}

// ---- small helpers ----

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

func zeroMat(rows, cols int) [][]float64 {
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
	}
	return out
}

func randMat(rng *rand.Rand, rows, cols int) [][]float64 {
	scale := 1 / math.Sqrt(float64(cols))
	out := make([][]float64, rows)
	for r := range out {
		out[r] = make([]float64, cols)
		for k := range out[r] {
			out[r][k] = (rng.Float64()*2 - 1) * scale
		}
	}
	return out
}

func scaleMat(m [][]float64, s float64) {
	for r := range m {
		for k := range m[r] {
			m[r][k] *= s
		}
	}
}

func scaleVec(v []float64, s float64) {
	for k := range v {
		v[k] *= s
	}
}

func allFinite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
