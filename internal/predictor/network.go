package predictor

import (
	"fmt"
	"math/rand"
)

// network is the stacked regressor: three LSTM layers with dropout
// between them (and after the top one), then a linear hidden layer and
// a linear output layer. It lives for a single request.
type network struct {
	cells []*lstmCell
	w1    [][]float64 // [denseHidden][hidden]
	b1    []float64
	w2    [][]float64 // [outDim][denseHidden]
	b2    []float64

	wxS, whS []*matState
	bS       []*vecState
	w1S, w2S *matState
	b1S, b2S *vecState

	dropout float64
	opt     *adam
	rng     *rand.Rand
}

func newNetwork(rng *rand.Rand, inDim, hidden, denseHidden, outDim int, dropout, lr float64) *network {
	cells := []*lstmCell{
		newLSTMCell(rng, inDim, hidden),
		newLSTMCell(rng, hidden, hidden),
		newLSTMCell(rng, hidden, hidden),
	}
	n := &network{
		cells:   cells,
		w1:      randMat(rng, denseHidden, hidden),
		b1:      make([]float64, denseHidden),
		w2:      randMat(rng, outDim, denseHidden),
		b2:      make([]float64, outDim),
		w1S:     newMatState(denseHidden, hidden),
		w2S:     newMatState(outDim, denseHidden),
		b1S:     newVecState(denseHidden),
		b2S:     newVecState(outDim),
		dropout: dropout,
		opt:     newAdam(lr),
		rng:     rng,
	}
	for _, c := range cells {
		n.wxS = append(n.wxS, newMatState(4*c.hidden, c.inDim))
		n.whS = append(n.whS, newMatState(4*c.hidden, c.hidden))
		n.bS = append(n.bS, newVecState(4*c.hidden))
	}
	return n
}

func (n *network) train(windows [][][]float64, targets [][]float64, epochs int) error {
	if len(windows) == 0 || len(windows) != len(targets) {
		return fmt.Errorf("bad training batch: %d windows, %d targets", len(windows), len(targets))
	}
	outDim := len(n.b2)
	denseHidden := len(n.b1)
	hidden := n.cells[0].hidden

	for epoch := 0; epoch < epochs; epoch++ {
		cellGr := make([]*cellGrads, len(n.cells))
		for l, c := range n.cells {
			cellGr[l] = c.newGrads()
		}
		dW1 := zeroMat(denseHidden, hidden)
		dB1 := make([]float64, denseHidden)
		dW2 := zeroMat(outDim, denseHidden)
		dB2 := make([]float64, outDim)

		for w, window := range windows {
			steps := make([][]cellStep, len(n.cells))
			masks := make([][][]float64, len(n.cells))

			layerIn := window
			for l, cell := range n.cells {
				steps[l] = cell.forward(layerIn)
				outs := make([][]float64, len(steps[l]))
				masks[l] = make([][]float64, len(steps[l]))
				for t := range steps[l] {
					if l == len(n.cells)-1 && t != len(steps[l])-1 {
						outs[t] = steps[l][t].h
						continue
					}
					dropped, mask := n.dropRow(steps[l][t].h)
					outs[t] = dropped
					masks[l][t] = mask
				}
				layerIn = outs
			}
			hLast := layerIn[len(layerIn)-1]

			a1 := make([]float64, denseHidden)
			for r := range n.w1 {
				sum := n.b1[r]
				for k, hv := range hLast {
					sum += n.w1[r][k] * hv
				}
				a1[r] = sum
			}
			pred := make([]float64, outDim)
			for r := range n.w2 {
				sum := n.b2[r]
				for k, av := range a1 {
					sum += n.w2[r][k] * av
				}
				pred[r] = sum
			}

			dPred := make([]float64, outDim)
			for r := range pred {
				dPred[r] = 2 * (pred[r] - targets[w][r]) / float64(outDim)
			}
			dA1 := make([]float64, denseHidden)
			for r := range n.w2 {
				for k := range a1 {
					dW2[r][k] += dPred[r] * a1[k]
					dA1[k] += n.w2[r][k] * dPred[r]
				}
				dB2[r] += dPred[r]
			}
			dHLast := make([]float64, hidden)
			for r := range n.w1 {
				for k := range hLast {
					dW1[r][k] += dA1[r] * hLast[k]
					dHLast[k] += n.w1[r][k] * dA1[r]
				}
				dB1[r] += dA1[r]
			}

			// Gradient flows back down the stack; dropout masks scale it
			// the same way they scaled the forward pass.
			T := len(window)
			dhs := zeroMat(T, hidden)
			topMask := masks[len(n.cells)-1][T-1]
			for k := range dHLast {
				dhs[T-1][k] = dHLast[k] * maskScale(topMask, k, n.dropout)
			}
			for l := len(n.cells) - 1; l >= 0; l-- {
				dxs := n.cells[l].backprop(steps[l], dhs, cellGr[l])
				if l == 0 {
					break
				}
				below := zeroMat(T, n.cells[l-1].hidden)
				for t := range dxs {
					for k := range dxs[t] {
						below[t][k] = dxs[t][k] * maskScale(masks[l-1][t], k, n.dropout)
					}
				}
				dhs = below
			}
		}

		scale := 1 / float64(len(windows))
		n.opt.t++
		for l, c := range n.cells {
			scaleMat(cellGr[l].dWx, scale)
			scaleMat(cellGr[l].dWh, scale)
			scaleVec(cellGr[l].dB, scale)
			n.opt.updateMat(c.wx, cellGr[l].dWx, n.wxS[l])
			n.opt.updateMat(c.wh, cellGr[l].dWh, n.whS[l])
			n.opt.updateVec(c.b, cellGr[l].dB, n.bS[l])
		}
		scaleMat(dW1, scale)
		scaleVec(dB1, scale)
		scaleMat(dW2, scale)
		scaleVec(dB2, scale)
		n.opt.updateMat(n.w1, dW1, n.w1S)
		n.opt.updateVec(n.b1, dB1, n.b1S)
		n.opt.updateMat(n.w2, dW2, n.w2S)
		n.opt.updateVec(n.b2, dB2, n.b2S)
	}
	return nil
}

// predict runs the window through the stack without dropout.
func (n *network) predict(window [][]float64) []float64 {
	layerIn := window
	for _, cell := range n.cells {
		steps := cell.forward(layerIn)
		outs := make([][]float64, len(steps))
		for t := range steps {
			outs[t] = steps[t].h
		}
		layerIn = outs
	}
	hLast := layerIn[len(layerIn)-1]

	a1 := make([]float64, len(n.b1))
	for r := range n.w1 {
		sum := n.b1[r]
		for k, hv := range hLast {
			sum += n.w1[r][k] * hv
		}
		a1[r] = sum
	}
	out := make([]float64, len(n.b2))
	for r := range n.w2 {
		sum := n.b2[r]
		for k, av := range a1 {
			sum += n.w2[r][k] * av
		}
		out[r] = sum
	}
	return out
}

func (n *network) dropRow(row []float64) ([]float64, []float64) {
	if n.dropout <= 0 {
		return row, nil
	}
	keep := 1 - n.dropout
	out := make([]float64, len(row))
	mask := make([]float64, len(row))
	for k, v := range row {
		if n.rng.Float64() < keep {
			mask[k] = 1
			out[k] = v / keep
		}
	}
	return out, mask
}

func maskScale(mask []float64, k int, dropout float64) float64 {
	if mask == nil {
		return 1
	}
	return mask[k] / (1 - dropout)
}
