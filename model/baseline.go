package model

import (
	"math"
	"math/rand"

	"go-ml.dev/pkg/zorros"
	"gonum.org/v1/gonum/mat"
)

/*
BaselineConfig sizes the baseline model. SeqLen is the fixed record
length of tasks that do not pass per-record lengths (variant effect,
plant regulatory elements); Tissues is the number of tissue contexts of
variant-effect datasets.
*/
type BaselineConfig struct {
	Vocab   int
	Classes int
	SeqLen  int
	Tissues int
	Seed    int64
}

/*
Baseline is a mean-pooled bag-of-tokens linear model supporting all
three tasks. It is not meant to be competitive, it exists as a sanity
floor and to exercise the training scaffolding end to end.
*/
type Baseline struct {
	cfg BaselineConfig
	w   *mat.Dense // Vocab x Classes
	b   []float64
	tb  []float64 // per-tissue bias, variant effect only

	gw  *mat.Dense
	gb  []float64
	gtb []float64

	// forward state consumed by Backward
	feats   [][]float64
	tissues []int64
	task    string

	training bool
}

func NewBaseline(cfg BaselineConfig) *Baseline {
	rng := rand.New(rand.NewSource(cfg.Seed))
	w := mat.NewDense(cfg.Vocab, cfg.Classes, nil)
	for i := 0; i < cfg.Vocab; i++ {
		for j := 0; j < cfg.Classes; j++ {
			w.Set(i, j, rng.NormFloat64()*0.01)
		}
	}
	return &Baseline{
		cfg: cfg,
		w:   w,
		b:   make([]float64, cfg.Classes),
		tb:  make([]float64, cfg.Tissues),
		gw:  mat.NewDense(cfg.Vocab, cfg.Classes, nil),
		gb:  make([]float64, cfg.Classes),
		gtb: make([]float64, cfg.Tissues),
	}
}

func (m *Baseline) Mode(training bool) { m.training = training }

func (m *Baseline) Apply(in Input) ([][]float64, error) {
	switch in.Task {
	case TaskTaxonomy:
		feats, err := m.pool(in.X, in.SeqLens)
		if err != nil {
			return nil, err
		}
		m.feats, m.task = feats, in.Task
		out := make([][]float64, len(feats))
		for i, f := range feats {
			out[i] = m.scores(f)
		}
		return out, nil

	case TaskPlantDeepSEA:
		feats, err := m.poolFixed(in.X)
		if err != nil {
			return nil, err
		}
		m.feats, m.task = feats, in.Task
		out := make([][]float64, len(feats))
		for i, f := range feats {
			z := m.scores(f)
			for j, v := range z {
				z[j] = sigmoid(v)
			}
			out[i] = z
		}
		return out, nil

	case TaskVariantEffect:
		ref, err := m.poolFixed(in.X)
		if err != nil {
			return nil, err
		}
		alt, err := m.poolFixed(in.X2)
		if err != nil {
			return nil, err
		}
		if len(ref) != len(alt) || len(ref) != len(in.Tissue) {
			return nil, zorros.Errorf("variant effect input of %v/%v records with %v tissues",
				len(ref), len(alt), len(in.Tissue))
		}
		feats := make([][]float64, len(ref))
		out := make([][]float64, len(ref))
		for i := range ref {
			f := make([]float64, m.cfg.Vocab)
			for k := range f {
				f[k] = ref[i][k] - alt[i][k]
			}
			feats[i] = f
			tissue := in.Tissue[i]
			if tissue < 0 || int(tissue) >= len(m.tb) {
				return nil, zorros.Errorf("tissue id %v out of %v contexts", tissue, len(m.tb))
			}
			z := m.b[0] + m.tb[tissue]
			for k, x := range f {
				z += x * m.w.At(k, 0)
			}
			out[i] = []float64{sigmoid(z)}
		}
		m.feats, m.tissues, m.task = feats, in.Tissue, in.Task
		return out, nil
	}
	return nil, zorros.Errorf("model does not implement task `%v`", in.Task)
}

/*
Backward accumulates parameter gradients from the error signal of the
last forward pass, one row per record.
*/
func (m *Baseline) Backward(grad [][]float64) {
	for i, g := range grad {
		f := m.feats[i]
		if m.task == TaskVariantEffect {
			for k, x := range f {
				m.gw.Set(k, 0, m.gw.At(k, 0)+x*g[0])
			}
			m.gb[0] += g[0]
			m.gtb[m.tissues[i]] += g[0]
			continue
		}
		for j, gj := range g {
			for k, x := range f {
				m.gw.Set(k, j, m.gw.At(k, j)+x*gj)
			}
			m.gb[j] += gj
		}
	}
}

// pool builds one mean-pooled token-count row per record, splitting the
// packed sequence by the per-record lengths.
func (m *Baseline) pool(x []int64, lens []int) ([][]float64, error) {
	total := 0
	for _, l := range lens {
		total += l
	}
	if total != len(x) {
		return nil, zorros.Errorf("packed sequence of %v symbols with lengths summing to %v", len(x), total)
	}
	feats := make([][]float64, len(lens))
	off := 0
	for i, l := range lens {
		f, err := m.poolOne(x[off : off+l])
		if err != nil {
			return nil, err
		}
		feats[i] = f
		off += l
	}
	return feats, nil
}

func (m *Baseline) poolFixed(x []int64) ([][]float64, error) {
	if m.cfg.SeqLen < 1 || len(x)%m.cfg.SeqLen != 0 {
		return nil, zorros.Errorf("sequence of %v symbols is no multiple of the fixed length %v", len(x), m.cfg.SeqLen)
	}
	feats := make([][]float64, len(x)/m.cfg.SeqLen)
	for i := range feats {
		f, err := m.poolOne(x[i*m.cfg.SeqLen : (i+1)*m.cfg.SeqLen])
		if err != nil {
			return nil, err
		}
		feats[i] = f
	}
	return feats, nil
}

func (m *Baseline) poolOne(seq []int64) ([]float64, error) {
	f := make([]float64, m.cfg.Vocab)
	for _, s := range seq {
		if s < 0 || int(s) >= m.cfg.Vocab {
			return nil, zorros.Errorf("symbol %v outside vocabulary of %v", s, m.cfg.Vocab)
		}
		f[s] += 1 / float64(len(seq))
	}
	return f, nil
}

func (m *Baseline) scores(f []float64) []float64 {
	z := make([]float64, m.cfg.Classes)
	for j := range z {
		v := m.b[j]
		for k, x := range f {
			v += x * m.w.At(k, j)
		}
		z[j] = v
	}
	return z
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }
