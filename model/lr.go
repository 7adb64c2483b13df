package model

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rushteam/tourkit/core"
)

// LinearRating 是线性评分模型：r = Bias + sum(Weight_i * Feature_i)，
// Max > Min 时结果截断到 [Min, Max]。缺失的特征按 0 处理。
type LinearRating struct {
	Bias    float64
	Weights map[string]float64
	Min     float64
	Max     float64
}

// LoadLinearRating 从 JSON 文件加载：
//
//	{"bias": 2.1, "weights": {"VisitMonth": 0.01}, "min": 1, "max": 5}
func LoadLinearRating(path string) (*LinearRating, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.Errorf(core.ModuleModel, core.ErrorCodeNotFound, "read %s: %v", path, err)
	}
	var raw struct {
		Bias    float64            `json:"bias"`
		Weights map[string]float64 `json:"weights"`
		Min     float64            `json:"min"`
		Max     float64            `json:"max"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, core.Errorf(core.ModuleModel, core.ErrorCodeInvalidInput, "parse %s: %v", path, err)
	}
	return &LinearRating{Bias: raw.Bias, Weights: raw.Weights, Min: raw.Min, Max: raw.Max}, nil
}

func (m *LinearRating) Name() string { return "linear_rating" }

func (m *LinearRating) PredictRating(features map[string]float64) (float64, error) {
	score := m.Bias
	for k, w := range m.Weights {
		score += w * features[k]
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, core.Errorf(core.ModuleModel, core.ErrorCodeInvalidInput, "non-finite rating %v", score)
	}
	if m.Max > m.Min {
		score = math.Max(m.Min, math.Min(m.Max, score))
	}
	return score, nil
}

// LinearLabel 是多分类线性模型：每个类别一组 (Bias, Weights)，取得分最高的类别编码。
// 得分相同取编码较小者。
type LinearLabel struct {
	Bias    []float64
	Weights []map[string]float64
}

func (m *LinearLabel) Name() string { return "linear_label" }

func (m *LinearLabel) PredictCode(features map[string]float64) (int, error) {
	if len(m.Bias) == 0 || len(m.Bias) != len(m.Weights) {
		return 0, fmt.Errorf("linear_label: %d biases for %d weight sets", len(m.Bias), len(m.Weights))
	}
	best, bestScore := 0, math.Inf(-1)
	for c := range m.Bias {
		score := m.Bias[c]
		for k, w := range m.Weights[c] {
			score += w * features[k]
		}
		if score > bestScore {
			best, bestScore = c, score
		}
	}
	return best, nil
}
