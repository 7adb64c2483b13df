package feature

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// 特征缩放方式
const (
	ScalerZScore = "zscore"
	ScalerMinMax = "minmax"
)

// Normalizer 是特征归一化/标准化接口
type Normalizer interface {
	// Normalize 归一化特征
	Normalize(features map[string]float64) map[string]float64
}

// ZScoreNormalizer Z-score 标准化（Standardization）
// 公式: z = (x - μ) / σ，σ 为总体标准差（ddof=0）
// 特点: 均值变为 0，标准差变为 1；σ 为 0 的常量列统一变为 0
type ZScoreNormalizer struct {
	Mean map[string]float64 // 特征均值
	Std  map[string]float64 // 特征标准差
}

// NewZScoreNormalizer 创建 Z-score 标准化器
func NewZScoreNormalizer(mean, std map[string]float64) *ZScoreNormalizer {
	return &ZScoreNormalizer{
		Mean: mean,
		Std:  std,
	}
}

// FitZScore 按列拟合均值和总体标准差，names[j] 对应 data 的第 j 列。
func FitZScore(names []string, data mat.Matrix) (*ZScoreNormalizer, error) {
	r, c := data.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("feature: %d names for %d columns", len(names), c)
	}
	n := &ZScoreNormalizer{
		Mean: make(map[string]float64, c),
		Std:  make(map[string]float64, c),
	}
	col := make([]float64, r)
	for j, name := range names {
		mat.Col(col, j, data)
		mean, std := popMeanStd(col)
		n.Mean[name] = mean
		n.Std[name] = std
	}
	return n, nil
}

func popMeanStd(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	mean, variance := stat.MeanVariance(x, nil)
	// stat.MeanVariance 是无偏估计，换算为总体方差
	variance *= float64(len(x)-1) / float64(len(x))
	if variance <= 0 || math.IsNaN(variance) {
		return mean, 0
	}
	return mean, math.Sqrt(variance)
}

// Normalize 标准化特征
func (n *ZScoreNormalizer) Normalize(features map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(features))
	for k, v := range features {
		normalized[k] = n.NormalizeValueWithKey(k, v)
	}
	return normalized
}

// NormalizeValueWithKey 标准化单个值（指定特征名）
func (n *ZScoreNormalizer) NormalizeValueWithKey(key string, value float64) float64 {
	mean := n.Mean[key]
	std := n.Std[key]
	if std > 0 {
		return (value - mean) / std
	}
	return value - mean
}

// Transform 返回 data 按列标准化后的新矩阵，data 不变。
func (n *ZScoreNormalizer) Transform(names []string, data mat.Matrix) (*mat.Dense, error) {
	r, c := data.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("feature: %d names for %d columns", len(names), c)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return n.NormalizeValueWithKey(names[j], v)
	}, data)
	return out, nil
}

// MinMaxNormalizer Min-Max 归一化
// 公式: x' = (x - min) / (max - min)
// 特点: 将值缩放到 [0, 1] 区间
type MinMaxNormalizer struct {
	Min map[string]float64 // 特征最小值
	Max map[string]float64 // 特征最大值
}

// NewMinMaxNormalizer 创建 Min-Max 归一化器
func NewMinMaxNormalizer(min, max map[string]float64) *MinMaxNormalizer {
	return &MinMaxNormalizer{
		Min: min,
		Max: max,
	}
}

// FitMinMax 按列拟合最小值和最大值，names[j] 对应 data 的第 j 列。
func FitMinMax(names []string, data mat.Matrix) (*MinMaxNormalizer, error) {
	r, c := data.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("feature: %d names for %d columns", len(names), c)
	}
	n := &MinMaxNormalizer{
		Min: make(map[string]float64, c),
		Max: make(map[string]float64, c),
	}
	if r == 0 {
		return n, nil
	}
	col := make([]float64, r)
	for j, name := range names {
		mat.Col(col, j, data)
		n.Min[name] = floats.Min(col)
		n.Max[name] = floats.Max(col)
	}
	return n, nil
}

// Normalize 归一化特征
func (n *MinMaxNormalizer) Normalize(features map[string]float64) map[string]float64 {
	normalized := make(map[string]float64, len(features))
	for k, v := range features {
		normalized[k] = n.NormalizeValueWithKey(k, v)
	}
	return normalized
}

// NormalizeValueWithKey 归一化单个值（指定特征名）
func (n *MinMaxNormalizer) NormalizeValueWithKey(key string, value float64) float64 {
	lo := n.Min[key]
	rangeVal := n.Max[key] - lo
	if rangeVal > 0 {
		return (value - lo) / rangeVal
	}
	return 0
}

// Transform 返回 data 按列缩放到 [0, 1] 的新矩阵，常量列为 0。
func (n *MinMaxNormalizer) Transform(names []string, data mat.Matrix) (*mat.Dense, error) {
	r, c := data.Dims()
	if len(names) != c {
		return nil, fmt.Errorf("feature: %d names for %d columns", len(names), c)
	}
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return n.NormalizeValueWithKey(names[j], v)
	}, data)
	return out, nil
}

var (
	_ Normalizer = (*ZScoreNormalizer)(nil)
	_ Normalizer = (*MinMaxNormalizer)(nil)
)
