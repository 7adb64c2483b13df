package matrix

import (
	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
	"github.com/rushteam/tourkit/feature"
)

// Standardized 返回按列 z-score 标准化后的特征矩阵（零均值、单位方差，总体标准差）。
func (t *FeatureTable) Standardized() (*mat.Dense, error) {
	n, err := feature.FitZScore(t.columns, t.raw)
	if err != nil {
		return nil, err
	}
	return n.Transform(t.columns, t.raw)
}

// Scaled 按 scaler 缩放特征矩阵：zscore（默认）或 minmax。
func (t *FeatureTable) Scaled(scaler string) (*mat.Dense, error) {
	switch scaler {
	case "", feature.ScalerZScore:
		return t.Standardized()
	case feature.ScalerMinMax:
		n, err := feature.FitMinMax(t.columns, t.raw)
		if err != nil {
			return nil, err
		}
		return n.Transform(t.columns, t.raw)
	default:
		return nil, core.Errorf(core.ModuleConfig, core.ErrorCodeInvalidInput, "unknown scaler %q", scaler)
	}
}
