// Package model 定义预训练预测器的最小抽象。
// 模型训练不在本仓库内，这里只负责加载参数或调用远程服务进行预测。
package model

// RatingPredictor 输入特征，输出预测评分。
type RatingPredictor interface {
	Name() string
	PredictRating(features map[string]float64) (float64, error)
}

// LabelPredictor 输入特征，输出类别编码（由 feature.CategoryEncoder 解码）。
type LabelPredictor interface {
	Name() string
	PredictCode(features map[string]float64) (int, error)
}
