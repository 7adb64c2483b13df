package model

import (
	"github.com/rushteam/tourkit/feature"
)

// VisitModePredictor 把 LabelPredictor 的编码输出解码为出行方式（Business / Couples / ...）。
type VisitModePredictor struct {
	Model   LabelPredictor
	Encoder *feature.CategoryEncoder

	// Field 是词表中的目标字段，默认 feature.FieldVisitMode
	Field string
}

func (p *VisitModePredictor) field() string {
	if p.Field == "" {
		return feature.FieldVisitMode
	}
	return p.Field
}

// Predict 由数值特征预测出行方式。
func (p *VisitModePredictor) Predict(features map[string]float64) (string, error) {
	code, err := p.Model.PredictCode(features)
	if err != nil {
		return "", err
	}
	return p.Encoder.Decode(p.field(), code)
}

// PredictRaw 先用词表编码类别特征（Continent、CityName 等），与数值特征合并后预测。
func (p *VisitModePredictor) PredictRaw(numeric map[string]float64, categorical map[string]string) (string, error) {
	encoded, err := p.Encoder.EncodeFeatures(categorical)
	if err != nil {
		return "", err
	}
	features := make(map[string]float64, len(numeric)+len(encoded))
	for k, v := range numeric {
		features[k] = v
	}
	for k, v := range encoded {
		features[k] = v
	}
	return p.Predict(features)
}
