package feature

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/rushteam/tourkit/core"
)

// 常用的类别字段
const (
	FieldContinent      = "Continent"
	FieldRegion         = "Region"
	FieldCountry        = "Country"
	FieldCityName       = "CityName"
	FieldAttractionType = "AttractionType"
	FieldVisitMode      = "VisitMode"
)

// Encoder 把类别特征编码为数值特征。
type Encoder interface {
	// EncodeWithKey 编码单个值（指定特征名）
	EncodeWithKey(key string, value string) (int, error)
	// EncodeFeatures 批量编码，返回 特征名 → 编码值
	EncodeFeatures(features map[string]string) (map[string]float64, error)
}

// CategoryEncoder 是固定词表的双向类别编码器。
// 每个字段的类别去重后按字典序排列，编码即下标（与 LabelEncoder 一致）。
type CategoryEncoder struct {
	classes map[string][]string
	index   map[string]map[string]int
}

// NewCategoryEncoder 由 字段 → 类别列表 构建编码器，类别会被排序去重。
func NewCategoryEncoder(vocab map[string][]string) *CategoryEncoder {
	e := &CategoryEncoder{
		classes: make(map[string][]string, len(vocab)),
		index:   make(map[string]map[string]int, len(vocab)),
	}
	for field, labels := range vocab {
		sorted := append([]string(nil), labels...)
		sort.Strings(sorted)
		uniq := make([]string, 0, len(sorted))
		for _, l := range sorted {
			if n := len(uniq); n > 0 && uniq[n-1] == l {
				continue
			}
			uniq = append(uniq, l)
		}
		idx := make(map[string]int, len(uniq))
		for i, l := range uniq {
			idx[l] = i
		}
		e.classes[field] = uniq
		e.index[field] = idx
	}
	return e
}

func unknown(format string, args ...any) error {
	return core.Errorf(core.ModuleEncoder, core.ErrorCodeUnknownCategory, format, args...)
}

// Encode 返回 label 在字段词表中的编码。
func (e *CategoryEncoder) Encode(field, label string) (int, error) {
	idx, ok := e.index[field]
	if !ok {
		return 0, unknown("unknown field %q", field)
	}
	code, ok := idx[label]
	if !ok {
		return 0, unknown("%s: unknown label %q", field, label)
	}
	return code, nil
}

// Decode 返回编码对应的类别。
func (e *CategoryEncoder) Decode(field string, code int) (string, error) {
	classes, ok := e.classes[field]
	if !ok {
		return "", unknown("unknown field %q", field)
	}
	if code < 0 || code >= len(classes) {
		return "", unknown("%s: code %d out of range [0, %d)", field, code, len(classes))
	}
	return classes[code], nil
}

// Classes 返回字段的类别列表（已排序），字段不存在时为 nil。
func (e *CategoryEncoder) Classes(field string) []string {
	classes, ok := e.classes[field]
	if !ok {
		return nil
	}
	return append([]string(nil), classes...)
}

// Fields 返回所有字段名（排序）。
func (e *CategoryEncoder) Fields() []string {
	fields := make([]string, 0, len(e.classes))
	for f := range e.classes {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func (e *CategoryEncoder) EncodeWithKey(key string, value string) (int, error) {
	return e.Encode(key, value)
}

// EncodeFeatures 批量编码，任一值未知即返回错误。
func (e *CategoryEncoder) EncodeFeatures(features map[string]string) (map[string]float64, error) {
	out := make(map[string]float64, len(features))
	for k, v := range features {
		code, err := e.Encode(k, v)
		if err != nil {
			return nil, err
		}
		out[k] = float64(code)
	}
	return out, nil
}

// LoadVocabulary 从 YAML 文件加载词表：
//
//	VisitMode: [Business, Couples, Family, Friends]
//	Continent: [Africa, America, Asia]
func LoadVocabulary(path string) (*CategoryEncoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.Errorf(core.ModuleEncoder, core.ErrorCodeNotFound, "read %s: %v", path, err)
	}
	var vocab map[string][]string
	if err := yaml.Unmarshal(data, &vocab); err != nil {
		return nil, core.Errorf(core.ModuleEncoder, core.ErrorCodeInvalidInput, "parse %s: %v", path, err)
	}
	return NewCategoryEncoder(vocab), nil
}

// SaveVocabulary 把词表写入 YAML 文件。
func (e *CategoryEncoder) SaveVocabulary(path string) error {
	data, err := yaml.Marshal(e.classes)
	if err != nil {
		return fmt.Errorf("marshal vocabulary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
