package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rushteam/tourkit/core"
)

// LoadOption 加载选项
type LoadOption func(*loadOptions)

type loadOptions struct {
	logger    zerolog.Logger
	delimiter rune
}

// WithLogger 记录被丢弃的行（debug）和加载摘要（info）。
func WithLogger(l zerolog.Logger) LoadOption {
	return func(o *loadOptions) { o.logger = l }
}

// WithDelimiter 设置分隔符，默认 ','。
func WithDelimiter(r rune) LoadOption {
	return func(o *loadOptions) { o.delimiter = r }
}

// Load 从 CSV 文件加载数据集。
func Load(path string, opts ...LoadOption) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	s, err := LoadReader(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return s, nil
}

// LoadReader 从带表头的 CSV 流加载数据集。
//
// 缺少必需列、文件为空、或清洗后没有剩余行时返回 DATA_ERROR，且不返回部分结果。
// 任一必需列为空 / NaN / 无法解析的行会被丢弃。
func LoadReader(r io.Reader, opts ...LoadOption) (*Store, error) {
	o := loadOptions{logger: zerolog.Nop(), delimiter: ','}
	for _, opt := range opts {
		opt(&o)
	}

	cr := csv.NewReader(r)
	cr.Comma = o.delimiter
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError, "empty dataset")
	}
	if err != nil {
		return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError, "read header: %v", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var (
		rows    []Interaction
		dropped int
		line    = 1
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError, "line %d: %v", line, err)
		}

		in, reason := parseRow(record, cols)
		if reason != "" {
			dropped++
			o.logger.Debug().Int("line", line).Str("reason", reason).Msg("drop incomplete row")
			continue
		}
		rows = append(rows, in)
	}

	if len(rows) == 0 {
		return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError,
			"all %d rows dropped after removing incomplete records", dropped)
	}

	s, err := New(rows)
	if err != nil {
		return nil, err
	}
	s.dropped = dropped

	o.logger.Info().
		Int("rows", s.Len()).
		Int("dropped", dropped).
		Int("users", len(s.users)).
		Int("attractions", len(s.attractions)).
		Str("version", s.Version()).
		Msg("dataset loaded")
	return s, nil
}

// columnIndex 必需列在表头中的位置
type columnIndex struct {
	user, attraction, rating, attractionType, city, country int
}

func resolveColumns(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, ok := pos[h]; !ok {
			pos[h] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := pos[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}
	cols := columnIndex{
		user:           lookup(ColUserID),
		attraction:     lookup(ColAttractionID),
		rating:         lookup(ColRating),
		attractionType: lookup(ColAttractionTypeID),
		city:           lookup(ColCityID),
		country:        lookup(ColCountryID),
	}
	if len(missing) > 0 {
		return cols, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError,
			"missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(record []string, cols columnIndex) (Interaction, string) {
	field := func(i int) (string, bool) {
		if i >= len(record) {
			return "", false
		}
		v := strings.TrimSpace(record[i])
		return v, !isMissing(v)
	}

	var in Interaction
	var ok bool

	if in.UserID, ok = field(cols.user); !ok {
		return in, "missing " + ColUserID
	}
	in.UserID = NormalizeID(in.UserID)

	if in.AttractionID, ok = field(cols.attraction); !ok {
		return in, "missing " + ColAttractionID
	}
	in.AttractionID = NormalizeID(in.AttractionID)

	raw, ok := field(cols.rating)
	if !ok {
		return in, "missing " + ColRating
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		return in, "invalid " + ColRating
	}
	in.Rating = rating

	codes := []struct {
		name string
		idx  int
		dst  *int
	}{
		{ColAttractionTypeID, cols.attractionType, &in.AttractionTypeID},
		{ColCityID, cols.city, &in.CityID},
		{ColCountryID, cols.country, &in.CountryID},
	}
	for _, c := range codes {
		raw, ok := field(c.idx)
		if !ok {
			return in, "missing " + c.name
		}
		v, ok := parseCode(raw)
		if !ok {
			return in, "invalid " + c.name
		}
		*c.dst = v
	}
	return in, ""
}

// isMissing 与 pandas 默认的 NA 字面量保持一致的子集。
func isMissing(v string) bool {
	switch strings.ToLower(v) {
	case "", "nan", "na", "n/a", "null", "none", "<na>":
		return true
	}
	return false
}

func parseCode(raw string) (int, bool) {
	if v, err := strconv.Atoi(raw); err == nil {
		return v, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// NormalizeID 统一 ID 的字符串形式：整数值的浮点写法（"12.0"）规整为 "12"。
func NormalizeID(raw string) string {
	raw = strings.TrimSpace(raw)
	if _, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return raw
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) >= 1<<53 {
		return raw
	}
	return strconv.FormatInt(int64(f), 10)
}
