// Package matrix 把 dataset.Store 物化为稠密矩阵：用户×景点评分矩阵和景点特征表。
//
// 两者都是自持有、可重建的结构：行/列 ID 数组 + 连续的 mat.Dense 缓冲区。
package matrix

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/dataset"
)

// RatingMatrix 是用户（行）× 景点（列）的稠密评分矩阵。
//
// 缺失评分在 values 中记为 0，是否评分由 present 标记决定，
// 因此真实的 0 分不会被当成"未评分"。
type RatingMatrix struct {
	users       []string
	attractions []string
	userIndex   map[string]int
	attrIndex   map[string]int
	values      *mat.Dense
	present     []bool // 行优先，长度 rows*cols
}

// BuildRatingMatrix 从 Store 构建评分矩阵。同一 (用户, 景点) 的重复记录取平均分。
func BuildRatingMatrix(s *dataset.Store) *RatingMatrix {
	users := s.Users()
	attractions := s.Attractions()

	m := &RatingMatrix{
		users:       users,
		attractions: attractions,
		userIndex:   indexOf(users),
		attrIndex:   indexOf(attractions),
	}

	rows, cols := len(users), len(attractions)
	sums := make([]float64, rows*cols)
	counts := make([]int, rows*cols)
	s.Each(func(in dataset.Interaction) bool {
		k := m.userIndex[in.UserID]*cols + m.attrIndex[in.AttractionID]
		sums[k] += in.Rating
		counts[k]++
		return true
	})

	m.present = make([]bool, rows*cols)
	for k, n := range counts {
		if n > 0 {
			sums[k] /= float64(n)
			m.present[k] = true
		}
	}
	m.values = mat.NewDense(rows, cols, sums)
	return m
}

func indexOf(ids []string) map[string]int {
	idx := make(map[string]int, len(ids))
	for i, id := range ids {
		idx[id] = i
	}
	return idx
}

// Dims 返回 (用户数, 景点数)。
func (m *RatingMatrix) Dims() (int, int) { return len(m.users), len(m.attractions) }

// Users 行 ID，按字典序。
func (m *RatingMatrix) Users() []string { return m.users }

// Attractions 列 ID，按字典序。
func (m *RatingMatrix) Attractions() []string { return m.attractions }

// UserIndex 返回用户所在行。
func (m *RatingMatrix) UserIndex(userID string) (int, bool) {
	i, ok := m.userIndex[userID]
	return i, ok
}

// AttractionIndex 返回景点所在列。
func (m *RatingMatrix) AttractionIndex(attractionID string) (int, bool) {
	j, ok := m.attrIndex[attractionID]
	return j, ok
}

// At 返回评分，未评分为 0。
func (m *RatingMatrix) At(i, j int) float64 { return m.values.At(i, j) }

// Rated 判断用户 i 是否评过景点 j。
func (m *RatingMatrix) Rated(i, j int) bool { return m.present[i*len(m.attractions)+j] }

// Values 以只读视图返回底层评分矩阵。
func (m *RatingMatrix) Values() mat.Matrix { return m.values }

// RatedBy 返回用户 i 评过的景点列下标（升序）。
func (m *RatingMatrix) RatedBy(i int) []int {
	cols := len(m.attractions)
	var out []int
	for j := 0; j < cols; j++ {
		if m.present[i*cols+j] {
			out = append(out, j)
		}
	}
	return out
}

// FeatureTable 是每个景点一行的数值特征表，行按景点 ID 字典序排列。
type FeatureTable struct {
	attractions []string
	index       map[string]int
	columns     []string
	raw         *mat.Dense
}

// BuildFeatureTable 从 Store 构建景点特征表。同一景点出现多次且特征不同时，保留最先出现的一行。
func BuildFeatureTable(s *dataset.Store) *FeatureTable {
	first := make(map[string][]float64)
	s.Each(func(in dataset.Interaction) bool {
		if _, ok := first[in.AttractionID]; !ok {
			first[in.AttractionID] = in.Features()
		}
		return true
	})

	attractions := make([]string, 0, len(first))
	for id := range first {
		attractions = append(attractions, id)
	}
	sort.Strings(attractions)

	cols := len(dataset.FeatureNames)
	data := make([]float64, 0, len(attractions)*cols)
	for _, id := range attractions {
		data = append(data, first[id]...)
	}

	return &FeatureTable{
		attractions: attractions,
		index:       indexOf(attractions),
		columns:     append([]string(nil), dataset.FeatureNames...),
		raw:         mat.NewDense(len(attractions), cols, data),
	}
}

// Attractions 行 ID，按字典序。
func (t *FeatureTable) Attractions() []string { return t.attractions }

// Columns 特征列名。
func (t *FeatureTable) Columns() []string { return t.columns }

// Index 返回景点所在行。
func (t *FeatureTable) Index(attractionID string) (int, bool) {
	i, ok := t.index[attractionID]
	return i, ok
}

// Raw 以只读视图返回未标准化的特征。
func (t *FeatureTable) Raw() mat.Matrix { return t.raw }
