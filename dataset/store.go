package dataset

import (
	"encoding/binary"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/rushteam/tourkit/core"
)

// Store 是只读的评分记录集合。
type Store struct {
	rows        []Interaction
	byUser      map[string][]int
	firstByAttr map[string]int
	users       []string
	attractions []string
	version     uint64
	dropped     int
}

// New 从已清洗的记录构建 Store。rows 为空时返回 DATA_ERROR。
func New(rows []Interaction) (*Store, error) {
	if len(rows) == 0 {
		return nil, core.Errorf(core.ModuleDataset, core.ErrorCodeDataError, "no usable rows")
	}

	s := &Store{
		rows:        make([]Interaction, len(rows)),
		byUser:      make(map[string][]int),
		firstByAttr: make(map[string]int),
	}
	copy(s.rows, rows)

	digest := xxhash.New()
	var buf [8]byte
	for i, in := range s.rows {
		if _, ok := s.byUser[in.UserID]; !ok {
			s.users = append(s.users, in.UserID)
		}
		s.byUser[in.UserID] = append(s.byUser[in.UserID], i)
		if _, ok := s.firstByAttr[in.AttractionID]; !ok {
			s.firstByAttr[in.AttractionID] = i
			s.attractions = append(s.attractions, in.AttractionID)
		}

		_, _ = digest.WriteString(in.UserID)
		_, _ = digest.WriteString("\x00")
		_, _ = digest.WriteString(in.AttractionID)
		_, _ = digest.WriteString("\x00")
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(in.Rating))
		_, _ = digest.Write(buf[:])
		for _, v := range []int{in.AttractionTypeID, in.CityID, in.CountryID} {
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			_, _ = digest.Write(buf[:])
		}
	}
	sort.Strings(s.users)
	sort.Strings(s.attractions)
	s.version = digest.Sum64()
	return s, nil
}

// All 返回全部记录（原始顺序）的副本。
func (s *Store) All() []Interaction {
	out := make([]Interaction, len(s.rows))
	copy(out, s.rows)
	return out
}

// Each 按原始顺序遍历记录，fn 返回 false 时停止。不复制。
func (s *Store) Each(fn func(Interaction) bool) {
	for _, in := range s.rows {
		if !fn(in) {
			return
		}
	}
}

// ForUser 返回用户的记录（原始顺序）；未知用户返回 nil。
func (s *Store) ForUser(userID string) []Interaction {
	idx := s.byUser[userID]
	if len(idx) == 0 {
		return nil
	}
	out := make([]Interaction, 0, len(idx))
	for _, i := range idx {
		out = append(out, s.rows[i])
	}
	return out
}

// HasUser 判断用户是否出现在数据集中。
func (s *Store) HasUser(userID string) bool {
	_, ok := s.byUser[userID]
	return ok
}

// Attraction 返回景点第一次出现的记录，用于读取景点属性。
func (s *Store) Attraction(attractionID string) (Interaction, bool) {
	i, ok := s.firstByAttr[attractionID]
	if !ok {
		return Interaction{}, false
	}
	return s.rows[i], true
}

// Users 返回去重后按字典序排列的用户 ID。
func (s *Store) Users() []string {
	out := make([]string, len(s.users))
	copy(out, s.users)
	return out
}

// Attractions 返回去重后按字典序排列的景点 ID。
func (s *Store) Attractions() []string {
	out := make([]string, len(s.attractions))
	copy(out, s.attractions)
	return out
}

// Len 记录条数。
func (s *Store) Len() int { return len(s.rows) }

// Dropped 加载时因缺值被丢弃的行数。
func (s *Store) Dropped() int { return s.dropped }

// Version 是数据内容的 xxhash64，用作派生矩阵缓存的 key。
func (s *Store) Version() string {
	return strconv.FormatUint(s.version, 16)
}
