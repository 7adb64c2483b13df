// Package dataset 加载并持有清洗后的用户-景点评分记录（RatingStore）。
//
// Store 在 Load 之后只读，可在多个 goroutine 间共享。
package dataset

// 数据集必需列
const (
	ColUserID           = "UserId"
	ColAttractionID     = "AttractionId"
	ColRating           = "Rating"
	ColAttractionTypeID = "AttractionTypeId"
	ColCityID           = "CityId"
	ColCountryID        = "CountryId"
)

// RequiredColumns 按固定顺序列出必需列。
var RequiredColumns = []string{
	ColUserID,
	ColAttractionID,
	ColRating,
	ColAttractionTypeID,
	ColCityID,
	ColCountryID,
}

// Interaction 是一条用户对景点的评分记录及景点属性。
type Interaction struct {
	UserID           string
	AttractionID     string
	Rating           float64
	AttractionTypeID int
	CityID           int
	CountryID        int
}

// Features 返回景点的数值特征向量 {AttractionTypeID, CityID, CountryID}。
func (in Interaction) Features() []float64 {
	return []float64{
		float64(in.AttractionTypeID),
		float64(in.CityID),
		float64(in.CountryID),
	}
}

// FeatureNames 与 Interaction.Features 的列顺序一致。
var FeatureNames = []string{ColAttractionTypeID, ColCityID, ColCountryID}
