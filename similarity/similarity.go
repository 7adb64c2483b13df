// Package similarity 计算稠密矩阵行与行之间的相似度矩阵，协同过滤和内容推荐共用。
package similarity

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/rushteam/tourkit/core"
)

// 相似度度量名称
const (
	MetricCosine  = "cosine"
	MetricPearson = "pearson"
)

// Compute 按度量名称计算行相似度矩阵，metric 为空时使用 cosine。
func Compute(metric string, m mat.Matrix) (*mat.Dense, error) {
	switch metric {
	case "", MetricCosine:
		return Cosine(m), nil
	case MetricPearson:
		return Pearson(m), nil
	default:
		return nil, core.Errorf(core.ModuleSimilarity, core.ErrorCodeInvalidInput, "unknown metric %q", metric)
	}
}

// Cosine 计算 N×M 矩阵行之间的余弦相似度，返回 N×N 对称矩阵。
//
//	sim[i][j] = dot(row_i, row_j) / (||row_i|| * ||row_j||)
//
// 零范数行与任何行（包括自身）的相似度都是 0；其余行的对角线恰为 1。
func Cosine(m mat.Matrix) *mat.Dense {
	n, _ := m.Dims()

	// gram = m * m^T，SymDense 保证对称
	var gram mat.SymDense
	gram.SymOuterK(1, m)

	norms := make([]float64, n)
	for i := range norms {
		norms[i] = math.Sqrt(gram.At(i, i))
	}

	sim := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		sim.Set(i, i, 1)
		for j := i + 1; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			v := clamp(gram.At(i, j) / (norms[i] * norms[j]))
			sim.Set(i, j, v)
			sim.Set(j, i, v)
		}
	}
	return sim
}

// Pearson 先按行去均值再求余弦，即行之间的皮尔逊相关系数。
// 常量行（方差为 0）按零范数处理。
func Pearson(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	centered := mat.NewDense(r, c, nil)
	centered.Copy(m)

	row := make([]float64, c)
	for i := 0; i < r; i++ {
		mat.Row(row, i, centered)
		var mean float64
		for _, v := range row {
			mean += v
		}
		mean /= float64(c)
		for j := range row {
			row[j] -= mean
		}
		centered.SetRow(i, row)
	}
	return Cosine(centered)
}

// Row 返回相似度矩阵第 i 行的副本。
func Row(sim mat.Matrix, i int) []float64 {
	return mat.Row(nil, i, sim)
}

func clamp(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
