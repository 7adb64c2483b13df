package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rushteam/tourkit/core"
)

// RPCModel 通过 HTTP 调用外部模型服务，同时实现 RatingPredictor 和 LabelPredictor。
// 分类服务返回的分数即类别编码。
type RPCModel struct {
	name     string
	Endpoint string // 例如 "http://localhost:8080/predict"
	Timeout  time.Duration
	Client   *http.Client
}

func NewRPCModel(name, endpoint string, timeout time.Duration) *RPCModel {
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &RPCModel{
		name:     name,
		Endpoint: endpoint,
		Timeout:  timeout,
		Client:   &http.Client{Timeout: timeout},
	}
}

func (m *RPCModel) Name() string {
	return m.name
}

func (m *RPCModel) PredictRating(features map[string]float64) (float64, error) {
	scores, err := m.PredictBatch([]map[string]float64{features})
	if err != nil {
		return 0, err
	}
	return scores[0], nil
}

func (m *RPCModel) PredictCode(features map[string]float64) (int, error) {
	score, err := m.PredictRating(features)
	if err != nil {
		return 0, err
	}
	code := math.Round(score)
	if code != score || code < 0 {
		return 0, fmt.Errorf("rpc: %v is not a class code", score)
	}
	return int(code), nil
}

// PredictBatch 批量预测。
// 请求：{"features_list": [{"VisitMonth": 7, ...}, ...]}
// 响应：{"scores": [4.2, ...]}
func (m *RPCModel) PredictBatch(featuresList []map[string]float64) ([]float64, error) {
	if len(featuresList) == 0 {
		return []float64{}, nil
	}
	if m.Client == nil {
		m.Client = &http.Client{Timeout: m.Timeout}
	}

	body, err := json.Marshal(map[string]any{"features_list": featuresList})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequest(http.MethodPost, m.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return nil, core.Errorf(core.ModuleModel, core.ErrorCodeUnavailable, "rpc call: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return nil, core.Errorf(core.ModuleModel, core.ErrorCodeUnavailable, "rpc status=%d body=%s", resp.StatusCode, msg)
	}

	var result struct {
		Scores []float64 `json:"scores"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Scores) != len(featuresList) {
		return nil, fmt.Errorf("response scores count mismatch: expected %d, got %d", len(featuresList), len(result.Scores))
	}
	return result.Scores, nil
}
