package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"
)

var predictionLog = logger.New("Prediction")

// predictRequest 股票预测请求体
type predictRequest struct {
	Symbol string `json:"symbol"`
	Years  int    `json:"years"`
}

// PredictionService 股票预测协作方客户端
// 契约：POST /predict-stock {symbol, years} -> 序列与统计，或 {error, message}
type PredictionService struct {
	baseURL    string
	httpClient *http.Client
}

// NewPredictionService 创建股票预测客户端
func NewPredictionService(baseURL string) *PredictionService {
	return &PredictionService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Predict 请求一次股票价格预测
// 服务端上报的业务错误不作为 error 返回，由调用方检查 IsError
func (s *PredictionService) Predict(ctx context.Context, symbol string, years int) (*models.StockPrediction, error) {
	body, err := json.Marshal(predictRequest{Symbol: symbol, Years: years})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/predict-stock", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	predictionLog.Info("请求预测: symbol=%s years=%d", symbol, years)
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var prediction models.StockPrediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, fmt.Errorf("预测服务响应解析失败: %w", err)
	}

	// 非 200 且未携带业务错误时视为传输层失败
	if resp.StatusCode != http.StatusOK && !prediction.IsError() {
		return nil, fmt.Errorf("预测服务返回状态码 %d", resp.StatusCode)
	}
	return &prediction, nil
}
