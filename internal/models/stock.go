package models

// PredictionStats 股票预测统计指标
type PredictionStats struct {
	CurrentPrice     float64 `json:"current_price"`
	FinalPrice       float64 `json:"final_price"`
	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	Volatility       float64 `json:"volatility"`
	MaxDrawdown      float64 `json:"max_drawdown"`
}

// StockPrediction 股票预测服务响应
// 正常响应携带历史与预测序列；失败时 Error/Message 非空，其余字段为零值
type StockPrediction struct {
	HistoricalDates   []string        `json:"historical_dates,omitempty"`
	HistoricalPrices  []float64       `json:"historical_prices,omitempty"`
	FutureDates       []string        `json:"future_dates,omitempty"`
	FuturePredictions []float64       `json:"future_predictions,omitempty"`
	UncertaintyUpper  []float64       `json:"uncertainty_upper,omitempty"`
	UncertaintyLower  []float64       `json:"uncertainty_lower,omitempty"`
	Stats             PredictionStats `json:"stats,omitempty"`
	Error             string          `json:"error,omitempty"`
	Message           string          `json:"message,omitempty"`
}

// IsError 判断响应是否为服务端上报的业务错误
func (p *StockPrediction) IsError() bool {
	return p.Error != ""
}
