package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/run-bigpig/pensionpal/internal/logger"
	"github.com/run-bigpig/pensionpal/internal/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var dashboardLog = logger.New("Dashboard")

// ErrNoProjection 预测服务未返回有效结果
var ErrNoProjection = errors.New("未生成退休金预测，请先完善用户画像")

// DashboardMetrics 仪表盘指标（含格式化后的展示串）
type DashboardMetrics struct {
	Projection       *models.RetirementProjection `json:"projection"`
	BalanceDisplay   string                       `json:"balanceDisplay"`
	ReturnDisplay    string                       `json:"returnDisplay"`
	IncomeDisplay    string                       `json:"incomeDisplay"`
	YearsToRetire    int                          `json:"yearsToRetire"`
}

// DashboardService 退休金预测仪表盘服务
// 预测本身由远程协作方完成，这里只做请求编排与展示格式化
type DashboardService struct {
	baseURL    string
	httpClient *http.Client
	printer    *message.Printer
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(baseURL string) *DashboardService {
	return &DashboardService{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		printer: message.NewPrinter(language.English),
	}
}

// GetMetrics 拉取退休金预测并生成仪表盘指标
func (s *DashboardService) GetMetrics(ctx context.Context, profile models.UserProfile) (*DashboardMetrics, error) {
	projection, err := s.fetchProjection(ctx, profile)
	if err != nil {
		return nil, err
	}

	years := projection.YearsToRetirement
	if years == 0 && profile.RetirementAgeGoal > profile.Age {
		years = profile.RetirementAgeGoal - profile.Age
	}

	return &DashboardMetrics{
		Projection:     projection,
		BalanceDisplay: s.FormatCurrency(projection.ProjectedFinalBalance, "AUD"),
		ReturnDisplay:  FormatPercentage(projection.ExpectedAnnualReturn, 1),
		IncomeDisplay:  s.FormatCurrency(projection.MonthlyIncome, "AUD"),
		YearsToRetire:  years,
	}, nil
}

// fetchProjection 调用养老金预测协作方
func (s *DashboardService) fetchProjection(ctx context.Context, profile models.UserProfile) (*models.RetirementProjection, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/api/superannuation-predictions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("预测服务返回状态码 %d", resp.StatusCode)
	}

	var parsed models.SuperannuationResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("预测响应解析失败: %w", err)
	}
	if parsed.Predictions == nil {
		dashboardLog.Warn("预测服务未返回 predictions: %s", parsed.Error)
		return nil, ErrNoProjection
	}
	return parsed.Predictions, nil
}

// FormatCurrency 金额展示格式化：百万级 $1.2M，千级 $45K，其余带千分位
func (s *DashboardService) FormatCurrency(amount float64, currency string) string {
	switch {
	case amount >= 1_000_000:
		return s.printer.Sprintf("$%.1fM %s", amount/1_000_000, currency)
	case amount >= 1_000:
		return s.printer.Sprintf("$%.0fK %s", amount/1_000, currency)
	default:
		return s.printer.Sprintf("$%v %s", number.Decimal(amount, number.MaxFractionDigits(0)), currency)
	}
}

// FormatPercentage 比率展示格式化，rate 为小数（0.07 -> "7.0%"）
func FormatPercentage(rate float64, decimals int) string {
	return fmt.Sprintf("%.*f%%", decimals, rate*100)
}
