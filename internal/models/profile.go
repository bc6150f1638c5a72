package models

// UserProfile 用户画像（养老金预测服务的请求字段）
type UserProfile struct {
	Username          string  `json:"username,omitempty"`
	Age               int     `json:"age"`
	AnnualIncome      float64 `json:"annual_income"`
	CurrentSavings    float64 `json:"current_savings"`
	RetirementAgeGoal int     `json:"retirement_age_goal"`
	RiskTolerance     string  `json:"risk_tolerance"`
	Gender            string  `json:"gender,omitempty"`
	Country           string  `json:"country,omitempty"`
	EmploymentStatus  string  `json:"employment_status,omitempty"`
	MaritalStatus     string  `json:"marital_status,omitempty"`
	Dependents        int     `json:"dependents"`
}

// ToMap 转为会话用户数据键值对，零值字段不输出
func (p UserProfile) ToMap() map[string]any {
	m := make(map[string]any)
	if p.Age > 0 {
		m["age"] = p.Age
	}
	if p.AnnualIncome > 0 {
		m["annual_income"] = p.AnnualIncome
	}
	if p.CurrentSavings > 0 {
		m["current_savings"] = p.CurrentSavings
	}
	if p.RetirementAgeGoal > 0 {
		m["retirement_age_goal"] = p.RetirementAgeGoal
	}
	if p.RiskTolerance != "" {
		m["risk_tolerance"] = p.RiskTolerance
	}
	if p.Gender != "" {
		m["gender"] = p.Gender
	}
	if p.Country != "" {
		m["country"] = p.Country
	}
	if p.EmploymentStatus != "" {
		m["employment_status"] = p.EmploymentStatus
	}
	if p.MaritalStatus != "" {
		m["marital_status"] = p.MaritalStatus
	}
	if p.Dependents > 0 {
		m["dependents"] = p.Dependents
	}
	return m
}

// PortfolioEvaluation 投资组合评估结果
type PortfolioEvaluation struct {
	ExpectedAnnualReturn float64 `json:"expected_annual_return"`
	EstimatedVolatility  float64 `json:"estimated_volatility"`
	SuitabilityRating    string  `json:"suitability_rating,omitempty"`
}

// RetirementProjection 退休金预测结果
type RetirementProjection struct {
	ProjectedFinalBalance float64              `json:"projected_final_balance"`
	ExpectedAnnualReturn  float64              `json:"expected_annual_return"`
	MonthlyIncome         float64              `json:"monthly_retirement_income,omitempty"`
	YearsToRetirement     int                  `json:"years_to_retirement,omitempty"`
	PortfolioEvaluation   *PortfolioEvaluation `json:"portfolio_evaluation,omitempty"`
}

// SuperannuationResponse 养老金预测服务响应外层
type SuperannuationResponse struct {
	Predictions *RetirementProjection `json:"predictions,omitempty"`
	Error       string                `json:"error,omitempty"`
}
