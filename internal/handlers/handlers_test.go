package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"example.com/advisor-planner/internal/calculator"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/planner"
	"example.com/advisor-planner/internal/risk"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	return e
}

func postJSON(t *testing.T, handler echo.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	e := newTestEcho()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	if err := handler(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	return rec
}

// TestCalculateSipHandler проверяет расчет SIP через HTTP.
func TestCalculateSipHandler(t *testing.T) {
	rec := postJSON(t, CalculateSip, `{"monthly_investment":5000,"annual_return_rate":12,"years":10}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result calculator.SipResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MaturityValue != 1161695 || result.TotalInvested != 600000 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

// TestCalculateSipHandlerRejectsNegative проверяет отказ на отрицательный взнос.
func TestCalculateSipHandlerRejectsNegative(t *testing.T) {
	rec := postJSON(t, CalculateSip, `{"monthly_investment":-1,"annual_return_rate":12,"years":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestCalculateEmiHandler проверяет расчет платежа по кредиту.
func TestCalculateEmiHandler(t *testing.T) {
	rec := postJSON(t, CalculateEmi, `{"principal":1000000,"annual_interest_rate":9,"years":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var result calculator.EmiResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.MonthlyPayment != 8997 || result.TotalPayment != 2159280 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

// TestCalculateEmiHandlerRequiresTenure проверяет, что нулевой срок отклоняется.
func TestCalculateEmiHandlerRequiresTenure(t *testing.T) {
	rec := postJSON(t, CalculateEmi, `{"principal":1000000,"annual_interest_rate":9,"years":0}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestCalculateLumpsumHandlerInvalidPayload проверяет ответ на битый JSON.
func TestCalculateLumpsumHandlerInvalidPayload(t *testing.T) {
	rec := postJSON(t, CalculateLumpsum, `{"principal":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestProjectNetWorthDefaultsTier проверяет прогноз с умеренным профилем по умолчанию.
func TestProjectNetWorthDefaultsTier(t *testing.T) {
	body := `{"monthly_income":50000,"monthly_expenses":30000,"total_assets":100000,"total_liabilities":50000,"horizon_years":10}`
	rec := postJSON(t, ProjectNetWorth, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ProjectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.RiskTier != models.RiskTierModerate || response.ExpectedReturn != 0.10 {
		t.Fatalf("unexpected tier: %+v", response)
	}
	if response.Summary.ProjectedNetWorth != 3954669 || response.Summary.RiskScore != risk.DefaultScore {
		t.Fatalf("unexpected summary: %+v", response.Summary)
	}
	if response.AnnualIncome != 600000 || response.AnnualExpenses != 360000 {
		t.Fatalf("unexpected annual figures: %+v", response)
	}
}

// TestProjectNetWorthKeepsZeroRiskScore проверяет, что явный нулевой балл не заменяется значением по умолчанию.
func TestProjectNetWorthKeepsZeroRiskScore(t *testing.T) {
	cases := []struct {
		body string
		want int
	}{
		{body: `{"monthly_income":50000,"horizon_years":5,"risk_score":0}`, want: 0},
		{body: `{"monthly_income":50000,"horizon_years":5,"risk_score":14}`, want: 14},
		{body: `{"monthly_income":50000,"horizon_years":5}`, want: risk.DefaultScore},
	}

	for _, tc := range cases {
		rec := postJSON(t, ProjectNetWorth, tc.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d: %s", tc.body, rec.Code, rec.Body.String())
		}

		var response ProjectionResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if response.Summary.RiskScore != tc.want {
			t.Fatalf("expected risk score %d for %s, got %d", tc.want, tc.body, response.Summary.RiskScore)
		}
	}

	if rec := postJSON(t, ProjectNetWorth, `{"monthly_income":1,"risk_score":21}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out of range score, got %d", rec.Code)
	}
}

// TestClassifyWithoutClient проверяет классификацию анкеты без сохранения.
func TestClassifyWithoutClient(t *testing.T) {
	h := NewRiskHandler(nil, nil)
	body := `{"answers":{"age":"under_30","investment_horizon":"very_long","market_drop":"buy_more","primary_goal":"growth","experience":"equities"}}`

	rec := postJSON(t, h.Classify, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var response ClassifyResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if response.Classification.Score != 20 || response.Classification.Tier != models.RiskTierVeryAggressive {
		t.Fatalf("unexpected classification: %+v", response.Classification)
	}
	if response.Profile != nil {
		t.Fatal("expected no stored profile")
	}
}

// TestClassifyRequiresAnswers проверяет валидацию пустой анкеты.
func TestClassifyRequiresAnswers(t *testing.T) {
	h := NewRiskHandler(nil, nil)

	rec := postJSON(t, h.Classify, `{"answers":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

// TestQuestionnaireHandler проверяет выдачу вопросов анкеты.
func TestQuestionnaireHandler(t *testing.T) {
	e := newTestEcho()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	h := NewRiskHandler(nil, nil)
	if err := h.Questionnaire(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var response map[string][]risk.Question
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(response["questions"]) != 5 {
		t.Fatalf("expected 5 questions, got %d", len(response["questions"]))
	}
}

// TestGenerateRequiresAdvisor проверяет, что без консультанта план не строится.
func TestGenerateRequiresAdvisor(t *testing.T) {
	h := NewPlanHandler(nil, nil, nil, nil)

	rec := postJSON(t, h.Generate, `{"client_id":"`+uuid.NewString()+`","time_horizon_years":10}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(ctx context.Context) error {
	return p.err
}

// TestHealth проверяет статус при доступной и недоступной базе.
func TestHealth(t *testing.T) {
	e := newTestEcho()

	rec := httptest.NewRecorder()
	if err := NewHealthHandler(fakePinger{}).Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	if err := NewHealthHandler(fakePinger{err: errors.New("down")}).Health(e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

// TestToPlanInput проверяет перенос полей запроса во вход сборщика.
func TestToPlanInput(t *testing.T) {
	clientID := uuid.New()

	input, err := toPlanInput(GeneratePlanRequest{
		ClientID:          clientID.String(),
		PlanName:          "  Family plan ",
		PlanType:          "tax",
		ReportTemplate:    "executive",
		TimeHorizonYears:  15,
		RiskToleranceHint: "aggressive",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := models.PlanInput{
		ClientID:          clientID,
		PlanName:          "Family plan",
		PlanType:          models.PlanTypeTax,
		ReportTemplate:    models.ReportTemplateExecutive,
		TimeHorizonYears:  15,
		RiskToleranceHint: models.RiskTierAggressive,
	}
	if input != want {
		t.Fatalf("expected %+v, got %+v", want, input)
	}

	if _, err := toPlanInput(GeneratePlanRequest{ClientID: "nope"}); err == nil {
		t.Fatal("expected error for invalid client id")
	}
}

// TestPlanErrorMapping проверяет коды ответов для ошибок сборщика.
func TestPlanErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: 42", planner.ErrClientNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: bad horizon", planner.ErrInvalidInput), http.StatusBadRequest},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}

	e := newTestEcho()
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		if err := planError(e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec), tc.err); err != nil {
			t.Fatalf("planError returned error: %v", err)
		}
		if rec.Code != tc.want {
			t.Fatalf("error %v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

func samplePlan() models.GeneratedPlan {
	return models.GeneratedPlan{
		ID:               uuid.MustParse("7b0f5c3e-1d1a-4f51-9a51-6d3f8a2b9c10"),
		ClientName:       "Asha Rao",
		PlanName:         "Comprehensive Financial Plan",
		PlanType:         models.PlanTypeComprehensive,
		TimeHorizonYears: 10,
		RiskTier:         models.RiskTierModerate,
		FinancialSource:  string(planner.SourceDefaulted),
		RiskSource:       string(planner.SourcePresent),
		Sections: []models.PlanSection{
			{Title: "Current Financial Position", Content: "text", Recommendations: []string{"first", "second, with comma"}},
			{Title: "Investment Strategy", Content: "text"},
		},
		Summary:     models.PlanSummary{CurrentNetWorth: 50000, ProjectedNetWorth: 3954669, MonthlySurplus: 20000, RiskScore: 5},
		Completion:  models.CompletionAssessment{Score: 40, MayProceed: true},
		GeneratedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// TestWriteSectionsCSV проверяет строки рекомендаций в CSV.
func TestWriteSectionsCSV(t *testing.T) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writeSectionsCSV(writer, samplePlan()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	writer.Flush()

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(records))
	}
	if records[2][6] != "second, with comma" || records[2][5] != "2" {
		t.Fatalf("unexpected recommendation row: %v", records[2])
	}
	if records[3][4] != "Investment Strategy" || records[3][6] != "" {
		t.Fatalf("unexpected empty section row: %v", records[3])
	}
}

// TestWriteSummaryCSV проверяет сводку плана в CSV.
func TestWriteSummaryCSV(t *testing.T) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	if err := writeSummaryCSV(writer, samplePlan()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	values := make(map[string]string, len(records))
	for _, record := range records {
		values[record[0]] = record[1]
	}

	if values["projected_net_worth"] != "3954669" {
		t.Fatalf("unexpected projected net worth: %q", values["projected_net_worth"])
	}
	if values["financial_source"] != "defaulted" || values["generated_at"] != "2024-03-01T10:00:00Z" {
		t.Fatalf("unexpected summary values: %v", values)
	}
}

// TestBuildWorkbook проверяет листы XLSX-выгрузки.
func TestBuildWorkbook(t *testing.T) {
	file, err := buildWorkbook(samplePlan())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(file.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(file.Sheets))
	}

	sections, ok := file.Sheet["Sections"]
	if !ok {
		t.Fatal("expected Sections sheet")
	}
	if len(sections.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(sections.Rows))
	}
	if got := sections.Rows[1].Cells[6].String(); got != "first" {
		t.Fatalf("expected first recommendation, got %q", got)
	}
}
