package handlers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tealeg/xlsx/v2"

	"example.com/advisor-planner/internal/auth"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/repository"
)

const (
	exportTypeSections = "sections"
	exportTypeSummary  = "summary"
)

const timeLayout = time.RFC3339

// ExportJSON выгружает план в JSON-файл.
func (h *PlanHandler) ExportJSON(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil || plan == nil {
		return err
	}

	filename := "plan-" + plan.ID.String() + ".json"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.JSON(http.StatusOK, plan)
}

// ExportCSV выгружает разделы или сводку плана в CSV-файл.
func (h *PlanHandler) ExportCSV(c echo.Context) error {
	exportType := strings.ToLower(strings.TrimSpace(c.QueryParam("type")))
	if exportType == "" {
		exportType = exportTypeSections
	}
	if exportType != exportTypeSections && exportType != exportTypeSummary {
		return badRequest(c, "invalid export type")
	}

	plan, err := h.loadPlan(c)
	if err != nil || plan == nil {
		return err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if exportType == exportTypeSummary {
		err = writeSummaryCSV(writer, *plan)
	} else {
		err = writeSectionsCSV(writer, *plan)
	}
	if err != nil {
		return serverError(c)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return serverError(c)
	}

	filename := "plan-" + plan.ID.String() + "-" + exportType + ".csv"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX выгружает сводку и рекомендации плана в XLSX-книгу.
func (h *PlanHandler) ExportXLSX(c echo.Context) error {
	plan, err := h.loadPlan(c)
	if err != nil || plan == nil {
		return err
	}

	file, err := buildWorkbook(*plan)
	if err != nil {
		return serverError(c)
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return serverError(c)
	}

	filename := "plan-" + plan.ID.String() + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=\""+filename+"\"")
	return c.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// loadPlan читает план консультанта; при ошибке ответ уже записан и план равен nil.
func (h *PlanHandler) loadPlan(c echo.Context) (*models.GeneratedPlan, error) {
	advisorID, ok := auth.AdvisorIDFromContext(c)
	if !ok {
		return nil, unauthorized(c)
	}

	planID, ok := parseIDParam(c, "id")
	if !ok {
		return nil, badRequest(c, "invalid plan id")
	}

	plan, err := h.Plans.GetByID(c.Request().Context(), advisorID, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, notFound(c, "plan not found")
		}
		return nil, serverError(c)
	}

	return &plan, nil
}

func writeSectionsCSV(writer *csv.Writer, plan models.GeneratedPlan) error {
	return writer.WriteAll(sectionRows(plan))
}

func writeSummaryCSV(writer *csv.Writer, plan models.GeneratedPlan) error {
	return writer.WriteAll(summaryRows(plan))
}

// buildWorkbook собирает книгу с листами сводки и рекомендаций.
func buildWorkbook(plan models.GeneratedPlan) (*xlsx.File, error) {
	file := xlsx.NewFile()

	sheets := []struct {
		name string
		rows [][]string
	}{
		{"Summary", summaryRows(plan)},
		{"Sections", sectionRows(plan)},
	}

	for _, s := range sheets {
		sheet, err := file.AddSheet(s.name)
		if err != nil {
			return nil, err
		}
		for _, values := range s.rows {
			row := sheet.AddRow()
			for _, value := range values {
				row.AddCell().SetString(value)
			}
		}
	}

	return file, nil
}

func sectionRows(plan models.GeneratedPlan) [][]string {
	rows := [][]string{{
		"plan_id",
		"plan_name",
		"client_name",
		"section_order",
		"section_title",
		"recommendation_order",
		"recommendation",
	}}

	for i, section := range plan.Sections {
		if len(section.Recommendations) == 0 {
			rows = append(rows, []string{plan.ID.String(), plan.PlanName, plan.ClientName, strconv.Itoa(i + 1), section.Title, "", ""})
			continue
		}

		for j, recommendation := range section.Recommendations {
			rows = append(rows, []string{
				plan.ID.String(),
				plan.PlanName,
				plan.ClientName,
				strconv.Itoa(i + 1),
				section.Title,
				strconv.Itoa(j + 1),
				recommendation,
			})
		}
	}

	return rows
}

func summaryRows(plan models.GeneratedPlan) [][]string {
	return [][]string{
		{"metric", "value"},
		{"plan_id", plan.ID.String()},
		{"plan_name", plan.PlanName},
		{"client_name", plan.ClientName},
		{"plan_type", string(plan.PlanType)},
		{"time_horizon_years", strconv.Itoa(plan.TimeHorizonYears)},
		{"risk_tier", string(plan.RiskTier)},
		{"current_net_worth", formatAmount(plan.Summary.CurrentNetWorth)},
		{"projected_net_worth", formatAmount(plan.Summary.ProjectedNetWorth)},
		{"monthly_surplus", formatAmount(plan.Summary.MonthlySurplus)},
		{"risk_score", strconv.Itoa(plan.Summary.RiskScore)},
		{"completion_score", strconv.Itoa(plan.Completion.Score)},
		{"financial_source", plan.FinancialSource},
		{"risk_source", plan.RiskSource},
		{"generated_at", plan.GeneratedAt.Format(timeLayout)},
	}
}

func formatAmount(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
