package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"example.com/advisor-planner/internal/completion"
	"example.com/advisor-planner/internal/models"
	"example.com/advisor-planner/internal/projection"
	"example.com/advisor-planner/internal/repository"
)

type ClientReader interface {
	GetByID(ctx context.Context, clientID uuid.UUID) (models.ClientRecord, error)
}

type FinancialReader interface {
	GetByClientID(ctx context.Context, clientID uuid.UUID) (models.FinancialSnapshot, error)
}

type RiskReader interface {
	GetByClientID(ctx context.Context, clientID uuid.UUID) (models.RiskProfile, error)
}

type Assembler struct {
	clients    ClientReader
	financials FinancialReader
	risks      RiskReader
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// inputs хранит результат трех чтений до подстановки значений по умолчанию.
type inputs struct {
	client    models.ClientRecord
	financial *models.FinancialSnapshot
	risk      *models.RiskProfile
}

// NewAssembler создает сборщик финансовых планов.
func NewAssembler(clients ClientReader, financials FinancialReader, risks RiskReader, opts Options, logger *slog.Logger) (*Assembler, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("planner options: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Assembler{
		clients:    clients,
		financials: financials,
		risks:      risks,
		opts:       opts,
		logger:     logger,
		now:        time.Now,
	}, nil
}

// Assess оценивает заполненность профиля клиента без построения плана.
func (a *Assembler) Assess(ctx context.Context, clientID uuid.UUID) (models.CompletionAssessment, error) {
	in, err := a.fetch(ctx, clientID)
	if err != nil {
		return models.CompletionAssessment{}, err
	}

	return completion.Score(in.client, in.financial, in.risk), nil
}

// Generate строит финансовый план клиента.
// Отсутствие клиента является ошибкой, отсутствующие финансы и риск-профиль заменяются значениями по умолчанию.
func (a *Assembler) Generate(ctx context.Context, input models.PlanInput) (models.GeneratedPlan, error) {
	plan, _, err := a.GenerateGated(ctx, input, true)
	return plan, err
}

// GenerateGated строит план по одному чтению данных клиента и возвращает
// оценку заполненности, по которой принималось решение. Если профиль неполон
// и allowIncomplete не выставлен, возвращается ErrIncompleteProfile и оценка.
func (a *Assembler) GenerateGated(ctx context.Context, input models.PlanInput, allowIncomplete bool) (models.GeneratedPlan, models.CompletionAssessment, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return models.GeneratedPlan{}, models.CompletionAssessment{}, err
	}

	in, err := a.fetch(ctx, input.ClientID)
	if err != nil {
		return models.GeneratedPlan{}, models.CompletionAssessment{}, err
	}

	assessment := completion.Score(in.client, in.financial, in.risk)
	if !assessment.MayProceed && !allowIncomplete {
		return models.GeneratedPlan{}, assessment, ErrIncompleteProfile
	}

	plan, err := a.assemble(input, in, assessment)
	if err != nil {
		return models.GeneratedPlan{}, assessment, err
	}

	return plan, assessment, nil
}

func (a *Assembler) assemble(input models.PlanInput, in inputs, assessment models.CompletionAssessment) (models.GeneratedPlan, error) {
	financial := ResolveFinancial(input.ClientID, in.financial)
	riskProfile := ResolveRisk(input.ClientID, in.risk)
	if financial.Defaulted() {
		a.logger.Warn("financial snapshot missing, using defaults", slog.String("client_id", input.ClientID.String()))
	}
	if riskProfile.Defaulted() {
		a.logger.Warn("risk profile missing, using defaults", slog.String("client_id", input.ClientID.String()))
	}

	position := projection.CurrentPosition(financial.Value)
	summary, err := projection.ProjectPosition(position, riskProfile.Value, input.TimeHorizonYears)
	if err != nil {
		return models.GeneratedPlan{}, err
	}

	b := sectionBuilder{
		opts:      a.opts,
		money:     newMoneyFormatter(a.opts.Currency),
		client:    in.client,
		input:     input,
		financial: financial.Value,
		profile:   riskProfile.Value,
		position:  position,
	}

	plan := models.GeneratedPlan{
		ID:               uuid.New(),
		ClientID:         input.ClientID,
		ClientName:       in.client.DisplayName(),
		PlanName:         input.PlanName,
		PlanType:         input.PlanType,
		ReportTemplate:   input.ReportTemplate,
		TimeHorizonYears: input.TimeHorizonYears,
		RiskTier:         riskProfile.Value.Tier,
		RiskHint:         input.RiskToleranceHint,
		FinancialSource:  string(financial.Source),
		RiskSource:       string(riskProfile.Source),
		Sections:         b.build(),
		Summary:          summary,
		Completion:       assessment,
		GeneratedAt:      a.now().UTC(),
	}

	a.logger.Info("plan generated",
		slog.String("plan_id", plan.ID.String()),
		slog.String("client_id", plan.ClientID.String()),
		slog.String("plan_type", string(plan.PlanType)),
		slog.Int("sections", len(plan.Sections)),
	)

	return plan, nil
}

// fetch читает клиента, финансы и риск-профиль параллельно.
func (a *Assembler) fetch(ctx context.Context, clientID uuid.UUID) (inputs, error) {
	var in inputs

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		client, err := a.clients.GetByID(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: %s: %w", ErrClientNotFound, clientID, err)
			}
			return fmt.Errorf("get client: %w", err)
		}
		in.client = client
		return nil
	})

	g.Go(func() error {
		snapshot, err := a.financials.GetByClientID(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("get financial snapshot: %w", err)
		}
		in.financial = &snapshot
		return nil
	})

	g.Go(func() error {
		profile, err := a.risks.GetByClientID(gctx, clientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil
			}
			return fmt.Errorf("get risk profile: %w", err)
		}
		in.risk = &profile
		return nil
	})

	if err := g.Wait(); err != nil {
		return inputs{}, err
	}

	return in, nil
}

func normalizeInput(input models.PlanInput) (models.PlanInput, error) {
	if input.ClientID == uuid.Nil {
		return input, fmt.Errorf("%w: client id is required", ErrInvalidInput)
	}

	switch input.PlanType {
	case models.PlanTypeComprehensive, models.PlanTypeRetirement, models.PlanTypeEducation, models.PlanTypeTax, models.PlanTypeInsurance:
	case "":
		input.PlanType = models.PlanTypeComprehensive
	default:
		return input, fmt.Errorf("%w: unknown plan type %q", ErrInvalidInput, input.PlanType)
	}

	switch input.ReportTemplate {
	case models.ReportTemplateStandard, models.ReportTemplateDetailed, models.ReportTemplateExecutive:
	case "":
		input.ReportTemplate = models.ReportTemplateStandard
	default:
		return input, fmt.Errorf("%w: unknown report template %q", ErrInvalidInput, input.ReportTemplate)
	}

	if input.TimeHorizonYears < 0 {
		return input, fmt.Errorf("%w: time horizon must not be negative", ErrInvalidInput)
	}

	input.PlanName = strings.TrimSpace(input.PlanName)
	if input.PlanName == "" {
		input.PlanName = planTypeTitle(input.PlanType) + " Financial Plan"
	}

	return input, nil
}

func planTypeTitle(planType models.PlanType) string {
	value := string(planType)
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
