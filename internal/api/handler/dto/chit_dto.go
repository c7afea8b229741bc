package dto

import (
	"chitfund-engine/internal/domain/chit"
	"chitfund-engine/internal/domain/installment"
	"chitfund-engine/internal/pkg/apperrors"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct reports the first failing field as an apperrors validation error.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return apperrors.NewValidationError(fe.Field(), validationMessage(fe))
	}
	return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "url":
		return fe.Field() + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}

type TokenRequest struct {
	Username string `json:"username" validate:"required,max=128"`
}

func (r *TokenRequest) Validate() error {
	return validateStruct(r)
}

// QuoteRequest accepts the amount as a JSON number or a numeric string.
type QuoteRequest struct {
	Amount *decimal.Decimal `json:"amount" validate:"required" swaggertype:"string" example:"5400.00"`
}

func (r *QuoteRequest) Validate() error {
	return validateStruct(r)
}

type SubmitPaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount" validate:"required" swaggertype:"string" example:"5400.00"`
	UTR           string           `json:"utr,omitempty" validate:"omitempty,max=64"`
	Note          string           `json:"note,omitempty" validate:"omitempty,max=500"`
	AttachmentURL string           `json:"attachmentUrl,omitempty" validate:"omitempty,url,max=2048"`
}

func (r *SubmitPaymentRequest) Validate() error {
	return validateStruct(r)
}

func (r *SubmitPaymentRequest) ToInput(groupID, memberID string) chit.SubmitPaymentInput {
	return chit.SubmitPaymentInput{
		GroupID:       groupID,
		MemberID:      memberID,
		Amount:        *r.Amount,
		UTR:           strings.TrimSpace(r.UTR),
		Note:          strings.TrimSpace(r.Note),
		AttachmentURL: strings.TrimSpace(r.AttachmentURL),
	}
}

type ScheduleResponse struct {
	PerMemberInstallment   string `json:"perMemberInstallment"`
	TotalMonths            int    `json:"totalMonths"`
	StartDate              string `json:"startDate,omitempty"`
	PenaltyPercentPerMonth string `json:"penaltyPercentPerMonth"`
}

type MonthBucketResponse struct {
	MonthIndex    int    `json:"monthIndex"`
	Expected      string `json:"expected"`
	PrincipalPaid string `json:"principalPaid"`
	PenaltyPaid   string `json:"penaltyPaid"`
	Remaining     string `json:"remaining"`
	Status        string `json:"status"`
}

type OverdueDetailResponse struct {
	MonthIndex     int    `json:"monthIndex"`
	Remaining      string `json:"remaining"`
	MonthsOverdue  int    `json:"monthsOverdue"`
	Penalty        string `json:"penalty"`
	TotalIfCleared string `json:"totalIfCleared"`
}

type OverdueResponse struct {
	Details               []OverdueDetailResponse `json:"details"`
	TotalOverdueRemaining string                  `json:"totalOverdueRemaining"`
	TotalPenaltyIfPaidNow string                  `json:"totalPenaltyIfPaidNow"`
	CurrentMonthRemaining string                  `json:"currentMonthRemaining"`
	MaxPayableNow         string                  `json:"maxPayableNow"`
}

type PendingPaymentResponse struct {
	ID         string     `json:"id,omitempty"`
	Amount     string     `json:"amount"`
	Date       *time.Time `json:"date,omitempty"`
	MonthIndex int        `json:"monthIndex,omitempty"`
	UTR        string     `json:"utr,omitempty"`
	Note       string     `json:"note,omitempty"`
}

type StatementResponse struct {
	GroupID           string                   `json:"groupId"`
	MemberID          string                   `json:"memberId"`
	CurrentMonthIndex int                      `json:"currentMonthIndex"`
	Schedule          ScheduleResponse         `json:"schedule"`
	Buckets           []MonthBucketResponse    `json:"buckets"`
	Overdue           OverdueResponse          `json:"overdue"`
	Pending           []PendingPaymentResponse `json:"pending"`
}

type OverdueStatusResponse struct {
	GroupID   string `json:"groupId"`
	MemberID  string `json:"memberId"`
	IsOverdue bool   `json:"isOverdue"`
}

type AllocationEntryResponse struct {
	MonthIndex int    `json:"monthIndex"`
	Due        string `json:"due"`
	Penalty    string `json:"penalty"`
	Apply      string `json:"apply"`
}

type AllocationPlanResponse struct {
	Entries           []AllocationEntryResponse `json:"entries"`
	PlannedTotal      string                    `json:"plannedTotal"`
	Unallocated       string                    `json:"unallocated"`
	CurrentMonthIndex int                       `json:"currentMonthIndex"`
}

type PaymentRequestResponse struct {
	ID                string          `json:"id"`
	GroupID           string          `json:"groupId"`
	MemberID          string          `json:"memberId"`
	Amount            string          `json:"amount"`
	MonthIndex        int             `json:"monthIndex"`
	Status            string          `json:"status"`
	UTR               string          `json:"utr,omitempty"`
	Note              string          `json:"note,omitempty"`
	AttachmentURL     string          `json:"attachmentUrl,omitempty"`
	RequestedBy       string          `json:"requestedBy,omitempty"`
	AllocationSummary json.RawMessage `json:"allocationSummary,omitempty" swaggertype:"object"`
	CreatedAt         time.Time       `json:"createdAt"`
}

type ErrorDetail struct {
	Code          string `json:"code,omitempty"`
	Message       string `json:"message"`
	Field         string `json:"field,omitempty"`
	MaxPayableNow string `json:"maxPayableNow,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func NewStatementResponse(groupID, memberID string, st *installment.Statement) StatementResponse {
	resp := StatementResponse{
		GroupID:           groupID,
		MemberID:          memberID,
		CurrentMonthIndex: st.CurrentMonthIndex,
		Schedule: ScheduleResponse{
			PerMemberInstallment:   money(st.Schedule.PerMemberInstallment),
			TotalMonths:            st.Schedule.TotalMonths,
			PenaltyPercentPerMonth: st.Schedule.PenaltyPercentPerMonth.String(),
		},
		Buckets: make([]MonthBucketResponse, 0, len(st.Buckets)),
		Overdue: NewOverdueResponse(st.Overdue),
		Pending: make([]PendingPaymentResponse, 0, len(st.Pending)),
	}
	if !st.Schedule.StartDate.IsZero() {
		resp.Schedule.StartDate = st.Schedule.StartDate.Format(time.DateOnly)
	}

	for _, b := range st.Buckets {
		resp.Buckets = append(resp.Buckets, MonthBucketResponse{
			MonthIndex:    b.MonthIndex,
			Expected:      money(b.Expected),
			PrincipalPaid: money(b.PrincipalPaid),
			PenaltyPaid:   money(b.PenaltyPaid),
			Remaining:     money(b.Remaining),
			Status:        string(b.Status),
		})
	}

	for _, p := range st.Pending {
		pending := PendingPaymentResponse{
			ID:         p.ID,
			Amount:     money(p.Amount),
			MonthIndex: p.MonthIndex,
			UTR:        p.UTR,
			Note:       p.Note,
		}
		if !p.Date.IsZero() {
			d := p.Date
			pending.Date = &d
		}
		resp.Pending = append(resp.Pending, pending)
	}
	return resp
}

func NewOverdueResponse(info installment.OverdueInfo) OverdueResponse {
	resp := OverdueResponse{
		Details:               make([]OverdueDetailResponse, 0, len(info.Details)),
		TotalOverdueRemaining: money(info.TotalOverdueRemaining),
		TotalPenaltyIfPaidNow: money(info.TotalPenaltyIfPaidNow),
		CurrentMonthRemaining: money(info.CurrentMonthRemaining),
		MaxPayableNow:         money(info.MaxPayableNow),
	}
	for _, d := range info.Details {
		resp.Details = append(resp.Details, OverdueDetailResponse{
			MonthIndex:     d.MonthIndex,
			Remaining:      money(d.Remaining),
			MonthsOverdue:  d.MonthsOverdue,
			Penalty:        money(d.Penalty),
			TotalIfCleared: money(d.TotalIfCleared),
		})
	}
	return resp
}

func NewAllocationPlanResponse(plan *installment.AllocationPlan) AllocationPlanResponse {
	resp := AllocationPlanResponse{
		Entries:           make([]AllocationEntryResponse, 0, len(plan.Entries)),
		PlannedTotal:      money(plan.PlannedTotal),
		Unallocated:       money(plan.Unallocated),
		CurrentMonthIndex: plan.CurrentMonthIndex,
	}
	for _, e := range plan.Entries {
		resp.Entries = append(resp.Entries, AllocationEntryResponse{
			MonthIndex: e.MonthIndex,
			Due:        money(e.Due),
			Penalty:    money(e.Penalty),
			Apply:      money(e.Apply),
		})
	}
	return resp
}

func NewPaymentRequestResponse(req *chit.PaymentRequest) PaymentRequestResponse {
	resp := PaymentRequestResponse{
		ID:            req.ID,
		GroupID:       req.GroupID,
		MemberID:      req.MemberID,
		Amount:        money(req.Amount),
		MonthIndex:    req.MonthIndex,
		Status:        req.Status,
		UTR:           req.UTR,
		Note:          req.Note,
		AttachmentURL: req.AttachmentURL,
		RequestedBy:   req.RequestedBy,
		CreatedAt:     req.CreatedAt,
	}
	if json.Valid([]byte(req.AllocationSummary)) {
		resp.AllocationSummary = json.RawMessage(req.AllocationSummary)
	}
	return resp
}
