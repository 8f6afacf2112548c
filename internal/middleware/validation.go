package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	apierrors "slapulse/internal/errors"
	"slapulse/pkg/contracts/domain"
)

// FilterQuery carries the dashboard filter query string.
type FilterQuery struct {
	StartDate  string `json:"startDate" validate:"omitempty,isodate"`
	EndDate    string `json:"endDate" validate:"omitempty,isodate"`
	Zone       string `json:"zone" validate:"omitempty,max=200"`
	Seller     string `json:"seller" validate:"omitempty,max=200"`
	CostCenter string `json:"costCenter" validate:"omitempty,max=200"`
}

// Criteria converts the query to engine filter criteria.
func (q FilterQuery) Criteria() domain.FilterCriteria {
	return domain.FilterCriteria{
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		Zone:       q.Zone,
		Seller:     q.Seller,
		CostCenter: q.CostCenter,
	}
}

// PageQuery carries consolidated pagination.
type PageQuery struct {
	Page     int `json:"page" validate:"min=1"`
	PageSize int `json:"pageSize" validate:"min=1"`
}

// HistoricalQuery carries the historical granularity.
type HistoricalQuery struct {
	Mode string `json:"mode" validate:"oneof=week month"`
}

// QueryValidator binds and validates query strings using struct tags.
type QueryValidator struct {
	validator       *validator.Validate
	logger          *slog.Logger
	errorHandler    *apierrors.ErrorHandler
	defaultPageSize int
	maxPageSize     int
}

// NewQueryValidator creates a query validator. Page sizes come from analytics config.
func NewQueryValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler, defaultPageSize, maxPageSize int) *QueryValidator {
	v := validator.New()
	_ = v.RegisterValidation("isodate", isISODate)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &QueryValidator{
		validator:       v,
		logger:          logger.With(slog.String("component", "query_validator")),
		errorHandler:    errorHandler,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
	}
}

// Filters binds the filter query. On failure the error response is already written.
func (v *QueryValidator) Filters(w http.ResponseWriter, r *http.Request) (FilterQuery, bool) {
	q := r.URL.Query()
	fq := FilterQuery{
		StartDate:  strings.TrimSpace(q.Get("startDate")),
		EndDate:    strings.TrimSpace(q.Get("endDate")),
		Zone:       q.Get("zone"),
		Seller:     q.Get("seller"),
		CostCenter: q.Get("costCenter"),
	}
	if err := v.ValidateStruct(fq); err != nil {
		v.reject(w, r, err)
		return FilterQuery{}, false
	}
	return fq, true
}

// Page binds page and pageSize, applying defaults.
func (v *QueryValidator) Page(w http.ResponseWriter, r *http.Request) (PageQuery, bool) {
	q := r.URL.Query()
	pq := PageQuery{Page: 1, PageSize: v.defaultPageSize}

	var err error
	if pq.Page, err = intParam(q, "page", pq.Page); err != nil {
		v.reject(w, r, apierrors.ErrValidation("page", "page must be a valid integer"))
		return PageQuery{}, false
	}
	if pq.PageSize, err = intParam(q, "pageSize", pq.PageSize); err != nil {
		v.reject(w, r, apierrors.ErrValidation("pageSize", "pageSize must be a valid integer"))
		return PageQuery{}, false
	}

	if err := v.ValidateStruct(pq); err != nil {
		v.reject(w, r, err)
		return PageQuery{}, false
	}
	if v.maxPageSize > 0 && pq.PageSize > v.maxPageSize {
		v.reject(w, r, apierrors.ErrValidation("pageSize", fmt.Sprintf("pageSize must be at most %d", v.maxPageSize)))
		return PageQuery{}, false
	}
	return pq, true
}

// Historical binds the mode parameter, defaulting to week.
func (v *QueryValidator) Historical(w http.ResponseWriter, r *http.Request) (HistoricalQuery, bool) {
	hq := HistoricalQuery{Mode: r.URL.Query().Get("mode")}
	if hq.Mode == "" {
		hq.Mode = "week"
	}
	if err := v.ValidateStruct(hq); err != nil {
		v.reject(w, r, err)
		return HistoricalQuery{}, false
	}
	return hq, true
}

// ValidateStruct validates a struct and returns validation errors
func (v *QueryValidator) ValidateStruct(s interface{}) error {
	err := v.validator.Struct(s)
	if err == nil {
		return nil
	}

	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

func (v *QueryValidator) reject(w http.ResponseWriter, r *http.Request, err error) {
	v.logger.DebugContext(r.Context(), "query rejected",
		slog.String("path", r.URL.Path),
		slog.String("query", r.URL.RawQuery),
	)
	v.errorHandler.HandleError(w, r, err)
}

func intParam(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// formatValidationError formats validation error messages
func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "isodate":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isISODate accepts calendar dates in YYYY-MM-DD form.
func isISODate(fl validator.FieldLevel) bool {
	_, err := time.Parse(time.DateOnly, fl.Field().String())
	return err == nil
}
