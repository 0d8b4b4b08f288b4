/*
handlers.go - HTTP API handlers for the income engine

PURPOSE:
  Exposes the income reconciliation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Income records:
    GET    /api/households/{householdID}/incomes       List records
    POST   /api/households/{householdID}/incomes       Create record
    GET    /api/incomes/{id}                           Get record
    PATCH  /api/incomes/{id}                           Partial update
    DELETE /api/incomes/{id}                           Delete (promotes primary)
    GET    /api/incomes/{id}/schedule                  Upcoming payments

  Conversational candidates:
    POST   /api/households/{householdID}/candidates    Merge a turn
    GET    /api/households/{householdID}/candidates    Session state
    DELETE /api/households/{householdID}/candidates    Discard session
    POST   /api/households/{householdID}/sync          Finalize into records

  Previews:
    GET    /api/households/{householdID}/summary       Monthly + effective income
    GET    /api/households/{householdID}/upcoming      Cached payment snapshots
    GET    /api/schedule/preview                       Ad-hoc anchor preview
    GET    /api/bonuses                                Known countries
    GET    /api/bonuses/{country}                      Bonus payout preview

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - session.go: Candidate session state
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/centavo/income-engine/bonus"
	"github.com/centavo/income-engine/income"
	"github.com/centavo/income-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    income.Store
	Sessions *SessionStore

	// Snapshots serves the cached upcoming-payments view; nil falls
	// back to computing projections live.
	Snapshots *sqlite.Store

	// Now is injectable so projections are reproducible in tests.
	Now func() time.Time
}

func NewHandler(store income.Store) *Handler {
	return &Handler{
		Store:    store,
		Sessions: NewSessionStore(),
		Now:      time.Now,
	}
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// =============================================================================
// INCOME RECORD HANDLERS
// =============================================================================

func (h *Handler) ListIncomes(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")
	activeOnly := r.URL.Query().Get("active") == "true"

	records, err := h.Store.List(r.Context(), householdID, activeOnly)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]IncomeRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, recordToDTO(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) CreateIncome(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")

	var req CreateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	candidate := income.Candidate{
		Name:        req.Name,
		Description: req.Description,
		Type:        income.IncomeType(req.Type),
		Frequency:   income.Frequency(req.Frequency),
		Amount:      moneyFromPtr(req.Amount),
		MinAmount:   moneyFromPtr(req.MinAmount),
		MaxAmount:   moneyFromPtr(req.MaxAmount),
		IsVariable:  &req.IsVariable,
		PaymentDays: req.PaymentDays,
		Country:     req.Country,
	}
	if res := income.ValidateCandidate(candidate); !res.OK() {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors":      res.Errors,
			"suggestions": res.Suggestions,
		})
		return
	}

	existing, err := h.Store.List(r.Context(), householdID, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plan := income.Plan(householdID, []income.Candidate{candidate}, nil)
	if len(plan.Creates) != 1 {
		writeError(w, http.StatusBadRequest, "income could not be resolved")
		return
	}
	record := plan.Creates[0]
	record.IsPrimary = req.IsPrimary || len(existing) == 0

	created, err := h.Store.Create(r.Context(), record)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, recordToDTO(created))
}

func (h *Handler) GetIncome(w http.ResponseWriter, r *http.Request) {
	id := income.RecordID(chi.URLParam(r, "id"))

	record, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToDTO(record))
}

// UpdateIncomeRequest is a partial update; absent fields stay unchanged.
type UpdateIncomeRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Frequency   *string  `json:"frequency,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
	MinAmount   *float64 `json:"min_amount,omitempty"`
	MaxAmount   *float64 `json:"max_amount,omitempty"`
	IsVariable  *bool    `json:"is_variable,omitempty"`
	PaymentDays []int    `json:"payment_days,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
	IsPrimary   *bool    `json:"is_primary,omitempty"`
}

func (h *Handler) UpdateIncome(w http.ResponseWriter, r *http.Request) {
	id := income.RecordID(chi.URLParam(r, "id"))

	var req UpdateIncomeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	patch := income.RecordPatch{
		Name:        req.Name,
		Description: req.Description,
		Amount:      moneyFromPtr(req.Amount),
		MinAmount:   moneyFromPtr(req.MinAmount),
		MaxAmount:   moneyFromPtr(req.MaxAmount),
		IsVariable:  req.IsVariable,
		IsActive:    req.IsActive,
		IsPrimary:   req.IsPrimary,
	}
	if req.Frequency != nil {
		freq := income.Frequency(*req.Frequency)
		if !income.ValidFrequency(freq) {
			writeError(w, http.StatusBadRequest, "unknown frequency")
			return
		}
		patch.Frequency = &freq
	}
	if req.PaymentDays != nil {
		days, errs := income.ValidPaymentDays(req.PaymentDays)
		if len(errs) > 0 {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
			return
		}
		patch.PaymentDays = days
	}

	record, err := h.Store.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToDTO(record))
}

func (h *Handler) DeleteIncome(w http.ResponseWriter, r *http.Request) {
	id := income.RecordID(chi.URLParam(r, "id"))

	if err := h.Store.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetIncomeSchedule(w http.ResponseWriter, r *http.Request) {
	id := income.RecordID(chi.URLParam(r, "id"))
	count := queryInt(r, "count", 4)

	record, err := h.Store.Get(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	projections := income.ProjectRecord(h.now(), record, count)
	out := make([]PaymentProjectionDTO, 0, len(projections))
	for _, p := range projections {
		out = append(out, projectionToDTO(p))
	}
	writeJSON(w, http.StatusOK, SchedulePreviewResponse{
		Anchors:     record.PaymentDays,
		Projections: out,
	})
}

// =============================================================================
// CANDIDATE SESSION HANDLERS
// =============================================================================

func (h *Handler) MergeCandidates(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")

	var req MergeCandidatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	incoming := make([]income.Candidate, 0, len(req.Candidates))
	for _, d := range req.Candidates {
		incoming = append(incoming, candidateFromDTO(d))
	}

	merged := h.Sessions.Merge(householdID, incoming)
	writeJSON(w, http.StatusOK, sessionResponse(merged))
}

func (h *Handler) GetCandidates(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")
	writeJSON(w, http.StatusOK, sessionResponse(h.Sessions.Get(householdID)))
}

func (h *Handler) DiscardCandidates(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")
	h.Sessions.Clear(householdID)
	w.WriteHeader(http.StatusNoContent)
}

func sessionResponse(candidates []income.Candidate) CandidateSessionResponse {
	resp := CandidateSessionResponse{
		Candidates: make([]CandidateResultDTO, 0, len(candidates)),
		MonthlySum: income.SumResolvedMonthly(candidates).Float64(),
	}
	for _, c := range candidates {
		res := income.ValidateCandidate(c)
		incomplete := income.Incomplete(c)
		if incomplete {
			resp.Incomplete++
		}
		resp.Candidates = append(resp.Candidates, CandidateResultDTO{
			CandidateDTO: candidateToDTO(c),
			Incomplete:   incomplete,
			Errors:       res.Errors,
			Suggestions:  res.Suggestions,
		})
	}
	return resp
}

// =============================================================================
// SYNC HANDLER
// =============================================================================

func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")

	candidates := h.Sessions.Get(householdID)
	if len(candidates) == 0 {
		writeError(w, http.StatusBadRequest, "no candidates to sync")
		return
	}

	canonical, err := h.Store.List(r.Context(), householdID, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	plan := income.Plan(householdID, candidates, canonical)
	created, updated, err := income.Apply(r.Context(), h.Store, plan)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.Sessions.Clear(householdID)

	records, err := h.Store.List(r.Context(), householdID, false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]IncomeRecordDTO, 0, len(records))
	for _, rec := range records {
		out = append(out, recordToDTO(rec))
	}

	writeJSON(w, http.StatusOK, SyncResponse{
		IncomesCreated: created,
		IncomesUpdated: updated,
		Skipped:        plan.Skipped,
		Records:        out,
	})
}

// =============================================================================
// PREVIEW HANDLERS
// =============================================================================

func (h *Handler) HouseholdSummary(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")

	records, err := h.Store.List(r.Context(), householdID, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	monthly := income.SumActiveMonthlyIncome(records)
	summary := HouseholdSummaryResponse{
		HouseholdID:   householdID,
		MonthlyIncome: monthly.Float64(),
		ActiveRecords: len(records),
	}

	// Statutory bonuses accrue on the primary salary where the worker
	// is eligible for the country's catalog.
	bonusMonthly := income.ZeroMoney()
	for _, rec := range records {
		if !rec.IsPrimary || rec.Country == "" {
			continue
		}
		if !bonus.IsEligible(rec.Type, rec.Country) {
			continue
		}
		base := income.MonthlyEquivalent(rec)
		if s, err := bonus.CalculateAnnual(base, rec.Country, h.now()); err == nil {
			bonusMonthly = bonusMonthly.Add(s.MonthlyEquivalent)
		}
	}
	summary.BonusMonthlyEquivalent = bonusMonthly.Float64()
	summary.EffectiveMonthlyIncome = monthly.Add(bonusMonthly).Float64()

	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) UpcomingPayments(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "householdID")

	// Prefer the nightly snapshot; fall back to a live projection.
	if h.Snapshots != nil {
		cached, err := h.Snapshots.UpcomingPayments(r.Context(), householdID)
		if err == nil && len(cached) > 0 {
			out := make([]PaymentProjectionDTO, 0, len(cached))
			for _, p := range cached {
				out = append(out, PaymentProjectionDTO{
					Anchor:   p.Anchor,
					Original: p.Original.Format("2006-01-02"),
					Adjusted: p.Adjusted.Format("2006-01-02"),
					Shifted:  !p.Original.Equal(p.Adjusted),
					Label:    p.Label,
				})
			}
			writeJSON(w, http.StatusOK, out)
			return
		}
	}

	records, err := h.Store.List(r.Context(), householdID, true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	var out []PaymentProjectionDTO
	for _, rec := range records {
		for _, p := range income.ProjectRecord(h.now(), rec, 4) {
			out = append(out, projectionToDTO(p))
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) SchedulePreview(w http.ResponseWriter, r *http.Request) {
	anchorsParam := r.URL.Query().Get("anchors")
	if anchorsParam == "" {
		writeError(w, http.StatusBadRequest, "anchors query parameter is required")
		return
	}

	var anchors []int
	for _, part := range strings.Split(anchorsParam, ",") {
		day, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			writeError(w, http.StatusBadRequest, "anchors must be integers")
			return
		}
		anchors = append(anchors, day)
	}
	valid, errs := income.ValidPaymentDays(anchors)
	if len(valid) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": errs})
		return
	}

	today := h.now()
	if t := r.URL.Query().Get("today"); t != "" {
		parsed, err := time.Parse("2006-01-02", t)
		if err != nil {
			writeError(w, http.StatusBadRequest, "today must be YYYY-MM-DD")
			return
		}
		today = parsed
	}

	projections := income.ProjectSchedule(today, valid, queryInt(r, "count", 4))
	out := make([]PaymentProjectionDTO, 0, len(projections))
	for _, p := range projections {
		out = append(out, projectionToDTO(p))
	}
	writeJSON(w, http.StatusOK, SchedulePreviewResponse{Anchors: valid, Projections: out})
}

func (h *Handler) ListBonusCountries(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, bonus.Countries())
}

func (h *Handler) BonusPreview(w http.ResponseWriter, r *http.Request) {
	country := chi.URLParam(r, "country")

	salary, err := strconv.ParseFloat(r.URL.Query().Get("salary"), 64)
	if err != nil || salary <= 0 {
		writeError(w, http.StatusBadRequest, "salary query parameter must be a positive number")
		return
	}
	monthly := income.NewMoney(salary)

	if employment := r.URL.Query().Get("employment"); employment != "" {
		if !bonus.IsEligible(income.IncomeType(employment), country) {
			writeJSON(w, http.StatusOK, BonusSummaryResponse{
				Country:       country,
				MonthlySalary: salary,
			})
			return
		}
	}

	summary, err := bonus.CalculateAnnual(monthly, country, h.now())
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	resp := BonusSummaryResponse{
		Country:           summary.Country,
		MonthlySalary:     salary,
		TotalAnnual:       summary.TotalAnnual.Float64(),
		MonthlyEquivalent: summary.MonthlyEquivalent.Float64(),
	}
	for _, c := range summary.Calculations {
		resp.Calculations = append(resp.Calculations, bonusCalcToDTO(c))
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, income.ErrRecordNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, err.Error())
}

func queryInt(r *http.Request, key string, fallback int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
