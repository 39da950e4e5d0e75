package rest

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/budgetoffice/staff-portal/internal/staff"
	"github.com/budgetoffice/staff-portal/internal/store"
	"github.com/budgetoffice/staff-portal/internal/transport"
	"github.com/budgetoffice/staff-portal/pkg/logger"
)

type StaffHandler struct {
	*transport.BaseHandler
	Service PortalService
}

func NewStaffHandler(svc PortalService) *StaffHandler {
	return &StaffHandler{
		BaseHandler: transport.NewBaseHandler(logger.L()),
		Service:     svc,
	}
}

// applyViewParams dispatches search/filter/office intents carried as query
// parameters before the derived view is read back.
func (h *StaffHandler) applyViewParams(r *http.Request) {
	st := h.Service.Store()
	q := r.URL.Query()

	if q.Has("search") {
		st.Dispatch(store.SetSearchTerm{Term: q.Get("search")})
	}
	if q.Has("filter") {
		key := staff.FilterKey(q.Get("filter"))
		if !key.Known() {
			h.Logger.Debug("unknown filter key, remarks fallback applies", "key", key)
		}
		st.Dispatch(store.SetFilter{Key: key})
	}
	if q.Has("office") {
		st.Dispatch(store.SetOffice{Office: q.Get("office")})
	}
}

// List handles GET /staff: the derived (searched + filtered) view.
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	h.applyViewParams(r)
	snap := h.Service.Store().Snapshot()

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"staff":           snap.FilteredStaff,
		"total":           len(snap.StaffData),
		"search_term":     snap.SearchTerm,
		"current_filter":  snap.CurrentFilter,
		"selected_office": snap.SelectedOffice,
	})
}

// Refresh handles POST /staff/refresh: re-fetches the nominal roll from the
// gateway.
func (h *StaffHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if !h.Service.LoadNominalRoll(r.Context()) {
		snap := h.Service.Store().Snapshot()
		message := snap.Error
		if message == "" {
			message = "nominal roll refresh failed"
		}
		h.WriteError(w, http.StatusBadGateway, message)
		return
	}

	snap := h.Service.Store().Snapshot()
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"staff": snap.FilteredStaff,
		"total": len(snap.StaffData),
	})
}

// Stats handles GET /staff/stats.
func (h *StaffHandler) Stats(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Store().Snapshot()
	h.WriteJSON(w, http.StatusOK, staff.Aggregate(snap.StaffData))
}

// Counts handles GET /staff/counts: per-filter badge numbers for the
// dashboard sidebar.
func (h *StaffHandler) Counts(w http.ResponseWriter, r *http.Request) {
	snap := h.Service.Store().Snapshot()
	now := time.Now()

	keys := []staff.FilterKey{
		staff.FilterAll,
		staff.FilterPromotionDue,
		staff.FilterTimeOffDue,
		staff.FilterOnLeave,
		staff.FilterReturningFromLeave,
		staff.FilterRetirementDue,
		staff.FilterRetired,
		staff.FilterResigned,
		staff.FilterDismissed,
		staff.FilterOnSpecialDuty,
	}

	counts := make(map[staff.FilterKey]int, len(keys))
	for _, k := range keys {
		counts[k] = staff.FilterCountAt(snap.StaffData, k, now)
	}

	h.WriteJSON(w, http.StatusOK, counts)
}

// Export handles GET /staff/export: the current derived view as CSV.
func (h *StaffHandler) Export(w http.ResponseWriter, r *http.Request) {
	h.applyViewParams(r)
	snap := h.Service.Store().Snapshot()

	filename := fmt.Sprintf("nominal-roll-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	writer := csv.NewWriter(w)
	header := []string{"Name", "Rank", "Grade Level", "Step", "Department", "LGA", "Status", "First Appointment", "Expected Retirement", "Remarks"}
	if err := writer.Write(header); err != nil {
		h.Logger.Error("csv header write failed", "error", err)
		return
	}

	for _, rec := range snap.FilteredStaff {
		row := []string{
			rec.FullName,
			rec.Rank,
			strconv.Itoa(rec.GradeLevel),
			strconv.Itoa(rec.Step),
			rec.Department,
			rec.LGA,
			string(rec.Status),
			rec.FirstAppointmentDate.Format("2006-01-02"),
			rec.ExpectedRetirementDate.Format("2006-01-02"),
			rec.Remarks,
		}
		if err := writer.Write(row); err != nil {
			h.Logger.Error("csv row write failed", "error", err, "staff_id", rec.ID)
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		h.Logger.Error("csv flush failed", "error", err)
	}
}
