package handler

import (
	"context"  // context with cancellation for store and fetch calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strconv"  // query parameter parsing
	"time"     // timeouts for load and store calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/attendance"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/config"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/queue"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/roster"
	queue_publisher "github.com/hariniis250314-stack/meal-attendance-v2/internal/service"
)

// AttendanceHandler bundles dependencies for the public marking endpoints.
// Every request re-fetches the roster from the configured source; the
// in-memory view is a cache for the duration of one request only.
type AttendanceHandler struct {
	Cfg      config.Config
	Loader   *roster.Loader
	Recorder *attendance.Recorder
}

func NewAttendanceHandler(cfg config.Config, l *roster.Loader, r *attendance.Recorder) *AttendanceHandler {
	return &AttendanceHandler{Cfg: cfg, Loader: l, Recorder: r}
}

// ----- DTOs -----

type markReq struct {
	Fragment string `json:"fragment"`
}
type selectReq struct {
	Fragment   string `json:"fragment"`
	Index      int    `json:"index"`
	FullName   string `json:"full_name"`
	PhoneLast4 string `json:"phone_last4"`
}
type candidatePart struct {
	Index      int    `json:"index"`
	FullName   string `json:"full_name"`
	PhoneLast4 string `json:"phone_last4"`
	EmployeeID string `json:"employee_id"`
	TraineeID  string `json:"trainee_id"`
}
type ambiguousResp struct {
	Status     string          `json:"status"`
	Fragment   string          `json:"fragment"`
	Candidates []candidatePart `json:"candidates"`
}
type markedResp struct {
	Status string                 `json:"status"`
	Record model.AttendanceRecord `json:"record"`
}
type statusResp struct {
	Loaded      bool              `json:"loaded"`
	Signal      string            `json:"signal,omitempty"`
	Detail      string            `json:"detail,omitempty"`
	Missing     []string          `json:"missing_columns,omitempty"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
}

// loadRosterError translates a loader failure into the HTTP response for
// it.  Loading never crashes the request; everything becomes a structured
// JSON error.
func loadRosterError(c echo.Context, err error) error {
	var schemaErr *roster.SchemaError
	switch {
	case errors.Is(err, roster.ErrConfigurationMissing):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":  "no roster source configured",
			"signal": "ConfigurationMissing",
		})
	case errors.As(err, &schemaErr):
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":           "roster sheet is missing required columns",
			"signal":          "SchemaInvalid",
			"missing_columns": schemaErr.Missing,
		})
	default:
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":  "failed to load roster sheet",
			"signal": "SourceUnavailable",
			"detail": err.Error(),
		})
	}
}

// Mark handles POST /v1/attendance.  It resolves the submitted fragment
// against a freshly loaded roster and either writes a record, returns the
// disambiguation candidate list, or reports why nothing was written.
func (h *AttendanceHandler) Mark(c echo.Context) error {
	var req markReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.FetchTimeout+5*time.Second)
	defer cancel()

	rst, _, err := h.Loader.Load(ctx, h.Cfg.MasterSheetURL)
	if err != nil {
		return loadRosterError(c, err)
	}

	out, err := attendance.Resolve(rst, req.Fragment)
	switch {
	case errors.Is(err, attendance.ErrInvalidFragment):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "please enter exactly 4 digits", "signal": "InvalidFragment"})
	case errors.Is(err, attendance.ErrNoMatch):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no trainee found with that last-4", "signal": "NoMatch"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "resolve failed"})
	}

	if out.State == attendance.StateAmbiguous {
		resp := ambiguousResp{Status: "ambiguous_selection_required", Fragment: out.Fragment}
		for i, e := range out.Candidates {
			resp.Candidates = append(resp.Candidates, candidatePart{
				Index: i, FullName: e.FullName, PhoneLast4: e.PhoneLast4,
				EmployeeID: e.EmployeeID, TraineeID: e.TraineeID,
			})
		}
		return c.JSON(http.StatusOK, resp)
	}

	return h.record(ctx, c, out.Entry)
}

// Select handles POST /v1/attendance/select, the second leg of an ambiguous
// match.  The request echoes back the candidate the user was shown so a
// roster reload between display and selection is detected instead of
// silently marking the wrong person.
func (h *AttendanceHandler) Select(c echo.Context) error {
	var req selectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.FetchTimeout+5*time.Second)
	defer cancel()

	rst, _, err := h.Loader.Load(ctx, h.Cfg.MasterSheetURL)
	if err != nil {
		return loadRosterError(c, err)
	}

	entry, err := attendance.SelectCandidate(rst, req.Fragment, req.Index, req.FullName, req.PhoneLast4)
	switch {
	case errors.Is(err, attendance.ErrInvalidFragment):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "please enter exactly 4 digits", "signal": "InvalidFragment"})
	case errors.Is(err, attendance.ErrNoMatch):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "no trainee found with that last-4", "signal": "NoMatch"})
	case errors.Is(err, attendance.ErrSelectionOutOfRange):
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "selection index out of range"})
	case errors.Is(err, attendance.ErrSelectionStale):
		return c.JSON(http.StatusConflict, echo.Map{"error": "the roster changed, please submit again"})
	case err != nil:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "selection failed"})
	}

	return h.record(ctx, c, entry)
}

// record writes the confirmed entry and responds 201 with the stored row.
// The broker event is fire-and-forget; a publish failure never affects the
// response.
func (h *AttendanceHandler) record(ctx context.Context, c echo.Context, entry model.RosterEntry) error {
	rec, err := h.Recorder.Mark(ctx, entry)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error(), "signal": "WriteFailure"})
	}

	go func(rec model.AttendanceRecord) {
		pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer pcancel()
		_ = queue_publisher.PublishAttendanceRecorded(pctx, queue.AttendanceRecordedEvent{
			FullName:   rec.FullName,
			PhoneLast4: rec.PhoneLast4,
			EmployeeID: rec.EmployeeID,
			TraineeID:  rec.TraineeID,
			Date:       rec.Date,
			Time:       rec.Time,
			RecordedAt: rec.TimestampISO,
		})
	}(rec)

	return c.JSON(http.StatusCreated, markedResp{Status: "recorded", Record: rec})
}

// Today handles GET /v1/attendance/today.  It returns the most recent N
// records whose Date equals today's IST date (default 20), preserving
// append order.
func (h *AttendanceHandler) Today(c echo.Context) error {
	limit := 20
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Recorder.Today(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"records": recs, "count": len(recs)})
}

// Status handles GET /v1/roster/status.  It loads the configured sheet and
// reports the validation metrics (row count, blank names, short phones,
// last-4 collisions) or the load signal when nothing could be loaded.
func (h *AttendanceHandler) Status(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.FetchTimeout+5*time.Second)
	defer cancel()

	_, diag, err := h.Loader.Load(ctx, h.Cfg.MasterSheetURL)
	if err != nil {
		resp := statusResp{Loaded: false}
		var schemaErr *roster.SchemaError
		switch {
		case errors.Is(err, roster.ErrConfigurationMissing):
			resp.Signal = "ConfigurationMissing"
		case errors.As(err, &schemaErr):
			resp.Signal = "SchemaInvalid"
			resp.Missing = schemaErr.Missing
		default:
			resp.Signal = "SourceUnavailable"
			resp.Detail = err.Error()
		}
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(http.StatusOK, statusResp{Loaded: true, Diagnostics: diag})
}
