package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/config"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/logstore"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/middleware"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/roster"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/session"
	"github.com/hariniis250314-stack/meal-attendance-v2/internal/utils"
)

// AdminHandler bundles dependencies for the password-gated admin surface:
// roster preview, log view/export/clear and the session-scoped source
// override.
type AdminHandler struct {
	Cfg      config.Config
	Loader   *roster.Loader
	Store    logstore.Store
	Sessions session.Store
}

func NewAdminHandler(cfg config.Config, l *roster.Loader, st logstore.Store, ses session.Store) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Loader: l, Store: st, Sessions: ses}
}

// ----- DTOs -----

type loginReq struct {
	Password string `json:"password"`
}
type loginResp struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}
type sourceReq struct {
	URL string `json:"url"`
}

// Login exchanges the shared admin password for a short-lived bearer token.
// The password is compared in constant time against the configured secret;
// there is no hashing, rate limiting or lockout by design.
func (h *AdminHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if !utils.PasswordEqual(req.Password, h.Cfg.AdminPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "wrong password"})
	}
	tok, err := utils.NewAdminToken(h.Cfg.JWTSecret, h.Cfg.AdminTokenTTL)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not issue token"})
	}
	return c.JSON(http.StatusOK, loginResp{Token: tok.Token, Expires: tok.Exp})
}

// effectiveSource resolves the roster URL for this admin session: the
// session's override when one is set, the configured default otherwise.
func (h *AdminHandler) effectiveSource(ctx context.Context, c echo.Context) string {
	sid := middleware.SessionID(c)
	if sid != "" {
		if url, err := h.Sessions.SourceOverride(ctx, sid); err == nil && url != "" {
			return url
		}
	}
	return h.Cfg.MasterSheetURL
}

// Preview handles GET /v1/admin/preview.  It loads the session's effective
// sheet and returns the first N normalized rows (default 25) together with
// the validation metrics.
func (h *AdminHandler) Preview(c echo.Context) error {
	limit := 25
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a non-negative integer"})
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.Cfg.FetchTimeout+5*time.Second)
	defer cancel()

	rst, diag, err := h.Loader.Load(ctx, h.effectiveSource(ctx, c))
	if err != nil {
		return loadRosterError(c, err)
	}
	if limit > 0 && len(rst) > limit {
		rst = rst[:limit]
	}
	return c.JSON(http.StatusOK, echo.Map{"rows": rst, "diagnostics": diag})
}

// Log handles GET /v1/admin/log.  Without a tail parameter it returns the
// full log; with ?tail=N only the last N rows.
func (h *AdminHandler) Log(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	recs, err := h.Store.ReadAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if s := c.QueryParam("tail"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "tail must be a non-negative integer"})
		}
		if len(recs) > n {
			recs = recs[len(recs)-n:]
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"records": recs, "count": len(recs)})
}

// Export handles GET /v1/admin/log/export.  The CSV bytes are returned
// verbatim as a download.
func (h *AdminHandler) Export(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	data, err := h.Store.ExportCSV(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meal_log.csv"`)
	return c.Blob(http.StatusOK, "text/csv; charset=utf-8", data)
}

// ClearLog handles DELETE /v1/admin/log.  Clearing wipes the whole store;
// clearing an already-empty or missing log succeeds too.
func (h *AdminHandler) ClearLog(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Store.Clear(ctx); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// SetSource handles PUT /v1/admin/source.  The override lives in the
// session store under this token's session id and is never persisted as the
// configured default.
func (h *AdminHandler) SetSource(c echo.Context) error {
	var req sourceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.URL = strings.TrimSpace(req.URL)
	if req.URL == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "url required"})
	}
	sid := middleware.SessionID(c)
	if sid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.SetSourceOverride(ctx, sid, req.URL); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}

// ClearSource handles DELETE /v1/admin/source, restoring the configured
// default for this session.
func (h *AdminHandler) ClearSource(c echo.Context) error {
	sid := middleware.SessionID(c)
	if sid == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.ClearSourceOverride(ctx, sid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.NoContent(http.StatusNoContent)
}
