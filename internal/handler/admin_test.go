package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/labstack/echo/v4"
)

func adminToken(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec := doJSON(e, http.MethodPost, "/v1/admin/login", `{"password":"letmein"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tok, ok := decode(t, rec)["token"].(string)
	require.True(t, ok)
	require.NotEmpty(t, tok)
	return tok
}

func TestAdminLogin(t *testing.T) {
	e, _ := newApp(t, singleSheet)

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/v1/admin/login", `{"password":"nope"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("correct password issues a token", func(t *testing.T) {
		_ = adminToken(t, e)
	})

	t.Run("admin routes require the token", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/admin/log", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/admin/log", "", "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAdminLogViews(t *testing.T) {
	e, _ := newApp(t, singleSheet)
	tok := adminToken(t, e)

	// three submissions, then inspect
	for i := 0; i < 3; i++ {
		rec := doJSON(e, http.MethodPost, "/v1/attendance", `{"fragment":"3210"}`, "")
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	t.Run("full log", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/admin/log", "", tok)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(3), decode(t, rec)["count"])
	})

	t.Run("tail view", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/admin/log?tail=2", "", tok)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(2), decode(t, rec)["count"])
	})

	t.Run("export is a csv download", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/v1/admin/log/export", "", tok)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/csv")
		assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "meal_log.csv")
		lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
		assert.Equal(t, "TimestampISO,Date,Time,FullName,PhoneLast4,EmployeeID,TraineeID", lines[0])
		assert.Len(t, lines, 4) // header + 3 records
	})

	t.Run("clear wipes the log and is idempotent", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/v1/admin/log", "", tok)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		after := doJSON(e, http.MethodGet, "/v1/admin/log", "", tok)
		require.Equal(t, http.StatusOK, after.Code)
		assert.Equal(t, float64(0), decode(t, after)["count"])

		again := doJSON(e, http.MethodDelete, "/v1/admin/log", "", tok)
		assert.Equal(t, http.StatusNoContent, again.Code)
	})
}

func TestAdminPreview(t *testing.T) {
	e, _ := newApp(t, sharedSheet)
	tok := adminToken(t, e)

	rec := doJSON(e, http.MethodGet, "/v1/admin/preview?limit=1", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	assert.Equal(t, "Asha Rao", rows[0].(map[string]any)["full_name"])
	diag := body["diagnostics"].(map[string]any)
	assert.Equal(t, float64(2), diag["row_count"])
}

func TestAdminSourceOverride(t *testing.T) {
	e, _ := newApp(t, singleSheet)
	tok := adminToken(t, e)

	alt := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(sharedSheet))
	}))
	t.Cleanup(alt.Close)

	t.Run("override swaps the sheet for this session", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/v1/admin/source", `{"url":"`+alt.URL+`"}`, tok)
		require.Equal(t, http.StatusNoContent, rec.Code)

		prev := doJSON(e, http.MethodGet, "/v1/admin/preview", "", tok)
		require.Equal(t, http.StatusOK, prev.Code)
		diag := decode(t, prev)["diagnostics"].(map[string]any)
		assert.Equal(t, float64(2), diag["row_count"])
	})

	t.Run("other sessions keep the configured default", func(t *testing.T) {
		other := adminToken(t, e)
		prev := doJSON(e, http.MethodGet, "/v1/admin/preview", "", other)
		require.Equal(t, http.StatusOK, prev.Code)
		diag := decode(t, prev)["diagnostics"].(map[string]any)
		assert.Equal(t, float64(1), diag["row_count"])
	})

	t.Run("clearing the override restores the default", func(t *testing.T) {
		rec := doJSON(e, http.MethodDelete, "/v1/admin/source", "", tok)
		require.Equal(t, http.StatusNoContent, rec.Code)

		prev := doJSON(e, http.MethodGet, "/v1/admin/preview", "", tok)
		require.Equal(t, http.StatusOK, prev.Code)
		diag := decode(t, prev)["diagnostics"].(map[string]any)
		assert.Equal(t, float64(1), diag["row_count"])
	})

	t.Run("empty url rejected", func(t *testing.T) {
		rec := doJSON(e, http.MethodPut, "/v1/admin/source", `{"url":"  "}`, tok)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
