package logstore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hariniis250314-stack/meal-attendance-v2/internal/model"
)

func tempStore(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSVStore(filepath.Join(t.TempDir(), "meal_log.csv"))
}

func sampleRecord(name string) model.AttendanceRecord {
	return model.AttendanceRecord{
		TimestampISO: "2026-08-30T12:00:00+05:30",
		Date:         "2026-08-30",
		Time:         "12:00:00",
		FullName:     name,
		PhoneLast4:   "3210",
		EmployeeID:   "E1",
		TraineeID:    "T1",
	}
}

func TestCSVStoreAppend(t *testing.T) {
	ctx := context.Background()

	t.Run("first append creates file with header", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Append(ctx, sampleRecord("Asha Rao")))

		raw, err := os.ReadFile(s.Path)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "TimestampISO,Date,Time,FullName,PhoneLast4,EmployeeID,TraineeID", lines[0])
	})

	t.Run("n appends yield n rows in submission order", func(t *testing.T) {
		s := tempStore(t)
		names := []string{"First", "Second", "Third"}
		for _, n := range names {
			require.NoError(t, s.Append(ctx, sampleRecord(n)))
		}

		recs, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, recs, len(names))
		for i, n := range names {
			assert.Equal(t, n, recs[i].FullName)
		}
	})

	t.Run("round trip preserves every field string-for-string", func(t *testing.T) {
		s := tempStore(t)
		want := model.AttendanceRecord{
			TimestampISO: "2026-08-30T09:15:07+05:30",
			Date:         "2026-08-30",
			Time:         "09:15:07",
			FullName:     `Rao, Asha "AR"`, // commas and quotes must survive CSV quoting
			PhoneLast4:   "3210",
			EmployeeID:   "",
			TraineeID:    "T-42",
		}
		require.NoError(t, s.Append(ctx, want))

		recs, err := s.ReadAll(ctx)
		require.NoError(t, err)
		require.Len(t, recs, 1)
		assert.Equal(t, want, recs[0])
	})
}

func TestCSVStoreReadAll(t *testing.T) {
	ctx := context.Background()

	t.Run("missing file is an empty log", func(t *testing.T) {
		s := tempStore(t)
		recs, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
		assert.NotNil(t, recs)
	})
}

func TestCSVStoreClear(t *testing.T) {
	ctx := context.Background()

	t.Run("clear removes all records", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Append(ctx, sampleRecord("Asha Rao")))
		require.NoError(t, s.Append(ctx, sampleRecord("Binu Nair")))

		require.NoError(t, s.Clear(ctx))
		recs, err := s.ReadAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, recs)
	})

	t.Run("clearing twice is a no-op the second time", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Append(ctx, sampleRecord("Asha Rao")))
		require.NoError(t, s.Clear(ctx))
		require.NoError(t, s.Clear(ctx))
	})

	t.Run("clearing a store that never existed succeeds", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Clear(ctx))
	})
}

func TestCSVStoreExport(t *testing.T) {
	ctx := context.Background()

	t.Run("export returns the file verbatim", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Append(ctx, sampleRecord("Asha Rao")))

		data, err := s.ExportCSV(ctx)
		require.NoError(t, err)
		raw, err := os.ReadFile(s.Path)
		require.NoError(t, err)
		assert.Equal(t, raw, data)
	})

	t.Run("export of a missing log is a header-only CSV", func(t *testing.T) {
		s := tempStore(t)
		data, err := s.ExportCSV(ctx)
		require.NoError(t, err)
		assert.Equal(t, "TimestampISO,Date,Time,FullName,PhoneLast4,EmployeeID,TraineeID\n", string(data))
	})
}

func TestCSVStoreAppendAfterClear(t *testing.T) {
	ctx := context.Background()
	s := tempStore(t)

	require.NoError(t, s.Append(ctx, sampleRecord("Asha Rao")))
	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Append(ctx, sampleRecord("Binu Nair")))

	// The header is re-created with the file.
	recs, err := s.ReadAll(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "Binu Nair", recs[0].FullName)
}
