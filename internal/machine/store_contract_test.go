package machine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerrad567/masterdata-core/internal/masterdata"
)

func boolPtr(b bool) *bool { return &b }

var testCreated = time.Date(2026, 3, 1, 9, 30, 0, 123456000, time.UTC)

func testMachine(id, lang string, deleted *bool) Machine {
	return Machine{
		ID:              id,
		LangCode:        lang,
		Name:            "Machine " + id,
		SerialNum:       "SN-" + id,
		MacAddress:      "A4-BB-6D-0F-B4-D0",
		IPAddress:       "192.168.0.12",
		MachineSpecID:   "1001",
		IsActive:        true,
		IsDeleted:       deleted,
		CreatedBy:       "admin",
		CreatedDateTime: testCreated,
	}
}

func keysOf(rows []Machine) []string {
	keys := make([]string, 0, len(rows))
	for _, m := range rows {
		keys = append(keys, m.ID+"/"+m.LangCode)
	}
	return keys
}

// runStoreContract checks the behaviour every Store and HistoryStore
// implementation must share.
func runStoreContract(t *testing.T, store Store, history HistoryStore) {
	t.Helper()
	ctx := context.Background()

	seed := []Machine{
		testMachine("M2", "eng", nil),
		testMachine("M1", "fra", boolPtr(true)),
		testMachine("M1", "eng", nil),
		testMachine("M10", "eng", boolPtr(false)),
		testMachine("M3", "ara", boolPtr(false)),
		testMachine("M4", "eng", boolPtr(true)),
	}
	for _, m := range seed {
		_, err := store.InsertRecord(ctx, m)
		require.NoError(t, err, "InsertRecord(%s/%s)", m.ID, m.LangCode)
	}

	t.Run("find all returns active rows in key order", func(t *testing.T) {
		got, err := store.FindAllActive(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"M1/eng", "M10/eng", "M2/eng", "M3/ara"}, keysOf(got))
	})

	t.Run("find by locale", func(t *testing.T) {
		got, err := store.FindByLocaleActive(ctx, "eng")
		require.NoError(t, err)
		assert.Equal(t, []string{"M1/eng", "M10/eng", "M2/eng"}, keysOf(got))
	})

	t.Run("find by id and locale", func(t *testing.T) {
		tests := []struct {
			id, lang string
			want     []string
		}{
			{"M1", "eng", []string{"M1/eng"}},
			{"M1", "fra", []string{}},
			{"M4", "eng", []string{}},
			{"M9", "eng", []string{}},
		}
		for _, tt := range tests {
			got, err := store.FindByIDAndLocaleActive(ctx, tt.id, tt.lang)
			require.NoError(t, err, "FindByIDAndLocaleActive(%s, %s)", tt.id, tt.lang)
			assert.Equal(t, tt.want, keysOf(got), "FindByIDAndLocaleActive(%s, %s)", tt.id, tt.lang)
		}
	})

	t.Run("round trips fields", func(t *testing.T) {
		got, err := store.FindByIDAndLocaleActive(ctx, "M10", "eng")
		require.NoError(t, err)
		require.Len(t, got, 1)
		m := got[0]
		assert.Equal(t, "Machine M10", m.Name)
		assert.Equal(t, "SN-M10", m.SerialNum)
		assert.Equal(t, "1001", m.MachineSpecID)
		assert.True(t, m.IsActive)
		require.NotNil(t, m.IsDeleted, "IsDeleted should be an explicit false")
		assert.False(t, *m.IsDeleted)
		assert.True(t, m.CreatedDateTime.Equal(testCreated), "CreatedDateTime = %v, want %v", m.CreatedDateTime, testCreated)

		unset, err := store.FindByIDAndLocaleActive(ctx, "M2", "eng")
		require.NoError(t, err)
		require.Len(t, unset, 1)
		assert.Nil(t, unset[0].IsDeleted)
	})

	t.Run("duplicate key is an access failure", func(t *testing.T) {
		_, err := store.InsertRecord(ctx, testMachine("M1", "eng", nil))
		assert.ErrorIs(t, err, masterdata.ErrAccessFailure)
		assert.ErrorIs(t, err, ErrMachineExists)
	})

	t.Run("history insert", func(t *testing.T) {
		h := MachineHistory{Machine: testMachine("M2", "eng", boolPtr(false)), EffectDateTime: testCreated}
		got, err := history.InsertHistory(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, "M2", got.ID)
		assert.True(t, got.EffectDateTime.Equal(testCreated))
	})

	t.Run("NUL bytes stay inside their key part", func(t *testing.T) {
		first := testMachine("N\x00eng", "x", nil)
		second := testMachine("N", "eng\x00x", nil)
		for _, m := range []Machine{first, second} {
			_, err := store.InsertRecord(ctx, m)
			require.NoError(t, err, "InsertRecord(%q/%q)", m.ID, m.LangCode)
		}

		for _, m := range []Machine{first, second} {
			got, err := store.FindByIDAndLocaleActive(ctx, m.ID, m.LangCode)
			require.NoError(t, err)
			require.Len(t, got, 1, "FindByIDAndLocaleActive(%q, %q)", m.ID, m.LangCode)
			assert.Equal(t, m.ID, got[0].ID)
			assert.Equal(t, m.LangCode, got[0].LangCode)
		}

		got, err := store.FindByIDAndLocaleActive(ctx, "N", "eng")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
