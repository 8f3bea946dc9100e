package ledger

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/de-tools/relationship-roi/pkg/models/api"
	"github.com/de-tools/relationship-roi/pkg/services/ledger"
	"github.com/de-tools/relationship-roi/pkg/services/token"
	"github.com/de-tools/relationship-roi/pkg/store/database"
	"github.com/de-tools/relationship-roi/pkg/store/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)

type fixture struct {
	router http.Handler
	codec  *token.SignedCodec
}

func setupFixture(t *testing.T) *fixture {
	db, err := database.NewDB(database.Settings{Driver: database.DriverDuckDB, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	store, err := snapshot.NewStore(db, database.DriverDuckDB)
	require.NoError(t, err)

	clock := func() time.Time { return testNow }
	codec := &token.SignedCodec{Secret: []byte("secret"), Now: clock}
	h := NewHandler(ledger.NewServiceWithClock(store, clock), &token.Authorizer{Signed: codec})
	h.now = clock

	r := chi.NewRouter()
	r.Get("/ledger", h.GetLedger)
	r.Delete("/ledger", h.ResetLedger)
	r.Post("/people", h.AddPerson)
	r.Delete("/people/{id}", h.DeletePerson)
	r.Post("/entries", h.AddEntry)
	r.Put("/entries/{id}", h.UpdateEntry)
	r.Delete("/entries/{id}", h.DeleteEntry)
	r.Patch("/settings", h.PatchSettings)
	r.Post("/entitlement", h.SetEntitlement)
	r.Delete("/entitlement", h.ClearEntitlement)
	r.Get("/report", h.GetReport)
	r.Get("/insights", h.GetInsights)
	r.Get("/backup", h.ExportBackup)
	r.Post("/backup", h.RestoreBackup)

	return &fixture{router: r, codec: codec}
}

func (f *fixture) do(method, path, body string, profile ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if len(profile) > 0 {
		req.Header.Set("X-Ledger-Profile", profile[0])
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (f *fixture) addPerson(t *testing.T, name string) string {
	t.Helper()
	rec := f.do(http.MethodPost, "/people", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	l := decode[api.Ledger](t, rec)
	for _, p := range l.People {
		if p.Name == name {
			return p.ID
		}
	}
	t.Fatalf("person %s not in response", name)
	return ""
}

func (f *fixture) addEntry(t *testing.T, personID, date string) api.Entry {
	t.Helper()
	body := `{"personId":"` + personID + `","date":"` + date + `","minutes":60,"moneyWon":10000,"moodDelta":0,"reciprocity":3,"note":"저녁"}`
	rec := f.do(http.MethodPost, "/entries", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.Ledger](t, rec).Entries[0]
}

func TestHandler_DefaultLedger(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodGet, "/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)

	l := decode[api.Ledger](t, rec)
	assert.Equal(t, "free", l.Plan)
	assert.Equal(t, int64(9860), l.Settings.HourlyRateWon)
	assert.True(t, l.Settings.AnonymizeOnShare)
	assert.Empty(t, l.People)
	assert.Equal(t, api.Limits{MaxPeople: 3, MaxEntries: 30, AICoachPerMonth: 0}, l.Limits)
}

func TestHandler_PeopleAndEntries(t *testing.T) {
	f := setupFixture(t)

	minsu := f.addPerson(t, "민수")
	entry := f.addEntry(t, minsu, "2024-05-10")
	assert.Len(t, entry.ID, 26)
	assert.Equal(t, "저녁", entry.Note)

	t.Run("entry for unknown person", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/entries", `{"personId":"ghost","date":"2024-05-10","reciprocity":3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("entry in the future", func(t *testing.T) {
		rec := f.do(http.MethodPost, "/entries", `{"personId":"`+minsu+`","date":"2024-06-10","reciprocity":3}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("update entry", func(t *testing.T) {
		body := `{"personId":"` + minsu + `","date":"2024-05-11","minutes":30,"moneyWon":0,"moodDelta":-2,"reciprocity":1,"boundaryHit":true}`
		rec := f.do(http.MethodPut, "/entries/"+entry.ID, body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		updated := decode[api.Ledger](t, rec).Entries[0]
		assert.Equal(t, entry.ID, updated.ID)
		assert.Equal(t, -2, updated.MoodDelta)
		assert.True(t, updated.BoundaryHit)
	})

	t.Run("unknown entry", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, f.do(http.MethodDelete, "/entries/nope", "").Code)
	})

	t.Run("delete person cascades", func(t *testing.T) {
		rec := f.do(http.MethodDelete, "/people/"+minsu, "")
		require.Equal(t, http.StatusOK, rec.Code)
		l := decode[api.Ledger](t, rec)
		assert.Empty(t, l.People)
		assert.Empty(t, l.Entries)
	})
}

func TestHandler_PlanLimits(t *testing.T) {
	f := setupFixture(t)
	for _, name := range []string{"가", "나", "다"} {
		f.addPerson(t, name)
	}

	rec := f.do(http.MethodPost, "/people", `{"name":"라"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	raw, _, err := f.codec.Issue("pro", 30)
	require.NoError(t, err)
	rec = f.do(http.MethodPost, "/entitlement", `{"token":"`+raw+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l := decode[api.Ledger](t, rec)
	assert.Equal(t, "pro", l.Plan)
	require.NotNil(t, l.ExpiresAt)
	assert.True(t, testNow.AddDate(0, 0, 30).Equal(*l.ExpiresAt))
	assert.Equal(t, ledger.Unlimited, l.Limits.MaxPeople)

	f.addPerson(t, "라")

	rec = f.do(http.MethodPost, "/entitlement", `{"token":"pro_forged_token_x_y"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodDelete, "/entitlement", "")
	assert.Equal(t, "free", decode[api.Ledger](t, rec).Plan)
}

func TestHandler_Validation(t *testing.T) {
	f := setupFixture(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "invalid json", method: http.MethodPost, path: "/people", body: "{", want: http.StatusBadRequest},
		{name: "empty name", method: http.MethodPost, path: "/people", body: `{"name":"  "}`, want: http.StatusBadRequest},
		{name: "long name", method: http.MethodPost, path: "/people", body: `{"name":"` + strings.Repeat("가", 31) + `"}`, want: http.StatusBadRequest},
		{name: "bad category", method: http.MethodPost, path: "/people", body: `{"name":"a","category":"enemy"}`, want: http.StatusBadRequest},
		{name: "negative hourly rate", method: http.MethodPatch, path: "/settings", body: `{"hourlyRateWon":-1}`, want: http.StatusBadRequest},
		{name: "unknown person", method: http.MethodDelete, path: "/people/ghost", want: http.StatusNotFound},
		{name: "bad month", method: http.MethodGet, path: "/report?month=2024-13", want: http.StatusBadRequest},
		{name: "bad cause", method: http.MethodGet, path: "/report?cause=LUCK", want: http.StatusBadRequest},
		{name: "bad range", method: http.MethodGet, path: "/report?from=2024-05-01", want: http.StatusBadRequest},
		{name: "bad backup format", method: http.MethodGet, path: "/backup?format=xml", want: http.StatusBadRequest},
		{name: "incomplete backup", method: http.MethodPost, path: "/backup", body: `{"settings":{}}`, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
			assert.NotEmpty(t, decode[api.ErrorResponse](t, rec).Error)
		})
	}
}

func TestHandler_SettingsPatch(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodPatch, "/settings", `{"hourlyRateWon":20000,"anonymizeOnShare":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	s := decode[api.Ledger](t, rec).Settings
	assert.Equal(t, int64(20000), s.HourlyRateWon)
	assert.False(t, s.AnonymizeOnShare)
	assert.Equal(t, 1, s.OnboardingVersion)
}

func TestHandler_Report(t *testing.T) {
	f := setupFixture(t)
	minsu := f.addPerson(t, "민수")
	f.addEntry(t, minsu, "2024-05-10")
	f.addEntry(t, minsu, "2024-04-10")

	rec := f.do(http.MethodGet, "/report?month=2024-05", "")
	require.Equal(t, http.StatusOK, rec.Code)
	rep := decode[api.Report](t, rec)
	assert.Equal(t, "2024-05 결산", rep.WindowLabel)
	assert.Equal(t, 1, rep.Totals.Entries)
	assert.Equal(t, int64(19860), rep.Totals.CostWon)
	assert.Equal(t, int64(19860), rep.Totals.NetLossWon)
	assert.Equal(t, "민수", rep.TopPersonLabel)

	rec = f.do(http.MethodGet, "/report?from=2024-04-01&to=2024-04-30&label=4월", "")
	rep = decode[api.Report](t, rec)
	assert.Equal(t, "4월", rep.WindowLabel)
	assert.Equal(t, 1, rep.Totals.Entries)

	rec = f.do(http.MethodGet, "/report", "")
	rep = decode[api.Report](t, rec)
	assert.Equal(t, "전체 결산", rep.WindowLabel)
	assert.Equal(t, 2, rep.Totals.Entries)

	rec = f.do(http.MethodGet, "/report", "", "other")
	rep = decode[api.Report](t, rec)
	assert.Zero(t, rep.Totals.Entries)
	assert.Equal(t, "—", rep.TopPersonLabel)
}

func TestHandler_Insights(t *testing.T) {
	f := setupFixture(t)

	rec := f.do(http.MethodGet, "/insights", "")
	require.Equal(t, http.StatusOK, rec.Code)
	insights := decode[[]api.Insight](t, rec)
	require.Len(t, insights, 1)
	assert.Equal(t, "no_data", insights[0].ID)
}

func TestHandler_BackupRoundTrip(t *testing.T) {
	f := setupFixture(t)
	minsu := f.addPerson(t, "민수")
	f.addEntry(t, minsu, "2024-05-10")

	rec := f.do(http.MethodGet, "/backup?format=csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "relationship-roi-20240520.csv")
	lines := strings.Split(rec.Body.String(), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,personId,personName,date,minutes,moneyWon,moodDelta,reciprocity,boundaryHit,note", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], `,"저녁"`))

	rec = f.do(http.MethodGet, "/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)
	backup := rec.Body.Bytes()

	var doc map[string]any
	require.NoError(t, json.Unmarshal(backup, &doc))
	assert.Equal(t, float64(1), doc["version"])

	rec = f.do(http.MethodPost, "/backup", string(backup), "restored")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	l := decode[api.Ledger](t, rec)
	require.Len(t, l.People, 1)
	assert.Equal(t, minsu, l.People[0].ID)
	require.Len(t, l.Entries, 1)
	assert.True(t, bytes.Contains(backup, []byte(l.Entries[0].ID)))
}

func TestHandler_Reset(t *testing.T) {
	f := setupFixture(t)

	minsu := f.addPerson(t, "민수")
	f.addEntry(t, minsu, "2024-05-10")
	f.addPerson(t, "지아")

	rec := f.do(http.MethodDelete, "/ledger", "")
	require.Equal(t, http.StatusOK, rec.Code)

	l := decode[api.Ledger](t, rec)
	assert.Empty(t, l.People)
	assert.Empty(t, l.Entries)
	assert.Equal(t, "free", l.Plan)

	other := f.addPerson(t, "민수")
	assert.NotEqual(t, minsu, other)
}
