package syncer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizbank/internal/bookmarks"
	"github.com/abhisek/quizbank/internal/catalog"
	"github.com/abhisek/quizbank/internal/mastery"
	"github.com/abhisek/quizbank/internal/retryqueue"
	"github.com/abhisek/quizbank/internal/store"
)

type memRecords struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemRecords() *memRecords {
	return &memRecords{data: make(map[string][]byte)}
}

func (m *memRecords) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memRecords) Put(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *memRecords) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

var _ store.Records = (*memRecords)(nil)

func engineRegistry() *catalog.Registry {
	file := "cardio.json"
	return &catalog.Registry{Chapters: []catalog.Chapter{
		{ID: "cardiology", Label: "Cardiology", Topics: []catalog.Topic{
			{ID: "cardio", Label: "Cardio basics", File: &file},
		}},
	}}
}

// syncServer is a minimal progress endpoint: one snapshot slot behind
// GET/PUT, 404 until the first upload.
type syncServer struct {
	mu   sync.Mutex
	snap *RemoteSnapshot
	puts int
}

func (s *syncServer) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()
		switch r.Method {
		case http.MethodGet:
			if s.snap == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_ = json.NewEncoder(w).Encode(s.snap)
		case http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			var p Payload
			if err := json.Unmarshal(body, &p); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			s.puts++
			s.snap = &RemoteSnapshot{Payload: p, UpdatedAt: "2026-03-10T12:00:00Z"}
			_ = json.NewEncoder(w).Encode(map[string]string{"updated_at": s.snap.UpdatedAt})
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
}

func newTestEngine(t *testing.T, baseURL string, token string) (*Engine, *memRecords) {
	t.Helper()
	records := newMemRecords()
	logger := log.New(io.Discard)
	tok := func() string { return token }
	return NewEngine(
		NewHTTPClient(baseURL, tok),
		tok,
		mastery.NewService(records, engineRegistry(), logger),
		retryqueue.NewService(records, logger),
		bookmarks.NewService(records, logger),
		records,
		logger,
	), records
}

func TestPushUnauthenticatedIsNoop(t *testing.T) {
	srv := &syncServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	eng, _ := newTestEngine(t, ts.URL, "")
	require.NoError(t, eng.Push(context.Background()))
	assert.Equal(t, 0, srv.puts)
}

func TestPushUploadsLocalState(t *testing.T) {
	srv := &syncServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	eng, records := newTestEngine(t, ts.URL, "tok")
	ctx := context.Background()

	ledger := mastery.NewLedger()
	ledger.Topic("cardio").Points = 12
	eng.masterySv.ReplaceLedger(ctx, ledger)

	require.NoError(t, eng.Push(ctx))
	require.NotNil(t, srv.snap)
	assert.Equal(t, 12, srv.snap.MasteryData.Topics["cardio"].Points)
	assert.NotEmpty(t, srv.snap.DeviceID)

	// Device id is persisted and reused.
	raw, err := records.Get(ctx, store.KeyDeviceID)
	require.NoError(t, err)
	assert.Equal(t, string(raw), srv.snap.DeviceID)

	require.NoError(t, eng.Push(ctx))
	assert.Equal(t, string(raw), srv.snap.DeviceID)
}

func TestPullEmptyRemoteSeedsIt(t *testing.T) {
	srv := &syncServer{}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	eng, _ := newTestEngine(t, ts.URL, "tok")
	ctx := context.Background()

	ledger := mastery.NewLedger()
	ledger.Topic("cardio").Points = 6
	eng.masterySv.ReplaceLedger(ctx, ledger)

	merged, err := eng.Pull(ctx)
	require.NoError(t, err)
	assert.False(t, merged)
	require.NotNil(t, srv.snap)
	assert.Equal(t, 6, srv.snap.MasteryData.Topics["cardio"].Points)
}

func TestPullMergesAndRepushes(t *testing.T) {
	remoteLedger := mastery.NewLedger()
	remoteLedger.Topic("cardio").Points = 20
	remoteLedger.Topic("cardio").TotalCorrect = 18
	srv := &syncServer{snap: &RemoteSnapshot{
		Payload: Payload{
			MasteryData: remoteLedger,
			StreakData:  mastery.StreakState{CurrentStreak: 5, LastPracticedDate: "2026-03-08"},
			Bookmarks:   []bookmarks.Bookmark{{QuestionID: "q9", SavedAt: "2026-03-01T00:00:00Z"}},
		},
		UpdatedAt: "2026-03-08T09:00:00Z",
	}}
	ts := httptest.NewServer(srv.handler())
	defer ts.Close()

	eng, _ := newTestEngine(t, ts.URL, "tok")
	ctx := context.Background()

	local := mastery.NewLedger()
	local.Topic("cardio").Points = 12
	local.Topic("cardio").TotalQuestionsAnswered = 30
	eng.masterySv.ReplaceLedger(ctx, local)
	eng.masterySv.ReplaceStreak(ctx, mastery.StreakState{CurrentStreak: 2, LastPracticedDate: "2026-03-09"})

	merged, err := eng.Pull(ctx)
	require.NoError(t, err)
	assert.True(t, merged)

	got := eng.masterySv.LedgerSnapshot(ctx).Topics["cardio"]
	assert.Equal(t, 20, got.Points)
	assert.Equal(t, 30, got.TotalQuestionsAnswered)
	assert.Equal(t, 18, got.TotalCorrect)

	streak := eng.masterySv.StreakSnapshot(ctx)
	assert.Equal(t, 5, streak.CurrentStreak)
	assert.Equal(t, "2026-03-09", streak.LastPracticedDate)

	marks := eng.marks.List(ctx)
	require.Len(t, marks, 1)
	assert.Equal(t, "q9", marks[0].QuestionID)

	// The union went back up.
	assert.Equal(t, 1, srv.puts)
	assert.Equal(t, 20, srv.snap.MasteryData.Topics["cardio"].Points)
	assert.Equal(t, 30, srv.snap.MasteryData.Topics["cardio"].TotalQuestionsAnswered)
}

func TestPullUnauthenticatedIsNoop(t *testing.T) {
	eng, _ := newTestEngine(t, "http://127.0.0.1:0", "")
	merged, err := eng.Pull(context.Background())
	require.NoError(t, err)
	assert.False(t, merged)
}

func TestPullServerErrorSurfaced(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	eng, _ := newTestEngine(t, ts.URL, "tok")
	merged, err := eng.Pull(context.Background())
	require.Error(t, err)
	assert.False(t, merged)
}

func TestFetchSendsBearerToken(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	c := NewHTTPClient(ts.URL, func() string { return "secret" })
	snap, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Equal(t, "Bearer secret", gotAuth)
}
