package syncstore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"clubhouse/internal/adapters/gateway"
)

// fakeGateway records every call and serves canned data. Safe for the
// store's background writers.
type fakeGateway struct {
	mu sync.Mutex

	pingErr   error
	selectErr map[string]error
	insertErr map[string]error
	updateErr map[string]error

	tables map[string][]gateway.Row
	calls  []gatewayCall
}

type gatewayCall struct {
	op    string
	table string
	id    string
	rows  []gateway.Row
	patch gateway.Row
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		selectErr: map[string]error{},
		insertErr: map[string]error{},
		updateErr: map[string]error{},
		tables:    map[string][]gateway.Row{},
	}
}

func (g *fakeGateway) Ping(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "ping"})
	return g.pingErr
}

func (g *fakeGateway) SelectAll(ctx context.Context, table string) ([]gateway.Row, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "select", table: table})
	if err := g.selectErr[table]; err != nil {
		return nil, err
	}
	return g.tables[table], nil
}

func (g *fakeGateway) Insert(ctx context.Context, table string, rows []gateway.Row) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "insert", table: table, rows: rows})
	if err := g.insertErr[table]; err != nil {
		return err
	}
	g.tables[table] = append(g.tables[table], rows...)
	return nil
}

func (g *fakeGateway) Update(ctx context.Context, table string, patch gateway.Row, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "update", table: table, id: id, patch: patch})
	return g.updateErr[table]
}

func (g *fakeGateway) Delete(ctx context.Context, table string, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, gatewayCall{op: "delete", table: table, id: id})
	return nil
}

// callsTo returns the recorded calls of one op against one table.
func (g *fakeGateway) callsTo(op, table string) []gatewayCall {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []gatewayCall
	for _, c := range g.calls {
		if c.op == op && c.table == table {
			out = append(out, c)
		}
	}
	return out
}

// tickingClock returns a clock that advances one millisecond per read so
// generated ids never collide within a test.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

func TestLoad_NoGateway_SeedsLocal(t *testing.T) {
	s := New(nil)
	if got := s.Load(context.Background()); got != StatusLocal {
		t.Fatalf("status = %q, want %q", got, StatusLocal)
	}
	snap := s.Snapshot()
	if len(snap.Users) != 4 {
		t.Errorf("users = %d, want 4", len(snap.Users))
	}
	if len(snap.Activities) != 2 {
		t.Errorf("activities = %d, want 2", len(snap.Activities))
	}
}

func TestLoad_UnreachableGateway_SeedsLocal(t *testing.T) {
	gw := newFakeGateway()
	gw.pingErr = errors.New("connection refused")

	s := New(gw)
	if got := s.Load(context.Background()); got != StatusLocal {
		t.Fatalf("status = %q, want %q", got, StatusLocal)
	}
	if len(s.Snapshot().Users) != 4 {
		t.Errorf("seed roster missing")
	}
	if calls := gw.callsTo("select", gateway.TableUsers); len(calls) != 0 {
		t.Errorf("selected from unreachable gateway")
	}
}

func TestLoad_EmptyRemote_SeedsRemoteAndConnects(t *testing.T) {
	gw := newFakeGateway()

	s := New(gw)
	if got := s.Load(context.Background()); got != StatusConnected {
		t.Fatalf("status = %q, want %q", got, StatusConnected)
	}
	inserts := gw.callsTo("insert", gateway.TableUsers)
	if len(inserts) != 1 {
		t.Fatalf("user inserts = %d, want 1", len(inserts))
	}
	if len(inserts[0].rows) != 4 {
		t.Errorf("seeded rows = %d, want 4", len(inserts[0].rows))
	}
	if len(s.Snapshot().Users) != 4 {
		t.Errorf("local roster = %d, want 4", len(s.Snapshot().Users))
	}
}

func TestLoad_PopulatedRemote_UsesRemoteData(t *testing.T) {
	gw := newFakeGateway()
	gw.tables[gateway.TableUsers] = []gateway.Row{
		{"id": "u1", "name": "Ana", "role": "member", "password": "pw1", "positions": `["President"]`},
	}
	gw.tables[gateway.TableActivities] = []gateway.Row{
		{"id": "a1", "user_id": "u1", "type": "Event Hosting", "points": float64(20), "status": "Approved"},
	}

	s := New(gw)
	if got := s.Load(context.Background()); got != StatusConnected {
		t.Fatalf("status = %q, want %q", got, StatusConnected)
	}
	snap := s.Snapshot()
	if len(snap.Users) != 1 || snap.Users[0].Name != "Ana" {
		t.Fatalf("users = %+v", snap.Users)
	}
	if snap.Users[0].Positions[0] != "President" {
		t.Errorf("positions = %v", snap.Users[0].Positions)
	}
	if snap.Activities[0].Points != 20 {
		t.Errorf("points = %d, want 20", snap.Activities[0].Points)
	}
	if inserts := gw.callsTo("insert", gateway.TableUsers); len(inserts) != 0 {
		t.Errorf("seeded over a populated remote")
	}
}

func TestLoad_SelectFailure_ReportsError(t *testing.T) {
	gw := newFakeGateway()
	gw.tables[gateway.TableUsers] = []gateway.Row{{"id": "u1", "name": "Ana", "role": "member"}}
	gw.selectErr[gateway.TableActivities] = errors.New("boom")

	s := New(gw)
	if got := s.Load(context.Background()); got != StatusError {
		t.Fatalf("status = %q, want %q", got, StatusError)
	}
}

func TestLoad_SecondCallReturnsFirstResult(t *testing.T) {
	gw := newFakeGateway()
	gw.pingErr = errors.New("down")

	s := New(gw)
	s.Load(context.Background())

	gw.mu.Lock()
	gw.pingErr = nil
	gw.mu.Unlock()

	if got := s.Load(context.Background()); got != StatusLocal {
		t.Errorf("second load = %q, want %q", got, StatusLocal)
	}
}

func TestLoad_SettingsApplied(t *testing.T) {
	gw := newFakeGateway()
	gw.tables[gateway.TableUsers] = []gateway.Row{{"id": "u1", "name": "Ana", "role": "member"}}
	gw.tables[gateway.TableSettings] = []gateway.Row{
		{"id": "app_name", "value": "Robotics Club"},
		{"id": "about_content", "value": `{"intro":"hi","vision":"v","mission":"m","values":"x"}`},
	}

	s := New(gw)
	s.Load(context.Background())
	snap := s.Snapshot()
	if snap.Settings.AppName != "Robotics Club" {
		t.Errorf("app name = %q", snap.Settings.AppName)
	}
	if snap.About.Intro != "hi" {
		t.Errorf("about intro = %q", snap.About.Intro)
	}
	// Untouched keys keep defaults.
	if snap.Settings.AppSubtitle == "" {
		t.Errorf("subtitle default lost")
	}
}

func TestLoad_MalformedAboutKeepsDefault(t *testing.T) {
	gw := newFakeGateway()
	gw.tables[gateway.TableUsers] = []gateway.Row{{"id": "u1", "name": "Ana", "role": "member"}}
	gw.tables[gateway.TableSettings] = []gateway.Row{
		{"id": "about_content", "value": "{not json"},
	}

	s := New(gw)
	if got := s.Load(context.Background()); got != StatusConnected {
		t.Fatalf("status = %q", got)
	}
	if s.Snapshot().About.Intro == "" {
		t.Errorf("default about lost on parse failure")
	}
}

func TestLogin_ExactMatchOnly(t *testing.T) {
	s := New(nil)
	s.Load(context.Background())

	tests := []struct {
		name     string
		userID   string
		password string
		wantOK   bool
	}{
		{"valid", "admin", "admin123", true},
		{"wrong password", "admin", "admin1234", false},
		{"case differs", "admin", "Admin123", false},
		{"trailing space", "admin", "admin123 ", false},
		{"unknown user", "ghost", "admin123", false},
		{"empty password", "admin", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := s.Login(tt.userID, tt.password)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && u.ID != tt.userID {
				t.Errorf("user = %q", u.ID)
			}
		})
	}
}

func TestRestore_StaleIDFailsClosed(t *testing.T) {
	s := New(nil)
	s.Load(context.Background())

	if _, ok := s.Restore("priya"); !ok {
		t.Fatalf("known id not restored")
	}
	if _, ok := s.Restore("deleted-user"); ok {
		t.Errorf("unknown id restored")
	}
	if _, ok := s.Restore(""); ok {
		t.Errorf("empty id restored")
	}
}

func TestSnapshot_IsolatedFromLaterMutations(t *testing.T) {
	s := New(nil, WithNow(tickingClock()))
	s.Load(context.Background())
	admin, _ := s.Login("admin", "admin123")

	before := s.Snapshot()
	if _, err := s.AddAnnouncement(context.Background(), admin, "hello"); err != nil {
		t.Fatal(err)
	}
	if len(before.Announcements) != 0 {
		t.Errorf("snapshot observed a later mutation")
	}
	if len(s.Snapshot().Announcements) != 1 {
		t.Errorf("mutation missing from fresh snapshot")
	}
}
