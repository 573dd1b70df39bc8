package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/middleware"
	"clubhouse/internal/adapters/textgen"
	"clubhouse/internal/application/syncstore"
)

type fakeEmailSender struct {
	mu   sync.Mutex
	sent []email.SendRequest
}

func (f *fakeEmailSender) Send(ctx context.Context, req email.SendRequest) (email.SendResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	return email.SendResult{MessageID: "msg1", SentAt: time.Now()}, nil
}

type fakeGenerator struct {
	message string
	err     error
}

func (f *fakeGenerator) Congratulate(ctx context.Context, req textgen.Request) (string, error) {
	return f.message, f.err
}

func testClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Millisecond)
		return t
	}
}

// newTestServer builds a handler over a seed-data store (no gateway).
func newTestServer(t *testing.T, deps Deps) (http.Handler, *syncstore.Store) {
	t.Helper()
	RateLimitPerSecond = 10000

	store := syncstore.New(nil, syncstore.WithNow(testClock()))
	store.Load(context.Background())
	deps.Store = store
	return NewMux(deps), store
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, h http.Handler, userID, password string) []*http.Cookie {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/login", map[string]string{
		"user_id": userID, "password": password,
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login %q: status = %d, body = %s", userID, rec.Code, rec.Body.String())
	}
	return rec.Result().Cookies()
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestLoginLogoutMe(t *testing.T) {
	h, _ := newTestServer(t, Deps{})

	if rec := doJSON(t, h, http.MethodGet, "/api/me", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("me without session: status = %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/login", map[string]string{
		"user_id": "priya", "password": "wrong",
	}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login: status = %d", rec.Code)
	}

	cookies := login(t, h, "priya", "priya123")
	me := doJSON(t, h, http.MethodGet, "/api/me", nil, cookies)
	if me.Code != http.StatusOK {
		t.Fatalf("me: status = %d", me.Code)
	}
	u := decodeBody[userDTO](t, me)
	if u.ID != "priya" || u.Name != "Priya Sharma" {
		t.Errorf("me = %+v", u)
	}
	if strings.Contains(me.Body.String(), "priya123") {
		t.Errorf("password leaked in response")
	}

	if rec := doJSON(t, h, http.MethodPost, "/api/logout", nil, cookies); rec.Code != http.StatusNoContent {
		t.Errorf("logout: status = %d", rec.Code)
	}
}

func TestStatusEndpoint(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	rec := doJSON(t, h, http.MethodGet, "/api/status", nil, nil)
	got := decodeBody[map[string]string](t, rec)
	if got["status"] != "local" {
		t.Errorf("status = %q, want local", got["status"])
	}
}

func TestActivityFlow(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	memberCookies := login(t, h, "sneha", "sneha123")
	adminCookies := login(t, h, "admin", "admin123")

	// Submit ignores any client-supplied points; the type decides.
	rec := doJSON(t, h, http.MethodPost, "/api/activities", map[string]string{
		"type": "Social Media Promotion", "description": "Posted the fest reel", "date": "2026-03-05",
	}, memberCookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	submitted := decodeBody[activityDTO](t, rec)
	if submitted.Points != 5 || submitted.Status != "Pending" {
		t.Errorf("submitted = %+v", submitted)
	}

	// Members see only their own entries.
	list := decodeBody[[]activityDTO](t, doJSON(t, h, http.MethodGet, "/api/activities", nil, memberCookies))
	for _, a := range list {
		if a.UserID != "sneha" {
			t.Errorf("member saw foreign activity %+v", a)
		}
	}

	// The admin sees everything, including the two seeded entries.
	adminList := decodeBody[[]activityDTO](t, doJSON(t, h, http.MethodGet, "/api/activities", nil, adminCookies))
	if len(adminList) != 3 {
		t.Errorf("admin list = %d entries, want 3", len(adminList))
	}

	// Members cannot decide.
	rec = doJSON(t, h, http.MethodPost, "/api/activities/decide", map[string]any{
		"id": submitted.ID, "approve": true,
	}, memberCookies)
	if rec.Code != http.StatusForbidden {
		t.Errorf("member decide: status = %d", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/activities/decide", map[string]any{
		"id": submitted.ID, "approve": true,
	}, adminCookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin decide: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	// The decision shows up on the member's notifications.
	notifs := decodeBody[[]notificationDTO](t, doJSON(t, h, http.MethodGet, "/api/notifications", nil, memberCookies))
	if len(notifs) != 1 || !strings.Contains(notifs[0].Text, "approved") {
		t.Errorf("notifications = %+v", notifs)
	}

	// And on the leaderboard.
	board := decodeBody[[]leaderboardEntryDTO](t, doJSON(t, h, http.MethodGet, "/api/leaderboard", nil, memberCookies))
	found := false
	for _, entry := range board {
		if entry.UserID == "sneha" {
			found = true
			if entry.TotalPoints != 5 {
				t.Errorf("sneha points = %d, want 5", entry.TotalPoints)
			}
		}
		if entry.UserID == "admin" {
			t.Errorf("admin on the leaderboard")
		}
	}
	if !found {
		t.Errorf("sneha missing from leaderboard: %+v", board)
	}
}

func TestCongratulation(t *testing.T) {
	h, _ := newTestServer(t, Deps{TextGen: &fakeGenerator{message: "Great job hosting the quiz!"}})
	cookies := login(t, h, "priya", "priya123")

	// act1 is priya's seeded approved activity.
	rec := doJSON(t, h, http.MethodGet, "/api/activities/congratulation?id=act1", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[map[string]string](t, rec)
	if got["message"] != "Great job hosting the quiz!" {
		t.Errorf("message = %q", got["message"])
	}

	// act2 belongs to rahul and is pending anyway.
	if rec := doJSON(t, h, http.MethodGet, "/api/activities/congratulation?id=act2", nil, cookies); rec.Code != http.StatusNotFound {
		t.Errorf("foreign activity: status = %d", rec.Code)
	}
}

func TestCongratulation_FallbackOnGeneratorError(t *testing.T) {
	h, _ := newTestServer(t, Deps{TextGen: &fakeGenerator{err: fmt.Errorf("provider down")}})
	cookies := login(t, h, "priya", "priya123")

	rec := doJSON(t, h, http.MethodGet, "/api/activities/congratulation?id=act1", nil, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	got := decodeBody[map[string]string](t, rec)
	if got["message"] != textgen.FallbackMessage {
		t.Errorf("message = %q, want fallback", got["message"])
	}
}

func TestRosterAdminOnly(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	memberCookies := login(t, h, "priya", "priya123")
	adminCookies := login(t, h, "admin", "admin123")

	if rec := doJSON(t, h, http.MethodGet, "/api/users", nil, memberCookies); rec.Code != http.StatusForbidden {
		t.Errorf("member roster read: status = %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/users", map[string]string{
		"name": "New Member", "password": "secret",
	}, adminCookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add user: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	added := decodeBody[userDTO](t, rec)
	if added.Role != "member" {
		t.Errorf("role = %q", added.Role)
	}

	// The new member can log in immediately.
	login(t, h, added.ID, "secret")

	// Self-deletion is blocked before the store is consulted.
	if rec := doJSON(t, h, http.MethodDelete, "/api/users/admin", nil, adminCookies); rec.Code != http.StatusConflict {
		t.Errorf("self delete: status = %d", rec.Code)
	}

	if rec := doJSON(t, h, http.MethodDelete, "/api/users/"+added.ID, nil, adminCookies); rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d", rec.Code)
	}

	// A deleted member cannot come back.
	if rec := doJSON(t, h, http.MethodPost, "/api/login", map[string]string{
		"user_id": added.ID, "password": "secret",
	}, nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("deleted user login: status = %d", rec.Code)
	}
}

func TestProfileUpdate(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	cookies := login(t, h, "priya", "priya123")

	rec := doJSON(t, h, http.MethodPost, "/api/profile", map[string]any{
		"name": "Sneaky Rename", "password": "newpass",
	}, cookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("profile: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	updated := decodeBody[userDTO](t, rec)
	if updated.Name != "Priya Sharma" {
		t.Errorf("member rename applied: %q", updated.Name)
	}
	login(t, h, "priya", "newpass")

	// Members cannot update someone else.
	rec = doJSON(t, h, http.MethodPost, "/api/profile", map[string]any{
		"user_id": "rahul", "password": "hacked",
	}, cookies)
	if rec.Code != http.StatusForbidden {
		t.Errorf("cross-user profile: status = %d", rec.Code)
	}
}

func TestAnnouncementsAndMarkdown(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	adminCookies := login(t, h, "admin", "admin123")

	// Public read, no session.
	if rec := doJSON(t, h, http.MethodGet, "/api/announcements", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("public announcements: status = %d", rec.Code)
	}

	rec := doJSON(t, h, http.MethodPost, "/api/announcements", map[string]string{
		"text": "**Meeting** on Friday",
	}, adminCookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("post announcement: status = %d", rec.Code)
	}
	a := decodeBody[announcementDTO](t, rec)
	if !strings.Contains(a.TextHTML, "<strong>Meeting</strong>") {
		t.Errorf("markdown not rendered: %q", a.TextHTML)
	}
	if a.AuthorName != "Club Admin" {
		t.Errorf("author = %q", a.AuthorName)
	}
}

func TestFeedbackFlow(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	memberCookies := login(t, h, "sneha", "sneha123")
	otherCookies := login(t, h, "rahul", "rahul123")
	adminCookies := login(t, h, "admin", "admin123")

	rec := doJSON(t, h, http.MethodPost, "/api/feedback", map[string]string{
		"subject": "Snacks", "message": "More snacks at meetups",
	}, memberCookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit feedback: status = %d", rec.Code)
	}
	f := decodeBody[feedbackDTO](t, rec)

	// Other members never see it; the admin does.
	otherList := decodeBody[[]feedbackDTO](t, doJSON(t, h, http.MethodGet, "/api/feedback", nil, otherCookies))
	if len(otherList) != 0 {
		t.Errorf("foreign feedback visible: %+v", otherList)
	}
	adminList := decodeBody[[]feedbackDTO](t, doJSON(t, h, http.MethodGet, "/api/feedback", nil, adminCookies))
	if len(adminList) != 1 {
		t.Errorf("admin feedback list = %d", len(adminList))
	}

	rec = doJSON(t, h, http.MethodPost, "/api/feedback/reply", map[string]string{
		"id": f.ID, "reply": "Budget approved",
	}, adminCookies)
	if rec.Code != http.StatusOK {
		t.Fatalf("reply: status = %d", rec.Code)
	}

	// A second reply is rejected.
	rec = doJSON(t, h, http.MethodPost, "/api/feedback/reply", map[string]string{
		"id": f.ID, "reply": "On second thought",
	}, adminCookies)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("double reply: status = %d", rec.Code)
	}
}

func TestEventRegistrationSendsEmail(t *testing.T) {
	sender := &fakeEmailSender{}
	h, _ := newTestServer(t, Deps{Email: sender, EmailFrom: "Clubhouse <noreply@clubhouse.example>"})
	adminCookies := login(t, h, "admin", "admin123")

	rec := doJSON(t, h, http.MethodPost, "/api/events", map[string]any{
		"title": "Tech Fest", "date": "2026-04-10", "registration_open": true, "is_upcoming": true,
	}, adminCookies)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add event: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	ev := decodeBody[eventDTO](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/api/events/register", map[string]string{
		"event_id": ev.ID, "name": "Visitor", "email": "visitor@example.com",
	}, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	sender.mu.Lock()
	defer sender.mu.Unlock()
	if len(sender.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(sender.sent))
	}
	if sender.sent[0].To[0] != "visitor@example.com" {
		t.Errorf("to = %v", sender.sent[0].To)
	}
	if !strings.Contains(sender.sent[0].Subject, "Tech Fest") {
		t.Errorf("subject = %q", sender.sent[0].Subject)
	}
}

func TestEventRegistrationClosed(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	adminCookies := login(t, h, "admin", "admin123")

	rec := doJSON(t, h, http.MethodPost, "/api/events", map[string]any{
		"title": "Closed Fest", "date": "2026-04-10", "registration_open": false,
	}, adminCookies)
	ev := decodeBody[eventDTO](t, rec)

	rec = doJSON(t, h, http.MethodPost, "/api/events/register", map[string]string{
		"event_id": ev.ID, "name": "Visitor", "email": "visitor@example.com",
	}, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("closed registration: status = %d", rec.Code)
	}
}

func TestSettingsAndAbout(t *testing.T) {
	h, _ := newTestServer(t, Deps{})
	adminCookies := login(t, h, "admin", "admin123")

	got := decodeBody[settingsDTO](t, doJSON(t, h, http.MethodGet, "/api/settings", nil, nil))
	if got.AppName == "" {
		t.Errorf("default app name missing")
	}

	rec := doJSON(t, h, http.MethodPut, "/api/settings", settingsDTO{
		AppName: "Robotics Club", AppSubtitle: "Build things",
	}, adminCookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update settings: status = %d", rec.Code)
	}
	got = decodeBody[settingsDTO](t, doJSON(t, h, http.MethodGet, "/api/settings", nil, nil))
	if got.AppName != "Robotics Club" {
		t.Errorf("app name = %q", got.AppName)
	}

	rec = doJSON(t, h, http.MethodPut, "/api/about", aboutDTO{
		Intro: "We build *robots*.", Vision: "v", Mission: "m", Values: "x",
	}, adminCookies)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update about: status = %d", rec.Code)
	}
	about := decodeBody[aboutResponse](t, doJSON(t, h, http.MethodGet, "/api/about", nil, nil))
	if !strings.Contains(about.IntroHTML, "<em>robots</em>") {
		t.Errorf("about html = %q", about.IntroHTML)
	}
	if about.Intro != "We build *robots*." {
		t.Errorf("raw markdown lost: %q", about.Intro)
	}
}

// Upload goes through the handler directly: multipart bodies are covered
// by CSRF in the full chain and would need a token dance here.
func TestUpload(t *testing.T) {
	store := syncstore.New(nil, syncstore.WithNow(testClock()), syncstore.WithBlobStore(staticBlob{}))
	store.Load(context.Background())
	s := &Server{store: store}

	u, _ := store.Login("priya", "priya123")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if err := mw.WriteField("folder", "profile"); err != nil {
		t.Fatal(err)
	}
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="me.jpg"`)
	hdr.Set("Content-Type", "image/jpeg")
	part, err := mw.CreatePart(hdr)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write([]byte("jpeg-bytes")); err != nil {
		t.Fatal(err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req = req.WithContext(middleware.ContextWithUser(req.Context(), u))
	rec := httptest.NewRecorder()
	s.handleUpload(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("upload: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	got := decodeBody[map[string]string](t, rec)
	if !strings.HasPrefix(got["url"], "https://blobs.example/profile/") {
		t.Errorf("url = %q", got["url"])
	}
}

type staticBlob struct{}

func (staticBlob) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (string, error) {
	return "https://blobs.example/" + folder + "/" + filename, nil
}
