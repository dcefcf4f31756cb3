package events

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/umsra/internal/services/admin/storage"
	adminsqlite "github.com/louisbranch/umsra/internal/services/admin/storage/sqlite"
)

type fixture struct {
	handler http.Handler
	store   *adminsqlite.Store
	thor    int64
	loki    int64
	epic    int64
	event   int64
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store, err := adminsqlite.Open(filepath.Join(t.TempDir(), "events.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	s, err := NewSite(store, 0)
	if err != nil {
		t.Fatalf("new site: %v", err)
	}

	f := fixture{handler: s.Handler(), store: store}
	if f.thor, err = store.CreateHero(ctx, storage.Hero{Entity: storage.Entity{Name: "Thor", Gender: storage.GenderMale}, BenevolenceFactor: 80, ArbitrarinessFactor: 50}); err != nil {
		t.Fatalf("create hero: %v", err)
	}
	if f.loki, err = store.CreateVillain(ctx, storage.Villain{Entity: storage.Entity{Name: "Loki", Gender: storage.GenderMale}, Count: 1}); err != nil {
		t.Fatalf("create villain: %v", err)
	}
	if f.epic, err = store.CreateEpic(ctx, storage.Epic{Name: "Ragnarok"}); err != nil {
		t.Fatalf("create epic: %v", err)
	}
	if f.event, err = store.CreateEvent(ctx, storage.Event{EpicID: f.epic, Details: "The wolf swallows the sun", YearsAgo: 1000}); err != nil {
		t.Fatalf("create event: %v", err)
	}
	return f
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return serve(t, h, req)
}

func TestIndexUsesEventsBranding(t *testing.T) {
	f := newFixture(t)
	rec := serve(t, f.handler, httptest.NewRequest(http.MethodGet, "/event-admin/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"UMSRA Events Admin",
		"Welcome to UMSRA Researcher Events Portal",
		`href="/event-admin/events/epic/"`,
		`href="/event-admin/events/event/"`,
		`href="/event-admin/events/eventhero/"`,
		`href="/event-admin/events/eventvillain/"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("index missing %q", want)
		}
	}
	if strings.Contains(body, "/admin/entities/") {
		t.Error("events index should not link to the entities site")
	}
}

func TestEpicChangeEditsParticipants(t *testing.T) {
	f := newFixture(t)
	target := fmt.Sprintf("/event-admin/events/epic/%d/change/", f.epic)

	rec := postForm(t, f.handler, target, url.Values{
		"name":     {"Ragnarok"},
		"heroes":   {fmt.Sprint(f.thor)},
		"villains": {fmt.Sprint(f.loki)},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d:\n%s", rec.Code, rec.Body.String())
	}
	got, err := f.store.GetEpic(context.Background(), f.epic)
	if err != nil {
		t.Fatalf("get epic: %v", err)
	}
	want := storage.Epic{ID: f.epic, Name: "Ragnarok", Heroes: []int64{f.thor}, Villains: []int64{f.loki}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("epic mismatch (-want +got):\n%s", diff)
	}

	body := serve(t, f.handler, httptest.NewRequest(http.MethodGet, target, nil)).Body.String()
	for _, want := range []string{"Thor", "Loki", "Participants"} {
		if !strings.Contains(body, want) {
			t.Errorf("change form missing %q", want)
		}
	}
}

func TestEventChangeListsLinksInline(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	heroLink, err := f.store.CreateEventHero(ctx, storage.EventHero{EventID: f.event, HeroID: f.thor, IsPrimary: true})
	if err != nil {
		t.Fatalf("create event hero: %v", err)
	}

	rec := serve(t, f.handler, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/event-admin/events/event/%d/change/", f.event), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	body := rec.Body.String()
	if want := fmt.Sprintf(`href="/event-admin/events/eventhero/%d/change/"`, heroLink); !strings.Contains(body, want) {
		t.Fatalf("expected inline link %s:\n%s", want, body)
	}
	for _, want := range []string{"event heroes", "event villains", "None"} {
		if !strings.Contains(body, want) {
			t.Errorf("change form missing %q", want)
		}
	}

	add := serve(t, f.handler, httptest.NewRequest(http.MethodGet, "/event-admin/events/event/add/", nil)).Body.String()
	if strings.Contains(add, "event heroes") {
		t.Error("add form should not render inlines")
	}
}

func TestEventValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		form url.Values
		want string
	}{
		{name: "missing epic", form: url.Values{"details": {"x"}}, want: "epic is required."},
		{name: "negative years", form: url.Values{"epic": {fmt.Sprint(f.epic)}, "years_ago": {"-5"}}, want: "Years ago cannot be negative."},
		{name: "non numeric years", form: url.Values{"epic": {fmt.Sprint(f.epic)}, "years_ago": {"soon"}}, want: "The value of years_ago is invalid."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postForm(t, f.handler, "/event-admin/events/event/add/", tt.form)
			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.want) {
				t.Fatalf("expected %q in:\n%s", tt.want, rec.Body.String())
			}
		})
	}
}

func TestEventHeroFilterAndAdd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := postForm(t, f.handler, "/event-admin/events/eventhero/add/", url.Values{
		"event":      {fmt.Sprint(f.event)},
		"hero":       {fmt.Sprint(f.thor)},
		"is_primary": {"on"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d:\n%s", rec.Code, rec.Body.String())
	}
	page, err := f.store.ListEventHeroes(ctx, storage.ListQuery{})
	if err != nil {
		t.Fatalf("list event heroes: %v", err)
	}
	if page.Total != 1 || !page.Rows[0].IsPrimary || page.Rows[0].HeroName != "Thor" {
		t.Fatalf("event heroes = %+v", page.Rows)
	}

	for query, want := range map[string]bool{"is_primary__exact=1": true, "is_primary__exact=0": false} {
		body := serve(t, f.handler, httptest.NewRequest(http.MethodGet, "/event-admin/events/eventhero/?"+query, nil)).Body.String()
		if got := strings.Contains(body, fmt.Sprintf(`name="_selected_action" value="%d"`, page.Rows[0].ID)); got != want {
			t.Errorf("%s: row listed = %v, want %v", query, got, want)
		}
	}
}

func TestEventVillainDeleteSelected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id, err := f.store.CreateEventVillain(ctx, storage.EventVillain{EventID: f.event, VillainID: f.loki})
	if err != nil {
		t.Fatalf("create event villain: %v", err)
	}

	rec := postForm(t, f.handler, "/event-admin/events/eventvillain/", url.Values{
		"action":           {"delete_selected"},
		"_selected_action": {fmt.Sprint(id)},
	})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Loki (The wolf swallows the sun)") {
		t.Fatalf("expected confirmation page, status = %d:\n%s", rec.Code, rec.Body.String())
	}

	rec = postForm(t, f.handler, "/event-admin/events/eventvillain/", url.Values{
		"action":           {"delete_selected"},
		"_selected_action": {fmt.Sprint(id)},
		"post":             {"yes"},
	})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, err := f.store.GetEventVillain(ctx, id); err == nil {
		t.Fatal("event villain should be deleted")
	}
}

func TestEventLabel(t *testing.T) {
	long := strings.Repeat("a", maxLabelRunes+5)
	tests := []struct {
		event storage.Event
		want  string
	}{
		{event: storage.Event{EpicName: "Ragnarok"}, want: "Ragnarok"},
		{event: storage.Event{EpicName: "Ragnarok", Details: "Fimbulwinter"}, want: "Ragnarok: Fimbulwinter"},
		{event: storage.Event{EpicName: "Ragnarok", Details: long}, want: "Ragnarok: " + long[:maxLabelRunes] + "…"},
	}
	for _, tt := range tests {
		if got := eventLabel(tt.event); got != tt.want {
			t.Errorf("eventLabel(%+v) = %q, want %q", tt.event, got, tt.want)
		}
	}
}
