//go:build integration || !unit

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	server "stayhub/internal/adapters/http_server"
	"stayhub/internal/adapters/storeapi"
	"stayhub/internal/app"
	"stayhub/internal/domain"
	mysqlrepo "stayhub/internal/storage/mysql"
)

// ---------- helpers ----------
func day(s string) time.Time {
	t, _ := time.ParseInLocation(domain.DayLayout, s, time.UTC)
	return t
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "migrations")
	}
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}
	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)
	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func call(t *testing.T, method, url, caller string, body any, out any) int {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, rd)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if caller != "" {
		req.Header.Set(server.CallerHeader, caller)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer res.Body.Close()
	if out != nil && res.StatusCode < 300 {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return res.StatusCode
}

// ---------- the test ----------
func TestHTTP_EndToEnd_BookClassifyRate(t *testing.T) {
	// Start isolated MySQL container
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=stayhub",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/stayhub?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	applyMigrations(t, db)

	// store service over MySQL
	repo := mysqlrepo.New(db)
	storeSrv := server.New()
	storeSrv.MountStore(&server.StoreHandlers{Store: repo, Search: app.NewMatcher(repo, repo, 2)})
	storeTS := httptest.NewServer(storeSrv.Mux())
	defer storeTS.Close()

	client, err := storeapi.New(storeTS.URL, "", 100)
	if err != nil {
		t.Fatalf("store client: %v", err)
	}

	// seed through the client, as cmd/seed does
	ctx := context.Background()
	seeded, err := app.NewSeedService(client, nil).Seed(ctx, app.SeedListing{
		Listing: domain.Listing{HostID: "h1", Name: "Seaside Loft", Location: "Lisbon", MinGuestNum: 1, MaxGuestNum: 4, Amenities: []string{}},
		Windows: []domain.AvailabilityWindow{
			{Start: day("2024-01-01"), End: day("2024-01-31"), Price: 80},
			{Start: day("2024-06-01"), End: day("2024-06-30"), Price: 100},
		},
	})
	if err != nil || seeded.Windows != 2 {
		t.Fatalf("seed: %+v %v", seeded, err)
	}
	ws, err := client.ListAvailability(ctx, seeded.Listing.ID)
	if err != nil || len(ws) != 2 {
		t.Fatalf("windows: %v %v", ws, err)
	}

	// guest API over the store client, "now" fixed mid-May
	clk := func() time.Time { return day("2024-05-15") }
	classifier := app.NewClassifier(client, client, nil, 2).WithClock(clk)
	api := server.New()
	api.MountHandlers(&server.Handlers{
		Search:   app.NewMatcher(client, client, 2),
		Booking:  app.NewBookingEngine(client, client, client, nil).WithClock(clk),
		Classify: classifier,
		Ratings:  app.NewRatingGate(client, classifier, nil).WithClock(clk),
		Cancel:   app.NewCancellation(classifier, client, nil).WithClock(clk),
	})
	apiTS := httptest.NewServer(api.Mux())
	defer apiTS.Close()

	var found []domain.Listing
	if code := call(t, http.MethodGet, apiTS.URL+"/v1/listings/search?q=lisbon&guests=2&start=2024-06-05&end=2024-06-10", "", nil, &found); code != http.StatusOK || len(found) != 1 {
		t.Fatalf("search: %d %+v", code, found)
	}

	book := func(windowID, start, end string) (domain.Reservation, int) {
		var r domain.Reservation
		code := call(t, http.MethodPost, apiTS.URL+"/v1/reservations", "g1", map[string]any{
			"listingId": seeded.Listing.ID, "availabilityWindowId": windowID, "start": start, "end": end, "guestCount": 2,
		}, &r)
		return r, code
	}
	past, code := book(ws[0].ID, "2024-01-10", "2024-01-12")
	if code != http.StatusCreated {
		t.Fatalf("book past: %d", code)
	}
	upcoming, code := book(ws[1].ID, "2024-06-05", "2024-06-10")
	if code != http.StatusCreated || upcoming.Price != 500 {
		t.Fatalf("book upcoming: %d %+v", code, upcoming)
	}
	if _, code := book(ws[1].ID, "2024-06-08", "2024-06-09"); code != http.StatusConflict {
		t.Fatalf("overlap: %d", code)
	}

	var cl app.Classified
	if code := call(t, http.MethodGet, apiTS.URL+"/v1/reservations", "g1", nil, &cl); code != http.StatusOK {
		t.Fatalf("classify: %d", code)
	}
	if len(cl.History) != 1 || cl.History[0].ID != past.ID || len(cl.Active) != 1 || cl.Active[0].ID != upcoming.ID {
		t.Fatalf("unexpected partitions: %+v", cl)
	}
	if !cl.Active[0].Start.Equal(upcoming.Start) || cl.Active[0].HostID != "h1" {
		t.Fatalf("round trip mismatch: %+v vs %+v", cl.Active[0].Reservation, upcoming)
	}

	if code := call(t, http.MethodPost, apiTS.URL+"/v1/reservations/"+past.ID+"/ratings/listing", "g1", map[string]int{"rating": 4}, nil); code != http.StatusCreated {
		t.Fatalf("rate listing: %d", code)
	}
	if code := call(t, http.MethodPost, apiTS.URL+"/v1/reservations/"+upcoming.ID+"/ratings/host", "g1", map[string]int{"rating": 4}, nil); code != http.StatusForbidden {
		t.Fatalf("rate active: %d", code)
	}

	var sum app.HostSummary
	if code := call(t, http.MethodGet, apiTS.URL+"/v1/hosts/h1/ratings", "", nil, &sum); code != http.StatusOK || len(sum.ListingRatings) != 1 || sum.ListingAverage != 4 {
		t.Fatalf("host ratings: %d %+v", code, sum)
	}
}
