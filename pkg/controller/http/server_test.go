package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	httpctrl "github.com/memora-app/memora/pkg/controller/http"
	"github.com/memora-app/memora/pkg/domain/model"
	"github.com/memora-app/memora/pkg/domain/model/auth"
	"github.com/memora-app/memora/pkg/repository/memory"
	"github.com/memora-app/memora/pkg/service/embedding"
	"github.com/memora-app/memora/pkg/usecase"
)

// denyVerifier rejects every token
type denyVerifier struct{}

func (v *denyVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	return nil, goerr.New("token rejected")
}

func (v *denyVerifier) IsNoAuthn() bool { return false }

func newTestServer(t *testing.T) *httpctrl.Server {
	t.Helper()
	uc := usecase.New(
		memory.NewVectorIndex(),
		memory.NewGraphStore(),
		memory.NewBlobStorage(),
		embedding.NewDeterministic(32),
	)
	return httpctrl.New(uc, httpctrl.WithVerifier(
		usecase.NewNoAuthnVerifier("dev-user", "dev@example.com", "Dev User"),
	))
}

func multipartBody(t *testing.T, fields map[string]string, mediaName string, media []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		gt.NoError(t, mw.WriteField(k, v)).Required()
	}
	if mediaName != "" {
		fw, err := mw.CreateFormFile("media", mediaName)
		gt.NoError(t, err).Required()
		_, err = fw.Write(media)
		gt.NoError(t, err).Required()
	}
	gt.NoError(t, mw.Close()).Required()
	return &buf, mw.FormDataContentType()
}

func postMemory(t *testing.T, srv http.Handler, fields map[string]string, mediaName string, media []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, mediaName, media)
	req := httptest.NewRequest(http.MethodPost, "/api/memories", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func getJSON[T any](t *testing.T, srv http.Handler, path string) T {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var out T
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out)).Required()
	return out
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	gt.Value(t, rec.Code).Equal(http.StatusOK)
	var body map[string]string
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
	gt.Value(t, body["status"]).Equal("ok")
}

func TestAuthMiddleware(t *testing.T) {
	uc := usecase.New(
		memory.NewVectorIndex(),
		memory.NewGraphStore(),
		memory.NewBlobStorage(),
		embedding.NewDeterministic(32),
	)

	t.Run("missing verifier rejects all API requests", func(t *testing.T) {
		srv := httpctrl.New(uc)
		req := httptest.NewRequest(http.MethodGet, "/api/memories/moodmap", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("missing bearer token is rejected", func(t *testing.T) {
		srv := httpctrl.New(uc, httpctrl.WithVerifier(&denyVerifier{}))

		for _, header := range []string{"", "Basic dXNlcg==", "bearer lowercase"} {
			req := httptest.NewRequest(http.MethodGet, "/api/memories/moodmap", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)

			var body map[string]string
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
			gt.Value(t, body["error"]).Equal("no token provided")
		}
	})

	t.Run("rejected token returns 401", func(t *testing.T) {
		srv := httpctrl.New(uc, httpctrl.WithVerifier(&denyVerifier{}))

		req := httptest.NewRequest(http.MethodGet, "/api/memories/moodmap", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("health needs no auth", func(t *testing.T) {
		srv := httpctrl.New(uc, httpctrl.WithVerifier(&denyVerifier{}))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestAddMemoryHandler(t *testing.T) {
	t.Run("creates a memory from a multipart form", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "had lunch with Mia",
			"date": "2025-04-03",
			"tags": `[{"name":"mia","type":"person"},{"name":"lunch","type":"activity"}]`,
		}, "", nil)

		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var created model.Memory
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
		gt.Bool(t, created.ID.IsValid()).True()
		gt.Value(t, created.Text).Equal("had lunch with Mia")
		gt.Array(t, created.Tags).Length(2)
		gt.Value(t, created.MediaURL).Equal("")
	})

	t.Run("media upload produces a media URL", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "sunset photo",
		}, "sunset.jpg", []byte("jpeg bytes"))

		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		var created model.Memory
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
		gt.Bool(t, created.MediaURL != "").True()
	})

	t.Run("missing text returns 400", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{"date": "2025-04-03"}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

		var body map[string]string
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
		gt.Value(t, body["error"]).Equal("text is required")
	})

	t.Run("malformed tags return 400", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "note",
			"tags": "not-json",
		}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("malformed date returns 400", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "note",
			"date": "April 3rd",
		}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestSearchHandler(t *testing.T) {
	t.Run("invalid type returns 400", func(t *testing.T) {
		srv := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/memories/search?type=fulltext", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("vector search without query returns 400", func(t *testing.T) {
		srv := newTestServer(t)

		req := httptest.NewRequest(http.MethodGet, "/api/memories/search?type=vector", nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("tag filter accepts names and objects", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "coffee with Mia",
			"tags": `[{"name":"mia","type":"person"}]`,
		}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		for _, tags := range []string{`["mia"]`, `[{"name":"mia"}]`} {
			out := getJSON[[]*model.Memory](t, srv,
				"/api/memories/search?type=graph&tags="+tags)
			gt.Array(t, out).Length(1)
		}
	})
}

func TestTimelineHandler(t *testing.T) {
	t.Run("missing bounds name the missing field", func(t *testing.T) {
		srv := newTestServer(t)

		cases := []struct {
			path    string
			message string
		}{
			{"/api/memories/timeline?endDate=2025-04-30", "startDate is required"},
			{"/api/memories/timeline?startDate=2025-04-01", "endDate is required"},
		}
		for _, tc := range cases {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

			var body map[string]string
			gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body)).Required()
			gt.Value(t, body["error"]).Equal(tc.message)
		}
	})

	t.Run("plain end dates include the whole day", func(t *testing.T) {
		srv := newTestServer(t)

		rec := postMemory(t, srv, map[string]string{
			"text": "late night note",
			"date": "2025-04-30T23:30:00Z",
		}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)

		out := getJSON[[]*model.Memory](t, srv,
			"/api/memories/timeline?startDate=2025-04-01&endDate=2025-04-30")
		gt.Array(t, out).Length(1)
	})
}

func TestMemoryJourney(t *testing.T) {
	srv := newTestServer(t)

	// A week of entries
	entries := []struct {
		text string
		date string
		tags string
	}{
		{"had lunch with Mia at the new ramen place", "2025-04-01", `[{"name":"mia","type":"person"},{"name":"lunch","type":"activity"}]`},
		{"morning run along the river", "2025-04-02", `[{"name":"running","type":"activity"}]`},
		{"coffee with Mia downtown", "2025-04-04", `[{"name":"mia","type":"person"}]`},
		{"quiet evening reading on the balcony", "2025-04-06", `[]`},
	}
	for _, e := range entries {
		rec := postMemory(t, srv, map[string]string{
			"text": e.text,
			"date": e.date,
			"tags": e.tags,
		}, "", nil)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
	}

	t.Run("hybrid search surfaces the lunch memory first", func(t *testing.T) {
		out := getJSON[[]*model.Memory](t, srv,
			"/api/memories/search?query=lunch+with+Mia+ramen&tags=%5B%22mia%22%5D")
		gt.Bool(t, len(out) >= 1).True()
		gt.Value(t, out[0].Text).Equal("had lunch with Mia at the new ramen place")
	})

	t.Run("timeline returns the week in order", func(t *testing.T) {
		out := getJSON[[]*model.Memory](t, srv,
			"/api/memories/timeline?startDate=2025-04-01&endDate=2025-04-07")
		gt.Array(t, out).Length(4)
		for i := 1; i < len(out); i++ {
			gt.Bool(t, !out[i].Date.Before(out[i-1].Date)).True()
		}
	})

	t.Run("mood map covers every entry", func(t *testing.T) {
		out := getJSON[[]*model.MoodPoint](t, srv, "/api/memories/moodmap")
		gt.Array(t, out).Length(4)
		for _, p := range out {
			gt.Bool(t, p.Position.X >= 0 && p.Position.X <= 1).True()
			gt.Bool(t, p.Position.Y >= 0 && p.Position.Y <= 1).True()
		}
	})

	t.Run("narrow timeline excludes out-of-range entries", func(t *testing.T) {
		out := getJSON[[]*model.Memory](t, srv,
			fmt.Sprintf("/api/memories/timeline?startDate=%s&endDate=%s", "2025-04-02", "2025-04-04"))
		gt.Array(t, out).Length(2)
	})
}
