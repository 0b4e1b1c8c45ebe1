package forge

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(Options{
		APIBase:       server.URL,
		RawBase:       server.URL + "/raw",
		Org:           "BibleAquifer",
		OrgRepo:       ".github",
		ReadmePath:    "profile/README.md",
		Token:         "test-token",
		ExcludedRepos: []string{"docs", ".github"},
	})
	return client, server
}

func TestRepositoriesPaginationAndFiltering(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/BibleAquifer/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "token test-token", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("page") {
		case "1":
			// A full page forces a second request even without per_page entries.
			fmt.Fprint(w, `[
				{"name": "UWTranslationNotes", "description": "Notes", "html_url": "https://example.com/UWTranslationNotes"},
				{"name": "docs", "description": "excluded", "html_url": "https://example.com/docs"},
				{"name": "OldResource", "description": "gone", "html_url": "https://example.com/OldResource", "archived": true}
			]`)
		default:
			fmt.Fprint(w, `[]`)
		}
	})

	client, _ := newTestClient(t, mux)
	repos, err := client.Repositories(context.Background())
	require.NoError(t, err)

	require.Len(t, repos, 1)
	assert.Equal(t, "UWTranslationNotes", repos[0].Name)
	assert.Equal(t, "Notes", repos[0].Description)
	assert.Equal(t, "https://example.com/UWTranslationNotes", repos[0].URL)
}

func TestRepositoriesRateLimitCoolDown(t *testing.T) {
	var listCalls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/BibleAquifer/repos", func(w http.ResponseWriter, r *http.Request) {
		if listCalls.Add(1) == 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprint(w, `[{"name": "Res", "description": "", "html_url": "https://example.com/Res"}]`)
	})
	mux.HandleFunc("/rate_limit", func(w http.ResponseWriter, r *http.Request) {
		// Reset in the past: the client must not sleep, just retry.
		fmt.Fprintf(w, `{"resources": {"core": {"remaining": 2, "reset": %d}}}`, time.Now().Add(-time.Minute).Unix())
	})

	client, _ := newTestClient(t, mux)
	repos, err := client.Repositories(context.Background())
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.GreaterOrEqual(t, listCalls.Load(), int32(2))
}

func TestRepositoriesFatalOnListingFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	_, err := client.Repositories(context.Background())
	assert.Error(t, err)
}

func TestLanguagesFiltersThreeLetterDirs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/BibleAquifer/Res/contents", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"name": "spa", "type": "dir"},
			{"name": "eng", "type": "dir"},
			{"name": "json", "type": "dir"},
			{"name": "README.md", "type": "file"},
			{"name": "fr", "type": "dir"}
		]`)
	})

	client, _ := newTestClient(t, mux)
	languages, err := client.Languages(context.Background(), "Res")
	require.NoError(t, err)

	// Listing order is preserved, not sorted.
	assert.Equal(t, []string{"spa", "eng"}, languages)
}

func TestLanguagesMissingRepoYieldsNone(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	languages, err := client.Languages(context.Background(), "Gone")
	require.NoError(t, err)
	assert.Empty(t, languages)
}

func TestMetadata(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/raw/BibleAquifer/Res/main/eng/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"resource_metadata": {"title": "A Title", "order": "canonical"}}`)
	})
	mux.HandleFunc("/raw/BibleAquifer/Res/main/bad/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{not json`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	t.Run("present", func(t *testing.T) {
		doc, err := client.Metadata(ctx, "Res", "eng")
		require.NoError(t, err)
		require.NotNil(t, doc)
		assert.Equal(t, "A Title", doc.ResourceMetadata.Title)
	})

	t.Run("missing is not an error", func(t *testing.T) {
		doc, err := client.Metadata(ctx, "Res", "spa")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})

	t.Run("malformed is not an error", func(t *testing.T) {
		doc, err := client.Metadata(ctx, "Res", "bad")
		require.NoError(t, err)
		assert.Nil(t, doc)
	})
}

func TestFormatExists(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/BibleAquifer/Res/contents/eng/json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name": "01.content.json", "type": "file"}]`)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	client, _ := newTestClient(t, mux)
	ctx := context.Background()

	assert.True(t, client.FormatExists(ctx, "Res", "eng", "json"))
	assert.False(t, client.FormatExists(ctx, "Res", "eng", "pdf"))
}

func TestReadme(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/raw/BibleAquifer/.github/main/profile/README.md", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "# Aquifer Bible Resources\nSubtitle line\n\n## About\n\nBody.")
	})

	client, _ := newTestClient(t, mux)
	readme, err := client.Readme(context.Background())
	require.NoError(t, err)
	assert.Contains(t, readme, "## About")
}

func TestTransientErrorsAreRetried(t *testing.T) {
	var calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/raw/BibleAquifer/Res/main/eng/metadata.json", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, `{"resource_metadata": {"title": "Recovered"}}`)
	})

	client, _ := newTestClient(t, mux)
	client.http.RetryWaitMin = time.Millisecond
	client.http.RetryWaitMax = 5 * time.Millisecond

	doc, err := client.Metadata(context.Background(), "Res", "eng")
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Equal(t, "Recovered", doc.ResourceMetadata.Title)
	assert.Equal(t, int32(3), calls.Load())
}
