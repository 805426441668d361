package congregation_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-gabbai/internal/config"
	"github.com/tartampluch/go-gabbai/internal/congregation"
)

const oneCard = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:דוד לוי\r\nTEL:052-7654321\r\nEND:VCARD\r\n"

func TestHTTPFetcher_SendsCredentials(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "gabbai", user)
		assert.Equal(t, "s3cret", pass)
		assert.Equal(t, config.UserAgent, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(oneCard))
	}))
	defer ts.Close()

	rc, err := congregation.NewHTTPFetcher().Fetch(context.Background(), ts.URL+"/book.vcf?token=x", "gabbai", "s3cret")
	require.NoError(t, err)
	defer func() { _ = rc.Close() }()

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, oneCard, string(body))
}

func TestHTTPFetcher_Errors(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    string
	}{
		{"NotFound", http.StatusNotFound, "404"},
		{"Unauthorized", http.StatusUnauthorized, "401"},
		{"ServerError", http.StatusInternalServerError, "500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}))
			defer ts.Close()

			rc, err := congregation.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPFetcher_Deadline(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := congregation.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestHTTPFetcher_RejectsBadURLs(t *testing.T) {
	f := congregation.NewHTTPFetcher()

	_, err := f.Fetch(context.Background(), string([]byte{0x7f}), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInvalidURL)

	_, err = f.Fetch(context.Background(), "ftp://example.com/book.vcf", "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrProtocol)
}

func TestHTTPFetcher_CapsBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.CopyN(w, zeros{}, config.MaxHTTPResponseSize+4096)
	}))
	defer ts.Close()

	rc, err := congregation.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")
	require.NoError(t, err)
	n, err := io.Copy(io.Discard, rc)
	require.NoError(t, err)
	assert.Equal(t, int64(config.MaxHTTPResponseSize), n, "the body stops at the size limit")
	assert.NoError(t, rc.Close())
}

// zeros is an endless stream of zero bytes.
type zeros struct{}

func (zeros) Read(p []byte) (int, error) {
	clear(p)
	return len(p), nil
}

type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func TestImporter_Web(t *testing.T) {
	s := congregation.NewMemoryService()
	f := new(MockFetcher)
	f.On("Fetch", mock.Anything, "https://dav.example.org/book", "gabbai", "pw").
		Return(io.NopCloser(strings.NewReader(oneCard)), nil)

	im := &congregation.Importer{Service: s, Fetcher: f}
	stats, err := im.Run(context.Background(), congregation.SyncConfig{
		Mode: config.SourceModeWeb, WebURL: "https://dav.example.org/book", WebUser: "gabbai", WebPass: "pw", SynagogueID: syn,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)
	assert.Len(t, s.List(syn), 1)
	f.AssertExpectations(t)
}

func TestImporter_Local(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.vcf")
	require.NoError(t, os.WriteFile(path, []byte(oneCard), 0o600))

	s := congregation.NewMemoryService()
	im := &congregation.Importer{Service: s}
	stats, err := im.Run(context.Background(), congregation.SyncConfig{Mode: config.SourceModeLocal, LocalPath: path, SynagogueID: syn})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Imported)

	stats, err = im.Run(context.Background(), congregation.SyncConfig{Mode: config.SourceModeLocal, LocalPath: path, SynagogueID: syn})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Imported, "re-importing is idempotent")
	assert.Equal(t, 1, stats.Skipped)
}

func TestImporter_ConfigErrors(t *testing.T) {
	im := &congregation.Importer{Service: congregation.NewMemoryService()}
	tests := []struct {
		name    string
		cfg     congregation.SyncConfig
		wantErr string
	}{
		{"NoPath", congregation.SyncConfig{Mode: config.SourceModeLocal}, config.ErrLocalPathEmpty},
		{"NoURL", congregation.SyncConfig{Mode: config.SourceModeWeb}, config.ErrWebURLEmpty},
		{"NoFetcher", congregation.SyncConfig{Mode: config.SourceModeWeb, WebURL: "https://x"}, config.ErrFetcherMissing},
		{"BadMode", congregation.SyncConfig{Mode: "ftp"}, config.ErrModeUnsupport},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := im.Run(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), config.ErrDirectorySync)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestImportVCards_BrokenStream(t *testing.T) {
	s := congregation.NewMemoryService()
	_, err := s.ImportVCards(context.Background(), syn, iotest.ErrReader(errors.New("connection reset")))
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrVCardParse)
	assert.Empty(t, s.List(syn))
}
