package sheets

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
	"github.com/azan1ud/landlordshield/internal/service"
)

func TestBuildTabs(t *testing.T) {
	next := time.Date(2026, 11, 7, 0, 0, 0, 0, time.UTC)
	r := &service.Report{
		GeneratedAt: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC),
		Portfolio: model.PortfolioOverview{
			Account: model.ComplianceOverview{
				OverallScore: 35,
				PerDomain: map[model.Domain]model.DomainStatus{
					model.DomainTax: {Score: 100, Status: model.StatusReady, CompletedCount: 1, TotalCount: 1},
				},
			},
		},
		Deadlines: []model.Deadline{
			{ID: "a", Title: "Quarterly update", Date: next, Domain: model.DomainTax},
		},
	}

	tabs := BuildTabs(r)
	require.Len(t, tabs, 3)

	names := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		names = append(names, tab.Name)
	}
	assert.Equal(t, TabNames, names)

	overview := tabs[1].Values
	require.Len(t, overview, 5)
	assert.Equal(t, "scope", overview[0][0])
	assert.Equal(t, 100, overview[1][2])
	assert.Equal(t, 35, overview[4][2])

	deadlines := tabs[2].Values
	require.Len(t, deadlines, 2)
	assert.Equal(t, "2026-11-07", deadlines[1][0])
	assert.Equal(t, "upcoming", deadlines[1][3])
}

func TestMissingTabs(t *testing.T) {
	assert.Equal(t, TabNames, missingTabs(map[string]int64{}))
	assert.Equal(t, []string{DeadlinesTab}, missingTabs(map[string]int64{SummaryTab: 0, OverviewTab: 1}))
	assert.Empty(t, missingTabs(map[string]int64{SummaryTab: 0, OverviewTab: 1, DeadlinesTab: 2}))
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCode   string
		wantErr    bool
	}{
		{name: "valid", query: "?state=s1&code=abc", wantStatus: http.StatusOK, wantCode: "abc"},
		{name: "state mismatch", query: "?state=other&code=abc", wantStatus: http.StatusBadRequest, wantErr: true},
		{name: "missing code", query: "?state=s1&error=access_denied", wantStatus: http.StatusBadRequest, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes := make(chan string, 1)
			errs := make(chan error, 1)
			handler := callbackHandler("s1", codes, errs)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErr {
				assert.Len(t, errs, 1)
				assert.Len(t, codes, 0)
				return
			}
			require.Len(t, codes, 1)
			assert.Equal(t, tt.wantCode, <-codes)
		})
	}
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))

	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "refresh", loaded.RefreshToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestClassifyAPIError(t *testing.T) {
	plain := errors.New("connection reset")
	tests := []struct {
		err       error
		name      string
		rateLimit bool
		permanent bool
	}{
		{name: "nil", err: nil},
		{name: "non-API error", err: plain},
		{name: "quota", err: &googleapi.Error{Code: http.StatusTooManyRequests}, rateLimit: true},
		{name: "bad request", err: &googleapi.Error{Code: http.StatusBadRequest}, permanent: true},
		{name: "forbidden", err: &googleapi.Error{Code: http.StatusForbidden}, permanent: true},
		{name: "server error", err: &googleapi.Error{Code: http.StatusServiceUnavailable}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyAPIError(tt.err)
			if tt.err == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.err)
			assert.Equal(t, tt.rateLimit, errors.Is(got, common.ErrRateLimit))

			var marked *common.RetryableError
			assert.Equal(t, tt.permanent, errors.As(got, &marked) && !marked.Retryable)
		})
	}
}
