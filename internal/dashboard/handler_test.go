package dashboard

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	httperr "github.com/aevon-lab/regpulse/internal/core/errors"
	sourcemocks "github.com/aevon-lab/regpulse/internal/mocks/source"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	svc.RegisterRoutes(r)
	return r
}

func doRequest(t *testing.T, r http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandler_StatusMapping(t *testing.T) {
	loaded, _ := newLoadedService(t, Options{})
	notLoaded := NewService(sourcemocks.NewSource(t), Options{})

	tests := []struct {
		name           string
		svc            *Service
		method         string
		target         string
		expectedStatus int
		expectedType   string
	}{
		{
			name:           "metrics ok",
			svc:            loaded,
			method:         http.MethodGet,
			target:         "/v1/metrics?year=2024&category=2W",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "malformed year returns 400",
			svc:            loaded,
			method:         http.MethodGet,
			target:         "/v1/metrics?year=abc",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidFilterError,
		},
		{
			name:           "unknown sort returns 400",
			svc:            loaded,
			method:         http.MethodGet,
			target:         "/v1/manufacturers?category=2W&sort=name",
			expectedStatus: http.StatusBadRequest,
			expectedType:   httperr.HttpInvalidFilterError,
		},
		{
			name:           "no dataset returns 503",
			svc:            notLoaded,
			method:         http.MethodGet,
			target:         "/v1/trends",
			expectedStatus: http.StatusServiceUnavailable,
			expectedType:   httperr.HttpNotReadyError,
		},
		{
			name:           "reload disabled returns 404",
			svc:            loaded,
			method:         http.MethodPost,
			target:         "/v1/dataset/reload",
			expectedStatus: http.StatusNotFound,
			expectedType:   httperr.HttpNotFoundError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(t, newTestRouter(tc.svc), tc.method, tc.target)
			require.Equal(t, tc.expectedStatus, rec.Code, rec.Body.String())

			if tc.expectedType != "" {
				var body httperr.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				require.Equal(t, tc.expectedType, body.ErrorType)
			}
		})
	}
}

func TestHandler_MetricsBody(t *testing.T) {
	svc, _ := newLoadedService(t, Options{})

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/v1/metrics?manufacturer=HERO&category=2W")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body["dataset_id"])
	require.Equal(t, map[string]any{"year": "2024", "category": "2W", "manufacturer": "HERO"}, body["filter"])
	require.EqualValues(t, 250, body["total_registrations"])
	require.Equal(t, "25.0%", body["yoy_growth"])
	require.Equal(t, "50.0%", body["qoq_growth"])
}

func TestHandler_MetricsBodyNotAvailable(t *testing.T) {
	svc, _ := newLoadedService(t, Options{})

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/v1/metrics?year=2023&category=4W")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.EqualValues(t, 0, body["total_registrations"])
	require.Equal(t, "N/A", body["yoy_growth"])
	require.Equal(t, "N/A", body["qoq_growth"])
}

func TestHandler_ManufacturersBody(t *testing.T) {
	svc, _ := newLoadedService(t, Options{})

	rec := doRequest(t, newTestRouter(svc), http.MethodGet, "/v1/manufacturers?year=2024&category=2W&sort=qoq")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ManufacturersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "2W", body.Category)
	require.Len(t, body.Rows, 2)
	require.Equal(t, "TVS", body.Rows[0].Manufacturer)
	require.Zero(t, body.Rows[0].QoQGrowth)
	require.Equal(t, int64(100), body.Rows[0].Registrations)
}

func TestHandler_SelectorsAndTrends(t *testing.T) {
	svc, _ := newLoadedService(t, Options{})
	r := newTestRouter(svc)

	rec := doRequest(t, r, http.MethodGet, "/v1/selectors?category=2W")
	require.Equal(t, http.StatusOK, rec.Code)
	var selectors SelectorsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &selectors))
	require.Equal(t, []int{2024, 2023}, selectors.Years)
	require.Equal(t, []string{"HERO", "TVS"}, selectors.Manufacturers)

	rec = doRequest(t, r, http.MethodGet, "/v1/trends?year=2023")
	require.Equal(t, http.StatusOK, rec.Code)
	var trends TrendsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &trends))
	require.Equal(t, selectors.DatasetID, trends.DatasetID)
	require.Len(t, trends.Points, 2)
}

func TestHandler_Reload(t *testing.T) {
	svc, src := newLoadedService(t, Options{ReloadEnabled: true})
	r := newTestRouter(svc)

	src.EXPECT().Load(mock.Anything).Return(fixtureRecords(), nil).Once()
	rec := doRequest(t, r, http.MethodPost, "/v1/dataset/reload")
	require.Equal(t, http.StatusOK, rec.Code)

	var body ReloadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, len(fixtureRecords()), body.Records)
	require.NotEmpty(t, body.DatasetID)

	src.EXPECT().Load(mock.Anything).Return(nil, errors.New("disk gone")).Once()
	rec = doRequest(t, r, http.MethodPost, "/v1/dataset/reload")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var errBody httperr.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errBody))
	require.Equal(t, httperr.HttpInternalError, errBody.ErrorType)
}
