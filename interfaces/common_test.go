package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"jobly/domain"
	"jobly/infrastructure"
)

func ptr[T any](v T) *T { return &v }

type testEnv struct {
	router     *gin.Engine
	companies  *fakeCompanies
	jobs       *fakeJobs
	users      *fakeUsers
	notifier   *recordingNotifier
	tokens     *infrastructure.TokenSigner
	u1Token    string
	adminToken string
}

// newTestEnv seeds companies c1-c3, jobs j1-j3 (ids 1-3) and user u1.
func newTestEnv(t *testing.T, opts ...func(*Dependencies)) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jobs := &fakeJobs{rows: map[int]domain.Job{}}
	env := &testEnv{
		router:    gin.New(),
		jobs:      jobs,
		companies: &fakeCompanies{rows: map[string]domain.Company{}, jobs: jobs},
		users:     &fakeUsers{rows: map[string]*fakeUser{}, jobs: jobs},
		notifier:  &recordingNotifier{},
		tokens:    infrastructure.NewTokenSigner("test-secret", 0),
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	deps := Dependencies{
		Companies: env.companies,
		Jobs:      env.jobs,
		Users:     env.users,
		Tokens:    env.tokens,
		Notifier:  env.notifier,
		Log:       log,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	NewHTTPHandler(env.router, deps)

	ctx := context.Background()
	for i, h := range []string{"c1", "c2", "c3"} {
		_, err := env.companies.Create(ctx, domain.CompanyCreate{
			Handle:       h,
			Name:         "C" + h[1:],
			Description:  "Desc" + h[1:],
			NumEmployees: ptr(i + 1),
			LogoURL:      ptr("http://" + h + ".img"),
		})
		require.NoError(t, err)
	}
	for i, title := range []string{"j1", "j2", "j3"} {
		_, err := env.jobs.Create(ctx, domain.JobCreate{
			Title:         title,
			Salary:        ptr(30000 + i*10000),
			Equity:        ptr(float64(i+1) / 10),
			CompanyHandle: "c" + title[1:],
		})
		require.NoError(t, err)
	}
	_, err := env.users.Register(ctx, domain.UserRegister{
		Username: "u1", Password: "password1", FirstName: "U1F", LastName: "U1L", Email: "user1@user.com",
	})
	require.NoError(t, err)

	env.u1Token, err = env.tokens.Sign(domain.User{Username: "u1"})
	require.NoError(t, err)
	env.adminToken, err = env.tokens.Sign(domain.User{Username: "admin", IsAdmin: true})
	require.NoError(t, err)

	return env
}

// do sends body as JSON (a string is sent verbatim) with an optional
// bearer token.
func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decode(t, w)
	e, ok := body["error"].(map[string]any)
	require.True(t, ok, w.Body.String())
	return e["message"].(string)
}

