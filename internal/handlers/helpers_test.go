package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Shoys/wd-lab/internal/auth"
	"github.com/Shoys/wd-lab/internal/mailer"
	"github.com/Shoys/wd-lab/internal/models"
	"github.com/Shoys/wd-lab/internal/routes"
)

type testEnv struct {
	users    *fakeUserStore
	courses  *fakeCourseStore
	requests *fakeRequestStore
	tokens   *auth.Manager
	server   *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	env := &testEnv{
		users:    newFakeUserStore(),
		courses:  newFakeCourseStore(),
		requests: newFakeRequestStore(),
		tokens:   auth.NewManager("test-secret", time.Hour),
	}
	router := routes.SetupRouter(routes.Deps{
		Users:    env.users,
		Courses:  env.courses,
		Requests: env.requests,
		Tokens:   env.tokens,
		Mailer:   mailer.New("", 0, "", "", logger),
		Logger:   logger,
	})
	env.server = httptest.NewServer(router)
	t.Cleanup(env.server.Close)
	return env
}

// seedUser inserts a user directly and mints a token for them.
func (e *testEnv) seedUser(t *testing.T, username string, role models.UserRole) (models.User, string) {
	t.Helper()

	user := models.User{
		Username: username,
		Password: "irrelevant-hash",
		Name:     username + "-name",
		Role:     role,
	}
	require.NoError(t, e.users.Create(context.Background(), &user))

	token, err := e.tokens.GenerateToken(user.ID.Hex(), string(role))
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) seedCourse(t *testing.T, creator models.User, name string) models.Course {
	t.Helper()

	course := models.Course{Name: name, Description: "seeded", Creator: creator.ID}
	require.NoError(t, e.courses.Create(context.Background(), &course))
	return course
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}
