package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/osintsev/tweetgen/internal/testutil"
)

func Test_ThreadHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	// Register user and return access token for Authorization header
	registerUser := func(t *testing.T, env testEnv, username string) string {
		pair, err := env.auth.Register(t.Context(), username, username+"@example.com", "StrongEnoughPassword")
		require.NoError(t, err)
		return pair.Access.Value
	}

	do := func(t *testing.T, env testEnv, method string, path string, access string, body string) *http.Response {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}

		req, err := http.NewRequest(method, env.url+path, reader)
		require.NoError(t, err)
		if access != "" {
			req.Header.Set("Authorization", "Bearer "+access)
		}
		if body != "" {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("generate ok", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")
			env.generator.response = `["first tweet", "second tweet"]`

			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", access, data)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusCreated, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"[1/2] first tweet"`)
			require.Contains(t, string(body), `"[2/2] second tweet"`)
			require.Contains(t, string(body), `"tweet_count":2`)
		})
	})

	t.Run("generate without auth fails", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", "", data)
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	})

	t.Run("generate with short topic fails validation", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")

			data := `{"topic": "short"}`
			resp := do(t, env, "POST", "/api/threads/generate", access, data)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusBadRequest, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), "validation_failed")
		})
	})

	t.Run("generate fails when model output unparsable", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")
			env.generator.response = "sorry, no tweets today"

			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", access, data)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusInternalServerError, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.JSONEq(t, `
				{
					"error": "service_error",
					"message": "Tweet generation failed"
				}`, string(body))
		})
	})

	t.Run("history paginated", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")

			for i := range 3 {
				data := fmt.Sprintf(`{"topic": "Interesting topic number %d for a thread"}`, i)
				resp := do(t, env, "POST", "/api/threads/generate", access, data)
				_ = resp.Body.Close()
				require.Equal(t, http.StatusCreated, resp.StatusCode)
			}

			resp := do(t, env, "GET", "/api/threads/history?page=1&page_size=2", access, "")
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"total_count":3`)
			require.Contains(t, string(body), `"page":1`)
			require.Contains(t, string(body), `"page_size":2`)
		})
	})

	t.Run("get and delete own thread", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")

			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", access, data)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var created struct {
				ID int64 `json:"id"`
			}
			require.NoError(t, json.Unmarshal(body, &created))

			resp = do(t, env, "GET", fmt.Sprintf("/api/threads/%d", created.ID), access, "")
			body, err = io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"topic":"Why Go is a great language for backend services"`)

			resp = do(t, env, "DELETE", fmt.Sprintf("/api/threads/%d", created.ID), access, "")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusNoContent, resp.StatusCode)

			resp = do(t, env, "GET", fmt.Sprintf("/api/threads/%d", created.ID), access, "")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusNotFound, resp.StatusCode)
		})
	})

	t.Run("foreign thread access denied", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			ownerAccess := registerUser(t, env, "owner")
			otherAccess := registerUser(t, env, "other")

			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", ownerAccess, data)
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			var created struct {
				ID int64 `json:"id"`
			}
			require.NoError(t, json.Unmarshal(body, &created))

			resp = do(t, env, "GET", fmt.Sprintf("/api/threads/%d", created.ID), otherAccess, "")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusForbidden, resp.StatusCode)

			resp = do(t, env, "DELETE", fmt.Sprintf("/api/threads/%d", created.ID), otherAccess, "")
			_ = resp.Body.Close()
			require.Equal(t, http.StatusForbidden, resp.StatusCode)
		})
	})

	t.Run("invalid thread id", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")

			resp := do(t, env, "GET", "/api/threads/not-a-number", access, "")
			defer func() { _ = resp.Body.Close() }()

			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	})

	t.Run("stats", func(t *testing.T) {
		withTestServer(pg, t, func(env testEnv) {
			access := registerUser(t, env, "nk")

			data := `{"topic": "Why Go is a great language for backend services"}`
			resp := do(t, env, "POST", "/api/threads/generate", access, data)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusCreated, resp.StatusCode)

			env.generator.response = "broken output"
			resp = do(t, env, "POST", "/api/threads/generate", access, data)
			_ = resp.Body.Close()
			require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

			resp = do(t, env, "GET", "/api/threads/analytics/stats", access, "")
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			defer func() { _ = resp.Body.Close() }()

			require.Equalf(t, http.StatusOK, resp.StatusCode, "not expected code. Body: %s", string(body))
			require.Contains(t, string(body), `"total_threads":1`)
			require.Contains(t, string(body), `"total_generations":2`)
			require.Contains(t, string(body), `"successful_generations":1`)
			require.Contains(t, string(body), `"failed_generations":1`)
			require.Contains(t, string(body), `"success_rate":50`)
		})
	})
}
