package http

import (
	"encoding/json"
	stdhttp "net/http"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	env := startTestServer(t)

	resp, err := env.ts.Client().Get(env.ts.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := startTestServer(t)

	token := registerUser(t, env, "alice", "alice@example.com")

	// Duplicate registration is a conflict.
	resp := postJSON(t, env, "/api/auth/register", "", RegisterRequest{
		Name:     "alice",
		Email:    "alice2@example.com",
		Password: "password123",
	})
	if resp.StatusCode != stdhttp.StatusConflict {
		t.Fatalf("duplicate register: status %d", resp.StatusCode)
	}

	resp = postJSON(t, env, "/api/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("bad login: status %d", resp.StatusCode)
	}

	resp = postJSON(t, env, "/api/auth/login", "", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("login: status %d", resp.StatusCode)
	}

	var me struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	resp = getJSON(t, env, "/api/auth/me", token, &me)
	if resp.StatusCode != stdhttp.StatusOK || me.Name != "alice" || me.Email != "alice@example.com" {
		t.Fatalf("me: status %d, body %+v", resp.StatusCode, me)
	}

	// Protected routes refuse anonymous callers.
	resp = getJSON(t, env, "/api/auth/me", "", nil)
	if resp.StatusCode != stdhttp.StatusUnauthorized {
		t.Fatalf("anonymous me: status %d", resp.StatusCode)
	}
}

func TestListUsersExcludesCaller(t *testing.T) {
	env := startTestServer(t)

	token := registerUser(t, env, "alice", "alice@example.com")
	registerUser(t, env, "bob", "bob@example.com")

	var users []UserResponse
	resp := getJSON(t, env, "/api/auth/users", token, &users)
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("list users: status %d", resp.StatusCode)
	}
	if len(users) != 1 || users[0].Name != "bob" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestGroupEndpoints(t *testing.T) {
	env := startTestServer(t)
	token := registerUser(t, env, "alice", "alice@example.com")

	resp := postJSON(t, env, "/api/groups", token, CreateGroupRequest{Name: "devs"})
	if resp.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("create group: status %d", resp.StatusCode)
	}
	var created GroupResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode group: %v", err)
	}
	if created.Name != "devs" || created.RoomID == "" {
		t.Fatalf("unexpected group: %+v", created)
	}

	var groups []GroupResponse
	resp = getJSON(t, env, "/api/groups", token, &groups)
	if resp.StatusCode != stdhttp.StatusOK || len(groups) != 1 {
		t.Fatalf("list groups: status %d, %d groups", resp.StatusCode, len(groups))
	}

	var got GroupResponse
	resp = getJSON(t, env, "/api/groups/"+created.RoomID, token, &got)
	if resp.StatusCode != stdhttp.StatusOK || got.ID != created.ID {
		t.Fatalf("get group: status %d, body %+v", resp.StatusCode, got)
	}

	resp = getJSON(t, env, "/api/groups/group_missing", token, nil)
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("missing group: status %d", resp.StatusCode)
	}
}

func TestPasswordResetEndpoints(t *testing.T) {
	env := startTestServer(t)
	registerUser(t, env, "alice", "alice@example.com")

	resp := postJSON(t, env, "/api/auth/forgot-password", "", ForgotPasswordRequest{Email: "nobody@example.com"})
	if resp.StatusCode != stdhttp.StatusNotFound {
		t.Fatalf("unknown email: status %d", resp.StatusCode)
	}

	resp = postJSON(t, env, "/api/auth/forgot-password", "", ForgotPasswordRequest{Email: "alice@example.com"})
	if resp.StatusCode != stdhttp.StatusOK {
		t.Fatalf("forgot password: status %d", resp.StatusCode)
	}

	resp = postJSON(t, env, "/api/auth/reset-password/bogus", "", ResetPasswordRequest{Password: "newpassword"})
	if resp.StatusCode != stdhttp.StatusBadRequest {
		t.Fatalf("bogus token: status %d", resp.StatusCode)
	}
}
