package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)
	env.register("listener")

	tests := []struct {
		name string
		body gin.H
	}{
		{"duplicate email", gin.H{"username": "other", "email": "LISTENER@example.com", "password": "secret1"}},
		{"duplicate username", gin.H{"username": "listener", "email": "new@example.com", "password": "secret1"}},
		{"short password", gin.H{"username": "newbie", "email": "newbie@example.com", "password": "12345"}},
		{"short username", gin.H{"username": "ab", "email": "ab@example.com", "password": "secret1"}},
		{"bad email", gin.H{"username": "newbie", "email": "not-an-email", "password": "secret1"}},
		{"missing fields", gin.H{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/v1/auth/register", "", tt.body)
			body := env.expect(w, http.StatusBadRequest)
			if body["error"] == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	env := newTestEnv(t)
	env.register("listener")

	w := env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "listener@example.com", "password": "wrong!"})
	if body := env.expect(w, http.StatusBadRequest); body["error"] != "Invalid credentials" {
		t.Errorf("error = %v", body["error"])
	}
	w = env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "secret1"})
	env.expect(w, http.StatusBadRequest)

	token := env.login(" Listener@Example.com ", "secret1")

	env.expect(env.do(http.MethodGet, "/api/v1/auth/me", "", nil), http.StatusUnauthorized)

	body := env.expect(env.do(http.MethodGet, "/api/v1/auth/me", token, nil), http.StatusOK)
	user := body["user"].(map[string]any)
	if user["username"] != "listener" || user["role"] != "user" {
		t.Errorf("user = %v", user)
	}
	if user["lastLogin"] == nil {
		t.Error("lastLogin not recorded")
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Error("password hash serialised")
	}
	prefs := user["preferences"].(map[string]any)
	if prefs["theme"] != "dark" || prefs["volume"] != 0.7 || prefs["autoplay"] != true {
		t.Errorf("default preferences = %v", prefs)
	}
}

func TestUpdatePreferences(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	w := env.do(http.MethodPatch, "/api/v1/auth/preferences", token, gin.H{"theme": "neon"})
	env.expect(w, http.StatusBadRequest)

	w = env.do(http.MethodPatch, "/api/v1/auth/preferences", token, gin.H{
		"theme":         "light",
		"volume":        1.5,
		"autoplay":      false,
		"notifications": gin.H{"push": false},
	})
	prefs := env.expect(w, http.StatusOK)["preferences"].(map[string]any)
	if prefs["theme"] != "light" || prefs["volume"] != 1.0 || prefs["autoplay"] != false {
		t.Errorf("preferences = %v", prefs)
	}
	notify := prefs["notifications"].(map[string]any)
	if notify["push"] != false || notify["email"] != true {
		t.Errorf("notifications = %v", notify)
	}

	w = env.do(http.MethodPatch, "/api/v1/auth/preferences", token, gin.H{"volume": -3})
	prefs = env.expect(w, http.StatusOK)["preferences"].(map[string]any)
	if prefs["volume"] != 0.0 || prefs["theme"] != "light" {
		t.Errorf("partial update clobbered fields: %v", prefs)
	}

	me := env.expect(env.do(http.MethodGet, "/api/v1/auth/me", token, nil), http.StatusOK)
	stored := me["user"].(map[string]any)["preferences"].(map[string]any)
	if stored["autoplay"] != false {
		t.Errorf("autoplay not persisted: %v", stored)
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.register("taken")
	token, _ := env.register("listener")

	w := env.do(http.MethodPatch, "/api/v1/auth/profile", token, gin.H{"username": "taken"})
	if body := env.expect(w, http.StatusBadRequest); body["error"] != "Username already taken" {
		t.Errorf("error = %v", body["error"])
	}

	w = env.do(http.MethodPatch, "/api/v1/auth/profile", token, gin.H{"username": "renamed", "avatar": "https://img/a.png"})
	user := env.expect(w, http.StatusOK)["user"].(map[string]any)
	if user["username"] != "renamed" || user["avatar"] != "https://img/a.png" {
		t.Errorf("user = %v", user)
	}
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	w := env.do(http.MethodPatch, "/api/v1/auth/change-password", token, gin.H{"currentPassword": "nope", "newPassword": "secret2"})
	if body := env.expect(w, http.StatusBadRequest); !strings.Contains(body["error"].(string), "incorrect") {
		t.Errorf("error = %v", body["error"])
	}
	w = env.do(http.MethodPatch, "/api/v1/auth/change-password", token, gin.H{"currentPassword": "secret1", "newPassword": "123"})
	env.expect(w, http.StatusBadRequest)

	w = env.do(http.MethodPatch, "/api/v1/auth/change-password", token, gin.H{"currentPassword": "secret1", "newPassword": "secret2"})
	env.expect(w, http.StatusOK)

	w = env.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "listener@example.com", "password": "secret1"})
	env.expect(w, http.StatusBadRequest)
	env.login("listener@example.com", "secret2")
}
