package handlers_test

import (
	"fmt"
	"net/http"
	"slices"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/Harsh00198/Auraluxe-Music/internal/models"
)

func TestLikeTrackToggles(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	body := env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", token, track(1)), http.StatusOK)
	if body["liked"] != true {
		t.Fatalf("first like: %v", body)
	}
	env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", token, track(2)), http.StatusOK)

	list := env.expect(env.do(http.MethodGet, "/api/v1/users/liked-tracks", token, nil), http.StatusOK)
	ids := trackIDs(list["tracks"].([]any))
	if !slices.Equal(ids, []string{"deezer-2", "deezer-1"}) {
		t.Errorf("liked = %v, want newest first", ids)
	}
	first := list["tracks"].([]any)[0].(map[string]any)
	if first["image"] != models.PlaceholderImage {
		t.Errorf("image = %v, want placeholder", first["image"])
	}

	body = env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", token, track(1)), http.StatusOK)
	if body["liked"] != false {
		t.Fatalf("second like should unlike: %v", body)
	}
	list = env.expect(env.do(http.MethodGet, "/api/v1/users/liked-tracks", token, nil), http.StatusOK)
	if ids := trackIDs(list["tracks"].([]any)); !slices.Equal(ids, []string{"deezer-2"}) {
		t.Errorf("liked = %v", ids)
	}
}

func TestLikesAreScopedPerUser(t *testing.T) {
	env := newTestEnv(t)
	alice, _ := env.register("alice")
	bob, _ := env.register("bob")

	env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", alice, track(1)), http.StatusOK)
	body := env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", bob, track(1)), http.StatusOK)
	if body["liked"] != true {
		t.Error("bob's like toggled alice's")
	}
}

func TestTrackPayloadValidation(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	for _, path := range []string{"/api/v1/users/like-track", "/api/v1/users/recently-played"} {
		t.Run(path, func(t *testing.T) {
			w := env.do(http.MethodPost, path, token, gin.H{"trackId": "deezer-1", "title": "No Artist"})
			env.expect(w, http.StatusBadRequest)
		})
	}
	env.expect(env.do(http.MethodPost, "/api/v1/users/like-track", "", track(1)), http.StatusUnauthorized)
}

func TestRecentlyPlayedDedupesAndCaps(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register("listener")

	for _, n := range []int{1, 2, 1} {
		env.expect(env.do(http.MethodPost, "/api/v1/users/recently-played", token, track(n)), http.StatusOK)
	}
	list := env.expect(env.do(http.MethodGet, "/api/v1/users/recently-played", token, nil), http.StatusOK)
	if ids := trackIDs(list["tracks"].([]any)); !slices.Equal(ids, []string{"deezer-1", "deezer-2"}) {
		t.Fatalf("recent = %v, want replayed track moved to front", ids)
	}

	for n := 3; n <= models.MaxRecentlyPlayed+5; n++ {
		env.expect(env.do(http.MethodPost, "/api/v1/users/recently-played", token, track(n)), http.StatusOK)
	}
	list = env.expect(env.do(http.MethodGet, "/api/v1/users/recently-played", token, nil), http.StatusOK)
	ids := trackIDs(list["tracks"].([]any))
	if len(ids) != models.MaxRecentlyPlayed {
		t.Fatalf("len = %d, want %d", len(ids), models.MaxRecentlyPlayed)
	}
	if want := fmt.Sprintf("deezer-%d", models.MaxRecentlyPlayed+5); ids[0] != want {
		t.Errorf("newest = %s, want %s", ids[0], want)
	}
	if slices.Contains(ids, "deezer-2") {
		t.Error("oldest entry survived the cap")
	}
}
