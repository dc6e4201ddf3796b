package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

func TestRateLimitCapsRequests(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New()
	app.Use(RateLimit(cache, 3, time.Minute))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	do := func(userID string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
		if userID != "" {
			req.Header.Set("x-user-id", userID)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		return resp.StatusCode
	}

	for i := 0; i < 3; i++ {
		if status := do("user-a"); status != fiber.StatusOK {
			t.Fatalf("request %d: expected 200 got %d", i+1, status)
		}
	}
	if status := do("user-a"); status != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", status)
	}

	// other callers are unaffected
	if status := do("user-b"); status != fiber.StatusOK {
		t.Fatalf("expected 200 for other user, got %d", status)
	}
}

func TestRateLimitFailsOpenWithoutCache(t *testing.T) {
	app := fiber.New()
	app.Use(RateLimit(nil, 1, time.Minute))
	app.Get("/ping", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(fiber.MethodGet, "/ping", nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("expected 200 without cache, got %d", resp.StatusCode)
		}
	}
}
