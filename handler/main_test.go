package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/helper"
	"laundry_manager/model"
	"laundry_manager/router"
	"laundry_manager/utils"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestApp wires the full route tree against an in-memory database and
// redis, with code emails captured instead of sent.
func newTestApp(t *testing.T) (*fiber.App, *string) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	database.Migrate(db)
	database.DB = db

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { database.Redis = nil })

	var sentCode string
	orig := utils.SendCodeEmail
	utils.SendCodeEmail = func(to, code, purpose string) error {
		sentCode = code
		return nil
	}
	t.Cleanup(func() { utils.SendCodeEmail = orig })

	app := fiber.New()
	router.SetupRoutes(app)
	return app, &sentCode
}

func createTestUser(t *testing.T, role string) *model.User {
	t.Helper()

	hash, err := helper.HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	n := len(role)
	var count int64
	database.DB.Model(&model.User{}).Count(&count)

	user := model.User{
		FullName:   role + " User",
		Email:      strings.ToLower(fmt.Sprintf("%s%d@example.com", role, count)),
		Phone:      fmt.Sprintf("555%03d%04d", n, count),
		Password:   hash,
		Role:       role,
		Status:     constants.STATUS_ACTIVE,
		IsVerified: true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	if role == constants.ROLE_CUSTOMER {
		if _, err := helper.EnsureCustomerProfile(database.DB, user.ID); err != nil {
			t.Fatalf("ensure profile: %v", err)
		}
	}
	return &user
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := helper.GenerateAccessToken(model.TokenClaim{UserId: user.ID, Role: user.Role})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}

	var parsed map[string]any
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}
