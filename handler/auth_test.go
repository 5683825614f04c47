package handler_test

import (
	"net/http"
	"testing"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/model"
)

func TestSignupCreatesCustomerProfile(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]any{
		"fullname": "Alice Chen",
		"email":    "Alice@Example.com",
		"phone":    "(555) 123-4567",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup status: got %d, body %v", resp.StatusCode, body)
	}
	if body["token"] == nil || body["token"] == "" {
		t.Fatal("signup response missing token")
	}

	var user model.User
	if err := database.DB.Where("email = ?", "alice@example.com").First(&user).Error; err != nil {
		t.Fatalf("stored user not found under normalized email: %v", err)
	}
	if user.Phone != "5551234567" {
		t.Errorf("phone not normalized: %q", user.Phone)
	}
	if user.IsVerified {
		t.Error("new account should start unverified")
	}

	var customer model.Customer
	if err := database.DB.Where("user_id = ?", user.ID).First(&customer).Error; err != nil {
		t.Fatalf("customer profile not created: %v", err)
	}
	if customer.CustomerCode == "" {
		t.Error("customer code not generated")
	}
}

func TestSignupConflictOnCaseVariedEmail(t *testing.T) {
	app, _ := newTestApp(t)

	payload := map[string]any{
		"fullname": "Bob",
		"email":    "bob@example.com",
		"phone":    "5559990001",
		"password": "secret123",
	}
	if resp, _ := doJSON(t, app, "POST", "/api/v1/auth/signup", "", payload); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first signup: %d", resp.StatusCode)
	}

	payload["email"] = "BOB@Example.COM"
	payload["phone"] = "5559990002"
	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/signup", "", payload)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("case-varied duplicate email: got %d, want 409", resp.StatusCode)
	}
}

func TestPasswordLoginDisabledByDefault(t *testing.T) {
	app, _ := newTestApp(t)
	createTestUser(t, constants.ROLE_CUSTOMER)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"identifier": "Customer0@example.com",
		"password":   "secret123",
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("password login in otp mode: got %d, want 403", resp.StatusCode)
	}
}

func TestPasswordLogin(t *testing.T) {
	app, _ := newTestApp(t)
	t.Setenv("AUTH_MODE", "password")
	user := createTestUser(t, constants.ROLE_CUSTOMER)

	// Case-varied identifier still matches.
	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"identifier": "CUSTOMER0@EXAMPLE.COM",
		"password":   "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: got %d, body %v", resp.StatusCode, body)
	}
	if body["token"] == nil {
		t.Fatal("login response missing token")
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"identifier": user.Email,
		"password":   "wrong-password",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: got %d, want 401", resp.StatusCode)
	}
}

func TestOTPLoginFlow(t *testing.T) {
	app, sent := newTestApp(t)
	user := createTestUser(t, constants.ROLE_CUSTOMER)
	database.DB.Model(user).Update("is_verified", false)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/login/initiate", "", map[string]any{
		"identifier": user.Email,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("initiate: got %d", resp.StatusCode)
	}

	// Wrong code first, then the real one.
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
		"identifier": user.Email,
		"code":       "0000x",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong code: got %d, want 401", resp.StatusCode)
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
		"identifier": user.Email,
		"code":       *sent,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify: got %d, body %v", resp.StatusCode, body)
	}
	if body["token"] == nil {
		t.Fatal("verify response missing token")
	}

	var fresh model.User
	database.DB.First(&fresh, user.ID)
	if !fresh.IsVerified {
		t.Error("successful OTP login should mark the account verified")
	}

	// The code is single-use.
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
		"identifier": user.Email,
		"code":       *sent,
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("replayed code: got %d, want 401", resp.StatusCode)
	}
}

func TestOTPLoginAttemptCeiling(t *testing.T) {
	app, sent := newTestApp(t)
	user := createTestUser(t, constants.ROLE_CUSTOMER)

	doJSON(t, app, "POST", "/api/v1/auth/login/initiate", "", map[string]any{"identifier": user.Email})

	for i := 0; i < 3; i++ {
		doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
			"identifier": user.Email, "code": "0000x",
		})
	}

	resp, body := doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
		"identifier": user.Email, "code": *sent,
	})
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("exhausted attempts: got %d, want 429", resp.StatusCode)
	}
	if body["keyError"] != constants.KEY_ATTEMPTS_EXHAUSTED {
		t.Errorf("keyError: got %v", body["keyError"])
	}

	// Resend issues a fresh code and resets the counter.
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/otp/resend", "", map[string]any{
		"identifier": user.Email,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("resend: got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login/verify", "", map[string]any{
		"identifier": user.Email, "code": *sent,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify after resend: got %d", resp.StatusCode)
	}
}

func TestInitiateLoginRevokedAccount(t *testing.T) {
	app, _ := newTestApp(t)
	user := createTestUser(t, constants.ROLE_CUSTOMER)
	database.DB.Model(user).Update("status", constants.STATUS_REVOKED)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/login/initiate", "", map[string]any{
		"identifier": user.Email,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("revoked initiate: got %d, want 403", resp.StatusCode)
	}
}

func TestVerifyAccountFlow(t *testing.T) {
	app, sent := newTestApp(t)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/signup", "", map[string]any{
		"fullname": "Carol",
		"email":    "carol@example.com",
		"phone":    "5550001111",
		"password": "secret123",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("signup: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/verify-account", "", map[string]any{
		"identifier": "carol@example.com",
		"code":       *sent,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("verify-account: got %d", resp.StatusCode)
	}

	var user model.User
	database.DB.Where("email = ?", "carol@example.com").First(&user)
	if !user.IsVerified {
		t.Error("account not marked verified")
	}
}

func TestResetPassword(t *testing.T) {
	app, _ := newTestApp(t)
	t.Setenv("AUTH_MODE", "password")
	user := createTestUser(t, constants.ROLE_CUSTOMER)

	resp, _ := doJSON(t, app, "POST", "/api/v1/auth/reset-password", "", map[string]any{
		"identifier":  user.Email,
		"newPassword": "brand-new-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reset-password: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/v1/auth/login", "", map[string]any{
		"identifier": user.Email,
		"password":   "brand-new-pass",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login with new password: got %d", resp.StatusCode)
	}
}
