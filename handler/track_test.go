package handler_test

import (
	"net/http"
	"testing"

	"laundry_manager/constants"
)

func TestTrackOrderPublicProjection(t *testing.T) {
	app, _ := newTestApp(t)
	staff := createTestUser(t, constants.ROLE_STAFF)
	customer := createTestUser(t, constants.ROLE_CUSTOMER)

	doJSON(t, app, "POST", "/api/v1/orders/", tokenFor(t, staff), map[string]any{
		"userId": customer.ID,
		"items":  []map[string]any{{"garmentType": "Shirt", "quantity": 2, "unitPrice": 5}},
	})

	// No auth header.
	resp, body := doJSON(t, app, "GET", "/api/v1/track/ORD-0001", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("track: got %d, body %v", resp.StatusCode, body)
	}

	order, ok := body["order"].(map[string]any)
	if !ok {
		t.Fatalf("track response missing order: %v", body)
	}
	if order["orderNumber"] != "ORD-0001" {
		t.Errorf("orderNumber: got %v", order["orderNumber"])
	}
	if order["status"] != constants.ORDER_RECEIVED {
		t.Errorf("status: got %v", order["status"])
	}
	if order["quantity"].(float64) != 2 {
		t.Errorf("quantity: got %v", order["quantity"])
	}

	// The public projection must not leak who the customer is.
	for _, leak := range []string{"email", "phone", "fullname", "user", "userId", "customerCode"} {
		if _, present := order[leak]; present {
			t.Errorf("tracking response leaks %q", leak)
		}
	}
}

func TestTrackOrderCaseInsensitiveNumber(t *testing.T) {
	app, _ := newTestApp(t)
	staff := createTestUser(t, constants.ROLE_STAFF)
	customer := createTestUser(t, constants.ROLE_CUSTOMER)

	doJSON(t, app, "POST", "/api/v1/orders/", tokenFor(t, staff), map[string]any{
		"userId": customer.ID,
		"items":  []map[string]any{{"garmentType": "Shirt", "quantity": 1, "unitPrice": 5}},
	})

	resp, _ := doJSON(t, app, "GET", "/api/v1/track/ord-0001", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("lowercased order number: got %d, want 200", resp.StatusCode)
	}
}

func TestTrackUnknownOrder(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, "GET", "/api/v1/track/ORD-9999", "", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown order: got %d, want 404", resp.StatusCode)
	}
	if _, present := body["error"]; present {
		t.Error("public error response must not carry internal detail")
	}
}
