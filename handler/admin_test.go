package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/model"
)

func TestRevokeBlocksAccessImmediately(t *testing.T) {
	app, _ := newTestApp(t)
	admin := createTestUser(t, constants.ROLE_ADMIN)
	staff := createTestUser(t, constants.ROLE_STAFF)
	staffToken := tokenFor(t, staff)

	// Works before revocation.
	resp, _ := doJSON(t, app, "GET", "/api/v1/orders/", staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pre-revoke: got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/admin/users/%d/revoke", staff.ID), tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revoke: got %d", resp.StatusCode)
	}

	// The old token dies with the account, no re-login needed to enforce.
	resp, _ = doJSON(t, app, "GET", "/api/v1/orders/", staffToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("post-revoke: got %d, want 403", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/admin/users/%d/restore", staff.ID), tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("restore: got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "GET", "/api/v1/orders/", staffToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("post-restore: got %d, want 200", resp.StatusCode)
	}
}

func TestAdminCannotRevokeSelf(t *testing.T) {
	app, _ := newTestApp(t)
	admin := createTestUser(t, constants.ROLE_ADMIN)

	resp, _ := doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/admin/users/%d/revoke", admin.ID), tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("self revoke: got %d, want 400", resp.StatusCode)
	}
}

func TestUpdateRoleCreatesCustomerProfile(t *testing.T) {
	app, _ := newTestApp(t)
	admin := createTestUser(t, constants.ROLE_ADMIN)
	staff := createTestUser(t, constants.ROLE_STAFF)

	resp, _ := doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/admin/users/%d/role", staff.ID), tokenFor(t, admin), map[string]any{
		"role": constants.ROLE_CUSTOMER,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("role update: got %d", resp.StatusCode)
	}

	var profile model.Customer
	if err := database.DB.Where("user_id = ?", staff.ID).First(&profile).Error; err != nil {
		t.Fatalf("demoted user has no customer profile: %v", err)
	}
}

func TestAdminRoutesRejectStaff(t *testing.T) {
	app, _ := newTestApp(t)
	staff := createTestUser(t, constants.ROLE_STAFF)

	resp, _ := doJSON(t, app, "GET", "/api/v1/admin/users", tokenFor(t, staff), nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("staff on admin route: got %d, want 403", resp.StatusCode)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	app, _ := newTestApp(t)
	admin := createTestUser(t, constants.ROLE_ADMIN)
	customer := createTestUser(t, constants.ROLE_CUSTOMER)

	doJSON(t, app, "POST", "/api/v1/orders/", tokenFor(t, admin), map[string]any{
		"userId": customer.ID,
		"items":  []map[string]any{{"garmentType": "Shirt", "quantity": 1, "unitPrice": 5}},
	})

	resp, _ := doJSON(t, app, "DELETE", fmt.Sprintf("/api/v1/admin/users/%d", customer.ID), tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete user: got %d", resp.StatusCode)
	}

	var orders, customers int64
	database.DB.Model(&model.Order{}).Where("user_id = ?", customer.ID).Count(&orders)
	database.DB.Model(&model.Customer{}).Where("user_id = ?", customer.ID).Count(&customers)
	if orders != 0 || customers != 0 {
		t.Errorf("cascade: %d orders, %d profiles left", orders, customers)
	}
}

func TestDashboardStats(t *testing.T) {
	app, _ := newTestApp(t)
	admin := createTestUser(t, constants.ROLE_ADMIN)
	customer := createTestUser(t, constants.ROLE_CUSTOMER)

	_, body := doJSON(t, app, "POST", "/api/v1/orders/", tokenFor(t, admin), map[string]any{
		"userId": customer.ID,
		"items":  []map[string]any{{"garmentType": "Coat", "quantity": 1, "unitPrice": 25}},
	})
	orderID := int(body["order"].(map[string]any)["id"].(float64))
	doJSON(t, app, "PATCH", fmt.Sprintf("/api/v1/orders/%d/payment-status", orderID), tokenFor(t, admin), map[string]any{
		"paymentStatus": constants.PAYMENT_PAID,
	})

	resp, body := doJSON(t, app, "GET", "/api/v1/admin/dashboard", tokenFor(t, admin), nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: got %d", resp.StatusCode)
	}
	if body["totalOrders"].(float64) != 1 {
		t.Errorf("totalOrders: got %v", body["totalOrders"])
	}
	if body["revenue"].(float64) != 25 {
		t.Errorf("revenue: got %v", body["revenue"])
	}
	if body["totalCustomers"].(float64) != 1 {
		t.Errorf("totalCustomers: got %v", body["totalCustomers"])
	}
}
