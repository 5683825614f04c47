package constants

// Roles
const (
	ROLE_ADMIN    = "Admin"
	ROLE_STAFF    = "Staff"
	ROLE_CUSTOMER = "Customer"
)

var Roles = []string{ROLE_ADMIN, ROLE_STAFF, ROLE_CUSTOMER}

// Account status (explicit flag, not encoded into the role string)
const (
	STATUS_ACTIVE  = "Active"
	STATUS_REVOKED = "Revoked"
)

// Order status
const (
	ORDER_RECEIVED    = "Received"
	ORDER_IN_PROGRESS = "In Progress"
	ORDER_READY       = "Ready for Pickup"
	ORDER_COMPLETED   = "Completed"
	ORDER_PICKED_UP   = "Picked Up"
)

var OrderStatuses = []string{ORDER_RECEIVED, ORDER_IN_PROGRESS, ORDER_READY, ORDER_COMPLETED, ORDER_PICKED_UP}

// Payment status
const (
	PAYMENT_PENDING   = "Pending"
	PAYMENT_PAID      = "Paid"
	PAYMENT_COMPLETED = "Completed"
	PAYMENT_FAILED    = "Failed"
)

// OTP purposes
const (
	OTP_PURPOSE_LOGIN        = "login"
	OTP_PURPOSE_VERIFY       = "verify"
	OTP_PURPOSE_EMAIL_CHANGE = "email_change"
)

// Machine-checkable error keys returned alongside error messages
const (
	KEY_EXPIRED_CODE       = "expired_code"
	KEY_INVALID_CODE       = "invalid_code"
	KEY_ATTEMPTS_EXHAUSTED = "attempts_exhausted"
	KEY_EMAIL_DISPATCH     = "email_dispatch"
	KEY_EMAIL              = "email"
	KEY_PHONE              = "phone"
)

// Messages
const (
	ERROR_INTERNAL_ERROR  = "Internal server error"
	ERROR_CREATE          = "Could not create record"
	MISSING_LOGIN_INPUT   = "Identifier and password are required"
	INVALID_CREDENTIALS   = "Invalid credentials"
	ACCOUNT_REVOKED       = "Account access has been revoked"
	NOT_ADMIN             = "Admin privileges required"
	FORBIDDEN_ROLE        = "Insufficient privileges"
	FORBIDDEN_OWNERSHIP   = "You may only access your own records"
	USER_EXISTS           = "User already exists with this email or phone"
	USER_NOT_FOUND        = "User not found"
	ORDER_NOT_FOUND       = "Order not found"
	CAN_NOT_HASH_PASSWORD = "Could not hash password"
	OTP_DISPATCH_FAILED   = "Could not send verification code"
	OTP_EXPIRED           = "Verification code expired"
	OTP_INVALID           = "Invalid verification code"
	OTP_EXHAUSTED         = "Too many failed attempts, request a new code"
)
