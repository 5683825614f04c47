package helper

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"laundry_manager/config"
	"laundry_manager/constants"
	"laundry_manager/database"
	"laundry_manager/utils"

	"github.com/redis/go-redis/v9"
)

// One-time-code engine. Session state (code + failed-attempt counter) lives in
// redis keyed by user id, with the code's TTL as the expiry window, so any
// server instance can issue or validate a code.

const OTPMaxAttempts = 3

var (
	ErrExpiredCode       = errors.New("code expired or not issued")
	ErrInvalidCode       = errors.New("code does not match")
	ErrAttemptsExhausted = errors.New("too many failed attempts")
	ErrDispatchFailed    = errors.New("could not deliver code")
)

func otpKey(purpose string, userID uint) string {
	return fmt.Sprintf("otp:%s:%d", purpose, userID)
}

func otpFailKey(purpose string, userID uint) string {
	return fmt.Sprintf("otpfail:%s:%d", purpose, userID)
}

// GenerateLoginOTP returns a 4-digit numeric code.
func GenerateLoginOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

const verificationChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateVerificationCode returns a 7-character alphanumeric code used for
// signup verification. Comparison is case-insensitive.
func GenerateVerificationCode() (string, error) {
	code := make([]byte, 7)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(verificationChars))))
		if err != nil {
			return "", err
		}
		code[i] = verificationChars[n.Int64()]
	}
	return string(code), nil
}

// IssueOTP generates a code for the purpose, stores it with the configured
// expiry window and dispatches it by email. Issuing again replaces the
// previous code in a single SET and resets the attempt counter, so there is
// no window where both codes validate. A dispatch failure is surfaced to the
// caller — the flow must not silently complete.
func IssueOTP(ctx context.Context, userID uint, purpose, email string) error {
	var code string
	var err error
	if purpose == constants.OTP_PURPOSE_LOGIN {
		code, err = GenerateLoginOTP()
	} else {
		code, err = GenerateVerificationCode()
	}
	if err != nil {
		return err
	}

	window := time.Duration(config.OTPTTLMinutes()) * time.Minute

	pipe := database.Redis.TxPipeline()
	pipe.Set(ctx, otpKey(purpose, userID), code, window)
	pipe.Del(ctx, otpFailKey(purpose, userID))
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}

	if err := utils.SendCodeEmail(email, code, purpose); err != nil {
		return fmt.Errorf("%w: %v", ErrDispatchFailed, err)
	}
	return nil
}

// ValidateOTP checks a submitted code. Single-use: consumption happens via
// GETDEL, so two concurrent submissions of the correct code cannot both
// succeed. The attempt counter is an atomic INCR scoped to the user.
func ValidateOTP(ctx context.Context, userID uint, purpose, submitted string) error {
	rdb := database.Redis
	failKey := otpFailKey(purpose, userID)
	codeKey := otpKey(purpose, userID)

	failed, err := rdb.Get(ctx, failKey).Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if failed >= OTPMaxAttempts {
		return ErrAttemptsExhausted
	}

	stored, err := rdb.Get(ctx, codeKey).Result()
	if errors.Is(err, redis.Nil) {
		return ErrExpiredCode
	}
	if err != nil {
		return err
	}

	if !strings.EqualFold(strings.TrimSpace(submitted), stored) {
		window := time.Duration(config.OTPTTLMinutes()) * time.Minute
		pipe := rdb.TxPipeline()
		pipe.Incr(ctx, failKey)
		pipe.Expire(ctx, failKey, window)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		return ErrInvalidCode
	}

	consumed, err := rdb.GetDel(ctx, codeKey).Result()
	if errors.Is(err, redis.Nil) || consumed == "" {
		// Another request consumed the code first.
		return ErrExpiredCode
	}
	if err != nil {
		return err
	}

	rdb.Del(ctx, failKey)
	return nil
}
