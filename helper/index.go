package helper

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"laundry_manager/config"
	"laundry_manager/database"
	"laundry_manager/model"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var bcryptPrefix = regexp.MustCompile(`^\$2[aby]\$`)

// IsHashed reports whether value already looks like a bcrypt hash, so a
// password is never hashed twice on re-save.
func IsHashed(value string) bool {
	return bcryptPrefix.MatchString(value)
}

func HashPassword(password string) (string, error) {
	if IsHashed(password) {
		return password, nil
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// NormalizeEmail lowercases and trims; identifiers are stored and matched in
// this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizePhone strips everything but digits.
func NormalizePhone(phone string) string {
	return nonDigits.ReplaceAllString(phone, "")
}

// FindUserByIdentifier resolves an email or phone (normalized) to a user.
// Returns (nil, nil) when no user matches.
func FindUserByIdentifier(db *gorm.DB, identifier string) (*model.User, error) {
	id := strings.TrimSpace(identifier)

	var user model.User
	var err error
	if strings.Contains(id, "@") {
		err = db.Where("email = ?", NormalizeEmail(id)).First(&user).Error
	} else {
		err = db.Where("phone = ?", NormalizePhone(id)).First(&user).Error
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func GenerateAccessToken(claim model.TokenClaim) (string, error) {
	token := jwt.New(jwt.SigningMethodHS256)

	claims := token.Claims.(jwt.MapClaims)
	claims["userId"] = claim.UserId
	claims["role"] = claim.Role
	claims["exp"] = time.Now().Add(time.Duration(config.TokenTTLHours()) * time.Hour).Unix()

	return token.SignedString([]byte(config.Config("JWT_SECRET")))
}

func ParseToken(tokenString string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.Config("JWT_SECRET")), nil
	})
}

// GetUserFromToken loads the caller behind the token stashed in Locals by
// middleware.Protected. The role check is done against the database row, not
// the token claim, so role changes and revocations take effect immediately.
func GetUserFromToken(c *fiber.Ctx) (*model.User, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, errors.New("no token in context")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	idFloat, ok := claims["userId"].(float64)
	if !ok {
		return nil, errors.New("invalid userId in token")
	}

	var user model.User
	if err := database.DB.First(&user, uint(idFloat)).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
