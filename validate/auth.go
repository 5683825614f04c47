package validate

import (
	"laundry_manager/model"

	"github.com/gofiber/fiber/v2"
)

func Signup() fiber.Handler {
	return body[model.SignupInput]("signupInput")
}

func Login() fiber.Handler {
	return body[model.LoginInput]("loginInput")
}

func InitiateLogin() fiber.Handler {
	return body[model.InitiateLoginInput]("initiateLoginInput")
}

func VerifyCode() fiber.Handler {
	return body[model.VerifyCodeInput]("verifyCodeInput")
}

func ResendOTP() fiber.Handler {
	return body[model.ResendOTPInput]("resendOTPInput")
}

func ResetPassword() fiber.Handler {
	return body[model.ResetPasswordInput]("resetPasswordInput")
}

func CreateUser() fiber.Handler {
	return body[model.SignupInput]("createUserInput")
}
