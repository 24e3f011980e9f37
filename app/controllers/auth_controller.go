package controllers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/TaskNestApp/TaskNest/app/models"
	"github.com/TaskNestApp/TaskNest/app/repository"
	"github.com/TaskNestApp/TaskNest/internal/pkg/env"
	"github.com/TaskNestApp/TaskNest/internal/pkg/mail"
	"github.com/TaskNestApp/TaskNest/internal/pkg/session"
	"github.com/TaskNestApp/TaskNest/internal/pkg/usercontext"
	"github.com/TaskNestApp/TaskNest/internal/pkg/verification"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleAuthRegister creates an inactive account and mails the activation link.
func HandleAuthRegister(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	if existing, err := repo.GetByEmail(req.Email); err == nil && existing != nil {
		return jsonError(c, fiber.StatusConflict, "conflict", "Email is already registered")
	}

	user, err := models.CreateUser(req.Username, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "validation_failed", err.Error())
	}

	if err := user.GenerateActivationToken(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to prepare activation")
	}

	if err := repo.Create(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to create account")
	}

	activationURL := fmt.Sprintf("%s/api/v1/auth/activate/%s", env.GetEnv("PUBLIC_DOMAIN", "http://localhost:3000"), user.ActivationToken)
	body := fmt.Sprintf("Welcome to TaskNest!\n\nPlease activate your account:\n%s\n", activationURL)
	if err := mail.SendMail(user.Email, "Activate your TaskNest account", body); err != nil {
		log.Printf("[Auth] failed to send activation mail to %s: %v", user.Email, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Account created, check your inbox for the activation link",
		"user":    user,
	})
}

// HandleAuthActivate flips an inactive account to active when the token matches.
func HandleAuthActivate(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing activation token")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusNotFound, "not_found", "Unknown activation token")
		}
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to look up token")
	}

	user.Status = models.STATUS_ACTIVE
	user.ActivationToken = ""
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to activate account")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Account activated"})
}

// HandleAuthLogin checks credentials and starts a session.
func HandleAuthLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Invalid request body")
	}

	// notice: in production you should not inform the user
	// with detailed messages about login failures
	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil || !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "There is a problem with the login process")
	}

	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "Account is not activated")
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to open session")
	}

	sess.Set(usercontext.KeyUserID, user.ID)
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to save session")
	}

	now := time.Now()
	user.LastLoginAt = &now
	ipv4, ipv6 := GetClientIP(c)
	if user.LastLoginIP = ipv4; ipv4 == "" {
		user.LastLoginIP = ipv6
	}
	if err := repo.Update(user); err != nil {
		log.Printf("[Auth] failed to record last login for user %d: %v", user.ID, err)
	}

	return c.JSON(fiber.Map{"success": true, "user": user})
}

// HandleAuthLogout destroys the session.
func HandleAuthLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		if err := sess.Destroy(); err != nil {
			log.Printf("[Auth] failed to destroy session: %v", err)
		}
	}

	return c.JSON(fiber.Map{"success": true, "message": "Logged out"})
}

// HandleRequestPhoneCode stores the phone number and issues a short-lived code.
func HandleRequestPhoneCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req struct {
		Phone string `json:"phone"`
	}
	if err := c.BodyParser(&req); err != nil || req.Phone == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing phone number")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	user.Phone = req.Phone
	user.PhoneVerifiedAt = nil
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store phone number")
	}

	code, err := verification.IssueCode(user.ID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to issue verification code")
	}

	// SMS delivery is handled by an external gateway; until that is wired the
	// code lands in the server log.
	log.Printf("[Auth] phone verification code for user %d: %s", user.ID, code)

	return c.JSON(fiber.Map{"success": true, "message": "Verification code sent"})
}

// HandleConfirmPhoneCode checks the submitted code and marks the phone verified.
func HandleConfirmPhoneCode(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "Login required")
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "Missing verification code")
	}

	if err := verification.VerifyCode(userCtx.UserID, req.Code); err != nil {
		return jsonError(c, fiber.StatusUnprocessableEntity, "code_mismatch", "Verification code is wrong or expired")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(userCtx.UserID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to load user")
	}

	now := time.Now()
	user.PhoneVerifiedAt = &now
	if err := repo.Update(user); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "internal_server_error", "Failed to store verification")
	}

	return c.JSON(fiber.Map{"success": true, "message": "Phone verified"})
}
