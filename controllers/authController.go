package controllers

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Kariqs/grocery-api/initializers"
	"github.com/Kariqs/grocery-api/middlewares"
	"github.com/Kariqs/grocery-api/models"
	"github.com/Kariqs/grocery-api/utils"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	otpTTL        = time.Hour
	maxOTPTries   = 5
	resetGrantTTL = 10 * time.Minute

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "Already register email"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "Check your password"
	msgUserNotRegistered     = "User not register"
	msgAccountNotActive      = "Contact to Admin"
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgInvalidVerification   = "Invalid code"
	msgEmailVerified         = "Verify email done"
	msgUserCreated           = "User register successfully"
	msgLoginSuccess          = "Login successfully"
	msgLogoutSuccess         = "Logout successfully"
	msgEmailNotAvailable     = "Email not available"
	msgOTPSent               = "check your email"
	msgOTPExpired            = "Otp is expired"
	msgOTPInvalid            = "Invalid otp"
	msgOTPVerified           = "Verify otp successfully"
	msgPasswordMismatch      = "newPassword and confirmPassword must be same."
	msgPasswordUpdated       = "Password updated successfully."
	msgResetNotVerified      = "Verify otp before resetting password"
	msgTokenInvalid          = "token is invalid"
	msgTokenRefreshed        = "New Access token generated"
	msgUserUpdated           = "Updated successfully"
	msgUserDetails           = "user details"
)

func mailer() utils.Mailer {
	cfg := initializers.Config
	return utils.Mailer{
		From:     cfg.FromEmail,
		Password: cfg.FromEmailPassword,
		Host:     cfg.SMTPHost,
		Address:  cfg.SMTPAddress,
	}
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func findUserByEmail(email string) (models.User, error) {
	var user models.User
	result := initializers.DB.Where("email = ?", normalizeEmail(email)).First(&user)
	return user, result.Error
}

func findUserByID(id uint) (models.User, error) {
	var user models.User
	result := initializers.DB.First(&user, id)
	return user, result.Error
}

func setAuthCookie(ctx *gin.Context, name, value string, ttl time.Duration) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(name, value, int(ttl.Seconds()), "/", "", true, true)
}

func clearAuthCookie(ctx *gin.Context, name string) {
	ctx.SetSameSite(http.SameSiteNoneMode)
	ctx.SetCookie(name, "", -1, "/", "", true, true)
}

func sendVerificationEmail(user models.User, code string) {
	data := utils.EmailData{
		Name:    user.Name,
		Message: "Thank you for registering. Click the button below to verify your email.",
		URL:     initializers.Config.FrontendURL + "/verify-email?code=" + url.QueryEscape(code),
	}
	err := mailer().SendEmail(user.Email, "Verify email from Grocery", data, filepath.Join("templates", "verify_email.html"))
	if err != nil {
		zap.L().Warn("Error sending verification email", zap.String("email", user.Email), zap.Error(err))
		return
	}
	zap.L().Info("Verification email sent", zap.String("email", user.Email))
}

func sendOTPEmail(user models.User, otp string) {
	data := utils.EmailData{
		Name:    user.Name,
		Message: "Use this code to reset your password. It is valid for one hour.",
		OTP:     otp,
	}
	err := mailer().SendEmail(user.Email, "Forgot password from Grocery", data, filepath.Join("templates", "forgot_password.html"))
	if err != nil {
		zap.L().Warn("Error sending password reset email", zap.String("email", user.Email), zap.Error(err))
	}
}

// RegisterUser creates an account and emails a verification link.
func RegisterUser(ctx *gin.Context) {
	var body struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide email, name, password")
		return
	}

	if _, err := findUserByEmail(body.Email); err == nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	hashedPassword, err := hashPassword(body.Password)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToHashPassword, err)
		return
	}

	verificationCode, err := utils.GenerateCode(32)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	user := models.User{
		Name:              strings.TrimSpace(body.Name),
		Email:             normalizeEmail(body.Email),
		Password:          hashedPassword,
		VerificationToken: verificationCode,
		Status:            models.UserStatusActive,
		Role:              models.RoleUser,
	}
	if err := initializers.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	// Registration succeeds even when the email cannot be sent.
	sendVerificationEmail(user, verificationCode)

	sendSuccess(ctx, http.StatusCreated, msgUserCreated, user)
}

func VerifyEmail(ctx *gin.Context) {
	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerification)
		return
	}

	result := initializers.DB.Model(&models.User{}).
		Where("verification_token = ?", body.Code).
		Updates(map[string]any{
			"verify_email":       true,
			"verification_token": "",
		})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidVerification)
		return
	}

	sendSuccess(ctx, http.StatusOK, msgEmailVerified, nil)
}

func Login(ctx *gin.Context) {
	var loginData models.LoginData
	if err := ctx.ShouldBindJSON(&loginData); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide email, password")
		return
	}

	user, err := findUserByEmail(loginData.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserNotRegistered)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if user.Status != models.UserStatusActive {
		sendErrorResponse(ctx, http.StatusBadRequest, msgAccountNotActive)
		return
	}

	if err := comparePasswords(user.Password, loginData.Password); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidCredentials)
		return
	}

	cfg := initializers.Config
	accessToken, err := utils.GenerateToken(user.ID, user.Role, cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToGenerateToken, err)
		return
	}
	refreshToken, err := utils.GenerateToken(user.ID, user.Role, cfg.RefreshTokenSecret, cfg.RefreshTokenTTL)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToGenerateToken, err)
		return
	}

	now := time.Now()
	if err := initializers.DB.Model(&user).Updates(map[string]any{
		"refresh_token":   refreshToken,
		"last_login_date": now,
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	setAuthCookie(ctx, middlewares.AccessTokenCookie, accessToken, cfg.AccessTokenTTL)
	setAuthCookie(ctx, middlewares.RefreshTokenCookie, refreshToken, cfg.RefreshTokenTTL)

	sendSuccess(ctx, http.StatusOK, msgLoginSuccess, gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	})
}

func Logout(ctx *gin.Context) {
	clearAuthCookie(ctx, middlewares.AccessTokenCookie)
	clearAuthCookie(ctx, middlewares.RefreshTokenCookie)

	if err := initializers.DB.Model(&models.User{}).
		Where("id = ?", currentUserID(ctx)).
		Update("refresh_token", "").Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendSuccess(ctx, http.StatusOK, msgLogoutSuccess, nil)
}

func UploadAvatar(ctx *gin.Context) {
	file, err := ctx.FormFile("avatar")
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide avatar image")
		return
	}
	if err := utils.ValidateImage(file); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
		return
	}

	store, err := NewImageStore(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgUploadFailed, err)
		return
	}
	location, err := store.Upload(ctx.Request.Context(), "avatars", file)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgUploadFailed, err)
		return
	}

	userID := currentUserID(ctx)
	if err := initializers.DB.Model(&models.User{}).Where("id = ?", userID).Update("avatar", location).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendSuccess(ctx, http.StatusOK, "upload profile", gin.H{"_id": userID, "avatar": location})
}

func UpdateUserDetails(ctx *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email" binding:"omitempty,email"`
		Mobile   string `json:"mobile"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	updates := map[string]any{}
	if body.Name != "" {
		updates["name"] = strings.TrimSpace(body.Name)
	}
	if body.Email != "" {
		updates["email"] = normalizeEmail(body.Email)
	}
	if body.Mobile != "" {
		updates["mobile"] = body.Mobile
	}
	if body.Password != "" {
		hashedPassword, err := hashPassword(body.Password)
		if err != nil {
			respondWithError(ctx, http.StatusInternalServerError, msgFailedToHashPassword, err)
			return
		}
		updates["password"] = hashedPassword
	}
	if len(updates) == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	err := initializers.DB.Model(&models.User{}).Where("id = ?", currentUserID(ctx)).Updates(updates).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgUserAlreadyExists)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	user, err := findUserByID(currentUserID(ctx))
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, msgUserUpdated, user)
}

// ForgotPassword emails a one-time code valid for an hour.
func ForgotPassword(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	user, err := findUserByEmail(body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailNotAvailable)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	expiry := time.Now().Add(otpTTL)
	if err := initializers.DB.Model(&user).Updates(map[string]any{
		"forgot_password_otp":    otp,
		"forgot_password_expiry": expiry,
		"forgot_password_tries":  0,
		"password_reset_until":   nil,
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendOTPEmail(user, otp)

	sendSuccess(ctx, http.StatusOK, msgOTPSent, nil)
}

func VerifyForgotPasswordOTP(ctx *gin.Context) {
	var body struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Provide required field email, otp.")
		return
	}

	user, err := findUserByEmail(body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailNotAvailable)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if user.ForgotPasswordExpiry == nil || time.Now().After(*user.ForgotPasswordExpiry) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgOTPExpired)
		return
	}
	if user.ForgotPasswordOTP == "" || user.ForgotPasswordTries >= maxOTPTries {
		sendErrorResponse(ctx, http.StatusBadRequest, msgOTPExpired)
		return
	}
	if subtle.ConstantTimeCompare([]byte(body.OTP), []byte(user.ForgotPasswordOTP)) != 1 {
		if err := recordFailedOTP(user); err != nil {
			respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
			return
		}
		sendErrorResponse(ctx, http.StatusBadRequest, msgOTPInvalid)
		return
	}

	if err := initializers.DB.Model(&user).Updates(map[string]any{
		"forgot_password_otp":    "",
		"forgot_password_expiry": nil,
		"forgot_password_tries":  0,
		"password_reset_until":   time.Now().Add(resetGrantTTL),
	}).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	sendSuccess(ctx, http.StatusOK, msgOTPVerified, nil)
}

// recordFailedOTP counts a wrong guess and burns the OTP once the limit is hit.
func recordFailedOTP(user models.User) error {
	updates := map[string]any{"forgot_password_tries": gorm.Expr("forgot_password_tries + 1")}
	if user.ForgotPasswordTries+1 >= maxOTPTries {
		updates["forgot_password_otp"] = ""
		updates["forgot_password_expiry"] = nil
	}
	return initializers.DB.Model(&user).Updates(updates).Error
}

func ResetPassword(ctx *gin.Context) {
	var body struct {
		Email           string `json:"email" binding:"required,email"`
		NewPassword     string `json:"newPassword" binding:"required"`
		ConfirmPassword string `json:"confirmPassword" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "provide required fields email, newPassword, confirmPassword")
		return
	}

	user, err := findUserByEmail(body.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailNotAvailable)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}

	if body.NewPassword != body.ConfirmPassword {
		sendErrorResponse(ctx, http.StatusBadRequest, msgPasswordMismatch)
		return
	}
	if user.PasswordResetUntil == nil || time.Now().After(*user.PasswordResetUntil) {
		sendErrorResponse(ctx, http.StatusBadRequest, msgResetNotVerified)
		return
	}

	hashedPassword, err := hashPassword(body.NewPassword)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToHashPassword, err)
		return
	}
	// The grant is single use: a concurrent reset that already consumed it matches no row.
	result := initializers.DB.Model(&models.User{}).
		Where("id = ? AND password_reset_until IS NOT NULL", user.ID).
		Updates(map[string]any{
			"password":             hashedPassword,
			"password_reset_until": nil,
			"refresh_token":        "",
		})
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		sendErrorResponse(ctx, http.StatusBadRequest, msgResetNotVerified)
		return
	}

	sendSuccess(ctx, http.StatusOK, msgPasswordUpdated, nil)
}

func RefreshToken(ctx *gin.Context) {
	token := middlewares.BearerOrCookie(ctx, middlewares.RefreshTokenCookie)
	if token == "" {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	cfg := initializers.Config
	claims, err := utils.ParseToken(token, cfg.RefreshTokenSecret)
	if err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgTokenInvalid)
		return
	}
	userID, ok := utils.ClaimUserID(claims)
	if !ok {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	user, err := findUserByID(userID)
	if err != nil || user.RefreshToken != token {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgTokenInvalid)
		return
	}

	accessToken, err := utils.GenerateToken(user.ID, user.Role, cfg.AccessTokenSecret, cfg.AccessTokenTTL)
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, msgFailedToGenerateToken, err)
		return
	}
	setAuthCookie(ctx, middlewares.AccessTokenCookie, accessToken, cfg.AccessTokenTTL)

	sendSuccess(ctx, http.StatusOK, msgTokenRefreshed, gin.H{"accessToken": accessToken})
}

func UserDetails(ctx *gin.Context) {
	user, err := findUserByID(currentUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, msgUserNotRegistered)
			return
		}
		respondWithError(ctx, http.StatusInternalServerError, msgInternalServerError, err)
		return
	}
	sendSuccess(ctx, http.StatusOK, msgUserDetails, user)
}
