package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/localnerve/ojt-tracker/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Credential rules
const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

// SessionUser is the identity stored in the session and returned to clients
type SessionUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session user holds the admin role
func (u SessionUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// NewSessionUser projects a user row onto its session identity
func NewSessionUser(u *models.User) SessionUser {
	return SessionUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     u.Role,
	}
}

// LoginInput is the body of a login request. Username may also be an email.
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

// LoginResult carries the authenticated user and, when requested, the new remember token
type LoginResult struct {
	User          *models.User
	RememberToken string
}

// SignupInput is the body of a signup request
type SignupInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
}

// Login verifies credentials of an active user by username or email. With
// Remember set a fresh token is stored on the user row.
func Login(db *gorm.DB, in LoginInput) (*LoginResult, error) {
	identifier := strings.TrimSpace(in.Username)
	if identifier == "" || in.Password == "" {
		return nil, newError(ErrValidation, "Username and password are required")
	}

	var user models.User
	err := db.Where("(username = ? OR email = ?) AND is_active = ?", identifier, identifier, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthenticated, "Invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return nil, newError(ErrUnauthenticated, "Invalid username or password")
	}

	result := &LoginResult{User: &user}
	err = db.Transaction(func(tx *gorm.DB) error {
		if in.Remember {
			token, err := randomToken()
			if err != nil {
				return err
			}
			if err := tx.Model(&user).Update("remember_token", token).Error; err != nil {
				return err
			}
			result.RememberToken = token
		}
		return LogActivity(tx, user.ID, nil, models.ActionLogin, fmt.Sprintf("User %s logged in", user.Username), nil)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateSignup checks the signup rules without touching the database
func ValidateSignup(in SignupInput) error {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.FullName == "" {
		return newError(ErrValidation, "All fields are required")
	}
	if utf8.RuneCountInString(in.Username) < MinUsernameLength {
		return newError(ErrValidation, "Username must be at least %d characters long", MinUsernameLength)
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return newError(ErrValidation, "Password must be at least %d characters long", MinPasswordLength)
	}
	if err := validate.Var(in.Email, "email"); err != nil {
		return newError(ErrValidation, "Invalid email format")
	}
	return nil
}

// Signup creates an active user with the user role and logs the signup
func Signup(db *gorm.DB, in SignupInput) (*models.User, error) {
	return CreateUser(db, in, models.RoleUser)
}

// CreateUser creates an active user with the given role under the signup rules
func CreateUser(db *gorm.DB, in SignupInput, role string) (*models.User, error) {
	if role != models.RoleAdmin && role != models.RoleUser {
		return nil, newError(ErrValidation, "Role must be one of: admin user")
	}
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := ValidateSignup(in); err != nil {
		return nil, err
	}

	if err := checkUnique(db, "username", in.Username, 0, "Username already exists"); err != nil {
		return nil, err
	}
	if err := checkUnique(db, "email", in.Email, 0, "Email already exists"); err != nil {
		return nil, err
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		FullName: in.FullName,
		Role:     role,
		IsActive: true,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return LogActivity(tx, user.ID, nil, models.ActionSignup, "New user registered: "+user.Username, nil)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout forgets the user's remember token. Unknown ids are ignored.
func Logout(db *gorm.DB, userID uint64) error {
	if userID == 0 {
		return nil
	}
	return db.Model(&models.User{}).Where("id = ?", userID).Update("remember_token", nil).Error
}

// GetActiveUser loads an active user by id
func GetActiveUser(db *gorm.DB, id uint64) (*models.User, error) {
	var user models.User
	err := db.Where("id = ? AND is_active = ?", id, true).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrUnauthenticated, "Not authenticated")
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// HashPassword bcrypt hashes a plain text password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// checkUnique fails with ErrConflict when another user already holds value in column
func checkUnique(db *gorm.DB, column, value string, exceptID uint64, message string) error {
	q := db.Model(&models.User{}).Where(column+" = ?", value)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return newError(ErrConflict, "%s", message)
	}
	return nil
}

// randomToken returns 32 random bytes hex encoded
func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
