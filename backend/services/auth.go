package services

import (
	"context"
	"errors"
	"strings"

	"esiksha/backend/apperr"
	"esiksha/backend/config"
	"esiksha/backend/models"
	"esiksha/backend/utils"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RegisterInput struct {
	FullName        string `json:"fullName" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Role            string `json:"role"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, string, error)
	Login(ctx context.Context, in LoginInput) (*models.User, string, error)
	EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, bool, error)
}

type authService struct {
	db  *gorm.DB
	log *utils.Logger
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, log *utils.Logger, cfg *config.Config) AuthService {
	return &authService{db: db, log: log.With("service", "AuthService"), cfg: cfg}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = models.NormalizeEmail(in.Email)
	if err := utils.ValidateStruct(in); err != nil {
		return nil, "", err
	}

	role, ok := models.ParseRole(in.Role)
	if !ok {
		return nil, "", apperr.Validation("Invalid role")
	}
	if role == models.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, "", apperr.Forbidden("Admin accounts cannot be self-registered")
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", in.Email).Count(&existing).Error; err != nil {
		return nil, "", dbErr(err)
	}
	if existing > 0 {
		return nil, "", apperr.Conflict("User already exists with this email")
	}

	user := &models.User{
		FullName:        in.FullName,
		Email:           in.Email,
		Role:            role,
		IsActive:        true,
		Skills:          datatypes.JSONSlice[string]{},
		EnrolledCourses: datatypes.JSONSlice[uuid.UUID]{},
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, "", apperr.Internal("Could not hash password", err)
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, "", apperr.Conflict("User already exists with this email")
		}
		return nil, "", dbErr(err)
	}

	token, err := utils.GenerateJWTToken(user, s.cfg)
	if err != nil {
		return nil, "", apperr.Internal("Could not generate token", err)
	}
	s.log.Info("user registered", "userId", user.ID, "role", user.Role)
	return user, token, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*models.User, string, error) {
	in.Email = models.NormalizeEmail(in.Email)
	if in.Email == "" || in.Password == "" {
		return nil, "", apperr.Validation("Email and password are required")
	}

	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", in.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.Unauthorized("Invalid email or password")
		}
		return nil, "", dbErr(err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, "", apperr.Unauthorized("Invalid email or password")
	}
	if !user.IsActive {
		return nil, "", apperr.Forbidden("Account is deactivated")
	}

	token, err := utils.GenerateJWTToken(&user, s.cfg)
	if err != nil {
		return nil, "", apperr.Internal("Could not generate token", err)
	}
	return &user, token, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *authService) EnsureAdmin(ctx context.Context, email, password, fullName string) (*models.User, bool, error) {
	email = models.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, false, apperr.Validation("Admin email and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, dbErr(err)
	}

	user = models.User{
		FullName:        fullName,
		Email:           email,
		Role:            models.RoleAdmin,
		IsActive:        true,
		Skills:          datatypes.JSONSlice[string]{},
		EnrolledCourses: datatypes.JSONSlice[uuid.UUID]{},
	}
	if err := user.SetPassword(password); err != nil {
		return nil, false, apperr.Internal("Could not hash password", err)
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, false, dbErr(err)
	}
	s.log.Info("bootstrap admin created", "userId", user.ID)
	return &user, true, nil
}
