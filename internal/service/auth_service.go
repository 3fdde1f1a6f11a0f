package service

import (
	"context"
	"errors"
	"fmt"
	"math_quiz_backend/internal/config"
	"math_quiz_backend/internal/model"
	"math_quiz_backend/internal/repository"
	"math_quiz_backend/internal/util"
	"math_quiz_backend/pkg/logger"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// MaxUsernameLength matches the users.username column.
const MaxUsernameLength = 50

// AdminUsername is the identity carried by admin tokens.
const AdminUsername = "admin"

type AuthService struct {
	DB           *gorm.DB
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	Cfg          *config.Config
	now          func() time.Time
}

func NewAuthService(db *gorm.DB, userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		DB:           db,
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		Cfg:          cfg,
		now:          time.Now,
	}
}

type LoginResponse struct {
	Token    string              `json:"token"`
	User     *model.User         `json:"user"`
	Progress *model.UserProgress `json:"progress"`
}

// NormalizeUsername trims and lower-cases a username. Any non-empty name
// up to MaxUsernameLength characters is accepted, spaces included.
func NormalizeUsername(raw string) (string, error) {
	username := strings.ToLower(strings.TrimSpace(raw))
	if username == "" || !utf8.ValidString(username) || utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", util.ErrInvalidUsername
	}
	if strings.IndexFunc(username, unicode.IsControl) >= 0 {
		return "", util.ErrInvalidUsername
	}
	return username, nil
}

// Login finds the user by lower-cased username, creating the account and
// its empty progress record on first sight, and issues a token.
func (s *AuthService) Login(ctx context.Context, rawUsername string) (*LoginResponse, error) {
	username, err := NormalizeUsername(rawUsername)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var user *model.User
	var progress *model.UserProgress
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.UserRepo.WithTx(tx)
		progressRepo := s.ProgressRepo.WithTx(tx)

		u, err := users.FindByUsername(ctx, username)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			u = &model.User{
				Username: username,
				FullName: strings.TrimSpace(rawUsername),
				Role:     model.Student,
			}
			if err := users.Create(ctx, u); err != nil {
				return fmt.Errorf("create user: %w", err)
			}
			logger.Log.Info("Created user on first login", zap.String("username", username))
		} else if err != nil {
			return err
		}

		if err := users.UpdateLogin(ctx, u.ID, now); err != nil {
			return err
		}
		u.LastLogin, u.LastSeen = now, now

		p, err := progressRepo.GetOrCreate(ctx, u.ID)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		p.LastActivity = now
		if err := progressRepo.Save(ctx, p); err != nil {
			return err
		}

		user, progress = u, p
		return nil
	})
	if err != nil {
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{Token: token, User: user, Progress: progress}, nil
}

type UpdateProfileRequest struct {
	FullName   *string  `json:"fullName"`
	Email      *string  `json:"email" binding:"omitempty,email"`
	Class      *string  `json:"class"`
	TargetExam []string `json:"targetExam"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Class != nil {
		class := model.ClassLevel(*req.Class)
		if class != "" && !model.ValidClass(class) {
			return nil, fmt.Errorf("%w: class %q", util.ErrInvalidProfile, class)
		}
		user.Class = class
	}
	if req.TargetExam != nil {
		for _, exam := range req.TargetExam {
			if !model.ValidTargetExam(exam) {
				return nil, fmt.Errorf("%w: target exam %q", util.ErrInvalidProfile, exam)
			}
		}
		user.TargetExams = req.TargetExam
	}

	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// AdminLogin checks the password against the configured bcrypt hash and
// issues an admin token.
func (s *AuthService) AdminLogin(password string) (string, error) {
	hash := s.Cfg.Admin.PasswordHash
	if hash == "" {
		return "", util.ErrAdminNotConfigured
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		logger.Log.Warn("Failed admin login attempt")
		return "", util.ErrInvalidCredentials
	}
	admin := &model.User{Username: AdminUsername, Role: model.Admin}
	return util.GenerateJWT(admin, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
}
