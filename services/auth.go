package services

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/shop-api/apperror"
	"github.com/junaidrashid-git/shop-api/auth"
	"github.com/junaidrashid-git/shop-api/logger"
	"github.com/junaidrashid-git/shop-api/models"
	"github.com/junaidrashid-git/shop-api/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username string           `json:"username" validate:"required,max=150"`
	Email    string           `json:"email" validate:"required,email"`
	Password string           `json:"password" validate:"required,min=8"`
	UserType *models.UserType `json:"user_type" validate:"omitempty,oneof=buyer seller hybrid"`
}

type ProfilePatch struct {
	Username *string          `json:"username" validate:"omitempty,min=1,max=150"`
	Email    *string          `json:"email" validate:"omitempty,email"`
	UserType *models.UserType `json:"user_type" validate:"omitempty,oneof=buyer seller hybrid"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, error)
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, userID uint, refreshToken string) error
	Profile(ctx context.Context, userID uint) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error)
}

type authService struct {
	db     *gorm.DB
	tokens *auth.TokenIssuer
	logger *zap.Logger
}

func NewAuthService(db *gorm.DB, tokens *auth.TokenIssuer, logger *zap.Logger) AuthService {
	return &authService{db: db, tokens: tokens, logger: logger}
}

func usernameTaken(tx *gorm.DB, username string, exceptID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.User{}).Where("username = ? AND id <> ?", username, exceptID).Count(&count).Error
	return count > 0, err
}

func errUsernameTaken() error {
	return apperror.ValidationFields(map[string]string{"username": "a user with that username already exists"})
}

// createUser inserts user. Losing a registration race on the unique username
// index reports the same error as the up-front check.
func createUser(tx *gorm.DB, user *models.User) error {
	err := tx.Create(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errUsernameTaken()
	}
	return err
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(ctx, s.logger, "Error hashing password", zap.Error(err))
		return nil, apperror.Internal(err, "error hashing password")
	}

	userType := models.UserTypeBuyer
	if in.UserType != nil {
		userType = *in.UserType
	}
	user := models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Profile:      models.UserProfile{UserType: userType},
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := usernameTaken(tx, in.Username, 0)
		if err != nil {
			return err
		}
		if taken {
			return errUsernameTaken()
		}
		return createUser(tx, &user)
	})
	if err != nil {
		if apperror.KindOf(err) == apperror.KindInternal {
			logger.Error(ctx, s.logger, "Error registering user", zap.String("username", in.Username), zap.Error(err))
		}
		return nil, passThrough(err, "failed to register user")
	}

	logger.Info(ctx, s.logger, "User registered", zap.Uint("user_id", user.ID), zap.String("user_type", string(userType)))
	return &user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, apperror.Validation("username and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.Auth("invalid credentials")
	}
	if err != nil {
		return nil, apperror.Internal(err, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Warn(ctx, s.logger, "Failed login", zap.Uint("user_id", user.ID))
		return nil, apperror.Auth("invalid credentials")
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND expires_at < ?", user.ID, time.Now()).
			Delete(&models.RefreshSession{}).Error; err != nil {
			return err
		}
		pair, err = s.issuePair(tx, user.ID)
		return err
	})
	if err != nil {
		logger.Error(ctx, s.logger, "Error issuing tokens", zap.Uint("user_id", user.ID), zap.Error(err))
		return nil, apperror.Internal(err, "failed to issue tokens")
	}

	logger.Info(ctx, s.logger, "User logged in", zap.Uint("user_id", user.ID))
	return pair, nil
}

// issuePair signs a new access/refresh pair and records the refresh session.
func (s *authService) issuePair(tx *gorm.DB, userID uint) (*TokenPair, error) {
	access, err := s.tokens.Access(userID)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.Refresh(userID)
	if err != nil {
		return nil, err
	}

	session := models.RefreshSession{UserID: userID, TokenID: refresh.ID, ExpiresAt: refresh.ExpiresAt}
	if err := tx.Create(&session).Error; err != nil {
		return nil, err
	}
	return &TokenPair{Access: access.Token, Refresh: refresh.Token}, nil
}

// revoke deletes the session behind claims and reports whether one existed.
func revoke(tx *gorm.DB, claims *auth.Claims) (bool, error) {
	res := tx.Where("token_id = ? AND user_id = ?", claims.ID, claims.UserID).Delete(&models.RefreshSession{})
	return res.RowsAffected > 0, res.Error
}

// Refresh rotates a refresh token: the presented one is revoked and a new
// pair issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Auth("invalid or expired refresh token")
	}

	var pair *TokenPair
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := revoke(tx, claims)
		if err != nil {
			return err
		}
		if !found {
			return apperror.Auth("refresh token has been revoked")
		}
		pair, err = s.issuePair(tx, claims.UserID)
		return err
	})
	if err != nil {
		return nil, passThrough(err, "failed to refresh tokens")
	}

	logger.Info(ctx, s.logger, "Tokens refreshed", zap.Uint("user_id", claims.UserID))
	return pair, nil
}

func (s *authService) Logout(ctx context.Context, userID uint, refreshToken string) error {
	if refreshToken == "" {
		return apperror.ValidationFields(map[string]string{"refresh": "refresh is required"})
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil || claims.UserID != userID {
		return apperror.Validation("invalid refresh token")
	}

	found, err := revoke(s.db.WithContext(ctx), claims)
	if err != nil {
		return apperror.Internal(err, "failed to revoke refresh token")
	}
	if !found {
		return apperror.Validation("refresh token already revoked")
	}

	logger.Info(ctx, s.logger, "User logged out", zap.Uint("user_id", userID))
	return nil
}

func (s *authService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Preload("Profile").First(&user, userID).Error; err != nil {
		return nil, storeErr(err, "user not found")
	}
	return &user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uint, patch ProfilePatch) (*models.User, error) {
	if err := validation.Struct(patch); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return storeErr(err, "user not found")
		}

		updates := map[string]interface{}{}
		if patch.Username != nil && *patch.Username != user.Username {
			taken, err := usernameTaken(tx, *patch.Username, userID)
			if err != nil {
				return err
			}
			if taken {
				return errUsernameTaken()
			}
			updates["username"] = *patch.Username
		}
		if patch.Email != nil {
			updates["email"] = *patch.Email
		}
		if len(updates) > 0 {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return errUsernameTaken()
				}
				return err
			}
		}

		if patch.UserType != nil {
			return tx.Model(&models.UserProfile{}).Where("user_id = ?", userID).
				Update("user_type", *patch.UserType).Error
		}
		return nil
	})
	if err != nil {
		return nil, passThrough(err, "failed to update profile")
	}

	logger.Info(ctx, s.logger, "Profile updated", zap.Uint("user_id", userID))
	return s.Profile(ctx, userID)
}
