package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vidtube/backend/internal/domain"
	"github.com/vidtube/backend/internal/logging"
)

const refreshMismatch = "refresh token mismatch or expired"

type AuthUsecase struct {
	userRepo  domain.UserRepository
	tokenRepo domain.RefreshTokenRepository
	tokens    *TokenService
	media     *mediaUploader
	logger    *slog.Logger
}

func NewAuthUsecase(userRepo domain.UserRepository, tokenRepo domain.RefreshTokenRepository, tokens *TokenService, media domain.MediaStore, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		media:     newMediaUploader(media, logger),
		logger:    logging.WithComponent(logger, "auth"),
	}
}

type RegisterInput struct {
	FullName   string
	Email      string
	Username   string
	Password   string
	Avatar     *domain.MediaFile
	CoverImage *domain.MediaFile
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	if in.FullName == "" || in.Email == "" || in.Username == "" || strings.TrimSpace(in.Password) == "" {
		return nil, domain.BadRequest("all fields are required")
	}

	existing, err := u.userRepo.GetByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		return nil, domain.Internal("failed to look up user", err)
	}
	if existing != nil {
		return nil, domain.Conflict("user with email or username already exists")
	}

	if in.Avatar == nil {
		return nil, domain.BadRequest("avatar file is required")
	}
	avatar, err := u.media.upload(ctx, in.Avatar, "avatar")
	if err != nil {
		return nil, err
	}

	var cover *domain.UploadedMedia
	if in.CoverImage != nil {
		cover, err = u.media.upload(ctx, in.CoverImage, "cover image")
		if err != nil {
			logging.WithContext(ctx, u.logger).Warn("cover image upload failed, continuing without it", "error", err)
			cover = nil
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		u.media.rollback(ctx, avatar, cover)
		return nil, domain.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		Avatar:       avatar.SecureURL,
		AvatarID:     avatar.PublicID,
		PasswordHash: string(hashed),
	}
	if cover != nil {
		user.CoverImage = cover.SecureURL
		user.CoverImageID = cover.PublicID
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		u.media.rollback(ctx, avatar, cover)
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.Conflict("user with email or username already exists")
		}
		return nil, domain.Internal("failed to register user", err)
	}

	return user.Sanitized(), nil
}

type LoginInput struct {
	Username string
	Email    string
	Password string
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (*domain.User, *TokenPair, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" && email == "" {
		return nil, nil, domain.BadRequest("username or email is required")
	}
	if in.Password == "" {
		return nil, nil, domain.BadRequest("password is required")
	}

	user, err := u.userRepo.GetByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, nil, domain.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, nil, domain.NotFound("user does not exist")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, domain.Unauthorized("invalid user credentials")
	}

	pair, err := u.tokens.IssuePair(user)
	if err != nil {
		return nil, nil, domain.Internal("failed to generate tokens", err)
	}
	if err := u.tokenRepo.Store(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, nil, domain.Internal("failed to store refresh token", err)
	}

	return user.Sanitized(), pair, nil
}

// Refresh exchanges the live refresh token for a new pair. The presented token
// stops being valid once this returns successfully.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, domain.Unauthorized("unauthorized request")
	}

	claims, err := u.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, domain.Unauthorized("invalid refresh token")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.Internal("failed to look up user", err)
	}
	if user == nil {
		return nil, domain.Unauthorized("invalid refresh token")
	}
	if subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return nil, domain.Unauthorized(refreshMismatch)
	}

	pair, err := u.tokens.IssuePair(user)
	if err != nil {
		return nil, domain.Internal("failed to generate tokens", err)
	}
	rotated, err := u.tokenRepo.Rotate(ctx, user.ID, refreshToken, pair.RefreshToken)
	if err != nil {
		return nil, domain.Internal("failed to store refresh token", err)
	}
	if !rotated {
		// A concurrent refresh or logout won the swap.
		return nil, domain.Unauthorized(refreshMismatch)
	}
	return pair, nil
}

// Logout clears the stored refresh token. Calling it again is a no-op.
func (u *AuthUsecase) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := u.tokenRepo.Clear(ctx, userID); err != nil {
		return domain.Internal("failed to log out", err)
	}
	return nil
}

// ChangePassword re-hashes the password. Outstanding refresh tokens stay live.
func (u *AuthUsecase) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	if oldPassword == "" || strings.TrimSpace(newPassword) == "" {
		return domain.BadRequest("old and new password are required")
	}

	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return domain.Internal("failed to look up user", err)
	}
	if user == nil {
		return domain.NotFound("user not found")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return domain.Unauthorized("invalid old password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return domain.Internal("failed to hash password", err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, string(hashed)); err != nil {
		return domain.Internal("failed to update password", err)
	}
	return nil
}

// Identify resolves an access token to the sanitized user it was issued for.
func (u *AuthUsecase) Identify(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := u.tokens.VerifyAccessToken(accessToken)
	if err != nil {
		return nil, domain.Unauthorized("invalid access token")
	}
	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.Internal("failed to load user", err)
	}
	if user == nil {
		return nil, domain.Unauthorized("invalid token")
	}
	return user.Sanitized(), nil
}
