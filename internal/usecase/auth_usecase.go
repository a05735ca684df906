package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 入力検証の約束（実装はvalidatorパッケージ）
type AuthValidator interface {
	ValidateRegister(ctx context.Context, name string, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID string, displayName string, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

type AuthUsecase struct {
	userRepo    repo.UserRepository
	sessionRepo repo.SessionRepository
	validator   AuthValidator
	issuer      AccessTokenIssuer
	clock       Clock
}

// DI
func NewAuthUsecase(
	userRepo repo.UserRepository,
	sessionRepo repo.SessionRepository,
	validator AuthValidator,
	issuer AccessTokenIssuer,
	clock Clock,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		validator:   validator,
		issuer:      issuer,
		clock:       clock,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

type AuthOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresIn   int        `json:"expires_in"`
}

// Register は会員登録。成功したらそのままログイン状態にする（元アプリと同じ）。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthOutput, error) {
	if err := u.validator.ValidateRegister(ctx, in.Name, in.Email, in.Password); err != nil {
		return AuthOutput{}, err
	}

	// パスワードは周辺アプリの設計どおり平文で保存する
	created, err := u.userRepo.Create(ctx, model.User{
		Email:       in.Email,
		DisplayName: in.Name,
		Password:    in.Password,
	})
	if err != nil {
		return AuthOutput{}, err
	}

	return u.startSession(ctx, created)
}

// Login はログイン。アカウント無しとパスワード不一致は別の失敗として返す。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthOutput, error) {
	if err := u.validator.ValidateLogin(ctx, in.Email, in.Password); err != nil {
		return AuthOutput{}, err
	}

	user, err := u.userRepo.FindByEmail(ctx, in.Email)
	if errors.Is(err, repo.ErrNotFound) {
		return AuthOutput{}, ErrAccountNotFound
	}
	if err != nil {
		return AuthOutput{}, err
	}

	//平文比較（設計どおり）
	if user.Password != in.Password {
		return AuthOutput{}, ErrWrongPassword
	}

	return u.startSession(ctx, user)
}

// Logout はセッションを消す。
func (u *AuthUsecase) Logout(ctx context.Context) error {
	return u.sessionRepo.Clear(ctx)
}

// CurrentUser はセッションのユーザーを返す。未ログインなら ErrNotAuthenticated。
func (u *AuthUsecase) CurrentUser(ctx context.Context) (UserOutput, error) {
	userID, err := u.sessionRepo.Current(ctx)
	if err != nil {
		return UserOutput{}, err
	}
	if userID == "" {
		return UserOutput{}, ErrNotAuthenticated
	}

	user, err := u.userRepo.FindByEmail(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return UserOutput{}, ErrNotAuthenticated
	}
	if err != nil {
		return UserOutput{}, err
	}
	return UserOutput{Email: user.Email, DisplayName: user.DisplayName}, nil
}

func (u *AuthUsecase) startSession(ctx context.Context, user model.User) (AuthOutput, error) {
	if err := u.sessionRepo.SetCurrent(ctx, user.Email); err != nil {
		return AuthOutput{}, err
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.Email, user.DisplayName, now)
	if err != nil {
		return AuthOutput{}, err
	}

	return AuthOutput{
		User:        UserOutput{Email: user.Email, DisplayName: user.DisplayName},
		AccessToken: token,
		ExpiresIn:   int(expiresAt.Sub(now).Seconds()),
	}, nil
}
