package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/artshop/internal/apperr"
	"github.com/Skotchmaster/artshop/internal/domain"
	"github.com/Skotchmaster/artshop/internal/events"
	"github.com/Skotchmaster/artshop/internal/images"
	"github.com/Skotchmaster/artshop/internal/models"
	"github.com/Skotchmaster/artshop/internal/repo"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/internal/validation"
	"github.com/Skotchmaster/artshop/pkg/hash"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

const invalidCredentials = "invalid account or password"

type UserService struct {
	Repo      repo.Repo
	Tokens    *TokenService
	Validator *validation.Validator
	Images    images.Store
	MaxUpload int64
	Events    events.Publisher
}

func (s *UserService) Register(ctx context.Context, req transport.RegisterRequest) (*models.User, error) {
	return s.RegisterWithRole(ctx, req, models.RoleUser)
}

func (s *UserService) RegisterWithRole(ctx context.Context, req transport.RegisterRequest, role string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.register", "account", req.Account)

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.Validator.Validate(req); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("register_failed", "reason", "cannot hash the password", "error", err)
		return nil, apperr.Wrap(apperr.Unknown, "", err)
	}

	name := req.Name
	if name == "" {
		name = req.Account
	}
	u := &models.User{
		Account:  req.Account,
		Email:    req.Email,
		Password: pwHash,
		Name:     name,
		Role:     role,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{Type: "user_registered", UserID: u.ID})
	return u, nil
}

// Login checks the password and opens a new session. Unknown accounts and
// wrong passwords fail the same way.
func (s *UserService) Login(ctx context.Context, req transport.LoginRequest) (*transport.LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "users.login", "account", req.Account)

	if err := s.Validator.Validate(req); err != nil {
		return nil, apperr.Unauth(apperr.InvalidCredentials, "account and password are required", err)
	}

	u, err := s.Repo.UserByAccount(ctx, req.Account)
	if err != nil {
		if apperr.KindOf(err) == apperr.NotFound {
			return nil, apperr.Unauth(apperr.InvalidCredentials, invalidCredentials, nil)
		}
		return nil, err
	}
	if !hash.CheckPassword(u.Password, req.Password) {
		return nil, apperr.Unauth(apperr.InvalidCredentials, invalidCredentials, nil)
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		l.Error("login_failed", "reason", "cannot sign token", "error", err)
		return nil, apperr.Wrap(apperr.Unknown, "", err)
	}

	list := domain.NewTokens(u.Tokens)
	list.Push(token)
	u.Tokens = list.Values()
	if err := s.Repo.SaveUser(ctx, u); err != nil {
		l.Error("login_failed", "reason", "cannot save user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, u.ID, events.Event{Type: "user_logged_in", UserID: u.ID})
	return &transport.LoginResult{Token: token, Profile: Profile(u)}, nil
}

func Profile(u *models.User) transport.Profile {
	return transport.Profile{
		Account: u.Account,
		Email:   u.Email,
		Role:    u.Role,
		Name:    u.Name,
		Avatar:  u.Avatar,
		Cart:    domain.TotalQuantity(u.Cart),
		Likes:   len(u.Likes),
	}
}

func (s *UserService) Logout(ctx context.Context, u *models.User, token string) error {
	return s.Tokens.Revoke(ctx, u, token)
}

func (s *UserService) Extend(ctx context.Context, u *models.User, token string) (string, error) {
	return s.Tokens.Extend(ctx, u, token)
}

// EditProfile updates name, email and, when avatar is set, the avatar image.
func (s *UserService) EditProfile(ctx context.Context, u *models.User, req transport.EditProfileRequest, avatar *images.Upload) error {
	l := logging.FromContext(ctx).With("svc", "users.edit", "user_id", u.ID)

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if err := s.Validator.Validate(req); err != nil {
		return err
	}

	update := repo.ProfileUpdate{Name: req.Name, Email: req.Email, Avatar: u.Avatar}
	if update.Name == "" {
		update.Name = u.Name
	}
	if avatar != nil {
		url, err := saveImage(ctx, s.Images, *avatar, s.MaxUpload)
		if err != nil {
			if apperr.KindOf(err) != apperr.Validation {
				l.Error("edit_failed", "reason", "cannot store avatar", "error", err)
			}
			return err
		}
		update.Avatar = url
	}

	if err := s.Repo.UpdateProfile(ctx, u.ID, update); err != nil {
		return err
	}
	u.Name, u.Email, u.Avatar = update.Name, update.Email, update.Avatar
	return nil
}
