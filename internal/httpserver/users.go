package httpserver

import (
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/artshop/internal/middleware/auth"
	"github.com/Skotchmaster/artshop/internal/service"
	"github.com/Skotchmaster/artshop/internal/transport"
	"github.com/Skotchmaster/artshop/pkg/logging"
)

type UsersHTTP struct {
	Users *service.UserService
	Cart  *service.CartService
	Likes *service.LikesService
}

func (h *UsersHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "register_failed", invalidBody(err))
	}

	u, err := h.Users.Register(ctx, req)
	if err != nil {
		return fail(l, "register_failed", err)
	}

	l.Info("register_success", "user_id", u.ID)
	return ok(c, nil)
}

func (h *UsersHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "login_failed", invalidBody(err))
	}

	res, err := h.Users.Login(ctx, req)
	if err != nil {
		return fail(l, "login_failed", err)
	}

	l.Info("login_success", "account", res.Account)
	return ok(c, res)
}

func (h *UsersHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.logout")

	if err := h.Users.Logout(ctx, auth.CurrentUser(c), auth.CurrentToken(c)); err != nil {
		return fail(l, "logout_failed", err)
	}
	return ok(c, nil)
}

func (h *UsersHTTP) Extend(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.extend")

	token, err := h.Users.Extend(ctx, auth.CurrentUser(c), auth.CurrentToken(c))
	if err != nil {
		return fail(l, "extend_failed", err)
	}
	return ok(c, token)
}

func (h *UsersHTTP) Me(c echo.Context) error {
	return ok(c, service.Profile(auth.CurrentUser(c)))
}

func (h *UsersHTTP) Edit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.edit")

	var req transport.EditProfileRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "edit_user_failed", invalidBody(err))
	}

	avatar, closer, err := formUpload(c, "image")
	if err != nil {
		return fail(l, "edit_user_failed", err)
	}
	defer closeUpload(closer)

	if err := h.Users.EditProfile(ctx, auth.CurrentUser(c), req, avatar); err != nil {
		return fail(l, "edit_user_failed", err)
	}
	return ok(c, nil)
}

func (h *UsersHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_cart")

	lines, err := h.Cart.Get(ctx, auth.CurrentUser(c))
	if err != nil {
		return fail(l, "get_cart_failed", err)
	}
	return ok(c, lines)
}

func (h *UsersHTTP) EditCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.edit_cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "cart_edit_failed", invalidBody(err))
	}

	total, err := h.Cart.Edit(ctx, auth.CurrentUser(c), req)
	if err != nil {
		return fail(l, "cart_edit_failed", err)
	}
	return ok(c, total)
}

func (h *UsersHTTP) GetLikes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.get_likes")

	items, err := h.Likes.List(ctx, auth.CurrentUser(c))
	if err != nil {
		return fail(l, "get_likes_failed", err)
	}
	return ok(c, items)
}

func (h *UsersHTTP) EditLikes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "users.edit_likes")

	var req transport.LikeRequest
	if err := c.Bind(&req); err != nil {
		return fail(l, "edit_likes_failed", invalidBody(err))
	}

	liked, err := h.Likes.Toggle(ctx, auth.CurrentUser(c), c.Param("pid"), req.Likes)
	if err != nil {
		return fail(l, "edit_likes_failed", err)
	}
	return ok(c, liked)
}
