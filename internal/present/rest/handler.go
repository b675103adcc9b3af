package rest

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/totegamma/saucebox/internal/domain"
	"github.com/totegamma/saucebox/internal/present/rest/middleware"
	"github.com/totegamma/saucebox/internal/present/rest/presenter"
	"github.com/totegamma/saucebox/internal/usecase"
)

// EventStream delivers sauce events to realtime subscribers.
type EventStream interface {
	Realtime(ctx context.Context, output chan<- domain.Event)
}

type Handler struct {
	sauce    *usecase.SauceUsecase
	user     *usecase.UserUsecase
	stream   EventStream
	imageDir string
}

func NewHandler(
	sauce *usecase.SauceUsecase,
	user *usecase.UserUsecase,
	stream EventStream,
	imageDir string,
) *Handler {
	return &Handler{
		sauce:    sauce,
		user:     user,
		stream:   stream,
		imageDir: imageDir,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, auth *middleware.AuthMiddleware) {
	e.Static(strings.TrimSuffix(domain.ImagePathPrefix, "/"), h.imageDir)

	api := e.Group("/api")
	api.POST("/auth/signup", h.handleSignup)
	api.POST("/auth/login", h.handleLogin)

	sauces := api.Group("/sauces", auth.RequireAuth)
	sauces.GET("", h.handleList)
	sauces.POST("", h.handleCreate)
	sauces.GET("/realtime", h.handleRealtime)
	sauces.GET("/:id", h.handleGet)
	sauces.PUT("/:id", h.handleUpdate)
	sauces.DELETE("/:id", h.handleDelete)
	sauces.POST("/:id/like", h.handleVote)
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleSignup(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentials
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	_, err = h.user.Signup(ctx, req.Email, req.Password)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Message(c, http.StatusCreated, "user created", nil)
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req credentials
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	session, err := h.user.Login(ctx, req.Email, req.Password)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, session)
}

func (h *Handler) handleList(c echo.Context) error {
	ctx := c.Request().Context()

	sauces, err := h.sauce.List(ctx)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, sauces)
}

func (h *Handler) handleGet(c echo.Context) error {
	ctx := c.Request().Context()

	sauce, err := h.sauce.Get(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, sauce)
}

func (h *Handler) handleCreate(c echo.Context) error {
	ctx := c.Request().Context()

	var payload domain.SaucePayload
	err := decodeSaucePart(c, &payload)
	if err != nil {
		return presenter.BadRequest(c, err)
	}

	file, err := c.FormFile("image")
	if err != nil {
		return presenter.BadRequestMessage(c, "image is required")
	}
	src, err := file.Open()
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	defer src.Close()

	sauce, err := h.sauce.Create(ctx, usecase.CreateInput{
		RequesterID: middleware.RequesterID(c),
		Origin:      origin(c),
		Payload:     payload,
		Image:       usecase.ImageUpload{Name: file.Filename, Reader: src},
	})
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Message(c, http.StatusCreated, "sauce saved", sauce)
}

// handleUpdate accepts either a JSON body or a multipart form with a sauce
// part and an optional replacement image. The image URL only changes through
// an upload.
func (h *Handler) handleUpdate(c echo.Context) error {
	ctx := c.Request().Context()

	input := usecase.UpdateInput{Origin: origin(c)}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		err := decodeSaucePart(c, &input.Payload)
		if err != nil {
			return presenter.BadRequest(c, err)
		}

		file, err := c.FormFile("image")
		if err != nil && !errors.Is(err, http.ErrMissingFile) {
			return presenter.BadRequest(c, err)
		}
		if file != nil {
			src, err := file.Open()
			if err != nil {
				return presenter.BadRequest(c, err)
			}
			defer src.Close()
			input.Image = &usecase.ImageUpload{Name: file.Filename, Reader: src}
		}
	} else {
		err := c.Bind(&input.Payload)
		if err != nil {
			return presenter.BadRequest(c, err)
		}
	}
	if input.Payload.UserID != "" && input.Payload.UserID != middleware.RequesterID(c) {
		return presenter.Unauthorized(c)
	}

	sauce, err := h.sauce.Update(ctx, c.Param("id"), input)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Message(c, http.StatusOK, "sauce updated", sauce)
}

func (h *Handler) handleDelete(c echo.Context) error {
	ctx := c.Request().Context()

	err := h.sauce.Delete(ctx, c.Param("id"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Message(c, http.StatusOK, "sauce deleted", nil)
}

type voteRequest struct {
	UserID string `json:"userId"`
	Like   *int   `json:"like"`
}

func (h *Handler) handleVote(c echo.Context) error {
	ctx := c.Request().Context()

	var req voteRequest
	err := c.Bind(&req)
	if err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Like == nil {
		return presenter.BadRequestMessage(c, "like is required")
	}

	vote, err := domain.ParseVote(*req.Like)
	if err != nil {
		return presenter.Error(c, err)
	}

	userID := middleware.RequesterID(c)
	if req.UserID != "" && req.UserID != userID {
		return presenter.Unauthorized(c)
	}

	sauce, outcome, err := h.sauce.Vote(ctx, c.Param("id"), userID, vote)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Message(c, http.StatusOK, outcome.String(), sauce)
}

func decodeSaucePart(c echo.Context, target any) error {
	raw := c.FormValue("sauce")
	if raw == "" {
		return errors.New("sauce is required")
	}
	return json.Unmarshal([]byte(raw), target)
}

func origin(c echo.Context) string {
	return c.Scheme() + "://" + c.Request().Host
}
