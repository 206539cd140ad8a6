package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusworks/userbase/internal/api/metrics"
	"github.com/nimbusworks/userbase/internal/core/domain"
	"github.com/nimbusworks/userbase/internal/core/ports"
	"github.com/nimbusworks/userbase/internal/infrastructure/storage"
)

// ImageStore abstracts where uploaded profile images are persisted.
type ImageStore interface {
	Save(userID, filename string, r io.Reader) (string, error)
}

// UserHandler handles HTTP requests for user-management operations.
type UserHandler struct {
	service ports.UserService
	images  ImageStore
}

func NewUserHandler(service ports.UserService, images ImageStore) *UserHandler {
	return &UserHandler{service: service, images: images}
}

type createUserRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type updateUserRequest struct {
	Name  string `json:"name"  form:"name"`
	Email string `json:"email" form:"email"`
}

type uploadResponse struct {
	Message  string            `json:"message"`
	ImageURL string            `json:"imageUrl"`
	User     domain.PublicUser `json:"user"`
}

// Create handles POST /users (admin only).
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "New user details"
// @Success      201   {object}  domain.PublicUser
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req createUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, err := h.service.Create(c.Request().Context(), ports.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		return err
	}

	return c.JSON(http.StatusCreated, user.Public())
}

// List handles GET /users (admin only), newest first.
//
// @Summary      List all users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.PublicUser
// @Failure      403  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}

	out := make([]domain.PublicUser, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return c.JSON(http.StatusOK, out)
}

// Get handles GET /users/:id (self or admin).
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.PublicUser
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), callerOf(caller), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to access this profile"})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, user.Public())
}

// Update handles PUT /users/:id (self or admin). Fields are independently
// optional; an attached profileImage file replaces the image reference.
//
// @Summary      Update a user
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.PublicUser
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.update(c, caller, c.Param("id"))
}

// Delete handles DELETE /users/:id (admin only).
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

// Profile handles GET /users/profile for the authenticated caller.
//
// @Summary      Get own profile
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      404  {object}  map[string]string
// @Router       /users/profile [get]
func (h *UserHandler) Profile(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	user, err := h.service.Get(c.Request().Context(), callerOf(caller), caller.ID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return err
	}

	return c.JSON(http.StatusOK, user.Public())
}

// UpdateProfile handles PUT /users/profile for the authenticated caller.
//
// @Summary      Update own profile
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PublicUser
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/profile [put]
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}
	return h.update(c, caller, caller.ID)
}

// UploadProfile handles POST /users/upload-profile. The write bypasses
// profile field validation: only the image reference changes.
//
// @Summary      Upload a profile image
// @Tags         users
// @Accept       mpfd
// @Produce      json
// @Security     BearerAuth
// @Param        profileImage  formData  file  true  "Image file"
// @Success      200  {object}  uploadResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /users/upload-profile [post]
func (h *UserHandler) UploadProfile(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	fh, err := c.FormFile("profileImage")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Profile image file is required"})
	}

	ref, err := h.saveImage(caller.ID, fh)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unsupported image type"})
		}
		return err
	}

	user, err := h.service.SetProfileImage(c.Request().Context(), caller.ID, ref)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		return err
	}

	metrics.ProfileUploadsTotal.Inc()

	return c.JSON(http.StatusOK, uploadResponse{
		Message:  "Profile image uploaded successfully",
		ImageURL: user.ProfileImage,
		User:     user.Public(),
	})
}

func (h *UserHandler) update(c echo.Context, caller *domain.User, id string) error {
	var req updateUserRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	in := ports.UpdateUserInput{Name: req.Name, Email: req.Email}

	// Optional image attachment, as on the dedicated upload route.
	if fh, err := c.FormFile("profileImage"); err == nil {
		ref, err := h.saveImage(id, fh)
		if err != nil {
			if errors.Is(err, storage.ErrUnsupportedImage) {
				return c.JSON(http.StatusBadRequest, map[string]string{"message": "Unsupported image type"})
			}
			return err
		}
		in.ProfileImage = ref
	}

	user, err := h.service.Update(c.Request().Context(), callerOf(caller), id, in)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return c.JSON(http.StatusForbidden, map[string]string{"message": "Not authorized to update this profile"})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"message": "User not found"})
		}
		if errors.Is(err, domain.ErrUserExists) {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "User already exists"})
		}
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error()})
		}
		return err
	}

	return c.JSON(http.StatusOK, user.Public())
}

func (h *UserHandler) saveImage(userID string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	return h.images.Save(userID, fh.Filename, f)
}
