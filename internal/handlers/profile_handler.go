package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"PROFILES_BACK-END/internal/dto"
	"PROFILES_BACK-END/internal/models"
	"PROFILES_BACK-END/internal/storage"
	"PROFILES_BACK-END/internal/utils"
)

// ProfileHandler serves /api/profiles.
type ProfileHandler struct {
	repo   *storage.Repository
	logger *zap.Logger
}

func NewProfileHandler(repo *storage.Repository, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{repo: repo, logger: logger}
}

// List godoc
// @Summary      List profiles
// @Description  Returns every stored profile
// @Tags         profiles
// @Produce      json
// @Success      200  {object}  dto.ProfileListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/profiles/ [get]
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.repo.List(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ProfileListResponse{Success: true, Data: profiles})
}

// Get godoc
// @Summary      Get profile
// @Description  Returns the profile with the given id
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		h.writeError(w, r, models.ErrNotFound)
		return
	}

	profile, err := h.repo.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ProfileResponse{Success: true, Data: profile})
}

// Create godoc
// @Summary      Create profile
// @Description  firstname, lastname and email are required; email must be unused. Extra fields are stored as sent.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        payload  body      dto.ProfileCreateRequest  true  "Profile payload"
// @Success      201      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      413      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/profiles/ [post]
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, err := utils.DecodeJSONObject(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	profile, err := h.repo.Create(r.Context(), fields)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("profile created", zap.Int64("id", profile.ID))
	utils.WriteJSONResponse(w, http.StatusCreated, dto.ProfileResponse{Success: true, Data: profile})
}

// Update godoc
// @Summary      Update profile
// @Description  Shallow-merges the body over the stored profile. The id cannot be changed.
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Param        id       path      int                       true  "Profile ID"
// @Param        payload  body      dto.ProfileUpdateRequest  true  "Fields to change"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      404      {object}  dto.ErrorResponse
// @Failure      413      {object}  dto.ErrorResponse
// @Failure      500      {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [put]
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		h.writeError(w, r, models.ErrNotFound)
		return
	}

	patch, err := utils.DecodeJSONObject(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}

	profile, err := h.repo.Update(r.Context(), id, patch)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, dto.ProfileResponse{Success: true, Data: profile})
}

// Delete godoc
// @Summary      Delete profile
// @Tags         profiles
// @Produce      json
// @Param        id   path      int  true  "Profile ID"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [delete]
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := profileID(r)
	if !ok {
		h.writeError(w, r, models.ErrNotFound)
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.logger.Info("profile deleted", zap.Int64("id", id))
	utils.WriteJSONResponse(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Profile deleted successfully",
	})
}

func writeDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.WriteErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}
	utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
}

// writeError maps repository errors to status codes. 500s carry the
// underlying error text.
func (h *ProfileHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteErrorResponse(w, http.StatusBadRequest, vErr.Message)
	case errors.Is(err, models.ErrNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, models.ErrNotFound.Error())
	default:
		h.logger.Error("profile request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, err.Error())
	}
}

// profileID reads the leading integer of the {id} path parameter, so
// "12abc" and "12.5" both address profile 12. A parameter that does not
// start with digits cannot match a stored profile.
func profileID(r *http.Request) (int64, bool) {
	return leadingInt(chi.URLParam(r, "id"))
}

func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	id, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
