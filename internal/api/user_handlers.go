package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Pocket-Impact/pocketImpact-backend/internal/middleware"
	"github.com/Pocket-Impact/pocketImpact-backend/internal/services"
)

func (rt *Router) handleInviteUser(w http.ResponseWriter, r *http.Request) {
	var req inviteUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	user, err := rt.users.Invite(r.Context(), organisationScope(r), services.InviteInput{
		FullName:    req.FullName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondCreated(w, "User added to the organisation", user)
}

func (rt *Router) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := rt.users.List(r.Context(), organisationScope(r))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "Users fetched successfully", users)
}

func (rt *Router) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
		return
	}
	user, err := rt.users.Update(r.Context(), organisationScope(r), chi.URLParam(r, "id"), services.UpdateUserInput{
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		Role:        req.Role,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "User updated successfully", user)
}

func (rt *Router) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserIDFromContext(r.Context())
	if err := rt.users.Delete(r.Context(), organisationScope(r), chi.URLParam(r, "id"), uid); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, "User removed from the organisation", nil)
}
