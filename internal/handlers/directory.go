package handlers

import (
	"net/http"

	"github.com/oapi-codegen/runtime"
)

// FindAccountNumber handles GET /api/v1/directory/search
func (h *Handler) FindAccountNumber(w http.ResponseWriter, r *http.Request) {
	var firstName, lastName, email string
	query := r.URL.Query()
	params := []struct {
		dest *string
		name string
	}{
		{&firstName, "first_name"},
		{&lastName, "last_name"},
		{&email, "email"},
	}
	for _, p := range params {
		if err := runtime.BindQueryParameter("form", true, true, p.name, query, p.dest); err != nil {
			writeError(w, ErrCodeInvalidRequest, "invalid format for parameter "+p.name+": "+err.Error())
			return
		}
	}

	accountNumber, found, err := h.directory.FindAccountNumber(r.Context(), firstName, lastName, email)
	if err != nil {
		h.writeServiceError(w, "directory search", err)
		return
	}
	if !found {
		writeError(w, ErrCodeNotFound, "no account matches that name and email")
		return
	}

	writeJSON(w, http.StatusOK, directoryMatchResponse{AccountNumber: accountNumber})
}

// FindIdentity handles GET /api/v1/directory/accounts/{accountNumber}
func (h *Handler) FindIdentity(w http.ResponseWriter, r *http.Request) {
	accountNumber, err := bindAccountNumber(r)
	if err != nil {
		writeError(w, ErrCodeInvalidRequest, err.Error())
		return
	}

	owner, found, err := h.directory.FindIdentity(r.Context(), accountNumber)
	if err != nil {
		h.writeServiceError(w, "directory lookup", err)
		return
	}
	if !found {
		writeError(w, ErrCodeNotFound, "account not found")
		return
	}

	writeJSON(w, http.StatusOK, ownerNameResponse{FirstName: owner.FirstName, LastName: owner.LastName})
}
