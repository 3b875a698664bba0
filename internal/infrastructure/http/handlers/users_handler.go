package handlers

import (
	"net/http"

	"github.com/amirhosseinghanipour/iris/internal/application/account"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/middleware"
	"github.com/amirhosseinghanipour/iris/internal/infrastructure/http/respond"
)

// UsersHandler handles /users/*. Requires Authenticate.
type UsersHandler struct {
	me *account.Me
}

func NewUsersHandler(me *account.Me) *UsersHandler {
	return &UsersHandler{me: me}
}

// Me returns the caller's profile as currently stored.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.me.Execute(r.Context(), middleware.IdentityFromContext(r.Context()))
	if err != nil {
		respond.Err(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccountView(*profile))
}
