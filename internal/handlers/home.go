package handlers

import "net/http"

// Home handles GET /
// Администратор попадает в список персонажей, остальные видят приветствие.
func (h *Responder) Home(w http.ResponseWriter, r *http.Request) {
	u := actor(r)
	if u == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if u.IsAdmin {
		http.Redirect(w, r, charactersPath, http.StatusSeeOther)
		return
	}
	h.render(w, r, http.StatusOK, "home", "Campaign", nil, nil)
}
