package reportapi

import (
	"encoding/json"
	"net/http"
)

// configUpdate carries a partial recipient update; nil fields are left
// untouched.
type configUpdate struct {
	Email    *string `json:"email"`
	WhatsApp *string `json:"whatsapp"`
}

func (a *API) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.svc.Recipients(r.Context()))
}

func (a *API) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var upd configUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
		return
	}

	rcpt, err := a.svc.UpdateRecipients(r.Context(), upd.Email, upd.WhatsApp)
	if err != nil {
		a.logger.Error(r.Context(), err, "failed to update recipient config")
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rcpt)
}
