package httpx

import (
	"encoding/json"
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	var body []byte
	var err error
	if payload != nil {
		body, err = json.Marshal(payload)
		if err != nil {
			// best-effort error response; avoid writing partial JSON
			http.Error(w, `{"error":"encode_error"}`, http.StatusInternalServerError)
			return
		}
	} else {
		body = []byte("null")
	}
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		// nothing we can do at this point
		_ = err
	}
}

func JSONError(w http.ResponseWriter, status int, msg string, details any) {
	JSON(w, status, ErrorResponse{Error: msg, Details: details})
}

// NoticeRedirect sends the caller to target with a flash-style notice
// code in the query string. The journal and admin pages read the code
// back out and translate it for display.
func NoticeRedirect(w http.ResponseWriter, r *http.Request, target, notice string) {
	u := target
	if notice != "" {
		sep := "?"
		if containsQuery(target) {
			sep = "&"
		}
		u = target + sep + "notice=" + notice
	}
	http.Redirect(w, r, u, http.StatusSeeOther)
}

func containsQuery(target string) bool {
	for i := 0; i < len(target); i++ {
		if target[i] == '?' {
			return true
		}
	}
	return false
}
