package handler

// loginRequest accepts either the email or the username as loginId.
type loginRequest struct {
	LoginID  string `json:"loginId"  form:"loginId"  validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// registerRequest documents the registration payload. The handler decodes
// the body loosely so that non-textual fields reach the credential rules.
type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type formResponse struct {
	Action string   `json:"action"`
	Method string   `json:"method"`
	Fields []string `json:"fields"`
}

type profileResponse struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type errorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
