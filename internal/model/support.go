package model

// SupportRequest is forwarded by mail to the support address
type SupportRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Message string `json:"message" validate:"required,max=10000"`
}

// GlitchtipReport is an error report sent by the web client
type GlitchtipReport struct {
	Message   string            `json:"message" validate:"required"`
	Exception string            `json:"exception,omitempty"`
	URL       string            `json:"url,omitempty"`
	UserAgent string            `json:"user_agent,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}
