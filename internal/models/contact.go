package models

// ContactRequest is a contact-form submission. Name and Email are
// optional; Message must be non-blank.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// ContactResponse is the envelope returned by the forward handler.
type ContactResponse struct {
	OK    bool   `json:"ok"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error,omitempty"`
}
