package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"flexbo-edge/internal/models"
)

// MailService delivers contact-form submissions through the Resend HTTP
// API. Constructed once at startup and passed to the handler that needs
// it; lifecycle is the process lifetime.
type MailService struct {
	apiKey  string
	baseURL string
	from    string
	to      []string
	client  *http.Client
	log     zerolog.Logger
	devMode bool
}

func NewMailService(apiKey, baseURL, from string, to []string, log zerolog.Logger) *MailService {
	devMode := apiKey == ""
	if devMode {
		log.Warn().Msg("mail service running in DEV MODE (logging to console)")
	}
	return &MailService{
		apiKey:  apiKey,
		baseURL: baseURL,
		from:    from,
		to:      to,
		client:  &http.Client{Timeout: 10 * time.Second},
		log:     log,
		devMode: devMode,
	}
}

type sendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

type sendEmailResponse struct {
	ID   string `json:"id"`
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
	Message string `json:"message"`
}

// SendContactEmail dispatches one email per submission; there is no
// deduplication. Returns the provider's message id when available.
func (s *MailService) SendContactEmail(ctx context.Context, req models.ContactRequest) (string, error) {
	subject := fmt.Sprintf("New query from %s", req.Name)
	body := fmt.Sprintf("<p>%s</p><p>Reply-to: %s</p>",
		html.EscapeString(req.Message), html.EscapeString(req.Email))

	if s.devMode {
		s.log.Info().
			Str("to", fmt.Sprint(s.to)).
			Str("subject", subject).
			Str("reply_to", req.Email).
			Msg("[DEV EMAIL] contact submission")
		return "", nil
	}

	payload, err := json.Marshal(sendEmailRequest{
		From:    s.from,
		To:      s.to,
		Subject: subject,
		HTML:    body,
		ReplyTo: req.Email,
	})
	if err != nil {
		return "", fmt.Errorf("encode mail payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/emails", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build mail request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read mail response: %w", err)
	}

	var parsed sendEmailResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil {
			parsed = sendEmailResponse{}
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := parsed.Message
		if msg == "" {
			msg = fmt.Sprintf("mail provider returned %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%s", msg)
	}

	id := parsed.Data.ID
	if id == "" {
		id = parsed.ID
	}

	s.log.Info().Str("id", id).Str("subject", subject).Msg("contact email sent")
	return id, nil
}
