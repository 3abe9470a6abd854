package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const defaultCountryCode = "66"

// WahaService sends WhatsApp messages through a WAHA gateway
type WahaService struct {
	baseURL     string
	apiKey      string
	session     string
	countryCode string
	client      *http.Client
}

func NewWahaService() *WahaService {
	url := os.Getenv("WAHA_BASE_URL")
	if url == "" {
		url = "http://waha:3000"
	}
	session := os.Getenv("WAHA_SESSION")
	if session == "" {
		session = "default"
	}
	code := os.Getenv("WAHA_DEFAULT_COUNTRY_CODE")
	if code == "" {
		code = defaultCountryCode
	}
	return &WahaService{
		baseURL:     strings.TrimSuffix(url, "/"),
		apiKey:      os.Getenv("WAHA_API_KEY"),
		session:     session,
		countryCode: code,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *WahaService) post(endpoint string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("X-Api-Key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// NormalizeChatID turns a phone number into a WAHA chat id. Local numbers
// starting with 0 get countryCode in place of the leading zero; group ids
// pass through.
func NormalizeChatID(chatId, countryCode string) string {
	chatId = strings.TrimSpace(chatId)
	if strings.HasSuffix(chatId, "@g.us") {
		return chatId
	}

	chatId = strings.TrimSuffix(chatId, "@c.us")
	chatId = strings.NewReplacer(" ", "", "-", "", "+", "").Replace(chatId)

	if strings.HasPrefix(chatId, "0") {
		chatId = countryCode + strings.TrimPrefix(chatId, "0")
	}
	return chatId + "@c.us"
}

// SendMessage sends text to the chat identified by chatId
func (s *WahaService) SendMessage(chatId, text string) error {
	chatId = NormalizeChatID(chatId, s.countryCode)
	if err := s.post("/api/sendText", map[string]string{
		"chatId":  chatId,
		"text":    text,
		"session": s.session,
	}); err != nil {
		return fmt.Errorf("failed to send text: %w", err)
	}
	return nil
}
