package integration

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnsupportedServiceType = errors.New("unsupported integration service type")
	ErrInvalidCredentials     = errors.New("credentials do not match the service type")
)

var validate = validator.New()

// Per-type credential shapes. Extra keys in the payload are tolerated;
// the required fields of each type must be present and non-empty.

type googleCalendarCredentials struct {
	AccessToken  string `json:"access_token" validate:"required"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in" validate:"required"`
	CalendarID   string `json:"calendar_id"`
	TokenType    string `json:"token_type"`
}

type whatsAppCredentials struct {
	PhoneNumberID string `json:"phone_number_id" validate:"required"`
	AccessToken   string `json:"access_token" validate:"required"`
	WebhookURL    string `json:"webhook_url" validate:"omitempty,url"`
	WebhookToken  string `json:"webhook_token"`
}

type telegramCredentials struct {
	BotToken   string `json:"bot_token" validate:"required"`
	ChatID     string `json:"chat_id"`
	WebhookURL string `json:"webhook_url" validate:"omitempty,url"`
}

type outlookCredentials struct {
	AccessToken string `json:"access_token" validate:"required"`
}

// validateCredentials checks that the stored-opaque payload carries the
// fields the service type needs.
func validateCredentials(serviceType ServiceType, raw json.RawMessage) error {
	var shape any

	switch serviceType {
	case ServiceGoogleCalendar:
		shape = &googleCalendarCredentials{}
	case ServiceWhatsApp:
		shape = &whatsAppCredentials{}
	case ServiceTelegram:
		shape = &telegramCredentials{}
	case ServiceOutlook:
		shape = &outlookCredentials{}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedServiceType, serviceType)
	}

	if err := json.Unmarshal(raw, shape); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}
	if err := validate.Struct(shape); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	return nil
}
