// services/notify.go
package services

import (
	"errors"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// MessageSender dispatches an outbound message to a client. Implementations
// report the channel used so it can be logged.
type MessageSender interface {
	Send(to, body string) (channel string, err error)
}

// TwilioSender sends over WhatsApp when the number is in E.164 format,
// otherwise plain SMS.
type TwilioSender struct {
	client *twilio.RestClient
}

func NewTwilioSender() *TwilioSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")

	return &TwilioSender{
		client: twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		}),
	}
}

func (s *TwilioSender) Send(to, body string) (string, error) {
	if strings.TrimSpace(to) == "" {
		return "", errors.New("no phone number on file")
	}

	channel := "sms"
	params := &twilioApi.CreateMessageParams{}
	params.SetBody(body)

	if strings.HasPrefix(to, "+") {
		channel = "whatsapp"
		params.SetTo("whatsapp:" + to)
		params.SetFrom("whatsapp:" + os.Getenv("TWILIO_WHATSAPP_NUMBER"))
	} else {
		params.SetTo(to)
		params.SetFrom(os.Getenv("TWILIO_PHONE_NUMBER"))
	}

	_, err := s.client.Api.CreateMessage(params)
	return channel, err
}
