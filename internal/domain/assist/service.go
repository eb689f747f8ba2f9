package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/carevault/carevault/internal/platform/ai"
)

const maxMessageLength = 4000

var ErrInvalidMessage = errors.New("invalid message")

type Service struct {
	client ai.Client
}

func NewService(client ai.Client) *Service {
	return &Service{client: client}
}

// Reply answers a health question in the context of the running
// conversation. The assistant never sees account data beyond what the
// caller puts in the transcript.
func (s *Service) Reply(ctx context.Context, message string, history []ai.ChatMessage) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", ErrInvalidMessage)
	}
	if len(message) > maxMessageLength {
		return "", fmt.Errorf("%w: message exceeds %d characters", ErrInvalidMessage, maxMessageLength)
	}
	return s.client.Chat(ctx, message, history)
}
