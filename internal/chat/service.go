package chat

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meetup/backend/internal/models"
	"meetup/backend/internal/repository"
)

const (
	DefaultMessageMaxLength = 2000
	// DMMaxLength bounds direct message bodies regardless of configuration.
	DMMaxLength = 2000
)

// Repositories groups the stores the service reads and writes.
type Repositories struct {
	Rooms        repository.RoomRepository
	Messages     repository.MessageRepository
	Participants repository.ParticipantRepository
	Users        repository.UserRepository
}

// Service implements the chat operations. Every entry point authorizes
// through the Authorizer before touching messages.
type Service struct {
	authz            *Authorizer
	names            *Assigner
	repos            Repositories
	messageMaxLength int
	now              func() time.Time
}

func NewService(authz *Authorizer, names *Assigner, repos Repositories, messageMaxLength int) *Service {
	if messageMaxLength <= 0 {
		messageMaxLength = DefaultMessageMaxLength
	}
	return &Service{
		authz:            authz,
		names:            names,
		repos:            repos,
		messageMaxLength: messageMaxLength,
		now:              time.Now,
	}
}

// maxBodyLength caps DM bodies at DMMaxLength whatever the configured limit.
func (s *Service) maxBodyLength(kind models.RoomKind) int {
	if kind == models.RoomKindDM {
		return min(s.messageMaxLength, DMMaxLength)
	}
	return s.messageMaxLength
}

func validateBody(body string, maxLength int) error {
	if strings.TrimSpace(body) == "" {
		return badRequest("message", "message must not be empty")
	}
	if utf8.RuneCountInString(body) > maxLength {
		return badRequest("message", fmt.Sprintf("message must be at most %d characters", maxLength))
	}
	return nil
}

// pseudonyms returns the PRE_JOIN name bindings of the room, or nil for other kinds.
func (s *Service) pseudonyms(ctx context.Context, rc *RoomContext) (map[uint]string, error) {
	if rc.Kind != models.RoomKindPreJoin {
		return nil, nil
	}
	names, err := s.repos.Participants.NamesByUser(ctx, rc.RoomID)
	if err != nil {
		return nil, fmt.Errorf("load anonymous names: %w", err)
	}
	return names, nil
}
