package usecase

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fadilmartias/hr-onboarding/internal/apperror"
	"github.com/fadilmartias/hr-onboarding/internal/dto"
	"github.com/fadilmartias/hr-onboarding/internal/model"
	"github.com/fadilmartias/hr-onboarding/internal/service"
)

const maxChatMessageLen = 2000

type ChatLogStore interface {
	Create(ctx context.Context, entry *model.ChatLog) error
}

// PendingSummarizer describes what is still open for the caller, if anything.
type PendingSummarizer interface {
	PendingSummary(ctx context.Context, ident dto.Identity) string
}

type ChatUsecase struct {
	chat    service.ChatServiceInterface
	logs    ChatLogStore
	pending PendingSummarizer
	logger  *log.Logger
}

func NewChatUsecase(chat service.ChatServiceInterface, logs ChatLogStore, pending PendingSummarizer) *ChatUsecase {
	return &ChatUsecase{
		chat:    chat,
		logs:    logs,
		pending: pending,
		logger:  log.New(os.Stdout, "[chat] ", log.LstdFlags),
	}
}

func (uc *ChatUsecase) Send(ctx context.Context, ident dto.Identity, message string) (*dto.ChatResponse, error) {
	const op = "chat.send"
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.Validation(op, "message cannot be empty")
	}
	if len(message) > maxChatMessageLen {
		return nil, apperror.Validation(op, fmt.Sprintf("message is longer than %d characters", maxChatMessageLen))
	}

	reply, err := uc.chat.Reply(ctx, message, uc.contextFor(ctx, ident))
	if err != nil {
		uc.logger.Printf("reply for user=%s via %s: %v", ident.UserID, uc.chat.Provider(), err)
		return nil, err
	}

	entry := &model.ChatLog{
		UserID:   ident.UserID,
		Message:  message,
		Response: reply,
		Provider: uc.chat.Provider(),
	}
	if err := uc.logs.Create(ctx, entry); err != nil {
		uc.logger.Printf("save chat log user=%s: %v", ident.UserID, err)
	}
	return &dto.ChatResponse{Response: reply}, nil
}

func (uc *ChatUsecase) contextFor(ctx context.Context, ident dto.Identity) string {
	parts := []string{fmt.Sprintf("User: %s (%s)", ident.Name, ident.Role)}
	if ident.Department != "" {
		parts = append(parts, "Department: "+ident.Department)
	}
	if uc.pending != nil {
		if s := uc.pending.PendingSummary(ctx, ident); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}
