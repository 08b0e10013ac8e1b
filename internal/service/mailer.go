package service

import (
	"context"

	"github.com/Creastina/bambushain/internal/model"
)

// Mailer sends the transactional mails of the application. Implemented by
// the mail package.
type Mailer interface {
	SendTwoFactorCode(ctx context.Context, user *model.User, code string) error
	SendUserCreated(ctx context.Context, user *model.User, grove *model.Grove, password string) error
	SendPasswordReset(ctx context.Context, user *model.User, password string) error
	SendForgotPassword(ctx context.Context, mod *model.User, user *model.User) error
	SendSupportRequest(ctx context.Context, from *model.User, req model.SupportRequest) error
}
