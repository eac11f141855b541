package inbound

import (
	"context"

	"github.com/shandysiswandi/resetmail/internal/notification/usecase"
)

type ucConsumer interface {
	ConsumeAdminPasswordResetRequested(ctx context.Context, in usecase.ConsumeAdminPasswordResetInput) error
}

type ucSpool interface {
	CountSpool(ctx context.Context) (int, error)
	FlushSpool(ctx context.Context, in usecase.FlushSpoolInput) (*usecase.FlushSpoolOutput, error)
}

type uc interface {
	ucConsumer
	ucSpool

	SendAdminPasswordReset(ctx context.Context, in usecase.SendAdminPasswordResetInput) error
	ClearSpool(ctx context.Context) error
}
