package inbound

import (
	"context"

	"github.com/otpgate/otpgate/internal/otp/usecase"
	"github.com/otpgate/otpgate/internal/pkg/router"
)

type uc interface {
	Start(ctx context.Context, in usecase.StartInput) error
	Verify(ctx context.Context, in usecase.VerifyInput) (*usecase.VerifyOutput, error)
	AdminReset(ctx context.Context, in usecase.AdminResetInput) error
}

func RegisterHTTPEndpoint(r *router.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	// Challenge flow
	r.POST("/api/v1/otp/start", end.Start)
	r.POST("/api/v1/otp/verify", end.Verify)

	// Operator tooling (need authenticated)
	r.DELETE("/api/v1/otp/admin/subjects/:phone", end.AdminReset)
}
