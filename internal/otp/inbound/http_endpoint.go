package inbound

import (
	"github.com/otpgate/otpgate/internal/otp/usecase"
	"github.com/otpgate/otpgate/internal/pkg/router"
)

// HTTPEndpoint exposes HTTP handlers for the OTP challenge flow.
type HTTPEndpoint struct {
	uc uc
}

// Start issues a new challenge and delivers the code out of band.
// @Summary Start an OTP challenge
// @Description Issues a one-time code for the subject and sends it over the requested channel.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body StartRequest true "Start payload"
// @Success 200 {object} router.successResponse{data=StartResponse} "Challenge issued"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Resend cooldown active"
// @Failure 502 {object} router.errorResponse "Delivery failed"
// @Router /api/v1/otp/start [post]
func (h *HTTPEndpoint) Start(r *router.Request) (any, error) {
	var req StartRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.Start(r.Context(), usecase.StartInput{
		Phone:   req.Phone,
		Channel: req.Channel,
	}); err != nil {
		return nil, err
	}

	return StartResponse{OK: true}, nil
}

// Verify checks a candidate code and mints a credential on success.
// @Summary Verify an OTP challenge
// @Description Verifies the submitted code against the subject's active challenge and returns a signed credential.
// @Tags OTP
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verify payload"
// @Success 200 {object} router.successResponse{data=VerifyResponse} "Verified"
// @Failure 400 {object} router.errorResponse "Invalid request body"
// @Failure 401 {object} router.errorResponse "Incorrect code"
// @Failure 404 {object} router.errorResponse "No active challenge"
// @Failure 410 {object} router.errorResponse "Challenge expired"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Failure 429 {object} router.errorResponse "Attempt budget exhausted"
// @Router /api/v1/otp/verify [post]
func (h *HTTPEndpoint) Verify(r *router.Request) (any, error) {
	var req VerifyRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Verify(r.Context(), usecase.VerifyInput{
		Phone: req.Phone,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return VerifyResponse{Credential: resp.Credential}, nil
}

// AdminReset deletes a subject's challenge and user record.
// @Summary Reset subject data
// @Description Removes the subject's active challenge and durable user record. Requires authentication.
// @Tags OTP, Admin
// @Produce json
// @Param phone path string true "Subject phone number (E.164)"
// @Success 200 {object} router.successResponse "Reset done"
// @Failure 401 {object} router.errorResponse "Authentication required"
// @Failure 404 {object} router.errorResponse "Nothing to reset"
// @Failure 422 {object} router.errorResponse "Validation error"
// @Router /api/v1/otp/admin/subjects/{phone} [delete]
func (h *HTTPEndpoint) AdminReset(r *router.Request) (any, error) {
	if err := h.uc.AdminReset(r.Context(), usecase.AdminResetInput{
		Phone: r.GetParam("phone"),
	}); err != nil {
		return nil, err
	}

	return AdminResetResponse{}, nil
}
