package inbound

type StartRequest struct {
	Phone   string `json:"phone"`
	Channel string `json:"channel"`
}

type StartResponse struct {
	OK bool `json:"ok"`
}

func (StartResponse) Message() string {
	return "Verification code sent."
}

type VerifyRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

type VerifyResponse struct {
	Credential string `json:"credential"`
}

func (VerifyResponse) Message() string {
	return "Subject verified."
}

type AdminResetResponse struct{}

func (AdminResetResponse) Message() string {
	return "Subject data has been reset."
}
