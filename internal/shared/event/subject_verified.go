package event

const SubjectVerifiedDestination string = "otp.subject.verified"

type SubjectVerifiedMessage struct {
	UserID     int64  `json:"user_id"`
	Subject    string `json:"subject"`
	Channel    string `json:"channel"`
	VerifiedAt int64  `json:"verified_at_ms"`
}
