package wa

import (
	"context"
	"fmt"

	"github.com/otpgate/otpgate/internal/pkg/instrument"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.opentelemetry.io/otel/codes"
)

const bodyTemplate = "Your verification code is: %s"

type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// WhatsApp delivers challenge codes through the Twilio Messages API using the
// whatsapp: address scheme.
type WhatsApp struct {
	api  messageCreator
	from string
	ins  instrument.Instrumentation
}

func NewWhatsApp(api messageCreator, from string, ins instrument.Instrumentation) *WhatsApp {
	return &WhatsApp{
		api:  api,
		from: from,
		ins:  ins,
	}
}

// Send delivers the plaintext code to the subject. The Twilio SDK does not
// take a context, so the deadline is honored by checking before the call and
// bounding the underlying HTTP client at construction time.
func (w *WhatsApp) Send(ctx context.Context, subject, code string) (err error) {
	_, span := w.ins.Tracer("otp.outbound.wa").Start(ctx, "Send")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo("whatsapp:" + subject)
	params.SetFrom("whatsapp:" + w.from)
	params.SetBody(fmt.Sprintf(bodyTemplate, code))

	if _, err := w.api.CreateMessage(params); err != nil {
		return fmt.Errorf("wa: twilio create message: %w", err)
	}

	return nil
}
