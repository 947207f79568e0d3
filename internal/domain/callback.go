package domain

// SNSMessageTypeHeader carries the kind of an incoming notification-bus
// message. Requests without a recognized value are rejected before the
// body is read.
const SNSMessageTypeHeader = "x-amz-sns-message-type"

const (
	SNSTypeNotification             = "Notification"
	SNSTypeSubscriptionConfirmation = "SubscriptionConfirmation"
)

// CallbackMaxBodySize bounds the provider callback body (1 MiB).
const CallbackMaxBodySize = 1024 * 1024

// SESNotification is the inner SES message carried inside an SNS
// Notification envelope. Only notificationType is required here; the
// provider message id is extracted separately at the mail.messageId path
// and the full payload is kept verbatim in EmailResult.Raw.
type SESNotification struct {
	NotificationType string `json:"notificationType"`
}

// CallbackOutcome classifies how a provider callback was handled.
type CallbackOutcome int

const (
	// CallbackRecorded means a result row was appended for a correlated request.
	CallbackRecorded CallbackOutcome = iota
	// CallbackSubscription means the envelope was a subscription handshake.
	// Confirmation is handled out of band by an operator.
	CallbackSubscription
	// CallbackNonSES means the inner message did not parse as an SES
	// notification. Not an error: the bus may deliver unrelated payloads.
	CallbackNonSES
	// CallbackOther means the envelope matched no known shape.
	CallbackOther
)

// CallbackResult is the outcome of processing one provider callback.
type CallbackResult struct {
	Outcome      CallbackOutcome
	SubscribeURL string
	Result       *EmailResult
}
