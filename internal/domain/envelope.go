package domain

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the body shape shared by every JSON response.
type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func Success(data any) Envelope {
	return Envelope{Status: StatusSuccess, Data: data}
}

func SuccessMessage(message string) Envelope {
	return Envelope{Status: StatusSuccess, Message: message}
}

func Failure(message string) Envelope {
	return Envelope{Status: StatusError, Message: message}
}
