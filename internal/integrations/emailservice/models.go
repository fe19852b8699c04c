package emailservice

// SendRequest тело запроса к провайдеру
type SendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Text    string   `json:"text"`
	ReplyTo string   `json:"reply_to,omitempty"`
}

// SendResponse ответ провайдера на успешную отправку
type SendResponse struct {
	ID string `json:"id"`
}

// ErrorResponse модель ошибки от провайдера
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Name       string `json:"name"`
	Message    string `json:"message"`
}
