package extract

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

// ErrDecode matches every DecodeError.
var ErrDecode = errors.New("undecodable iframe payload")

// DecodeError reports a link table payload that is not base64 encoded JSON carrying a src.
type DecodeError struct {
	Payload string
	Err     error
}

func (e *DecodeError) Error() string {
	return "decode iframe payload: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

type iframe struct {
	Src string `json:"src"`
}

// DecodeIframe returns the src of a data-iframe payload.
func DecodeIframe(payload string) (string, error) {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return "", &DecodeError{Payload: payload, Err: errors.New("empty payload")}
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		var rawErr error
		if raw, rawErr = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "=")); rawErr != nil {
			return "", &DecodeError{Payload: payload, Err: err}
		}
	}

	var frame iframe
	if err := json.Unmarshal(raw, &frame); err != nil {
		return "", &DecodeError{Payload: payload, Err: err}
	}

	if strings.TrimSpace(frame.Src) == "" {
		return "", &DecodeError{Payload: payload, Err: errors.New("payload has no src")}
	}

	return strings.TrimSpace(frame.Src), nil
}
