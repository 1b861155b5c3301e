package domain

import (
	"encoding/json"
	"maps"
)

// Message keys shared between the error translators and the catalogs.
const (
	MessageKeyErrorStructure = "response.error.structure"
	MessageKeyValidation     = "request.error.validation"
	MessageKeyInternal       = "http.serverError.internalServerError"
	MessageKeyNotFound       = "http.clientError.notFound"
	MessageKeyConflict       = "http.clientError.conflict"
	MessageKeyForbidden      = "http.clientError.forbidden"
	MessageKeyUnprocessable  = "http.clientError.unprocessableEntity"
	MessageKeyUnavailable    = "http.serverError.serviceUnavailable"
	MessageKeyTimeout        = "http.serverError.gatewayTimeout"
	MessageKeyBadRequest     = "http.clientError.badRequest"
	MessageKeyMessageMissing = "message.error.notFound"
)

// Message is a message key plus the properties interpolated into its template.
type Message struct {
	Key        string
	Properties map[string]any
}

// Key returns a message without properties.
func Key(key string) Message {
	return Message{Key: key}
}

// WithProperty returns a copy of the message with one more property set.
func (m Message) WithProperty(name string, value any) Message {
	props := make(map[string]any, len(m.Properties)+1)
	maps.Copy(props, m.Properties)
	props[name] = value

	return Message{Key: m.Key, Properties: props}
}

// ErrorDescriptor describes one failed input field. Children hold nested
// failures for object-valued fields. Params carries the argument of a
// constraint, keyed by constraint name ("min" -> "3").
type ErrorDescriptor struct {
	Property    string
	Value       any
	Constraints []string
	Params      map[string]string
	Children    []ErrorDescriptor
}

// Localized is either a single text or a LocalizedMessage keyed by language,
// depending on how many languages were requested.
type Localized struct {
	Text       string
	ByLanguage LocalizedMessage
}

// LocalizedMessage maps a language tag to the rendered text.
type LocalizedMessage map[string]string

// Text creates a single-language value.
func Text(s string) Localized {
	return Localized{Text: s}
}

// PerLanguage creates a multi-language value.
func PerLanguage(m LocalizedMessage) Localized {
	return Localized{ByLanguage: m}
}

// IsMulti reports whether the value holds one text per language.
func (l Localized) IsMulti() bool {
	return l.ByLanguage != nil
}

// String returns the single text, or the empty string for multi-language values.
func (l Localized) String() string {
	return l.Text
}

// MarshalJSON encodes a JSON string or a JSON object keyed by language.
func (l Localized) MarshalJSON() ([]byte, error) {
	if l.ByLanguage != nil {
		return json.Marshal(map[string]string(l.ByLanguage))
	}

	return json.Marshal(l.Text)
}

// UnmarshalJSON accepts either form produced by MarshalJSON.
func (l *Localized) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = Localized{Text: s}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	*l = Localized{ByLanguage: m}

	return nil
}

// LocalizedError is a resolved ErrorDescriptor constraint.
type LocalizedError struct {
	Property string    `json:"property"`
	Message  Localized `json:"message"`
}
