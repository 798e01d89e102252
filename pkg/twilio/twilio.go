package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"net/url"
	"sort"
	"strings"
)

type Config struct {
	AuthToken string `split_words:"true"`
	// PublicURL is the externally visible webhook URL Twilio signs against.
	// Required when AuthToken is set, because proxies rewrite Host.
	PublicURL string `split_words:"true"`
}

// Validator checks X-Twilio-Signature headers on inbound webhooks.
// A zero-value validator (no auth token) accepts everything, which keeps
// local development and tests friction-free.
type Validator struct {
	authToken string
	publicURL string
}

func NewValidator(cfg Config) (*Validator, error) {
	token := strings.TrimSpace(cfg.AuthToken)
	publicURL := strings.TrimSpace(cfg.PublicURL)

	if token != "" {
		if publicURL == "" {
			return nil, errors.New("twilio public url is required when auth token is set")
		}
		if _, err := url.ParseRequestURI(publicURL); err != nil {
			return nil, err
		}
	}

	return &Validator{
		authToken: token,
		publicURL: publicURL,
	}, nil
}

func MustNewValidator(cfg Config) *Validator {
	v, err := NewValidator(cfg)
	if err != nil {
		panic(err)
	}
	return v
}

// Enabled reports whether signature checking is active.
func (v *Validator) Enabled() bool {
	return v != nil && v.authToken != ""
}

// Valid reports whether signature matches the request form per Twilio's
// scheme: HMAC-SHA1 over URL plus form keys and values sorted by key,
// base64 encoded.
func (v *Validator) Valid(form url.Values, signature string) bool {
	if !v.Enabled() {
		return true
	}

	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(v.publicURL)
	for _, k := range keys {
		for _, val := range form[k] {
			b.WriteString(k)
			b.WriteString(val)
		}
	}

	mac := hmac.New(sha1.New, []byte(v.authToken))
	mac.Write([]byte(b.String()))
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// MessageResponse is the TwiML document returned to the transport so the
// reply goes back out on the same channel the message arrived on.
type MessageResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

func RenderMessage(body string) (string, error) {
	out, err := xml.Marshal(MessageResponse{Message: body})
	if err != nil {
		return "", err
	}
	return xml.Header + string(out), nil
}
