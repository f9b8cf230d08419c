package twilio

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/base64"
	"sort"
)

// ValidateSignature checks the X-Twilio-Signature header against the request.
// The provider signs the full callback URL concatenated with every POST
// parameter name and value in alphabetical key order, HMAC-SHA1 with the
// account auth token, base64 encoded.
func (c *Client) ValidateSignature(signature, requestURL string, params map[string]string) bool {
	if c.AuthToken == "" || signature == "" {
		return false
	}
	expected := computeSignature(c.AuthToken, requestURL, params)
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func computeSignature(authToken, requestURL string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	payload := requestURL
	for _, k := range keys {
		payload += k + params[k]
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(payload))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
