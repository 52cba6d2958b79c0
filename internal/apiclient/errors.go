package apiclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/kazz187/novapm/pkg/cerr"
)

const (
	MissingTokenMessage = "No access token found. Please login again."
	UnauthorizedMessage = "Unauthorized"
	LoadFailedMessage   = "Failed to load data"
)

// ErrNoToken is wrapped by every error returned for a call attempted without
// an access token. Such calls never reach the network.
var ErrNoToken = errors.New("no access token")

func missingToken() error {
	return cerr.NewError(cerr.Unauthenticated, MissingTokenMessage, ErrNoToken)
}

// errorMessage picks the user-facing message out of an error body. The API
// answers {"detail": "..."} for most failures and {"field": ["..."]} for
// validation errors.
func errorMessage(status int, body []byte, fallback string) string {
	body = bytes.TrimSpace(body)
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err == nil {
		if msg := firstString(obj["detail"]); msg != "" {
			return msg
		}
		if msg := firstString(obj["non_field_errors"]); msg != "" {
			return msg
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if msg := firstString(obj[k]); msg != "" {
				return fmt.Sprintf("%s: %s", k, msg)
			}
		}
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(body, &arr); err == nil && len(arr) > 0 {
		if msg := firstString(arr[0]); msg != "" {
			return msg
		}
	}
	if status == http.StatusUnauthorized {
		return UnauthorizedMessage
	}
	return fallback
}

func firstString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var ss []string
	if err := json.Unmarshal(raw, &ss); err == nil && len(ss) > 0 {
		return strings.TrimSpace(ss[0])
	}
	return ""
}
