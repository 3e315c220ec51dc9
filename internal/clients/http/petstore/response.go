package petstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// Response is the envelope handed back for every round trip. It exposes the
// status line, headers and the raw body; interpreting them is up to the caller.
type Response struct {
	resp *resty.Response
}

func newResponse(resp *resty.Response) *Response {
	return &Response{resp: resp}
}

// StatusCode returns the numeric HTTP status.
func (r *Response) StatusCode() int {
	if r == nil || r.resp == nil {
		return 0
	}
	return r.resp.StatusCode()
}

// StatusText returns the reason phrase of the status line, e.g. "Not Found".
func (r *Response) StatusText() string {
	if r == nil || r.resp == nil {
		return ""
	}
	code := r.StatusCode()
	text := strings.TrimSpace(strings.TrimPrefix(r.resp.Status(), strconv.Itoa(code)))
	if text == "" {
		return http.StatusText(code)
	}
	return text
}

// Header returns the response headers.
func (r *Response) Header() http.Header {
	if r == nil || r.resp == nil {
		return http.Header{}
	}
	return r.resp.Header()
}

// Body returns the raw response body.
func (r *Response) Body() []byte {
	if r == nil || r.resp == nil {
		return nil
	}
	return r.resp.Body()
}

// JSON decodes the body into v.
func (r *Response) JSON(v any) error {
	body := r.Body()
	if len(body) == 0 {
		return errors.New("response body is empty")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Field looks a value up in the JSON body using a gjson path such as "message"
// or "category.name".
func (r *Response) Field(path string) gjson.Result {
	return gjson.GetBytes(r.Body(), path)
}
