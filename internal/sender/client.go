package sender

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"time"
)

const contentType = "application/json"

// ErrDelivery wraps transport failures: timeouts, refused connections and
// any other error before a response arrives.
var ErrDelivery = errors.New("delivery failed")

// StatusError is returned when the collector answers with a non 2xx code.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("collector response %d %s", e.Code, http.StatusText(e.Code))
}

// Temporary reports whether the same content may be accepted later.
func (e *StatusError) Temporary() bool {
	return e.Code >= http.StatusInternalServerError || e.Code == http.StatusTooManyRequests
}

type client struct {
	url  string
	http *http.Client
}

func newClient(url string, timeout time.Duration) *client {
	return &client{
		url:  url,
		http: &http.Client{Timeout: timeout},
	}
}

func (c *client) post(content []byte) error {
	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDelivery, err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrDelivery, err)
	}
	defer resp.Body.Close()
	io.Copy(ioutil.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
