package utils

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequest(t *testing.T, method string, url string, body io.Reader, handler func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	return TestRequestWithHeaders(t, method, url, nil, body, handler)
}

func TestRequestWithHeaders(t *testing.T, method string, url string, headers map[string][]string, body io.Reader, handler func(http.ResponseWriter, *http.Request)) *httptest.ResponseRecorder {
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatal(err)
	}

	for k, v := range headers {
		for _, h := range v {
			req.Header.Add(k, h)
		}
	}

	w := httptest.NewRecorder()
	handler(w, req)

	return w
}

func TestExpectedStatus(t *testing.T, rr *httptest.ResponseRecorder, statusCode int) {
	t.Helper()
	if rr.Code != statusCode {
		t.Errorf("expected status code %d, got %d", statusCode, rr.Code)
	}
}

func TestExpectedMessage(t *testing.T, rr *httptest.ResponseRecorder, m string) {
	t.Helper()
	if !strings.Contains(rr.Body.String(), m) {
		t.Errorf("received message `%s`, expected message `%s`", rr.Body.String(), m)
	}
}

// TestDecodeResult unmarshals the "result" member of a response body into v.
func TestDecodeResult(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	response := struct {
		Result json.RawMessage `json:"result"`
	}{}

	if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response `%s`: %v", rr.Body.String(), err)
	}

	if err := json.Unmarshal(response.Result, v); err != nil {
		t.Fatalf("failed to decode result `%s`: %v", string(response.Result), err)
	}
}
