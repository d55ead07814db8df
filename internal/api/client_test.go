package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"

	pkgerrors "github.com/skylight-sports/storefront/pkg/errors"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func testClient(t *testing.T, rt roundTripFunc, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithHTTPClient(&http.Client{Transport: rt})}, opts...)
	client, err := NewClient("http://backend.test/api", opts...)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{},
	}
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(""); err == nil {
		t.Fatal("expected error for empty base url")
	}
	if _, err := NewClient("   "); err == nil {
		t.Fatal("expected error for blank base url")
	}
}

func TestLoginRequest(t *testing.T) {
	t.Parallel()

	var capturedURL string
	var capturedAuth string

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		capturedAuth = req.Header.Get("Authorization")

		bodyBytes, err := io.ReadAll(req.Body)
		if err != nil {
			t.Fatalf("read request body: %v", err)
		}
		var payload map[string]any
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		if payload["email"] != "user@example.com" {
			t.Fatalf("unexpected email %q", payload["email"])
		}

		return jsonResponse(http.StatusOK,
			`{"user_id":"u1","email":"user@example.com","role":"user","access_token":"tok"}`), nil
	})

	client := testClient(t, rt, WithTokenSource(func(context.Context) string { return "stale-token" }))

	resp, err := client.Login(context.Background(), LoginRequest{Email: "user@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if capturedURL != "http://backend.test/api/auth/login" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
	if capturedAuth != "" {
		t.Fatal("login must go out unauthenticated")
	}
	if resp.AccessToken != "tok" || resp.UserID != "u1" {
		t.Fatalf("unexpected response %+v", resp)
	}
}

func TestAuthorizedRequestCarriesBearer(t *testing.T) {
	t.Parallel()

	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")
		return jsonResponse(http.StatusOK, `[]`), nil
	})

	client := testClient(t, rt, WithTokenSource(func(context.Context) string { return "admin-token" }))

	if _, err := client.ListAdminTournaments(context.Background()); err != nil {
		t.Fatalf("list admin tournaments: %v", err)
	}
	if capturedAuth != "Bearer admin-token" {
		t.Fatalf("unexpected authorization header %q", capturedAuth)
	}
}

func TestBackendErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusNotFound, `{"error":"tournament not found"}`), nil
	})
	client := testClient(t, rt)

	_, err := client.GetTournament(context.Background(), "t1")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if typed.Message() != "tournament not found" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["status"] != http.StatusNotFound {
		t.Fatalf("unexpected details %v", typed.Details())
	}
}

func TestBackendErrorWithoutEnvelope(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusInternalServerError, `<html>oops</html>`), nil
	})
	client := testClient(t, rt)

	_, err := client.ListProducts(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBackend {
		t.Fatalf("expected backend error, got %v", err)
	}
	if typed.Message() != "HTTP error: 500" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestStatusCodeMapping(t *testing.T) {
	t.Parallel()

	cases := map[int]pkgerrors.Code{
		http.StatusUnauthorized: pkgerrors.CodeUnauthorized,
		http.StatusForbidden:    pkgerrors.CodeForbidden,
		http.StatusNotFound:     pkgerrors.CodeNotFound,
		http.StatusConflict:     pkgerrors.CodeConflict,
		http.StatusBadRequest:   pkgerrors.CodeBackend,
	}
	for status, want := range cases {
		if got := codeForStatus(status); got != want {
			t.Fatalf("status %d mapped to %q, want %q", status, got, want)
		}
	}
}

func TestTransportFailureIsDependencyError(t *testing.T) {
	t.Parallel()

	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	client := testClient(t, rt)

	_, err := client.ListProducts(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestMultipartProductUpload(t *testing.T) {
	t.Parallel()

	var capturedAuth string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedAuth = req.Header.Get("Authorization")

		mediaType, params, err := mime.ParseMediaType(req.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("unexpected content type %q", req.Header.Get("Content-Type"))
		}
		reader := multipart.NewReader(req.Body, params["boundary"])
		form, err := reader.ReadForm(1 << 20)
		if err != nil {
			t.Fatalf("parse multipart form: %v", err)
		}
		if got := form.Value["name"]; len(got) != 1 || got[0] != "Gi" {
			t.Fatalf("unexpected name field %v", form.Value["name"])
		}
		if got := form.Value["price"]; len(got) != 1 || got[0] != "99.5" {
			t.Fatalf("unexpected price field %v", form.Value["price"])
		}
		files := form.File["image"]
		if len(files) != 1 || files[0].Filename != "gi.png" {
			t.Fatalf("unexpected file part %v", files)
		}
		f, err := files[0].Open()
		if err != nil {
			t.Fatalf("open file part: %v", err)
		}
		defer func() { _ = f.Close() }()
		content, _ := io.ReadAll(f)
		if string(content) != "png-bytes" {
			t.Fatalf("unexpected file content %q", content)
		}

		return jsonResponse(http.StatusCreated, `{"id":"p1","name":"Gi","price":99.5}`), nil
	})

	client := testClient(t, rt, WithTokenSource(func(context.Context) string { return "admin-token" }))

	product, err := client.CreateProduct(context.Background(),
		map[string]string{"name": "Gi", "price": "99.5"},
		&FileUpload{Field: "image", Name: "gi.png", Content: strings.NewReader("png-bytes")},
	)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if capturedAuth != "Bearer admin-token" {
		t.Fatalf("unexpected authorization header %q", capturedAuth)
	}
	if product.ID != "p1" {
		t.Fatalf("unexpected product %+v", product)
	}
}

func TestVerifyPaymentSendsFullPayload(t *testing.T) {
	t.Parallel()

	var payload map[string]any
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Path != "/api/payments/verify" {
			t.Fatalf("unexpected path %q", req.URL.Path)
		}
		bodyBytes, _ := io.ReadAll(req.Body)
		if err := json.Unmarshal(bodyBytes, &payload); err != nil {
			t.Fatalf("unmarshal request body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"message":"ok","status":"completed"}`), nil
	})
	client := testClient(t, rt)

	_, err := client.VerifyPayment(context.Background(), VerifyPaymentRequest{
		PaymentID:         "pay_1",
		TransactionID:     "txn_1",
		VerificationToken: "vtok",
		PaymentReference:  "SIM-001",
	})
	if err != nil {
		t.Fatalf("verify payment: %v", err)
	}
	for key, want := range map[string]string{
		"payment_id":         "pay_1",
		"transaction_id":     "txn_1",
		"verification_token": "vtok",
		"payment_reference":  "SIM-001",
	} {
		if payload[key] != want {
			t.Fatalf("payload %s = %v, want %q", key, payload[key], want)
		}
	}
}

func TestBaseURLTrailingSlashTrimmed(t *testing.T) {
	t.Parallel()

	var capturedURL string
	rt := roundTripFunc(func(req *http.Request) (*http.Response, error) {
		capturedURL = req.URL.String()
		return jsonResponse(http.StatusOK, `[]`), nil
	})
	client, err := NewClient("http://backend.test/api/", WithHTTPClient(&http.Client{Transport: rt}))
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := client.ListProducts(context.Background()); err != nil {
		t.Fatalf("list products: %v", err)
	}
	if capturedURL != "http://backend.test/api/products" {
		t.Fatalf("unexpected URL %q", capturedURL)
	}
}
