package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// transitionalScope is written into the body verbatim, plus-separated.
	transitionalScope = "openid+profile+email+federated:id+groups"
	currentScope      = "openid profile email federated:id groups"

	formContentType = "application/x-www-form-urlencoded"
)

// Static errors for err113 compliance.
var (
	ErrIncompleteTokenResponse = errors.New("token response is missing fields")
	ErrMissingServerVersion    = errors.New("info response has no version")
	ErrUnknownFlow             = errors.New("unknown flow")
)

// TokenError is a non-2xx response from the info or a token endpoint.
type TokenError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, e.Body)
}

type legacyTokenResponse struct {
	Value string `json:"value"`
	Type  string `json:"type"`
}

type transitionalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Expiry      string `json:"expiry"`
}

type currentTokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// probeVersion reads the server version from the info endpoint.
func (a *SessionAuthenticator) probeVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.credentials.InfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating info request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	var info struct {
		Version string `json:"version"`
	}

	_, err = a.doJSON(req, &info)
	if err != nil {
		return "", fmt.Errorf("probing server version: %w", err)
	}

	if info.Version == "" {
		return "", ErrMissingServerVersion
	}

	return info.Version, nil
}

// fetch runs the token flow and returns a new state. The returned state is
// always complete.
func (a *SessionAuthenticator) fetch(ctx context.Context, flow Flow, version string) (*State, error) {
	var (
		state *State
		err   error
	)

	switch flow {
	case FlowLegacy:
		state, err = a.fetchLegacy(ctx)
	case FlowTransitional:
		state, err = a.fetchTransitional(ctx)
	case FlowCurrent:
		state, err = a.fetchCurrent(ctx)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFlow, flow)
	}

	if err != nil {
		return nil, err
	}

	state.ServerVersion = version

	if !state.Complete() {
		return nil, fmt.Errorf("%s flow: %w", flow, ErrIncompleteTokenResponse)
	}

	return state, nil
}

func (a *SessionAuthenticator) fetchLegacy(ctx context.Context) (*State, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.credentials.LegacyTokenURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.SetBasicAuth(a.credentials.Username, a.credentials.Password)
	req.Header.Set("Accept", "application/json")

	var body legacyTokenResponse

	_, err = a.doJSON(req, &body)
	if err != nil {
		return nil, fmt.Errorf("fetching legacy token: %w", err)
	}

	if body.Value == "" {
		return nil, fmt.Errorf("legacy flow: %w", ErrIncompleteTokenResponse)
	}

	expiresAt, err := ExpiresAt(body.Value)
	if err != nil {
		return nil, fmt.Errorf("reading legacy token expiry: %w", err)
	}

	return &State{
		AccessToken: body.Value,
		TokenType:   body.Type,
		ExpiresAt:   expiresAt,
		IDToken:     body.Value,
	}, nil
}

func (a *SessionAuthenticator) fetchTransitional(ctx context.Context) (*State, error) {
	form := "grant_type=password" +
		"&username=" + url.QueryEscape(a.credentials.Username) +
		"&password=" + url.QueryEscape(a.credentials.Password) +
		"&scope=" + transitionalScope

	req, err := a.newPasswordGrant(ctx, a.credentials.TransitionalTokenURL, form)
	if err != nil {
		return nil, err
	}

	var body transitionalTokenResponse

	_, err = a.doJSON(req, &body)
	if err != nil {
		return nil, fmt.Errorf("fetching sky token: %w", err)
	}

	if body.Expiry == "" {
		return nil, fmt.Errorf("transitional flow: %w", ErrIncompleteTokenResponse)
	}

	expiry, err := time.Parse(time.RFC3339Nano, body.Expiry)
	if err != nil {
		return nil, fmt.Errorf("parsing token expiry %q: %w", body.Expiry, err)
	}

	return &State{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
		ExpiresAt:   expiry.Unix(),
		IDToken:     body.AccessToken,
	}, nil
}

func (a *SessionAuthenticator) fetchCurrent(ctx context.Context) (*State, error) {
	form := url.Values{
		"grant_type": {"password"},
		"username":   {a.credentials.Username},
		"password":   {a.credentials.Password},
		"scope":      {currentScope},
	}

	req, err := a.newPasswordGrant(ctx, a.credentials.TokenURL, form.Encode())
	if err != nil {
		return nil, err
	}

	var body currentTokenResponse

	header, err := a.doJSON(req, &body)
	if err != nil {
		return nil, fmt.Errorf("fetching issuer token: %w", err)
	}

	issuedAt := a.now()

	if date := header.Get("Date"); date != "" {
		issuedAt, err = http.ParseTime(date)
		if err != nil {
			return nil, fmt.Errorf("parsing Date header %q: %w", date, err)
		}
	}

	return &State{
		AccessToken: body.AccessToken,
		TokenType:   body.TokenType,
		ExpiresAt:   issuedAt.Unix() + body.ExpiresIn,
		IDToken:     body.IDToken,
	}, nil
}

func (a *SessionAuthenticator) newPasswordGrant(ctx context.Context, tokenURL, form string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form))
	if err != nil {
		return nil, fmt.Errorf("creating token request: %w", err)
	}

	req.SetBasicAuth(ClientID, ClientSecret)
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "application/json")

	return req, nil
}

// doJSON sends req and decodes a 2xx JSON body into out. It returns the
// response headers.
func (a *SessionAuthenticator) doJSON(req *http.Request, out interface{}) (http.Header, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}

	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			a.logger.Warn("failed to close response body", map[string]interface{}{"error": closeErr.Error()})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TokenError{
			URL:        req.URL.Redacted(),
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	err = json.Unmarshal(body, out)
	if err != nil {
		return nil, fmt.Errorf("parsing response body: %w", err)
	}

	return resp.Header, nil
}
