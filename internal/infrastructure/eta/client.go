package eta

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
	"github.com/jhoicas/eta-einvoice/pkg/eta"
)

const (
	identityURLPreprod    = "https://id.preprod.eta.gov.eg"
	apiURLPreprod         = "https://api.preprod.invoicing.eta.gov.eg"
	identityURLProduction = "https://id.eta.gov.eg"
	apiURLProduction      = "https://api.invoicing.eta.gov.eg"

	tokenScope      = "InvoicingAPI"
	maxResponseSize = 1 << 20
)

// ErrTokenRejected la API respondió 401 al token en uso; se renueva una vez antes de rendirse.
var ErrTokenRejected = errors.New("eta: token rechazado por la API (401)")

// Endpoints URLs del servicio de identidad y de la API de facturación.
type Endpoints struct {
	IdentityURL string
	APIURL      string
}

// EndpointsFor devuelve las URLs del ambiente ("preprod" o "production").
func EndpointsFor(environment string) Endpoints {
	if environment == eta.EnvironmentProduction {
		return Endpoints{IdentityURL: identityURLProduction, APIURL: apiURLProduction}
	}
	return Endpoints{IdentityURL: identityURLPreprod, APIURL: apiURLPreprod}
}

// Token token de acceso emitido por el servicio de identidad.
type Token struct {
	AccessToken string
	ExpiresAt   time.Time
}

// Valid indica si el token sigue vigente con el margen indicado.
func (t *Token) Valid(now time.Time, margin time.Duration) bool {
	return t != nil && t.AccessToken != "" && now.Add(margin).Before(t.ExpiresAt)
}

// Client cliente HTTP del protocolo de la ETA. Sin estado por empresa: el token viaja en cada llamada.
type Client struct {
	httpClient *http.Client
	retry      RetryPolicy
	now        func() time.Time
}

// NewClient construye el cliente. timeout acota cada petición HTTP; un timeout es transitorio.
func NewClient(timeout time.Duration, retry RetryPolicy) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
		now:        time.Now,
	}
}

// Authenticate intercambia las credenciales de cliente por un token.
// invalid_client → *AuthError (sin reintento); red o 5xx → *TransientError con reintentos.
func (c *Client) Authenticate(ctx context.Context, ep Endpoints, clientID, clientSecret string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", clientID)
	form.Set("client_secret", clientSecret)
	form.Set("scope", tokenScope)

	var tok *Token
	err := c.retry.Do(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.IdentityURL+"/connect/token", strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Accept", "application/json")

		status, body, err := c.do(req)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusOK:
			var out tokenResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return fmt.Errorf("eta: token: respuesta inválida: %w", err)
			}
			if out.AccessToken == "" {
				return errors.New("eta: token: respuesta sin access_token")
			}
			tok = &Token{
				AccessToken: out.AccessToken,
				ExpiresAt:   c.now().Add(time.Duration(out.ExpiresIn) * time.Second),
			}
			return nil
		case status >= 500 || status == http.StatusTooManyRequests:
			return &domaineta.TransientError{StatusCode: status, Err: errors.New(snippet(body))}
		default:
			var oe tokenErrorResponse
			_ = json.Unmarshal(body, &oe)
			msg := oe.Error
			if oe.ErrorDescription != "" {
				msg += ": " + oe.ErrorDescription
			}
			if msg == "" {
				msg = fmt.Sprintf("HTTP %d", status)
			}
			return &domaineta.AuthError{Err: errors.New(msg)}
		}
	})
	if err != nil {
		return nil, err
	}
	return tok, nil
}

// SubmitDocuments envía un lote de documentos firmados y reparte la respuesta por huella.
// Un documento que no aparece en ninguna de las dos listas hace la respuesta inconciliable.
func (c *Client) SubmitDocuments(ctx context.Context, ep Endpoints, token string, docs []*domaineta.BuiltDocument) (*domaineta.Submission, error) {
	if len(docs) == 0 {
		return nil, errors.New("eta: lote vacío")
	}
	byInternalID := make(map[string]string, len(docs))
	reqBody := submitRequest{Documents: make([]json.RawMessage, 0, len(docs))}
	for _, d := range docs {
		if _, dup := byInternalID[d.InternalID]; dup {
			return nil, fmt.Errorf("eta: internalID %q repetido en el lote", d.InternalID)
		}
		byInternalID[d.InternalID] = d.Fingerprint
		reqBody.Documents = append(reqBody.Documents, json.RawMessage(d.Payload))
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("eta: serializar lote: %w", err)
	}

	var sub *domaineta.Submission
	err = c.retry.Do(ctx, func() error {
		req, err := c.apiRequest(ctx, http.MethodPost, ep.APIURL+"/api/v1/documentsubmissions", token, payload)
		if err != nil {
			return err
		}
		status, body, err := c.do(req)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusAccepted || status == http.StatusOK:
			var out submitResponse
			if err := json.Unmarshal(body, &out); err != nil {
				return fmt.Errorf("%w: %v", domaineta.ErrMalformedResponse, err)
			}
			sub, err = partition(out, byInternalID)
			return err
		case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
			// Rechazo del lote completo: todos los documentos comparten el error.
			rejection := batchError(status, body)
			sub = &domaineta.Submission{Outcomes: make(map[string]domaineta.DocumentOutcome, len(docs))}
			for _, d := range docs {
				sub.Outcomes[d.Fingerprint] = domaineta.Rejected{InternalID: d.InternalID, Error: rejection}
			}
			return nil
		default:
			return statusError(status, body)
		}
	})
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// DocumentStatus consulta el estado de un documento ya aceptado. Sin efectos secundarios.
func (c *Client) DocumentStatus(ctx context.Context, ep Endpoints, token, uuid string) (*domaineta.DocumentStatus, error) {
	var st *domaineta.DocumentStatus
	err := c.retry.Do(ctx, func() error {
		req, err := c.apiRequest(ctx, http.MethodGet, ep.APIURL+"/api/v1/documents/"+url.PathEscape(uuid)+"/details", token, nil)
		if err != nil {
			return err
		}
		status, body, err := c.do(req)
		if err != nil {
			return err
		}
		if status != http.StatusOK {
			return statusError(status, body)
		}
		var out documentDetails
		if err := json.Unmarshal(body, &out); err != nil {
			return fmt.Errorf("eta: estado: respuesta inválida: %w", err)
		}
		st = &domaineta.DocumentStatus{UUID: uuid, Status: domaineta.RemoteStatus(out.Status)}
		for _, step := range out.ValidationResults.ValidationSteps {
			if step.Error != nil {
				msgs := step.Error.toDomain().Messages()
				for _, m := range msgs {
					if step.Name != "" {
						m = step.Name + ": " + m
					}
					st.Errors = append(st.Errors, m)
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// CancelDocument solicita la cancelación de un documento válido.
func (c *Client) CancelDocument(ctx context.Context, ep Endpoints, token, uuid, reason string) error {
	payload, err := json.Marshal(cancelRequest{Status: "cancelled", Reason: reason})
	if err != nil {
		return err
	}
	return c.retry.Do(ctx, func() error {
		req, err := c.apiRequest(ctx, http.MethodPut, ep.APIURL+"/api/v1.0/documents/state/"+url.PathEscape(uuid)+"/state", token, payload)
		if err != nil {
			return err
		}
		status, body, err := c.do(req)
		if err != nil {
			return err
		}
		switch {
		case status == http.StatusOK || status == http.StatusNoContent:
			return nil
		case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
			return &domaineta.RejectedError{Messages: batchError(status, body).Messages()}
		default:
			return statusError(status, body)
		}
	})
}

func (c *Client) apiRequest(ctx context.Context, method, endpoint, token string, body []byte) (*http.Request, error) {
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, r)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do ejecuta la petición; cualquier fallo de red (incluido timeout) es transitorio.
func (c *Client) do(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &domaineta.TransientError{Err: err}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, &domaineta.TransientError{StatusCode: resp.StatusCode, Err: err}
	}
	return resp.StatusCode, body, nil
}

// partition reparte aceptados y rechazados por huella usando el internalId.
func partition(out submitResponse, byInternalID map[string]string) (*domaineta.Submission, error) {
	sub := &domaineta.Submission{
		SubmissionID: out.SubmissionID,
		Outcomes:     make(map[string]domaineta.DocumentOutcome, len(byInternalID)),
	}
	place := func(internalID string, o domaineta.DocumentOutcome) error {
		fp, ok := byInternalID[internalID]
		if !ok {
			return fmt.Errorf("%w: internalId %q no pertenece al lote", domaineta.ErrMalformedResponse, internalID)
		}
		if _, dup := sub.Outcomes[fp]; dup {
			return fmt.Errorf("%w: internalId %q aparece dos veces", domaineta.ErrMalformedResponse, internalID)
		}
		sub.Outcomes[fp] = o
		return nil
	}
	for _, a := range out.AcceptedDocuments {
		if a.UUID == "" {
			return nil, fmt.Errorf("%w: documento aceptado sin uuid", domaineta.ErrMalformedResponse)
		}
		if err := place(a.InternalID, domaineta.Accepted{
			InternalID: a.InternalID, UUID: a.UUID, LongID: a.LongID, HashKey: a.HashKey,
		}); err != nil {
			return nil, err
		}
	}
	for _, r := range out.RejectedDocuments {
		if err := place(r.InternalID, domaineta.Rejected{InternalID: r.InternalID, Error: r.Error.toDomain()}); err != nil {
			return nil, err
		}
	}
	if len(sub.Outcomes) != len(byInternalID) {
		return nil, fmt.Errorf("%w: %d de %d documentos sin resultado", domaineta.ErrMalformedResponse,
			len(byInternalID)-len(sub.Outcomes), len(byInternalID))
	}
	return sub, nil
}

func batchError(status int, body []byte) domaineta.AuthorityError {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && (env.Error.Message != "" || len(env.Error.Details) > 0 || env.Error.Code != "") {
		return env.Error.toDomain()
	}
	return domaineta.AuthorityError{Code: fmt.Sprintf("HTTP%d", status), Message: snippet(body)}
}

// statusError clasifica respuestas no esperadas: 401/403 → AuthError, 5xx/429 → TransientError.
func statusError(status int, body []byte) error {
	switch {
	case status == http.StatusUnauthorized:
		return &domaineta.AuthError{Err: ErrTokenRejected}
	case status == http.StatusForbidden:
		return &domaineta.AuthError{Err: fmt.Errorf("eta: acceso denegado: %s", snippet(body))}
	case status >= 500 || status == http.StatusTooManyRequests:
		return &domaineta.TransientError{StatusCode: status, Err: errors.New(snippet(body))}
	}
	return fmt.Errorf("eta: respuesta inesperada HTTP %d: %s", status, snippet(body))
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if len(s) > 300 {
		s = s[:300] + "..."
	}
	if s == "" {
		s = "sin cuerpo"
	}
	return s
}
