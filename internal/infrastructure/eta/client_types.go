package eta

import (
	"encoding/json"

	domaineta "github.com/jhoicas/eta-einvoice/internal/domain/eta"
)

// tokenResponse respuesta de {idURL}/connect/token.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
	Scope       string `json:"scope"`
}

// tokenErrorResponse error OAuth del servicio de identidad.
type tokenErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

type submitRequest struct {
	Documents []json.RawMessage `json:"documents"`
}

type submitResponse struct {
	SubmissionID      string             `json:"submissionId"`
	AcceptedDocuments []acceptedDocument `json:"acceptedDocuments"`
	RejectedDocuments []rejectedDocument `json:"rejectedDocuments"`
}

type acceptedDocument struct {
	UUID       string `json:"uuid"`
	LongID     string `json:"longId"`
	InternalID string `json:"internalId"`
	HashKey    string `json:"hashKey"`
}

type rejectedDocument struct {
	InternalID string   `json:"internalId"`
	Error      apiError `json:"error"`
}

// apiError error estructurado de la API (también el cuerpo de un 400/422 de lote completo).
type apiError struct {
	Code         string     `json:"code"`
	Message      string     `json:"message"`
	Target       string     `json:"target"`
	PropertyPath string     `json:"propertyPath"`
	Details      []apiError `json:"details"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func (e apiError) toDomain() domaineta.AuthorityError {
	out := domaineta.AuthorityError{
		Code:         e.Code,
		Message:      e.Message,
		Target:       e.Target,
		PropertyPath: e.PropertyPath,
	}
	for _, d := range e.Details {
		out.Details = append(out.Details, d.toDomain())
	}
	return out
}

// documentDetails respuesta de /api/v1/documents/{uuid}/details (solo lo que se concilia).
type documentDetails struct {
	UUID              string            `json:"uuid"`
	Status            string            `json:"status"`
	ValidationResults validationResults `json:"validationResults"`
}

type validationResults struct {
	Status          string           `json:"status"`
	ValidationSteps []validationStep `json:"validationSteps"`
}

type validationStep struct {
	Name   string    `json:"name"`
	Status string    `json:"status"`
	Error  *apiError `json:"error"`
}

type cancelRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
