package eta

import "github.com/jhoicas/eta-einvoice/internal/domain/entity"

// transitions grafo de sub-estados ETA. Solo avanza; invalid y cancelled son terminales.
// rejected admite un nuevo intento tras corregir la factura.
var transitions = map[string][]string{
	entity.ETAStatusNone:      {entity.ETAStatusPending, entity.ETAStatusSubmitted, entity.ETAStatusRejected},
	entity.ETAStatusPending:   {entity.ETAStatusPending, entity.ETAStatusSubmitted, entity.ETAStatusRejected},
	entity.ETAStatusSubmitted: {entity.ETAStatusValid, entity.ETAStatusInvalid, entity.ETAStatusRejected},
	entity.ETAStatusValid:     {entity.ETAStatusCancelled, entity.ETAStatusRejected},
	entity.ETAStatusRejected:  {entity.ETAStatusPending, entity.ETAStatusSubmitted, entity.ETAStatusRejected},
}

// CanTransition indica si el sub-estado puede pasar de from a to.
// Un estado vacío se trata como "none".
func CanTransition(from, to string) bool {
	if from == "" {
		from = entity.ETAStatusNone
	}
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal indica si no hay transiciones posibles desde s.
func IsTerminal(s string) bool {
	return len(transitions[s]) == 0 && s != ""
}
