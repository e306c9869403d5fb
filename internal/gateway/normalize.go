package gateway

import "strings"

// Per-provider status tables. Lookups are lower-cased; anything absent from
// a table resolves to StatusPending so normalization never fails the
// pipeline on an unknown vocabulary entry.

var asaasStatusTable = map[string]Status{
	"pending":                      StatusPending,
	"awaiting_payment":             StatusPending,
	"awaiting_risk_analysis":       StatusPending,
	"received_in_cash":             StatusPaid,
	"confirmed":                    StatusPaid,
	"paid":                         StatusPaid,
	"overdue":                      StatusExpired,
	"cancelled":                    StatusCancelled,
	"refunded":                     StatusRefunded,
	"received_in_cash_undone":      StatusCancelled,
	"chargeback_requested":         StatusCancelled,
	"chargeback_dispute":           StatusCancelled,
	"awaiting_chargeback_reversal": StatusCancelled,
	"dunning_requested":            StatusFailed,
	"dunning_received":             StatusFailed,
}

var mercadoPagoStatusTable = map[string]Status{
	"pending":      StatusPending,
	"approved":     StatusPaid,
	"authorized":   StatusPaid,
	"in_process":   StatusPending,
	"in_mediation": StatusPending,
	"rejected":     StatusFailed,
	"cancelled":    StatusCancelled,
	"refunded":     StatusRefunded,
	"charged_back": StatusCancelled,
}

var stripeStatusTable = map[string]Status{
	"incomplete":              StatusPending,
	"incomplete_expired":      StatusExpired,
	"trialing":                StatusPending,
	"active":                  StatusPaid,
	"past_due":                StatusExpired,
	"canceled":                StatusCancelled,
	"unpaid":                  StatusFailed,
	"requires_payment_method": StatusPending,
	"requires_confirmation":   StatusPending,
	"requires_action":         StatusPending,
	"processing":              StatusPending,
	"requires_capture":        StatusPending,
	"succeeded":               StatusPaid,
}

// genericStatusTable is the shared default available to any adapter without
// a richer provider-specific mapping.
var genericStatusTable = map[string]Status{
	"pending":    StatusPending,
	"paid":       StatusPaid,
	"completed":  StatusPaid,
	"approved":   StatusPaid,
	"confirmed":  StatusPaid,
	"success":    StatusPaid,
	"successful": StatusPaid,
	"cancelled":  StatusCancelled,
	"canceled":   StatusCancelled,
	"failed":     StatusFailed,
	"rejected":   StatusFailed,
	"declined":   StatusFailed,
	"error":      StatusFailed,
	"expired":    StatusExpired,
	"timeout":    StatusExpired,
	"refunded":   StatusRefunded,
	"reversed":   StatusRefunded,
}

var statusTables = map[string]map[string]Status{
	"asaas":       asaasStatusTable,
	"mercadopago": mercadoPagoStatusTable,
	"stripe":      stripeStatusTable,
}

// NormalizeStatus maps a provider status string to the canonical vocabulary.
// Total over all inputs: unknown provider types fall back to the generic
// table and unknown statuses resolve to StatusPending.
func NormalizeStatus(gatewayType, status string) Status {
	table, ok := statusTables[strings.ToLower(gatewayType)]
	if !ok {
		table = genericStatusTable
	}
	if s, ok := table[strings.ToLower(status)]; ok {
		return s
	}
	return StatusPending
}

var asaasEventTable = map[string]string{
	"payment_created":                      EventPaymentCreated,
	"payment_confirmed":                    EventPaymentConfirmed,
	"payment_received":                     EventPaymentPaid,
	"payment_overdue":                      EventPaymentExpired,
	"payment_deleted":                      EventPaymentCancelled,
	"payment_refunded":                     EventPaymentRefunded,
	"payment_received_in_cash_undone":      EventPaymentCancelled,
	"payment_chargeback_requested":         EventChargebackCreated,
	"payment_awaiting_chargeback_reversal": EventChargebackCreated,
	"transaction_created":                  EventTransactionCreated,
	"transaction_paid":                     EventTransactionPaid,
	"transaction_failed":                   EventTransactionFailed,
}

var mercadoPagoEventTable = map[string]string{
	"payment":         EventPaymentCreated,
	"payment.created": EventPaymentCreated,
	"payment.updated": EventPaymentConfirmed,
	"merchant_order":  EventPaymentCreated,
	"plan":            EventSubscriptionCreated,
	"subscription":    EventSubscriptionCreated,
	"preapproval":     EventSubscriptionCreated,
	"invoice":         EventPaymentCreated,
}

var stripeEventTable = map[string]string{
	"payment_intent.created":        EventPaymentCreated,
	"payment_intent.succeeded":      EventPaymentPaid,
	"payment_intent.payment_failed": EventPaymentFailed,
	"payment_intent.canceled":       EventPaymentCancelled,
	"charge.succeeded":              EventPaymentPaid,
	"charge.failed":                 EventPaymentFailed,
	"charge.dispute.created":        EventChargebackCreated,
	"invoice.payment_succeeded":     EventPaymentPaid,
	"invoice.payment_failed":        EventPaymentFailed,
	"customer.subscription.created": EventSubscriptionCreated,
	"customer.subscription.deleted": EventSubscriptionCancelled,
}

var genericEventTable = map[string]string{
	"created":   EventPaymentCreated,
	"paid":      EventPaymentPaid,
	"confirmed": EventPaymentConfirmed,
	"failed":    EventPaymentFailed,
	"cancelled": EventPaymentCancelled,
	"canceled":  EventPaymentCancelled,
	"refunded":  EventPaymentRefunded,
	"expired":   EventPaymentExpired,
}

var eventTables = map[string]map[string]string{
	"asaas":       asaasEventTable,
	"mercadopago": mercadoPagoEventTable,
	"stripe":      stripeEventTable,
}

// NormalizeEventType maps a provider event-type string to the canonical
// convention, defaulting unknown entries to payment.created.
func NormalizeEventType(gatewayType, eventType string) string {
	table, ok := eventTables[strings.ToLower(gatewayType)]
	if !ok {
		table = genericEventTable
	}
	if e, ok := table[strings.ToLower(eventType)]; ok {
		return e
	}
	return EventPaymentCreated
}
