package audit

import "fmt"

// Action enumerates every auditable action kind. Adding an action without
// extending the category switch below is a runtime error at Record time,
// forcing an explicit category decision.
type Action string

const (
	ActionTransactionCreated      Action = "transaction_created"
	ActionNoteAdded               Action = "note_added"
	ActionTaskCompleted           Action = "task_completed"
	ActionMessageSent             Action = "message_sent"
	ActionDocumentUploaded        Action = "document_uploaded"
	ActionDocumentViewed          Action = "document_viewed"
	ActionLoanUpdated             Action = "loan_updated"
	ActionPayoffStatementCreated  Action = "payoff_statement_created"
	ActionSettingsUpdated         Action = "settings_updated"
	ActionPasswordResetRequested  Action = "password_reset_requested"
	ActionPasswordResetCompleted  Action = "password_reset_completed"
)

// Audit categories.
const (
	CategoryPayment       = "payment"
	CategoryInternal      = "internal"
	CategoryCommunication = "communication"
	CategoryDocument      = "document"
	CategoryLoan          = "loan"
	CategorySecurity      = "security"
)

// Category maps an action to its audit category. The switch is exhaustive
// over the Action constants; an unknown action is an error, never a guess.
func (a Action) Category() (string, error) {
	switch a {
	case ActionTransactionCreated:
		return CategoryPayment, nil
	case ActionNoteAdded, ActionTaskCompleted:
		return CategoryInternal, nil
	case ActionMessageSent:
		return CategoryCommunication, nil
	case ActionDocumentUploaded, ActionDocumentViewed:
		return CategoryDocument, nil
	case ActionLoanUpdated, ActionPayoffStatementCreated, ActionSettingsUpdated:
		return CategoryLoan, nil
	case ActionPasswordResetRequested, ActionPasswordResetCompleted:
		return CategorySecurity, nil
	default:
		return "", fmt.Errorf("no audit category for action %q", a)
	}
}
