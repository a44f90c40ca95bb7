package form

import "context"

// Decision is the answer to a confirmation prompt.
type Decision int

const (
	Declined Decision = iota
	Confirmed
)

func (d Decision) String() string {
	if d == Confirmed {
		return "confirmed"
	}
	return "declined"
}

// Confirmer asks the user a yes/no question before a destructive action.
// Implementations may block (a terminal prompt) but must honour ctx.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (Decision, error)
}

// ConfirmFunc adapts a plain function to the Confirmer interface.
type ConfirmFunc func(ctx context.Context, prompt string) (Decision, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (Decision, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm says yes without asking. Used where the request itself is
// the confirmation, e.g. an HTTP DELETE.
var AlwaysConfirm Confirmer = ConfirmFunc(func(ctx context.Context, _ string) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Declined, err
	}
	return Confirmed, nil
})
