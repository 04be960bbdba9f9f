package notify

import (
	"context"
	"fmt"

	"github.com/ncruces/zenity"
)

// DialogNotifier shows a modal info dialog and blocks until it is dismissed.
type DialogNotifier struct {
	title string
}

func NewDialogNotifier(title string) *DialogNotifier {
	return &DialogNotifier{title: title}
}

func (n *DialogNotifier) Notify(ctx context.Context, message string) error {
	err := zenity.Info(message,
		zenity.Title(n.title),
		zenity.InfoIcon,
		zenity.Context(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to show dialog: %w", err)
	}
	return nil
}
