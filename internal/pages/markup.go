package pages

import (
	"context"
	"strings"

	"github.com/a-h/templ"
)

// Component renders c into Markup for use as template data.
func Component(ctx context.Context, c templ.Component) (Markup, error) {
	var b strings.Builder
	if err := c.Render(ctx, &b); err != nil {
		return "", err
	}
	return Markup(b.String()), nil
}
