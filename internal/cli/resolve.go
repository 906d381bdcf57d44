package cli

import (
	"context"
	"fmt"
	"strings"
)

// resolveID maps user input to a full id: an exact match wins, otherwise a
// unique prefix. Listings show truncated ids, so prefixes are the common
// input.
func resolveID(kind, input string, ids []string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%s ID is required", kind)
	}
	var matches []string
	for _, id := range ids {
		if id == input {
			return id, nil
		}
		if strings.HasPrefix(id, input) {
			matches = append(matches, id)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", kind, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", kind, input, len(matches))
	}
}

func resolveFlowID(ctx context.Context, app *App, input string) (string, error) {
	flows, err := app.Flows.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(flows))
	for i, f := range flows {
		ids[i] = f.ID
	}
	return resolveID("flow", input, ids)
}

func resolveBoardID(ctx context.Context, app *App, input string) (string, error) {
	boards, err := app.Boards.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(boards))
	for i, b := range boards {
		ids[i] = b.ID
	}
	return resolveID("board", input, ids)
}

func resolveTemplateID(ctx context.Context, app *App, input string) (string, error) {
	templates, err := app.Templates.List(ctx)
	if err != nil {
		return "", err
	}
	ids := make([]string, len(templates))
	for i, t := range templates {
		ids[i] = t.ID
	}
	return resolveID("template", input, ids)
}
