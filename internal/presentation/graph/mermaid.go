package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/nova/pkg/domain"
)

// Overlay contains session data to visualize on the graph.
type Overlay struct {
	Visited []domain.StepName
	Current domain.StepName
}

// GenerateMermaid produces a Mermaid flowchart of the dialog.
// Shapes:
// - intro: ((Circle))
// - feedback: ([Stadium])
// - other steps: [Rectangle]
// - side effects (download, navigation, close, history): {{Hexagon}} or [(Cylinder)]
// Back options point at a shared history node since their target is only known at run time.
func GenerateMermaid(steps []domain.Step, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	effects := map[string]string{}
	var effectOrder []string
	effect := func(id, shape string) string {
		if _, ok := effects[id]; !ok {
			effects[id] = shape
			effectOrder = append(effectOrder, id)
		}
		return id
	}

	for _, step := range steps {
		id := sanitizeMermaidID(string(step.Name))

		opener, closer := "[", "]"
		switch step.Name {
		case domain.StepIntro:
			opener, closer = "((", "))"
		case domain.StepFeedback:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, step.Name, closer)

		for _, opt := range step.Options {
			label := escapeLabel(opt.Label)
			a := opt.Action
			switch a.Kind {
			case domain.ActionGoToStep:
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, sanitizeMermaidID(string(a.Step)))
			case domain.ActionGoBack:
				to := effect("history", `[("history")]`)
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, label, to)
			case domain.ActionDownloadAsset:
				to := effect("download", `{{"download asset"}}`)
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, to)
			case domain.ActionNavigateTo:
				anchor := strings.TrimPrefix(a.Anchor, "#")
				to := effect("nav_"+sanitizeMermaidID(anchor), fmt.Sprintf(`{{"%s"}}`, escapeLabel(a.Anchor)))
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, to)
			case domain.ActionSubmitFeedback, domain.ActionDismiss:
				to := effect("close", `(("close"))`)
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, to)
			}
		}
	}

	for _, id := range effectOrder {
		fmt.Fprintf(&sb, "    %s%s\n", id, effects[id])
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text keeps contrast on light fills in both themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			id := sanitizeMermaidID(string(name))
			if id == "" || seen[id] || name == overlay.Current {
				continue
			}
			seen[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", id)
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(string(overlay.Current)))
		}
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(id)
}
