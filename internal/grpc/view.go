package grpc

import (
	"github.com/godilite/histogram-browser/internal/cascade"
	"github.com/godilite/histogram-browser/internal/widget"
	"google.golang.org/protobuf/types/known/structpb"
)

// ViewToStruct encodes a widget view as the service response message.
func ViewToStruct(v widget.View) (*structpb.Struct, error) {
	values := make(map[string]any, len(v.Values))
	for _, cell := range v.Values {
		values[cell.Name] = cell.Value.String()
	}

	m := map[string]any{
		"status":      string(v.Status),
		"course":      v.Course,
		"message":     v.Message,
		"activated":   v.Activated,
		"columnClass": v.ColumnClass,
		"fallbackUrl": v.FallbackURL,
		"shareLink":   v.ShareLink,
		"semesters":   optionsToList(v.Semesters),
		"categories":  optionsToList(v.Categories),
		"values":      values,
		"imageUrl":    v.ImageURL,
	}
	if v.Guide != nil {
		m["guide"] = guideToMap(v.Guide)
	}
	if v.CopyText != "" {
		m["copyText"] = v.CopyText
	}
	return structpb.NewStruct(m)
}

func optionsToList(opts []cascade.Option) []any {
	out := make([]any, 0, len(opts))
	for _, o := range opts {
		out = append(out, map[string]any{
			"value":    o.Value,
			"text":     o.Text,
			"selected": o.Selected,
		})
	}
	return out
}

func guideToMap(g *widget.GuideView) map[string]any {
	buttons := make([]any, 0, len(g.Buttons))
	for _, b := range g.Buttons {
		buttons = append(buttons, map[string]any{"label": b.Label, "action": b.Action})
	}
	return map[string]any{
		"mode":     string(g.Mode),
		"title":    g.Title,
		"url":      g.URL,
		"code":     g.Code,
		"siteUrl":  g.SiteURL,
		"features": g.Features,
		"width":    g.Width,
		"height":   g.Height,
		"buttons":  buttons,
	}
}
