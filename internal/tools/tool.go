// Package tools turns pointer gestures into raster mutations.
package tools

import (
	"fmt"
	"strings"
)

// Tool identifies a drawing tool.
type Tool int

const (
	ToolBrush Tool = iota
	ToolLine
	ToolEraser
	ToolRectangle
	ToolCircle
	ToolPolygon
	ToolGradient
	ToolSpray
	ToolFill
	ToolText
)

var toolNames = []string{"brush", "line", "eraser", "rectangle", "circle", "polygon", "gradient", "spray", "fill", "text"}

func (t Tool) String() string {
	if t < 0 || int(t) >= len(toolNames) {
		return fmt.Sprintf("Tool(%d)", int(t))
	}
	return toolNames[t]
}

// Tools lists every tool in toolbar order.
func Tools() []Tool {
	out := make([]Tool, len(toolNames))
	for i := range out {
		out[i] = Tool(i)
	}
	return out
}

// ParseTool resolves a tool name. "rect" and "pencil" are accepted as
// shorthands.
func ParseTool(s string) (Tool, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "rect":
		return ToolRectangle, nil
	case "pencil", "draw":
		return ToolBrush, nil
	}
	for i, n := range toolNames {
		if n == s {
			return Tool(i), nil
		}
	}
	return ToolBrush, fmt.Errorf("unknown tool %q", s)
}
